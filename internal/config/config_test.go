package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestReadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gofederate.yaml")
	content := []byte("domain: social.example\nhttps: false\nuser_kek: secret\nqueue_workers: 3\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := ReadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Url.String() != "http://social.example" {
		t.Errorf("expected url http://social.example, got %s", cfg.Url)
	}
	if cfg.QueueWorkers != 3 {
		t.Errorf("expected 3 queue workers, got %d", cfg.QueueWorkers)
	}
	if !cfg.AutoAcceptFollows {
		t.Error("expected follows to be auto accepted by default")
	}
	if cfg.KeyWorkFactor != DefaultKeyWorkFactor {
		t.Errorf("expected default work factor %d, got %d", DefaultKeyWorkFactor, cfg.KeyWorkFactor)
	}
}

func TestReadConfig_MissingDomain(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gofederate.yaml")
	if err := os.WriteFile(path, []byte("user_kek: secret\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := ReadConfig(path); err == nil {
		t.Error("expected an error for a configuration without a domain")
	}
}
