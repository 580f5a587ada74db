package utils

import (
	"crypto/x509"
	"encoding/pem"
	"testing"
)

func TestSealOpenKey(t *testing.T) {
	pub, priv, err := GenerateKeysPem(1024)
	if err != nil {
		t.Fatalf("generating keys: %v", err)
	}

	sealed, err := SealKey(priv, "correct horse", 10)
	if err != nil {
		t.Fatalf("sealing: %v", err)
	}

	opened, err := OpenKey(sealed, "correct horse")
	if err != nil {
		t.Fatalf("opening: %v", err)
	}

	key, err := ParsePrivateKeyPem(opened)
	if err != nil {
		t.Fatalf("parsing opened key: %v", err)
	}

	pubKey, err := ParsePublicKeyPem(pub)
	if err != nil {
		t.Fatalf("parsing public key: %v", err)
	}
	if !key.PublicKey.Equal(pubKey) {
		t.Error("opened private key does not match the public key")
	}

	if _, err = OpenKey(sealed, "wrong"); err == nil {
		t.Error("expected opening with the wrong KEK to fail")
	}
}

func TestParsePublicKeyPem(t *testing.T) {
	_, priv, err := GenerateKeysPem(1024)
	if err != nil {
		t.Fatalf("generating keys: %v", err)
	}
	key, err := ParsePrivateKeyPem([]byte(priv))
	if err != nil {
		t.Fatalf("parsing private key: %v", err)
	}

	pkcs1 := string(pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PUBLIC KEY",
		Bytes: x509.MarshalPKCS1PublicKey(&key.PublicKey),
	}))

	tests := []struct {
		name    string
		data    string
		wantErr bool
	}{
		{"pkcs1", pkcs1, false},
		{"not pem", "garbage", true},
		{"wrong block", priv, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pub, err := ParsePublicKeyPem(tt.data)
			if tt.wantErr {
				if err == nil {
					t.Error("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !key.PublicKey.Equal(pub) {
				t.Error("parsed key does not match")
			}
		})
	}
}
