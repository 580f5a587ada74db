package validate

import (
	"strings"
	"testing"
)

func TestUsername(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "alice", false},
		{"digits and underscore", "alice_42", false},
		{"empty", "", true},
		{"too long", strings.Repeat("a", MaxUsernameLen+1), true},
		{"dot", "alice.b", true},
		{"at sign", "alice@host", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Username(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("Username(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestIRI(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"https://remote.example/users/bob", false},
		{"http://localhost:8080/ap/users/alice", false},
		{"mailto:bob@remote.example", true},
		{"/relative/path", true},
		{"https://", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := IRI(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("IRI(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
