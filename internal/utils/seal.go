package utils

import (
	"bytes"
	"fmt"
	"io"

	"filippo.io/age"
)

// SealKey encrypts a private key with the key-encryption key using age's scrypt recipient.
func SealKey(privatePem, kek string, workFactor int) ([]byte, error) {
	recipient, err := age.NewScryptRecipient(kek)
	if err != nil {
		return nil, fmt.Errorf("creating scrypt recipient: %w", err)
	}
	if workFactor > 0 {
		recipient.SetWorkFactor(workFactor)
	}

	var buf bytes.Buffer
	w, err := age.Encrypt(&buf, recipient)
	if err != nil {
		return nil, err
	}
	if _, err = io.WriteString(w, privatePem); err != nil {
		return nil, err
	}
	if err = w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// OpenKey reverses SealKey.
func OpenKey(sealed []byte, kek string) ([]byte, error) {
	identity, err := age.NewScryptIdentity(kek)
	if err != nil {
		return nil, fmt.Errorf("creating scrypt identity: %w", err)
	}
	r, err := age.Decrypt(bytes.NewReader(sealed), identity)
	if err != nil {
		return nil, fmt.Errorf("unsealing private key: %w", err)
	}
	return io.ReadAll(r)
}
