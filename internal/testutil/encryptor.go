package testutil

import (
	"aw-go/internal/aw"
	"aw-go/internal/encryption"
)

// NewTestEncryptor creates a new test encryptor for testing.
func NewTestEncryptor() aw.Encryptor {
	return encryption.NewTestEncryptor()
}
