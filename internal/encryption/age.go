package encryption

import (
	"fmt"
	"io"
	"sync"

	"filippo.io/age"

	"aw-go/internal/aw"
)

// AgeEncryptor implements aw.Encryptor using filippo.io/age with
// scrypt-based passphrase encryption. The passphrase is resolved lazily
// on first use, so operations that never touch the archive never prompt.
type AgeEncryptor struct {
	resolve func() (string, error)

	once       sync.Once
	passphrase string
	resolveErr error
}

var _ aw.Encryptor = (*AgeEncryptor)(nil)

// NewAgeEncryptor creates an AgeEncryptor with a fixed passphrase.
func NewAgeEncryptor(passphrase string) *AgeEncryptor {
	return &AgeEncryptor{resolve: func() (string, error) {
		return passphrase, nil
	}}
}

// NewAgeEncryptorWithPrompt creates an AgeEncryptor that obtains its
// passphrase from resolve the first time it is needed.
func NewAgeEncryptorWithPrompt(resolve func() (string, error)) *AgeEncryptor {
	return &AgeEncryptor{resolve: resolve}
}

// Encrypt reads plaintext from r and writes age-encrypted ciphertext to w.
func (e *AgeEncryptor) Encrypt(r io.Reader, w io.Writer) error {
	passphrase, err := e.currentPassphrase()
	if err != nil {
		return err
	}
	recipient, err := age.NewScryptRecipient(passphrase)
	if err != nil {
		return fmt.Errorf("creating scrypt recipient: %w", err)
	}

	encWriter, err := age.Encrypt(w, recipient)
	if err != nil {
		return fmt.Errorf("creating encrypted writer: %w", err)
	}

	if _, err := io.Copy(encWriter, r); err != nil {
		return fmt.Errorf("encrypting data: %w", err)
	}

	if err := encWriter.Close(); err != nil {
		return fmt.Errorf("finalizing encryption: %w", err)
	}

	return nil
}

// Decrypt reads age-encrypted ciphertext from r and writes plaintext to w.
func (e *AgeEncryptor) Decrypt(r io.Reader, w io.Writer) error {
	passphrase, err := e.currentPassphrase()
	if err != nil {
		return err
	}
	identity, err := age.NewScryptIdentity(passphrase)
	if err != nil {
		return fmt.Errorf("creating scrypt identity: %w", err)
	}

	decReader, err := age.Decrypt(r, identity)
	if err != nil {
		return fmt.Errorf("creating decrypted reader: %w", err)
	}

	if _, err := io.Copy(w, decReader); err != nil {
		return fmt.Errorf("decrypting data: %w", err)
	}

	return nil
}

func (e *AgeEncryptor) currentPassphrase() (string, error) {
	e.once.Do(func() {
		e.passphrase, e.resolveErr = e.resolve()
		if e.resolveErr == nil && e.passphrase == "" {
			e.resolveErr = fmt.Errorf("empty passphrase")
		}
	})
	if e.resolveErr != nil {
		return "", fmt.Errorf("resolving passphrase: %w", e.resolveErr)
	}
	return e.passphrase, nil
}
