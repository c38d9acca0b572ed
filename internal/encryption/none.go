package encryption

import (
	"fmt"
	"io"

	"aw-go/internal/aw"
)

// NopEncryptor passes data through unchanged, for archives that do not
// need at-rest encryption.
type NopEncryptor struct{}

var _ aw.Encryptor = (*NopEncryptor)(nil)

// NewNopEncryptor creates a new NopEncryptor.
func NewNopEncryptor() *NopEncryptor {
	return &NopEncryptor{}
}

func (e *NopEncryptor) Encrypt(r io.Reader, w io.Writer) error {
	if _, err := io.Copy(w, r); err != nil {
		return fmt.Errorf("copying data: %w", err)
	}
	return nil
}

func (e *NopEncryptor) Decrypt(r io.Reader, w io.Writer) error {
	if _, err := io.Copy(w, r); err != nil {
		return fmt.Errorf("copying data: %w", err)
	}
	return nil
}
