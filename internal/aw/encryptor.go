package aw

import "io"

// Encryptor encrypts archived reports at rest. Both directions stream
// from r into w.
type Encryptor interface {
	Encrypt(r io.Reader, w io.Writer) error
	Decrypt(r io.Reader, w io.Writer) error
}
