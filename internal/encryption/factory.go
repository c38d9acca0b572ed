package encryption

import (
	"fmt"
	"os"

	"golang.org/x/term"

	"aw-go/internal/aw"
	"aw-go/internal/config"
)

// NewEncryptorFromConfig creates an Encryptor based on the configuration type.
// Type "age" with no configured passphrase prompts on the terminal the
// first time encryption or decryption actually happens.
func NewEncryptorFromConfig(cfg config.EncryptionConfig) (aw.Encryptor, error) {
	switch cfg.Type {
	case "none", "":
		return NewNopEncryptor(), nil
	case "age":
		if cfg.Passphrase != "" {
			return NewAgeEncryptor(cfg.Passphrase), nil
		}
		return NewAgeEncryptorWithPrompt(promptPassphrase), nil
	case "test":
		return NewTestEncryptor(), nil
	default:
		return nil, fmt.Errorf("unknown encryption type: %q", cfg.Type)
	}
}

// promptPassphrase reads a passphrase from the controlling terminal
// without echo.
func promptPassphrase() (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("no passphrase configured and stdin is not a terminal")
	}
	fmt.Fprint(os.Stderr, "Passphrase: ")
	data, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading passphrase: %w", err)
	}
	return string(data), nil
}
