package session

import (
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"io"
	"os"

	"golang.org/x/crypto/chacha20poly1305"
)

// ErrEmptyVault signals that no session has been persisted yet. Stores treat
// it (and any decode failure) as absence, never as a hard error.
var ErrEmptyVault = errors.New("session vault is empty")

// Vault is the persistence port behind the session store: raw bytes in, raw
// bytes out, no knowledge of session shape.
type Vault interface {
	Read() ([]byte, error)
	Write(data []byte) error
	Clear() error
}

// fileVault persists the session to a single file, sealed at rest so a
// stolen token file is not directly usable.
type fileVault struct {
	path string
	key  []byte
}

// NewFileVault builds a file-backed vault. The sealing key is derived from
// the configured secret.
func NewFileVault(path, secret string) Vault {
	key := sha256.Sum256([]byte(secret))
	return &fileVault{path: path, key: key[:]}
}

func (v *fileVault) Read() ([]byte, error) {
	sealed, err := os.ReadFile(v.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrEmptyVault
		}
		return nil, err
	}
	return v.open(sealed)
}

func (v *fileVault) Write(data []byte) error {
	sealed, err := v.seal(data)
	if err != nil {
		return err
	}
	return os.WriteFile(v.path, sealed, 0o600)
}

func (v *fileVault) Clear() error {
	err := os.Remove(v.path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (v *fileVault) seal(data []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(v.key)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return aead.Seal(nonce, nonce, data, nil), nil
}

func (v *fileVault) open(sealed []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(v.key)
	if err != nil {
		return nil, err
	}
	if len(sealed) < aead.NonceSize() {
		return nil, ErrEmptyVault
	}
	nonce, ciphertext := sealed[:aead.NonceSize()], sealed[aead.NonceSize():]
	plain, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		// Wrong key or corrupt file: treat as absent.
		return nil, ErrEmptyVault
	}
	return plain, nil
}
