package kvstore

import (
	"crypto/rand"
	"errors"
	"fmt"

	"golang.org/x/crypto/nacl/secretbox"
	"golang.org/x/crypto/scrypt"
)

const (
	saltSize  = 16
	nonceSize = 24
	keySize   = 32
)

// scrypt cost parameter; lowered in tests
var scryptN = 1 << 15

// ErrDecrypt is returned when a sealed file cannot be opened with the passphrase
var ErrDecrypt = errors.New("failed to decrypt session file (wrong passphrase?)")

// NewSealed returns a file store whose contents are encrypted with a key
// derived from passphrase. Layout on disk: salt | nonce | secretbox(json).
func NewSealed(path, passphrase string) (*File, error) {
	if passphrase == "" {
		return nil, fmt.Errorf("encrypted storage requires a passphrase (set DEBTDESK_PASSPHRASE)")
	}
	return &File{path: path, codec: secretboxCodec{passphrase: []byte(passphrase)}}, nil
}

type secretboxCodec struct {
	passphrase []byte
}

func (c secretboxCodec) deriveKey(salt []byte) (*[keySize]byte, error) {
	derived, err := scrypt.Key(c.passphrase, salt, scryptN, 8, 1, keySize)
	if err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}
	var key [keySize]byte
	copy(key[:], derived)
	return &key, nil
}

func (c secretboxCodec) seal(plain []byte) ([]byte, error) {
	header := make([]byte, saltSize+nonceSize)
	if _, err := rand.Read(header); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	key, err := c.deriveKey(header[:saltSize])
	if err != nil {
		return nil, err
	}

	var nonce [nonceSize]byte
	copy(nonce[:], header[saltSize:])

	return secretbox.Seal(header, plain, &nonce, key), nil
}

func (c secretboxCodec) open(sealed []byte) ([]byte, error) {
	if len(sealed) < saltSize+nonceSize+secretbox.Overhead {
		return nil, ErrDecrypt
	}

	key, err := c.deriveKey(sealed[:saltSize])
	if err != nil {
		return nil, err
	}

	var nonce [nonceSize]byte
	copy(nonce[:], sealed[saltSize:saltSize+nonceSize])

	plain, ok := secretbox.Open(nil, sealed[saltSize+nonceSize:], &nonce, key)
	if !ok {
		return nil, ErrDecrypt
	}
	return plain, nil
}
