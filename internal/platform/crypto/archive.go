package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"io"

	"golang.org/x/crypto/scrypt"
)

// Sealed archives frame AES-GCM ciphertext as magic || salt || nonce || data,
// with the key derived from the configured passphrase via scrypt.
var archiveMagic = []byte("PTBK1")

const (
	saltSize = 16
	scryptN  = 1 << 15
	scryptR  = 8
	scryptP  = 1
	keySize  = 32
)

var (
	ErrNotConfigured = errors.New("backup encryption passphrase is not configured")
	ErrNotSealed     = errors.New("data is not a sealed archive")
	ErrOpenFailed    = errors.New("sealed archive could not be opened (wrong passphrase or corrupt data)")
)

type Archiver struct {
	passphrase []byte
}

func NewArchiver(passphrase string) *Archiver {
	if passphrase == "" {
		return &Archiver{}
	}
	return &Archiver{passphrase: []byte(passphrase)}
}

func (a *Archiver) Configured() bool {
	return len(a.passphrase) > 0
}

func IsSealed(blob []byte) bool {
	return len(blob) > len(archiveMagic) && string(blob[:len(archiveMagic)]) == string(archiveMagic)
}

func (a *Archiver) Seal(plain []byte) ([]byte, error) {
	if !a.Configured() {
		return nil, ErrNotConfigured
	}

	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, err
	}

	gcm, err := a.cipherFor(salt)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	out := make([]byte, 0, len(archiveMagic)+len(salt)+len(nonce)+len(plain)+gcm.Overhead())
	out = append(out, archiveMagic...)
	out = append(out, salt...)
	out = append(out, nonce...)
	out = gcm.Seal(out, nonce, plain, nil)
	return out, nil
}

func (a *Archiver) Open(blob []byte) ([]byte, error) {
	if !IsSealed(blob) {
		return nil, ErrNotSealed
	}
	if !a.Configured() {
		return nil, ErrNotConfigured
	}

	body := blob[len(archiveMagic):]
	if len(body) < saltSize {
		return nil, ErrOpenFailed
	}
	salt := body[:saltSize]

	gcm, err := a.cipherFor(salt)
	if err != nil {
		return nil, err
	}

	rest := body[saltSize:]
	if len(rest) < gcm.NonceSize() {
		return nil, ErrOpenFailed
	}
	nonce := rest[:gcm.NonceSize()]

	plain, err := gcm.Open(nil, nonce, rest[gcm.NonceSize():], nil)
	if err != nil {
		return nil, ErrOpenFailed
	}
	return plain, nil
}

func (a *Archiver) cipherFor(salt []byte) (cipher.AEAD, error) {
	key, err := scrypt.Key(a.passphrase, salt, scryptN, scryptR, scryptP, keySize)
	if err != nil {
		return nil, err
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
