package snapshot

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"
)

const (
	sealSaltLen  = 16
	sealNonceLen = 12
)

var errSealedBlob = errors.New("malformed sealed blob")

// deriveSealKey stretches the configured secret into an AES-256 key.
func deriveSealKey(secret string, salt []byte) []byte {
	return argon2.IDKey([]byte(secret), salt, 1, 64*1024, 4, 32)
}

// seal encrypts plaintext with a key derived from secret. Output layout:
// salt | nonce | ciphertext. A fresh salt is drawn per write so identical
// snapshots never produce identical blobs on disk.
func seal(secret string, plaintext []byte) ([]byte, error) {
	salt := make([]byte, sealSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}
	nonce := make([]byte, sealNonceLen)
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}
	block, err := aes.NewCipher(deriveSealKey(secret, salt))
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, sealSaltLen+sealNonceLen+len(plaintext)+aead.Overhead())
	out = append(out, salt...)
	out = append(out, nonce...)
	return aead.Seal(out, nonce, plaintext, nil), nil
}

// open reverses seal. Any structural or authentication failure is an error;
// callers treat it as a cache miss.
func open(secret string, blob []byte) ([]byte, error) {
	if len(blob) < sealSaltLen+sealNonceLen {
		return nil, errSealedBlob
	}
	salt := blob[:sealSaltLen]
	nonce := blob[sealSaltLen : sealSaltLen+sealNonceLen]
	block, err := aes.NewCipher(deriveSealKey(secret, salt))
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	plaintext, err := aead.Open(nil, nonce, blob[sealSaltLen+sealNonceLen:], nil)
	if err != nil {
		return nil, fmt.Errorf("open sealed blob: %w", err)
	}
	return plaintext, nil
}
