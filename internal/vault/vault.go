// Package vault encrypts provider API keys for storage. It is the only code
// in the repository that handles credential plaintext.
package vault

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/scrypt"
)

const (
	saltSize = 16
	// AES-GCM standard nonce size.
	nonceSize = 12
	tagSize   = 16
	keySize   = 32
)

// ErrDecryptionFailed is returned for every decryption failure: bad base64,
// truncated token, tampered ciphertext or wrong key. Callers cannot tell
// which structural check failed, so the token format yields no oracle.
var ErrDecryptionFailed = errors.New("decryption failed")

// Vault derives a fresh AES-256 key per token from the configured secret and
// a random salt, so the secret may be any length.
type Vault struct {
	secret []byte
}

func New(secret string) (*Vault, error) {
	if secret == "" {
		return nil, errors.New("encryption secret is not set")
	}
	return &Vault{secret: []byte(secret)}, nil
}

// Encrypt seals plaintext under a per-call random salt and nonce and returns
// base64(salt || nonce || tag || ciphertext). Encrypting the same plaintext
// twice yields different tokens.
func (v *Vault) Encrypt(plaintext string) (string, error) {
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}
	nonce := make([]byte, nonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	gcm, err := v.aead(salt)
	if err != nil {
		return "", err
	}

	sealed := gcm.Seal(nil, nonce, []byte(plaintext), nil)
	ciphertext := sealed[:len(sealed)-tagSize]
	tag := sealed[len(sealed)-tagSize:]

	token := make([]byte, 0, saltSize+nonceSize+len(sealed))
	token = append(token, salt...)
	token = append(token, nonce...)
	token = append(token, tag...)
	token = append(token, ciphertext...)

	return base64.StdEncoding.EncodeToString(token), nil
}

// Decrypt reverses Encrypt. Any malformed or tampered token fails with
// ErrDecryptionFailed.
func (v *Vault) Decrypt(token string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return "", ErrDecryptionFailed
	}
	if len(raw) < saltSize+nonceSize+tagSize {
		return "", ErrDecryptionFailed
	}

	salt := raw[:saltSize]
	nonce := raw[saltSize : saltSize+nonceSize]
	tag := raw[saltSize+nonceSize : saltSize+nonceSize+tagSize]
	ciphertext := raw[saltSize+nonceSize+tagSize:]

	gcm, err := v.aead(salt)
	if err != nil {
		return "", ErrDecryptionFailed
	}

	sealed := make([]byte, 0, len(ciphertext)+tagSize)
	sealed = append(sealed, ciphertext...)
	sealed = append(sealed, tag...)

	plaintext, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", ErrDecryptionFailed
	}
	return string(plaintext), nil
}

func (v *Vault) aead(salt []byte) (cipher.AEAD, error) {
	key, err := scrypt.Key(v.secret, salt, 1<<15, 8, 1, keySize)
	if err != nil {
		return nil, fmt.Errorf("key derivation failed: %w", err)
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	return cipher.NewGCM(block)
}
