// Package cryptox implements the password-based cipher used for credential
// fields at rest.
//
// One call to Encrypt produces a self-contained blob:
//
//	base64( salt(16) || nonce(12) || ciphertext+tag )
//
// The key is derived from the master secret with PBKDF2-SHA256 using the
// per-blob salt, so blobs are portable: everything needed for decryption
// except the secret itself travels inside the blob.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"regexp"

	"github.com/dmitrijs2005/loginkeeper/internal/common"
	"golang.org/x/crypto/pbkdf2"
)

const (
	// SaltSize is the number of random salt bytes prepended to every blob.
	SaltSize = 16
	// NonceSize is the AES-GCM nonce length in bytes.
	NonceSize = 12
	// KeySize is the derived AES key length (AES-256).
	KeySize = 32
	// Iterations is the PBKDF2 iteration count.
	Iterations = 100_000
)

// minBlobSize is the decoded size of a blob carrying an empty plaintext:
// salt, nonce and the 16-byte GCM tag.
const minBlobSize = SaltSize + NonceSize + 16

var base64Shape = regexp.MustCompile(`^[A-Za-z0-9+/]+={0,2}$`)

// DeriveKey stretches the master secret into an AES-256 key using
// PBKDF2-SHA256 with the given salt. Same inputs always yield the same key.
func DeriveKey(masterSecret string, salt []byte) []byte {
	return pbkdf2.Key([]byte(masterSecret), salt, Iterations, KeySize, sha256.New)
}

// Encrypt encrypts plaintext under a key derived from masterSecret.
//
// A fresh random salt and nonce are generated on every call, so encrypting
// the same plaintext twice yields two different blobs, both of which decrypt
// back to the original under the same secret.
func Encrypt(plaintext string, masterSecret string) (string, error) {
	salt := common.GenerateRandByteArray(SaltSize)
	nonce := common.GenerateRandByteArray(NonceSize)

	key := DeriveKey(masterSecret, salt)
	defer common.WipeByteArray(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", fmt.Errorf("cipher init: %w", err)
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("gcm init: %w", err)
	}

	ciphertext := aesgcm.Seal(nil, nonce, []byte(plaintext), nil)

	blob := make([]byte, 0, SaltSize+NonceSize+len(ciphertext))
	blob = append(blob, salt...)
	blob = append(blob, nonce...)
	blob = append(blob, ciphertext...)

	return base64.StdEncoding.EncodeToString(blob), nil
}

// Decrypt reverses Encrypt. It splits the decoded blob into salt, nonce and
// ciphertext, derives the key from the recovered salt and the given secret,
// and opens the ciphertext.
//
// A malformed blob or an authentication-tag mismatch (wrong secret, tampered
// data) yields an error wrapping common.ErrDecryptionFailed. Callers must not
// substitute a fallback plaintext in that case.
func Decrypt(blob string, masterSecret string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		return "", fmt.Errorf("%w: %w", common.ErrDecryptionFailed, err)
	}
	if len(data) < minBlobSize {
		return "", fmt.Errorf("%w: blob too short", common.ErrDecryptionFailed)
	}

	salt := data[:SaltSize]
	nonce := data[SaltSize : SaltSize+NonceSize]
	ciphertext := data[SaltSize+NonceSize:]

	key := DeriveKey(masterSecret, salt)
	defer common.WipeByteArray(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", fmt.Errorf("cipher init: %w", err)
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("gcm init: %w", err)
	}

	plaintext, err := aesgcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %w", common.ErrDecryptionFailed, err)
	}

	return string(plaintext), nil
}

// IsLikelyEncoded reports whether value looks like a blob produced by
// Encrypt: non-empty, standard base64 alphabet and padding, length a
// multiple of four.
//
// This is a heuristic, not a format tag. A legacy plaintext password that
// happens to be base64-shaped is misclassified; decryption will then fail
// and higher layers return the value unchanged, so the misclassification is
// observable only as wasted work.
func IsLikelyEncoded(value string) bool {
	if value == "" || len(value)%4 != 0 {
		return false
	}
	return base64Shape.MatchString(value)
}
