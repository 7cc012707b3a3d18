package cryptox

import (
	"encoding/base64"
	"errors"
	"testing"

	"github.com/dmitrijs2005/loginkeeper/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	tests := []struct {
		name      string
		plaintext string
	}{
		{"simple", "hunter2"},
		{"empty", ""},
		{"unicode", "пароль-🔐"},
		{"long", string(make([]byte, 4096))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blob, err := Encrypt(tt.plaintext, "master-secret")
			require.NoError(t, err)

			got, err := Decrypt(blob, "master-secret")
			require.NoError(t, err)
			assert.Equal(t, tt.plaintext, got)
		})
	}
}

func TestEncrypt_NonDeterministic(t *testing.T) {
	b1, err := Encrypt("same plaintext", "s")
	require.NoError(t, err)
	b2, err := Encrypt("same plaintext", "s")
	require.NoError(t, err)

	assert.NotEqual(t, b1, b2)

	for _, b := range []string{b1, b2} {
		got, err := Decrypt(b, "s")
		require.NoError(t, err)
		assert.Equal(t, "same plaintext", got)
	}
}

func TestEncrypt_BlobLayout(t *testing.T) {
	blob, err := Encrypt("p", "s")
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(blob)
	require.NoError(t, err)

	// salt + nonce + 1 byte ciphertext + 16 byte tag
	assert.Len(t, raw, SaltSize+NonceSize+1+16)
}

func TestDecrypt_WrongSecret(t *testing.T) {
	blob, err := Encrypt("p", "secret-one")
	require.NoError(t, err)

	_, err = Decrypt(blob, "secret-two")
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrDecryptionFailed))
}

func TestDecrypt_TamperedCiphertext(t *testing.T) {
	blob, err := Encrypt("payload", "s")
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(blob)
	require.NoError(t, err)

	for i := SaltSize + NonceSize; i < len(raw); i++ {
		tampered := make([]byte, len(raw))
		copy(tampered, raw)
		tampered[i] ^= 0x01

		_, err := Decrypt(base64.StdEncoding.EncodeToString(tampered), "s")
		assert.ErrorIs(t, err, common.ErrDecryptionFailed, "byte %d", i)
	}
}

func TestDecrypt_Malformed(t *testing.T) {
	tests := []struct {
		name string
		blob string
	}{
		{"not base64", "!!! not base64 !!!"},
		{"empty", ""},
		{"too short", base64.StdEncoding.EncodeToString([]byte("short"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decrypt(tt.blob, "s")
			assert.ErrorIs(t, err, common.ErrDecryptionFailed)
		})
	}
}

func TestDeriveKey_Deterministic(t *testing.T) {
	salt := []byte("0123456789abcdef")

	k1 := DeriveKey("secret", salt)
	k2 := DeriveKey("secret", salt)
	assert.Equal(t, k1, k2)
	assert.Len(t, k1, KeySize)

	k3 := DeriveKey("other", salt)
	assert.NotEqual(t, k1, k3)
}

func TestIsLikelyEncoded(t *testing.T) {
	blob, err := Encrypt("p", "s")
	require.NoError(t, err)

	tests := []struct {
		name  string
		value string
		want  bool
	}{
		{"real blob", blob, true},
		{"empty", "", false},
		{"plain word", "hunter2!", false},
		{"not multiple of four", "abc", false},
		{"base64 shaped plaintext", "cGFzc3dvcmQ=", true},
		{"padding in the middle", "ab=c", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsLikelyEncoded(tt.value))
		})
	}
}
