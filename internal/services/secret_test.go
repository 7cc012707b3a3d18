package services

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/loginkeeper/internal/cryptox"
	"github.com/dmitrijs2005/loginkeeper/internal/logging"
	"github.com/dmitrijs2005/loginkeeper/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func setupRepos(t *testing.T) *store.Repositories {
	t.Helper()
	repos, err := store.InitDatabase(context.Background(), filepath.Join(t.TempDir(), "vault.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repos.DB.Close() })
	return repos
}

func TestMasterSecret_Lifecycle(t *testing.T) {
	repos := setupRepos(t)
	s := NewSecretService(repos.Settings, testLogger())
	ctx := context.Background()

	_, ok, err := s.GetMasterSecret(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.SetMasterSecret(ctx, "passphrase"))

	secret, ok, err := s.GetMasterSecret(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "passphrase", secret)
}

func TestEncryptPassword_NoSecretFallsBackToPlaintext(t *testing.T) {
	repos := setupRepos(t)
	s := NewSecretService(repos.Settings, testLogger())

	got := s.EncryptPassword(context.Background(), "hunter2!")
	assert.Equal(t, "hunter2!", got)
}

func TestEncryptPassword_WithSecret(t *testing.T) {
	repos := setupRepos(t)
	s := NewSecretService(repos.Settings, testLogger())
	ctx := context.Background()

	require.NoError(t, s.SetMasterSecret(ctx, "passphrase"))

	blob := s.EncryptPassword(ctx, "hunter2!")
	require.NotEqual(t, "hunter2!", blob)
	assert.True(t, cryptox.IsLikelyEncoded(blob))

	plaintext, err := cryptox.Decrypt(blob, "passphrase")
	require.NoError(t, err)
	assert.Equal(t, "hunter2!", plaintext)
}

func TestDecryptPassword_RoundTrip(t *testing.T) {
	repos := setupRepos(t)
	s := NewSecretService(repos.Settings, testLogger())
	ctx := context.Background()

	require.NoError(t, s.SetMasterSecret(ctx, "passphrase"))

	blob := s.EncryptPassword(ctx, "hunter2!")
	assert.Equal(t, "hunter2!", s.DecryptPassword(ctx, blob))
}

func TestDecryptPassword_LegacyPlaintextUnchanged(t *testing.T) {
	repos := setupRepos(t)
	s := NewSecretService(repos.Settings, testLogger())
	ctx := context.Background()

	require.NoError(t, s.SetMasterSecret(ctx, "passphrase"))

	// not base64-shaped: treated as a pre-encryption legacy value
	assert.Equal(t, "old password!", s.DecryptPassword(ctx, "old password!"))
}

func TestDecryptPassword_NoSecretReturnsAsStored(t *testing.T) {
	repos := setupRepos(t)
	s := NewSecretService(repos.Settings, testLogger())
	ctx := context.Background()

	require.NoError(t, s.SetMasterSecret(ctx, "passphrase"))
	blob := s.EncryptPassword(ctx, "hunter2!")

	require.NoError(t, repos.Settings.Delete(ctx, MasterSecretKey))

	assert.Equal(t, blob, s.DecryptPassword(ctx, blob))
}

func TestDecryptPassword_WrongSecretReturnsAsStored(t *testing.T) {
	repos := setupRepos(t)
	s := NewSecretService(repos.Settings, testLogger())
	ctx := context.Background()

	require.NoError(t, s.SetMasterSecret(ctx, "first"))
	blob := s.EncryptPassword(ctx, "hunter2!")

	// secret is read fresh each call, so the change is picked up immediately
	require.NoError(t, s.SetMasterSecret(ctx, "second"))

	assert.Equal(t, blob, s.DecryptPassword(ctx, blob))
}
