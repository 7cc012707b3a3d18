package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/loginkeeper/internal/backup"
	"github.com/dmitrijs2005/loginkeeper/internal/config"
	"github.com/dmitrijs2005/loginkeeper/internal/logging"
	"github.com/dmitrijs2005/loginkeeper/internal/models"
	"github.com/dmitrijs2005/loginkeeper/internal/services"
	"github.com/dmitrijs2005/loginkeeper/internal/store"
)

func newTestApp(t *testing.T, input string) (*App, *bytes.Buffer) {
	t.Helper()

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.VaultPath = filepath.Join(t.TempDir(), "vault.db")

	repos, err := store.InitDatabase(context.Background(), cfg.VaultPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = repos.DB.Close() })

	logger := logging.NewTextLogger(io.Discard)
	secrets := services.NewSecretService(repos.Settings, logger)

	out := &bytes.Buffer{}
	app := &App{
		config:  cfg,
		logger:  logger,
		repos:   repos,
		secrets: secrets,
		envs:    services.NewEnvironmentService(repos.DB, repos.Environments, logger),
		creds:   services.NewCredentialService(repos.Credentials, secrets, logger),
		backup:  backup.NewService(cfg, repos, secrets, logger),
		in:      bufio.NewReader(strings.NewReader(input)),
		out:     out,
	}
	return app, out
}

func stubPassword(t *testing.T, secret string) {
	t.Helper()
	orig := readPassword
	readPassword = func(fd int) ([]byte, error) {
		return []byte(secret), nil
	}
	t.Cleanup(func() { readPassword = orig })
}

func TestRoot_HelpAndExit(t *testing.T) {
	app, out := newTestApp(t, "help\nexit\n")
	app.Root(context.Background())

	assert.Contains(t, out.String(), "Commands:")
	assert.Contains(t, out.String(), "Bye!")
}

func TestRoot_UnknownCommand(t *testing.T) {
	app, out := newTestApp(t, "frobnicate\nexit\n")
	app.Root(context.Background())

	assert.Contains(t, out.String(), "Unknown command: frobnicate")
}

func TestRoot_StopsOnEOF(t *testing.T) {
	app, out := newTestApp(t, "list\n")
	app.Root(context.Background())

	assert.Contains(t, out.String(), "No environments registered")
}

func TestEnvironmentLifecycle(t *testing.T) {
	ctx := context.Background()
	app, out := newTestApp(t, "Production\nhttps://prod.example.com/login\nsubmit\n\n")

	app.addEnvironment(ctx)
	assert.Contains(t, out.String(), "Environment added:")

	out.Reset()
	app.listEnvironments(ctx)
	assert.Contains(t, out.String(), "Production")
	assert.Contains(t, out.String(), "https://prod.example.com/login")

	out.Reset()
	app.matchURL(ctx, []string{"https://prod.example.com/login"})
	assert.Contains(t, out.String(), "Matched: Production")

	out.Reset()
	app.matchURL(ctx, []string{"https://other.example.com/login"})
	assert.Contains(t, out.String(), "No environment matches")

	envs, err := app.envs.List(ctx)
	require.NoError(t, err)
	require.Len(t, envs, 1)

	out.Reset()
	app.deleteEnvironment(ctx, []string{envs[0].Id})
	assert.Contains(t, out.String(), "Environment deleted")

	out.Reset()
	app.listEnvironments(ctx)
	assert.Contains(t, out.String(), "No environments registered")
}

func TestSetMasterSecret(t *testing.T) {
	ctx := context.Background()
	stubPassword(t, "correct horse")

	app, out := newTestApp(t, "")
	app.setMasterSecret(ctx)
	assert.Contains(t, out.String(), "Master secret updated")

	secret, ok, err := app.secrets.GetMasterSecret(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "correct horse", secret)
}

func TestSetMasterSecret_EmptyRejected(t *testing.T) {
	ctx := context.Background()
	stubPassword(t, "")

	app, out := newTestApp(t, "")
	app.setMasterSecret(ctx)
	assert.Contains(t, out.String(), "Secret must not be empty")

	_, ok, err := app.secrets.GetMasterSecret(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCredentialLifecycle(t *testing.T) {
	ctx := context.Background()
	stubPassword(t, "hunter2")

	app, out := newTestApp(t, "alice\nmain\n")

	require.NoError(t, app.secrets.SetMasterSecret(ctx, "master"))

	env, err := app.envs.Add(ctx, models.Environment{Name: "Prod", LoginURL: "https://prod.example.com/login"})
	require.NoError(t, err)

	app.addCredential(ctx, []string{env.Id})
	assert.Contains(t, out.String(), "Credential added:")

	out.Reset()
	app.listCredentials(ctx, []string{env.Id})
	assert.Contains(t, out.String(), "alice")
	assert.NotContains(t, out.String(), "hunter2")

	creds, err := app.creds.ListByEnv(ctx, env.Id)
	require.NoError(t, err)
	require.Len(t, creds, 1)
	assert.NotEqual(t, "hunter2", creds[0].Password)

	out.Reset()
	app.showCredential(ctx, []string{creds[0].Id})
	assert.Contains(t, out.String(), "Password: hunter2")

	out.Reset()
	app.deleteCredential(ctx, []string{creds[0].Id})
	assert.Contains(t, out.String(), "Credential deleted")

	out.Reset()
	app.listCredentials(ctx, []string{env.Id})
	assert.Contains(t, out.String(), "No credentials for this environment")
}

func TestAddCredential_UnknownEnvironment(t *testing.T) {
	ctx := context.Background()
	app, out := newTestApp(t, "alice\nmain\n")

	app.addCredential(ctx, []string{"missing"})
	assert.Contains(t, out.String(), "Error:")
}

func TestRunRestore_Cancelled(t *testing.T) {
	ctx := context.Background()
	app, out := newTestApp(t, "no\n")

	app.runRestore(ctx, []string{"vault/20260101-000000.lkbackup"})
	assert.Contains(t, out.String(), "Cancelled")
}

func TestRunBackup_RequiresSecret(t *testing.T) {
	ctx := context.Background()
	app, out := newTestApp(t, "")

	app.runBackup(ctx)
	assert.Contains(t, out.String(), "Backup failed:")
}
