package backup

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/loginkeeper/internal/common"
	cfg "github.com/dmitrijs2005/loginkeeper/internal/config"
	"github.com/dmitrijs2005/loginkeeper/internal/logging"
	"github.com/dmitrijs2005/loginkeeper/internal/models"
	"github.com/dmitrijs2005/loginkeeper/internal/services"
	"github.com/dmitrijs2005/loginkeeper/internal/store"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

type vault struct {
	repos   *store.Repositories
	secrets services.SecretService
	service *Service
}

func setupVault(t *testing.T) *vault {
	t.Helper()

	repos, err := store.InitDatabase(context.Background(), filepath.Join(t.TempDir(), "vault.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repos.DB.Close() })

	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	secrets := services.NewSecretService(repos.Settings, log)

	c := &cfg.Config{}
	c.LoadDefaults()

	return &vault{
		repos:   repos,
		secrets: secrets,
		service: NewService(c, repos, secrets, log),
	}
}

// stubObjectStore redirects the S3 seams to an in-memory map for the
// duration of one test.
func stubObjectStore(t *testing.T) map[string][]byte {
	t.Helper()

	objects := make(map[string][]byte)

	origPut, origGet := putObject, getObject
	t.Cleanup(func() { putObject = origPut; getObject = origGet })

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
		data, err := io.ReadAll(in.Body)
		if err != nil {
			return nil, err
		}
		objects[*in.Key] = data
		return &s3.PutObjectOutput{}, nil
	}
	getObject = func(c *s3.Client, ctx context.Context, in *s3.GetObjectInput) (*s3.GetObjectOutput, error) {
		data, ok := objects[*in.Key]
		if !ok {
			return nil, common.ErrorNotFound
		}
		return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
	}

	return objects
}

func TestExport_RequiresMasterSecret(t *testing.T) {
	v := setupVault(t)
	stubObjectStore(t)

	_, err := v.service.Export(context.Background())
	assert.ErrorIs(t, err, common.ErrNoMasterSecret)
}

func TestExport_UploadsCiphertextOnly(t *testing.T) {
	v := setupVault(t)
	objects := stubObjectStore(t)
	ctx := context.Background()

	require.NoError(t, v.secrets.SetMasterSecret(ctx, "passphrase"))
	require.NoError(t, v.repos.Environments.Insert(ctx, &models.Environment{Id: "e1", Name: "Prod", LoginURL: "https://prod.example.com/login"}))
	require.NoError(t, v.repos.Credentials.Insert(ctx, &models.Credential{Id: "c1", EnvId: "e1", Username: "alice", Password: "stored-blob"}))

	key, err := v.service.Export(ctx)
	require.NoError(t, err)
	require.Contains(t, objects, key)

	// nothing recognizable leaks into the object
	body := string(objects[key])
	assert.NotContains(t, body, "alice")
	assert.NotContains(t, body, "prod.example.com")
	assert.NotContains(t, body, "stored-blob")
}

func TestExportRestore_RoundTrip(t *testing.T) {
	source := setupVault(t)
	stubObjectStore(t)
	ctx := context.Background()

	require.NoError(t, source.secrets.SetMasterSecret(ctx, "passphrase"))
	for _, e := range []models.Environment{
		{Id: "e1", Name: "Prod", LoginURL: "https://prod.example.com/login"},
		{Id: "e2", Name: "Stage", LoginURL: "https://stage.example.com/*"},
	} {
		env := e
		require.NoError(t, source.repos.Environments.Insert(ctx, &env))
	}
	require.NoError(t, source.repos.Credentials.Insert(ctx, &models.Credential{Id: "c1", EnvId: "e1", Username: "alice", Password: "blob1"}))
	require.NoError(t, source.repos.Credentials.Insert(ctx, &models.Credential{Id: "c2", EnvId: "e2", Username: "bob", Password: "blob2"}))

	key, err := source.service.Export(ctx)
	require.NoError(t, err)

	target := setupVault(t)
	require.NoError(t, target.secrets.SetMasterSecret(ctx, "passphrase"))
	// pre-existing junk must be replaced, not merged
	require.NoError(t, target.repos.Environments.Insert(ctx, &models.Environment{Id: "junk", Name: "Old", LoginURL: "https://old.example.com"}))

	require.NoError(t, target.service.Restore(ctx, key))

	envs, err := target.repos.Environments.List(ctx)
	require.NoError(t, err)
	require.Len(t, envs, 2)
	assert.Equal(t, "e1", envs[0].Id)
	assert.Equal(t, "e2", envs[1].Id)

	creds, err := target.repos.Credentials.ListByEnv(ctx, "e1")
	require.NoError(t, err)
	require.Len(t, creds, 1)
	assert.Equal(t, "blob1", creds[0].Password)
}

func TestRestore_WrongSecretLeavesVaultUntouched(t *testing.T) {
	source := setupVault(t)
	stubObjectStore(t)
	ctx := context.Background()

	require.NoError(t, source.secrets.SetMasterSecret(ctx, "passphrase"))
	require.NoError(t, source.repos.Environments.Insert(ctx, &models.Environment{Id: "e1", Name: "Prod", LoginURL: "https://prod.example.com/login"}))

	key, err := source.service.Export(ctx)
	require.NoError(t, err)

	target := setupVault(t)
	require.NoError(t, target.secrets.SetMasterSecret(ctx, "other-secret"))
	require.NoError(t, target.repos.Environments.Insert(ctx, &models.Environment{Id: "keep", Name: "Keep", LoginURL: "https://keep.example.com"}))

	err = target.service.Restore(ctx, key)
	assert.ErrorIs(t, err, common.ErrDecryptionFailed)

	envs, err := target.repos.Environments.List(ctx)
	require.NoError(t, err)
	require.Len(t, envs, 1)
	assert.Equal(t, "keep", envs[0].Id)
}
