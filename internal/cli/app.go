// Package cli implements the interactive admin console for the vault:
// environments and credentials CRUD, master-secret management, matcher
// checks and encrypted S3 backups.
package cli

import (
	"bufio"
	"context"
	"io"
	"os"

	"github.com/dmitrijs2005/loginkeeper/internal/backup"
	"github.com/dmitrijs2005/loginkeeper/internal/config"
	"github.com/dmitrijs2005/loginkeeper/internal/logging"
	"github.com/dmitrijs2005/loginkeeper/internal/services"
	"github.com/dmitrijs2005/loginkeeper/internal/store"

	_ "modernc.org/sqlite"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	repos   *store.Repositories
	secrets services.SecretService
	envs    services.EnvironmentService
	creds   services.CredentialService
	backup  *backup.Service

	in  *bufio.Reader
	out io.Writer
}

func NewApp(c *config.Config) (*App, error) {
	logger := logging.NewTextLogger(os.Stderr)

	repos, err := store.InitDatabase(context.Background(), c.VaultPath)
	if err != nil {
		return nil, err
	}

	secrets := services.NewSecretService(repos.Settings, logger)

	app := &App{
		config:  c,
		logger:  logger,
		repos:   repos,
		secrets: secrets,
		envs:    services.NewEnvironmentService(repos.DB, repos.Environments, logger),
		creds:   services.NewCredentialService(repos.Credentials, secrets, logger),
		backup:  backup.NewService(c, repos, secrets, logger),
		in:      bufio.NewReader(os.Stdin),
		out:     os.Stdout,
	}
	return app, nil
}

func (a *App) Run(ctx context.Context) {
	defer func() { _ = a.repos.DB.Close() }()
	a.Root(ctx)
}
