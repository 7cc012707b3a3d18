package host

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/loginkeeper/internal/auth"
	"github.com/dmitrijs2005/loginkeeper/internal/config"
	"github.com/dmitrijs2005/loginkeeper/internal/logging"
	"github.com/dmitrijs2005/loginkeeper/internal/services"
	"github.com/dmitrijs2005/loginkeeper/internal/store"

	_ "modernc.org/sqlite"
)

// App wires the native-messaging host together: vault database, services,
// unlock sessions and the stdio dispatcher.
type App struct {
	config  *config.Config
	logger  logging.Logger
	handler *Handler
	repos   *store.Repositories
}

func NewApp(c *config.Config) (*App, error) {
	// stdout belongs to the messaging channel; logs must go to stderr
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stderr, nil)))

	repos, err := store.InitDatabase(context.Background(), c.VaultPath)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	secrets := services.NewSecretService(repos.Settings, logger)
	envs := services.NewEnvironmentService(repos.DB, repos.Environments, logger)
	creds := services.NewCredentialService(repos.Credentials, secrets, logger)
	sessions := auth.NewSessions(c.SessionTTL)

	handler := NewHandler(envs, creds, secrets, sessions, logger)

	return &App{config: c, logger: logger, handler: handler, repos: repos}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves extension requests on stdin/stdout until the browser closes
// the pipe or the process receives a termination signal.
func (app *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app.initSignalHandler(cancel)

	defer func() {
		if err := app.repos.DB.Close(); err != nil {
			app.logger.Error(ctx, "error closing vault", "error", err)
		}
	}()

	app.logger.Info(ctx, "host started", "vault", app.config.VaultPath)

	if err := app.handler.Serve(ctx, os.Stdin, os.Stdout); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
