// Package store opens the vault database, applies schema migrations and
// bundles the repositories the services work with.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/loginkeeper/internal/migrations"
	"github.com/dmitrijs2005/loginkeeper/internal/repositories/credentials"
	"github.com/dmitrijs2005/loginkeeper/internal/repositories/environments"
	"github.com/dmitrijs2005/loginkeeper/internal/repositories/settings"
	"github.com/pressly/goose/v3"
)

type Repositories struct {
	Environments environments.Repository
	Credentials  credentials.Repository
	Settings     settings.Repository
	DB           *sql.DB
}

func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

func InitDatabase(ctx context.Context, dsn string) (*Repositories, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	repos := &Repositories{
		Environments: environments.NewSQLiteRepository(db),
		Credentials:  credentials.NewSQLiteRepository(db),
		Settings:     settings.NewSQLiteRepository(db),
		DB:           db,
	}
	return repos, nil
}
