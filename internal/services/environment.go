package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/loginkeeper/internal/common"
	"github.com/dmitrijs2005/loginkeeper/internal/dbx"
	"github.com/dmitrijs2005/loginkeeper/internal/logging"
	"github.com/dmitrijs2005/loginkeeper/internal/match"
	"github.com/dmitrijs2005/loginkeeper/internal/models"
	"github.com/dmitrijs2005/loginkeeper/internal/repositories/credentials"
	"github.com/dmitrijs2005/loginkeeper/internal/repositories/environments"
	"github.com/google/uuid"
)

type EnvironmentService interface {
	List(ctx context.Context) ([]models.Environment, error)
	Get(ctx context.Context, id string) (*models.Environment, error)
	Add(ctx context.Context, env models.Environment) (*models.Environment, error)
	Update(ctx context.Context, env models.Environment) error
	// Delete removes the environment and every credential referencing it
	// in one transaction, so a crash cannot leave orphan credentials.
	Delete(ctx context.Context, id string) error
	// Match returns the environment owning the given page URL, if any.
	Match(ctx context.Context, pageURL string) (*models.Environment, bool, error)
}

type environmentService struct {
	db      *sql.DB
	envRepo environments.Repository
	log     logging.Logger
}

func NewEnvironmentService(db *sql.DB, envRepo environments.Repository, log logging.Logger) EnvironmentService {
	return &environmentService{db: db, envRepo: envRepo, log: log.With("component", "environments")}
}

func validateEnvironment(env *models.Environment) error {
	if strings.TrimSpace(env.Name) == "" {
		return fmt.Errorf("%w: environment name is required", common.ErrorBadRequest)
	}
	if strings.TrimSpace(env.LoginURL) == "" {
		return fmt.Errorf("%w: login URL is required", common.ErrorBadRequest)
	}
	return nil
}

func (s *environmentService) List(ctx context.Context) ([]models.Environment, error) {
	envs, err := s.envRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing environments: %w", err)
	}
	return envs, nil
}

func (s *environmentService) Get(ctx context.Context, id string) (*models.Environment, error) {
	env, err := s.envRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error retrieving environment: %w", err)
	}
	return env, nil
}

func (s *environmentService) Add(ctx context.Context, env models.Environment) (*models.Environment, error) {
	if err := validateEnvironment(&env); err != nil {
		return nil, err
	}

	env.Id = uuid.NewString()

	if err := s.envRepo.Insert(ctx, &env); err != nil {
		return nil, fmt.Errorf("error saving environment: %w", err)
	}

	saved, err := s.envRepo.GetByID(ctx, env.Id)
	if err != nil {
		return nil, fmt.Errorf("error reloading environment: %w", err)
	}
	return saved, nil
}

func (s *environmentService) Update(ctx context.Context, env models.Environment) error {
	if err := validateEnvironment(&env); err != nil {
		return err
	}
	if err := s.envRepo.Update(ctx, &env); err != nil {
		return fmt.Errorf("error updating environment: %w", err)
	}
	return nil
}

func (s *environmentService) Delete(ctx context.Context, id string) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		credRepo := credentials.NewSQLiteRepository(tx)
		envRepo := environments.NewSQLiteRepository(tx)

		if err := credRepo.DeleteByEnv(ctx, id); err != nil {
			return err
		}
		return envRepo.Delete(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("error deleting environment: %w", err)
	}

	s.log.Info(ctx, "environment deleted with its credentials", "env", id)
	return nil
}

func (s *environmentService) Match(ctx context.Context, pageURL string) (*models.Environment, bool, error) {
	envs, err := s.envRepo.List(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("error listing environments: %w", err)
	}

	env, ok := match.Find(pageURL, envs)
	return env, ok, nil
}
