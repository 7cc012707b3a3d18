package credentials

import (
	"context"

	"github.com/dmitrijs2005/loginkeeper/internal/models"
)

type Repository interface {
	ListByEnv(ctx context.Context, envId string) ([]models.Credential, error)
	GetByID(ctx context.Context, id string) (*models.Credential, error)
	Insert(ctx context.Context, cred *models.Credential) error
	Update(ctx context.Context, cred *models.Credential) error
	Delete(ctx context.Context, id string) error
	// DeleteByEnv removes every credential referencing envId. Called inside
	// the same transaction that deletes the environment itself.
	DeleteByEnv(ctx context.Context, envId string) error
}
