package environments

import (
	"context"

	"github.com/dmitrijs2005/loginkeeper/internal/models"
)

type Repository interface {
	// List returns all environments in registration order (position ASC).
	// The order determines match precedence.
	List(ctx context.Context) ([]models.Environment, error)
	GetByID(ctx context.Context, id string) (*models.Environment, error)
	Insert(ctx context.Context, env *models.Environment) error
	Update(ctx context.Context, env *models.Environment) error
	Delete(ctx context.Context, id string) error
}
