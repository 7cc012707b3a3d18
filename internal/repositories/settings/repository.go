package settings

import "context"

// Repository is the small key-value store backing process-wide settings,
// most importantly the master secret.
type Repository interface {
	// Get returns the stored value, or nil with no error when the key is
	// absent. Absence is a normal condition (e.g. no master secret yet).
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
