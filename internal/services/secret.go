// Package services implements LoginKeeper's application logic on top of the
// repositories: master-secret handling, credential encryption policy,
// environment matching and cascade deletes.
package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/loginkeeper/internal/cryptox"
	"github.com/dmitrijs2005/loginkeeper/internal/logging"
	"github.com/dmitrijs2005/loginkeeper/internal/repositories/settings"
)

// MasterSecretKey is the fixed settings key the master secret lives under.
const MasterSecretKey = "master_secret"

// SecretService owns the master secret and the password encryption policy.
//
// EncryptPassword and DecryptPassword never fail: on any crypto problem they
// degrade to returning their input, trading confidentiality for
// availability. A credential is never lost to a crypto failure; it is
// stored unencrypted or stays encrypted-looking. Failures are logged, not
// surfaced.
type SecretService interface {
	// GetMasterSecret reads the secret from persistent storage. The bool
	// reports presence; an unset secret is not an error.
	GetMasterSecret(ctx context.Context) (string, bool, error)
	SetMasterSecret(ctx context.Context, secret string) error
	EncryptPassword(ctx context.Context, password string) string
	DecryptPassword(ctx context.Context, value string) string
}

type secretService struct {
	settings settings.Repository
	log      logging.Logger
}

func NewSecretService(settings settings.Repository, log logging.Logger) SecretService {
	return &secretService{settings: settings, log: log.With("component", "secrets")}
}

func (s *secretService) GetMasterSecret(ctx context.Context) (string, bool, error) {
	value, err := s.settings.Get(ctx, MasterSecretKey)
	if err != nil {
		return "", false, fmt.Errorf("failed to read master secret: %w", err)
	}
	if value == nil {
		return "", false, nil
	}
	return string(value), true, nil
}

func (s *secretService) SetMasterSecret(ctx context.Context, secret string) error {
	if err := s.settings.Set(ctx, MasterSecretKey, []byte(secret)); err != nil {
		return fmt.Errorf("failed to store master secret: %w", err)
	}
	return nil
}

// EncryptPassword encrypts password under the stored master secret.
//
// The secret is read fresh on every call, so a change takes effect on the
// next call without restart. With no secret configured the password is
// returned unchanged and a warning is logged.
func (s *secretService) EncryptPassword(ctx context.Context, password string) string {
	secret, ok, err := s.GetMasterSecret(ctx)
	if err != nil {
		s.log.Warn(ctx, "master secret unavailable, storing password unencrypted", "error", err)
		return password
	}
	if !ok {
		s.log.Warn(ctx, "no master secret configured, storing password unencrypted")
		return password
	}

	blob, err := cryptox.Encrypt(password, secret)
	if err != nil {
		s.log.Warn(ctx, "encryption failed, storing password unencrypted", "error", err)
		return password
	}
	return blob
}

// DecryptPassword decrypts a stored password value.
//
// Values that do not look like a cipher blob are treated as legacy plaintext
// and returned as-is; this keeps credentials stored before encryption was
// introduced working. On missing secret, wrong secret or a corrupted blob
// the input is likewise returned unchanged, so the caller cannot tell a
// successful decryption from a fallback by the return value alone.
func (s *secretService) DecryptPassword(ctx context.Context, value string) string {
	if !cryptox.IsLikelyEncoded(value) {
		return value
	}

	secret, ok, err := s.GetMasterSecret(ctx)
	if err != nil {
		s.log.Warn(ctx, "master secret unavailable, returning value as stored", "error", err)
		return value
	}
	if !ok {
		s.log.Warn(ctx, "no master secret configured, returning value as stored")
		return value
	}

	plaintext, err := cryptox.Decrypt(value, secret)
	if err != nil {
		s.log.Warn(ctx, "decryption failed, returning value as stored", "error", err)
		return value
	}
	return plaintext
}
