package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/loginkeeper/internal/common"
	"github.com/dmitrijs2005/loginkeeper/internal/logging"
	"github.com/dmitrijs2005/loginkeeper/internal/models"
	"github.com/dmitrijs2005/loginkeeper/internal/repositories/credentials"
	"github.com/google/uuid"
)

type CredentialService interface {
	// ListByEnv returns credentials with passwords as stored (encrypted or
	// legacy plaintext). Use Fill to obtain decrypted values.
	ListByEnv(ctx context.Context, envId string) ([]models.Credential, error)
	Add(ctx context.Context, cred models.Credential) (*models.Credential, error)
	Update(ctx context.Context, cred models.Credential) error
	Delete(ctx context.Context, id string) error
	// Reveal returns one credential with its password decrypted. The
	// decrypted value exists only in the returned copy, never in storage.
	Reveal(ctx context.Context, id string) (*models.Credential, error)
	// Fill returns all credentials for an environment with passwords
	// decrypted, ready to hand to the form filler.
	Fill(ctx context.Context, envId string) ([]models.Credential, error)
}

type credentialService struct {
	credRepo credentials.Repository
	secrets  SecretService
	log      logging.Logger
}

func NewCredentialService(credRepo credentials.Repository, secrets SecretService, log logging.Logger) CredentialService {
	return &credentialService{credRepo: credRepo, secrets: secrets, log: log.With("component", "credentials")}
}

func (s *credentialService) ListByEnv(ctx context.Context, envId string) ([]models.Credential, error) {
	creds, err := s.credRepo.ListByEnv(ctx, envId)
	if err != nil {
		return nil, fmt.Errorf("error listing credentials: %w", err)
	}
	return creds, nil
}

// Add encrypts the password immediately before the record is persisted.
func (s *credentialService) Add(ctx context.Context, cred models.Credential) (*models.Credential, error) {
	if strings.TrimSpace(cred.EnvId) == "" {
		return nil, fmt.Errorf("%w: environment id is required", common.ErrorBadRequest)
	}

	cred.Id = uuid.NewString()
	cred.Password = s.secrets.EncryptPassword(ctx, cred.Password)

	if err := s.credRepo.Insert(ctx, &cred); err != nil {
		return nil, fmt.Errorf("error saving credential: %w", err)
	}
	return &cred, nil
}

func (s *credentialService) Update(ctx context.Context, cred models.Credential) error {
	cred.Password = s.secrets.EncryptPassword(ctx, cred.Password)

	if err := s.credRepo.Update(ctx, &cred); err != nil {
		return fmt.Errorf("error updating credential: %w", err)
	}
	return nil
}

func (s *credentialService) Delete(ctx context.Context, id string) error {
	if err := s.credRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("error deleting credential: %w", err)
	}
	return nil
}

func (s *credentialService) Reveal(ctx context.Context, id string) (*models.Credential, error) {
	cred, err := s.credRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error retrieving credential: %w", err)
	}

	cred.Password = s.secrets.DecryptPassword(ctx, cred.Password)
	return cred, nil
}

func (s *credentialService) Fill(ctx context.Context, envId string) ([]models.Credential, error) {
	creds, err := s.credRepo.ListByEnv(ctx, envId)
	if err != nil {
		return nil, fmt.Errorf("error listing credentials: %w", err)
	}

	for i := range creds {
		creds[i].Password = s.secrets.DecryptPassword(ctx, creds[i].Password)
	}
	return creds, nil
}
