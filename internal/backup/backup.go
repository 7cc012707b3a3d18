// Package backup exports the vault to an S3-compatible bucket and restores
// it back. The exported document is encrypted as one cryptox blob under the
// master secret before it leaves the process, so the bucket only ever sees
// ciphertext.
package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/loginkeeper/internal/common"
	cfg "github.com/dmitrijs2005/loginkeeper/internal/config"
	"github.com/dmitrijs2005/loginkeeper/internal/cryptox"
	"github.com/dmitrijs2005/loginkeeper/internal/dbx"
	"github.com/dmitrijs2005/loginkeeper/internal/logging"
	"github.com/dmitrijs2005/loginkeeper/internal/models"
	credrepo "github.com/dmitrijs2005/loginkeeper/internal/repositories/credentials"
	"github.com/dmitrijs2005/loginkeeper/internal/repositories/environments"
	"github.com/dmitrijs2005/loginkeeper/internal/services"
	"github.com/dmitrijs2005/loginkeeper/internal/store"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(c aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(c, optFns...)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in)
	}
	getObject = func(c *s3.Client, ctx context.Context, in *s3.GetObjectInput) (*s3.GetObjectOutput, error) {
		return c.GetObject(ctx, in)
	}
)

// document is the plaintext backup payload. Credential passwords stay in
// their stored (encrypted or legacy) form; the whole document is encrypted
// once more on top.
type document struct {
	Version      int                  `json:"version"`
	CreatedAt    time.Time            `json:"created_at"`
	Environments []models.Environment `json:"environments"`
	Credentials  []models.Credential  `json:"credentials"`
}

const documentVersion = 1

type Service struct {
	config  *cfg.Config
	repos   *store.Repositories
	secrets services.SecretService
	log     logging.Logger
}

func NewService(config *cfg.Config, repos *store.Repositories, secrets services.SecretService, log logging.Logger) *Service {
	return &Service{config: config, repos: repos, secrets: secrets, log: log.With("component", "backup")}
}

func storageKey(now time.Time) string {
	return fmt.Sprintf("vault/%s.lkbackup", now.UTC().Format("20060102-150405"))
}

func (s *Service) getClient() (*s3.Client, error) {
	c, err := loadDefaultAWSConfig(context.Background(),
		awsconfig.WithRegion(s.config.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	return newS3ClientFromConfig(c, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	}), nil
}

// Export uploads an encrypted snapshot of the vault and returns the object
// key. Unlike password storage there is no plaintext fallback here: without
// a master secret the export is refused rather than uploaded readable.
func (s *Service) Export(ctx context.Context) (string, error) {
	secret, ok, err := s.secrets.GetMasterSecret(ctx)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", common.ErrNoMasterSecret
	}

	envs, err := s.repos.Environments.List(ctx)
	if err != nil {
		return "", fmt.Errorf("error listing environments: %w", err)
	}

	doc := document{Version: documentVersion, CreatedAt: time.Now().UTC(), Environments: envs}
	for _, env := range envs {
		creds, err := s.repos.Credentials.ListByEnv(ctx, env.Id)
		if err != nil {
			return "", fmt.Errorf("error listing credentials: %w", err)
		}
		doc.Credentials = append(doc.Credentials, creds...)
	}

	plaintext, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("error serializing backup: %w", err)
	}

	blob, err := cryptox.Encrypt(string(plaintext), secret)
	if err != nil {
		return "", fmt.Errorf("error encrypting backup: %w", err)
	}

	client, err := s.getClient()
	if err != nil {
		return "", err
	}

	bucket := s.config.S3Bucket
	key := storageKey(time.Now())

	_, err = putObject(client, ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
		Body:   bytes.NewReader([]byte(blob)),
	})
	if err != nil {
		return "", fmt.Errorf("error uploading backup: %w", err)
	}

	s.log.Info(ctx, "backup uploaded",
		"key", key, "environments", len(doc.Environments), "credentials", len(doc.Credentials))
	return key, nil
}

// Restore downloads the object, decrypts it under the current master secret
// and replaces the vault contents in a single transaction. A wrong secret or
// corrupted object aborts before anything is written.
func (s *Service) Restore(ctx context.Context, key string) error {
	secret, ok, err := s.secrets.GetMasterSecret(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return common.ErrNoMasterSecret
	}

	client, err := s.getClient()
	if err != nil {
		return err
	}

	bucket := s.config.S3Bucket
	out, err := getObject(client, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	})
	if err != nil {
		return fmt.Errorf("error downloading backup: %w", err)
	}
	defer out.Body.Close()

	blob, err := io.ReadAll(out.Body)
	if err != nil {
		return fmt.Errorf("error reading backup: %w", err)
	}

	plaintext, err := cryptox.Decrypt(string(blob), secret)
	if err != nil {
		return fmt.Errorf("error decrypting backup: %w", err)
	}

	var doc document
	if err := json.Unmarshal([]byte(plaintext), &doc); err != nil {
		return fmt.Errorf("error parsing backup: %w", err)
	}

	err = dbx.WithTx(ctx, s.repos.DB, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM credentials`); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM environments`); err != nil {
			return err
		}

		envRepo := environments.NewSQLiteRepository(tx)
		credRepo := credrepo.NewSQLiteRepository(tx)

		// environments arrive in position order, so re-inserting them into
		// the empty table reproduces the original match precedence
		for i := range doc.Environments {
			if err := envRepo.Insert(ctx, &doc.Environments[i]); err != nil {
				return err
			}
		}
		for i := range doc.Credentials {
			if err := credRepo.Insert(ctx, &doc.Credentials[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("error restoring backup: %w", err)
	}

	s.log.Info(ctx, "backup restored",
		"key", key, "environments", len(doc.Environments), "credentials", len(doc.Credentials))
	return nil
}
