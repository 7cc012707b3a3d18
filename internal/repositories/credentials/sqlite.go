// Package credentials persists stored accounts in SQLite. Password values
// arrive already encrypted (or as legacy plaintext); this layer never sees
// the master secret.
package credentials

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/loginkeeper/internal/common"
	"github.com/dmitrijs2005/loginkeeper/internal/dbx"
	"github.com/dmitrijs2005/loginkeeper/internal/models"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) ListByEnv(ctx context.Context, envId string) ([]models.Credential, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, env_id, username, account, password
		FROM credentials WHERE env_id = ? ORDER BY id
	`, envId)
	if err != nil {
		return nil, fmt.Errorf("failed to list credentials for env[%s]: %w", envId, err)
	}
	defer rows.Close()

	result := make([]models.Credential, 0)
	for rows.Next() {
		var c models.Credential
		if err := rows.Scan(&c.Id, &c.EnvId, &c.Username, &c.Account, &c.Password); err != nil {
			return nil, fmt.Errorf("failed to scan credential row: %w", err)
		}
		result = append(result, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate credential rows: %w", err)
	}

	return result, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Credential, error) {
	var c models.Credential
	err := r.db.QueryRowContext(ctx, `
		SELECT id, env_id, username, account, password
		FROM credentials WHERE id = ?
	`, id).Scan(&c.Id, &c.EnvId, &c.Username, &c.Account, &c.Password)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get credential[%s]: %w", id, err)
	}
	return &c, nil
}

func (r *SQLiteRepository) Insert(ctx context.Context, cred *models.Credential) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO credentials (id, env_id, username, account, password)
		VALUES (?, ?, ?, ?, ?)
	`, cred.Id, cred.EnvId, cred.Username, cred.Account, cred.Password)
	if err != nil {
		return fmt.Errorf("failed to insert credential[%s]: %w", cred.Id, err)
	}
	return nil
}

func (r *SQLiteRepository) Update(ctx context.Context, cred *models.Credential) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE credentials
		SET env_id = ?, username = ?, account = ?, password = ?
		WHERE id = ?
	`, cred.EnvId, cred.Username, cred.Account, cred.Password, cred.Id)
	if err != nil {
		return fmt.Errorf("failed to update credential[%s]: %w", cred.Id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update credential[%s]: %w", cred.Id, err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM credentials WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete credential[%s]: %w", id, err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteByEnv(ctx context.Context, envId string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM credentials WHERE env_id = ?`, envId)
	if err != nil {
		return fmt.Errorf("failed to delete credentials for env[%s]: %w", envId, err)
	}
	return nil
}
