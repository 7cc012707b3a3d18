// Package environments persists registered login environments in SQLite.
package environments

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

func (r *SQLiteRepository) List(ctx context.Context) ([]models.Environment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, login_url, login_button_id, login_button_class, position
		FROM environments ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list environments: %w", err)
	}
	defer rows.Close()

	result := make([]models.Environment, 0)
	for rows.Next() {
		var e models.Environment
		if err := rows.Scan(&e.Id, &e.Name, &e.LoginURL, &e.LoginButtonId, &e.LoginButtonClass, &e.Position); err != nil {
			return nil, fmt.Errorf("failed to scan environment row: %w", err)
		}
		result = append(result, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate environment rows: %w", err)
	}

	return result, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Environment, error) {
	var e models.Environment
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, login_url, login_button_id, login_button_class, position
		FROM environments WHERE id = ?
	`, id).Scan(&e.Id, &e.Name, &e.LoginURL, &e.LoginButtonId, &e.LoginButtonClass, &e.Position)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get environment[%s]: %w", id, err)
	}
	return &e, nil
}

// Insert stores env, assigning the next free position so registration order
// is preserved across restarts.
func (r *SQLiteRepository) Insert(ctx context.Context, env *models.Environment) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO environments (id, name, login_url, login_button_id, login_button_class, position)
		VALUES (?, ?, ?, ?, ?, (SELECT COALESCE(MAX(position), 0) + 1 FROM environments))
	`, env.Id, env.Name, env.LoginURL, env.LoginButtonId, env.LoginButtonClass)
	if err != nil {
		return fmt.Errorf("failed to insert environment[%s]: %w", env.Id, err)
	}
	return nil
}

// Update rewrites the editable fields. Position is immutable: editing an
// environment must not change its match precedence.
func (r *SQLiteRepository) Update(ctx context.Context, env *models.Environment) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE environments
		SET name = ?, login_url = ?, login_button_id = ?, login_button_class = ?
		WHERE id = ?
	`, env.Name, env.LoginURL, env.LoginButtonId, env.LoginButtonClass, env.Id)
	if err != nil {
		return fmt.Errorf("failed to update environment[%s]: %w", env.Id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update environment[%s]: %w", env.Id, err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM environments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete environment[%s]: %w", id, err)
	}
	return nil
}
