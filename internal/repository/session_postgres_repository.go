package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/course-portal/internal/models"
	appErrors "github.com/noah-isme/course-portal/pkg/errors"
)

// PostgresSessionRepository keeps the identity record in portal_sessions.
type PostgresSessionRepository struct {
	db *sqlx.DB
}

// NewPostgresSessionRepository constructs the repository.
func NewPostgresSessionRepository(db *sqlx.DB) *PostgresSessionRepository {
	return &PostgresSessionRepository{db: db}
}

// Get loads the identity stored under key.
func (r *PostgresSessionRepository) Get(ctx context.Context, key string) (*models.Student, error) {
	const query = `SELECT value FROM portal_sessions WHERE key = $1`
	var raw []byte
	if err := r.db.GetContext(ctx, &raw, query, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrSessionMiss
		}
		return nil, fmt.Errorf("get session %s: %w", key, err)
	}
	var student models.Student
	if err := json.Unmarshal(raw, &student); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", key, err)
	}
	return &student, nil
}

// Put overwrites the identity stored under key.
func (r *PostgresSessionRepository) Put(ctx context.Context, key string, student models.Student) error {
	const query = `INSERT INTO portal_sessions (key, value, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (key)
DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`
	payload, err := json.Marshal(student)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", key, err)
	}
	if _, err := r.db.ExecContext(ctx, query, key, payload); err != nil {
		return fmt.Errorf("upsert session %s: %w", key, err)
	}
	return nil
}

// Delete removes the identity stored under key.
func (r *PostgresSessionRepository) Delete(ctx context.Context, key string) error {
	const query = `DELETE FROM portal_sessions WHERE key = $1`
	if _, err := r.db.ExecContext(ctx, query, key); err != nil {
		return fmt.Errorf("delete session %s: %w", key, err)
	}
	return nil
}
