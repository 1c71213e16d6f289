package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"signup/internal/registration/models"
	"signup/pkg/platform/sentinel"
)

// uniqueViolation is the PostgreSQL SQLSTATE for a unique constraint failure.
const uniqueViolation pq.ErrorCode = "23505"

// PostgresProfileStore persists profiles in the profiles table. The table's
// UNIQUE constraints on username, email and phone back up the pre-insert
// uniqueness query under concurrent registrations.
type PostgresProfileStore struct {
	db *sql.DB
}

func NewPostgresProfileStore(db *sql.DB) *PostgresProfileStore {
	return &PostgresProfileStore{db: db}
}

func (s *PostgresProfileStore) FindByUsernameOrEmailOrPhone(ctx context.Context, username, identifier string) ([]models.ProfileRecord, error) {
	query := `
		SELECT id, username, COALESCE(email, ''), COALESCE(phone, ''), created_at
		FROM profiles
		WHERE username = $1 OR email = $2 OR phone = $2
	`
	rows, err := s.db.QueryContext(ctx, query, username, identifier)
	if err != nil {
		return nil, fmt.Errorf("query profiles: %w", err)
	}
	defer rows.Close()

	var out []models.ProfileRecord
	for rows.Next() {
		var p models.ProfileRecord
		if err := rows.Scan(&p.ID, &p.Username, &p.Email, &p.Phone, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate profiles: %w", err)
	}
	return out, nil
}

func (s *PostgresProfileStore) Insert(ctx context.Context, profile models.ProfileRecord) error {
	query := `
		INSERT INTO profiles (id, username, email, phone, created_at)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5)
	`
	_, err := s.db.ExecContext(ctx, query, profile.ID, profile.Username, profile.Email, profile.Phone, profile.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("insert profile %s (%s): %w", profile.ID, pqErr.Constraint, sentinel.ErrConflict)
		}
		return fmt.Errorf("insert profile: %w", err)
	}
	return nil
}

func (s *PostgresProfileStore) FindByID(ctx context.Context, id string) (*models.ProfileRecord, error) {
	var p models.ProfileRecord
	err := s.db.QueryRowContext(ctx,
		`SELECT id, username, COALESCE(email, ''), COALESCE(phone, ''), created_at FROM profiles WHERE id = $1`,
		id,
	).Scan(&p.ID, &p.Username, &p.Email, &p.Phone, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find profile by id: %w", err)
	}
	return &p, nil
}
