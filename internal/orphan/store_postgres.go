package orphan

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"signup/pkg/platform/sentinel"
)

// PostgresStore persists the ledger in the orphaned_identities table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Record(ctx context.Context, rec Record) error {
	query := `
		INSERT INTO orphaned_identities (identity_id, username, identifier, reason, attempts, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (identity_id) DO UPDATE SET
			reason = EXCLUDED.reason,
			attempts = orphaned_identities.attempts + EXCLUDED.attempts,
			resolved_at = NULL
	`
	recordedAt := rec.RecordedAt
	if recordedAt.IsZero() {
		recordedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, query, rec.IdentityID, rec.Username, rec.Identifier, rec.Reason, rec.Attempts, recordedAt)
	if err != nil {
		return fmt.Errorf("record orphan: %w", err)
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context, limit int) ([]Record, error) {
	query := `
		SELECT identity_id, username, identifier, reason, attempts, recorded_at
		FROM orphaned_identities
		WHERE resolved_at IS NULL
		ORDER BY recorded_at
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT $1"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orphans: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.IdentityID, &r.Username, &r.Identifier, &r.Reason, &r.Attempts, &r.RecordedAt); err != nil {
			return nil, fmt.Errorf("scan orphan: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orphans: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) Resolve(ctx context.Context, identityID string, at time.Time) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE orphaned_identities SET resolved_at = $2 WHERE identity_id = $1 AND resolved_at IS NULL`,
		identityID, at,
	)
	if err != nil {
		return fmt.Errorf("resolve orphan: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("resolve orphan rows affected: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
