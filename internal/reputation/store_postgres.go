package reputation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	id "curator/pkg/domain"
	"curator/pkg/platform/sentinel"
	txcontext "curator/pkg/platform/tx"
)

// PostgresStore persists reputation records in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *PostgresStore) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *PostgresStore) Get(ctx context.Context, userID id.UserID) (*Record, error) {
	query := `
		SELECT user_id, points, level, updated_at
		FROM reputation
		WHERE user_id = $1
	`
	var (
		record Record
		uid    uuid.UUID
	)
	err := s.execer(ctx).QueryRowContext(ctx, query, uuid.UUID(userID)).Scan(
		&uid,
		&record.Points,
		&record.Level,
		&record.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || isUndefinedTable(err) {
			// Absence of a record, or of the whole table on a fresh install,
			// both mean "no reputation yet".
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get reputation: %w", err)
	}
	record.UserID = id.UserID(uid)
	return &record, nil
}

func (s *PostgresStore) Ensure(ctx context.Context, userID id.UserID) error {
	query := `
		INSERT INTO reputation (user_id, points, level, updated_at)
		VALUES ($1, 0, $2, NOW())
		ON CONFLICT (user_id) DO NOTHING
	`
	if _, err := s.execer(ctx).ExecContext(ctx, query, uuid.UUID(userID), LevelContributor); err != nil {
		return fmt.Errorf("ensure reputation: %w", err)
	}
	return nil
}

func (s *PostgresStore) Add(ctx context.Context, userID id.UserID, delta int) (int, error) {
	query := `
		INSERT INTO reputation (user_id, points, level, updated_at)
		VALUES ($1, GREATEST($2, 0), $3, NOW())
		ON CONFLICT (user_id) DO UPDATE
		SET points = GREATEST(reputation.points + $2, 0),
		    updated_at = NOW()
		RETURNING points
	`
	var points int
	err := s.execer(ctx).QueryRowContext(ctx, query, uuid.UUID(userID), delta, DeriveLevel(max(delta, 0))).Scan(&points)
	if err != nil {
		return 0, fmt.Errorf("add reputation points: %w", err)
	}

	// Level is derived from the final total, which the insert arm cannot know
	// ahead of the conflict resolution.
	update := `UPDATE reputation SET level = $2 WHERE user_id = $1`
	if _, err := s.execer(ctx).ExecContext(ctx, update, uuid.UUID(userID), DeriveLevel(points)); err != nil {
		return 0, fmt.Errorf("update reputation level: %w", err)
	}
	return points, nil
}

// isUndefinedTable reports whether err is PostgreSQL's undefined_table error.
func isUndefinedTable(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "42P01"
}
