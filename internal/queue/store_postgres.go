package queue

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	id "curator/pkg/domain"
	"curator/pkg/platform/sentinel"
	txcontext "curator/pkg/platform/tx"
)

// PostgresStore persists queue items in PostgreSQL. All mutations honor a
// transaction riding in the context so the orchestrator can group the queue
// transition with the content sync.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *PostgresStore) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *PostgresStore) Insert(ctx context.Context, item *Item) error {
	query := `
		INSERT INTO moderation_queue (id, content_type, content_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.execer(ctx).ExecContext(ctx, query,
		uuid.UUID(item.ID),
		item.ContentType.String(),
		int64(item.ContentID),
		item.Status.String(),
		item.CreatedAt,
		item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert queue item: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, queueID id.QueueID) (*Item, error) {
	query := `
		SELECT id, content_type, content_id, status, moderator_id, notes, created_at, updated_at
		FROM moderation_queue
		WHERE id = $1
	`
	item, err := scanItem(s.execer(ctx).QueryRowContext(ctx, query, uuid.UUID(queueID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get queue item: %w", err)
	}
	return item, nil
}

func (s *PostgresStore) List(ctx context.Context, filter ListFilter, limit, offset int) ([]*Item, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT id, content_type, content_id, status, moderator_id, notes, created_at, updated_at
		FROM moderation_queue
		WHERE ($1 = '' OR status = $1)
		  AND ($2 = '' OR content_type = $2)
		  AND ($3::uuid IS NULL OR moderator_id = $3)
		ORDER BY created_at DESC, id DESC
		LIMIT $4 OFFSET $5
	`
	var moderatorID *uuid.UUID
	if filter.ModeratorID != nil {
		mid := uuid.UUID(*filter.ModeratorID)
		moderatorID = &mid
	}

	rows, err := s.execer(ctx).QueryContext(ctx, query,
		filter.Status.String(),
		filter.ContentType.String(),
		moderatorID,
		limit,
		offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list queue items: %w", err)
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan queue item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate queue items: %w", err)
	}
	return items, nil
}

// Transition is a compare-and-set on status: the row is updated only while it
// is still pending, so concurrent decisions on one item produce exactly one
// winner without application-level locking.
func (s *PostgresStore) Transition(ctx context.Context, queueID id.QueueID, newStatus Status, moderatorID id.UserID, notes string) error {
	query := `
		UPDATE moderation_queue
		SET status = $2, moderator_id = $3, notes = $4, updated_at = NOW()
		WHERE id = $1 AND status = $5
	`
	result, err := s.execer(ctx).ExecContext(ctx, query,
		uuid.UUID(queueID),
		newStatus.String(),
		uuid.UUID(moderatorID),
		notes,
		StatusPending.String(),
	)
	if err != nil {
		return fmt.Errorf("transition queue item: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("transition queue item rows affected: %w", err)
	}
	if affected == 0 {
		// Either the item does not exist or it was already decided; callers
		// that need the distinction look the item up first.
		return sentinel.ErrConflict
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*Item, error) {
	var (
		item        Item
		itemID      uuid.UUID
		contentType string
		status      string
		moderatorID *uuid.UUID
		notes       sql.NullString
	)
	err := row.Scan(
		&itemID,
		&contentType,
		&item.ContentID,
		&status,
		&moderatorID,
		&notes,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	item.ID = id.QueueID(itemID)
	item.ContentType = id.ContentType(contentType)
	item.Status = Status(status)
	if moderatorID != nil {
		mid := id.UserID(*moderatorID)
		item.ModeratorID = &mid
	}
	if notes.Valid {
		item.Notes = &notes.String
	}
	return &item, nil
}
