package content

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

// contentTables maps each content type to its host table. Every table carries
// id, owner_id, and status columns; tags have no status (they are deleted on
// reject instead).
var contentTables = map[id.ContentType]string{
	id.ContentTypeReview:  "reviews",
	id.ContentTypeListing: "listings",
	id.ContentTypeTag:     "tags",
}

// PostgresStore reads and writes host content records. Writes honor a
// transaction riding in the context so they commit or roll back together
// with the queue transition.
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

func (s *PostgresStore) Owner(ctx context.Context, contentType id.ContentType, contentID id.ContentID) (id.UserID, error) {
	table, err := tableFor(contentType)
	if err != nil {
		return id.UserID{}, err
	}
	var owner uuid.UUID
	query := fmt.Sprintf(`SELECT owner_id FROM %s WHERE id = $1`, table)
	if err := s.execer(ctx).QueryRowContext(ctx, query, int64(contentID)).Scan(&owner); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return id.UserID{}, sentinel.ErrNotFound
		}
		return id.UserID{}, fmt.Errorf("get %s owner: %w", contentType, err)
	}
	return id.UserID(owner), nil
}

func (s *PostgresStore) SetStatus(ctx context.Context, contentType id.ContentType, contentID id.ContentID, status string) error {
	table, err := tableFor(contentType)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`UPDATE %s SET status = $2, updated_at = NOW() WHERE id = $1`, table)
	result, err := s.execer(ctx).ExecContext(ctx, query, int64(contentID), status)
	if err != nil {
		return fmt.Errorf("set %s status: %w", contentType, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("set %s status rows affected: %w", contentType, err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, contentType id.ContentType, contentID id.ContentID) error {
	table, err := tableFor(contentType)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, table)
	result, err := s.execer(ctx).ExecContext(ctx, query, int64(contentID))
	if err != nil {
		return fmt.Errorf("delete %s: %w", contentType, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete %s rows affected: %w", contentType, err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func tableFor(contentType id.ContentType) (string, error) {
	table, ok := contentTables[contentType]
	if !ok {
		return "", fmt.Errorf("no table mapped for content type %q", contentType)
	}
	return table, nil
}
