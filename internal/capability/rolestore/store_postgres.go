package rolestore

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	id "curator/pkg/domain"
)

// PostgresStore reads the host's role and grant tables. Authorization reads
// are fail-closed: any query failure is logged and reported as "no".
type PostgresStore struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewPostgresStore(db *sql.DB, logger *slog.Logger) *PostgresStore {
	return &PostgresStore{db: db, logger: logger}
}

func (s *PostgresStore) HasRole(ctx context.Context, userID id.UserID, role string) bool {
	query := `SELECT EXISTS (SELECT 1 FROM user_roles WHERE user_id = $1 AND role = $2)`
	return s.exists(ctx, query, uuid.UUID(userID), role)
}

func (s *PostgresStore) HasGlobalGrant(ctx context.Context, userID id.UserID, grant string) bool {
	query := `SELECT EXISTS (SELECT 1 FROM user_grants WHERE user_id = $1 AND grant_name = $2)`
	return s.exists(ctx, query, uuid.UUID(userID), grant)
}

func (s *PostgresStore) exists(ctx context.Context, query string, args ...any) bool {
	var found bool
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&found)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.logger.WarnContext(ctx, "role store query failed, denying", "error", err)
		}
		return false
	}
	return found
}
