package tx

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"
)

// Runner executes a function inside one atomic unit of work. Every mutation
// performed through stores that honor the context transaction either commits
// as a whole or rolls back as a whole.
type Runner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// defaultTxTimeout bounds a unit of work that arrives without a deadline.
const defaultTxTimeout = 5 * time.Second

// SQLRunner wraps *sql.DB transactions and injects the transaction into the
// context so stores pick it up via From.
type SQLRunner struct {
	db      *sql.DB
	timeout time.Duration
}

func NewSQLRunner(db *sql.DB) *SQLRunner {
	return &SQLRunner{db: db}
}

func (r *SQLRunner) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("transaction aborted: %w", err)
	}

	timeout := r.timeout
	if timeout == 0 {
		timeout = defaultTxTimeout
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	sqlTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		_ = sqlTx.Rollback()
	}()

	if err := fn(WithTx(ctx, sqlTx)); err != nil {
		return err
	}

	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// MemoryRunner serializes units of work with a mutex and replays registered
// compensations on failure. Memory stores register an undo per mutation via
// OnRollback so a failing step restores every prior write in the unit.
type MemoryRunner struct {
	mu sync.Mutex
}

func NewMemoryRunner() *MemoryRunner {
	return &MemoryRunner{}
}

func (r *MemoryRunner) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("transaction aborted: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	journal := &rollbackJournal{}
	if err := fn(withJournal(ctx, journal)); err != nil {
		journal.rollback()
		return err
	}
	return nil
}

// rollbackJournal accumulates undo functions in mutation order and replays
// them in reverse on rollback.
type rollbackJournal struct {
	mu    sync.Mutex
	undos []func()
}

func (j *rollbackJournal) add(undo func()) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.undos = append(j.undos, undo)
}

func (j *rollbackJournal) rollback() {
	j.mu.Lock()
	defer j.mu.Unlock()
	for i := len(j.undos) - 1; i >= 0; i-- {
		j.undos[i]()
	}
	j.undos = nil
}

type journalKey struct{}

func withJournal(ctx context.Context, j *rollbackJournal) context.Context {
	return context.WithValue(ctx, journalKey{}, j)
}

// OnRollback registers an undo for the current memory unit of work. Outside a
// MemoryRunner transaction it is a no-op; the mutation stands on its own.
func OnRollback(ctx context.Context, undo func()) {
	if j, ok := ctx.Value(journalKey{}).(*rollbackJournal); ok {
		j.add(undo)
	}
}
