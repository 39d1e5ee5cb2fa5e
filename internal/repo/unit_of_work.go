package repo

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"
)

// UnitOfWork runs fn as one all-or-nothing sequence of repository calls.
// Repositories called with the context handed to fn take part in the same
// unit; if fn returns an error nothing it did is kept.
// Nested calls join the outer unit.
type UnitOfWork interface {
	RunAtomic(ctx context.Context, fn func(ctx context.Context) error) error
}

const queryTimeout = 3 * time.Second

type txKey struct{}

// executor is satisfied by both *sql.DB and *sql.Tx.
type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func executorFrom(ctx context.Context, db *sql.DB) executor {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return tx
	}
	return db
}

type PostgresUnitOfWork struct {
	db *sql.DB
}

func NewPostgresUnitOfWork(db *sql.DB) *PostgresUnitOfWork {
	return &PostgresUnitOfWork{db: db}
}

func (u *PostgresUnitOfWork) RunAtomic(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return fn(ctx)
	}

	tx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	// No-op once committed.
	defer tx.Rollback()

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Snapshotter is implemented by in-memory repositories. Snapshot captures the
// current state and returns a function that puts it back.
type Snapshotter interface {
	Snapshot() (restore func())
}

type memoryTxKey struct{}

// InMemoryUnitOfWork serializes atomic sections and restores every
// registered store when fn fails.
type InMemoryUnitOfWork struct {
	mu     sync.Mutex
	stores []Snapshotter
}

func NewInMemoryUnitOfWork(stores ...Snapshotter) *InMemoryUnitOfWork {
	return &InMemoryUnitOfWork{stores: stores}
}

func (u *InMemoryUnitOfWork) RunAtomic(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(memoryTxKey{}) != nil {
		return fn(ctx)
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	restores := make([]func(), len(u.stores))
	for i, s := range u.stores {
		restores[i] = s.Snapshot()
	}

	if err := fn(context.WithValue(ctx, memoryTxKey{}, true)); err != nil {
		for i := len(restores) - 1; i >= 0; i-- {
			restores[i]()
		}
		return err
	}
	return nil
}
