package db

import (
	"context"
	"database/sql"
	"errors"
	"math/rand"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// TxRunner groups multiple store writes into one serializable database
// transaction. Every ledger operation that touches more than one row runs
// inside WithTx so that apply/reverse pairs and both sides of a transfer
// share a single failure domain.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error
}

type SQLXTxRunner struct {
	db *sqlx.DB
}

func NewTxRunner(db *sqlx.DB) SQLXTxRunner {
	return SQLXTxRunner{db: db}
}

func (r SQLXTxRunner) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	return WithTx(ctx, r.db, fn)
}

func Connect(databaseURL string) (*sqlx.DB, error) {
	conn, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, err
	}
	conn.SetMaxIdleConns(5)
	conn.SetMaxOpenConns(30)
	conn.SetConnMaxIdleTime(5 * time.Minute)
	conn.SetConnMaxLifetime(30 * time.Minute)
	return conn, nil
}

const maxTxAttempts = 5

// WithTx runs fn in a serializable transaction, retrying serialization
// conflicts and deadlocks with quadratic backoff.
func WithTx(ctx context.Context, conn *sqlx.DB, fn func(*sqlx.Tx) error) error {
	var err error
	for attempt := 1; attempt <= maxTxAttempts; attempt++ {
		var tx *sqlx.Tx
		tx, err = conn.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
		if err != nil {
			return err
		}
		if err = fn(tx); err != nil {
			_ = tx.Rollback()
		} else if err = tx.Commit(); err == nil {
			return nil
		}
		if !retryable(err) {
			return err
		}
		backoff(attempt)
	}
	return err
}

func retryable(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	// serialization_failure / deadlock_detected
	return pqErr.Code == "40001" || pqErr.Code == "40P01"
}

func backoff(attempt int) {
	base := time.Duration(attempt*attempt) * 20 * time.Millisecond
	jitter := time.Duration(rand.Int63n(int64(10 * time.Millisecond)))
	time.Sleep(base + jitter)
}
