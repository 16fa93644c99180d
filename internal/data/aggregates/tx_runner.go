package aggregates

import (
	"context"
	"time"

	domainagg "github.com/yungbote/caseline-backend/internal/domain/aggregates"
	"github.com/yungbote/caseline-backend/internal/platform/dbctx"
	"gorm.io/gorm"
)

const (
	defaultTxAttempts = 3
	txRetryBackoff    = 15 * time.Millisecond
)

// TxRunner is the transaction boundary for write paths. Returning an error
// from fn rolls everything back.
type TxRunner interface {
	InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error
}

// gormTxRunner replays fn when the transaction loses a lock or serialization
// race (pathway row locks make deadlocks possible under concurrent step
// edits). fn must only touch state it rebuilds on every call.
type gormTxRunner struct {
	db       *gorm.DB
	attempts int
}

func NewGormTxRunner(db *gorm.DB) TxRunner {
	return NewRetryingTxRunner(db, defaultTxAttempts)
}

// NewRetryingTxRunner runs each transaction at most attempts times.
func NewRetryingTxRunner(db *gorm.DB, attempts int) TxRunner {
	if attempts < 1 {
		attempts = 1
	}
	return &gormTxRunner{db: db, attempts: attempts}
}

func (r *gormTxRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	if fn == nil {
		return nil
	}
	if r == nil || r.db == nil {
		return domainagg.NewError(domainagg.CodeInternal, "tx", "transaction runner has nil db", nil)
	}
	var err error
	for attempt := 1; attempt <= r.attempts; attempt++ {
		err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return fn(dbctx.Context{Ctx: ctx, Tx: tx})
		})
		if err == nil || attempt == r.attempts || !retryable(ctx, err) {
			return err
		}
		select {
		case <-ctx.Done():
			return err
		case <-time.After(time.Duration(attempt) * txRetryBackoff):
		}
	}
	return err
}

// retryable reports a lost lock or serialization race. A cancelled request
// is never replayed.
func retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	return domainagg.IsCode(MapError("tx", err), domainagg.CodeRetryable)
}
