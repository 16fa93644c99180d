package aggregates

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/yungbote/caseline-backend/internal/data/repos/testutil"
	"github.com/yungbote/caseline-backend/internal/platform/dbctx"
)

func TestTxRunnerReplaysDeadlock(t *testing.T) {
	runner := NewRetryingTxRunner(testutil.DB(t), 3)
	calls := 0
	err := runner.InTx(context.Background(), func(dbc dbctx.Context) error {
		calls++
		if dbc.Tx == nil {
			t.Fatalf("expected a transaction handle")
		}
		if calls < 3 {
			return &pgconn.PgError{Code: "40P01"}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Fatalf("calls: got=%d want=3", calls)
	}
}

func TestTxRunnerGivesUpAfterAttempts(t *testing.T) {
	runner := NewRetryingTxRunner(testutil.DB(t), 2)
	calls := 0
	err := runner.InTx(context.Background(), func(dbctx.Context) error {
		calls++
		return &pgconn.PgError{Code: "40001"}
	})
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "40001" {
		t.Fatalf("expected serialization failure, got %v", err)
	}
	if calls != 2 {
		t.Fatalf("calls: got=%d want=2", calls)
	}
}

func TestTxRunnerDoesNotReplayOtherFailures(t *testing.T) {
	runner := NewGormTxRunner(testutil.DB(t))
	calls := 0
	boom := errors.New("adjust exploded")
	err := runner.InTx(context.Background(), func(dbctx.Context) error {
		calls++
		return boom
	})
	if !errors.Is(err, boom) || calls != 1 {
		t.Fatalf("err=%v calls=%d", err, calls)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	calls = 0
	_ = runner.InTx(ctx, func(dbctx.Context) error {
		calls++
		return context.Canceled
	})
	if calls > 1 {
		t.Fatalf("cancelled request replayed %d times", calls)
	}
}
