package aggregates

import (
	"context"
	"errors"
	"testing"
	"time"

	domainagg "github.com/yungbote/caseline-backend/internal/domain/aggregates"
	"github.com/yungbote/caseline-backend/internal/platform/dbctx"
	"gorm.io/gorm"
)

type recordingHooks struct {
	ops      []string
	statuses []string
}

func (h *recordingHooks) ObserveOperation(name, status string, _ time.Duration) {
	h.ops = append(h.ops, name)
	h.statuses = append(h.statuses, status)
}

type fakeRunner struct{}

func (fakeRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	return fn(dbctx.Context{Ctx: ctx})
}

func TestWriterMapsAndReports(t *testing.T) {
	hooks := &recordingHooks{}
	w := NewWriter(BaseDeps{Runner: fakeRunner{}, Hooks: hooks})

	if err := w.Write(context.Background(), "step.create", func(dbctx.Context) error { return nil }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := w.Write(context.Background(), "step.update", func(dbctx.Context) error {
		return gorm.ErrRecordNotFound
	})
	if !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("expected not_found, got %v", err)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("cause lost: %v", err)
	}
	if len(hooks.ops) != 2 || hooks.ops[1] != "step.update" {
		t.Fatalf("ops: %v", hooks.ops)
	}
	if hooks.statuses[0] != "success" || hooks.statuses[1] != "not_found" {
		t.Fatalf("statuses: %v", hooks.statuses)
	}
}
