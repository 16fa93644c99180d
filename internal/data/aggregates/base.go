package aggregates

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	domainagg "github.com/yungbote/caseline-backend/internal/domain/aggregates"
	"github.com/yungbote/caseline-backend/internal/platform/dbctx"
)

type BaseDeps struct {
	DB     *gorm.DB
	Runner TxRunner
	Hooks  Hooks
}

func (d BaseDeps) withDefaults() BaseDeps {
	if d.Runner == nil {
		d.Runner = NewGormTxRunner(d.DB)
	}
	if d.Hooks == nil {
		d.Hooks = noopHooks{}
	}
	return d
}

// Writer runs named write operations in a transaction and reports their
// outcome to the hooks.
type Writer struct {
	deps BaseDeps
}

func NewWriter(deps BaseDeps) *Writer {
	return &Writer{deps: deps.withDefaults()}
}

// Write runs fn in one transaction. The returned error is already mapped to
// a domain code.
func (w *Writer) Write(ctx context.Context, op string, fn func(dbc dbctx.Context) error) error {
	start := time.Now()
	op = strings.TrimSpace(op)
	if op == "" {
		op = "write"
	}
	mapped := MapError(op, w.deps.Runner.InTx(ctx, fn))
	w.deps.Hooks.ObserveOperation(op, statusOf(mapped), time.Since(start))
	return mapped
}

func statusOf(err error) string {
	if err == nil {
		return "success"
	}
	if code := domainagg.CodeOf(err); code != "" {
		return string(code)
	}
	return "failure"
}
