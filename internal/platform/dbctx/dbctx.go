package dbctx

import (
	"context"

	"gorm.io/gorm"

	"github.com/yungbote/caseline-backend/internal/platform/ctxutil"
)

// Context bundles a request context with an optional GORM transaction.
type Context struct {
	Ctx context.Context
	Tx  *gorm.DB
}

// DB returns the transaction when set, otherwise fallback, bound to Ctx.
func (c Context) DB(fallback *gorm.DB) *gorm.DB {
	t := c.Tx
	if t == nil {
		t = fallback
	}
	return t.WithContext(ctxutil.Default(c.Ctx))
}
