package db

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/yungbote/caseline-backend/internal/platform/logger"
)

// gormZap routes GORM's logging into the service logger. Only slow queries
// and real errors are emitted; record-not-found is expected control flow.
type gormZap struct {
	log           *logger.Logger
	level         gormLogger.LogLevel
	slowThreshold time.Duration
}

func NewGormLogger(log *logger.Logger, slow time.Duration) gormLogger.Interface {
	return &gormZap{log: log.With("component", "gorm"), level: gormLogger.Warn, slowThreshold: slow}
}

func (g *gormZap) LogMode(level gormLogger.LogLevel) gormLogger.Interface {
	cp := *g
	cp.level = level
	return &cp
}

func (g *gormZap) Info(_ context.Context, msg string, args ...interface{}) {
	if g.level >= gormLogger.Info {
		g.log.Info(msg, "args", args)
	}
}

func (g *gormZap) Warn(_ context.Context, msg string, args ...interface{}) {
	if g.level >= gormLogger.Warn {
		g.log.Warn(msg, "args", args)
	}
}

func (g *gormZap) Error(_ context.Context, msg string, args ...interface{}) {
	if g.level >= gormLogger.Error {
		g.log.Error(msg, "args", args)
	}
}

func (g *gormZap) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	if g.level <= gormLogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && g.level >= gormLogger.Error:
		sql, rows := fc()
		g.log.Error("query failed", "error", err, "elapsed_ms", elapsed.Milliseconds(), "rows", rows, "sql", sql)
	case g.slowThreshold > 0 && elapsed > g.slowThreshold && g.level >= gormLogger.Warn:
		sql, rows := fc()
		g.log.Warn("slow query", "elapsed_ms", elapsed.Milliseconds(), "rows", rows, "sql", sql)
	case g.level >= gormLogger.Info:
		sql, rows := fc()
		g.log.Debug("query", "elapsed_ms", elapsed.Milliseconds(), "rows", rows, "sql", sql)
	}
}
