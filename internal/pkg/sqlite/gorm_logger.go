package sqlite

import (
	"context"
	"errors"
	"time"

	"github.com/ZertGraf/roster-bot/internal/pkg/logger"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"gorm.io/gorm/utils"
)

// GormLogger routes gorm's SQL tracing through the application logger.
type GormLogger struct {
	SlowThreshold time.Duration
	Debug         bool
	Silent        bool

	logger *logger.Logger
}

func NewGormLogger(log *logger.Logger, slowThreshold time.Duration, debug bool) *GormLogger {
	return &GormLogger{
		SlowThreshold: slowThreshold,
		Debug:         debug,
		logger:        log.Component("database/gorm"),
	}
}

func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *l
	clone.Silent = level == gormlogger.Silent
	return &clone
}

func (l *GormLogger) Info(ctx context.Context, s string, args ...any) {
	if l.Silent {
		return
	}
	l.logger.InfoContext(ctx, s, args...)
}

func (l *GormLogger) Warn(ctx context.Context, s string, args ...any) {
	if l.Silent {
		return
	}
	l.logger.WarnContext(ctx, s, args...)
}

func (l *GormLogger) Error(ctx context.Context, s string, args ...any) {
	if l.Silent {
		return
	}
	l.logger.ErrorContext(ctx, s, args...)
}

func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()

	attrs := []any{
		"sql", sql,
		"rows", rows,
		"duration", elapsed,
		"src", utils.FileWithLineNum(),
	}

	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		l.logger.ErrorContext(ctx, "query failed", append(attrs, "error", err)...)
	case l.SlowThreshold != 0 && elapsed > l.SlowThreshold:
		l.logger.WarnContext(ctx, "slow query", attrs...)
	case l.Debug:
		l.logger.DebugContext(ctx, "query", attrs...)
	}
}
