package logger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const maxLoggedSQL = 1000

// GormZap sends GORM traces to zap under the "gorm" logger name, tagged
// with the request id of the call that ran the query.
type GormZap struct {
	log   *zap.Logger
	slow  time.Duration
	level gormlogger.LogLevel
}

var _ gormlogger.Interface = (*GormZap)(nil)

// NewGormLogger builds a GORM logger from the service log level. Every
// statement is traced only at "debug"; "info" and "warn" keep slow queries
// and constraint violations; "error" keeps failures only.
func NewGormLogger(l *zap.Logger, slowQuerySeconds float64, level string) *GormZap {
	return &GormZap{
		log:   l.Named("gorm"),
		slow:  time.Duration(slowQuerySeconds * float64(time.Second)),
		level: gormLevel(level),
	}
}

func gormLevel(level string) gormlogger.LogLevel {
	if strings.EqualFold(level, "silent") {
		return gormlogger.Silent
	}
	switch parseLogLevel(level) {
	case zapcore.DebugLevel:
		return gormlogger.Info
	case zapcore.ErrorLevel:
		return gormlogger.Error
	default:
		return gormlogger.Warn
	}
}

// LogMode implements gormlogger.Interface
func (g *GormZap) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *g
	clone.level = level
	return &clone
}

// Info implements gormlogger.Interface
func (g *GormZap) Info(ctx context.Context, msg string, data ...any) {
	if g.level >= gormlogger.Info {
		WithContext(ctx, g.log).Info(fmt.Sprintf(msg, data...))
	}
}

// Warn implements gormlogger.Interface
func (g *GormZap) Warn(ctx context.Context, msg string, data ...any) {
	if g.level >= gormlogger.Warn {
		WithContext(ctx, g.log).Warn(fmt.Sprintf(msg, data...))
	}
}

// Error implements gormlogger.Interface
func (g *GormZap) Error(ctx context.Context, msg string, data ...any) {
	if g.level >= gormlogger.Error {
		WithContext(ctx, g.log).Error(fmt.Sprintf(msg, data...))
	}
}

// Trace implements gormlogger.Interface. ErrRecordNotFound is traced as a
// normal query; unique and foreign key violations are warnings.
func (g *GormZap) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if g.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()
	fields := []zap.Field{
		zap.String("sql", truncateSQL(sql)),
		zap.Int64("rows", rows),
		zap.Float64("elapsed_ms", float64(elapsed.Microseconds())/1e3),
	}
	log := WithContext(ctx, g.log)

	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = nil
	}

	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey), errors.Is(err, gorm.ErrForeignKeyViolated):
		if g.level >= gormlogger.Warn {
			log.Warn("gorm constraint violation", append(fields, zap.Error(err))...)
		}
	case err != nil:
		log.Error("gorm query error", append(fields, zap.Error(err))...)
	case g.slow > 0 && elapsed > g.slow && g.level >= gormlogger.Warn:
		log.Warn("gorm slow query", append(fields, zap.Duration("threshold", g.slow))...)
	case g.level >= gormlogger.Info:
		log.Debug("gorm query", fields...)
	}
}

func truncateSQL(sql string) string {
	if len(sql) <= maxLoggedSQL {
		return sql
	}
	return sql[:maxLoggedSQL] + "..."
}
