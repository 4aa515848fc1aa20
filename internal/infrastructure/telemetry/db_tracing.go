package telemetry

import (
	"errors"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig holds configuration for database span instrumentation.
type DBTracingConfig struct {
	LogFullSQL bool // include query variables in spans (development only)
}

// RegisterDBTracing installs the otelgorm plugin on the GORM instance so every
// database operation produces a span, and adds a callback that enriches those
// spans with row counts, table names and statement errors. Slow query
// detection lives in GormLogger; here we only annotate the trace.
func RegisterDBTracing(db *gorm.DB, cfg DBTracingConfig, logger *zap.Logger) error {
	opts := []otelgorm.Option{otelgorm.WithDBName("postgresql")}
	if !cfg.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	registrars := map[string]func(string, func(*gorm.DB)) error{
		"db_span:create": func(n string, fn func(*gorm.DB)) error {
			return db.Callback().Create().After("gorm:create").Register(n, fn)
		},
		"db_span:query": func(n string, fn func(*gorm.DB)) error {
			return db.Callback().Query().After("gorm:query").Register(n, fn)
		},
		"db_span:update": func(n string, fn func(*gorm.DB)) error {
			return db.Callback().Update().After("gorm:update").Register(n, fn)
		},
		"db_span:delete": func(n string, fn func(*gorm.DB)) error {
			return db.Callback().Delete().After("gorm:delete").Register(n, fn)
		},
		"db_span:raw": func(n string, fn func(*gorm.DB)) error {
			return db.Callback().Raw().After("gorm:raw").Register(n, fn)
		},
	}
	for name, register := range registrars {
		if err := register(name, enrichSpan); err != nil {
			return err
		}
	}

	logger.Info("Database tracing enabled", zap.Bool("log_full_sql", cfg.LogFullSQL))
	return nil
}

// enrichSpan annotates the active span with the outcome of the statement.
func enrichSpan(db *gorm.DB) {
	ctx := db.Statement.Context
	if ctx == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	if span == nil || !span.IsRecording() {
		return
	}

	if db.Statement.RowsAffected >= 0 {
		span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))
	}
	if db.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
	}
	if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
		span.SetStatus(codes.Error, db.Error.Error())
		span.RecordError(db.Error)
	}
}
