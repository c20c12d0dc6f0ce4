package telemetry

import (
	"context"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig controls the query-level tracing attached to GORM.
type DBTracingConfig struct {
	Enabled bool
	// LogFullSQL includes bound query variables in spans. Keep it off
	// outside development; order payloads carry tenant financial data.
	LogFullSQL      bool
	SlowQueryThresh time.Duration
}

// DBTracingPlugin wires otelgorm into a GORM instance and layers slow-query
// and error annotations on top of the spans it produces.
type DBTracingPlugin struct {
	config DBTracingConfig
	logger *zap.Logger
}

// NewDBTracingPlugin creates the plugin; call RegisterOtelGorm to attach it.
func NewDBTracingPlugin(cfg DBTracingConfig, logger *zap.Logger) *DBTracingPlugin {
	if cfg.SlowQueryThresh == 0 {
		cfg.SlowQueryThresh = 200 * time.Millisecond
	}
	return &DBTracingPlugin{config: cfg, logger: logger}
}

// RegisterOtelGorm attaches the otelgorm plugin plus the timing callbacks to
// the DB handle. A no-op when tracing is disabled.
func (p *DBTracingPlugin) RegisterOtelGorm(db *gorm.DB) error {
	if !p.config.Enabled {
		p.logger.Debug("Database tracing disabled, skipping otelgorm registration")
		return nil
	}

	opts := []otelgorm.Option{otelgorm.WithDBName("postgresql")}
	if !p.config.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	if err := p.registerTimingCallbacks(db); err != nil {
		return err
	}

	p.logger.Info("Database tracing enabled",
		zap.Bool("log_full_sql", p.config.LogFullSQL),
		zap.Duration("slow_query_threshold", p.config.SlowQueryThresh),
	)
	return nil
}

// registerTimingCallbacks hooks a start-time marker before each GORM
// operation and the span annotator after it.
func (p *DBTracingPlugin) registerTimingCallbacks(db *gorm.DB) error {
	cb := db.Callback()
	registrations := []struct {
		name     string
		register func(name string, fn func(*gorm.DB)) error
		fn       func(*gorm.DB)
	}{
		{"otel_timing:before_create", cb.Create().Before("gorm:create").Register, markQueryStart},
		{"otel_timing:before_query", cb.Query().Before("gorm:query").Register, markQueryStart},
		{"otel_timing:before_update", cb.Update().Before("gorm:update").Register, markQueryStart},
		{"otel_timing:before_delete", cb.Delete().Before("gorm:delete").Register, markQueryStart},
		{"otel_timing:before_row", cb.Row().Before("gorm:row").Register, markQueryStart},
		{"otel_timing:before_raw", cb.Raw().Before("gorm:raw").Register, markQueryStart},
		{"otel_timing:after_create", cb.Create().After("gorm:create").Register, p.annotateSpan},
		{"otel_timing:after_query", cb.Query().After("gorm:query").Register, p.annotateSpan},
		{"otel_timing:after_update", cb.Update().After("gorm:update").Register, p.annotateSpan},
		{"otel_timing:after_delete", cb.Delete().After("gorm:delete").Register, p.annotateSpan},
		{"otel_timing:after_row", cb.Row().After("gorm:row").Register, p.annotateSpan},
		{"otel_timing:after_raw", cb.Raw().After("gorm:raw").Register, p.annotateSpan},
	}

	for _, r := range registrations {
		if err := r.register(r.name, r.fn); err != nil {
			return err
		}
	}
	return nil
}

func markQueryStart(db *gorm.DB) {
	if db.Statement.Context != nil {
		db.Statement.Context = context.WithValue(db.Statement.Context, queryStartTimeKey, time.Now())
	}
}

// annotateSpan enriches the active span with row counts, table name, errors
// and a slow-query event when the statement exceeded the threshold.
func (p *DBTracingPlugin) annotateSpan(db *gorm.DB) {
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
	if db.Error != nil && db.Error != gorm.ErrRecordNotFound {
		span.SetStatus(codes.Error, db.Error.Error())
		span.RecordError(db.Error)
	}

	if startTime, ok := ctx.Value(queryStartTimeKey).(time.Time); ok {
		elapsed := time.Since(startTime)
		if elapsed > p.config.SlowQueryThresh {
			span.SetAttributes(
				attribute.Bool("db.slow_query", true),
				attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
			)
			span.AddEvent("slow_query_warning", trace.WithAttributes(
				attribute.Int64("duration_ms", elapsed.Milliseconds()),
				attribute.Int64("threshold_ms", p.config.SlowQueryThresh.Milliseconds()),
			))
		}
	}
}

type contextKey string

const queryStartTimeKey contextKey = "otel_query_start_time"
