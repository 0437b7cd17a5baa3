package metrics

import (
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	startKey           = "metrics:start"
	slowQueryThreshold = 100 * time.Millisecond
)

// GormPlugin times every gorm operation and records it as a DB query metric.
type GormPlugin struct {
	metrics *Metrics
	logger  *zap.Logger
}

func NewGormPlugin(metrics *Metrics, logger *zap.Logger) *GormPlugin {
	return &GormPlugin{metrics: metrics, logger: logger}
}

func (p *GormPlugin) Name() string {
	return "paygw:metrics"
}

func (p *GormPlugin) Initialize(db *gorm.DB) error {
	cb := db.Callback()

	return errors.Join(
		cb.Create().Before("gorm:create").Register("metrics:before_create", p.before),
		cb.Create().After("gorm:create").Register("metrics:after_create", p.after("create")),
		cb.Query().Before("gorm:query").Register("metrics:before_query", p.before),
		cb.Query().After("gorm:query").Register("metrics:after_query", p.after("query")),
		cb.Update().Before("gorm:update").Register("metrics:before_update", p.before),
		cb.Update().After("gorm:update").Register("metrics:after_update", p.after("update")),
		cb.Delete().Before("gorm:delete").Register("metrics:before_delete", p.before),
		cb.Delete().After("gorm:delete").Register("metrics:after_delete", p.after("delete")),
		cb.Row().Before("gorm:row").Register("metrics:before_row", p.before),
		cb.Row().After("gorm:row").Register("metrics:after_row", p.after("row")),
		cb.Raw().Before("gorm:raw").Register("metrics:before_raw", p.before),
		cb.Raw().After("gorm:raw").Register("metrics:after_raw", p.after("raw")),
	)
}

func (p *GormPlugin) before(db *gorm.DB) {
	db.InstanceSet(startKey, time.Now())
}

func (p *GormPlugin) after(operation string) func(db *gorm.DB) {
	return func(db *gorm.DB) {
		v, ok := db.InstanceGet(startKey)
		if !ok {
			return
		}
		start, ok := v.(time.Time)
		if !ok {
			return
		}

		duration := time.Since(start)
		table := db.Statement.Table

		status := "success"
		if db.Error != nil {
			status = "error"
			if errors.Is(db.Error, gorm.ErrRecordNotFound) {
				status = "not_found"
			}
		}

		p.metrics.RecordDBQuery(operation, table, status, duration)

		if duration > slowQueryThreshold {
			p.logger.Warn("Slow database query",
				zap.String("operation", operation),
				zap.String("table", table),
				zap.String("status", status),
				zap.Duration("duration", duration),
				zap.Error(db.Error),
			)
		}
	}
}
