package metrics

import (
	"context"
	"time"
)

// NopCollector — no-op реализация Collector.
// Используется когда метрики отключены (Config.Enabled = false).
type NopCollector struct{}

// NewNopCollector создаёт NopCollector.
func NewNopCollector() *NopCollector {
	return &NopCollector{}
}

// RecordAlert — no-op, ничего не делает.
func (c *NopCollector) RecordAlert(result string, duration time.Duration) {}

// RecordDispatch — no-op, ничего не делает.
func (c *NopCollector) RecordDispatch(channel string, success bool) {}

// Push — no-op, всегда возвращает nil.
func (c *NopCollector) Push(ctx context.Context) error {
	return nil
}
