// Package metrics предоставляет интерфейсы и реализации для сбора и отправки метрик
// в Prometheus Pushgateway.
//
// Пакет следует общим паттернам проекта:
//   - Collector interface для абстракции
//   - Factory pattern: NewCollector выбирает реализацию на основе конфигурации
//   - Graceful degradation: NopCollector при отключённых метриках
package metrics

import (
	"context"
	"time"
)

// Результаты обработки входящего оповещения для label "result".
const (
	ResultDispatched       = "dispatched"
	ResultWhitelisted      = "whitelisted"
	ResultUnrecognized     = "unrecognized"
	ResultInvalidRecipient = "invalid_recipient"
	ResultError            = "error"
)

// Каналы доставки для label "channel".
const (
	ChannelChat = "chat"
	ChannelMail = "mail"
)

// Collector определяет интерфейс для сбора метрик.
// Реализации: PrometheusCollector (активный) и NopCollector (no-op).
type Collector interface {
	// RecordAlert записывает завершение обработки одного входящего оповещения.
	// result — один из Result* констант, duration — полное время обработки.
	RecordAlert(result string, duration time.Duration)

	// RecordDispatch записывает попытку отправки уведомления в канал.
	// channel — ChannelChat или ChannelMail.
	RecordDispatch(channel string, success bool)

	// Push отправляет метрики в Pushgateway.
	// Возвращает nil даже при ошибке — ошибки логируются внутри реализации.
	Push(ctx context.Context) error
}
