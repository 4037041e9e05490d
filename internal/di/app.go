package di

import (
	"context"

	"github.com/fediasonin/botyara/internal/bot"
	"github.com/fediasonin/botyara/internal/config"
	"github.com/fediasonin/botyara/internal/pkg/logging"
	"github.com/fediasonin/botyara/internal/pkg/metrics"
)

// App содержит инициализированные зависимости приложения.
// Создаётся через Wire DI в InitializeApp().
//
// При добавлении новых зависимостей:
// 1. Добавить поле в App struct
// 2. Создать провайдер в providers.go
// 3. Добавить провайдер в ProviderSet в wire.go
// 4. Перегенерировать wire_gen.go: go generate ./internal/di/...
type App struct {
	// Config содержит конфигурацию приложения.
	// Передаётся извне через InitializeApp().
	Config *config.Config

	// Logger предоставляет структурированное логирование.
	Logger logging.Logger

	// Bot — цикл long polling и обработки входящих сообщений.
	Bot *bot.Bot

	// MetricsCollector собирает и отправляет метрики в Pushgateway.
	// Если метрики отключены — NopCollector.
	MetricsCollector metrics.Collector

	// TracerShutdown завершает OTel TracerProvider и отправляет
	// буферизированные span-ы. Если трейсинг отключён — nop function.
	TracerShutdown func(context.Context) error
}
