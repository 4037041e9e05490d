//go:build wireinject

package di

import (
	"github.com/google/wire"

	"github.com/fediasonin/botyara/internal/config"
)

//go:generate wire

// ProviderSet объединяет все провайдеры приложения.
// Используется в InitializeApp для построения графа зависимостей.
var ProviderSet = wire.NewSet(
	ProvideLogger,
	ProvideMetricsCollector,
	ProvideTracerProvider,
	ProvideTelegramClient,
	ProvideWhitelistStore,
	ProvideResolver,
	ProvideValidator,
	ProvideChatNotifier,
	ProvideMailSender,
	ProvideEngine,
	ProvideBot,
	wire.Struct(new(App), "*"),
)

// InitializeApp создаёт и инициализирует App через Wire DI.
// Принимает внешний Config (загруженный через config.MustLoad()).
//
// Wire генерирует реализацию этой функции в wire_gen.go.
func InitializeApp(cfg *config.Config) (*App, error) {
	wire.Build(ProviderSet)
	return nil, nil // Wire заменит это на реальную реализацию
}
