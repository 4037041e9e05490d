package di

import (
	"context"
	"fmt"
	"time"

	"github.com/fediasonin/botyara/internal/bot"
	"github.com/fediasonin/botyara/internal/config"
	"github.com/fediasonin/botyara/internal/dispatch"
	"github.com/fediasonin/botyara/internal/notify"
	"github.com/fediasonin/botyara/internal/pkg/logging"
	"github.com/fediasonin/botyara/internal/pkg/metrics"
	"github.com/fediasonin/botyara/internal/pkg/tracing"
	"github.com/fediasonin/botyara/internal/recipient"
	"github.com/fediasonin/botyara/internal/telegram"
	"github.com/fediasonin/botyara/internal/whitelist"
)

// ProvideLogger создаёт Logger на основе Config.App.Logging.
func ProvideLogger(cfg *config.Config) logging.Logger {
	return logging.NewLogger(cfg.App.Logging)
}

// ProvideMetricsCollector создаёт Collector на основе Config.App.Metrics.
// Если метрики отключены или конфигурация невалидна — NopCollector:
// обработка оповещений важнее наблюдаемости.
func ProvideMetricsCollector(cfg *config.Config, logger logging.Logger) metrics.Collector {
	collector, err := metrics.NewCollector(cfg.App.Metrics, logger)
	if err != nil {
		logger.Error("ошибка создания MetricsCollector, используется NopCollector",
			"error", err.Error(),
		)
		return metrics.NewNopCollector()
	}
	return collector
}

// ProvideTracerProvider создаёт и инициализирует OTel TracerProvider.
// Возвращает shutdown function для graceful завершения.
func ProvideTracerProvider(cfg *config.Config, logger logging.Logger) func(context.Context) error {
	shutdown, err := tracing.NewTracerProvider(cfg.App.Tracing, logger)
	if err != nil {
		logger.Error("ошибка инициализации tracing, используется nop provider",
			"error", err.Error(),
		)
		return tracing.NewNopTracerProvider()
	}
	return shutdown
}

// ProvideTelegramClient создаёт клиент Bot API с токеном из credentials.
func ProvideTelegramClient(cfg *config.Config, logger logging.Logger) *telegram.Client {
	return telegram.NewClient(cfg.Credentials.APIToken, logger)
}

// ProvideWhitelistStore создаёт хранилище белого списка.
// При whitelistCache=false файл перечитывается на каждое оповещение.
func ProvideWhitelistStore(cfg *config.Config) whitelist.Store {
	return whitelist.NewFileStore(cfg.App.WhitelistPath, cfg.App.WhitelistCache)
}

// ProvideResolver создаёт генератор адресов получателей.
func ProvideResolver(cfg *config.Config) dispatch.RecipientResolver {
	return recipient.NewResolver(cfg.App.MailDomain)
}

// ProvideValidator создаёт валидатор адресов с DNS-оракулом.
func ProvideValidator(cfg *config.Config) (dispatch.RecipientValidator, error) {
	oracle, err := recipient.NewDNSOracle(cfg.App.DNSServer)
	if err != nil {
		return nil, fmt.Errorf("создание DNS оракула: %w", err)
	}
	return recipient.NewValidator(oracle), nil
}

// ProvideChatNotifier направляет операторские уведомления в main_chat_id.
func ProvideChatNotifier(client *telegram.Client, cfg *config.Config, logger logging.Logger) notify.ChatNotifier {
	return notify.NewTelegramChat(client, cfg.Credentials.MainChatID, logger)
}

// ProvideMailSender создаёт SMTP транспорт из credentials.
func ProvideMailSender(cfg *config.Config, logger logging.Logger) notify.MailSender {
	return notify.NewSMTPMailer(notify.SMTPConfig{
		Host:     cfg.Credentials.SMTPServer,
		Port:     cfg.Credentials.SMTPPort,
		Login:    cfg.Credentials.SenderLogin,
		Password: cfg.Credentials.SenderPassword,
		From:     cfg.Credentials.SenderEmail,
		Timeout:  30 * time.Second,
	}, logger)
}

// ProvideEngine собирает движок диспетчеризации.
func ProvideEngine(
	cfg *config.Config,
	wl whitelist.Store,
	resolver dispatch.RecipientResolver,
	validator dispatch.RecipientValidator,
	chat notify.ChatNotifier,
	mail notify.MailSender,
	logger logging.Logger,
	collector metrics.Collector,
) *dispatch.Engine {
	return dispatch.NewEngine(wl, resolver, validator, chat, mail, cfg.App.Order(), logger, collector)
}

// ProvideBot собирает цикл обработки входящих сообщений.
func ProvideBot(
	client *telegram.Client,
	engine *dispatch.Engine,
	cfg *config.Config,
	logger logging.Logger,
	collector metrics.Collector,
) *bot.Bot {
	return bot.New(client, engine, bot.Config{
		TargetChatID: cfg.Credentials.TargetChatID,
		MainChatID:   cfg.Credentials.MainChatID,
		ThreadID:     cfg.App.TargetThreadID,
	}, logger, collector)
}
