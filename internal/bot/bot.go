// Package bot принимает сообщения через long polling Telegram Bot API,
// фильтрует их по чату и треду и передаёт распознанные оповещения
// движку диспетчеризации.
package bot

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/fediasonin/botyara/internal/alert"
	"github.com/fediasonin/botyara/internal/pkg/apperrors"
	"github.com/fediasonin/botyara/internal/pkg/logging"
	"github.com/fediasonin/botyara/internal/pkg/metrics"
	"github.com/fediasonin/botyara/internal/pkg/tracing"
	"github.com/fediasonin/botyara/internal/telegram"
)

// tracerName — имя инструментируемой библиотеки для OTel.
const tracerName = "github.com/fediasonin/botyara/internal/bot"

// pollRetryDelay — пауза перед повтором после ошибки getUpdates.
const pollRetryDelay = 5 * time.Second

// Ответы, которые бот формирует сам, без движка диспетчеризации.
const (
	replyGreeting     = "Привет! Отправь мне сообщение с именем пользователя, и я отправлю ему уведомление на email."
	replyUnrecognized = "Не удалось распознать сообщение. Проверьте формат."
	replyInternal     = "Внутренняя ошибка при обработке оповещения."
)

// AlertProcessor обрабатывает распознанное оповещение и возвращает
// единственный ответ для его источника.
type AlertProcessor interface {
	Process(ctx context.Context, rec alert.Record) (string, error)
}

// Config — параметры фильтрации входящих сообщений.
type Config struct {
	// TargetChatID — чат, откуда принимаются оповещения.
	TargetChatID string
	// MainChatID — операторский чат. Сообщения из него игнорируются,
	// чтобы уведомления бота не зациклились на нём самом.
	MainChatID string
	// ThreadID — тред внутри целевого чата. Сообщения вне треда
	// игнорируются.
	ThreadID int
}

// Bot — цикл обработки входящих сообщений. Сообщения обрабатываются
// конкурентно, по goroutine на обновление; порядок ответов между
// разными оповещениями не гарантируется.
type Bot struct {
	client    *telegram.Client
	processor AlertProcessor
	config    Config
	logger    logging.Logger
	metrics   metrics.Collector

	offset int64
	wg     sync.WaitGroup
}

func New(client *telegram.Client, processor AlertProcessor, config Config, logger logging.Logger, collector metrics.Collector) *Bot {
	return &Bot{
		client:    client,
		processor: processor,
		config:    config,
		logger:    logger,
		metrics:   collector,
	}
}

// Run крутит long polling до отмены контекста. Ошибки опроса не
// фатальны: после паузы цикл продолжается.
func (b *Bot) Run(ctx context.Context) error {
	b.logger.Info("бот запущен",
		"target_chat_id", b.config.TargetChatID,
		"thread_id", b.config.ThreadID,
	)

	for {
		select {
		case <-ctx.Done():
			b.wg.Wait()
			b.logger.Info("бот остановлен")
			return nil
		default:
		}

		updates, err := b.client.GetUpdates(ctx, b.offset)
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			b.logger.Error("ошибка получения обновлений", "error", err.Error())
			select {
			case <-ctx.Done():
			case <-time.After(pollRetryDelay):
			}
			continue
		}

		for _, update := range updates {
			if update.UpdateID >= b.offset {
				b.offset = update.UpdateID + 1
			}

			msg := update.Message
			if msg == nil || msg.Text == "" {
				continue
			}

			b.wg.Add(1)
			go func(msg telegram.Message) {
				defer b.wg.Done()
				// Начатая обработка доводится до конца даже во время
				// остановки: отмена контекста опроса сюда не протекает.
				hctx := context.WithoutCancel(ctx)
				b.handleMessage(tracing.WithTraceID(hctx, tracing.GenerateTraceID()), msg)
			}(*msg)
		}
	}
}

// HandleMessage обрабатывает одно входящее сообщение синхронно.
// Вынесено из цикла опроса для тестируемости.
func (b *Bot) HandleMessage(ctx context.Context, msg telegram.Message) {
	b.handleMessage(ctx, msg)
}

func (b *Bot) handleMessage(ctx context.Context, msg telegram.Message) {
	// Команда /start отвечает в любом чате, без фильтрации
	if strings.HasPrefix(msg.Text, "/start") {
		b.reply(ctx, msg, replyGreeting)
		return
	}

	if !b.accepts(msg) {
		return
	}

	// Один span на принятое оповещение. Внутренний trace_id становится
	// OTel trace ID, чтобы логи и спаны сшивались по одному значению.
	ctx = tracing.ContextWithOTelTraceID(ctx, tracing.TraceIDFromContext(ctx))
	ctx, span := otel.Tracer(tracerName).Start(ctx, "handle_alert")
	defer span.End()

	log := b.logger.With(
		"chat_id", msg.Chat.ID,
		"message_id", msg.MessageID,
		"trace_id", tracing.TraceIDFromContext(ctx),
	)

	rec, err := alert.Extract(msg.Text)
	if err != nil {
		log.Warn("сообщение не распознано",
			"error", err.Error(),
			"code", apperrors.ErrAlertNoMatch,
		)
		b.metrics.RecordAlert(metrics.ResultUnrecognized, 0)
		b.reply(ctx, msg, replyUnrecognized)
		b.push(ctx)
		return
	}

	log.Info("оповещение распознано",
		"username", rec.Username,
		"source_ip", rec.SourceIP,
		"gateway", rec.Gateway,
	)

	status, err := b.processor.Process(ctx, rec)
	if err != nil {
		span.RecordError(err)
		log.Error("ошибка обработки оповещения", "error", err.Error())
		b.reply(ctx, msg, replyInternal)
		b.push(ctx)
		return
	}

	b.reply(ctx, msg, status)
	b.push(ctx)
}

// accepts решает, подлежит ли сообщение обработке: операторский чат
// игнорируется целиком, остальное должно прийти из целевого чата и
// нужного треда.
func (b *Bot) accepts(msg telegram.Message) bool {
	chatID := strconv.FormatInt(msg.Chat.ID, 10)

	if chatID == b.config.MainChatID {
		return false
	}
	if chatID != b.config.TargetChatID {
		return false
	}
	return msg.MessageThreadID == b.config.ThreadID
}

// reply отвечает на конкретное сообщение в его чате.
func (b *Bot) reply(ctx context.Context, msg telegram.Message, text string) {
	err := b.client.SendMessage(ctx, telegram.SendMessageRequest{
		ChatID:           strconv.FormatInt(msg.Chat.ID, 10),
		Text:             text,
		MessageThreadID:  msg.MessageThreadID,
		ReplyToMessageID: msg.MessageID,
	})
	if err != nil {
		b.logger.Error("ошибка отправки ответа",
			"error", err.Error(),
			"chat_id", msg.Chat.ID,
		)
	}
}

func (b *Bot) push(ctx context.Context) {
	if err := b.metrics.Push(ctx); err != nil {
		b.logger.Warn("ошибка отправки метрик", "error", err.Error())
	}
}
