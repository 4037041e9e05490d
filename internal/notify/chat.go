package notify

import (
	"context"

	"github.com/fediasonin/botyara/internal/pkg/apperrors"
	"github.com/fediasonin/botyara/internal/pkg/logging"
	"github.com/fediasonin/botyara/internal/telegram"
)

// TelegramChat отправляет уведомления в фиксированный операторский чат.
type TelegramChat struct {
	client *telegram.Client
	chatID string
	logger logging.Logger
}

func NewTelegramChat(client *telegram.Client, chatID string, logger logging.Logger) *TelegramChat {
	return &TelegramChat{
		client: client,
		chatID: chatID,
		logger: logger,
	}
}

// Notify отправляет текст в операторский чат. В чат уходят только
// полезные уведомления, диагностика ошибок туда не попадает.
func (t *TelegramChat) Notify(ctx context.Context, text string) error {
	err := t.client.SendMessage(ctx, telegram.SendMessageRequest{
		ChatID: t.chatID,
		Text:   text,
	})
	if err != nil {
		t.logger.Error("ошибка отправки в операторский чат",
			"error", err.Error(),
			"chat_id", t.chatID,
		)
		return apperrors.NewAppError(apperrors.ErrDispatchChat, "операторский чат", err)
	}

	t.logger.Info("уведомление отправлено в операторский чат", "chat_id", t.chatID)
	return nil
}
