// Package telegram — минимальный клиент Telegram Bot API:
// отправка сообщений и long polling обновлений.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fediasonin/botyara/internal/pkg/apperrors"
	"github.com/fediasonin/botyara/internal/pkg/logging"
	"github.com/fediasonin/botyara/internal/pkg/urlutil"
)

// APIBaseURL — базовый URL Telegram Bot API.
const APIBaseURL = "https://api.telegram.org/bot"

// DefaultTimeout — таймаут HTTP запросов к API. Для getUpdates к нему
// добавляется таймаут long polling.
const DefaultTimeout = 30 * time.Second

// maxResponseSize ограничивает тело ответа API. getUpdates может
// вернуть пачку сообщений, поэтому лимит заметно больше, чем нужно
// для sendMessage.
const maxResponseSize = 1 << 20

// HTTPClient определяет интерфейс HTTP клиента для тестирования.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client — клиент Bot API одного бота.
type Client struct {
	token      string
	logger     logging.Logger
	httpClient HTTPClient
}

func NewClient(token string, logger logging.Logger) *Client {
	return &Client{
		token:      token,
		logger:     logger,
		httpClient: &http.Client{Timeout: DefaultTimeout + longPollTimeout*time.Second},
	}
}

// SetHTTPClient устанавливает кастомный HTTPClient (для тестирования).
func (c *Client) SetHTTPClient(client HTTPClient) {
	c.httpClient = client
}

// apiResponse — конверт ответа Bot API.
type apiResponse struct {
	OK          bool            `json:"ok"`
	ErrorCode   int             `json:"error_code,omitempty"`
	Description string          `json:"description,omitempty"`
	Result      json.RawMessage `json:"result,omitempty"`
}

// call выполняет метод Bot API с JSON телом. Токен бота входит в URL,
// поэтому все ошибки санитизируются перед возвратом.
func (c *Client) call(ctx context.Context, method string, payload any, result any) error {
	url := fmt.Sprintf("%s%s/%s", APIBaseURL, c.token, method)

	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%s: сериализация запроса: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("%s: создание запроса: %s", method, urlutil.RedactSecret(err.Error(), c.token))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Go stdlib включает URL (с токеном) в текст ошибки.
		return fmt.Errorf("%s: HTTP запрос: %s", method, urlutil.RedactSecret(err.Error(), c.token))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("%s: чтение ответа: %w", method, err)
	}

	var apiResp apiResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return fmt.Errorf("%s: разбор ответа: %w", method, err)
	}

	if !apiResp.OK {
		return apperrors.NewAppError(apperrors.ErrTelegramAPI,
			fmt.Sprintf("%s: Telegram API error %d: %s", method, apiResp.ErrorCode, apiResp.Description),
			nil)
	}

	if result != nil {
		if err := json.Unmarshal(apiResp.Result, result); err != nil {
			return fmt.Errorf("%s: разбор результата: %w", method, err)
		}
	}

	return nil
}

// SendMessageRequest — параметры метода sendMessage.
type SendMessageRequest struct {
	ChatID           string `json:"chat_id"`
	Text             string `json:"text"`
	MessageThreadID  int    `json:"message_thread_id,omitempty"`
	ReplyToMessageID int    `json:"reply_to_message_id,omitempty"`
}

// SendMessage отправляет текстовое сообщение в чат.
func (c *Client) SendMessage(ctx context.Context, req SendMessageRequest) error {
	return c.call(ctx, "sendMessage", req, nil)
}

// longPollTimeout — таймаут long polling getUpdates в секундах.
const longPollTimeout = 50

type getUpdatesRequest struct {
	Offset         int64    `json:"offset,omitempty"`
	Timeout        int      `json:"timeout"`
	AllowedUpdates []string `json:"allowed_updates"`
}

// GetUpdates блокируется до появления обновлений или истечения
// таймаута long polling. offset — идентификатор первого ожидаемого
// обновления; обновления с меньшими идентификаторами подтверждаются
// и больше не возвращаются.
func (c *Client) GetUpdates(ctx context.Context, offset int64) ([]Update, error) {
	req := getUpdatesRequest{
		Offset:         offset,
		Timeout:        longPollTimeout,
		AllowedUpdates: []string{"message"},
	}

	var updates []Update
	if err := c.call(ctx, "getUpdates", req, &updates); err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrTelegramPoll, "опрос обновлений", err)
	}
	return updates, nil
}
