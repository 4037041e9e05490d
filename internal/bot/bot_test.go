package bot

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/fediasonin/botyara/internal/alert"
	"github.com/fediasonin/botyara/internal/pkg/logging"
	"github.com/fediasonin/botyara/internal/pkg/metrics"
	"github.com/fediasonin/botyara/internal/pkg/tracing"
	"github.com/fediasonin/botyara/internal/telegram"
)

// mockHTTPClient уважает контекст запроса, как настоящий http.Client.
type mockHTTPClient struct {
	Bodies [][]byte
}

func (m *mockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	if err := req.Context().Err(); err != nil {
		return nil, err
	}
	if req.Body != nil {
		body, _ := io.ReadAll(req.Body)
		m.Bodies = append(m.Bodies, body)
	}
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(bytes.NewReader([]byte(`{"ok":true,"result":{}}`))),
	}, nil
}

type processorFunc func(ctx context.Context, rec alert.Record) (string, error)

func (f processorFunc) Process(ctx context.Context, rec alert.Record) (string, error) {
	return f(ctx, rec)
}

type fixture struct {
	bot  *Bot
	http *mockHTTPClient
}

func testBotConfig() Config {
	return Config{
		TargetChatID: "-1001234567890",
		MainChatID:   "-4019202782",
		ThreadID:     3,
	}
}

func newFixture(processor AlertProcessor) *fixture {
	mock := &mockHTTPClient{}
	client := telegram.NewClient("token", logging.NewNopLogger())
	client.SetHTTPClient(mock)

	b := New(client, processor, testBotConfig(), logging.NewNopLogger(), metrics.NewNopCollector())
	return &fixture{bot: b, http: mock}
}

func (f *fixture) sentMessages(t *testing.T) []telegram.SendMessageRequest {
	t.Helper()
	var out []telegram.SendMessageRequest
	for _, body := range f.http.Bodies {
		var req telegram.SendMessageRequest
		require.NoError(t, json.Unmarshal(body, &req))
		out = append(out, req)
	}
	return out
}

func targetMessage(text string) telegram.Message {
	return telegram.Message{
		MessageID:       10,
		Text:            text,
		Chat:            telegram.Chat{ID: -1001234567890},
		MessageThreadID: 3,
	}
}

const alertText = "Имя пользователя: ivan.petrov\nИсходящий IP адрес: 10.0.0.5\nВПН точка входа: gw-msk-1"

func TestHandleMessage_DispatchesRecognizedAlert(t *testing.T) {
	var got alert.Record
	f := newFixture(processorFunc(func(_ context.Context, rec alert.Record) (string, error) {
		got = rec
		return "Оповещение отправлено в рабочий чат. Сообщение отправлено на ivan.petrov@mosreg.ru.", nil
	}))

	f.bot.HandleMessage(context.Background(), targetMessage(alertText))

	assert.Equal(t, alert.Record{Username: "ivan.petrov", SourceIP: "10.0.0.5", Gateway: "gw-msk-1"}, got)

	sent := f.sentMessages(t)
	require.Len(t, sent, 1)
	assert.Equal(t, "-1001234567890", sent[0].ChatID)
	assert.Equal(t, 10, sent[0].ReplyToMessageID)
	assert.Equal(t, 3, sent[0].MessageThreadID)
	assert.Contains(t, sent[0].Text, "Сообщение отправлено на ivan.petrov@mosreg.ru.")
}

func TestHandleMessage_UnrecognizedText(t *testing.T) {
	called := false
	f := newFixture(processorFunc(func(context.Context, alert.Record) (string, error) {
		called = true
		return "", nil
	}))

	f.bot.HandleMessage(context.Background(), targetMessage("привет, как дела?"))

	assert.False(t, called, "движок не должен вызываться для нераспознанного текста")

	sent := f.sentMessages(t)
	require.Len(t, sent, 1)
	assert.Equal(t, "Не удалось распознать сообщение. Проверьте формат.", sent[0].Text)
}

func TestHandleMessage_ProcessorError(t *testing.T) {
	f := newFixture(processorFunc(func(context.Context, alert.Record) (string, error) {
		return "", errors.New("проверка белого списка: файл не найден")
	}))

	f.bot.HandleMessage(context.Background(), targetMessage(alertText))

	sent := f.sentMessages(t)
	require.Len(t, sent, 1)
	assert.Equal(t, "Внутренняя ошибка при обработке оповещения.", sent[0].Text)
}

func TestHandleMessage_IgnoresOperatorChat(t *testing.T) {
	f := newFixture(processorFunc(func(context.Context, alert.Record) (string, error) {
		t.Fatal("сообщение из операторского чата не должно обрабатываться")
		return "", nil
	}))

	msg := targetMessage(alertText)
	msg.Chat.ID = -4019202782

	f.bot.HandleMessage(context.Background(), msg)
	assert.Empty(t, f.http.Bodies)
}

func TestHandleMessage_IgnoresForeignChat(t *testing.T) {
	f := newFixture(processorFunc(func(context.Context, alert.Record) (string, error) {
		t.Fatal("сообщение из чужого чата не должно обрабатываться")
		return "", nil
	}))

	msg := targetMessage(alertText)
	msg.Chat.ID = 12345

	f.bot.HandleMessage(context.Background(), msg)
	assert.Empty(t, f.http.Bodies)
}

func TestHandleMessage_IgnoresWrongThread(t *testing.T) {
	f := newFixture(processorFunc(func(context.Context, alert.Record) (string, error) {
		t.Fatal("сообщение вне целевого треда не должно обрабатываться")
		return "", nil
	}))

	msg := targetMessage(alertText)
	msg.MessageThreadID = 99

	f.bot.HandleMessage(context.Background(), msg)
	assert.Empty(t, f.http.Bodies)
}

// pollingHTTPClient обслуживает цикл Run: один раз отдаёт подготовленные
// обновления через getUpdates и собирает тела sendMessage. Контекст
// запроса уважается, как в настоящем http.Client.
type pollingHTTPClient struct {
	mu      sync.Mutex
	updates []telegram.Update
	served  bool
	sent    [][]byte
}

func (m *pollingHTTPClient) Do(req *http.Request) (*http.Response, error) {
	if err := req.Context().Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var body []byte
	if req.Body != nil {
		body, _ = io.ReadAll(req.Body)
	}

	if strings.HasSuffix(req.URL.Path, "/getUpdates") {
		result := []telegram.Update{}
		if !m.served {
			result = m.updates
			m.served = true
		}
		payload, err := json.Marshal(result)
		if err != nil {
			return nil, err
		}
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(fmt.Sprintf(`{"ok":true,"result":%s}`, payload))),
		}, nil
	}

	m.sent = append(m.sent, body)
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(strings.NewReader(`{"ok":true,"result":{}}`)),
	}, nil
}

func (m *pollingHTTPClient) sentMessages(t *testing.T) []telegram.SendMessageRequest {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []telegram.SendMessageRequest
	for _, body := range m.sent {
		var req telegram.SendMessageRequest
		require.NoError(t, json.Unmarshal(body, &req))
		out = append(out, req)
	}
	return out
}

func TestRun_ShutdownCompletesInFlightDispatch(t *testing.T) {
	mock := &pollingHTTPClient{
		updates: []telegram.Update{{
			UpdateID: 1,
			Message: &telegram.Message{
				MessageID:       10,
				Text:            alertText,
				Chat:            telegram.Chat{ID: -1001234567890},
				MessageThreadID: 3,
			},
		}},
	}
	client := telegram.NewClient("token", logging.NewNopLogger())
	client.SetHTTPClient(mock)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Остановка приходит посреди обработки: контекст опроса уже отменён,
	// но начатая диспетчеризация и ответ источнику должны завершиться.
	processor := processorFunc(func(pctx context.Context, _ alert.Record) (string, error) {
		cancel()
		assert.NoError(t, pctx.Err(), "остановка не должна отменять начатую обработку")
		return "Оповещение отправлено в рабочий чат.", nil
	})

	b := New(client, processor, testBotConfig(), logging.NewNopLogger(), metrics.NewNopCollector())
	require.NoError(t, b.Run(ctx))

	sent := mock.sentMessages(t)
	require.Len(t, sent, 1)
	assert.Equal(t, "Оповещение отправлено в рабочий чат.", sent[0].Text)
	assert.Equal(t, 10, sent[0].ReplyToMessageID)
}

func TestHandleMessage_StartsSpanPerAlert(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(context.Background())
	})

	f := newFixture(processorFunc(func(context.Context, alert.Record) (string, error) {
		return "ок", nil
	}))

	traceID := tracing.GenerateTraceID()
	f.bot.HandleMessage(tracing.WithTraceID(context.Background(), traceID), targetMessage(alertText))

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "handle_alert", spans[0].Name())
	// Span наследует trace_id из контекста обработки
	assert.Equal(t, traceID, spans[0].SpanContext().TraceID().String())
}

func TestHandleMessage_StartCommand(t *testing.T) {
	f := newFixture(processorFunc(func(context.Context, alert.Record) (string, error) {
		t.Fatal("команда /start не должна попадать в движок")
		return "", nil
	}))

	// /start работает в любом чате, фильтрация не применяется
	msg := telegram.Message{
		MessageID: 5,
		Text:      "/start",
		Chat:      telegram.Chat{ID: 777},
	}

	f.bot.HandleMessage(context.Background(), msg)

	sent := f.sentMessages(t)
	require.Len(t, sent, 1)
	assert.Equal(t, "777", sent[0].ChatID)
	assert.Equal(t, "Привет! Отправь мне сообщение с именем пользователя, и я отправлю ему уведомление на email.", sent[0].Text)
}
