// Package dispatch реализует линейный конвейер обработки распознанного
// оповещения: белый список → получатель → операторский чат → почта →
// итоговая строка статуса.
package dispatch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/netip"
	"strings"
	"text/template"
	"time"

	"github.com/fediasonin/botyara/internal/alert"
	"github.com/fediasonin/botyara/internal/notify"
	"github.com/fediasonin/botyara/internal/pkg/logging"
	"github.com/fediasonin/botyara/internal/pkg/metrics"
	"github.com/fediasonin/botyara/internal/recipient"
	"github.com/fediasonin/botyara/internal/whitelist"
)

// RecipientResolver выводит почтовый адрес из имени пользователя.
type RecipientResolver interface {
	Resolve(username string) string
}

// RecipientValidator проверяет адрес; nil означает валидный.
type RecipientValidator interface {
	Validate(ctx context.Context, address string) error
}

// Outcome — результат одной диспетчеризации. Используется только для
// построения строки статуса, никуда не сохраняется.
type Outcome struct {
	ChatAttempted bool
	ChatSent      bool
	ChatErr       error
	MailAttempted bool
	MailSent      bool
	MailErr       error
}

// Engine прогоняет распознанное оповещение через все шаги. Сбои
// транспортов не прерывают конвейер: они попадают в строку статуса.
// Повторов нет — оператор пересылает оповещение вручную.
type Engine struct {
	whitelist whitelist.Store
	resolver  RecipientResolver
	validator RecipientValidator
	chat      notify.ChatNotifier
	mail      notify.MailSender
	order     NotifyOrder
	logger    logging.Logger
	metrics   metrics.Collector
	bodyTmpl  *template.Template
}

func NewEngine(
	wl whitelist.Store,
	resolver RecipientResolver,
	validator RecipientValidator,
	chat notify.ChatNotifier,
	mail notify.MailSender,
	order NotifyOrder,
	logger logging.Logger,
	collector metrics.Collector,
) *Engine {
	return &Engine{
		whitelist: wl,
		resolver:  resolver,
		validator: validator,
		chat:      chat,
		mail:      mail,
		order:     order,
		logger:    logger,
		metrics:   collector,
		bodyTmpl:  template.Must(template.New("mailBody").Parse(mailBodyTemplate)),
	}
}

// Process обрабатывает одно распознанное оповещение и возвращает
// единственный ответ для его источника. Ошибка возвращается только
// при инфраструктурном сбое (белый список не читается) — тогда ответа
// нет и проблему решает оператор по логам.
func (e *Engine) Process(ctx context.Context, rec alert.Record) (string, error) {
	start := time.Now()
	result := metrics.ResultError
	defer func() {
		e.metrics.RecordAlert(result, time.Since(start))
	}()

	ip, err := netip.ParseAddr(rec.SourceIP)
	if err != nil {
		// Экстрактор пропускает только IPv4, сюда попадать не должно.
		return "", fmt.Errorf("разбор IP %q: %w", rec.SourceIP, err)
	}

	listed, err := e.whitelist.Contains(ip)
	if err != nil {
		return "", fmt.Errorf("проверка белого списка: %w", err)
	}
	if listed {
		result = metrics.ResultWhitelisted
		e.logger.Info("IP в белом списке, отправка пропущена",
			"source_ip", rec.SourceIP,
			"username", rec.Username,
		)
		return fmt.Sprintf(replyWhitelisted, rec.SourceIP), nil
	}

	email := e.resolver.Resolve(rec.Username)
	if err := e.validator.Validate(ctx, email); err != nil {
		var invalid *recipient.InvalidError
		reason := err.Error()
		code := ""
		if errors.As(err, &invalid) {
			reason = invalid.Reason
			code = invalid.Code
		}
		result = metrics.ResultInvalidRecipient
		e.logger.Warn("получатель не прошёл проверку",
			"email", email,
			"reason", reason,
			"code", code,
		)
		return fmt.Sprintf(replyInvalidEmail, reason), nil
	}

	var outcome Outcome
	switch e.order {
	case OrderMailFirst:
		outcome = e.notifyMailFirst(ctx, rec, email)
	default:
		outcome = e.notifyChatFirst(ctx, rec, email)
	}

	result = metrics.ResultDispatched
	return e.statusLine(outcome, email), nil
}

// notifyChatFirst — предпочтительный порядок: операторский чат
// информируется до почтового шага и независимо от его исхода.
func (e *Engine) notifyChatFirst(ctx context.Context, rec alert.Record, email string) Outcome {
	var out Outcome

	out.ChatAttempted = true
	out.ChatErr = e.sendChat(ctx, rec)
	out.ChatSent = out.ChatErr == nil

	out.MailAttempted = true
	out.MailErr = e.sendMail(ctx, rec, email)
	out.MailSent = out.MailErr == nil

	return out
}

// notifyMailFirst — порядок ранней версии: письмо первым, чат
// уведомляется только при успешной отправке письма.
func (e *Engine) notifyMailFirst(ctx context.Context, rec alert.Record, email string) Outcome {
	var out Outcome

	out.MailAttempted = true
	out.MailErr = e.sendMail(ctx, rec, email)
	out.MailSent = out.MailErr == nil
	if !out.MailSent {
		return out
	}

	out.ChatAttempted = true
	out.ChatErr = e.sendChat(ctx, rec)
	out.ChatSent = out.ChatErr == nil

	return out
}

func (e *Engine) sendChat(ctx context.Context, rec alert.Record) error {
	err := e.chat.Notify(ctx, chatAlertPrefix+rec.SourceIP)
	e.metrics.RecordDispatch(metrics.ChannelChat, err == nil)
	if err != nil {
		e.logger.Error("сбой уведомления операторского чата",
			"error", err.Error(),
			"source_ip", rec.SourceIP,
		)
	}
	return err
}

func (e *Engine) sendMail(ctx context.Context, rec alert.Record, email string) error {
	var body bytes.Buffer
	if err := e.bodyTmpl.Execute(&body, mailTemplateData{
		Username: rec.Username,
		IP:       DefangIP(rec.SourceIP),
		Gateway:  rec.Gateway,
	}); err != nil {
		e.metrics.RecordDispatch(metrics.ChannelMail, false)
		return fmt.Errorf("форматирование письма: %w", err)
	}

	err := e.mail.Send(ctx, email, mailSubject, body.String())
	e.metrics.RecordDispatch(metrics.ChannelMail, err == nil)
	if err != nil {
		e.logger.Error("сбой отправки письма",
			"error", err.Error(),
			"email", email,
		)
	}
	return err
}

// statusLine собирает фрагменты исходов в один ответ. Порядок
// фрагментов повторяет порядок шагов.
func (e *Engine) statusLine(out Outcome, email string) string {
	var parts []string

	appendChat := func() {
		if !out.ChatAttempted {
			return
		}
		if out.ChatSent {
			parts = append(parts, statusChatSent)
		} else {
			parts = append(parts, fmt.Sprintf(statusChatFailed, out.ChatErr))
		}
	}
	appendMail := func() {
		if !out.MailAttempted {
			return
		}
		if out.MailSent {
			parts = append(parts, fmt.Sprintf(statusMailSent, email))
		} else {
			parts = append(parts, fmt.Sprintf(statusMailFailed, email, out.MailErr))
		}
	}

	if e.order == OrderMailFirst {
		appendMail()
		appendChat()
	} else {
		appendChat()
		appendMail()
	}

	return strings.Join(parts, " ")
}
