package notify

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/base64"
	"fmt"
	"net"
	"net/smtp"
	"time"

	"github.com/fediasonin/botyara/internal/pkg/apperrors"
	"github.com/fediasonin/botyara/internal/pkg/logging"
)

// SMTP порты.
const (
	// SMTPPortStartTLS — порт для SMTP с StartTLS (рекомендуемый).
	SMTPPortStartTLS = 587
	// SMTPPortImplicitTLS — порт для SMTP с implicit TLS (SSL).
	SMTPPortImplicitTLS = 465
	// SMTPPortPlain — порт для SMTP без шифрования (не рекомендуется).
	SMTPPortPlain = 25
)

// DefaultSMTPTimeout — таймаут установки SMTP соединения.
const DefaultSMTPTimeout = 30 * time.Second

// SMTPDialer определяет интерфейс для создания SMTP соединений.
// Используется для тестирования (mock SMTP).
type SMTPDialer interface {
	DialContext(ctx context.Context, addr string) (SMTPClient, error)
}

// SMTPClient определяет интерфейс SMTP клиента.
// Используется для тестирования (mock SMTP).
type SMTPClient interface {
	StartTLS(config *tls.Config) error
	Auth(a smtp.Auth) error
	Mail(from string) error
	Rcpt(to string) error
	Data() (WriteCloser, error)
	Close() error
	Extension(ext string) (bool, string)
}

// WriteCloser определяет интерфейс для записи и закрытия.
type WriteCloser interface {
	Write(p []byte) (n int, err error)
	Close() error
}

// SMTPConfig — параметры почтового транспорта.
type SMTPConfig struct {
	Host     string
	Port     int
	Login    string
	Password string
	From     string
	Timeout  time.Duration
}

// SMTPMailer отправляет письма через SMTP с STARTTLS
// (implicit TLS для порта 465).
type SMTPMailer struct {
	config SMTPConfig
	logger logging.Logger
	dialer SMTPDialer
}

func NewSMTPMailer(config SMTPConfig, logger logging.Logger) *SMTPMailer {
	return &SMTPMailer{
		config: config,
		logger: logger,
		dialer: &defaultDialer{
			timeout:    config.Timeout,
			smtpPort:   config.Port,
			serverName: config.Host,
		},
	}
}

// SetDialer устанавливает кастомный SMTPDialer (для тестирования).
func (m *SMTPMailer) SetDialer(dialer SMTPDialer) {
	m.dialer = dialer
}

// Send отправляет письмо одному получателю. Ошибка возвращается
// вызывающему: решение, что с ней делать, принимает движок
// диспетчеризации, а не транспорт.
func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	if err := m.send(ctx, to, subject, body); err != nil {
		return apperrors.NewAppError(apperrors.ErrDispatchMail, "отправка письма", err)
	}
	return nil
}

func (m *SMTPMailer) send(ctx context.Context, to, subject, body string) error {
	addr := fmt.Sprintf("%s:%d", m.config.Host, m.config.Port)

	client, err := m.dialer.DialContext(ctx, addr)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSMTPConnection, err)
	}
	defer client.Close()

	// STARTTLS, если порт не 465 (implicit TLS уже установлен в Dial)
	if m.config.Port != SMTPPortImplicitTLS {
		if ok, _ := client.Extension("STARTTLS"); ok {
			tlsConfig := &tls.Config{
				ServerName: m.config.Host,
				MinVersion: tls.VersionTLS12,
			}
			if err := client.StartTLS(tlsConfig); err != nil {
				return fmt.Errorf("STARTTLS: %w", err)
			}
		}
	}

	if m.config.Login != "" && m.config.Password != "" {
		auth := smtp.PlainAuth("", m.config.Login, m.config.Password, m.config.Host)
		if err := client.Auth(auth); err != nil {
			// Оригинальная ошибка не включается — может содержать credentials
			return ErrSMTPAuth
		}
	} else if m.config.Login != "" || m.config.Password != "" {
		m.logger.Warn("неполные SMTP credentials: указан login или password, но не оба — авторизация пропущена",
			"smtp_host", m.config.Host,
			"has_login", m.config.Login != "",
			"has_password", m.config.Password != "",
		)
	}

	if err := client.Mail(m.config.From); err != nil {
		return fmt.Errorf("MAIL FROM: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("RCPT TO %s: %w", to, err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("DATA: %w", err)
	}

	msg := m.buildMessage(to, subject, body)
	if _, err := w.Write([]byte(msg)); err != nil {
		w.Close()
		return fmt.Errorf("запись сообщения: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrSMTPSend, err)
	}

	m.logger.Info("письмо отправлено", "to", to, "smtp_host", m.config.Host)
	return nil
}

// buildMessage формирует полное email сообщение с заголовками.
// Subject кодируется по RFC 2047 для корректной кириллицы.
func (m *SMTPMailer) buildMessage(to, subject, body string) string {
	var buf bytes.Buffer

	buf.WriteString("From: ")
	buf.WriteString(m.config.From)
	buf.WriteString("\r\n")

	buf.WriteString("To: ")
	buf.WriteString(to)
	buf.WriteString("\r\n")

	buf.WriteString("Subject: ")
	buf.WriteString(encodeRFC2047(subject))
	buf.WriteString("\r\n")

	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	buf.WriteString("Content-Transfer-Encoding: 8bit\r\n")
	buf.WriteString("\r\n")

	buf.WriteString(body)

	return buf.String()
}

// encodeRFC2047 кодирует строку в формате RFC 2047 для email заголовков.
// Base64 encoding покрывает любые Unicode символы; ASCII строки
// возвращаются как есть.
func encodeRFC2047(s string) string {
	needsEncoding := false
	for i := 0; i < len(s); i++ {
		if s[i] > 127 {
			needsEncoding = true
			break
		}
	}
	if !needsEncoding {
		return s
	}

	encoded := base64.StdEncoding.EncodeToString([]byte(s))
	return "=?UTF-8?B?" + encoded + "?="
}

// defaultDialer реализует SMTPDialer для реального SMTP.
type defaultDialer struct {
	timeout    time.Duration
	smtpPort   int
	serverName string
}

func (d *defaultDialer) DialContext(ctx context.Context, addr string) (SMTPClient, error) {
	timeout := d.timeout
	if timeout == 0 {
		timeout = DefaultSMTPTimeout
	}

	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, fmt.Errorf("некорректный SMTP адрес %q: %w", addr, err)
	}
	if d.serverName != "" {
		host = d.serverName
	}

	dialer := &net.Dialer{Timeout: timeout}
	var conn net.Conn

	// Implicit TLS для порта 465: dialer.DialContext + tls.Client,
	// чтобы отмена контекста работала и здесь.
	if d.smtpPort == SMTPPortImplicitTLS {
		tlsConfig := &tls.Config{
			ServerName: host,
			MinVersion: tls.VersionTLS12,
		}
		rawConn, dialErr := dialer.DialContext(ctx, "tcp", addr)
		if dialErr != nil {
			return nil, dialErr
		}
		conn = tls.Client(rawConn, tlsConfig)
	} else {
		conn, err = dialer.DialContext(ctx, "tcp", addr)
		if err != nil {
			return nil, err
		}
	}

	client, err := smtp.NewClient(conn, host)
	if err != nil {
		conn.Close()
		return nil, err
	}

	return &smtpClientWrapper{client}, nil
}

// smtpClientWrapper оборачивает smtp.Client для реализации SMTPClient.
type smtpClientWrapper struct {
	*smtp.Client
}

func (w *smtpClientWrapper) Data() (WriteCloser, error) {
	return w.Client.Data()
}
