// Package config загружает конфигурацию бота: credentials.json с
// секретами транспортов и необязательный app.yaml с настройками
// поведения. Любое значение можно переопределить переменной окружения.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fediasonin/botyara/internal/dispatch"
	"github.com/fediasonin/botyara/internal/pkg/logging"
	"github.com/fediasonin/botyara/internal/pkg/metrics"
	"github.com/fediasonin/botyara/internal/pkg/tracing"
)

// Credentials — секреты транспортов. Ключи повторяют формат
// config/credentials.json.
type Credentials struct {
	SMTPServer     string `json:"smtp_server" env:"BOTYARA_SMTP_SERVER"`
	SMTPPort       int    `json:"smtp_port" env:"BOTYARA_SMTP_PORT"`
	SenderLogin    string `json:"sender_login" env:"BOTYARA_SENDER_LOGIN"`
	SenderEmail    string `json:"sender_email" env:"BOTYARA_SENDER_EMAIL"`
	SenderPassword string `json:"sender_password" env:"BOTYARA_SENDER_PASSWORD"`
	TargetChatID   string `json:"target_chat_id" env:"BOTYARA_TARGET_CHAT_ID"`
	MainChatID     string `json:"main_chat_id" env:"BOTYARA_MAIN_CHAT_ID"`
	APIToken       string `json:"api_token" env:"BOTYARA_API_TOKEN"`
}

// Validate проверяет наличие обязательных параметров.
// Возвращает ошибку с перечислением всех отсутствующих разом.
func (c *Credentials) Validate() error {
	var missing []string

	if c.SMTPServer == "" {
		missing = append(missing, "smtp_server")
	}
	if c.SenderEmail == "" {
		missing = append(missing, "sender_email")
	}
	if c.TargetChatID == "" {
		missing = append(missing, "target_chat_id")
	}
	if c.MainChatID == "" {
		missing = append(missing, "main_chat_id")
	}
	if c.APIToken == "" {
		missing = append(missing, "api_token")
	}

	if len(missing) > 0 {
		return fmt.Errorf("отсутствуют обязательные параметры конфигурации: %s", strings.Join(missing, ", "))
	}

	if c.SMTPPort <= 0 || c.SMTPPort > 65535 {
		return fmt.Errorf("некорректный smtp_port: %d", c.SMTPPort)
	}

	return nil
}

// AppConfig — поведение бота. Файл app.yaml необязателен: без него
// действуют значения по умолчанию и переменные окружения.
type AppConfig struct {
	MailDomain     string `yaml:"mailDomain" env:"BOTYARA_MAIL_DOMAIN" env-default:"mosreg.ru"`
	NotifyOrder    string `yaml:"notifyOrder" env:"BOTYARA_NOTIFY_ORDER" env-default:"chatFirst"`
	WhitelistPath  string `yaml:"whitelistPath" env:"BOTYARA_WHITELIST_PATH" env-default:"config/filtered_addresses.txt"`
	WhitelistCache bool   `yaml:"whitelistCache" env:"BOTYARA_WHITELIST_CACHE" env-default:"false"`
	TargetThreadID int    `yaml:"targetThreadID" env:"BOTYARA_TARGET_THREAD_ID" env-default:"3"`
	DNSServer      string `yaml:"dnsServer" env:"BOTYARA_DNS_SERVER"`

	Logging logging.Config `yaml:"logging"`
	Metrics metrics.Config `yaml:"metrics"`
	Tracing tracing.Config `yaml:"tracing"`
}

// Validate проверяет значения, для которых нет безопасного дефолта.
func (c *AppConfig) Validate() error {
	if c.MailDomain == "" {
		return errors.New("mailDomain не может быть пустым")
	}
	if c.WhitelistPath == "" {
		return errors.New("whitelistPath не может быть пустым")
	}
	if _, err := dispatch.ParseNotifyOrder(c.NotifyOrder); err != nil {
		return fmt.Errorf("notifyOrder: %w", err)
	}
	return nil
}

// Order возвращает разобранную стратегию очерёдности каналов.
// Вызывается после Validate, поэтому ошибки быть не может.
func (c *AppConfig) Order() dispatch.NotifyOrder {
	order, _ := dispatch.ParseNotifyOrder(c.NotifyOrder)
	return order
}

// Config — полная конфигурация процесса. Загружается один раз при
// старте и дальше только читается.
type Config struct {
	Credentials Credentials
	App         AppConfig
}
