// Package apperrors предоставляет структурированные ошибки приложения.
// Переименован из errors чтобы избежать конфликта со стандартной библиотекой.
package apperrors

import "fmt"

// Коды ошибок в иерархическом формате: CATEGORY.SPECIFIC_ERROR.
// Позволяет grep по категориям: `grep "WHITELIST\."` для всех ошибок белого списка.
const (
	// Category: CONFIG — ошибки загрузки и парсинга конфигурации.
	ErrConfigLoad     = "CONFIG.LOAD_FAILED"
	ErrConfigParse    = "CONFIG.PARSE_FAILED"
	ErrConfigValidate = "CONFIG.VALIDATION_FAILED"

	// Category: WHITELIST — ошибки загрузки белого списка IP.
	ErrWhitelistLoad  = "WHITELIST.LOAD_FAILED"
	ErrWhitelistParse = "WHITELIST.PARSE_FAILED"

	// Category: ALERT — ошибки разбора входящего оповещения.
	ErrAlertNoMatch = "ALERT.NO_MATCH"

	// Category: RECIPIENT — ошибки определения и проверки получателя.
	ErrRecipientFormat = "RECIPIENT.BAD_FORMAT"
	ErrRecipientNoMX   = "RECIPIENT.NO_MX"
	ErrRecipientDomain = "RECIPIENT.DOMAIN_MISSING"
	ErrRecipientLookup = "RECIPIENT.LOOKUP_FAILED"

	// Category: DISPATCH — ошибки каналов доставки уведомлений.
	ErrDispatchChat = "DISPATCH.CHAT_FAILED"
	ErrDispatchMail = "DISPATCH.MAIL_FAILED"

	// Category: TELEGRAM — ошибки транспорта Telegram Bot API.
	ErrTelegramAPI  = "TELEGRAM.API_FAILED"
	ErrTelegramPoll = "TELEGRAM.POLL_FAILED"
)

// AppError представляет структурированную ошибку приложения.
// Реализует error interface и поддерживает wrapping через Unwrap().
//
// ВАЖНО: Message НЕ ДОЛЖЕН содержать секреты (пароли, токены, ключи).
// Используйте generic описания без конкретных значений.
//
// Пример использования:
//
//	return apperrors.NewAppError(apperrors.ErrWhitelistLoad,
//	    "не удалось загрузить белый список IP",
//	    err)
type AppError struct {
	// Code — машиночитаемый код ошибки в формате CATEGORY.SPECIFIC.
	Code string `json:"code"`

	// Message — человекочитаемое описание ошибки.
	// НЕ ДОЛЖЕН содержать секреты!
	Message string `json:"message"`

	// Cause — wrapped оригинальная ошибка.
	// Не сериализуется в JSON для безопасности (может содержать stack trace).
	Cause error `json:"-"`
}

// Error реализует интерфейс error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap возвращает wrapped ошибку для errors.Is/As.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewAppError создаёт новый AppError с заданным кодом, сообщением и причиной.
//
// ВАЖНО: message НЕ ДОЛЖЕН содержать секреты!
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}
