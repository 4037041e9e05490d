// Package urlutil предоставляет утилиты для безопасной работы с URL и секретами в логах.
package urlutil

import (
	"net/url"
	"strings"
)

// MaskURL маскирует URL для безопасного логирования.
// Скрывает path и query параметры, которые могут содержать токены или credentials.
// Пример: "https://api.telegram.org/bot123:ABC/sendMessage" → "https://api.telegram.org/***"
func MaskURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "***invalid-url***"
	}
	// Показываем только scheme и host
	return u.Scheme + "://" + u.Host + "/***"
}

// RedactSecret заменяет все вхождения secret в тексте на "[REDACTED]".
// Используется при логировании ошибок транспорта: stdlib включает полный URL
// (вместе с bot token) в текст сетевой ошибки.
// Пустой secret возвращает текст без изменений.
func RedactSecret(text, secret string) string {
	if secret == "" {
		return text
	}
	return strings.ReplaceAll(text, secret, "[REDACTED]")
}
