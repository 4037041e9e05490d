package notify

import "errors"

// Ошибки SMTP транспорта.
var (
	// ErrSMTPConnection — не удалось установить соединение с SMTP сервером.
	ErrSMTPConnection = errors.New("smtp: ошибка соединения")
	// ErrSMTPAuth — ошибка авторизации. Оригинальная ошибка не включается,
	// она может содержать credentials.
	ErrSMTPAuth = errors.New("smtp: ошибка авторизации")
	// ErrSMTPSend — сервер не принял письмо.
	ErrSMTPSend = errors.New("smtp: ошибка отправки")
)
