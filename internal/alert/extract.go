// Package alert разбирает текст оповещения о блокировке VPN-подключения
// в типизированную запись.
package alert

import (
	"errors"
	"fmt"
	"net/netip"
	"strings"
)

// Метки полей в тексте оповещения. Порядок фиксирован.
const (
	labelUsername = "Имя пользователя:"
	labelSourceIP = "Исходящий IP адрес:"
	labelGateway  = "ВПН точка входа:"
)

// ErrNoMatch возвращается, когда текст не соответствует формату оповещения.
// Разбор либо полностью успешен, либо полностью неуспешен.
var ErrNoMatch = errors.New("формат сообщения не распознан")

// Record — разобранное оповещение: учётная запись, IP источника и
// точка входа VPN. Живёт только на время обработки одного сообщения.
type Record struct {
	Username string
	SourceIP string
	Gateway  string
}

// Extract разбирает текст оповещения. Три обязательных поля ищутся
// последовательными привязанными сканами, а не одним регулярным
// выражением: первая метка может находиться в любом месте текста,
// каждая следующая обязана идти сразу за предыдущим полем (с точностью
// до пробельных символов). Ошибка всегда оборачивает ErrNoMatch и
// называет проблемное поле.
func Extract(text string) (Record, error) {
	idx := strings.Index(text, labelUsername)
	if idx < 0 {
		return Record{}, fmt.Errorf("%w: отсутствует метка %q", ErrNoMatch, labelUsername)
	}
	rest := text[idx+len(labelUsername):]

	username, rest, err := scanUsername(rest)
	if err != nil {
		return Record{}, err
	}

	rest, err = expectLabel(rest, labelSourceIP)
	if err != nil {
		return Record{}, err
	}
	sourceIP, rest, err := scanSourceIP(rest)
	if err != nil {
		return Record{}, err
	}

	rest, err = expectLabel(rest, labelGateway)
	if err != nil {
		return Record{}, err
	}
	gateway, err := scanGateway(rest)
	if err != nil {
		return Record{}, err
	}

	return Record{Username: username, SourceIP: sourceIP, Gateway: gateway}, nil
}

// expectLabel требует, чтобы после пробелов сразу шла метка label.
// Произвольный текст между полями ломает разбор.
func expectLabel(text, label string) (string, error) {
	text = strings.TrimLeft(text, " \t\r\n")
	if !strings.HasPrefix(text, label) {
		return "", fmt.Errorf("%w: ожидалась метка %q", ErrNoMatch, label)
	}
	return text[len(label):], nil
}

// scanToken снимает ведущие пробелы и возвращает последовательность
// символов до следующего пробельного символа.
func scanToken(text string) (token, rest string) {
	text = strings.TrimLeft(text, " \t\r\n")
	end := strings.IndexAny(text, " \t\r\n")
	if end < 0 {
		return text, ""
	}
	return text[:end], text[end:]
}

func isUsernameChar(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '_' || r == '.':
		return true
	}
	return false
}

func scanUsername(text string) (username, rest string, err error) {
	token, rest := scanToken(text)
	if token == "" {
		return "", "", fmt.Errorf("%w: пустое имя пользователя", ErrNoMatch)
	}
	for _, r := range token {
		if !isUsernameChar(r) {
			return "", "", fmt.Errorf("%w: недопустимый символ в имени пользователя %q", ErrNoMatch, token)
		}
	}
	return token, rest, nil
}

// scanSourceIP принимает только IPv4. Токен проверяется целиком:
// "10.0.0.5.6" не урезается до валидного префикса, а отвергается.
func scanSourceIP(text string) (ip, rest string, err error) {
	token, rest := scanToken(text)
	if token == "" {
		return "", "", fmt.Errorf("%w: пустой IP адрес", ErrNoMatch)
	}
	addr, parseErr := netip.ParseAddr(token)
	if parseErr != nil || !addr.Is4() {
		return "", "", fmt.Errorf("%w: %q не является IPv4 адресом", ErrNoMatch, token)
	}
	return token, rest, nil
}

// scanGateway забирает остаток строки после метки.
func scanGateway(text string) (string, error) {
	if nl := strings.IndexByte(text, '\n'); nl >= 0 {
		text = text[:nl]
	}
	gateway := strings.TrimSpace(text)
	if gateway == "" {
		return "", fmt.Errorf("%w: пустая точка входа", ErrNoMatch)
	}
	return gateway, nil
}
