package whitelist

import (
	"bufio"
	"fmt"
	"io"
	"net/netip"
	"os"
	"strings"

	"github.com/fediasonin/botyara/internal/pkg/apperrors"
)

// ParseError описывает невалидную строку файла белого списка.
// Ошибка фатальна для всей загрузки: молчаливый пропуск битого правила
// означал бы, что неучтённый IP перестал быть исключением.
type ParseError struct {
	// Line — номер строки файла (с 1).
	Line int
	// Text — содержимое строки без пробельного обрамления.
	Text string
	// Cause — причина ошибки разбора.
	Cause error
}

// Error реализует интерфейс error.
func (e *ParseError) Error() string {
	return fmt.Sprintf("whitelist: строка %d %q: %v", e.Line, e.Text, e.Cause)
}

// Unwrap возвращает причину для errors.Is/As.
func (e *ParseError) Unwrap() error { return e.Cause }

// ParseRule разбирает одну строку файла в Rule.
// Классификация строго в этом порядке:
//   - содержит "/" → CIDR сеть (в том числе IPv6 CIDR, где есть и ":");
//   - содержит ":" без "/" → диапазон из двух адресов;
//   - иначе → одиночный адрес.
func ParseRule(line string) (Rule, error) {
	switch {
	case strings.Contains(line, "/"):
		prefix, err := netip.ParsePrefix(line)
		if err != nil {
			return Rule{}, fmt.Errorf("невалидная CIDR сеть: %w", err)
		}
		return newNetwork(prefix, line), nil

	case strings.Contains(line, ":"):
		first, second, _ := strings.Cut(line, ":")

		lo, err := netip.ParseAddr(strings.TrimSpace(first))
		if err != nil {
			return Rule{}, fmt.Errorf("невалидное начало диапазона: %w", err)
		}
		hi, err := netip.ParseAddr(strings.TrimSpace(second))
		if err != nil {
			return Rule{}, fmt.Errorf("невалидный конец диапазона: %w", err)
		}
		return newRange(lo, hi, line)

	default:
		addr, err := netip.ParseAddr(line)
		if err != nil {
			return Rule{}, fmt.Errorf("невалидный IP адрес: %w", err)
		}
		return newExact(addr, line), nil
	}
}

// Parse читает правила из r, по одному на строку.
// Пустые строки игнорируются; "#" начинает комментарий до конца строки.
// Первая невалидная строка прерывает разбор с ParseError.
func Parse(r io.Reader) ([]Rule, error) {
	var rules []Rule

	scanner := bufio.NewScanner(r)
	for lineNo := 1; scanner.Scan(); lineNo++ {
		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		rule, err := ParseRule(line)
		if err != nil {
			return nil, &ParseError{Line: lineNo, Text: line, Cause: err}
		}
		rules = append(rules, rule)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("whitelist: ошибка чтения: %w", err)
	}

	return rules, nil
}

// Load читает правила из файла по пути path.
func Load(path string) ([]Rule, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrWhitelistLoad,
			"не удалось открыть файл белого списка", err)
	}
	defer f.Close()

	rules, err := Parse(f)
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrWhitelistParse,
			"не удалось разобрать белый список", err)
	}

	return rules, nil
}
