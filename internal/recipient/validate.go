package recipient

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/fediasonin/botyara/internal/pkg/apperrors"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\.[a-zA-Z0-9-.]+$`)

// InvalidError описывает, почему адрес не прошёл проверку.
// Reason показывается отправителю оповещения как есть,
// Code — машиночитаемый код категории RECIPIENT для логов.
type InvalidError struct {
	Code   string
	Reason string
}

func (e *InvalidError) Error() string {
	return e.Reason
}

// Validator проверяет адрес синтаксически и через DNS-оракул.
// Результат не кэшируется: домен проверяется на каждом вызове.
type Validator struct {
	oracle Oracle
}

func NewValidator(oracle Oracle) *Validator {
	return &Validator{oracle: oracle}
}

// Validate возвращает nil для валидного адреса либо *InvalidError
// с причиной. Четыре исхода различимы по тексту причины: неверный
// формат, отсутствие MX-записи, несуществующий домен и сбой самой
// проверки.
func (v *Validator) Validate(ctx context.Context, address string) error {
	if !emailPattern.MatchString(address) {
		return &InvalidError{
			Code:   apperrors.ErrRecipientFormat,
			Reason: "Неправильный формат email",
		}
	}

	domain := address[strings.LastIndexByte(address, '@')+1:]

	switch err := v.oracle.CheckMX(ctx, domain); {
	case err == nil:
		return nil
	case errors.Is(err, ErrNoMX):
		return &InvalidError{
			Code:   apperrors.ErrRecipientNoMX,
			Reason: fmt.Sprintf("Не удалось найти MX-запись для домена %s", domain),
		}
	case errors.Is(err, ErrDomainNotFound):
		return &InvalidError{
			Code:   apperrors.ErrRecipientDomain,
			Reason: fmt.Sprintf("Домен %s не существует", domain),
		}
	default:
		return &InvalidError{
			Code:   apperrors.ErrRecipientLookup,
			Reason: fmt.Sprintf("Ошибка при проверке домена: %v", err),
		}
	}
}
