// Package recipient выводит почтовый адрес получателя из имени
// пользователя и проверяет его валидность.
package recipient

// Resolver строит адрес из имени пользователя и фиксированного домена
// организации. Чистая функция: один и тот же username всегда даёт один
// и тот же адрес.
type Resolver struct {
	domain string
}

func NewResolver(domain string) *Resolver {
	return &Resolver{domain: domain}
}

// Resolve возвращает почтовый адрес вида username@domain.
func (r *Resolver) Resolve(username string) string {
	return username + "@" + r.domain
}
