// Package whitelist реализует белый список IP адресов, освобождённых от уведомлений.
//
// Список загружается из текстового файла, по одному правилу на строку:
//
//	203.0.113.4                  — точный адрес
//	198.51.100.0/24              — CIDR сеть
//	192.0.2.10:192.0.2.20        — включительный диапазон
//
// Правила неизменяемы после загрузки; порядок сохраняется для диагностики,
// на результат проверки не влияет (членство — OR по всем правилам).
package whitelist

import (
	"fmt"
	"net/netip"
)

// RuleKind — тип правила белого списка.
type RuleKind int

const (
	// KindExact — одиночный адрес.
	KindExact RuleKind = iota
	// KindNetwork — CIDR сеть.
	KindNetwork
	// KindRange — включительный диапазон [lo, hi].
	KindRange
)

// String возвращает строковое представление RuleKind.
func (k RuleKind) String() string {
	switch k {
	case KindExact:
		return "exact"
	case KindNetwork:
		return "network"
	case KindRange:
		return "range"
	default:
		return "unknown"
	}
}

// Rule — одно правило белого списка: закрытое множество из трёх вариантов
// {Exact, Network, Range} с выбором предиката по тегу kind.
type Rule struct {
	kind RuleKind

	addr   netip.Addr   // KindExact
	prefix netip.Prefix // KindNetwork
	lo, hi netip.Addr   // KindRange, инвариант: lo <= hi

	// raw — исходная строка файла, для диагностики.
	raw string
}

// Kind возвращает тип правила.
func (r Rule) Kind() RuleKind { return r.kind }

// String возвращает исходную строку правила.
func (r Rule) String() string { return r.raw }

// Contains проверяет принадлежность адреса правилу.
// Несовпадение семейств адресов (IPv4 запрос против IPv6 правила и наоборот)
// не является ошибкой — просто не-совпадение.
func (r Rule) Contains(ip netip.Addr) bool {
	ip = ip.Unmap()

	switch r.kind {
	case KindExact:
		return r.addr == ip
	case KindNetwork:
		// Prefix.Contains сам возвращает false при несовпадении семейств.
		return r.prefix.Contains(ip)
	case KindRange:
		if ip.Is4() != r.lo.Is4() {
			return false
		}
		return r.lo.Compare(ip) <= 0 && ip.Compare(r.hi) <= 0
	default:
		return false
	}
}

// newExact создаёт правило для одиночного адреса.
func newExact(addr netip.Addr, raw string) Rule {
	return Rule{kind: KindExact, addr: addr.Unmap(), raw: raw}
}

// newNetwork создаёт правило для CIDR сети.
func newNetwork(prefix netip.Prefix, raw string) Rule {
	return Rule{kind: KindNetwork, prefix: prefix.Masked(), raw: raw}
}

// newRange создаёт правило-диапазон.
// Границы могут быть заданы в любом порядке — нормализуются численно,
// не текстуально.
func newRange(a, b netip.Addr, raw string) (Rule, error) {
	a, b = a.Unmap(), b.Unmap()
	if a.Is4() != b.Is4() {
		return Rule{}, fmt.Errorf("границы диапазона разных семейств: %s и %s", a, b)
	}
	if a.Compare(b) > 0 {
		a, b = b, a
	}
	return Rule{kind: KindRange, lo: a, hi: b, raw: raw}, nil
}
