package dispatch

import "fmt"

// NotifyOrder задаёт стратегию очерёдности каналов уведомления.
type NotifyOrder string

const (
	// OrderChatFirst — сначала операторский чат, затем почта.
	// Чат информируется даже при сбое почтового шага.
	OrderChatFirst NotifyOrder = "chatFirst"
	// OrderMailFirst — сначала почта; чат уведомляется только при
	// успешной отправке письма.
	OrderMailFirst NotifyOrder = "mailFirst"
)

// ParseNotifyOrder разбирает значение из конфигурации.
// Пустая строка означает OrderChatFirst.
func ParseNotifyOrder(s string) (NotifyOrder, error) {
	switch NotifyOrder(s) {
	case "":
		return OrderChatFirst, nil
	case OrderChatFirst, OrderMailFirst:
		return NotifyOrder(s), nil
	default:
		return "", fmt.Errorf("неизвестная стратегия уведомления %q", s)
	}
}
