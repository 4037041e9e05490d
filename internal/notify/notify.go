// Package notify содержит транспортные адаптеры уведомлений:
// операторский чат и почта. Каждый адаптер — одна узкая операция,
// потребляемая движком диспетчеризации.
package notify

import "context"

// ChatNotifier отправляет короткое уведомление в операторский чат.
type ChatNotifier interface {
	Notify(ctx context.Context, text string) error
}

// MailSender отправляет письмо одному получателю.
type MailSender interface {
	Send(ctx context.Context, to, subject, body string) error
}
