package telegram

// Update — одно обновление из getUpdates. Поля, кроме сообщений,
// не запрашиваются.
type Update struct {
	UpdateID int64    `json:"update_id"`
	Message  *Message `json:"message,omitempty"`
}

// Message — входящее сообщение.
type Message struct {
	MessageID       int    `json:"message_id"`
	Text            string `json:"text,omitempty"`
	Chat            Chat   `json:"chat"`
	MessageThreadID int    `json:"message_thread_id,omitempty"`
}

// Chat — чат, из которого пришло сообщение.
type Chat struct {
	ID int64 `json:"id"`
}
