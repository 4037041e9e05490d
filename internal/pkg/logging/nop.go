package logging

// NopLogger — no-op реализация Logger.
// Используется в тестах и как безопасный fallback.
type NopLogger struct{}

// NewNopLogger создаёт Logger, который игнорирует все записи.
func NewNopLogger() *NopLogger {
	return &NopLogger{}
}

// Debug — no-op.
func (n *NopLogger) Debug(_ string, _ ...any) {}

// Info — no-op.
func (n *NopLogger) Info(_ string, _ ...any) {}

// Warn — no-op.
func (n *NopLogger) Warn(_ string, _ ...any) {}

// Error — no-op.
func (n *NopLogger) Error(_ string, _ ...any) {}

// With возвращает тот же NopLogger.
func (n *NopLogger) With(_ ...any) Logger { return n }
