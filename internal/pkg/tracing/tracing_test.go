package tracing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fediasonin/botyara/internal/pkg/logging"
)

func TestGenerateTraceID_Format(t *testing.T) {
	id := GenerateTraceID()
	assert.Len(t, id, 32)
	assert.Regexp(t, "^[0-9a-f]{32}$", id)
}

func TestGenerateTraceID_Unique(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		id := GenerateTraceID()
		_, dup := seen[id]
		require.False(t, dup, "duplicate trace id: %s", id)
		seen[id] = struct{}{}
	}
}

func TestFallbackTraceID_Format(t *testing.T) {
	id := fallbackTraceID()
	assert.Len(t, id, 32)
}

func TestTraceIDContext_RoundTrip(t *testing.T) {
	ctx := WithTraceID(context.Background(), "abc123")
	assert.Equal(t, "abc123", TraceIDFromContext(ctx))
}

func TestTraceIDFromContext_Missing(t *testing.T) {
	assert.Equal(t, "", TraceIDFromContext(context.Background()))
	assert.Equal(t, "", TraceIDFromContext(nil)) //nolint:staticcheck // проверка nil-safety
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{
			name:    "disabled is always valid",
			cfg:     Config{Enabled: false},
			wantErr: nil,
		},
		{
			name:    "missing endpoint",
			cfg:     Config{Enabled: true, ServiceName: "botyara", Timeout: time.Second, SamplingRate: 1.0},
			wantErr: ErrTracingEndpointRequired,
		},
		{
			name: "missing service name",
			cfg: Config{
				Enabled: true, Endpoint: "http://jaeger:4318",
				Timeout: time.Second, SamplingRate: 1.0,
			},
			wantErr: ErrTracingServiceNameRequired,
		},
		{
			name: "bad sampling rate",
			cfg: Config{
				Enabled: true, Endpoint: "http://jaeger:4318", ServiceName: "botyara",
				Timeout: time.Second, SamplingRate: 1.5,
			},
			wantErr: ErrTracingSamplingRateInvalid,
		},
		{
			name: "valid",
			cfg: Config{
				Enabled: true, Endpoint: "http://jaeger:4318", ServiceName: "botyara",
				Timeout: time.Second, SamplingRate: 0.5,
			},
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestNewTracerProvider_Disabled(t *testing.T) {
	shutdown, err := NewTracerProvider(Config{Enabled: false}, logging.NewNopLogger())
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))
}

func TestNewTracerProvider_InvalidConfig(t *testing.T) {
	_, err := NewTracerProvider(Config{Enabled: true}, logging.NewNopLogger())
	assert.ErrorIs(t, err, ErrTracingEndpointRequired)
}

func TestContextWithOTelTraceID_Invalid(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, ctx, ContextWithOTelTraceID(ctx, "not-a-trace-id"))
}
