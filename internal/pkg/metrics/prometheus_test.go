package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fediasonin/botyara/internal/pkg/logging"
)

func newTestCollector(t *testing.T) *PrometheusCollector {
	t.Helper()
	c, err := NewPrometheusCollector(Config{
		Enabled:        true,
		PushgatewayURL: "http://pushgateway:9091",
		JobName:        "botyara",
		Timeout:        time.Second,
		InstanceLabel:  "test",
	}, logging.NewNopLogger())
	require.NoError(t, err)
	return c
}

func TestNewPrometheusCollector_InvalidConfig(t *testing.T) {
	_, err := NewPrometheusCollector(Config{
		Enabled: true,
		JobName: "botyara",
		Timeout: time.Second,
	}, logging.NewNopLogger())
	assert.ErrorIs(t, err, ErrPushgatewayURLRequired)
}

func TestRecordAlert(t *testing.T) {
	c := newTestCollector(t)

	c.RecordAlert(ResultWhitelisted, 5*time.Millisecond)
	c.RecordAlert(ResultWhitelisted, 7*time.Millisecond)
	c.RecordAlert(ResultDispatched, 2*time.Second)

	assert.Equal(t, float64(2), testutil.ToFloat64(c.alertTotal.WithLabelValues(ResultWhitelisted)))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.alertTotal.WithLabelValues(ResultDispatched)))
}

func TestRecordDispatch(t *testing.T) {
	c := newTestCollector(t)

	c.RecordDispatch(ChannelChat, true)
	c.RecordDispatch(ChannelMail, false)
	c.RecordDispatch(ChannelMail, false)

	assert.Equal(t, float64(1), testutil.ToFloat64(c.dispatchTotal.WithLabelValues(ChannelChat, "success")))
	assert.Equal(t, float64(2), testutil.ToFloat64(c.dispatchTotal.WithLabelValues(ChannelMail, "error")))
}

func TestSanitizeLabel(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain", "dispatched", "dispatched"},
		{"control chars", "bad\nlabel\r", "bad_label_"},
		{"long value truncated", strings.Repeat("я", 200), strings.Repeat("я", 128)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeLabel(tt.input))
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{"disabled valid", Config{Enabled: false}, nil},
		{"missing url", Config{Enabled: true, JobName: "j", Timeout: time.Second}, ErrPushgatewayURLRequired},
		{"bad url", Config{Enabled: true, PushgatewayURL: "pushgateway", JobName: "j", Timeout: time.Second}, ErrPushgatewayURLInvalid},
		{"missing job", Config{Enabled: true, PushgatewayURL: "http://p:9091", Timeout: time.Second}, ErrJobNameRequired},
		{"bad timeout", Config{Enabled: true, PushgatewayURL: "http://p:9091", JobName: "j"}, ErrInvalidTimeout},
		{"valid", Config{Enabled: true, PushgatewayURL: "http://p:9091", JobName: "j", Timeout: time.Second}, nil},
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

func TestNewCollector_DisabledReturnsNop(t *testing.T) {
	c, err := NewCollector(Config{Enabled: false}, logging.NewNopLogger())
	require.NoError(t, err)
	assert.IsType(t, &NopCollector{}, c)
}
