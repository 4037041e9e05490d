package metrics

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fediasonin/botyara/internal/pkg/logging"
	"github.com/fediasonin/botyara/internal/pkg/urlutil"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// PrometheusCollector реализует Collector с Prometheus метриками.
// Отправляет метрики в Pushgateway при вызове Push().
type PrometheusCollector struct {
	config   Config
	logger   logging.Logger
	registry *prometheus.Registry

	// Метрики
	alertDuration *prometheus.HistogramVec
	alertTotal    *prometheus.CounterVec
	dispatchTotal *prometheus.CounterVec

	// Instance label (hostname)
	instance string
}

// NewPrometheusCollector создаёт PrometheusCollector с указанной конфигурацией.
// Регистрирует метрики:
//   - botyara_alert_duration_seconds (histogram)
//   - botyara_alert_total (counter)
//   - botyara_dispatch_total (counter)
func NewPrometheusCollector(config Config, logger logging.Logger) (*PrometheusCollector, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	instance := config.InstanceLabel
	if instance == "" {
		hostname, err := os.Hostname()
		if err != nil {
			logger.Warn("не удалось получить hostname для metrics instance label, используется 'unknown'",
				"error", err.Error())
			hostname = "unknown"
		}
		instance = hostname
	}

	registry := prometheus.NewRegistry()

	// Buckets покрывают диапазон от локального whitelist-отказа (<10ms)
	// до медленного SMTP + DNS (десятки секунд).
	alertDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "botyara",
			Name:      "alert_duration_seconds",
			Help:      "Duration of inbound alert handling in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60},
		},
		[]string{"result"},
	)

	alertTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "botyara",
			Name:      "alert_total",
			Help:      "Total number of handled inbound alerts by result",
		},
		[]string{"result"},
	)

	dispatchTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "botyara",
			Name:      "dispatch_total",
			Help:      "Total number of notification send attempts by channel and status",
		},
		[]string{"channel", "status"},
	)

	// Register вместо MustRegister для избежания panic.
	// Ошибка возможна только при дублировании имён метрик в одном registry.
	collectors := []prometheus.Collector{alertDuration, alertTotal, dispatchTotal}
	for _, c := range collectors {
		if err := registry.Register(c); err != nil {
			return nil, fmt.Errorf("ошибка регистрации метрики: %w", err)
		}
	}

	return &PrometheusCollector{
		config:        config,
		logger:        logger,
		registry:      registry,
		alertDuration: alertDuration,
		alertTotal:    alertTotal,
		dispatchTotal: dispatchTotal,
		instance:      instance,
	}, nil
}

// maxLabelLength — максимальная длина значения label для защиты от cardinality explosion.
const maxLabelLength = 128

// sanitizeLabel обрезает значение label до допустимой длины и заменяет
// контрольные символы (\n, \r, \0), которые могут нарушить Prometheus text format.
// Обрезка выполняется по рунам (не по байтам) для корректной работы с UTF-8.
func sanitizeLabel(value string) string {
	clean := strings.Map(func(r rune) rune {
		if r < 0x20 {
			return '_'
		}
		return r
	}, value)

	runes := []rune(clean)
	if len(runes) > maxLabelLength {
		return string(runes[:maxLabelLength])
	}
	return clean
}

// RecordAlert записывает завершение обработки входящего оповещения.
func (c *PrometheusCollector) RecordAlert(result string, duration time.Duration) {
	result = sanitizeLabel(result)

	c.alertDuration.WithLabelValues(result).Observe(duration.Seconds())
	c.alertTotal.WithLabelValues(result).Inc()

	c.logger.Debug("metrics: alert handled",
		"result", result,
		"duration_ms", duration.Milliseconds(),
	)
}

// RecordDispatch записывает попытку отправки уведомления в канал.
func (c *PrometheusCollector) RecordDispatch(channel string, success bool) {
	status := "success"
	if !success {
		status = "error"
	}

	c.dispatchTotal.WithLabelValues(sanitizeLabel(channel), status).Inc()
}

// Push отправляет метрики в Pushgateway.
// Возвращает nil даже при ошибке — ошибки метрик не критичны для обработки алертов.
func (c *PrometheusCollector) Push(ctx context.Context) error {
	if c.config.PushgatewayURL == "" {
		c.logger.Debug("metrics: pushgateway URL not configured, skipping push")
		return nil
	}

	select {
	case <-ctx.Done():
		c.logger.Debug("metrics push отменён")
		return nil
	default:
	}

	pusher := push.New(c.config.PushgatewayURL, c.config.JobName).
		Gatherer(c.registry).
		Grouping("instance", c.instance)

	pushCtx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	if err := pusher.PushContext(pushCtx); err != nil {
		c.logger.Error("ошибка отправки метрик в Pushgateway",
			"error", err.Error(),
			"url", urlutil.MaskURL(c.config.PushgatewayURL),
			"job", c.config.JobName,
		)
		return nil
	}

	c.logger.Debug("метрики отправлены в Pushgateway",
		"url", urlutil.MaskURL(c.config.PushgatewayURL),
		"job", c.config.JobName,
		"instance", c.instance,
	)
	return nil
}

// GetRegistry возвращает внутренний registry.
// Экспортируется только для unit-тестов.
func (c *PrometheusCollector) GetRegistry() *prometheus.Registry {
	return c.registry
}
