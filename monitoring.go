package stegx

import (
	"log/slog"

	"github.com/hengadev/stegx/internal/monitoring"
)

// Re-export monitoring types for public API
type (
	MetricsCollector  = monitoring.MetricsCollector
	ObservabilityHook = monitoring.ObservabilityHook

	NoOpMetricsCollector       = monitoring.NoOpMetricsCollector
	InMemoryMetricsCollector   = monitoring.InMemoryMetricsCollector
	NoOpObservabilityHook      = monitoring.NoOpObservabilityHook
	LoggingObservabilityHook   = monitoring.LoggingObservabilityHook
	MetricsObservabilityHook   = monitoring.MetricsObservabilityHook
	CompositeObservabilityHook = monitoring.CompositeObservabilityHook

	LoggerConfig = monitoring.LoggerConfig
	LogFormat    = monitoring.LogFormat
)

const (
	LogFormatText = monitoring.FormatText
	LogFormatJSON = monitoring.FormatJSON
)

// Metric names recorded by the codec through MetricsCollector.
const (
	MetricEncodeBits   = "stegx.encode.bits"
	MetricEncodeBytes  = "stegx.encode.message_bytes"
	MetricDecodeBytes  = "stegx.decode.message_bytes"
	MetricCapacityBits = "stegx.image.capacity_bits"
)

// NewInMemoryMetricsCollector creates an in-memory collector for tests.
func NewInMemoryMetricsCollector() *InMemoryMetricsCollector {
	return monitoring.NewInMemoryMetricsCollector()
}

// NewLoggingObservabilityHook logs codec events to logger.
func NewLoggingObservabilityHook(logger *slog.Logger) *LoggingObservabilityHook {
	return monitoring.NewLoggingObservabilityHook(logger)
}

// NewMetricsObservabilityHook records codec events as metrics.
func NewMetricsObservabilityHook(collector MetricsCollector) *MetricsObservabilityHook {
	return monitoring.NewMetricsObservabilityHook(collector)
}

// NewCompositeObservabilityHook fans events out to hooks in order.
func NewCompositeObservabilityHook(hooks ...ObservabilityHook) *CompositeObservabilityHook {
	return monitoring.NewCompositeObservabilityHook(hooks...)
}

// NewLogger builds a slog.Logger for the codec and CLI.
func NewLogger(config LoggerConfig) *slog.Logger {
	return monitoring.NewLogger(config)
}
