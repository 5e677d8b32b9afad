package monitoring

import (
	"context"
	"log/slog"
	"time"
)

// Metric names emitted by MetricsObservabilityHook.
const (
	MetricProcessStarted   = "stegx.process.started"
	MetricProcessSucceeded = "stegx.process.succeeded"
	MetricProcessFailed    = "stegx.process.failed"
	MetricProcessDuration  = "stegx.process.duration"
	MetricErrors           = "stegx.errors"
	MetricCapacityUsage    = "stegx.capacity.usage"
)

// ObservabilityHook is notified around every encode and decode.
type ObservabilityHook interface {
	// Called before processing starts
	OnProcessStart(ctx context.Context, operation string, metadata map[string]any)

	// Called after processing completes (success or failure)
	OnProcessComplete(ctx context.Context, operation string, duration time.Duration, err error, metadata map[string]any)

	// Called when errors occur; kind is a short stable label such as "auth_failure"
	OnError(ctx context.Context, operation string, kind string, err error, metadata map[string]any)

	// Called once the frame size is known
	OnCapacity(ctx context.Context, operation string, requiredBits, availableBits int, metadata map[string]any)
}

// NoOpObservabilityHook is a no-op implementation of ObservabilityHook
type NoOpObservabilityHook struct{}

func (n *NoOpObservabilityHook) OnProcessStart(ctx context.Context, operation string, metadata map[string]any) {
}
func (n *NoOpObservabilityHook) OnProcessComplete(ctx context.Context, operation string, duration time.Duration, err error, metadata map[string]any) {
}
func (n *NoOpObservabilityHook) OnError(ctx context.Context, operation string, kind string, err error, metadata map[string]any) {
}
func (n *NoOpObservabilityHook) OnCapacity(ctx context.Context, operation string, requiredBits, availableBits int, metadata map[string]any) {
}

// LoggingObservabilityHook writes every event to a slog.Logger.
type LoggingObservabilityHook struct {
	logger *slog.Logger
}

// NewLoggingObservabilityHook creates a logging hook. A nil logger discards.
func NewLoggingObservabilityHook(logger *slog.Logger) *LoggingObservabilityHook {
	if logger == nil {
		logger = DiscardLogger()
	}
	return &LoggingObservabilityHook{logger: logger}
}

func attrs(metadata map[string]any) []any {
	args := make([]any, 0, len(metadata)*2)
	for k, v := range metadata {
		args = append(args, k, v)
	}
	return args
}

func (l *LoggingObservabilityHook) OnProcessStart(ctx context.Context, operation string, metadata map[string]any) {
	l.logger.DebugContext(ctx, "operation started", append([]any{"operation", operation}, attrs(metadata)...)...)
}

func (l *LoggingObservabilityHook) OnProcessComplete(ctx context.Context, operation string, duration time.Duration, err error, metadata map[string]any) {
	args := append([]any{"operation", operation, "duration", duration}, attrs(metadata)...)
	if err != nil {
		l.logger.WarnContext(ctx, "operation failed", append(args, "error", err)...)
		return
	}
	l.logger.InfoContext(ctx, "operation completed", args...)
}

func (l *LoggingObservabilityHook) OnError(ctx context.Context, operation string, kind string, err error, metadata map[string]any) {
	l.logger.DebugContext(ctx, "operation error",
		append([]any{"operation", operation, "kind", kind, "error", err}, attrs(metadata)...)...)
}

func (l *LoggingObservabilityHook) OnCapacity(ctx context.Context, operation string, requiredBits, availableBits int, metadata map[string]any) {
	l.logger.DebugContext(ctx, "capacity check",
		append([]any{"operation", operation, "required_bits", requiredBits, "available_bits", availableBits}, attrs(metadata)...)...)
}

// MetricsObservabilityHook turns events into metrics.
type MetricsObservabilityHook struct {
	collector MetricsCollector
}

// NewMetricsObservabilityHook creates a new metrics observability hook
func NewMetricsObservabilityHook(collector MetricsCollector) *MetricsObservabilityHook {
	if collector == nil {
		collector = &NoOpMetricsCollector{}
	}
	return &MetricsObservabilityHook{collector: collector}
}

func tagsFor(operation string, metadata map[string]any) map[string]string {
	tags := map[string]string{"operation": operation}
	if placement, ok := metadata["placement"].(string); ok {
		tags["placement"] = placement
	}
	return tags
}

func (m *MetricsObservabilityHook) OnProcessStart(ctx context.Context, operation string, metadata map[string]any) {
	m.collector.IncrementCounter(MetricProcessStarted, tagsFor(operation, metadata))
}

func (m *MetricsObservabilityHook) OnProcessComplete(ctx context.Context, operation string, duration time.Duration, err error, metadata map[string]any) {
	tags := tagsFor(operation, metadata)
	if err != nil {
		m.collector.IncrementCounter(MetricProcessFailed, tags)
	} else {
		m.collector.IncrementCounter(MetricProcessSucceeded, tags)
	}
	m.collector.RecordTiming(MetricProcessDuration, duration, tags)
}

func (m *MetricsObservabilityHook) OnError(ctx context.Context, operation string, kind string, err error, metadata map[string]any) {
	m.collector.IncrementCounter(MetricErrors, map[string]string{
		"operation": operation,
		"kind":      kind,
	})
}

func (m *MetricsObservabilityHook) OnCapacity(ctx context.Context, operation string, requiredBits, availableBits int, metadata map[string]any) {
	if availableBits <= 0 {
		return
	}
	m.collector.RecordValue(MetricCapacityUsage, float64(requiredBits)/float64(availableBits), tagsFor(operation, metadata))
}

// CompositeObservabilityHook fans events out to several hooks in order.
type CompositeObservabilityHook struct {
	hooks []ObservabilityHook
}

// NewCompositeObservabilityHook creates a new composite hook
func NewCompositeObservabilityHook(hooks ...ObservabilityHook) *CompositeObservabilityHook {
	return &CompositeObservabilityHook{hooks: hooks}
}

func (c *CompositeObservabilityHook) OnProcessStart(ctx context.Context, operation string, metadata map[string]any) {
	for _, hook := range c.hooks {
		hook.OnProcessStart(ctx, operation, metadata)
	}
}

func (c *CompositeObservabilityHook) OnProcessComplete(ctx context.Context, operation string, duration time.Duration, err error, metadata map[string]any) {
	for _, hook := range c.hooks {
		hook.OnProcessComplete(ctx, operation, duration, err, metadata)
	}
}

func (c *CompositeObservabilityHook) OnError(ctx context.Context, operation string, kind string, err error, metadata map[string]any) {
	for _, hook := range c.hooks {
		hook.OnError(ctx, operation, kind, err, metadata)
	}
}

func (c *CompositeObservabilityHook) OnCapacity(ctx context.Context, operation string, requiredBits, availableBits int, metadata map[string]any) {
	for _, hook := range c.hooks {
		hook.OnCapacity(ctx, operation, requiredBits, availableBits, metadata)
	}
}
