package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// BlockMetrics records block and epoch hook instruments on an OpenTelemetry meter
type BlockMetrics struct {
	blockHeight  metric.Int64Gauge
	blockTime    metric.Float64Histogram
	hookDuration metric.Float64Histogram
	hookFailures metric.Int64Counter
}

// NewBlockMetrics creates the block instruments on meter
func NewBlockMetrics(meter metric.Meter) (*BlockMetrics, error) {
	blockHeight, err := meter.Int64Gauge(
		"liquidityhub.block.height",
		metric.WithDescription("Current block height"),
		metric.WithUnit("{block}"),
	)
	if err != nil {
		return nil, err
	}

	blockTime, err := meter.Float64Histogram(
		"liquidityhub.block.processing_time",
		metric.WithDescription("Begin block processing time"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	hookDuration, err := meter.Float64Histogram(
		"liquidityhub.epoch_hook.execution_time",
		metric.WithDescription("Epoch hook execution time"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	hookFailures, err := meter.Int64Counter(
		"liquidityhub.epoch_hook.failures",
		metric.WithDescription("Epoch hooks returning an error"),
		metric.WithUnit("{hook}"),
	)
	if err != nil {
		return nil, err
	}

	return &BlockMetrics{
		blockHeight:  blockHeight,
		blockTime:    blockTime,
		hookDuration: hookDuration,
		hookFailures: hookFailures,
	}, nil
}

// RecordBlock records the height and processing time of a block
func (m *BlockMetrics) RecordBlock(ctx context.Context, height int64, duration time.Duration) {
	m.blockHeight.Record(ctx, height)
	m.blockTime.Record(ctx, float64(duration.Milliseconds()))
}

// RecordHook records the execution of an epoch hook
func (m *BlockMetrics) RecordHook(ctx context.Context, hook string, duration time.Duration, err error) {
	attrs := metric.WithAttributes(attribute.String("hook.name", hook))
	m.hookDuration.Record(ctx, float64(duration.Milliseconds()), attrs)
	if err != nil {
		m.hookFailures.Add(ctx, 1, attrs)
	}
}
