package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/abhilashtyagiii/sentivoxfullcode-sub001/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func newTestManager(t *testing.T, full *config.Config) (*ObservabilityManager, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	om := &ObservabilityManager{
		config:       ObservabilityConfig{ServiceName: "sentivox-test", Enabled: true},
		fullConfig:   full,
		extraReaders: []sdkmetric.Reader{reader},
	}
	require.NoError(t, om.initMetrics())
	t.Cleanup(func() { _ = om.Shutdown(context.Background()) })
	return om, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Aggregation {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := map[string]metricdata.Aggregation{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m.Data
		}
	}
	return out
}

func counterTotal(t *testing.T, data metricdata.Aggregation) int64 {
	t.Helper()
	sum, ok := data.(metricdata.Sum[int64])
	require.True(t, ok, "expected an int64 sum, got %T", data)
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func TestDisabledManager(t *testing.T) {
	om, err := NewObservabilityManager(ObservabilityConfig{Enabled: false}, nil)
	require.NoError(t, err)

	m := om.GetMetrics()
	assert.Nil(t, m.ReportsRendered)
	// zero metrics must be safe to use
	m.RecordRender(context.Background(), om, 3, time.Second, nil)
	m.RecordBusinessMetric(context.Background(), MetricRateLimitHit, true, om)

	called := false
	err = m.TrackAIOperationWithTokens(context.Background(), "interview", func(context.Context) *AIOperationResult {
		called = true
		return &AIOperationResult{Error: errors.New("boom")}
	}, om)
	assert.True(t, called)
	assert.EqualError(t, err, "boom")

	assert.NotNil(t, om.Tracer("x"))
	assert.NoError(t, om.Shutdown(context.Background()))
}

func TestNilManagerIsSafe(t *testing.T) {
	var om *ObservabilityManager
	assert.NotNil(t, om.GetMetrics())
	assert.Nil(t, om.Config())
	assert.NoError(t, om.Shutdown(context.Background()))
}

func TestBusinessMetrics(t *testing.T) {
	om, reader := newTestManager(t, nil)
	m := om.GetMetrics()
	ctx := context.Background()

	m.RecordRender(ctx, om, 4, 120*time.Millisecond, nil)
	m.RecordRender(ctx, om, 0, 10*time.Millisecond, errors.New("canvas failed"))
	m.RecordExtraction(ctx, om, 2048, nil)
	m.RecordBusinessMetric(ctx, MetricInterviewAnalyzed, true, om)
	m.RecordBusinessMetric(ctx, MetricRateLimitHit, true, om)
	m.RecordBusinessMetric(ctx, "unknown", true, om)

	got := collect(t, reader)
	assert.Equal(t, int64(2), counterTotal(t, got["sentivox_reports_rendered_total"]))
	assert.Equal(t, int64(1), counterTotal(t, got["sentivox_documents_extracted_total"]))
	assert.Equal(t, int64(1), counterTotal(t, got["sentivox_interviews_analyzed_total"]))
	assert.Equal(t, int64(1), counterTotal(t, got["sentivox_rate_limit_hits_total"]))

	pages, ok := got["sentivox_report_pages"].(metricdata.Histogram[int64])
	require.True(t, ok)
	require.Len(t, pages.DataPoints, 1, "failed renders record no page count")
	assert.Equal(t, int64(4), pages.DataPoints[0].Sum)
}

func TestMetricsRespectConfig(t *testing.T) {
	full := &config.Config{}
	full.Observability.CustomMetrics.BusinessMetrics.Enabled = false
	full.Observability.CustomMetrics.Infrastructure.Enabled = true
	full.Observability.CustomMetrics.Infrastructure.TrackRateLimits = false

	om, reader := newTestManager(t, full)
	m := om.GetMetrics()
	ctx := context.Background()

	m.RecordRender(ctx, om, 2, time.Second, nil)
	m.RecordBusinessMetric(ctx, MetricRateLimitHit, true, om)

	got := collect(t, reader)
	assert.NotContains(t, got, "sentivox_reports_rendered_total")
	assert.NotContains(t, got, "sentivox_report_render_duration_seconds")
	assert.NotContains(t, got, "sentivox_rate_limit_hits_total")
}

func TestTrackAIOperationWithTokens(t *testing.T) {
	om, reader := newTestManager(t, nil)
	m := om.GetMetrics()

	err := m.TrackAIOperationWithTokens(context.Background(), "interview", func(context.Context) *AIOperationResult {
		return &AIOperationResult{TokenUsage: &TokenUsage{InputTokens: 100, OutputTokens: 40, TotalTokens: 140}}
	}, om)
	require.NoError(t, err)

	err = m.TrackAIOperationWithTokens(context.Background(), "interview", func(context.Context) *AIOperationResult {
		return &AIOperationResult{Error: errors.New("quota")}
	}, om)
	require.Error(t, err)

	got := collect(t, reader)
	assert.Equal(t, int64(2), counterTotal(t, got["sentivox_ai_requests_total"]))
	assert.Equal(t, int64(1), counterTotal(t, got["sentivox_ai_errors_total"]))

	tokens, ok := got["sentivox_ai_token_usage_total"].(metricdata.Histogram[int64])
	require.True(t, ok)
	var sum int64
	for _, dp := range tokens.DataPoints {
		sum += dp.Sum
	}
	assert.Len(t, tokens.DataPoints, 3, "one series per token type")
	assert.Equal(t, int64(280), sum)
}

func TestGetObservabilityConfig(t *testing.T) {
	fallback := GetObservabilityConfig(nil, "1.2.3")
	assert.Equal(t, "sentivox", fallback.ServiceName)
	assert.Equal(t, "1.2.3", fallback.ServiceVersion)
	assert.Equal(t, "/metrics", fallback.Prometheus.Endpoint)

	cfg := &config.Config{}
	cfg.Observability.Enabled = true
	cfg.Observability.ServiceName = "svc"
	cfg.Observability.SampleRate = 1
	cfg.Observability.Tracing.Enabled = true
	cfg.Observability.Tracing.SampleRate = 0.25
	cfg.Observability.Console.Enabled = true
	cfg.Observability.Prometheus.Port = "9191"

	got := GetObservabilityConfig(cfg, "dev")
	assert.Equal(t, "svc", got.ServiceName)
	assert.Equal(t, "dev", got.ServiceVersion)
	assert.True(t, got.Tracing)
	assert.True(t, got.ConsoleOutput)
	assert.InDelta(t, 0.25, got.SampleRate, 1e-9)
	assert.Equal(t, "9191", got.Prometheus.Port)
}
