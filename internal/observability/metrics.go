package observability

import (
	"context"
	"fmt"
	"time"

	"github.com/abhilashtyagiii/sentivoxfullcode-sub001/internal/config"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// Business metric types accepted by RecordBusinessMetric
const (
	MetricReportRendered    = "report_rendered"
	MetricDocumentExtracted = "document_extracted"
	MetricInterviewAnalyzed = "interview_analyzed"
	MetricRateLimitHit      = "rate_limit_hit"
)

// Metrics holds all custom metrics. Nil instruments are skipped, so the
// zero value is a valid no-op.
type Metrics struct {
	// AI operation metrics
	AIProcessingTime metric.Float64Histogram
	AIRequestCount   metric.Int64Counter
	AIErrorCount     metric.Int64Counter
	AITokenUsage     metric.Int64Histogram

	// Business metrics
	ReportsRendered    metric.Int64Counter
	RenderDuration     metric.Float64Histogram
	ReportPages        metric.Int64Histogram
	DocumentsExtracted metric.Int64Counter
	ExtractedBytes     metric.Int64Histogram
	InterviewsAnalyzed metric.Int64Counter

	// Rate limiting metrics
	RateLimitHits metric.Int64Counter
}

// AIOperationResult holds the result of an AI operation including token usage
type AIOperationResult struct {
	Error      error
	TokenUsage *TokenUsage
}

// TokenUsage represents token usage information from AI responses
type TokenUsage struct {
	InputTokens  int64
	OutputTokens int64
	TotalTokens  int64
}

func newMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}
	var err error

	counter := func(dst *metric.Int64Counter, name, desc string) {
		if err == nil {
			*dst, err = meter.Int64Counter(name, metric.WithDescription(desc))
		}
	}
	intHist := func(dst *metric.Int64Histogram, name, desc, unit string) {
		if err == nil {
			*dst, err = meter.Int64Histogram(name, metric.WithDescription(desc), metric.WithUnit(unit))
		}
	}
	floatHist := func(dst *metric.Float64Histogram, name, desc string) {
		if err == nil {
			*dst, err = meter.Float64Histogram(name, metric.WithDescription(desc), metric.WithUnit("s"))
		}
	}

	floatHist(&m.AIProcessingTime, "sentivox_ai_processing_duration_seconds", "Time spent processing AI requests")
	counter(&m.AIRequestCount, "sentivox_ai_requests_total", "Total number of AI requests")
	counter(&m.AIErrorCount, "sentivox_ai_errors_total", "Total number of AI request errors")
	intHist(&m.AITokenUsage, "sentivox_ai_token_usage_total", "Token usage for AI requests (input, output, total)", "tokens")

	counter(&m.ReportsRendered, "sentivox_reports_rendered_total", "Total number of reports rendered")
	floatHist(&m.RenderDuration, "sentivox_report_render_duration_seconds", "Time spent rendering a report")
	intHist(&m.ReportPages, "sentivox_report_pages", "Pages per rendered report", "{page}")
	counter(&m.DocumentsExtracted, "sentivox_documents_extracted_total", "Total number of uploaded documents extracted")
	intHist(&m.ExtractedBytes, "sentivox_extracted_document_bytes", "Size of extracted uploads", "By")
	counter(&m.InterviewsAnalyzed, "sentivox_interviews_analyzed_total", "Total number of interviews analyzed")

	counter(&m.RateLimitHits, "sentivox_rate_limit_hits_total", "Total number of rate limit hits")

	if err != nil {
		return nil, fmt.Errorf("failed to create metric: %w", err)
	}
	return m, nil
}

func customMetrics(om *ObservabilityManager) *config.CustomMetricsConfig {
	if cfg := om.Config(); cfg != nil {
		return &cfg.Observability.CustomMetrics
	}
	return nil
}

// TrackAIOperationWithTokens instruments an AI operation with tracing, metrics and token usage
func (m *Metrics) TrackAIOperationWithTokens(ctx context.Context, operation string, fn func(context.Context) *AIOperationResult, om *ObservabilityManager) error {
	if m.AIProcessingTime == nil {
		if result := fn(ctx); result != nil {
			return result.Error
		}
		return nil
	}

	ctx, span := otel.Tracer("sentivox.ai").Start(ctx, "ai."+operation)
	defer span.End()

	start := time.Now()
	result := fn(ctx)
	duration := time.Since(start).Seconds()

	var err error
	if result != nil {
		err = result.Error
	}

	if cm := customMetrics(om); cm == nil || cm.AIOperations.Enabled {
		m.recordAIMetrics(ctx, operation, err, duration, result, cm, span)
	}

	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("error", true))
	}
	return err
}

func (m *Metrics) recordAIMetrics(ctx context.Context, operation string, err error, duration float64, result *AIOperationResult, cm *config.CustomMetricsConfig, span oteltrace.Span) {
	attrs := []attribute.KeyValue{
		attribute.String("operation", operation),
		attribute.Bool("success", err == nil),
	}
	opt := metric.WithAttributes(attrs...)

	if cm == nil || cm.AIOperations.TrackDuration {
		m.AIProcessingTime.Record(ctx, duration, opt)
	}
	m.AIRequestCount.Add(ctx, 1, opt)
	if err != nil {
		m.AIErrorCount.Add(ctx, 1, opt)
	}

	if result != nil && result.TokenUsage != nil {
		usage := result.TokenUsage
		if cm == nil || cm.AIOperations.TrackTokenUsage {
			for _, tt := range []struct {
				tokenType string
				value     int64
			}{
				{"input", usage.InputTokens},
				{"output", usage.OutputTokens},
				{"total", usage.TotalTokens},
			} {
				tokenAttrs := append(append([]attribute.KeyValue(nil), attrs...), attribute.String("token_type", tt.tokenType))
				m.AITokenUsage.Record(ctx, tt.value, metric.WithAttributes(tokenAttrs...))
			}
		}
		span.SetAttributes(
			attribute.Int64("ai.tokens.input", usage.InputTokens),
			attribute.Int64("ai.tokens.output", usage.OutputTokens),
			attribute.Int64("ai.tokens.total", usage.TotalTokens),
		)
	}

	span.SetAttributes(attrs...)
}

// RecordBusinessMetric increments the counter for metricType
func (m *Metrics) RecordBusinessMetric(ctx context.Context, metricType string, success bool, om *ObservabilityManager, attributes ...attribute.KeyValue) {
	cm := customMetrics(om)
	if metricType == MetricRateLimitHit {
		if cm != nil && (!cm.Infrastructure.Enabled || !cm.Infrastructure.TrackRateLimits) {
			return
		}
	} else if cm != nil && !cm.BusinessMetrics.Enabled {
		return
	}

	attrs := append([]attribute.KeyValue{attribute.Bool("success", success)}, attributes...)
	opt := metric.WithAttributes(attrs...)

	var counter metric.Int64Counter
	switch metricType {
	case MetricReportRendered:
		counter = m.ReportsRendered
	case MetricDocumentExtracted:
		counter = m.DocumentsExtracted
	case MetricInterviewAnalyzed:
		counter = m.InterviewsAnalyzed
	case MetricRateLimitHit:
		counter = m.RateLimitHits
	}
	if counter != nil {
		counter.Add(ctx, 1, opt)
	}
}

// RecordRender records one finished render: counter, duration and page count
func (m *Metrics) RecordRender(ctx context.Context, om *ObservabilityManager, pages int, elapsed time.Duration, err error, attributes ...attribute.KeyValue) {
	m.RecordBusinessMetric(ctx, MetricReportRendered, err == nil, om, attributes...)

	cm := customMetrics(om)
	if cm != nil && (!cm.BusinessMetrics.Enabled || !cm.BusinessMetrics.TrackContentSizes) {
		return
	}
	opt := metric.WithAttributes(append([]attribute.KeyValue{attribute.Bool("success", err == nil)}, attributes...)...)
	if m.RenderDuration != nil {
		m.RenderDuration.Record(ctx, elapsed.Seconds(), opt)
	}
	if m.ReportPages != nil && err == nil {
		m.ReportPages.Record(ctx, int64(pages), opt)
	}
}

// RecordExtraction records one processed upload and its size
func (m *Metrics) RecordExtraction(ctx context.Context, om *ObservabilityManager, size int64, err error, attributes ...attribute.KeyValue) {
	m.RecordBusinessMetric(ctx, MetricDocumentExtracted, err == nil, om, attributes...)

	cm := customMetrics(om)
	if cm != nil && (!cm.BusinessMetrics.Enabled || !cm.BusinessMetrics.TrackContentSizes) {
		return
	}
	if m.ExtractedBytes != nil {
		m.ExtractedBytes.Record(ctx, size, metric.WithAttributes(attribute.Bool("success", err == nil)))
	}
}
