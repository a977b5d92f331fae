package ai

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/big"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/abhilashtyagiii/sentivoxfullcode-sub001/internal/config"
	appErrors "github.com/abhilashtyagiii/sentivoxfullcode-sub001/internal/errors"
	"github.com/abhilashtyagiii/sentivoxfullcode-sub001/internal/types"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/api/googleapi"
	"google.golang.org/genai"
)

const (
	defaultModelCheckTimeout = 10 * time.Second
	maxBackoff               = 30 * time.Second
)

// GeminiProvider implements Analyzer for Google Gemini
type GeminiProvider struct {
	client            *genai.Client
	config            *config.OperationAIConfig
	circuitBreaker    *AICircuitBreaker
	modelBreaker      *ModelCircuitBreaker
	logger            *appErrors.Logger
	modelCheckTimeout time.Duration
	retryBaseDelay    time.Duration
}

var _ Analyzer = (*GeminiProvider)(nil)

// NewGeminiProvider creates a Gemini analyzer for one operation. cfg must
// have its fallbacks applied (see config.GetInterviewConfig).
func NewGeminiProvider(cfg *config.OperationAIConfig, operationType string, logger *appErrors.Logger) (*GeminiProvider, error) {
	if logger == nil {
		logger = appErrors.Discard()
	}
	if cfg.APIKey == "" {
		return nil, appErrors.NewConfigError(appErrors.ErrCodeMissingAPIKey, "Gemini API key is not configured", nil)
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, appErrors.NewAIError(appErrors.ErrCodeAIServiceFailed,
			"Failed to create Gemini client", err)
	}

	return &GeminiProvider{
		client:            client,
		config:            cfg,
		circuitBreaker:    NewAICircuitBreaker(operationType, cfg, logger),
		modelBreaker:      NewModelCircuitBreaker(operationType, cfg, logger),
		logger:            logger,
		modelCheckTimeout: defaultModelCheckTimeout,
		retryBaseDelay:    time.Second,
	}, nil
}

// SetModelCheckTimeout bounds GetModelInfo. Non-positive values are ignored.
func (g *GeminiProvider) SetModelCheckTimeout(d time.Duration) {
	if d > 0 {
		g.modelCheckTimeout = d
	}
}

// GetModelInfo checks the readiness and availability of the configured model
func (g *GeminiProvider) GetModelInfo(ctx context.Context) *ModelInfo {
	info := &ModelInfo{Name: g.config.Model}

	checkCtx, cancel := context.WithTimeout(ctx, g.modelCheckTimeout)
	defer cancel()

	model, err := g.modelBreaker.Execute(func() (*genai.Model, error) {
		return g.client.Models.Get(checkCtx, g.config.Model, &genai.GetModelConfig{})
	})
	if err != nil {
		info.Error = fmt.Sprintf("Failed to get model info: %v", err)
		g.logger.Warn("Model availability check failed",
			"model", g.config.Model,
			"provider", g.config.Provider,
			"error", err.Error())
		return info
	}

	info.Available = true
	info.DisplayName = model.DisplayName
	info.Version = model.Version
	g.logger.Debug("Model availability check successful",
		"model", g.config.Model,
		"display_name", info.DisplayName,
		"version", info.Version)
	return info
}

// AnalyzeInterview asks the model for scores, exchanges, sentiment and flow
// issues, then normalizes the answer into a renderable ReportInput
func (g *GeminiProvider) AnalyzeInterview(ctx context.Context, input types.AnalyzeInterviewInput) (*types.ReportInput, *TokenUsage, error) {
	systemPrompt, userPrompt := g.interviewPrompts(input)

	if timeout := *g.config.Timeout; timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	raw, usage, err := executeAIOperation[interviewAnalysis](
		g,
		ctx,
		"analyze_interview",
		userPrompt,
		systemPrompt,
		g.buildInterviewSchema(),
		attribute.Int("input.transcript_length", len(input.Transcript)),
		attribute.Int("input.job_length", len(input.JobDescription)),
	)
	if err != nil {
		return nil, nil, err
	}

	out := raw.toReportInput(input)
	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.SetAttributes(
			attribute.Float64("score.jd_match", out.Scores.JDMatchScore),
			attribute.Int("flow.issues", out.FlowBreakCount()),
		)
	}
	return out, usage, nil
}

// GetCircuitBreakerStats returns circuit breaker statistics
func (g *GeminiProvider) GetCircuitBreakerStats() map[string]any {
	return map[string]any{
		"ai_operations":    g.circuitBreaker.GetStats(),
		"model_operations": g.modelBreaker.GetStats(),
		"overall_healthy":  g.circuitBreaker.IsHealthy() && g.modelBreaker.IsHealthy(),
	}
}

// Close implements Analyzer. The single-shot client holds no resources.
func (g *GeminiProvider) Close() error {
	return nil
}

// executeWithRetry retries retryable failures with exponential backoff and jitter
func (g *GeminiProvider) executeWithRetry(ctx context.Context, operation string, fn func() (*genai.GenerateContentResponse, error)) (*genai.GenerateContentResponse, error) {
	var lastErr error
	retries := *g.config.MaxRetries

	for attempt := 0; attempt <= retries; attempt++ {
		if attempt > 0 {
			g.logger.Warn("Retrying AI operation",
				"operation", operation,
				"attempt", attempt,
				"max_retries", retries,
				"error", lastErr.Error())

			select {
			case <-time.After(g.backoff(attempt)):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		result, err := fn()
		if err == nil {
			if attempt > 0 {
				g.logger.Info("AI operation succeeded after retry",
					"operation", operation,
					"total_attempts", attempt+1)
			}
			return result, nil
		}

		lastErr = err
		if !isRetryableError(err) {
			g.logger.Debug("Error is not retryable, stopping retry attempts",
				"operation", operation,
				"error", err.Error())
			break
		}
	}

	g.logger.LogError(lastErr, "AI operation failed after all retry attempts",
		"operation", operation,
		"total_attempts", retries+1)
	return nil, fmt.Errorf("operation '%s' failed after %d retries: %w", operation, retries, lastErr)
}

// backoff is retryBaseDelay * 2^(attempt-1) plus up to 10% jitter, capped at maxBackoff
func (g *GeminiProvider) backoff(attempt int) time.Duration {
	base := time.Duration(math.Pow(2, float64(attempt-1))) * g.retryBaseDelay
	var jitter time.Duration
	if limit := big.NewInt(int64(float64(base) * 0.1)); limit.Sign() > 0 {
		if n, err := rand.Int(rand.Reader, limit); err == nil {
			jitter = time.Duration(n.Int64())
		}
	}
	return min(base+jitter, maxBackoff)
}

// isRetryableError reports whether err is a network failure or a transient HTTP status
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return isRetryableStatus(apiErr.Code)
	}
	var genaiErr genai.APIError
	if errors.As(err, &genaiErr) {
		return isRetryableStatus(genaiErr.Code)
	}
	return false
}

func isRetryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

// executeAIOperation runs one structured generation call under tracing, the
// circuit breaker and the retry loop, and decodes the JSON answer into Out
func executeAIOperation[Out any](
	g *GeminiProvider,
	ctx context.Context,
	operationName string,
	userPrompt string,
	systemPrompt string,
	genaiConfig *genai.GenerateContentConfig,
	spanAttributes ...attribute.KeyValue,
) (Out, *TokenUsage, error) {
	var output Out
	ctx, span := otel.Tracer("sentivox.ai.gemini").Start(ctx, "gemini."+operationName)
	defer span.End()

	span.SetAttributes(
		attribute.String("ai.provider", "gemini"),
		attribute.String("ai.model", g.config.Model),
		attribute.Float64("ai.temperature", float64(*g.config.Temperature)),
	)
	span.SetAttributes(spanAttributes...)

	if *g.config.UseSystemPrompts && systemPrompt != "" {
		genaiConfig.SystemInstruction = genai.NewContentFromText(systemPrompt, genai.RoleUser)
	}

	result, err := g.circuitBreaker.Execute(func() (*genai.GenerateContentResponse, error) {
		return g.executeWithRetry(ctx, operationName, func() (*genai.GenerateContentResponse, error) {
			return g.client.Models.GenerateContent(ctx, g.config.Model, genai.Text(userPrompt), genaiConfig)
		})
	})
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		return output, nil, classifyGenerateError(operationName, err)
	}

	if err := json.Unmarshal([]byte(result.Text()), &output); err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		return output, nil, appErrors.NewAIError("AI_RESPONSE_PARSE_FAILED", "Failed to parse AI response for "+operationName, err)
	}

	usage := extractTokenUsage(result)
	if usage != nil {
		span.SetAttributes(
			attribute.Int64("ai.tokens.input", usage.InputTokens),
			attribute.Int64("ai.tokens.output", usage.OutputTokens),
			attribute.Int64("ai.tokens.total", usage.TotalTokens),
		)
	}
	span.SetAttributes(attribute.Bool("success", true))
	return output, usage, nil
}

// classifyGenerateError maps a failed generate call to an AI error, or a
// network error when the model was never reached
func classifyGenerateError(operationName string, err error) *appErrors.AppError {
	message := "Failed to generate content for " + operationName
	if errors.Is(err, context.DeadlineExceeded) {
		return appErrors.NewAIError(appErrors.ErrCodeAITimeout, message, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		code := "NETWORK_UNREACHABLE"
		if netErr.Timeout() {
			code = appErrors.ErrCodeNetworkTimeout
		}
		return appErrors.NewNetworkError(code, message, err)
	}
	return appErrors.NewAIError(appErrors.ErrCodeAIServiceFailed, message, err)
}

// interviewPrompts resolves the system prompt and fills the user prompt template
func (g *GeminiProvider) interviewPrompts(input types.AnalyzeInterviewInput) (string, string) {
	loaded := config.GetLoadedInterviewPrompts()
	custom := g.config.CustomPrompts

	system := resolvePrompt(loaded.SystemPrompt, custom.SystemPrompt, DefaultSystemPrompt)
	user := resolvePrompt(loaded.UserPrompt, custom.UserPrompt, DefaultUserPrompt)
	return system, formatUserPrompt(user, input.Transcript, input.JobDescription)
}

// formatUserPrompt fills the transcript and job description placeholders.
// Templates with fewer than two %s placeholders get the missing blocks appended.
func formatUserPrompt(template, transcript, jobDescription string) string {
	if strings.TrimSpace(jobDescription) == "" {
		jobDescription = noJobDescription
	}
	switch strings.Count(template, "%s") {
	case 0:
		return fmt.Sprintf("%s\n\n**Interview Transcript:**\n-----\n%s\n-----\n\n**Job Description:**\n-----\n%s\n-----",
			template, transcript, jobDescription)
	case 1:
		return fmt.Sprintf(template, transcript) +
			fmt.Sprintf("\n\n**Job Description:**\n-----\n%s\n-----", jobDescription)
	default:
		return fmt.Sprintf(template, transcript, jobDescription)
	}
}

// buildInterviewSchema creates the structured output schema for interview analysis
func (g *GeminiProvider) buildInterviewSchema() *genai.GenerateContentConfig {
	str := &genai.Schema{Type: genai.TypeString}
	num := &genai.Schema{Type: genai.TypeNumber}

	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"candidateName": str,
				"role":          str,
				"scores": {
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"jdMatchScore":        num,
						"candidateEngagement": num,
						"recruiterSentiment":  num,
						"flowContinuityScore": num,
					},
					Required: []string{"jdMatchScore", "candidateEngagement", "recruiterSentiment", "flowContinuityScore"},
				},
				"technicalSkills": {Type: genai.TypeArray, Items: str},
				"jdRelevance": {
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"summary": str,
						"exchanges": {
							Type: genai.TypeArray,
							Items: &genai.Schema{
								Type: genai.TypeObject,
								Properties: map[string]*genai.Schema{
									"question": str,
									"answer":   str,
									"score":    num,
								},
								Required: []string{"question", "answer", "score"},
							},
						},
					},
					Required: []string{"summary", "exchanges"},
				},
				"sentiment": {
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"candidatePerformance":   str,
						"recruiterEffectiveness": str,
					},
					Required: []string{"candidatePerformance", "recruiterEffectiveness"},
				},
				"flow": {
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"insights": {Type: genai.TypeArray, Items: str},
						"issues": {
							Type: genai.TypeArray,
							Items: &genai.Schema{
								Type: genai.TypeObject,
								Properties: map[string]*genai.Schema{
									"text": str,
									"severity": {
										Type:   genai.TypeString,
										Format: "enum",
										Enum:   []string{string(types.SeverityLow), string(types.SeverityMedium), string(types.SeverityHigh)},
									},
								},
								Required: []string{"text", "severity"},
							},
						},
					},
					Required: []string{"insights", "issues"},
				},
			},
			Required: []string{"scores", "technicalSkills", "jdRelevance", "sentiment", "flow"},
		},
	}

	if *g.config.Temperature > 0 {
		cfg.Temperature = g.config.Temperature
	}
	return cfg
}

// extractTokenUsage extracts token usage information from a Gemini response
func extractTokenUsage(result *genai.GenerateContentResponse) *TokenUsage {
	if result == nil || result.UsageMetadata == nil {
		return nil
	}
	usage := result.UsageMetadata
	return &TokenUsage{
		InputTokens:  int64(usage.PromptTokenCount),
		OutputTokens: int64(usage.CandidatesTokenCount),
		TotalTokens:  int64(usage.TotalTokenCount),
	}
}
