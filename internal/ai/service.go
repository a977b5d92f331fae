package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/abhilashtyagiii/sentivoxfullcode-sub001/internal/config"
	"github.com/abhilashtyagiii/sentivoxfullcode-sub001/internal/errors"
	"github.com/abhilashtyagiii/sentivoxfullcode-sub001/internal/types"
)

// OperationInterview names the interview analysis operation in breakers and metrics
const OperationInterview = "interview"

// Service handles AI-backed interview analysis
type Service struct {
	Analyzer Analyzer
	logger   *errors.Logger
}

// NewService creates a service for one operation from its resolved configuration
func NewService(cfg *config.OperationAIConfig, operationType string, logger *errors.Logger) (*Service, error) {
	if logger == nil {
		logger = errors.Discard()
	}

	logger.Debug("Initializing AI service",
		"provider", cfg.Provider,
		"operation_type", operationType,
		"model", cfg.Model,
		"temperature", *cfg.Temperature,
		"timeout", *cfg.Timeout,
		"max_retries", *cfg.MaxRetries,
		"use_system_prompts", *cfg.UseSystemPrompts)

	var analyzer Analyzer
	switch cfg.Provider {
	case "gemini":
		provider, err := NewGeminiProvider(cfg, operationType, logger)
		if err != nil {
			return nil, errors.NewAIError(errors.ErrCodeAIServiceFailed,
				"Failed to create AI provider", err)
		}
		analyzer = provider
	default:
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("Unsupported AI provider: %s", cfg.Provider), nil)
	}

	return NewServiceWithAnalyzer(analyzer, logger), nil
}

// NewServiceWithAnalyzer wraps an existing analyzer
func NewServiceWithAnalyzer(analyzer Analyzer, logger *errors.Logger) *Service {
	if logger == nil {
		logger = errors.Discard()
	}
	return &Service{Analyzer: analyzer, logger: logger}
}

// AnalyzeInterview validates the input and runs the analyzer
func (s *Service) AnalyzeInterview(ctx context.Context, input types.AnalyzeInterviewInput) (*types.ReportInput, *TokenUsage, error) {
	if strings.TrimSpace(input.Transcript) == "" {
		return nil, nil, errors.NewValidationError(errors.ErrCodeInvalidInput, "Interview transcript is empty", nil).
			WithContext("file", input.FileName)
	}

	s.logger.Debug("Analyzing interview",
		"file", input.FileName,
		"transcript_chars", len(input.Transcript),
		"job_chars", len(input.JobDescription))

	return s.Analyzer.AnalyzeInterview(ctx, input)
}

// GetModelInfo returns information about the AI model for health checks
func (s *Service) GetModelInfo(ctx context.Context) *ModelInfo {
	return s.Analyzer.GetModelInfo(ctx)
}

// CircuitBreakerStats reports breaker state when the analyzer has breakers
func (s *Service) CircuitBreakerStats() map[string]any {
	if sp, ok := s.Analyzer.(statsProvider); ok {
		return sp.GetCircuitBreakerStats()
	}
	return map[string]any{"enabled": false}
}

// Close releases the analyzer
func (s *Service) Close() error {
	return s.Analyzer.Close()
}
