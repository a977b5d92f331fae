package ai

import (
	"context"

	"github.com/abhilashtyagiii/sentivoxfullcode-sub001/internal/types"
)

// Analyzer turns an interview transcript into the analysis payload the
// report renderer consumes. Token usage may be nil when the provider does
// not report it.
type Analyzer interface {
	AnalyzeInterview(ctx context.Context, input types.AnalyzeInterviewInput) (*types.ReportInput, *TokenUsage, error)
	GetModelInfo(ctx context.Context) *ModelInfo
	Close() error
}

// TokenUsage represents token usage information from AI responses
type TokenUsage struct {
	InputTokens  int64
	OutputTokens int64
	TotalTokens  int64
}

// ModelInfo represents information about the AI model
type ModelInfo struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName,omitempty"`
	Version     string `json:"version,omitempty"`
	Available   bool   `json:"available"`
	Error       string `json:"error,omitempty"`
}

// statsProvider is implemented by analyzers guarded by circuit breakers
type statsProvider interface {
	GetCircuitBreakerStats() map[string]any
}
