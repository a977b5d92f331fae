package ai

import (
	"fmt"

	"github.com/abhilashtyagiii/sentivoxfullcode-sub001/internal/config"
	"github.com/abhilashtyagiii/sentivoxfullcode-sub001/internal/errors"

	"github.com/sony/gobreaker/v2"
	"google.golang.org/genai"
)

// Breaker guards calls returning T. A nil Breaker passes calls straight through.
type Breaker[T any] struct {
	cb *gobreaker.CircuitBreaker[T]
}

// AICircuitBreaker guards content generation calls
type AICircuitBreaker = Breaker[*genai.GenerateContentResponse]

// ModelCircuitBreaker guards model metadata lookups
type ModelCircuitBreaker = Breaker[*genai.Model]

// NewAICircuitBreaker creates the breaker for an operation's generation
// calls, or nil when the breaker is disabled
func NewAICircuitBreaker(operationType string, cfg *config.OperationAIConfig, logger *errors.Logger) *AICircuitBreaker {
	if !cfg.CircuitBreaker.Enabled {
		return nil
	}
	cbc := cfg.CircuitBreaker
	return newBreaker[*genai.GenerateContentResponse](fmt.Sprintf("AI-%s", operationType), cbc, logger,
		func(counts gobreaker.Counts) bool {
			return counts.Requests >= cbc.MinRequests && failureRatio(counts) >= cbc.FailureThreshold
		})
}

// NewModelCircuitBreaker creates the breaker for model availability checks.
// Health probes are less critical so it trips later than the generation breaker.
func NewModelCircuitBreaker(operationType string, cfg *config.OperationAIConfig, logger *errors.Logger) *ModelCircuitBreaker {
	if !cfg.CircuitBreaker.Enabled {
		return nil
	}
	return newBreaker[*genai.Model](fmt.Sprintf("AI-Model-%s", operationType), cfg.CircuitBreaker, logger,
		func(counts gobreaker.Counts) bool {
			return counts.Requests >= 5 && failureRatio(counts) >= 0.8
		})
}

func newBreaker[T any](name string, cbc config.CircuitBreakerConfig, logger *errors.Logger, trip func(gobreaker.Counts) bool) *Breaker[T] {
	if logger == nil {
		logger = errors.Discard()
	}
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: cbc.MaxRequests,
		Interval:    cbc.Interval,
		Timeout:     cbc.Timeout,
		ReadyToTrip: trip,
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Info("Circuit breaker state changed",
				"name", name,
				"from", from.String(),
				"to", to.String(),
				"max_requests", cbc.MaxRequests,
				"failure_threshold", cbc.FailureThreshold)
		},
	}
	return &Breaker[T]{cb: gobreaker.NewCircuitBreaker[T](settings)}
}

func failureRatio(counts gobreaker.Counts) float64 {
	if counts.Requests == 0 {
		return 0
	}
	return float64(counts.TotalFailures) / float64(counts.Requests)
}

// Execute runs fn under the breaker
func (b *Breaker[T]) Execute(fn func() (T, error)) (T, error) {
	if b == nil || b.cb == nil {
		return fn()
	}
	return b.cb.Execute(fn)
}

// GetStats returns the breaker's name, state and counts
func (b *Breaker[T]) GetStats() map[string]any {
	if b == nil || b.cb == nil {
		return map[string]any{"enabled": false}
	}
	return map[string]any{
		"name":    b.cb.Name(),
		"state":   b.cb.State().String(),
		"counts":  b.cb.Counts(),
		"enabled": true,
	}
}

// IsHealthy reports whether the breaker is closed. A disabled breaker is healthy.
func (b *Breaker[T]) IsHealthy() bool {
	if b == nil || b.cb == nil {
		return true
	}
	return b.cb.State() == gobreaker.StateClosed
}
