package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	appErrors "github.com/abhilashtyagiii/sentivoxfullcode-sub001/internal/errors"

	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	serviceName = "sentivox"

	defaultHealthCheckTimeout = 5 * time.Second

	certCriticalThreshold = 24 * time.Hour
	certWarningThreshold  = 7 * 24 * time.Hour
)

// getHealthCheckTimeout returns the configured health check timeout
func (s *Server) getHealthCheckTimeout() time.Duration {
	if s.AppConfig != nil && s.AppConfig.Observability.HealthCheck.Timeout > 0 {
		return s.AppConfig.Observability.HealthCheck.Timeout
	}
	return defaultHealthCheckTimeout
}

// healthHandler reports service health including the AI model, circuit
// breakers and the serving certificate. A configured but unreachable model
// or a certificate close to expiry answers 503.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	response := map[string]any{
		"status":  "healthy",
		"service": serviceName,
		"version": s.Version,
	}
	healthy := true

	aiStatus, aiHealthy := s.checkAIModelHealth(r.Context())
	response["ai_model"] = aiStatus
	healthy = healthy && aiHealthy

	if s.AI != nil {
		response["circuit_breakers"] = s.AI.CircuitBreakerStats()
	}

	if certStatus := s.checkCertificateHealth(time.Now()); certStatus != nil {
		response["certificates"] = certStatus
		if ok, _ := certStatus["healthy"].(bool); !ok {
			healthy = false
		}
	}

	status := http.StatusOK
	if !healthy {
		response["status"] = "degraded"
		status = http.StatusServiceUnavailable
	}
	s.writeJSON(w, status, response)
}

// checkAIModelHealth queries the configured model. Running without AI is
// healthy; report rendering does not depend on it.
func (s *Server) checkAIModelHealth(parent context.Context) (map[string]any, bool) {
	if s.AI == nil {
		status := map[string]any{"configured": false, "available": false}
		if s.AIError != nil {
			status["error"] = s.AIError.Error()
		}
		return status, true
	}

	ctx, cancel := context.WithTimeout(parent, s.getHealthCheckTimeout())
	defer cancel()

	info := s.AI.GetModelInfo(ctx)
	status := map[string]any{"configured": true, "available": info.Available, "name": info.Name}
	if info.DisplayName != "" {
		status["display_name"] = info.DisplayName
	}
	if info.Version != "" {
		status["version"] = info.Version
	}
	if info.Error != "" {
		status["error"] = info.Error
	}
	return status, info.Available
}

// checkCertificateHealth classifies the serving certificate by time to
// expiry. Nil when the server is not serving TLS.
func (s *Server) checkCertificateHealth(now time.Time) map[string]any {
	if s.serverCert == nil || s.serverCert.Leaf == nil {
		return nil
	}

	timeToExpiry := s.serverCert.Leaf.NotAfter.Sub(now)
	certStatus := map[string]any{
		"subject":              s.serverCert.Leaf.Subject.CommonName,
		"not_after":            s.serverCert.Leaf.NotAfter.UTC().Format(time.RFC3339),
		"time_to_expiry_hours": int(timeToExpiry.Hours()),
	}

	switch {
	case timeToExpiry <= 0:
		certStatus["healthy"] = false
		certStatus["status"] = "expired"
	case timeToExpiry <= certCriticalThreshold:
		certStatus["healthy"] = false
		certStatus["status"] = "critical"
	case timeToExpiry <= certWarningThreshold:
		certStatus["healthy"] = true
		certStatus["status"] = "warning"
	default:
		certStatus["healthy"] = true
		certStatus["status"] = "ok"
	}
	return certStatus
}

// statsHandler provides server statistics including rate limiting info
func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	response := map[string]any{
		"service": serviceName,
		"version": s.Version,
		"server": map[string]any{
			"max_request_size_bytes": s.MaxRequestSize,
			"auth_enabled":           len(s.APIKeys) > 0,
			"ai_enabled":             s.AI != nil,
		},
	}

	if s.Extractor != nil {
		policy := s.Extractor.Policy()
		response["uploads"] = map[string]any{
			"max_file_size_bytes": policy.MaxFileSize,
			"allowed_extensions":  policy.AllowedExtensions,
		}
	}

	if s.RateLimiter != nil {
		response["rate_limiting"] = s.RateLimiter.GetStats()
	} else {
		response["rate_limiting"] = map[string]any{"enabled": false}
	}

	if s.RateLimit != nil {
		response["rate_limit_config"] = map[string]any{
			"enabled":          s.RateLimit.Enabled,
			"requests_per_min": s.RateLimit.RequestsPerMin,
			"burst_capacity":   s.RateLimit.BurstCapacity,
			"by_ip":            s.RateLimit.ByIP,
			"by_api_key":       s.RateLimit.ByAPIKey,
		}
	}

	s.writeJSON(w, http.StatusOK, response)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Warn("Failed to encode response", "error", err.Error())
	}
}

// writeErrorResponse writes a standardized error response
func writeErrorResponse(w http.ResponseWriter, error, message string, statusCode int) {
	writeError(w, ErrorResponse{Error: error, Message: message}, statusCode)
}

func writeError(w http.ResponseWriter, resp ErrorResponse, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(resp)
}

// fail records err on the span and writes the mapped error response
func (s *Server) fail(w http.ResponseWriter, span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	if appErr, ok := appErrors.AsAppError(err); ok {
		span.SetAttributes(attribute.String("error.type", string(appErr.Type)))
	}
	s.writeAppError(w, err)
}

// writeAppError maps err onto an HTTP status and a JSON error body
func (s *Server) writeAppError(w http.ResponseWriter, err error) {
	status := statusForError(err)
	resp := ErrorResponse{Error: http.StatusText(status), Message: err.Error()}

	if appErr, ok := appErrors.AsAppError(err); ok {
		resp.Code = appErr.Code
		resp.Message = appErr.Message
	}
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		resp.Code = appErrors.ErrCodeFileTooLarge
		resp.Message = "request body too large"
	}

	if status >= http.StatusInternalServerError {
		s.Logger.LogError(err, "Request failed", "status", status)
	}
	writeError(w, resp, status)
}

func statusForError(err error) int {
	var maxBytesErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxBytesErr):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}

	appErr, ok := appErrors.AsAppError(err)
	if !ok {
		return http.StatusInternalServerError
	}

	switch appErr.Type {
	case appErrors.ErrorTypeValidation:
		if appErr.Code == appErrors.ErrCodeFileTooLarge {
			return http.StatusRequestEntityTooLarge
		}
		return http.StatusBadRequest
	case appErrors.ErrorTypeExtraction:
		return http.StatusUnprocessableEntity
	case appErrors.ErrorTypeIO:
		if appErr.Code == appErrors.ErrCodeFileNotFound {
			return http.StatusNotFound
		}
		return http.StatusInternalServerError
	case appErrors.ErrorTypeAI:
		if appErr.Code == appErrors.ErrCodeAITimeout {
			return http.StatusGatewayTimeout
		}
		return http.StatusBadGateway
	case appErrors.ErrorTypeNetwork:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
