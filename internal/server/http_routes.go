package server

import (
	"net/http"
	"strings"

	"github.com/abhilashtyagiii/sentivoxfullcode-sub001/internal/observability"
)

// Handler builds the full HTTP handler. om may be nil, in which case no
// telemetry is recorded.
func (s *Server) Handler(om *observability.ObservabilityManager) http.Handler {
	return om.HTTPMiddleware()(s.setupRoutes(om))
}

// setupRoutes configures all HTTP routes and middleware
func (s *Server) setupRoutes(om *observability.ObservabilityManager) *http.ServeMux {
	mux := http.NewServeMux()

	protect := func(h http.Handler) http.Handler {
		return s.rateLimitMetrics(om, s.rateLimitMiddleware(s.authMiddleware(s.requestSizeLimitMiddleware(h))))
	}

	mux.HandleFunc("GET /health", s.healthHandler)
	mux.HandleFunc("GET /stats", s.statsHandler)
	mux.Handle("POST /report", protect(s.createReportHandler(om)))
	mux.Handle("POST /recommendations", protect(s.createRecommendationsHandler(om)))
	mux.Handle("POST /extract", protect(s.createExtractHandler(om)))
	mux.Handle("POST /analyze", protect(s.createAnalyzeHandler(om)))

	return mux
}

// requestAPIKey reads X-API-Key, falling back to an Authorization bearer token
func requestAPIKey(r *http.Request) string {
	if apiKey := r.Header.Get("X-API-Key"); apiKey != "" {
		return apiKey
	}
	if after, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
		return strings.TrimSpace(after)
	}
	return ""
}

// authMiddleware provides API key authentication. No configured keys means
// the API is open.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if len(s.APIKeys) == 0 {
			next.ServeHTTP(w, r)
			return
		}

		apiKey := requestAPIKey(r)
		if apiKey == "" {
			s.Logger.Info("Authentication failed: missing API key",
				"endpoint", r.URL.Path,
				"client_ip", getClientIP(r))
			writeErrorResponse(w, "Missing API key", "X-API-Key header or Authorization Bearer token required", http.StatusUnauthorized)
			return
		}

		if !s.APIKeys[apiKey] {
			s.Logger.Info("Authentication failed: invalid API key",
				"endpoint", r.URL.Path,
				"client_ip", getClientIP(r),
				"api_key_prefix", maskAPIKey(apiKey))
			writeErrorResponse(w, "Invalid API key", "Unauthorized access", http.StatusUnauthorized)
			return
		}

		s.Logger.Debug("API authentication successful",
			"endpoint", r.URL.Path,
			"api_key_prefix", maskAPIKey(apiKey))

		next.ServeHTTP(w, r)
	})
}

// requestSizeLimitMiddleware caps the request body at MaxRequestSize
func (s *Server) requestSizeLimitMiddleware(next http.Handler) http.Handler {
	if s.MaxRequestSize <= 0 {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, s.MaxRequestSize)
		next.ServeHTTP(w, r)
	})
}

// maskAPIKey masks an API key for logging (shows only first 8 characters)
func maskAPIKey(apiKey string) string {
	if len(apiKey) <= 8 {
		return "****"
	}
	return apiKey[:8] + "****"
}
