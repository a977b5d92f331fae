package server

import (
	"fmt"
	"io"
	"net/http"
)

// displayServerInfo prints the listening address and the effective limits
func (s *Server) displayServerInfo(w io.Writer, server *http.Server) {
	scheme := "http"
	if server.TLSConfig != nil {
		scheme = "https"
	}
	fmt.Fprintf(w, "Listening on %s://%s (TLS mode: %s)\n", scheme, server.Addr, s.tlsModeLabel())

	s.displayEndpoints(w)
	s.displayAuthInfo(w)
	s.displayRequestLimitInfo(w)
	s.displayRateLimitInfo(w)
}

func (s *Server) tlsModeLabel() string {
	if s.TLSConfig.Mode == "" {
		return TLSModeDisabled
	}
	return s.TLSConfig.Mode
}

func (s *Server) displayEndpoints(w io.Writer) {
	fmt.Fprintln(w, "Available endpoints:")
	fmt.Fprintln(w, "  GET  /health           - Health check")
	fmt.Fprintln(w, "  GET  /stats            - Server statistics")
	fmt.Fprintln(w, "  POST /report           - Render analysis as PDF (?format=xlsx for a scorecard)")
	fmt.Fprintln(w, "  POST /recommendations  - Recommendation list and summary cards")
	fmt.Fprintln(w, "  POST /extract          - Extract text from PDF, DOCX or TXT upload")
	if s.AI != nil {
		fmt.Fprintln(w, "  POST /analyze          - AI interview analysis (?format=pdf to render)")
	} else {
		fmt.Fprintln(w, "  POST /analyze          - DISABLED (no AI API key)")
	}
}

func (s *Server) displayAuthInfo(w io.Writer) {
	if len(s.APIKeys) > 0 {
		fmt.Fprintf(w, "API authentication: ENABLED (%d keys configured)\n", len(s.APIKeys))
		return
	}
	fmt.Fprintln(w, "API authentication: DISABLED (no API keys configured)")
	fmt.Fprintln(w, "WARNING: API endpoints are publicly accessible!")
}

func (s *Server) displayRequestLimitInfo(w io.Writer) {
	if s.MaxRequestSize > 0 {
		fmt.Fprintf(w, "Request size limit: %d bytes (%.1f MB)\n", s.MaxRequestSize, float64(s.MaxRequestSize)/(1024*1024))
		return
	}
	fmt.Fprintln(w, "Request size limit: DISABLED")
}

func (s *Server) displayRateLimitInfo(w io.Writer) {
	if s.RateLimit == nil || !s.RateLimit.Enabled {
		fmt.Fprintln(w, "Rate limiting: DISABLED")
		return
	}
	fmt.Fprintf(w, "Rate limiting: ENABLED (%d requests/min, burst: %d)\n",
		s.RateLimit.RequestsPerMin, s.RateLimit.BurstCapacity)
	if s.RateLimit.ByAPIKey {
		fmt.Fprintln(w, "  - Per API key rate limiting enabled")
	}
	if s.RateLimit.ByIP {
		fmt.Fprintln(w, "  - Per IP address rate limiting enabled")
	}
}
