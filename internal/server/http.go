package server

import (
	"crypto/tls"
	"time"

	"github.com/abhilashtyagiii/sentivoxfullcode-sub001/internal/ai"
	"github.com/abhilashtyagiii/sentivoxfullcode-sub001/internal/common"
	"github.com/abhilashtyagiii/sentivoxfullcode-sub001/internal/config"
	appErrors "github.com/abhilashtyagiii/sentivoxfullcode-sub001/internal/errors"
	"github.com/abhilashtyagiii/sentivoxfullcode-sub001/internal/extract"
	"github.com/abhilashtyagiii/sentivoxfullcode-sub001/internal/report"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
}

// Server holds configuration for the HTTP server
type Server struct {
	Host    string
	Port    string
	Version string

	// Full application configuration
	AppConfig *config.Config

	TLSConfig config.TLSConfig

	// API Authentication
	APIKeys map[string]bool

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	MaxRequestSize int64

	RateLimit   *config.RateLimitConfig
	RateLimiter *RateLimiter

	// Report pipeline
	Renderer  *report.Renderer
	Extractor *extract.Extractor
	Loader    *common.InputLoader

	// AI is nil when no API key is configured; /analyze then answers 503
	AI      *ai.Service
	AIError error

	Logger *appErrors.Logger

	serverCert *tls.Certificate
}

// ServerConfig holds configuration for creating a Server instance
type ServerConfig struct {
	Host           string
	Port           string
	Version        string
	TLSConfig      config.TLSConfig
	APIKeys        []string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxRequestSize int64
	RateLimit      *config.RateLimitConfig
}

// ServerConfigFrom maps the server section of the application configuration
func ServerConfigFrom(cfg *config.Config, version string) ServerConfig {
	return ServerConfig{
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		Version:        version,
		TLSConfig:      cfg.Server.TLS,
		APIKeys:        cfg.Server.APIKeys,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxRequestSize: cfg.Server.MaxRequestSize,
		RateLimit:      &cfg.Server.RateLimit,
	}
}

// NewServer creates a new Server instance. The AI analyzer is created once
// so its circuit breaker state survives across requests.
func NewServer(appCfg *config.Config, cfg ServerConfig, logger *appErrors.Logger) *Server {
	if logger == nil {
		logger = appErrors.Discard()
	}

	apiKeyMap := make(map[string]bool)
	for _, key := range cfg.APIKeys {
		if key != "" {
			apiKeyMap[key] = true
		}
	}

	var rateLimiter *RateLimiter
	if cfg.RateLimit != nil && cfg.RateLimit.Enabled {
		rateLimiter = NewRateLimiter(cfg.RateLimit.RequestsPerMin, cfg.RateLimit.Window, cfg.RateLimit.BurstCapacity, logger)
	}

	s := &Server{
		Host:           cfg.Host,
		Port:           cfg.Port,
		Version:        cfg.Version,
		AppConfig:      appCfg,
		TLSConfig:      cfg.TLSConfig,
		APIKeys:        apiKeyMap,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxRequestSize: cfg.MaxRequestSize,
		RateLimit:      cfg.RateLimit,
		RateLimiter:    rateLimiter,
		Renderer:       report.NewRenderer(report.OptionsFromConfig(appCfg.Report), logger),
		Extractor:      extract.NewExtractor(extract.PolicyFromConfig(appCfg.App), logger),
		Loader:         common.NewInputLoader(logger),
		Logger:         logger,
	}

	if err := appCfg.RequireAI(); err != nil {
		s.AIError = err
		logger.Warn("AI analysis disabled", "reason", err.Error())
		return s
	}
	interviewCfg := appCfg.GetInterviewConfig()
	svc, err := ai.NewService(&interviewCfg, ai.OperationInterview, logger)
	if err != nil {
		s.AIError = err
		logger.LogError(err, "Failed to create AI service; /analyze disabled")
		return s
	}
	if p, ok := svc.Analyzer.(*ai.GeminiProvider); ok {
		p.SetModelCheckTimeout(appCfg.Observability.HealthCheck.AIModelCheckTimeout)
	}
	s.AI = svc
	return s
}
