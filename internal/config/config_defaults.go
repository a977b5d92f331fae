package config

import (
	"time"

	"github.com/spf13/viper"
)

// setDefaults sets the default configuration values
func setDefaults(v *viper.Viper) {
	// AI Configuration - Global defaults
	v.SetDefault("ai.provider", "gemini")
	v.SetDefault("ai.model", "gemini-2.0-flash")
	v.SetDefault("ai.timeout", 60*time.Second)
	v.SetDefault("ai.apiKey", "")
	v.SetDefault("ai.maxRetries", 3)
	v.SetDefault("ai.temperature", 0.2)
	v.SetDefault("ai.useSystemPrompts", true)

	// AI Configuration - Interview analysis
	v.SetDefault("ai.interview.provider", "gemini")
	v.SetDefault("ai.interview.model", "")
	v.SetDefault("ai.interview.timeout", 90*time.Second) // transcripts can be long
	v.SetDefault("ai.interview.apiKey", "")
	v.SetDefault("ai.interview.maxRetries", 2)
	v.SetDefault("ai.interview.temperature", 0.1)
	v.SetDefault("ai.interview.useSystemPrompts", true)

	v.SetDefault("ai.interview.circuitBreaker.enabled", true)
	v.SetDefault("ai.interview.circuitBreaker.maxRequests", 3)
	v.SetDefault("ai.interview.circuitBreaker.interval", 60*time.Second)
	v.SetDefault("ai.interview.circuitBreaker.timeout", 60*time.Second)
	v.SetDefault("ai.interview.circuitBreaker.minRequests", 3)
	v.SetDefault("ai.interview.circuitBreaker.failureThreshold", 0.6)

	// Server Configuration
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.readTimeout", 30*time.Second)
	v.SetDefault("server.writeTimeout", 60*time.Second)
	v.SetDefault("server.idleTimeout", 120*time.Second)
	v.SetDefault("server.maxRequestSize", 12*1024*1024)

	v.SetDefault("server.tls.mode", "disabled") // disabled, server, mutual
	v.SetDefault("server.tls.certFile", "")
	v.SetDefault("server.tls.keyFile", "")
	v.SetDefault("server.tls.caFile", "")
	v.SetDefault("server.tls.minVersion", "1.2")
	v.SetDefault("server.tls.cipherSuites", []string{})
	v.SetDefault("server.tls.clientAuthPolicy", "require")

	v.SetDefault("server.apiKeys", []string{})

	v.SetDefault("server.rateLimit.enabled", false)
	v.SetDefault("server.rateLimit.requestsPerMin", 60)
	v.SetDefault("server.rateLimit.burstCapacity", 10)
	v.SetDefault("server.rateLimit.byIP", true)
	v.SetDefault("server.rateLimit.byAPIKey", false)
	v.SetDefault("server.rateLimit.window", time.Minute)

	// App Configuration
	v.SetDefault("app.logLevel", "info")
	v.SetDefault("app.defaultFormat", "json")
	v.SetDefault("app.supportedFormats", []string{"json", "yaml", "text", "markdown"})
	v.SetDefault("app.maxFileSize", 10*1024*1024) // 10MB
	v.SetDefault("app.allowedExtensions", []string{".pdf", ".docx", ".txt"})

	// Report Configuration
	v.SetDefault("report.pageSize", "A4")
	v.SetDefault("report.orientation", "P")
	v.SetDefault("report.margins.top", 20.0)
	v.SetDefault("report.margins.right", 15.0)
	v.SetDefault("report.margins.bottom", 20.0)
	v.SetDefault("report.margins.left", 15.0)
	v.SetDefault("report.brand", "Sentivox")
	v.SetDefault("report.author", "")
	v.SetDefault("report.maxRecommendations", 5)
	v.SetDefault("report.recommendationMaxChars", 160)
	v.SetDefault("report.maxFlowIssues", 3)
	v.SetDefault("report.summaryPoints", 3)
	v.SetDefault("report.maxExchanges", 5)
	v.SetDefault("report.answerMaxChars", 400)
	v.SetDefault("report.concurrency", 4)

	// Watch Configuration
	v.SetDefault("watch.debounce", 500*time.Millisecond)
	v.SetDefault("watch.outputDir", "reports")
	v.SetDefault("watch.format", "pdf")
	v.SetDefault("watch.extensions", []string{".json", ".yaml", ".yml"})

	// Vault Configuration
	v.SetDefault("vault.enabled", false)
	v.SetDefault("vault.address", "")
	v.SetDefault("vault.token", "")
	v.SetDefault("vault.tokenFile", "")
	v.SetDefault("vault.namespace", "")
	v.SetDefault("vault.secrets.apiKeys", "")
	v.SetDefault("vault.secrets.geminiKey", "")
	v.SetDefault("vault.secrets.tlsCerts", "")

	// Observability Configuration
	v.SetDefault("observability.enabled", true)
	v.SetDefault("observability.serviceName", "sentivox")
	v.SetDefault("observability.serviceVersion", "")  // Will use app version if empty
	v.SetDefault("observability.serviceInstance", "") // Will be auto-generated if empty
	v.SetDefault("observability.consoleOutput", false)
	v.SetDefault("observability.sampleRate", 1.0)

	v.SetDefault("observability.tracing.enabled", true)
	v.SetDefault("observability.tracing.sampleRate", 1.0)

	v.SetDefault("observability.metrics.enabled", true)
	v.SetDefault("observability.metrics.collectionInterval", 15*time.Second)

	v.SetDefault("observability.customMetrics.aiOperations.enabled", true)
	v.SetDefault("observability.customMetrics.aiOperations.trackDuration", true)
	v.SetDefault("observability.customMetrics.aiOperations.trackTokenUsage", true)
	v.SetDefault("observability.customMetrics.aiOperations.trackModelInfo", true)
	v.SetDefault("observability.customMetrics.businessMetrics.enabled", true)
	v.SetDefault("observability.customMetrics.businessMetrics.trackSuccessRates", true)
	v.SetDefault("observability.customMetrics.businessMetrics.trackContentSizes", true)
	v.SetDefault("observability.customMetrics.infrastructure.enabled", true)
	v.SetDefault("observability.customMetrics.infrastructure.trackRateLimits", true)

	v.SetDefault("observability.console.enabled", false)
	v.SetDefault("observability.console.prettyPrint", true)

	v.SetDefault("observability.prometheus.enabled", true)
	v.SetDefault("observability.prometheus.endpoint", "/metrics")
	v.SetDefault("observability.prometheus.port", "9090")

	v.SetDefault("observability.otlp.enabled", false)
	v.SetDefault("observability.otlp.endpoint", "http://localhost:4318")
	v.SetDefault("observability.otlp.insecure", true)
	v.SetDefault("observability.otlp.headers", map[string]string{})

	v.SetDefault("observability.healthCheck.timeout", 15*time.Second)
	v.SetDefault("observability.healthCheck.aiModelCheckTimeout", 10*time.Second)
}

// Defaults returns a Config populated only from built-in defaults. Commands
// that run without a config file and tests start from it.
func Defaults() *Config {
	v := viper.New()
	setDefaults(v)
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		panic(err)
	}
	c.applyFallbacks()
	return &c
}
