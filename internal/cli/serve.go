package cli

import (
	"fmt"

	"github.com/abhilashtyagiii/sentivoxfullcode-sub001/internal/config"
	"github.com/abhilashtyagiii/sentivoxfullcode-sub001/internal/server"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// serveFlags maps config keys to the flags that override them
var serveFlags = []struct {
	key, flag string
}{
	{"server.port", "port"},
	{"server.host", "host"},
	{"server.tls.mode", "tls-mode"},
	{"server.tls.certFile", "cert-file"},
	{"server.tls.keyFile", "key-file"},
	{"server.tls.caFile", "ca-file"},
	{"server.apiKeys", "api-key"},
	{"server.rateLimit.enabled", "rate-limit"},
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Start an HTTP server exposing report rendering, extraction and AI analysis.

Available endpoints:
- POST /report: Render an analysis as PDF (?format=xlsx for a scorecard)
- POST /recommendations: Recommendation list and summary cards
- POST /extract: Extract text from an uploaded PDF, DOCX or TXT file
- POST /analyze: AI analysis of an uploaded transcript
- GET /health: Health check endpoint
- GET /stats: Server statistics and rate limiting info

TLS Configuration:
- Use --tls-mode to set TLS mode: disabled, server, mutual
- Use --cert-file and --key-file for TLS certificates
- Use --ca-file for mutual TLS client certificate verification`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	flags := cmd.Flags()
	flags.StringP("port", "p", "", "Port to listen on (default from config)")
	flags.String("host", "", "Host to bind to (default from config)")
	flags.String("tls-mode", "", "TLS mode: disabled, server, mutual (overrides config)")
	flags.String("cert-file", "", "Server certificate file (PEM, overrides config)")
	flags.String("key-file", "", "Server private key file (PEM, overrides config)")
	flags.String("ca-file", "", "CA certificate file for client cert verification (PEM, overrides config)")
	flags.StringSlice("api-key", nil, "API key accepted by protected endpoints (repeatable, overrides config)")
	flags.Bool("rate-limit", false, "Enable per-client rate limiting (overrides config)")
	return cmd
}

// applyServeFlags copies explicitly set flags over the loaded configuration
func applyServeFlags(cfg *config.Config, flags *pflag.FlagSet) error {
	v := viper.New()
	for _, f := range serveFlags {
		if err := v.BindPFlag(f.key, flags.Lookup(f.flag)); err != nil {
			return err
		}
	}

	if v.IsSet("server.port") {
		cfg.Server.Port = v.GetString("server.port")
	}
	if v.IsSet("server.host") {
		cfg.Server.Host = v.GetString("server.host")
	}
	if v.IsSet("server.tls.mode") {
		cfg.Server.TLS.Mode = v.GetString("server.tls.mode")
	}
	if v.IsSet("server.tls.certFile") {
		cfg.Server.TLS.CertFile = v.GetString("server.tls.certFile")
	}
	if v.IsSet("server.tls.keyFile") {
		cfg.Server.TLS.KeyFile = v.GetString("server.tls.keyFile")
	}
	if v.IsSet("server.tls.caFile") {
		cfg.Server.TLS.CAFile = v.GetString("server.tls.caFile")
	}
	if v.IsSet("server.apiKeys") {
		cfg.Server.APIKeys = v.GetStringSlice("server.apiKeys")
	}
	if v.IsSet("server.rateLimit.enabled") {
		cfg.Server.RateLimit.Enabled = v.GetBool("server.rateLimit.enabled")
	}
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, logger, err := dependencies(cmd)
	if err != nil {
		return err
	}

	if err := applyServeFlags(cfg, cmd.Flags()); err != nil {
		return err
	}
	if err := cfg.ValidateTLSConfig(); err != nil {
		return fmt.Errorf("invalid TLS configuration: %w", err)
	}

	return server.NewServer(cfg, server.ServerConfigFrom(cfg, Version), logger).Start(cmd.Context())
}
