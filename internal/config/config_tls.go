package config

import "fmt"

// ValidateTLSConfig validates the TLS configuration
func (c *Config) ValidateTLSConfig() error {
	tls := c.Server.TLS

	switch tls.Mode {
	case "", "disabled":
		return nil
	case "server":
		if err := requirePEM(tls.CertFile, tls.CertContent, "certificate", "server mode"); err != nil {
			return err
		}
		if err := requirePEM(tls.KeyFile, tls.KeyContent, "key", "server mode"); err != nil {
			return err
		}
	case "mutual":
		if err := requirePEM(tls.CertFile, tls.CertContent, "certificate", "mutual mode"); err != nil {
			return err
		}
		if err := requirePEM(tls.KeyFile, tls.KeyContent, "key", "mutual mode"); err != nil {
			return err
		}
		if err := requirePEM(tls.CAFile, tls.CAContent, "CA certificate", "mutual mode"); err != nil {
			return err
		}
		if err := validateClientAuthPolicy(tls.ClientAuthPolicy); err != nil {
			return err
		}
	default:
		return fmt.Errorf("invalid TLS mode: %s (must be 'disabled', 'server', or 'mutual')", tls.Mode)
	}

	return validateTLSVersion(tls.MinVersion)
}

// requirePEM checks that exactly one source, file or inline content, is set
func requirePEM(file, content, what, mode string) error {
	switch {
	case file == "" && content == "":
		return fmt.Errorf("TLS %s is required for %s (provide either a file or content)", what, mode)
	case file != "" && content != "":
		return fmt.Errorf("cannot specify both file and content for the TLS %s - choose one", what)
	}
	return nil
}

func validateClientAuthPolicy(policy string) error {
	switch policy {
	case "require", "request", "verify", "":
		return nil
	default:
		return fmt.Errorf("invalid clientAuthPolicy: %s (must be 'require', 'request', or 'verify')", policy)
	}
}

func validateTLSVersion(version string) error {
	switch version {
	case "", "1.2", "1.3":
		return nil
	default:
		return fmt.Errorf("invalid TLS minVersion: %s (must be '1.2' or '1.3')", version)
	}
}
