package config

import "fmt"

// HTTPConfig configures the session API server.
type HTTPConfig struct {
	Address string `json:"address"`
	// MetricsPath exposes Prometheus metrics; empty disables the endpoint.
	MetricsPath string `json:"metrics_path"`
	// SessionsPerMinute limits session creation per client IP; 0 disables it.
	SessionsPerMinute int `json:"sessions_per_minute"`
	SessionBurst      int `json:"session_burst"`
	// ShutdownTimeoutSeconds bounds graceful shutdown.
	ShutdownTimeoutSeconds int `json:"shutdown_timeout_seconds"`
}

// SetDefaults applies sane defaults.
func (c *HTTPConfig) SetDefaults() {
	if c.Address == "" {
		c.Address = ":8080"
	}
	if c.SessionsPerMinute > 0 && c.SessionBurst <= 0 {
		c.SessionBurst = c.SessionsPerMinute
	}
	if c.ShutdownTimeoutSeconds <= 0 {
		c.ShutdownTimeoutSeconds = 5
	}
}

// Validate checks mandatory fields.
func (c HTTPConfig) Validate() error {
	if c.SessionsPerMinute < 0 {
		return fmt.Errorf("sessions_per_minute must not be negative")
	}
	if c.MetricsPath != "" && c.MetricsPath[0] != '/' {
		return fmt.Errorf("metrics_path must start with /")
	}
	return nil
}
