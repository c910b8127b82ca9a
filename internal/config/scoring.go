package config

import (
	"strings"
	"time"
)

// ScoringPath is the scoring API route for description-based content evaluation
const ScoringPath = "/content-via-description"

// ScoringConfig holds the remote scoring API settings
type ScoringConfig struct {
	BaseURL   string `yaml:"baseUrl" json:"baseUrl"`
	Token     string `yaml:"token" json:"-"` // Never serialize
	TimeoutMS int    `yaml:"timeoutMs" json:"timeoutMs"`

	// InsecureSkipVerify disables TLS certificate checks. Opt-in only.
	InsecureSkipVerify bool `yaml:"insecureSkipVerify" json:"insecureSkipVerify"`
}

// DefaultScoringConfig returns the default scoring configuration.
// URL and token must come from the environment or the config file.
func DefaultScoringConfig() *ScoringConfig {
	return &ScoringConfig{
		TimeoutMS: 30000,
	}
}

// IsEnabled returns true if both the API URL and token are configured
func (c *ScoringConfig) IsEnabled() bool {
	return c.BaseURL != "" && c.Token != ""
}

// Timeout returns the request timeout
func (c *ScoringConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMS) * time.Millisecond
}

// Endpoint returns the full scoring endpoint for a base URL
func Endpoint(baseURL string) string {
	return strings.TrimRight(baseURL, "/") + ScoringPath
}
