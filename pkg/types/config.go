// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings for components that touch the network.
type HTTPConfig struct {
	// Timeout is the overall per-request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with requests.
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// FetchConfig holds settings for the content fetcher.
type FetchConfig struct {
	HTTPConfig `yaml:",inline"`

	// MaxRedirects caps redirect following (default 5).
	MaxRedirects int `json:"max_redirects" yaml:"max_redirects"`

	// MaxBodyBytes caps how much of a response body is read (default 100000).
	MaxBodyBytes int `json:"max_body_bytes" yaml:"max_body_bytes"`

	// MaxRetries bounds retries on HTTP 429 responses (default 2).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// PerHostRPS limits request rate per host (default 2).
	PerHostRPS float64 `json:"per_host_rps" yaml:"per_host_rps"`
}

// SetDefaults applies default values to unset fields.
func (c *FetchConfig) SetDefaults() {
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}
	if c.UserAgent == "" {
		c.UserAgent = "reference-refinement/0.1"
	}
	if c.MaxRedirects <= 0 {
		c.MaxRedirects = 5
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = 100_000
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = 2
	}
	if c.PerHostRPS <= 0 {
		c.PerHostRPS = 2
	}
}

// AIConfig holds settings for the optional AI-backed content matcher.
type AIConfig struct {
	// Model is the model identifier used for match verification.
	Model string `json:"model" yaml:"model"`

	// APIKey authenticates against the AI API. When empty the matcher
	// stays in baseline mode.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
}

// MatchConfig holds settings for the content matcher.
type MatchConfig struct {
	AIConfig `yaml:",inline"`

	// EnableAI turns on AI-backed verification. The lexical baseline
	// remains the fallback on any error.
	EnableAI bool `json:"enable_ai" yaml:"enable_ai"`

	// ExcerptBytes caps the content excerpt sent to the AI (default 2000).
	ExcerptBytes int `json:"excerpt_bytes" yaml:"excerpt_bytes"`
}

// SetDefaults applies default values to unset fields.
func (c *MatchConfig) SetDefaults() {
	if c.Model == "" {
		c.Model = "claude-3-haiku-20240307"
	}
	if c.ExcerptBytes <= 0 {
		c.ExcerptBytes = 2000
	}
}

// RankConfig holds thresholds and batching for the candidate ranker.
type RankConfig struct {
	// BatchSize is how many candidates are validated concurrently
	// (default 5, to respect third-party rate limits).
	BatchSize int `json:"batch_size" yaml:"batch_size"`

	// NetworkValidation enables the fetch/detect/match pipeline. When
	// false, candidates are scored statically from domain signals only.
	NetworkValidation bool `json:"network_validation" yaml:"network_validation"`

	// PrimaryThreshold is the minimum acceptable primary score (default 75).
	PrimaryThreshold int `json:"primary_threshold" yaml:"primary_threshold"`

	// SecondaryThreshold is the minimum acceptable secondary score (default 70).
	SecondaryThreshold int `json:"secondary_threshold" yaml:"secondary_threshold"`

	// RelaxedSecondaryThreshold admits a login-walled secondary when
	// nothing better exists (default 60).
	RelaxedSecondaryThreshold int `json:"relaxed_secondary_threshold" yaml:"relaxed_secondary_threshold"`

	// AmbiguityThreshold flags review when more than one candidate scores
	// at or above it (default 85).
	AmbiguityThreshold int `json:"ambiguity_threshold" yaml:"ambiguity_threshold"`

	// AutoFinalizeThreshold is the score both selections need for the
	// auto-finalize signal (default 85).
	AutoFinalizeThreshold int `json:"auto_finalize_threshold" yaml:"auto_finalize_threshold"`
}

// SetDefaults applies default values to unset fields.
func (c *RankConfig) SetDefaults() {
	if c.BatchSize <= 0 {
		c.BatchSize = 5
	}
	if c.PrimaryThreshold <= 0 {
		c.PrimaryThreshold = 75
	}
	if c.SecondaryThreshold <= 0 {
		c.SecondaryThreshold = 70
	}
	if c.RelaxedSecondaryThreshold <= 0 {
		c.RelaxedSecondaryThreshold = 60
	}
	if c.AmbiguityThreshold <= 0 {
		c.AmbiguityThreshold = 85
	}
	if c.AutoFinalizeThreshold <= 0 {
		c.AutoFinalizeThreshold = 85
	}
}

// CacheConfig holds settings for the on-disk verdict cache.
type CacheConfig struct {
	// Enabled turns the sqlite verdict cache on.
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Path is the sqlite database file (default "refcheck-cache.db").
	Path string `json:"path" yaml:"path"`
}

// SetDefaults applies default values to unset fields.
func (c *CacheConfig) SetDefaults() {
	if c.Path == "" {
		c.Path = "refcheck-cache.db"
	}
}

// Config is the root configuration for the refcheck CLI.
type Config struct {
	Fetch FetchConfig `json:"fetch" yaml:"fetch"`
	Match MatchConfig `json:"match" yaml:"match"`
	Rank  RankConfig  `json:"rank" yaml:"rank"`
	Cache CacheConfig `json:"cache" yaml:"cache"`

	// LogLevel selects the zap level: debug, info, warn, error.
	LogLevel string `json:"log_level" yaml:"log_level"`
}

// SetDefaults applies defaults across all sections.
func (c *Config) SetDefaults() {
	c.Fetch.SetDefaults()
	c.Match.SetDefaults()
	c.Rank.SetDefaults()
	c.Cache.SetDefaults()
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}
