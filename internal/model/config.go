package model

import "time"

// Config is the complete application configuration
type Config struct {
	HTTP        HTTPConfig        `yaml:"http" json:"http"`
	Cache       CacheConfig       `yaml:"cache" json:"cache"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" json:"concurrency"`
	Policy      PolicyConfig      `yaml:"policy" json:"policy"`
	Selection   SelectionConfig   `yaml:"selection" json:"selection"`
	Output      OutputConfig      `yaml:"output" json:"output"`
	LLM         LLMConfig         `yaml:"llm" json:"llm"`
}

// HTTPConfig controls the URL ingestion path
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout" json:"timeout"`
	UserAgent    string        `yaml:"user_agent" json:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" json:"max_body_bytes"`
	InsecureTLS  bool          `yaml:"insecure_tls" json:"insecure_tls"`
	HTTPProxy    string        `yaml:"http_proxy,omitempty" json:"http_proxy,omitempty"`
	HTTPSProxy   string        `yaml:"https_proxy,omitempty" json:"https_proxy,omitempty"`
	NoProxy      string        `yaml:"no_proxy,omitempty" json:"no_proxy,omitempty"`
	RespectRobots bool         `yaml:"respect_robots" json:"respect_robots"`
}

// CacheConfig controls the parsed ruleset/domain cache
type CacheConfig struct {
	Enabled         bool          `yaml:"enabled" json:"enabled"`
	TTL             time.Duration `yaml:"ttl" json:"ttl"`
	CleanupInterval time.Duration `yaml:"cleanup_interval" json:"cleanup_interval"`
	Dir             string        `yaml:"dir,omitempty" json:"dir,omitempty"` // Disk layer, empty = memory only
}

// ConcurrencyConfig controls batch processing
type ConcurrencyConfig struct {
	Workers           int     `yaml:"workers" json:"workers"`
	RequestsPerSecond float64 `yaml:"requests_per_second" json:"requests_per_second"`
	Burst             int     `yaml:"burst" json:"burst"`
}

// PolicyConfig locates the policy ruleset and domain configuration
type PolicyConfig struct {
	RulesetPath string `yaml:"ruleset_path,omitempty" json:"ruleset_path,omitempty"`
	DomainPath  string `yaml:"domain_path,omitempty" json:"domain_path,omitempty"`
	Domain      string `yaml:"domain,omitempty" json:"domain,omitempty"`
}

// SelectionConfig controls output routing
type SelectionConfig struct {
	Mode SelectionMode `yaml:"mode" json:"mode"`
}

// OutputConfig controls report rendering
type OutputConfig struct {
	Verbose       bool   `yaml:"verbose" json:"verbose"`
	IncludeFooter bool   `yaml:"include_footer" json:"include_footer"`
	Format        string `yaml:"format" json:"format"` // "markdown" or "json"
}

// LLMConfig controls the optional post-IR summary. Disabled unless a
// provider is set; the summary never affects the IR or selection.
type LLMConfig struct {
	Provider  string        `yaml:"provider,omitempty" json:"provider,omitempty"`
	Model     string        `yaml:"model,omitempty" json:"model,omitempty"`
	APIKey    string        `yaml:"-" json:"-"` // Environment only, never persisted
	BaseURL   string        `yaml:"base_url,omitempty" json:"base_url,omitempty"`
	Timeout   time.Duration `yaml:"timeout" json:"timeout"`
	MaxTokens int           `yaml:"max_tokens" json:"max_tokens"`
}

// DefaultConfig returns the standard configuration
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:       30 * time.Second,
			UserAgent:     "Veridian/0.2 (+https://github.com/pvoloshyn/veridian)",
			MaxBodyBytes:  2_000_000,
			RespectRobots: true,
		},
		Cache: CacheConfig{
			Enabled:         true,
			TTL:             15 * time.Minute,
			CleanupInterval: 5 * time.Minute,
		},
		Concurrency: ConcurrencyConfig{
			Workers:           4,
			RequestsPerSecond: 2,
			Burst:             5,
		},
		Selection: SelectionConfig{
			Mode: ModeStrict,
		},
		Output: OutputConfig{
			IncludeFooter: true,
			Format:        "markdown",
		},
		LLM: LLMConfig{
			Timeout:   60 * time.Second,
			MaxTokens: 1024,
		},
	}
}
