// Package config provides hierarchical configuration loading for DocuCrew.
// Precedence: defaults < YAML file < .env file < environment variables.
package config

import "time"

// Config holds all runtime configuration for DocuCrew.
type Config struct {
	Server  Server  `yaml:"server"`
	GitHub  GitHub  `yaml:"github"`
	LLM     LLM     `yaml:"llm"`
	Logging Logging `yaml:"logging"`
	Breaker Breaker `yaml:"breaker"`
	Cache   Cache   `yaml:"cache"`
	NATS    NATS    `yaml:"nats"`
	OTEL    OTEL    `yaml:"otel"`
	MCP     MCP     `yaml:"mcp"`
}

// Server holds HTTP server configuration.
type Server struct {
	Host           string        `yaml:"host"`
	Port           string        `yaml:"port"`
	CORSOrigin     string        `yaml:"cors_origin"`
	RequestTimeout time.Duration `yaml:"request_timeout"` // applies to /api/analyze and /api/samples; generation is unbounded
}

// Addr returns the listen address.
func (s Server) Addr() string {
	return s.Host + ":" + s.Port
}

// GitHub holds repository host configuration.
type GitHub struct {
	APIURL  string        `yaml:"api_url"`
	Token   string        `yaml:"token"` // fallback when a request carries none
	Timeout time.Duration `yaml:"timeout"`
}

// LLM holds completion proxy and model configuration.
type LLM struct {
	URL         string        `yaml:"url"`
	APIKey      string        `yaml:"api_key"`
	Model       string        `yaml:"model"`
	Temperature float64       `yaml:"temperature"`
	MaxTokens   int           `yaml:"max_tokens"` // 0 leaves the proxy default
	Timeout     time.Duration `yaml:"timeout"`
}

// Logging holds structured logging configuration.
type Logging struct {
	Level   string `yaml:"level"`
	Service string `yaml:"service"`
	Async   bool   `yaml:"async"`
}

// Breaker holds circuit breaker configuration for the completion proxy.
type Breaker struct {
	MaxFailures int           `yaml:"max_failures"`
	Timeout     time.Duration `yaml:"timeout"`
}

// Cache holds snapshot cache configuration. A zero size or TTL disables it.
type Cache struct {
	L1MaxSizeMB int           `yaml:"l1_max_size_mb"`
	SnapshotTTL time.Duration `yaml:"snapshot_ttl"`
}

// Enabled reports whether snapshot caching is configured.
func (c Cache) Enabled() bool {
	return c.L1MaxSizeMB > 0 && c.SnapshotTTL > 0
}

// NATS holds progress event publishing configuration. An empty URL disables it.
type NATS struct {
	URL     string `yaml:"url"`
	Subject string `yaml:"subject"`
}

// OTEL holds OpenTelemetry exporter configuration.
type OTEL struct {
	Enabled     bool    `yaml:"enabled"`
	Endpoint    string  `yaml:"endpoint"`
	ServiceName string  `yaml:"service_name"`
	Insecure    bool    `yaml:"insecure"`
	SampleRate  float64 `yaml:"sample_rate"`
}

// MCP holds the tool server configuration.
type MCP struct {
	Enabled bool   `yaml:"enabled"`
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

// Defaults returns a Config with sensible defaults for local development.
func Defaults() Config {
	return Config{
		Server: Server{
			Host:           "0.0.0.0",
			Port:           "8000",
			CORSOrigin:     "http://localhost:3000",
			RequestTimeout: 30 * time.Second,
		},
		GitHub: GitHub{
			APIURL:  "https://api.github.com",
			Timeout: 30 * time.Second,
		},
		LLM: LLM{
			URL:         "http://localhost:4000",
			Model:       "gpt-4",
			Temperature: 0.7,
			Timeout:     180 * time.Second,
		},
		Logging: Logging{
			Level:   "info",
			Service: "docucrew",
		},
		Breaker: Breaker{
			MaxFailures: 5,
			Timeout:     30 * time.Second,
		},
		Cache: Cache{
			L1MaxSizeMB: 64,
			SnapshotTTL: 10 * time.Minute,
		},
		NATS: NATS{
			Subject: "docucrew.progress",
		},
		OTEL: OTEL{
			Endpoint:    "localhost:4317",
			ServiceName: "docucrew",
			Insecure:    true,
			SampleRate:  1.0,
		},
		MCP: MCP{
			Enabled: true,
			Name:    "docucrew",
			Version: "0.1.0",
		},
	}
}
