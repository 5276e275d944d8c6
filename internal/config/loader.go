package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the path checked for YAML configuration.
const DefaultConfigFile = "docucrew.yaml"

// DefaultEnvFile is the dotenv file loaded into the environment.
const DefaultEnvFile = ".env"

// Load returns a Config using the hierarchy: defaults < YAML < .env < ENV.
// Both files are optional; missing files are not an error.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigFile, DefaultEnvFile)
}

// LoadFrom loads configuration from the given YAML and dotenv paths. Values
// from the dotenv file never replace variables already set in the process
// environment. Either path may be empty to skip it.
func LoadFrom(yamlPath, envPath string) (*Config, error) {
	cfg := Defaults()

	if err := loadYAML(&cfg, yamlPath); err != nil {
		return nil, fmt.Errorf("config yaml: %w", err)
	}

	if err := loadDotEnv(envPath); err != nil {
		return nil, fmt.Errorf("config dotenv: %w", err)
	}

	loadEnv(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validate: %w", err)
	}

	return &cfg, nil
}

// loadYAML reads the YAML file and unmarshals it over cfg.
// Returns nil if the file does not exist.
func loadYAML(cfg *Config, path string) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is validated by caller
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	return nil
}

// loadDotEnv exports the dotenv file's variables that are not already set.
func loadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// loadEnv overlays environment variables onto cfg.
// Only non-empty env values override the current config. Where two names
// map to one field, the later name wins.
func loadEnv(cfg *Config) {
	setString(&cfg.Server.Host, "API_HOST")
	setString(&cfg.Server.Port, "API_PORT")
	setString(&cfg.Server.CORSOrigin, "FRONTEND_URL")
	setDuration(&cfg.Server.RequestTimeout, "DOCUCREW_REQUEST_TIMEOUT")

	setString(&cfg.GitHub.APIURL, "GITHUB_API_URL")
	setString(&cfg.GitHub.Token, "GITHUB_TOKEN")
	setDuration(&cfg.GitHub.Timeout, "DOCUCREW_GITHUB_TIMEOUT")

	setString(&cfg.LLM.URL, "LITELLM_URL")
	setString(&cfg.LLM.URL, "DOCUCREW_LLM_URL")
	setString(&cfg.LLM.APIKey, "OPENAI_API_KEY")
	setString(&cfg.LLM.APIKey, "LITELLM_MASTER_KEY")
	setString(&cfg.LLM.Model, "OPENAI_MODEL_NAME")
	setString(&cfg.LLM.Model, "DOCUCREW_LLM_MODEL")
	setFloat64(&cfg.LLM.Temperature, "DOCUCREW_LLM_TEMPERATURE")
	setInt(&cfg.LLM.MaxTokens, "DOCUCREW_LLM_MAX_TOKENS")
	setDuration(&cfg.LLM.Timeout, "DOCUCREW_LLM_TIMEOUT")

	setString(&cfg.Logging.Level, "DOCUCREW_LOG_LEVEL")
	setString(&cfg.Logging.Service, "DOCUCREW_LOG_SERVICE")
	setBool(&cfg.Logging.Async, "DOCUCREW_LOG_ASYNC")

	setInt(&cfg.Breaker.MaxFailures, "DOCUCREW_BREAKER_MAX_FAILURES")
	setDuration(&cfg.Breaker.Timeout, "DOCUCREW_BREAKER_TIMEOUT")

	setInt(&cfg.Cache.L1MaxSizeMB, "DOCUCREW_CACHE_L1_SIZE_MB")
	setDuration(&cfg.Cache.SnapshotTTL, "DOCUCREW_CACHE_SNAPSHOT_TTL")

	setString(&cfg.NATS.URL, "NATS_URL")
	setString(&cfg.NATS.Subject, "DOCUCREW_NATS_SUBJECT")

	setBool(&cfg.OTEL.Enabled, "DOCUCREW_OTEL_ENABLED")
	setString(&cfg.OTEL.Endpoint, "OTEL_EXPORTER_OTLP_ENDPOINT")
	setString(&cfg.OTEL.ServiceName, "OTEL_SERVICE_NAME")
	setBool(&cfg.OTEL.Insecure, "DOCUCREW_OTEL_INSECURE")
	setFloat64(&cfg.OTEL.SampleRate, "DOCUCREW_OTEL_SAMPLE_RATE")

	setBool(&cfg.MCP.Enabled, "DOCUCREW_MCP_ENABLED")
}

// validate checks that required fields are set.
func validate(cfg *Config) error {
	if cfg.Server.Port == "" {
		return errors.New("server.port is required")
	}
	if cfg.LLM.Model == "" {
		return errors.New("llm.model is required")
	}
	if cfg.LLM.Temperature < 0 || cfg.LLM.Temperature > 2 {
		return errors.New("llm.temperature must be within [0, 2]")
	}
	if cfg.Breaker.MaxFailures < 1 {
		return errors.New("breaker.max_failures must be >= 1")
	}
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint == "" {
		return errors.New("otel.endpoint is required when otel is enabled")
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setFloat64(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
