package config

import "fmt"

// CLIFlags holds command-line overrides. Nil fields were not given on the
// command line and leave the loaded value untouched.
type CLIFlags struct {
	ConfigFile *string
	EnvFile    *string
	Host       *string
	Port       *string
	LogLevel   *string
	Model      *string
	NatsURL    *string
}

// LoadWithCLI loads configuration and applies flags last, so the full
// precedence is defaults < YAML < .env < ENV < CLI.
func LoadWithCLI(flags CLIFlags) (*Config, error) {
	yamlPath, envPath := DefaultConfigFile, DefaultEnvFile
	if flags.ConfigFile != nil {
		yamlPath = *flags.ConfigFile
	}
	if flags.EnvFile != nil {
		envPath = *flags.EnvFile
	}

	cfg, err := LoadFrom(yamlPath, envPath)
	if err != nil {
		return nil, err
	}

	applyCLI(cfg, flags)
	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config validate: %w", err)
	}
	return cfg, nil
}

func applyCLI(cfg *Config, flags CLIFlags) {
	setFromFlag(&cfg.Server.Host, flags.Host)
	setFromFlag(&cfg.Server.Port, flags.Port)
	setFromFlag(&cfg.Logging.Level, flags.LogLevel)
	setFromFlag(&cfg.LLM.Model, flags.Model)
	setFromFlag(&cfg.NATS.URL, flags.NatsURL)
}

func setFromFlag(dst, v *string) {
	if v != nil {
		*dst = *v
	}
}
