package config

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/e-comet/ghcollector/errors"
)

const envPrefix = "GHCOLLECTOR"

// NewViper returns a viper instance with the defaults and the environment
// bindings set. If configFile is empty only defaults and environment are used.
func NewViper(configFile string) *viper.Viper {
	v := viper.New()
	if configFile != "" {
		v.SetConfigFile(configFile)
	}

	v.SetDefault("github.api_base_url", "https://api.github.com")
	v.SetDefault("github.max_concurrent_requests", 10)
	v.SetDefault("github.requests_per_second", 5)
	v.SetDefault("github.burst", 0)
	v.SetDefault("github.top_repositories_limit", 100)
	v.SetDefault("github.request_timeout", "30s")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	// GHCOLLECTOR_GITHUB_MAX_CONCURRENT_REQUESTS.
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// The token also falls back to the usual GitHub variable.
	_ = v.BindEnv("github.access_token", envPrefix+"_GITHUB_ACCESS_TOKEN", "GITHUB_TOKEN")

	return v
}

// Load reads the configuration file (if any), applies the environment and
// validates the result.
func Load(v *viper.Viper) (*Config, error) {
	if v.ConfigFileUsed() != "" {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate validates the configuration ranges.
func (c *Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", errors.ErrInvalidConfig, formatValidationErrors(err))
	}

	return nil
}

// formatValidationErrors converts validator.ValidationErrors to user friendly messages.
func formatValidationErrors(err error) error {
	var validationErrors validator.ValidationErrors
	if !stderrors.As(err, &validationErrors) {
		return err
	}

	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		messages = append(messages, formatSingleValidationError(e))
	}

	return stderrors.New(strings.Join(messages, "; "))
}

func formatSingleValidationError(e validator.FieldError) string {
	field := e.Namespace()

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, e.Param())
	case "gte", "gt":
		return fmt.Sprintf("%s must be %s %s", field, comparison(e.Tag()), e.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", field, e.Param())
	default:
		return fmt.Sprintf("%s failed validation: %s", field, e.Tag())
	}
}

func comparison(tag string) string {
	if tag == "gt" {
		return "greater than"
	}
	return "at least"
}
