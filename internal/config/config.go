// Package config provides the configuration loading of ghcollector.
package config

import "time"

// Config is the whole ghcollector configuration.
type Config struct {
	GitHub GitHubConfig `mapstructure:"github"`
	Log    LogConfig    `mapstructure:"log"`
}

// GitHubConfig configures the GitHub API access and how hard it is used.
type GitHubConfig struct {
	// AccessToken is the bearer token of every call.
	AccessToken string `mapstructure:"access_token" validate:"required"`
	// APIBaseURL is the root of the REST API.
	APIBaseURL string `mapstructure:"api_base_url" validate:"required,url"`
	// MaxConcurrentRequests bounds the calls in flight at once.
	MaxConcurrentRequests int `mapstructure:"max_concurrent_requests" validate:"gte=1,lte=100"`
	// RequestsPerSecond bounds the sustained call rate.
	RequestsPerSecond float64 `mapstructure:"requests_per_second" validate:"gt=0,lte=100"`
	// Burst is the token bucket capacity, zero means the rate.
	Burst int `mapstructure:"burst" validate:"gte=0"`
	// TopRepositoriesLimit is the max number of repositories per collection.
	TopRepositoriesLimit int `mapstructure:"top_repositories_limit" validate:"gte=1,lte=100"`
	// RequestTimeout bounds a single call once its permit is held.
	RequestTimeout time.Duration `mapstructure:"request_timeout" validate:"gte=1s"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=text json"`
}
