package server

import "time"

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the API.
	ApiKey string `mapstructure:"api_key" default:""`
	// ConfigCacheTTLSeconds is how long a product's configuration view is
	// served from cache before being rebuilt. Zero disables caching.
	ConfigCacheTTLSeconds int `mapstructure:"config_cache_ttl_seconds" default:"60"`
}

// ConfigCacheTTL returns the configuration cache TTL as a duration,
// clamping negative values to zero (disabled).
func (c Config) ConfigCacheTTL() time.Duration {
	if c.ConfigCacheTTLSeconds <= 0 {
		return 0
	}
	return time.Duration(c.ConfigCacheTTLSeconds) * time.Second
}
