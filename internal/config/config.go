package config

import "time"

// Config holds server configuration values.
type Config struct {
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	LogLevel          string        `mapstructure:"log_level" yaml:"log_level"`

	// AllowedOrigins restricts websocket handshake origins. Empty means
	// any origin is accepted.
	AllowedOrigins []string `mapstructure:"allowed_origins" yaml:"allowed_origins"`

	// NotifyUnavailable surfaces a target-unavailable event to senders
	// whose signaling target has no live connection. Off by default to
	// match the behavior deployed clients expect.
	NotifyUnavailable bool `mapstructure:"notify_unavailable" yaml:"notify_unavailable"`

	// JWTSecret enables handshake token validation when non-empty.
	JWTSecret   string `mapstructure:"jwt_secret" yaml:"jwt_secret"`
	JWTIssuer   string `mapstructure:"jwt_issuer" yaml:"jwt_issuer"`
	JWTAudience string `mapstructure:"jwt_audience" yaml:"jwt_audience"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Addr:              ":8080",
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		LogLevel:          "info",
	}
}
