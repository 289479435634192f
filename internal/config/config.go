// Package config defines the application configuration and its loading
// rules. Values come from environment variables (FAMSYNC_ prefix) with an
// optional config file for local development.
package config

// Config is the root configuration object.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Log      LogConfig      `mapstructure:"log"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Port is the TCP port the server listens on.
	Port int `mapstructure:"port" validate:"required,gt=0,lte=65535"`

	// ReadTimeoutSeconds bounds how long reading a request may take.
	ReadTimeoutSeconds int `mapstructure:"read_timeout_seconds" validate:"gte=1"`

	// WriteTimeoutSeconds bounds how long writing a response may take.
	WriteTimeoutSeconds int `mapstructure:"write_timeout_seconds" validate:"gte=1"`

	// ShutdownTimeoutSeconds bounds graceful shutdown.
	ShutdownTimeoutSeconds int `mapstructure:"shutdown_timeout_seconds" validate:"gte=1"`

	// CookieSecure controls the Secure attribute on the refresh cookie.
	// Disabled only for local development over plain HTTP.
	CookieSecure bool `mapstructure:"cookie_secure"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	// URL is the PostgreSQL connection string.
	URL string `mapstructure:"url" validate:"required"`

	// MaxOpenConns caps the connection pool size.
	MaxOpenConns int `mapstructure:"max_open_conns" validate:"gte=1"`

	// MaxIdleConns caps idle connections kept in the pool.
	MaxIdleConns int `mapstructure:"max_idle_conns" validate:"gte=0"`
}

// AuthConfig holds authentication settings.
type AuthConfig struct {
	// JWTSecret signs access tokens. Minimum length enforced because a
	// short HMAC key undermines the whole scheme.
	JWTSecret string `mapstructure:"jwt_secret" validate:"required,min=32"`

	// AccessTokenLifetimeMinutes is the access token validity window.
	AccessTokenLifetimeMinutes int `mapstructure:"access_token_lifetime_minutes" validate:"required,gt=0"`

	// RefreshTokenLifetimeDays is the refresh token validity window.
	RefreshTokenLifetimeDays int `mapstructure:"refresh_token_lifetime_days" validate:"required,gt=0"`

	// BcryptCost is the bcrypt work factor for password hashing.
	BcryptCost int `mapstructure:"bcrypt_cost" validate:"gte=4,lte=31"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Level is the minimum log level: debug, info, warn, or error.
	Level string `mapstructure:"level" validate:"omitempty,oneof=debug info warn error"`
}
