package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// DevSecret is the token signing secret used when none is configured.
// Production refuses to start with it.
const DevSecret = "dev_secret"

// Storage drivers understood by the app.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

// Config holds all configuration for the application
type Config struct {
	// Environment name: development, test or production
	Env string `env:"APP_ENV" envDefault:"development"`

	Server      ServerConfig
	Storage     StorageConfig
	Database    DatabaseConfig
	Mongo       MongoConfig
	Auth        AuthConfig
	GoogleOAuth GoogleOAuthConfig
	CORS        CORSConfig
	Telemetry   TelemetryConfig
	Log         LogConfig
	Swagger     SwaggerConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port              string        `env:"PORT" envDefault:"3000"`
	ReadHeaderTimeout time.Duration `env:"SERVER_READ_HEADER_TIMEOUT" envDefault:"5s"`
	ReadTimeout       time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout      time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"10s"`
	IdleTimeout       time.Duration `env:"SERVER_IDLE_TIMEOUT" envDefault:"120s"`
	ShutdownTimeout   time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"5s"`
}

// StorageConfig selects the persistence backend
type StorageConfig struct {
	Driver string `env:"STORAGE_DRIVER" envDefault:"memory"`
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	Host         string        `env:"DB_HOST" envDefault:"localhost"`
	Port         string        `env:"DB_PORT" envDefault:"5432"`
	User         string        `env:"DB_USER" envDefault:"postgres"`
	Password     string        `env:"DB_PASSWORD"`
	Name         string        `env:"DB_NAME" envDefault:"todoapp"`
	SSLMode      string        `env:"DB_SSLMODE" envDefault:"disable"`
	MaxConns     int32         `env:"DB_MAX_CONNS" envDefault:"5"`
	MinConns     int32         `env:"DB_MIN_CONNS" envDefault:"0"`
	MaxLifetime  time.Duration `env:"DB_MAX_LIFETIME" envDefault:"1h"`
	ConnTimeout  time.Duration `env:"DB_CONN_TIMEOUT" envDefault:"10s"`
	QueryTimeout time.Duration `env:"DB_QUERY_TIMEOUT" envDefault:"30s"`
}

// MongoConfig holds MongoDB configuration
type MongoConfig struct {
	URI      string `env:"MONGODB_URL" envDefault:"mongodb://localhost:27017"`
	Database string `env:"MONGODB_DATABASE" envDefault:"TodoApp"`
}

// AuthConfig holds token and password hashing configuration
type AuthConfig struct {
	Secret     string `env:"SECRET" envDefault:"dev_secret"`
	BcryptCost int    `env:"BCRYPT_COST" envDefault:"10"`
	Header     string `env:"AUTH_HEADER" envDefault:"x-auth"`
}

// GoogleOAuthConfig holds Google sign-in configuration
type GoogleOAuthConfig struct {
	ClientID     string `env:"GOOGLE_CLIENT_ID"`
	ClientSecret string `env:"GOOGLE_CLIENT_SECRET"`
	RedirectURL  string `env:"GOOGLE_REDIRECT_URL" envDefault:"http://localhost:3000/users/google/callback"`
}

// CORSConfig holds CORS configuration. Credentials require explicit origins.
type CORSConfig struct {
	AllowedOrigins   []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	AllowedMethods   []string `env:"CORS_ALLOWED_METHODS" envSeparator:"," envDefault:"GET,POST,PATCH,DELETE,OPTIONS"`
	AllowedHeaders   []string `env:"CORS_ALLOWED_HEADERS" envSeparator:"," envDefault:"*"`
	AllowCredentials bool     `env:"CORS_ALLOW_CREDENTIALS" envDefault:"false"`
}

// TelemetryConfig holds OTLP tracing configuration. Tracing is off when
// Endpoint is empty.
type TelemetryConfig struct {
	Endpoint    string `env:"OTEL_ENDPOINT"`
	ServiceName string `env:"OTEL_SERVICE_NAME" envDefault:"todoapp-backend"`
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

// SwaggerConfig toggles the /swagger/ UI
type SwaggerConfig struct {
	Enabled bool `env:"SWAGGER_ENABLED" envDefault:"true"`
}

// Load loads configuration from the optional .env file and the environment.
// A missing .env file is not an error.
func Load() (*Config, error) {
	if err := godotenv.Load("../.env"); err != nil {
		// Try loading from current directory if not found in parent
		_ = godotenv.Load(".env")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Auth.Secret) == "" {
		return errors.New("SECRET is required")
	}
	if c.IsProduction() && c.Auth.Secret == DevSecret {
		return errors.New("SECRET must be set in production")
	}

	switch c.Storage.Driver {
	case DriverMemory, DriverMongo:
	case DriverPostgres:
		if c.Database.Password == "" {
			return errors.New("DB_PASSWORD is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.Storage.Driver)
	}

	if c.Auth.Header == "" {
		return errors.New("AUTH_HEADER must not be empty")
	}

	if c.CORS.AllowCredentials && slices.Contains(c.CORS.AllowedOrigins, "*") {
		return errors.New("CORS_ALLOW_CREDENTIALS requires explicit CORS_ALLOWED_ORIGINS")
	}

	return nil
}

// Warnings lists non-fatal configuration gaps worth logging at startup.
func (c *Config) Warnings() []string {
	var out []string
	if c.Auth.Secret == DevSecret {
		out = append(out, "using the development token secret; set SECRET")
	}
	if !c.IsGoogleOAuthConfigured() {
		out = append(out, "Google OAuth credentials not configured, Google sign-in disabled")
	}
	if c.Storage.Driver == DriverMemory {
		out = append(out, "in-memory storage selected, data is lost on restart")
	}
	return out
}

// IsProduction reports whether APP_ENV is production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// GetDSN returns the database connection string
func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&connect_timeout=%d",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
		int(c.Database.ConnTimeout.Seconds()),
	)
}

// IsGoogleOAuthConfigured checks if Google OAuth is properly configured
func (c *Config) IsGoogleOAuthConfigured() bool {
	return c.GoogleOAuth.ClientID != "" && c.GoogleOAuth.ClientSecret != ""
}
