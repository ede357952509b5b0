package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config contains server configuration parameters.
type Config struct {
	LogLevel int      `env:"LOG_LEVEL" envDefault:"0"`
	HTTP     HTTP     `envPrefix:"HTTP_"`
	Database Database `envPrefix:"DATABASE_"`
	Redis    Redis    `envPrefix:"REDIS_"`
	JWT      JWT      `envPrefix:"JWT_"`
	Code     Code     `envPrefix:"CODE_"`
	Delivery Delivery `envPrefix:"DELIVERY_"`
}

// HTTP contains HTTP server parameters.
type HTTP struct {
	Port               string        `env:"PORT" envDefault:"8080"`
	EnableHTTPS        bool          `env:"ENABLE_HTTPS" envDefault:"false"`
	CertFileName       string        `env:"CERT_FILE_NAME" envDefault:"cert.pem"`
	PrivateKeyFileName string        `env:"PRIVATE_KEY_FILE_NAME" envDefault:"key.pem"`
	ShutdownTimeout    time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Database contains database connection parameters.
type Database struct {
	DSN string `env:"DSN,required,notEmpty"`
}

// Redis contains cache connection parameters.
type Redis struct {
	URL string `env:"URL,required,notEmpty"`
}

// JWT contains session token parameters.
type JWT struct {
	Secret        string        `env:"SECRET,required,notEmpty"`
	RefreshSecret string        `env:"REFRESH_SECRET"`
	Algorithm     string        `env:"ALGORITHM" envDefault:"HS256"`
	TTL           time.Duration `env:"TTL" envDefault:"720h"`
}

// Code contains one-time login code parameters.
type Code struct {
	Length int           `env:"LENGTH" envDefault:"5"`
	TTL    time.Duration `env:"TTL" envDefault:"600s"`
}

// Delivery contains code delivery worker parameters.
type Delivery struct {
	MaxAttempts uint64        `env:"MAX_ATTEMPTS" envDefault:"3"`
	RetryDelay  time.Duration `env:"RETRY_DELAY" envDefault:"20s"`
	Workers     int           `env:"WORKERS" envDefault:"2"`
	QueueSize   int           `env:"QUEUE_SIZE" envDefault:"100"`
}

// NewConfig loads configuration from environment variables.
func NewConfig() (*Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// Validate checks value ranges env tags cannot express.
func (c *Config) Validate() error {
	var errs []error

	if c.Code.Length < 1 || c.Code.Length > 9 {
		errs = append(errs, fmt.Errorf("CODE_LENGTH must be between 1 and 9, got %d", c.Code.Length))
	}
	if c.Code.TTL < time.Second {
		errs = append(errs, fmt.Errorf("CODE_TTL must be at least 1s, got %s", c.Code.TTL))
	}
	if c.JWT.TTL <= 0 {
		errs = append(errs, fmt.Errorf("JWT_TTL must be positive, got %s", c.JWT.TTL))
	}
	switch c.JWT.Algorithm {
	case "HS256", "HS384", "HS512":
	default:
		errs = append(errs, fmt.Errorf("JWT_ALGORITHM %q is not supported", c.JWT.Algorithm))
	}
	if c.Delivery.MaxAttempts < 1 {
		errs = append(errs, errors.New("DELIVERY_MAX_ATTEMPTS must be at least 1"))
	}
	if c.Delivery.RetryDelay <= 0 {
		errs = append(errs, fmt.Errorf("DELIVERY_RETRY_DELAY must be positive, got %s", c.Delivery.RetryDelay))
	}
	if c.Delivery.Workers < 1 {
		errs = append(errs, errors.New("DELIVERY_WORKERS must be at least 1"))
	}
	if c.Delivery.QueueSize < 0 {
		errs = append(errs, errors.New("DELIVERY_QUEUE_SIZE must not be negative"))
	}

	return errors.Join(errs...)
}
