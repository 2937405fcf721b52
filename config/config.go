package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

type Config struct {
	DatabaseURL string `envconfig:"DATABASE_URL"`
	Storage     string `envconfig:"STORAGE"      default:"postgres"`
	Migrate     bool   `envconfig:"MIGRATE"      default:"true"`

	HTTPPort string `envconfig:"HTTP_PORT" default:":8080"`
	GrpcPort string `envconfig:"GRPC_PORT" default:":50051"` // health + reflection

	LogLevel  string `envconfig:"LOG_LEVEL"  default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`

	JWTSecret string        `envconfig:"JWT_SECRET" default:"default_secret_change_me"`
	JWTTTL    time.Duration `envconfig:"JWT_TTL"    default:"24h"`

	SessionCookie string        `envconfig:"SESSION_COOKIE" default:"pizzahunt_session"`
	SessionTTL    time.Duration `envconfig:"SESSION_TTL"    default:"336h"`
	CookieSecure  bool          `envconfig:"COOKIE_SECURE"  default:"false"`

	AdminAPIKey string   `envconfig:"ADMIN_API_KEY"`
	CORSOrigins []string `envconfig:"CORS_ORIGINS" default:"*"`
}

var (
	config Config
	once   sync.Once
)

// LoadConfig reads an optional .env file and then the process environment.
// It runs once per process; later calls return the same value.
func LoadConfig(logger *logrus.Logger) *Config {
	once.Do(func() {
		err := godotenv.Load()
		if err != nil && !os.IsNotExist(err) {
			logger.Warnf("Error loading .env file (but continuing): %v", err)
		} else if err == nil {
			logger.Info("Loaded configuration from .env file")
		}

		cfg, err := Process()
		if err != nil {
			logger.Fatalf("Failed to process configuration from environment variables: %v", err)
		}
		config = *cfg

		logger.Infof("Configuration loaded: Storage=%s, HTTP Port=%s, GRPC Port=%s, LogLevel=%s",
			config.Storage, config.HTTPPort, config.GrpcPort, config.LogLevel)
		if config.AdminAPIKey == "" {
			logger.Warn("Configuration: ADMIN_API_KEY is not set, admin endpoints are disabled")
		}
	})
	return &config
}

// Process builds a Config from the environment without touching .env files.
func Process() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	cfg.Storage = strings.ToLower(strings.TrimSpace(cfg.Storage))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Storage {
	case StoragePostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required when STORAGE=postgres")
		}
	case StorageMemory:
	default:
		return fmt.Errorf("unknown STORAGE %q (want %s or %s)", c.Storage, StoragePostgres, StorageMemory)
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET cannot be empty")
	}
	if c.SessionCookie == "" {
		return errors.New("SESSION_COOKIE cannot be empty")
	}
	return nil
}
