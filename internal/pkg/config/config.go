package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Store drivers accepted in STORE_DRIVER.
const (
	DriverMongo    = "mongo"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	Port        string        `env:"PORT,          default=8080"`
	Env         string        `env:"ENV,           default=development"`
	LogLevel    string        `env:"LOG_LEVEL,     default=info"`
	JWTSecret   string        `env:"JWT_SECRET"`
	TokenTTL    time.Duration `env:"TOKEN_TTL,     default=24h"`
	MaxBodySize string        `env:"MAX_BODY_SIZE, default=16M"`
	UploadDir   string        `env:"UPLOAD_DIR,    default=uploads"`

	Store StoreConfig
	Mongo MongoConfig
	Redis RedisConfig
	Mail  MailConfig
	AI    AIConfig
}

type StoreConfig struct {
	Driver string `env:"STORE_DRIVER, default=mongo"`
	// DSN is used by the sqlite and postgres drivers.
	DSN string `env:"SQL_DSN, default=smarttask.db"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=smarttask"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

type MailConfig struct {
	Server   string `env:"MAIL_SERVER,         default=smtp.gmail.com"`
	Port     int    `env:"MAIL_PORT,           default=465"`
	UseSSL   bool   `env:"MAIL_USE_SSL,        default=true"`
	Username string `env:"MAIL_USERNAME"`
	Password string `env:"MAIL_PASSWORD"`
	Sender   string `env:"MAIL_DEFAULT_SENDER, default=noreply@smarttask.com"`
}

type AIConfig struct {
	APIKey             string `env:"OPENAI_API_KEY"`
	BaseURL            string `env:"OPENAI_BASE_URL"`
	Model              string `env:"OPENAI_MODEL,               default=gpt-4o"`
	TranscriptionModel string `env:"OPENAI_TRANSCRIPTION_MODEL, default=whisper-1"`
}

// Load reads configuration from the process environment.
func Load(ctx context.Context) (*Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith reads configuration through the given lookuper and validates it.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// IsDevelopment reports whether ENV selects development behaviour (pretty logs).
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c *Config) validate() error {
	if c.JWTSecret == "" {
		return errors.New("config: JWT_SECRET is required")
	}
	switch c.Store.Driver {
	case DriverMongo, DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("config: unsupported STORE_DRIVER %q", c.Store.Driver)
	}
	if c.TokenTTL <= 0 {
		return errors.New("config: TOKEN_TTL must be positive")
	}
	return nil
}
