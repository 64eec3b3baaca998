package config

import (
	"fmt"
	"log"
	"net/url"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/aigymos/gym-console/pkg/clock"
)

// Config holds application configuration
type Config struct {
	Server   ServerConfig   `envconfig:"SERVER"`
	Backend  BackendConfig  `envconfig:"BACKEND"`
	Database DatabaseConfig `envconfig:"DB"`
	Redis    RedisConfig    `envconfig:"REDIS"`
	Storage  StorageConfig  `envconfig:"STORAGE"`
	OCR      OCRConfig      `envconfig:"OCR"`
	JWT      JWTConfig      `envconfig:"JWT"`
	Gym      GymConfig      `envconfig:"GYM"`
	Cache    CacheConfig    `envconfig:"CACHE"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string        `split_words:"true" default:"8080"`
	Host            string        `split_words:"true" default:"0.0.0.0"`
	Environment     string        `split_words:"true" default:"development"`
	AllowedOrigins  []string      `split_words:"true" default:"http://localhost:3000"`
	ShutdownTimeout time.Duration `split_words:"true" default:"10s"`
	RequestTimeout  time.Duration `split_words:"true" default:"30s"`
}

// BackendConfig holds the gym REST backend settings
type BackendConfig struct {
	URL            string        `split_words:"true"`
	Timeout        time.Duration `split_words:"true" default:"10s"`
	MaxRetries     uint64        `split_words:"true" default:"3"`
	TaskPageSize   int           `split_words:"true" default:"50"`
	MemberPageSize int           `split_words:"true" default:"100"`
	MaxPages       int           `split_words:"true" default:"200"`
	Concurrency    int           `split_words:"true" default:"4"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Enabled  bool   `split_words:"true" default:"true"`
	Host     string `split_words:"true" default:"localhost"`
	Port     string `split_words:"true" default:"5432"`
	User     string `split_words:"true" default:"postgres"`
	Password string `split_words:"true" default:"postgres"`
	Name     string `split_words:"true" default:"gym_console"`
	SSLMode  string `split_words:"true" default:"disable"`
	MaxConns int    `split_words:"true" default:"25"`
	MinConns int    `split_words:"true" default:"5"`
}

// RedisConfig holds Redis configuration. When disabled an in-process cache
// is used instead.
type RedisConfig struct {
	Enabled  bool   `split_words:"true" default:"false"`
	Host     string `split_words:"true" default:"localhost"`
	Port     string `split_words:"true" default:"6379"`
	Password string `split_words:"true"`
	DB       int    `split_words:"true" default:"0"`
}

// StorageConfig holds storage configuration for archived OCR photos
type StorageConfig struct {
	Enabled         bool          `split_words:"true" default:"false"`
	Endpoint        string        `split_words:"true" default:"localhost:9000"`
	AccessKeyID     string        `split_words:"true" default:"minioadmin"`
	SecretAccessKey string        `split_words:"true" default:"minioadmin"`
	BucketName      string        `split_words:"true" default:"gym-console"`
	UseSSL          bool          `split_words:"true" default:"false"`
	PublicURL       string        `split_words:"true"`
	URLExpiry       time.Duration `split_words:"true" default:"1h"`
}

// OCRConfig holds the external text recognizer settings
type OCRConfig struct {
	URL           string        `split_words:"true"`
	APIKey        string        `split_words:"true"`
	Timeout       time.Duration `split_words:"true" default:"30s"`
	MaxRetries    uint64        `split_words:"true" default:"2"`
	MaxImageBytes int64         `split_words:"true" default:"10485760"`
}

// JWTConfig holds the secret shared with the gym backend
type JWTConfig struct {
	AccessSecret string `split_words:"true"`
	Issuer       string `split_words:"true"`
}

// GymConfig holds gym-local settings
type GymConfig struct {
	Timezone string `split_words:"true" default:"America/Sao_Paulo"`
}

// CacheConfig holds payload cache lifetimes
type CacheConfig struct {
	TaskTTL      time.Duration `split_words:"true" default:"30s"`
	DashboardTTL time.Duration `split_words:"true" default:"60s"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	return FromEnv()
}

// FromEnv reads the process environment only
func FromEnv() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Backend.URL == "" {
		return fmt.Errorf("BACKEND_URL is required")
	}
	if u, err := url.Parse(c.Backend.URL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("BACKEND_URL must be an absolute URL, got %q", c.Backend.URL)
	}
	if c.JWT.AccessSecret == "" {
		return fmt.Errorf("JWT_ACCESS_SECRET is required")
	}
	if _, err := clock.New(c.Gym.Timezone); err != nil {
		return fmt.Errorf("GYM_TIMEZONE is invalid: %w", err)
	}
	if c.Storage.Enabled && c.Storage.BucketName == "" {
		return fmt.Errorf("STORAGE_BUCKET_NAME is required when storage is enabled")
	}
	return nil
}

// IsProduction reports whether the server runs in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

// GetServerAddr returns the listen address
func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}
