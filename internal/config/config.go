package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"hrms_lite/pkg/utils"

	"github.com/joho/godotenv"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// DatabaseConfig holds the Postgres connection settings.
type DatabaseConfig struct {
	Host         string
	Port         string
	User         string
	Password     string
	Name         string
	SSLMode      string
	SchemaPath   string
	ApplySchema  bool
	MaxOpenConns int
}

// DSN renders the lib/pq keyword/value connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

// ServerConfig is everything cmd/server needs.
type ServerConfig struct {
	Port           string
	GinMode        string
	Storage        string
	AllowedOrigins []string
	AutoAbsent     bool
	LogLevel       string
	LogFormat      string
	Database       DatabaseConfig
}

// ClientConfig is everything cmd/hrms needs.
type ClientConfig struct {
	APIBaseURL       string
	SuccessBannerTTL time.Duration
	LogLevel         string
	LogFormat        string
}

// LoadDotEnv loads variables from the given files (default ".env") without
// overriding values already present in the environment. Missing files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// LoadServer reads the server configuration from the environment.
func LoadServer() (ServerConfig, error) {
	if err := LoadDotEnv(); err != nil {
		return ServerConfig{}, err
	}
	cfg := ServerConfig{
		Port:           utils.Getenv("PORT", "8080"),
		GinMode:        utils.Getenv("GIN_MODE", "debug"),
		Storage:        strings.ToLower(utils.Getenv("STORAGE", StoragePostgres)),
		AllowedOrigins: utils.GetenvList("CORS_ALLOWED_ORIGINS", nil),
		AutoAbsent:     utils.GetenvBool("AUTO_ABSENT_ON_CREATE", false),
		LogLevel:       utils.Getenv("LOG_LEVEL", "info"),
		LogFormat:      utils.Getenv("LOG_FORMAT", "console"),
		Database: DatabaseConfig{
			Host:         utils.Getenv("DB_HOST", "localhost"),
			Port:         utils.Getenv("DB_PORT", "5432"),
			User:         utils.Getenv("DB_USER", "hrms_user"),
			Password:     utils.Getenv("DB_PASSWORD", "hrms_password"),
			Name:         utils.Getenv("DB_NAME", "hrms_lite_db"),
			SSLMode:      utils.Getenv("DB_SSLMODE", "disable"),
			SchemaPath:   utils.Getenv("DB_SCHEMA_PATH", ""),
			ApplySchema:  utils.GetenvBool("DB_APPLY_SCHEMA", true),
			MaxOpenConns: utils.GetenvInt("DB_MAX_OPEN_CONNS", 10),
		},
	}
	if cfg.Storage != StoragePostgres && cfg.Storage != StorageMemory {
		return ServerConfig{}, fmt.Errorf("unknown STORAGE %q (want %s or %s)", cfg.Storage, StoragePostgres, StorageMemory)
	}
	return cfg, nil
}

// LoadClient reads the CLI configuration from the environment.
func LoadClient() (ClientConfig, error) {
	if err := LoadDotEnv(); err != nil {
		return ClientConfig{}, err
	}
	return ClientConfig{
		APIBaseURL:       strings.TrimRight(utils.Getenv("API_BASE_URL", "http://localhost:8080/api"), "/"),
		SuccessBannerTTL: utils.GetenvDuration("SUCCESS_BANNER_TTL", 3*time.Second),
		LogLevel:         utils.Getenv("LOG_LEVEL", "warn"),
		LogFormat:        utils.Getenv("LOG_FORMAT", "console"),
	}, nil
}
