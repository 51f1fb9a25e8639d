// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const defaultSessionSecret = "change-me-session-secret"

type Config struct {
	Environment string
	LogLevel    string
	Server      ServerConfig
	Storage     StorageConfig
	Admin       AdminConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	Kafka       KafkaConfig
	I18n        I18nConfig
	Frontend    FrontendConfig
}

type FrontendConfig struct {
	AllowedOrigins []string
}

type ServerConfig struct {
	Port         string
	Host         string
	ReadTimeout  int
	WriteTimeout int
	IdleTimeout  int
	MaxUploadMB  int
	RateLimit    bool
}

// StorageConfig describes both the remote object store and the local
// data directory that shadows the collection spreadsheets.
type StorageConfig struct {
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	PublicURL       string
	FilesBucket     string
	ImagesBucket    string
	LocalRoot       string
	LocalURL        string
	DataDir         string
	ListLimit       int
}

type AdminConfig struct {
	Username      string
	Password      string
	PasswordHash  string
	SessionSecret string
	SessionTTL    int // in hours
	CookieName    string
}

type DatabaseConfig struct {
	Host         string
	Port         string
	User         string
	Password     string
	Database     string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  int
	LogLevel     string
}

type RedisConfig struct {
	Addr          string
	Password      string
	DB            int
	ImageCacheTTL int // in seconds
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

type I18nConfig struct {
	DefaultLocale string
}

func Load() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	config := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			Host:         getEnv("SERVER_HOST", "localhost"),
			ReadTimeout:  getEnvAsInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout: getEnvAsInt("SERVER_WRITE_TIMEOUT", 30),
			IdleTimeout:  getEnvAsInt("SERVER_IDLE_TIMEOUT", 60),
			MaxUploadMB:  getEnvAsInt("SERVER_MAX_UPLOAD_MB", 20),
			RateLimit:    getEnvAsBool("RATE_LIMIT_ENABLED", true),
		},
		Storage: StorageConfig{
			Endpoint:        getEnv("STORAGE_ENDPOINT", ""),
			Region:          getEnv("STORAGE_REGION", "us-east-1"),
			AccessKeyID:     getEnv("STORAGE_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("STORAGE_SECRET_ACCESS_KEY", ""),
			PublicURL:       getEnv("STORAGE_PUBLIC_URL", ""),
			FilesBucket:     getEnv("STORAGE_FILES_BUCKET", "files"),
			ImagesBucket:    getEnv("STORAGE_IMAGES_BUCKET", "product-images"),
			LocalRoot:       getEnv("STORAGE_LOCAL_ROOT", "storage"),
			LocalURL:        getEnv("STORAGE_LOCAL_URL", "http://localhost:8080/storage"),
			DataDir:         getEnv("DATA_DIR", "data"),
			ListLimit:       getEnvAsInt("STORAGE_LIST_LIMIT", 100),
		},
		Admin: AdminConfig{
			Username:      getEnv("ADMIN_USER", ""),
			Password:      getEnv("ADMIN_PASS", ""),
			PasswordHash:  getEnv("ADMIN_PASS_HASH", ""),
			SessionSecret: getEnv("SESSION_SECRET", defaultSessionSecret),
			SessionTTL:    getEnvAsInt("SESSION_TTL_HOURS", 24),
			CookieName:    getEnv("SESSION_COOKIE", "admin-auth"),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", ""),
			Port:         getEnv("DB_PORT", "5432"),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", ""),
			Database:     getEnv("DB_NAME", "storefront"),
			SSLMode:      getEnv("DB_SSL_MODE", "disable"),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			MaxLifetime:  getEnvAsInt("DB_MAX_LIFETIME", 300),
			LogLevel:     getEnv("DB_LOG_LEVEL", "silent"),
		},
		Redis: RedisConfig{
			Addr:          getEnv("REDIS_ADDR", ""),
			Password:      getEnv("REDIS_PASSWORD", ""),
			DB:            getEnvAsInt("REDIS_DB", 0),
			ImageCacheTTL: getEnvAsInt("IMAGE_CACHE_TTL", 300),
		},
		Kafka: KafkaConfig{
			Brokers: getEnvAsList("KAFKA_BROKERS"),
			Topic:   getEnv("KAFKA_ORDER_TOPIC", "storefront.orders"),
		},
		I18n: I18nConfig{
			DefaultLocale: getEnv("DEFAULT_LOCALE", "en"),
		},
		Frontend: FrontendConfig{
			AllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS"),
		},
	}

	return config, config.Validate()
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// RemoteStorageEnabled reports whether an S3-compatible remote is configured.
func (c *Config) RemoteStorageEnabled() bool {
	return c.Storage.AccessKeyID != "" && c.Storage.SecretAccessKey != ""
}

func (c *Config) Validate() error {
	if c.Admin.SessionSecret == defaultSessionSecret && c.IsProduction() {
		return fmt.Errorf("session secret must be changed in production")
	}

	if c.Admin.Username == "" && c.IsProduction() {
		return fmt.Errorf("admin username is required in production")
	}

	if c.Admin.Password == "" && c.Admin.PasswordHash == "" && c.IsProduction() {
		return fmt.Errorf("admin password or password hash is required in production")
	}

	if c.Storage.ListLimit <= 0 {
		return fmt.Errorf("storage list limit must be positive")
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
