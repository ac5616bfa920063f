package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Env Environment

	// Server configuration
	ServerPort     string
	ServerHost     string
	AllowedOrigins []string

	// Database configuration
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	SQLitePath string

	// Redis configuration. RedisURL wins over the host/port pair.
	RedisURL      string
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// Auth
	JWTSecret string
	TokenTTL  time.Duration

	// Pagination
	PageSize    int
	MaxPageSize int

	// Media storage
	StorageBackend string
	MediaRoot      string
	MediaURL       string
	S3Bucket       string
	S3Region       string
	S3Endpoint     string
	S3PublicURL    string

	RecipeCreateLimit   int
	RecipeCreateWindow  time.Duration
	IngredientCacheSize int
	IngredientCacheTTL  time.Duration
	LogLevel            string
}

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	StorageLocal = "local"
	StorageS3    = "s3"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")

	v.SetDefault("DB_DRIVER", DriverPostgres)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "foodgram")
	v.SetDefault("DB_NAME", "foodgram")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("SQLITE_PATH", "foodgram.db")

	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("TOKEN_TTL", "720h")
	v.SetDefault("PAGE_SIZE", 6)
	v.SetDefault("MAX_PAGE_SIZE", 100)

	v.SetDefault("STORAGE_BACKEND", StorageLocal)
	v.SetDefault("MEDIA_ROOT", "media")
	v.SetDefault("MEDIA_URL", "/media/")
	v.SetDefault("AWS_REGION", "us-east-1")

	v.SetDefault("RECIPE_CREATE_LIMIT", 30)
	v.SetDefault("RECIPE_CREATE_WINDOW", "1h")
	v.SetDefault("INGREDIENT_CACHE_SIZE", 256)
	v.SetDefault("INGREDIENT_CACHE_TTL", "1m")
	v.SetDefault("LOG_LEVEL", "info")
}

// LoadConfig creates a new Config instance with values from environment variables or secrets
func LoadConfig() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	env := DetectEnvironment()

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		Env:            env,
		ServerPort:     v.GetString("SERVER_PORT"),
		ServerHost:     v.GetString("SERVER_HOST"),
		AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),

		DBDriver:   strings.ToLower(v.GetString("DB_DRIVER")),
		DBHost:     v.GetString("DB_HOST"),
		DBPort:     v.GetString("DB_PORT"),
		DBUser:     v.GetString("DB_USER"),
		DBPassword: v.GetString("DB_PASSWORD"),
		DBName:     v.GetString("DB_NAME"),
		DBSSLMode:  v.GetString("DB_SSL_MODE"),
		SQLitePath: v.GetString("SQLITE_PATH"),

		RedisURL:      v.GetString("REDIS_URL"),
		RedisHost:     v.GetString("REDIS_HOST"),
		RedisPort:     v.GetString("REDIS_PORT"),
		RedisPassword: v.GetString("REDIS_PASSWORD"),
		RedisDB:       v.GetInt("REDIS_DB"),

		JWTSecret: v.GetString("JWT_SECRET"),
		TokenTTL:  v.GetDuration("TOKEN_TTL"),

		PageSize:    v.GetInt("PAGE_SIZE"),
		MaxPageSize: v.GetInt("MAX_PAGE_SIZE"),

		StorageBackend: strings.ToLower(v.GetString("STORAGE_BACKEND")),
		MediaRoot:      v.GetString("MEDIA_ROOT"),
		MediaURL:       v.GetString("MEDIA_URL"),
		S3Bucket:       v.GetString("S3_BUCKET"),
		S3Region:       v.GetString("AWS_REGION"),
		S3Endpoint:     v.GetString("S3_ENDPOINT"),
		S3PublicURL:    v.GetString("S3_PUBLIC_URL"),

		RecipeCreateLimit:   v.GetInt("RECIPE_CREATE_LIMIT"),
		RecipeCreateWindow:  v.GetDuration("RECIPE_CREATE_WINDOW"),
		IngredientCacheSize: v.GetInt("INGREDIENT_CACHE_SIZE"),
		IngredientCacheTTL:  v.GetDuration("INGREDIENT_CACHE_TTL"),
		LogLevel:            v.GetString("LOG_LEVEL"),
	}

	// Sensitive values fall back to Docker secrets when the environment
	// does not carry them.
	fillFromSecret(&cfg.DBPassword, "db_password")
	fillFromSecret(&cfg.DBUser, "db_user")
	fillFromSecret(&cfg.JWTSecret, "jwt_secret")
	fillFromSecret(&cfg.RedisPassword, "redis_password")
	fillFromSecret(&cfg.RedisURL, "redis_url")

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

// RedisEnabled reports whether any redis endpoint is configured.
func (c *Config) RedisEnabled() bool {
	return c.RedisURL != "" || c.RedisHost != ""
}

func fillFromSecret(dst *string, name string) {
	if *dst != "" {
		return
	}
	*dst = readSecret(name)
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
