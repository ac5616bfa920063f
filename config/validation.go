package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ConfigRequirements defines required configuration for each environment
type ConfigRequirements struct {
	RequirePostgres bool
	RequireSecrets  bool
	RequireRedis    bool
}

var requirements = map[Environment]ConfigRequirements{
	Development: {},
	Test:        {},
	CI: {
		RequireSecrets: true,
	},
	Production: {
		RequirePostgres: true,
		RequireSecrets:  true,
		RequireRedis:    true,
	},
}

const devJWTSecret = "dev-insecure-secret"

// ValidateConfig checks if the configuration meets the requirements for its environment.
// Development and test environments get an insecure JWT secret when none is set.
func ValidateConfig(cfg *Config) error {
	reqs := requirements[cfg.Env]

	var errs []string
	add := func(field, msg string) {
		errs = append(errs, ValidationError{Field: field, Message: msg}.Error())
	}

	switch cfg.DBDriver {
	case DriverPostgres:
		if cfg.DBHost == "" || cfg.DBName == "" {
			add("DB_HOST", "host and database name are required for postgres")
		}
	case DriverSQLite:
		if reqs.RequirePostgres {
			add("DB_DRIVER", "sqlite is not allowed in "+string(cfg.Env))
		}
		if cfg.SQLitePath == "" {
			add("SQLITE_PATH", "path is required for sqlite")
		}
	default:
		add("DB_DRIVER", fmt.Sprintf("unsupported driver %q", cfg.DBDriver))
	}

	if cfg.JWTSecret == "" {
		if reqs.RequireSecrets {
			add("JWT_SECRET", "jwt_secret is required")
		} else {
			cfg.JWTSecret = devJWTSecret
		}
	}
	if reqs.RequireSecrets && cfg.DBDriver == DriverPostgres && cfg.DBPassword == "" {
		add("DB_PASSWORD", "db_password is required")
	}
	if reqs.RequireRedis && !cfg.RedisEnabled() {
		add("REDIS_URL", "redis is required")
	}

	switch cfg.StorageBackend {
	case StorageLocal:
		if cfg.MediaRoot == "" {
			add("MEDIA_ROOT", "media root is required for local storage")
		}
	case StorageS3:
		if cfg.S3Bucket == "" {
			add("S3_BUCKET", "bucket is required for s3 storage")
		}
	default:
		add("STORAGE_BACKEND", fmt.Sprintf("unsupported backend %q", cfg.StorageBackend))
	}

	if cfg.PageSize <= 0 || cfg.MaxPageSize < cfg.PageSize {
		add("PAGE_SIZE", "page size must be positive and not above MAX_PAGE_SIZE")
	}
	if cfg.TokenTTL <= 0 {
		add("TOKEN_TTL", "must be positive")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errs, "\n"))
	}

	return nil
}
