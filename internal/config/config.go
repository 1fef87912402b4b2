package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config is the complete service configuration. Values come from defaults,
// then an optional TOML file named by CONFIG_FILE, then environment variables.
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Logger    LoggerConfig    `toml:"logger"`
	Database  DatabaseConfig  `toml:"database"`
	Redis     RedisConfig     `toml:"redis"`
	Minio     MinioConfig     `toml:"minio"`
	Auth      AuthConfig      `toml:"auth"`
	Search    SearchConfig    `toml:"search"`
	RateLimit RateLimitConfig `toml:"rate_limit"`
	Jobs      JobsConfig      `toml:"jobs"`
}

type ServerConfig struct {
	AppEnv                 string   `toml:"app_env"`
	Port                   int      `toml:"port"`
	CORSOrigins            []string `toml:"cors_origins"`
	RequestTimeoutSeconds  int      `toml:"request_timeout_seconds"`
	ShutdownTimeoutSeconds int      `toml:"shutdown_timeout_seconds"`
}

type LoggerConfig struct {
	Level    string `toml:"level"`
	Encoding string `toml:"encoding"` // json or console
}

type DatabaseConfig struct {
	URL      string `toml:"url"`
	MaxConns int32  `toml:"max_conns"`
}

type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

type MinioConfig struct {
	Endpoint             string `toml:"endpoint"`
	AccessKey            string `toml:"access_key"`
	SecretKey            string `toml:"secret_key"`
	UseSSL               bool   `toml:"use_ssl"`
	Bucket               string `toml:"bucket"`
	PresignExpiryMinutes int    `toml:"presign_expiry_minutes"`
}

type AuthConfig struct {
	FirebaseProjectID string `toml:"firebase_project_id"`
	JWKSURL           string `toml:"jwks_url"`
}

type SearchConfig struct {
	DefaultRadiusKm        float64 `toml:"default_radius_km"`
	DefaultPharmacyLimit   int     `toml:"default_pharmacy_limit"`
	MaxPharmacyLimit       int     `toml:"max_pharmacy_limit"`
	GeoPushdown            bool    `toml:"geo_pushdown"`
	DefaultProductLimit    int     `toml:"default_product_limit"`
	MaxProductLimit        int     `toml:"max_product_limit"`
	SearchCacheTTLSeconds  int     `toml:"search_cache_ttl_seconds"`
	ProductCacheTTLSeconds int     `toml:"product_cache_ttl_seconds"`
	DetailConcurrency      int     `toml:"detail_concurrency"`
}

type RateLimitConfig struct {
	Enabled       bool `toml:"enabled"`
	Requests      int  `toml:"requests"`
	WindowSeconds int  `toml:"window_seconds"`
}

type JobsConfig struct {
	IntegrityAuditEnabled         bool `toml:"integrity_audit_enabled"`
	IntegrityAuditIntervalMinutes int  `toml:"integrity_audit_interval_minutes"`
}

const GoogleSecureTokenJWKSURL = "https://www.googleapis.com/service_accounts/v1/jwk/securetoken@system.gserviceaccount.com"

// Default returns the development defaults.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			AppEnv: "development",
			Port:   8080,
			CORSOrigins: []string{
				"http://localhost:3000",
				"http://localhost:8080",
				"http://localhost:37737",
			},
			RequestTimeoutSeconds:  15,
			ShutdownTimeoutSeconds: 10,
		},
		Logger: LoggerConfig{
			Level:    "info",
			Encoding: "json",
		},
		Database: DatabaseConfig{
			MaxConns: 10,
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
		Minio: MinioConfig{
			Endpoint:             "localhost:9000",
			AccessKey:            "minioadmin", // Default for development
			SecretKey:            "minioadmin",
			Bucket:               "package-images",
			PresignExpiryMinutes: 15,
		},
		Auth: AuthConfig{
			JWKSURL: GoogleSecureTokenJWKSURL,
		},
		Search: SearchConfig{
			DefaultRadiusKm:        100,
			DefaultPharmacyLimit:   50,
			MaxPharmacyLimit:       200,
			DefaultProductLimit:    20,
			MaxProductLimit:        100,
			SearchCacheTTLSeconds:  60,
			ProductCacheTTLSeconds: 900,
			DetailConcurrency:      4,
		},
		RateLimit: RateLimitConfig{
			Enabled:       true,
			Requests:      120,
			WindowSeconds: 60,
		},
		Jobs: JobsConfig{
			IntegrityAuditEnabled:         true,
			IntegrityAuditIntervalMinutes: 60,
		},
	}
}

// Load reads .env (if present), the TOML file named by CONFIG_FILE (if set)
// and the environment, in that order of increasing precedence.
func Load() (*Config, error) {
	_ = godotenv.Load() // Load .env file if it exists

	cfg := Default()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.decodeFile(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) decodeFile(path string) error {
	if _, err := toml.DecodeFile(path, c); err != nil {
		return fmt.Errorf("failed to load config file: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Server.AppEnv = getEnv("APP_ENV", c.Server.AppEnv)
	c.Server.Port = getEnvInt("PORT", c.Server.Port)
	c.Server.CORSOrigins = getEnvSlice("CORS_ORIGINS", c.Server.CORSOrigins)

	c.Logger.Level = getEnv("LOGGER_LEVEL", c.Logger.Level)
	c.Logger.Encoding = getEnv("LOGGER_ENCODING", c.Logger.Encoding)

	c.Database.URL = getEnv("DATABASE_URL", c.Database.URL)
	c.Database.MaxConns = int32(getEnvInt("DATABASE_MAX_CONNS", int(c.Database.MaxConns)))

	c.Redis.Addr = getEnv("REDIS_ADDR", c.Redis.Addr)
	c.Redis.Password = getEnv("REDIS_PASSWORD", c.Redis.Password)
	c.Redis.DB = getEnvInt("REDIS_DB", c.Redis.DB)

	c.Minio.Endpoint = getEnv("MINIO_ENDPOINT", c.Minio.Endpoint)
	c.Minio.AccessKey = getEnv("MINIO_ACCESS_KEY", c.Minio.AccessKey)
	c.Minio.SecretKey = getEnv("MINIO_SECRET_KEY", c.Minio.SecretKey)
	c.Minio.UseSSL = getEnvBool("MINIO_USE_SSL", c.Minio.UseSSL)
	c.Minio.Bucket = getEnv("MINIO_BUCKET", c.Minio.Bucket)

	c.Auth.FirebaseProjectID = getEnv("FIREBASE_PROJECT_ID", c.Auth.FirebaseProjectID)
	c.Auth.JWKSURL = getEnv("FIREBASE_JWKS_URL", c.Auth.JWKSURL)

	c.Search.GeoPushdown = getEnvBool("SEARCH_GEO_PUSHDOWN", c.Search.GeoPushdown)

	c.RateLimit.Enabled = getEnvBool("RATE_LIMIT_ENABLED", c.RateLimit.Enabled)
	c.RateLimit.Requests = getEnvInt("RATE_LIMIT_REQUESTS", c.RateLimit.Requests)

	c.Jobs.IntegrityAuditEnabled = getEnvBool("INTEGRITY_AUDIT_ENABLED", c.Jobs.IntegrityAuditEnabled)
}

// Validate checks the settings the service cannot start without.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Database.URL) == "" {
		errs = append(errs, errors.New("DATABASE_URL is required"))
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid port %d", c.Server.Port))
	}
	if c.Search.DefaultRadiusKm <= 0 {
		errs = append(errs, errors.New("search.default_radius_km must be positive"))
	}
	if c.Search.MaxPharmacyLimit <= 0 || c.Search.MaxProductLimit <= 0 {
		errs = append(errs, errors.New("search limits must be positive"))
	}
	return errors.Join(errs...)
}

func (c *Config) IsDevelopment() bool {
	return c.Server.AppEnv == "development" || c.Server.AppEnv == "dev"
}

func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Server.RequestTimeoutSeconds) * time.Second
}

func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.Server.ShutdownTimeoutSeconds) * time.Second
}

func (c *Config) PresignExpiry() time.Duration {
	return time.Duration(c.Minio.PresignExpiryMinutes) * time.Minute
}

func (c *Config) SearchCacheTTL() time.Duration {
	return time.Duration(c.Search.SearchCacheTTLSeconds) * time.Second
}

func (c *Config) ProductCacheTTL() time.Duration {
	return time.Duration(c.Search.ProductCacheTTLSeconds) * time.Second
}

func (c *Config) RateLimitWindow() time.Duration {
	return time.Duration(c.RateLimit.WindowSeconds) * time.Second
}

func (c *Config) IntegrityAuditInterval() time.Duration {
	return time.Duration(c.Jobs.IntegrityAuditIntervalMinutes) * time.Minute
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvSlice(key string, fallback []string) []string {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
