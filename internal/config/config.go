package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config aggregates application settings that may be sourced from files or environment variables.
type Config struct {
	API        APIConfig        `mapstructure:"api"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	MinIO      MinIOConfig      `mapstructure:"minio"`
	Auth       AuthConfig       `mapstructure:"auth"`
	Worker     WorkerConfig     `mapstructure:"worker"`
	Generation GenerationConfig `mapstructure:"generation"`
	Uploads    UploadsConfig    `mapstructure:"uploads"`
	Prefs      PrefsConfig      `mapstructure:"prefs"`
}

// APIConfig contains HTTP server settings.
type APIConfig struct {
	Port              int      `mapstructure:"port"`
	AllowedOrigins    []string `mapstructure:"allowed_origins"`
	CookieDomain      string   `mapstructure:"cookie_domain"`
	MaxResumes        int      `mapstructure:"max_resumes"`
	AIRateLimitPerDay int      `mapstructure:"ai_rate_limit_per_day"`
}

// DatabaseConfig contains connection options for PostgreSQL.
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	SSLMode  string `mapstructure:"sslmode"`
	Debug    bool   `mapstructure:"debug"`
}

// RedisConfig contains connection options for Redis.
type RedisConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// Addr returns host:port.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// MinIOConfig contains connection options for MinIO/S3-compatible storage.
type MinIOConfig struct {
	Endpoint         string `mapstructure:"endpoint"`
	PublicEndpoint   string `mapstructure:"public_endpoint"`
	AccessKeyID      string `mapstructure:"access_key_id"`
	SecretAccessKey  string `mapstructure:"secret_access_key"`
	UseSSL           bool   `mapstructure:"use_ssl"`
	Bucket           string `mapstructure:"bucket"`
	Region           string `mapstructure:"region"`
	BucketLookup     string `mapstructure:"bucket_lookup"`
	AutoCreateBucket bool   `mapstructure:"auto_create_bucket"`
}

// AuthConfig holds the RS256 key pair and token lifetimes. Keys are given inline or as a
// path to a PEM file.
type AuthConfig struct {
	PrivateKey            string        `mapstructure:"private_key"`
	PublicKey             string        `mapstructure:"public_key"`
	AccessTokenTTL        time.Duration `mapstructure:"access_token_ttl"`
	RefreshTokenTTL       time.Duration `mapstructure:"refresh_token_ttl"`
	LoginRateLimitPerHour int           `mapstructure:"login_rate_limit_per_hour"`
	LoginLockThreshold    int           `mapstructure:"login_lock_threshold"`
	LoginLockTTL          time.Duration `mapstructure:"login_lock_ttl"`
}

// Export modes of the worker.
const (
	ExportModeRaster = "raster"
	ExportModePrint  = "print"
)

// WorkerConfig configures the export worker.
type WorkerConfig struct {
	Concurrency   int           `mapstructure:"concurrency"`
	ExportMode    string        `mapstructure:"export_mode"`
	RenderTimeout time.Duration `mapstructure:"render_timeout"`
	// MetricsAddr is where the worker serves /metrics; empty disables it.
	MetricsAddr string `mapstructure:"metrics_addr"`
}

// GenerationConfig points at the OpenAI-compatible chat completions gateway.
type GenerationConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	APIKey  string        `mapstructure:"api_key"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// UploadsConfig limits résumé uploads. An empty ClamdAddr disables scanning.
type UploadsConfig struct {
	ClamdAddr string `mapstructure:"clamd_addr"`
	MaxBytes  int64  `mapstructure:"max_bytes"`
}

// Preference backends.
const (
	PrefsBackendGorm  = "gorm"
	PrefsBackendRedis = "redis"
)

// PrefsConfig selects where customization and theme preferences are kept.
type PrefsConfig struct {
	Backend string `mapstructure:"backend"`
}

// DSN builds a lib/pq compatible connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host,
		d.Port,
		d.User,
		d.Password,
		d.Name,
		d.SSLMode,
	)
}

// PEM returns the key material: the value itself when it is inline PEM, otherwise the
// contents of the file it names.
func PEM(value string) ([]byte, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, errors.New("key is empty")
	}
	if strings.HasPrefix(value, "-----BEGIN") {
		return []byte(value), nil
	}
	data, err := os.ReadFile(value)
	if err != nil {
		return nil, fmt.Errorf("read key file %s: %w", value, err)
	}
	return data, nil
}

// Load reads configuration solely from environment variables (with optional defaults).
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if err := bindEnv(v); err != nil {
		return nil, fmt.Errorf("bind env: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadDatabase reads only the database settings, for tools that need nothing else.
func LoadDatabase() (DatabaseConfig, error) {
	v := viper.New()
	setDefaults(v)
	if err := bindEnv(v); err != nil {
		return DatabaseConfig{}, fmt.Errorf("bind env: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return DatabaseConfig{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := validateDatabase(cfg.Database); err != nil {
		return DatabaseConfig{}, err
	}
	return cfg.Database, nil
}

// MustLoad wraps Load and panics on failure.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.max_resumes", 20)
	v.SetDefault("api.ai_rate_limit_per_day", 30)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "resumekit")
	v.SetDefault("database.user", "resumekit")
	v.SetDefault("database.password", "resumekit")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.debug", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("minio.endpoint", "localhost:9000")
	v.SetDefault("minio.public_endpoint", "http://localhost:9000")
	v.SetDefault("minio.use_ssl", false)
	v.SetDefault("minio.bucket", "resumes")
	v.SetDefault("minio.bucket_lookup", "auto")
	v.SetDefault("minio.auto_create_bucket", true)
	v.SetDefault("auth.access_token_ttl", 15*time.Minute)
	v.SetDefault("auth.refresh_token_ttl", 7*24*time.Hour)
	v.SetDefault("auth.login_rate_limit_per_hour", 10)
	v.SetDefault("auth.login_lock_threshold", 5)
	v.SetDefault("auth.login_lock_ttl", 15*time.Minute)
	v.SetDefault("worker.concurrency", 4)
	v.SetDefault("worker.export_mode", ExportModeRaster)
	v.SetDefault("worker.render_timeout", 60*time.Second)
	v.SetDefault("worker.metrics_addr", ":9091")
	v.SetDefault("generation.base_url", "https://ai.gateway.lovable.dev/v1")
	v.SetDefault("generation.model", "google/gemini-2.5-flash")
	v.SetDefault("generation.timeout", 120*time.Second)
	v.SetDefault("uploads.max_bytes", int64(10<<20))
	v.SetDefault("prefs.backend", PrefsBackendGorm)
}

func bindEnv(v *viper.Viper) error {
	mappings := map[string]string{
		"api.port":                       "API_PORT",
		"api.allowed_origins":            "API_ALLOWED_ORIGINS",
		"api.cookie_domain":              "API_COOKIE_DOMAIN",
		"api.max_resumes":                "API_MAX_RESUMES",
		"api.ai_rate_limit_per_day":      "API_AI_RATE_LIMIT_PER_DAY",
		"database.host":                  "DATABASE_HOST",
		"database.port":                  "DATABASE_PORT",
		"database.name":                  "POSTGRES_DB",
		"database.user":                  "POSTGRES_USER",
		"database.password":              "POSTGRES_PASSWORD",
		"database.sslmode":               "DATABASE_SSLMODE",
		"database.debug":                 "DATABASE_DEBUG",
		"redis.host":                     "REDIS_HOST",
		"redis.port":                     "REDIS_PORT",
		"minio.endpoint":                 "MINIO_ENDPOINT",
		"minio.public_endpoint":          "MINIO_PUBLIC_ENDPOINT",
		"minio.access_key_id":            "MINIO_ACCESS_KEY_ID",
		"minio.secret_access_key":        "MINIO_SECRET_ACCESS_KEY",
		"minio.use_ssl":                  "MINIO_USE_SSL",
		"minio.bucket":                   "MINIO_BUCKET",
		"minio.region":                   "MINIO_REGION",
		"minio.bucket_lookup":            "MINIO_BUCKET_LOOKUP",
		"minio.auto_create_bucket":       "MINIO_AUTO_CREATE_BUCKET",
		"auth.private_key":               "JWT_PRIVATE_KEY",
		"auth.public_key":                "JWT_PUBLIC_KEY",
		"auth.access_token_ttl":          "JWT_ACCESS_TOKEN_TTL",
		"auth.refresh_token_ttl":         "JWT_REFRESH_TOKEN_TTL",
		"auth.login_rate_limit_per_hour": "LOGIN_RATE_LIMIT_PER_HOUR",
		"auth.login_lock_threshold":      "LOGIN_LOCK_THRESHOLD",
		"auth.login_lock_ttl":            "LOGIN_LOCK_TTL",
		"worker.concurrency":             "WORKER_CONCURRENCY",
		"worker.export_mode":             "WORKER_EXPORT_MODE",
		"worker.render_timeout":          "WORKER_RENDER_TIMEOUT",
		"worker.metrics_addr":            "WORKER_METRICS_ADDR",
		"generation.base_url":            "GENERATION_BASE_URL",
		"generation.api_key":             "GENERATION_API_KEY",
		"generation.model":               "GENERATION_MODEL",
		"generation.timeout":             "GENERATION_TIMEOUT",
		"uploads.clamd_addr":             "CLAMD_ADDR",
		"uploads.max_bytes":              "UPLOAD_MAX_BYTES",
		"prefs.backend":                  "PREFS_BACKEND",
	}

	for key, env := range mappings {
		if err := v.BindEnv(key, env); err != nil {
			return fmt.Errorf("bind %s to %s: %w", key, env, err)
		}
	}

	return nil
}

func validate(cfg Config) error {
	if cfg.API.Port <= 0 {
		return errors.New("api port must be positive")
	}
	if err := validateDatabase(cfg.Database); err != nil {
		return err
	}
	if cfg.Redis.Host == "" {
		return errors.New("redis host is required")
	}
	if cfg.Redis.Port <= 0 {
		return errors.New("redis port must be positive")
	}
	if cfg.MinIO.Endpoint == "" {
		return errors.New("minio endpoint is required")
	}
	if cfg.MinIO.AccessKeyID == "" {
		return errors.New("minio access key id is required")
	}
	if cfg.MinIO.SecretAccessKey == "" {
		return errors.New("minio secret access key is required")
	}
	if cfg.MinIO.Bucket == "" {
		return errors.New("minio bucket is required")
	}
	if cfg.Auth.AccessTokenTTL <= 0 || cfg.Auth.RefreshTokenTTL <= 0 {
		return errors.New("token ttl must be positive")
	}
	if cfg.Worker.Concurrency <= 0 {
		return errors.New("worker concurrency must be positive")
	}
	switch cfg.Worker.ExportMode {
	case ExportModeRaster, ExportModePrint:
	default:
		return fmt.Errorf("unknown worker export mode %q", cfg.Worker.ExportMode)
	}
	if cfg.Generation.BaseURL == "" {
		return errors.New("generation base url is required")
	}
	if cfg.Uploads.MaxBytes <= 0 {
		return errors.New("upload max bytes must be positive")
	}
	switch cfg.Prefs.Backend {
	case PrefsBackendGorm, PrefsBackendRedis:
	default:
		return fmt.Errorf("unknown prefs backend %q", cfg.Prefs.Backend)
	}
	return nil
}

func validateDatabase(db DatabaseConfig) error {
	switch {
	case db.Host == "":
		return errors.New("database host is required")
	case db.Port <= 0:
		return errors.New("database port must be positive")
	case db.Name == "":
		return errors.New("database name is required")
	case db.User == "":
		return errors.New("database user is required")
	case db.Password == "":
		return errors.New("database password is required")
	case db.SSLMode == "":
		return errors.New("database sslmode is required")
	}
	return nil
}
