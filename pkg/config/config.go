package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database      DatabaseConfig
	Redis         RedisConfig
	Session       SessionConfig
	CORS          CORSConfig
	Log           LogConfig
	Overview      OverviewConfig
	Content       ContentConfig
	Export        ExportConfig
	Notifications NotificationsConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// SessionConfig governs session token issuance and the authorization cache.
type SessionConfig struct {
	Secret       string
	TokenExpiry  time.Duration
	CookieName   string
	CookieMaxAge time.Duration
	CookieSecure bool
	CacheTTL     time.Duration
	Issuer       string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// OverviewConfig tunes the dashboard statistics aggregation cache.
type OverviewConfig struct {
	CacheTTL time.Duration
}

// ContentConfig controls the content file store and field normalization.
type ContentConfig struct {
	StorageDir string
	MaxUpload  int64
	// NormalizeYearOfStudy lowercases and strips underscores before storage.
	// The two observed dashboard variants disagreed; this makes it explicit.
	NormalizeYearOfStudy bool
}

// ExportConfig bounds the access-code export query.
type ExportConfig struct {
	MaxRows int
}

// NotificationsConfig tunes the fire-and-forget notification queue.
type NotificationsConfig struct {
	Workers    int
	BufferSize int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Enabled:  v.GetBool("REDIS_ENABLED"),
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.Session = SessionConfig{
		Secret:       v.GetString("SESSION_SECRET"),
		TokenExpiry:  parseDuration(v.GetString("SESSION_TOKEN_EXPIRY"), 15*time.Minute),
		CookieName:   v.GetString("SESSION_COOKIE_NAME"),
		CookieMaxAge: parseDuration(v.GetString("SESSION_COOKIE_MAX_AGE"), 14*time.Minute),
		CookieSecure: v.GetBool("SESSION_COOKIE_SECURE"),
		CacheTTL:     parseDuration(v.GetString("AUTH_CACHE_TTL"), 5*time.Minute),
		Issuer:       v.GetString("SESSION_ISSUER"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Overview = OverviewConfig{
		CacheTTL: parseDuration(v.GetString("OVERVIEW_CACHE_TTL"), time.Minute),
	}

	maxUpload := v.GetInt64("CONTENT_MAX_UPLOAD")
	if maxUpload <= 0 {
		maxUpload = 50 * 1024 * 1024
	}
	cfg.Content = ContentConfig{
		StorageDir:           v.GetString("CONTENT_STORAGE_DIR"),
		MaxUpload:            maxUpload,
		NormalizeYearOfStudy: v.GetBool("CONTENT_NORMALIZE_YEAR"),
	}

	cfg.Export = ExportConfig{
		MaxRows: v.GetInt("EXPORT_MAX_ROWS"),
	}

	cfg.Notifications = NotificationsConfig{
		Workers:    v.GetInt("NOTIFY_WORKERS"),
		BufferSize: v.GetInt("NOTIFY_BUFFER_SIZE"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "nlc_admin")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_ENABLED", false)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("SESSION_SECRET", "dev_secret")
	v.SetDefault("SESSION_TOKEN_EXPIRY", "15m")
	v.SetDefault("SESSION_COOKIE_NAME", "nlc_session")
	v.SetDefault("SESSION_COOKIE_MAX_AGE", "14m")
	v.SetDefault("SESSION_COOKIE_SECURE", false)
	v.SetDefault("AUTH_CACHE_TTL", "5m")
	v.SetDefault("SESSION_ISSUER", "nlc-admin-api")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("OVERVIEW_CACHE_TTL", "60s")

	v.SetDefault("CONTENT_STORAGE_DIR", "./content")
	v.SetDefault("CONTENT_MAX_UPLOAD", 50*1024*1024)
	v.SetDefault("CONTENT_NORMALIZE_YEAR", true)

	v.SetDefault("EXPORT_MAX_ROWS", 5000)

	v.SetDefault("NOTIFY_WORKERS", 1)
	v.SetDefault("NOTIFY_BUFFER_SIZE", 16)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
