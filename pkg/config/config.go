package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Catalog database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	CORS      CORSConfig
	Log       LogConfig
	Allocator AllocatorConfig
}

type DatabaseConfig struct {
	Driver       string
	Path         string
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
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// AllocatorConfig bounds the search work a single request may trigger and tunes caching
// and the background recompute queue.
type AllocatorConfig struct {
	CacheEnabled              bool
	CacheTTL                  time.Duration
	MaxExhaustiveActivities   int
	MaxSearchNodes            int
	MaxExhaustiveReadingTasks int
	MaxDemands                int
	TraceSearch               bool
	RecomputeWorkers          int
	RecomputeRetries          int
	DayOpenHour               int
	DayCloseHour              int
	ViewCloseHour             int
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
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Driver:       strings.ToLower(v.GetString("DB_DRIVER")),
		Path:         v.GetString("DB_PATH"),
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
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret:     v.GetString("JWT_SECRET"),
		Expiration: parseDuration(v.GetString("JWT_EXPIRATION"), 24*time.Hour),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Allocator = AllocatorConfig{
		CacheEnabled:              v.GetBool("ALLOCATOR_CACHE_ENABLED"),
		CacheTTL:                  parseDuration(v.GetString("ALLOCATOR_CACHE_TTL"), 10*time.Minute),
		MaxExhaustiveActivities:   positiveOr(v.GetInt("ALLOCATOR_MAX_EXHAUSTIVE_ACTIVITIES"), 12),
		MaxSearchNodes:            positiveOr(v.GetInt("ALLOCATOR_MAX_SEARCH_NODES"), 2000000),
		MaxExhaustiveReadingTasks: positiveOr(v.GetInt("ALLOCATOR_MAX_EXHAUSTIVE_READING_TASKS"), 8),
		MaxDemands:                positiveOr(v.GetInt("ALLOCATOR_MAX_DEMANDS"), 5000),
		TraceSearch:               v.GetBool("ALLOCATOR_TRACE_SEARCH"),
		RecomputeWorkers:          positiveOr(v.GetInt("ALLOCATOR_RECOMPUTE_WORKERS"), 1),
		RecomputeRetries:          v.GetInt("ALLOCATOR_RECOMPUTE_RETRIES"),
		DayOpenHour:               v.GetInt("ALLOCATOR_DAY_OPEN_HOUR"),
		DayCloseHour:              v.GetInt("ALLOCATOR_DAY_CLOSE_HOUR"),
		ViewCloseHour:             v.GetInt("ALLOCATOR_VIEW_CLOSE_HOUR"),
	}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_DRIVER", DriverPostgres)
	v.SetDefault("DB_PATH", "./campus.db")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "campus")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "24h")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("ALLOCATOR_CACHE_ENABLED", true)
	v.SetDefault("ALLOCATOR_CACHE_TTL", "10m")
	v.SetDefault("ALLOCATOR_MAX_EXHAUSTIVE_ACTIVITIES", 12)
	v.SetDefault("ALLOCATOR_MAX_EXHAUSTIVE_READING_TASKS", 8)
	v.SetDefault("ALLOCATOR_MAX_SEARCH_NODES", 2000000)
	v.SetDefault("ALLOCATOR_MAX_DEMANDS", 5000)
	v.SetDefault("ALLOCATOR_TRACE_SEARCH", false)
	v.SetDefault("ALLOCATOR_RECOMPUTE_WORKERS", 1)
	v.SetDefault("ALLOCATOR_RECOMPUTE_RETRIES", 3)
	v.SetDefault("ALLOCATOR_DAY_OPEN_HOUR", 8)
	v.SetDefault("ALLOCATOR_DAY_CLOSE_HOUR", 18)
	v.SetDefault("ALLOCATOR_VIEW_CLOSE_HOUR", 22)
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

func positiveOr(value, fallback int) int {
	if value <= 0 {
		return fallback
	}
	return value
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
