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

	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	CORS     CORSConfig
	Log      LogConfig
	Office   OfficeConfig
	Leave    LeaveConfig
	Reports  ReportsConfig
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
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// OfficeConfig pins "today" and office hours to a single local timezone;
// the database stores everything in UTC.
type OfficeConfig struct {
	Timezone    string
	StartHour   int
	StartMinute int
	EndHour     int
	EndMinute   int
}

// LeaveConfig tunes leave accounting defaults.
type LeaveConfig struct {
	AnnualPaidLeaves int
}

// ReportsConfig governs the daily attendance report pipeline.
type ReportsConfig struct {
	Enabled           bool
	Sender            string
	Recipients        []string
	LockTTL           time.Duration
	CacheTTL          time.Duration
	WorkerConcurrency int
	WorkerRetries     int
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
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret: v.GetString("JWT_SECRET"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Office = OfficeConfig{
		Timezone:    v.GetString("OFFICE_TIMEZONE"),
		StartHour:   v.GetInt("OFFICE_START_HOUR"),
		StartMinute: v.GetInt("OFFICE_START_MINUTE"),
		EndHour:     v.GetInt("OFFICE_END_HOUR"),
		EndMinute:   v.GetInt("OFFICE_END_MINUTE"),
	}

	cfg.Leave = LeaveConfig{
		AnnualPaidLeaves: v.GetInt("ANNUAL_PAID_LEAVES"),
	}

	cfg.Reports = ReportsConfig{
		Enabled:           v.GetBool("ENABLE_DAILY_REPORT"),
		Sender:            v.GetString("REPORT_SENDER"),
		Recipients:        splitAndTrim(v.GetString("REPORT_RECIPIENTS")),
		LockTTL:           parseDuration(v.GetString("REPORT_LOCK_TTL"), 20*time.Hour),
		CacheTTL:          parseDuration(v.GetString("REPORT_CACHE_TTL"), 24*time.Hour),
		WorkerConcurrency: v.GetInt("REPORT_WORKER_CONCURRENCY"),
		WorkerRetries:     v.GetInt("REPORT_WORKER_RETRIES"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "smartattend")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("OFFICE_TIMEZONE", "Asia/Kolkata")
	v.SetDefault("OFFICE_START_HOUR", 10)
	v.SetDefault("OFFICE_START_MINUTE", 0)
	v.SetDefault("OFFICE_END_HOUR", 18)
	v.SetDefault("OFFICE_END_MINUTE", 0)

	v.SetDefault("ANNUAL_PAID_LEAVES", 21)

	v.SetDefault("ENABLE_DAILY_REPORT", false)
	v.SetDefault("REPORT_SENDER", "reports@smartattend.local")
	v.SetDefault("REPORT_RECIPIENTS", "")
	v.SetDefault("REPORT_LOCK_TTL", "20h")
	v.SetDefault("REPORT_CACHE_TTL", "24h")
	v.SetDefault("REPORT_WORKER_CONCURRENCY", 1)
	v.SetDefault("REPORT_WORKER_RETRIES", 3)
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
