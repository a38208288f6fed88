package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"subtrack-go/pkg/logger"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort     string
	Env          string
	CORSOrigins  []string
	DB           DBConfig
	Jobs         JobsConfig
	CategoryTTL  time.Duration
	SeedDefaults bool
}

type DBConfig struct {
	// Driver is "sqlite" (default, single-file store) or "postgres".
	Driver          string
	Path            string
	DSN             string
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	TimeZone        string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type JobsConfig struct {
	QueueSize     int
	ExportDelay   time.Duration
	ReminderDelay time.Duration
}

func Load(log logger.Logger) (Config, error) {
	if err := godotenv.Load(); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return Config{}, err
		}
		log.Debug("config: no .env file found")
	} else {
		log.Info("config: loaded .env file")
	}

	return Config{
		HTTPPort:    getEnv("HTTP_PORT", "8080"),
		Env:         getEnv("ENV", "development"),
		CORSOrigins: []string{getEnv("CORS_ORIGIN", "http://localhost:5173")},
		DB: DBConfig{
			Driver:          getEnv("DB_DRIVER", "sqlite"),
			Path:            getEnv("DB_PATH", "subtrack.db"),
			DSN:             getEnv("DB_DSN", ""),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			Name:            getEnv("DB_NAME", "subtrack"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			TimeZone:        getEnv("DB_TIMEZONE", "UTC"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		Jobs: JobsConfig{
			QueueSize:     getEnvInt("JOBS_QUEUE_SIZE", 16),
			ExportDelay:   getEnvDuration("JOBS_EXPORT_DELAY", time.Second),
			ReminderDelay: getEnvDuration("JOBS_REMINDER_DELAY", 500*time.Millisecond),
		},
		CategoryTTL:  getEnvDuration("CATEGORY_CACHE_TTL", time.Minute),
		SeedDefaults: getEnvBool("SEED_DEFAULT_CATEGORIES", false),
	}, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func (c DBConfig) GetDSN() string {
	if c.DSN != "" {
		return c.DSN
	}
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.TimeZone
}
