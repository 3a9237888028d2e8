package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the process settings read from the environment.
// A .env file in the working directory is loaded first if present.
type Config struct {
	AppEnv   string
	LogLevel string
	HTTPAddr string
	APIKey   string

	DatabaseURL       string
	DBMaxConns        int
	DBMinConns        int
	DBMaxConnLifetime time.Duration
	DBMaxConnIdleTime time.Duration
	AutoMigrate       bool

	ShutdownTimeout time.Duration
}

var ErrMissingDatabaseURL = errors.New("DATABASE_URL not set")

func Load() (Config, error) {
	godotenv.Load()

	cfg := Config{
		AppEnv:   getenv("APP_ENV", "dev"),
		LogLevel: getenv("LOG_LEVEL", "info"),
		HTTPAddr: getenv("HTTP_ADDR", ":8080"),
		APIKey:   os.Getenv("API_KEY"),

		DatabaseURL:       os.Getenv("DATABASE_URL"),
		DBMaxConns:        atoi("DB_MAX_CONNS", 25),
		DBMinConns:        atoi("DB_MIN_CONNS", 5),
		DBMaxConnLifetime: dur("DB_MAX_CONN_LIFETIME", time.Hour),
		DBMaxConnIdleTime: dur("DB_MAX_CONN_IDLE_TIME", 30*time.Minute),
		AutoMigrate:       boolean("AUTO_MIGRATE", false),

		ShutdownTimeout: dur("SHUTDOWN_TIMEOUT", 10*time.Second),
	}

	if cfg.DatabaseURL == "" {
		return cfg, ErrMissingDatabaseURL
	}
	return cfg, nil
}

func getenv(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func atoi(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func dur(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func boolean(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
