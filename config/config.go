// Package config loads application configuration from environment variables,
// with optional overrides from a .env file in the working directory.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Environment represents the application environment.
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvStaging     Environment = "staging"
	EnvProduction  Environment = "production"
)

// Config holds all application configuration.
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Pipeline PipelineConfig
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name        string
	Environment Environment
	Debug       bool

	// LogLevel is the minimum log level (debug, info, warn, error).
	LogLevel string
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	// URL is the full connection string. When empty it is assembled from
	// the individual DB_* settings.
	URL string

	MaxConns        int32
	MinConns        int32
	ConnMaxLifetime time.Duration
	ConnectTimeout  time.Duration

	// ConnectRetries is how many times the initial connect is attempted
	// before the run is aborted.
	ConnectRetries int
}

// RedisConfig holds settings for the optional standings cache.
type RedisConfig struct {
	URL      string
	Host     string
	Port     int
	Password string
	DB       int

	// TTL is how long cached standings snapshots live.
	TTL time.Duration

	// Enabled toggles the cache; the pipeline runs fine without it.
	Enabled bool
}

// PipelineConfig holds ETL run settings.
type PipelineConfig struct {
	// DataDir is the directory holding the raw source files.
	DataDir string

	// Source file names, relative to DataDir.
	StudentsFile   string
	CoursesFile    string
	GradesFile     string
	AttendanceFile string

	// DefaultCompany is the organizational unit assigned to every loaded
	// student. The company must already exist; its absence aborts the run.
	DefaultCompany string

	// GPADivisor maps a 0-100 mean score onto the GPA scale.
	// Default 25 (0-100 -> 0-4).
	GPADivisor float64

	// BatchSize is the number of records per load transaction.
	BatchSize int

	// IDSeed seeds service-number generation; 0 means time-based.
	IDSeed int64
}

// Load loads configuration from the environment. A .env file in the
// working directory is read first; real environment variables win.
func Load() (*Config, error) {
	// Missing .env is fine; it only exists in development.
	_ = godotenv.Load()

	env := Environment(getEnv("APP_ENV", "development"))

	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "records-etl"),
			Environment: env,
			Debug:       env == EnvDevelopment || getEnvBool("APP_DEBUG", false),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
		},
		Database: loadDatabaseConfig(),
		Redis:    loadRedisConfig(),
		Pipeline: loadPipelineConfig(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func loadDatabaseConfig() DatabaseConfig {
	url := getEnv("DATABASE_URL", "")
	if url == "" {
		host := getEnv("DB_HOST", "")
		port := getEnv("DB_PORT", "5432")
		user := getEnv("DB_USER", "")
		pass := getEnv("DB_PASSWORD", "")
		name := getEnv("DB_NAME", "student_records_db")
		sslmode := getEnv("DB_SSLMODE", "disable")

		if host != "" && user != "" {
			url = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
				user, pass, host, port, name, sslmode)
		}
	}

	return DatabaseConfig{
		URL:             url,
		MaxConns:        int32(getEnvInt("DB_MAX_CONNS", 10)),
		MinConns:        int32(getEnvInt("DB_MIN_CONNS", 2)),
		ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", time.Hour),
		ConnectTimeout:  getEnvDuration("DB_CONNECT_TIMEOUT", 10*time.Second),
		ConnectRetries:  getEnvInt("DB_CONNECT_RETRIES", 3),
	}
}

func loadRedisConfig() RedisConfig {
	return RedisConfig{
		URL:      getEnv("REDIS_URL", ""),
		Host:     getEnv("REDIS_HOST", "localhost"),
		Port:     getEnvInt("REDIS_PORT", 6379),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       getEnvInt("REDIS_DB", 0),
		TTL:      getEnvDuration("REDIS_STANDINGS_TTL", 30*time.Minute),
		Enabled:  getEnvBool("REDIS_ENABLED", false),
	}
}

func loadPipelineConfig() PipelineConfig {
	return PipelineConfig{
		DataDir:        getEnv("DATA_DIR", "data/raw"),
		StudentsFile:   getEnv("STUDENTS_FILE", "students_raw.csv"),
		CoursesFile:    getEnv("COURSES_FILE", "courses_catalog.json"),
		GradesFile:     getEnv("GRADES_FILE", "grades_raw.csv"),
		AttendanceFile: getEnv("ATTENDANCE_FILE", "attendance_raw.csv"),
		DefaultCompany: getEnv("DEFAULT_COMPANY", "Alpha Company"),
		GPADivisor:     getEnvFloat("GPA_DIVISOR", 25.0),
		BatchSize:      getEnvInt("LOAD_BATCH_SIZE", 100),
		IDSeed:         int64(getEnvInt("ID_SEED", 0)),
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	var errs []string

	if c.App.Environment == EnvProduction && c.Database.URL == "" {
		errs = append(errs, "DATABASE_URL is required in production")
	}

	if c.Pipeline.GPADivisor <= 0 {
		errs = append(errs, "GPA_DIVISOR must be positive")
	}

	if c.Pipeline.BatchSize <= 0 {
		errs = append(errs, "LOAD_BATCH_SIZE must be positive")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == EnvDevelopment
}

// --- Helper functions for environment variable parsing ---

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return defaultVal
	}
	return b
}

func getEnvInt(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvFloat(key string, defaultVal float64) float64 {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return defaultVal
	}
	return f
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}
	return d
}
