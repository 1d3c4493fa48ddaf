package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store backends
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
)

// User ID strategies
const (
	IDStrategyCounter = "counter"
	IDStrategyScan    = "scan"
	IDStrategyRedis   = "redis"
)

var (
	ErrUnknownBackend    = errors.New("unknown store backend")
	ErrUnknownIDStrategy = errors.New("unknown id strategy")
	ErrMissingDBConfig   = errors.New("missing required database environment variables")
)

// Config holds everything the service reads from the environment
type Config struct {
	Port           string
	AllowedOrigins []string
	StoreBackend   string
	IDStrategy     string
	SeedFile       string
	SeedOnStart    bool
	RabbitMQURL    string

	DB        DBConfig
	Redis     RedisConfig
	Telemetry TelemetryConfig
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	Schema   string
}

// DSN returns a lib/pq connection string
func (c DBConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Host, c.Port, c.User, c.Password, c.Name,
	)
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type TelemetryConfig struct {
	Enabled          bool
	ServiceName      string
	ServiceNamespace string
	ServiceVersion   string
	Environment      string
	OTLPEndpoint     string
	TracesSampler    string
	MetricsInterval  time.Duration
}

// LoadDotEnv loads a .env file when one is present. A missing file is not an error.
func LoadDotEnv(paths ...string) {
	if err := godotenv.Load(paths...); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return
		}
		log.Printf("Warning: failed to load .env file: %v", err)
	}
}

// Load reads config from env with defaults and validates the enum settings.
func Load() (Config, error) {
	cfg := Config{
		Port:           GetEnv("PORT", "8080"),
		AllowedOrigins: splitList(GetEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		StoreBackend:   strings.ToLower(GetEnv("STORE_BACKEND", BackendMemory)),
		IDStrategy:     strings.ToLower(os.Getenv("ID_STRATEGY")),
		SeedFile:       os.Getenv("SEED_FILE"),
		SeedOnStart:    getEnvBool("SEED_ON_START", true),
		RabbitMQURL:    os.Getenv("RABBITMQ_URL"),
		DB: DBConfig{
			Host:     os.Getenv("DB_HOST"),
			Port:     GetEnv("DB_PORT", "5432"),
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     os.Getenv("DB_NAME"),
			Schema:   GetEnv("DB_SCHEMA", "hospital"),
		},
		Redis: RedisConfig{
			Addr:     GetEnv("REDIS_ADDR", "localhost:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Telemetry: TelemetryConfig{
			Enabled:          getEnvBool("OTEL_ENABLED", true),
			ServiceName:      GetEnv("OTEL_SERVICE_NAME", "hospital-service"),
			ServiceNamespace: GetEnv("OTEL_SERVICE_NAMESPACE", "wailsalutem"),
			ServiceVersion:   GetEnv("OTEL_SERVICE_VERSION", "1.0.0"),
			Environment:      GetEnv("ENVIRONMENT", "production"),
			OTLPEndpoint:     GetEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			TracesSampler:    GetEnv("OTEL_TRACES_SAMPLER", "always_on"),
			MetricsInterval:  getEnvDuration("OTEL_METRICS_EXPORT_INTERVAL", 30*time.Second),
		},
	}

	switch cfg.StoreBackend {
	case BackendMemory, BackendPostgres:
	default:
		return Config{}, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.StoreBackend)
	}

	// The scan strategy needs no extra state on either backend, so it is the
	// durable default; memory keeps its own counter.
	if cfg.IDStrategy == "" {
		if cfg.StoreBackend == BackendPostgres {
			cfg.IDStrategy = IDStrategyScan
		} else {
			cfg.IDStrategy = IDStrategyCounter
		}
	}
	switch cfg.IDStrategy {
	case IDStrategyCounter, IDStrategyScan, IDStrategyRedis:
	default:
		return Config{}, fmt.Errorf("%w: %q", ErrUnknownIDStrategy, cfg.IDStrategy)
	}

	if cfg.StoreBackend == BackendPostgres {
		if err := cfg.DB.Validate(); err != nil {
			return Config{}, err
		}
	}

	return cfg, nil
}

// Validate checks that the connection settings without defaults are present
func (c DBConfig) Validate() error {
	if c.Host == "" || c.User == "" || c.Password == "" || c.Name == "" {
		return ErrMissingDBConfig
	}
	return nil
}

// GetEnv returns the value of key, or fallback when it is unset or empty.
func GetEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("Warning: invalid %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("Warning: invalid %s=%q, using %t", key, v, fallback)
		return fallback
	}
	return b
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("Warning: invalid %s=%q, using %s", key, v, fallback)
		return fallback
	}
	return d
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
