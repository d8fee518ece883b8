package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/asaskevich/govalidator"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	DeletePolicySoft = "soft"
	DeletePolicyHard = "hard"
)

type Config struct {
	Env          string
	HTTPAddr     string
	DeletePolicy string
	Database     DatabaseConfig
	Redis        RedisConfig
	Telemetry    TelemetryConfig
}

type DatabaseConfig struct {
	Driver   string
	Path     string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type RedisConfig struct {
	Addr     string
	Password string
	TTL      time.Duration
}

type TelemetryConfig struct {
	ServiceName  string
	OTLPEndpoint string
}

func Load() *Config {
	return &Config{
		Env:          getEnv("ENV", "development"),
		HTTPAddr:     normalizeAddr(getEnv("HTTP_ADDR", ":3000")),
		DeletePolicy: getEnv("DELETE_POLICY", DeletePolicySoft),
		Database: DatabaseConfig{
			Driver:   getEnv("DATABASE_DRIVER", DriverSQLite),
			Path:     getEnv("DATABASE_PATH", "./local_data/todo.db"),
			Host:     getEnv("DATABASE_HOST", "localhost"),
			Port:     getEnv("DATABASE_PORT", "5432"),
			User:     getEnv("DATABASE_USER", "postgres"),
			Password: getEnv("DATABASE_PASSWORD", "postgres"),
			Name:     getEnv("DATABASE_NAME", "todo"),
			SSLMode:  getEnv("DATABASE_SSL_MODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			TTL:      getDuration("CACHE_TTL", 30*time.Second),
		},
		Telemetry: TelemetryConfig{
			ServiceName:  getEnv("OTEL_SERVICE_NAME", "todo"),
			OTLPEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		},
	}
}

// Validate rejects enumerated settings outside their allowed values.
func (c *Config) Validate() error {
	var errs []error
	if !govalidator.IsIn(c.DeletePolicy, DeletePolicySoft, DeletePolicyHard) {
		errs = append(errs, fmt.Errorf("DELETE_POLICY must be %q or %q, got %q", DeletePolicySoft, DeletePolicyHard, c.DeletePolicy))
	}
	if !govalidator.IsIn(c.Database.Driver, DriverSQLite, DriverPostgres) {
		errs = append(errs, fmt.Errorf("DATABASE_DRIVER must be %q or %q, got %q", DriverSQLite, DriverPostgres, c.Database.Driver))
	}
	if c.Database.Driver == DriverSQLite && c.Database.Path == "" {
		errs = append(errs, errors.New("DATABASE_PATH is required for sqlite"))
	}
	return errors.Join(errs...)
}

func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}

func (c *Config) SoftDelete() bool {
	return c.DeletePolicy == DeletePolicySoft
}

// DSN returns the data source name for the configured driver.
func (c *Config) DSN() string {
	if c.Database.Driver == DriverPostgres {
		return fmt.Sprintf(
			"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			c.Database.Host,
			c.Database.Port,
			c.Database.User,
			c.Database.Password,
			c.Database.Name,
			c.Database.SSLMode,
		)
	}
	return c.Database.Path
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func normalizeAddr(addr string) string {
	if addr == "" {
		return addr
	}

	if addr[0] == ':' || addr[0] == '[' {
		return addr
	}

	for _, r := range addr {
		if r < '0' || r > '9' {
			return addr
		}
	}

	return ":" + addr
}
