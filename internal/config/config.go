package config

import (
	"fmt"

	"github.com/caarlos0/env/v6"
)

type Config struct {
	ServerAddress string `env:"SERVER_ADDRESS" envDefault:"0.0.0.0:8080"`
	LogLevel      string `env:"LOG_LEVEL" envDefault:"DEBUG"`

	// MockMode serves all data operations from the local mock store instead
	// of PostgreSQL, and makes orgstore.NewStore hand out the mock shim.
	MockMode bool `env:"MOCK_MODE" envDefault:"true"`

	MockConfig
	RemoteConfig
	PostgresConfig
}

func NewConfig() (*Config, error) {
	config := &Config{}

	err := env.Parse(config)
	if err != nil {
		err = fmt.Errorf("config.NewConfig: %w", err)
	}
	return config, err
}

type MockConfig struct {
	MockDBPath string `env:"MOCK_DB_PATH" envDefault:"careportal_mock.db"`

	// Artificial latency bounds, pacing the mock store like a network
	// round-trip. Set both to zero to disable.
	MockLatencyMinMs int `env:"MOCK_LATENCY_MIN_MS" envDefault:"80"`
	MockLatencyMaxMs int `env:"MOCK_LATENCY_MAX_MS" envDefault:"100"`
}

func NewMockConfig() (*MockConfig, error) {
	config := &MockConfig{}

	err := env.Parse(config)
	if err != nil {
		err = fmt.Errorf("config.NewMockConfig: %w", err)
	}
	return config, err
}

type RemoteConfig struct {
	APIBaseURL    string `env:"API_BASE_URL" envDefault:"http://localhost:8080"`
	APITimeoutSec int    `env:"API_TIMEOUT_SEC" envDefault:"30"`
}

type PostgresConfig struct {
	Conn            string `env:"POSTGRES_CONN" envDefault:"postgres://test:test@db:5432/test?sslmode=disable"`
	AutoMigrateUp   string `env:"AUTO_MIGRATE_UP" envDefault:"true"`
	AutoMigrateDown string `env:"AUTO_MIGRATE_DOWN" envDefault:"false"`
	MigrationsURL   string `env:"MIGRATIONS_URL" envDefault:"file://internal/repository/db/migrations"`
}

func NewPostgresConfig() (*PostgresConfig, error) {
	config := &PostgresConfig{}

	err := env.Parse(config)
	if err != nil {
		err = fmt.Errorf("config.NewPostgresConfig: %w", err)
	}
	return config, err
}
