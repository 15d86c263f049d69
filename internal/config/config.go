package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config содержит настройки приложения
type Config struct {
	Server   ServerConfig   `envPrefix:"SERVER_"`
	Database DatabaseConfig `envPrefix:"DB_"`
	Log      LogConfig      `envPrefix:"LOG_"`
}

// ServerConfig - настройки HTTP сервера
type ServerConfig struct {
	Port         string        `env:"PORT" envDefault:"8080"`
	ReadTimeout  time.Duration `env:"READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout time.Duration `env:"WRITE_TIMEOUT" envDefault:"15s"`
	IdleTimeout  time.Duration `env:"IDLE_TIMEOUT" envDefault:"60s"`
}

// DatabaseConfig - настройки подключения к БД
type DatabaseConfig struct {
	Driver          string `env:"DRIVER" envDefault:"postgres"`
	Host            string `env:"HOST" envDefault:"localhost"`
	Port            string `env:"PORT" envDefault:"5432"`
	User            string `env:"USER" envDefault:"postgres"`
	Password        string `env:"PASSWORD" envDefault:"postgres"`
	DBName          string `env:"NAME" envDefault:"organogram"`
	SSLMode         string `env:"SSLMODE" envDefault:"disable"`
	SQLitePath      string `env:"SQLITE_PATH" envDefault:"organogram.db"`
	ConnectAttempts int    `env:"CONNECT_ATTEMPTS" envDefault:"30"`
}

// LogConfig - настройки логирования
type LogConfig struct {
	Level  slog.Level `env:"LEVEL" envDefault:"INFO"`
	Format string     `env:"FORMAT" envDefault:"json"`
}

// DSN возвращает строку подключения к PostgreSQL
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// Dialect возвращает имя диалекта миграций для выбранного драйвера
func (c *DatabaseConfig) Dialect() string {
	if c.Driver == DriverSQLite {
		return "sqlite3"
	}
	return "postgres"
}

// Load загружает конфигурацию из переменных окружения.
// Файлы .env подхватываются, если существуют; уже заданные переменные не перезаписываются.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", file, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q, use %q or %q", c.Database.Driver, DriverPostgres, DriverSQLite)
	}
	if c.Log.Format != "json" && c.Log.Format != "text" {
		return fmt.Errorf("unsupported LOG_FORMAT %q, use \"json\" or \"text\"", c.Log.Format)
	}
	if c.Database.ConnectAttempts < 1 {
		return fmt.Errorf("DB_CONNECT_ATTEMPTS must be positive, got %d", c.Database.ConnectAttempts)
	}
	return nil
}
