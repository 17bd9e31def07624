package config

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/m04kA/SportBook-BookingService/internal/domain"
)

// Config конфигурация сервиса
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Logs     LogsConfig     `toml:"logs"`
	Metrics  MetricsConfig  `toml:"metrics"`
	Booking  BookingConfig  `toml:"booking"`
	Midtrans MidtransConfig `toml:"midtrans"`
	SMTP     SMTPConfig     `toml:"smtp"`
	Ticket   TicketConfig   `toml:"ticket"`
}

// ServerConfig настройки HTTP сервера
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`     // секунды
	WriteTimeout    int `toml:"write_timeout"`    // секунды
	IdleTimeout     int `toml:"idle_timeout"`     // секунды
	ShutdownTimeout int `toml:"shutdown_timeout"` // секунды
}

// DatabaseConfig настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

// DSN возвращает строку подключения к PostgreSQL
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsConfig настройки prometheus-метрик
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	ServiceName string `toml:"service_name"`
	Path        string `toml:"path"`
}

// BookingConfig бизнес-настройки бронирования
type BookingConfig struct {
	// Фиксированная бизнес-таймзона для определения "сегодня" и прошедших слотов
	Timezone string `toml:"timezone"`
}

// MidtransConfig настройки платежного шлюза
type MidtransConfig struct {
	ServerKey  string `toml:"server_key"`
	Production bool   `toml:"production"`
}

// SMTPConfig настройки отправки почты
type SMTPConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	Username string `toml:"username"`
	Password string `toml:"password"`
	From     string `toml:"from"`
}

// TicketConfig настройки рендеринга e-ticket
type TicketConfig struct {
	// Путь к TTF шрифту с поддержкой UTF-8. Опционален: при отсутствии
	// или нечитаемости используется встроенный шрифт PDF
	FontPath string `toml:"font_path"`
}

// Load читает конфигурацию из TOML файла
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to decode %s: %w", path, err)
	}

	applyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Booking.Timezone == "" {
		cfg.Booking.Timezone = domain.DefaultBusinessTimezone
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
	if cfg.Logs.Level == "" {
		cfg.Logs.Level = "info"
	}
}

func validate(cfg *Config) error {
	if cfg.Server.HTTPPort <= 0 {
		return fmt.Errorf("config: server.http_port must be positive")
	}
	if cfg.Database.Host == "" {
		return fmt.Errorf("config: database.host is required")
	}
	if cfg.Logs.File == "" {
		return fmt.Errorf("config: logs.file is required")
	}
	if cfg.Midtrans.ServerKey == "" {
		return fmt.Errorf("config: midtrans.server_key is required")
	}
	return nil
}
