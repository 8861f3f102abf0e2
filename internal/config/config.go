package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/validator"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// ErrInvalidConfig возвращается, если значения конфигурации некорректны
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config конфигурация сервиса
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Logs     LogsConfig     `toml:"logs"`
	Metrics  MetricsConfig  `toml:"metrics"`
	Catalog  CatalogConfig  `toml:"catalog"`
	Booking  BookingConfig  `toml:"booking"`
}

// ServerConfig настройки HTTP сервера (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
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

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file"` // пусто = stdout
	Level string `toml:"level"`
}

// MetricsConfig настройки Prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// CatalogConfig адрес сервиса каталога (бизнесы, услуги, сотрудники)
type CatalogConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"` // секунды
}

// TimeoutDuration таймаут запросов к каталогу
func (c CatalogConfig) TimeoutDuration() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// BookingConfig платформенные лимиты бронирования
type BookingConfig struct {
	Timezone         string          `toml:"timezone"`
	MaxAdvanceDays   int             `toml:"max_advance_days"`
	MaxDailyBookings int             `toml:"max_daily_bookings"`
	SlotStepMinutes  int             `toml:"slot_step_minutes"`
	TxMaxRetries     int             `toml:"tx_max_retries"`
	ShopHours        ShopHoursConfig `toml:"shop_hours"`
}

// ShopHoursConfig общие для платформы часы работы, поверх часов каждого бизнеса
type ShopHoursConfig struct {
	Enabled        bool     `toml:"enabled"`
	Open           string   `toml:"open"`
	Close          string   `toml:"close"`
	ClosedWeekdays []string `toml:"closed_weekdays"`
	Holidays       []string `toml:"holidays"` // YYYY-MM-DD
}

// Load загружает конфигурацию из TOML файла, применяет значения по умолчанию
// и переменные окружения (DB_PASSWORD, DB_HOST, CATALOG_URL), затем валидирует
func Load(path string) (*Config, error) {
	cfg := defaults()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config file %s: %w", path, err)
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    15,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{Level: "info"},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "appointment_service",
		},
		Catalog: CatalogConfig{Timeout: 5},
		Booking: BookingConfig{
			Timezone:         "UTC",
			MaxAdvanceDays:   domain.DefaultMaxAdvanceDays,
			MaxDailyBookings: domain.DefaultMaxDailyBookings,
			SlotStepMinutes:  domain.DefaultSlotStepMinutes,
			TxMaxRetries:     3,
			ShopHours: ShopHoursConfig{
				Open:           "08:00",
				Close:          "20:00",
				ClosedWeekdays: []string{"sunday"},
			},
		},
	}
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("CATALOG_URL"); v != "" {
		cfg.Catalog.URL = v
	}
}

// Validate проверяет значения конфигурации
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port must be in 1..65535, got %d", ErrInvalidConfig, c.Server.HTTPPort)
	}
	if c.Database.DBName == "" {
		return fmt.Errorf("%w: database.dbname is required", ErrInvalidConfig)
	}
	if c.Catalog.URL == "" {
		return fmt.Errorf("%w: catalog.url is required", ErrInvalidConfig)
	}
	if c.Booking.MaxAdvanceDays < 0 {
		return fmt.Errorf("%w: booking.max_advance_days must not be negative", ErrInvalidConfig)
	}
	if c.Booking.MaxDailyBookings < 0 {
		return fmt.Errorf("%w: booking.max_daily_bookings must not be negative", ErrInvalidConfig)
	}
	if c.Booking.SlotStepMinutes < domain.MinSlotStepMinutes || c.Booking.SlotStepMinutes > domain.MaxSlotStepMinutes {
		return fmt.Errorf("%w: booking.slot_step_minutes must be in %d..%d", ErrInvalidConfig,
			domain.MinSlotStepMinutes, domain.MaxSlotStepMinutes)
	}
	if c.Booking.TxMaxRetries < 0 {
		return fmt.Errorf("%w: booking.tx_max_retries must not be negative", ErrInvalidConfig)
	}
	if _, err := c.Booking.Policy(); err != nil {
		return err
	}
	return nil
}

// Defaults лимиты платформы, к которым применяются переопределения бизнеса
func (b BookingConfig) Defaults() domain.EffectiveLimits {
	return domain.EffectiveLimits{
		MaxAdvanceDays:   b.MaxAdvanceDays,
		MaxDailyBookings: b.MaxDailyBookings,
		SlotStepMinutes:  b.SlotStepMinutes,
	}
}

// Policy собирает политику валидатора из секции [booking]
func (b BookingConfig) Policy() (validator.Policy, error) {
	loc, err := time.LoadLocation(b.Timezone)
	if err != nil {
		return validator.Policy{}, fmt.Errorf("%w: booking.timezone %q: %v", ErrInvalidConfig, b.Timezone, err)
	}

	policy := validator.Policy{
		MaxAdvanceDays:   b.MaxAdvanceDays,
		MaxDailyBookings: b.MaxDailyBookings,
		Location:         loc,
	}

	if !b.ShopHours.Enabled {
		return policy, nil
	}

	shop, err := b.ShopHours.build(loc)
	if err != nil {
		return validator.Policy{}, err
	}
	policy.ShopHours = shop

	return policy, nil
}

func (s ShopHoursConfig) build(loc *time.Location) (*validator.ShopHours, error) {
	open, err := types.ParseClockTime(s.Open)
	if err != nil {
		return nil, fmt.Errorf("%w: booking.shop_hours.open: %v", ErrInvalidConfig, err)
	}
	closeAt, err := types.ParseClockTime(s.Close)
	if err != nil {
		return nil, fmt.Errorf("%w: booking.shop_hours.close: %v", ErrInvalidConfig, err)
	}
	hours, err := types.NewClockRange(open, closeAt)
	if err != nil {
		return nil, fmt.Errorf("%w: booking.shop_hours: %v", ErrInvalidConfig, err)
	}

	shop := &validator.ShopHours{Hours: hours}

	for _, name := range s.ClosedWeekdays {
		day, ok := domain.ParseWeekday(name)
		if !ok {
			return nil, fmt.Errorf("%w: booking.shop_hours.closed_weekdays: unknown weekday %q", ErrInvalidConfig, name)
		}
		shop.ClosedWeekdays = append(shop.ClosedWeekdays, day)
	}

	for _, raw := range s.Holidays {
		date, err := time.ParseInLocation(domain.DateFormat, raw, loc)
		if err != nil {
			return nil, fmt.Errorf("%w: booking.shop_hours.holidays: %q: %v", ErrInvalidConfig, raw, err)
		}
		shop.Holidays = append(shop.Holidays, date)
	}

	return shop, nil
}
