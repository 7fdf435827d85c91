// Package config loads service configuration from defaults, an optional
// nomina.yaml file, a .env file and NOMINA_* environment variables, in that
// order of increasing precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/bradycnk/Nominaft/generic"
	"github.com/bradycnk/Nominaft/payroll"
)

// Environment constants
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Rate     RateConfig     `mapstructure:"rate"`
	Payroll  PayrollConfig  `mapstructure:"payroll"`
	Events   EventsConfig   `mapstructure:"events"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Environment     string        `mapstructure:"environment"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
}

// DatabaseConfig holds the SQLite location. ":memory:" is accepted.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// RateConfig controls the official exchange-rate refresh.
type RateConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	URL      string        `mapstructure:"url"`
	Interval time.Duration `mapstructure:"interval"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// PayrollConfig seeds pay_parameters on first start. Once the row exists
// the stored values win.
type PayrollConfig struct {
	ExchangeRate          string `mapstructure:"exchange_rate"`
	MealVoucherUSD        string `mapstructure:"meal_voucher_usd"`
	MinimumWageVES        string `mapstructure:"minimum_wage_ves"`
	BaseVacationDays      int    `mapstructure:"base_vacation_days"`
	AnnualProfitShareDays int    `mapstructure:"annual_profit_share_days"`
	PeriodDays            int    `mapstructure:"period_days"`
}

// EventsConfig configures the AMQP publisher. An empty URL disables it.
type EventsConfig struct {
	AMQPURL  string `mapstructure:"amqp_url"`
	Exchange string `mapstructure:"exchange"`
}

// IsProductionLike returns true for staging and production.
func (c *Config) IsProductionLike() bool {
	env := strings.ToLower(c.Server.Environment)
	return env == EnvStaging || env == EnvProduction
}

// Validate checks values that would otherwise fail late.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port out of range: %d", c.Server.Port))
	}
	if c.Database.Path == "" {
		errs = append(errs, errors.New("database.path is required"))
	}
	if c.Rate.Enabled && c.Rate.Interval <= 0 {
		errs = append(errs, errors.New("rate.interval must be positive when rate refresh is enabled"))
	}
	for key, value := range map[string]string{
		"payroll.exchange_rate":    c.Payroll.ExchangeRate,
		"payroll.meal_voucher_usd": c.Payroll.MealVoucherUSD,
		"payroll.minimum_wage_ves": c.Payroll.MinimumWageVES,
	} {
		d, err := decimal.NewFromString(value)
		if err != nil || d.IsNegative() {
			errs = append(errs, fmt.Errorf("%s must be a non-negative decimal, got %q", key, value))
		}
	}
	if c.Payroll.PeriodDays <= 0 {
		errs = append(errs, errors.New("payroll.period_days must be positive"))
	}
	if c.IsProductionLike() && c.Database.Path == ":memory:" {
		errs = append(errs, errors.New("in-memory database not allowed in "+c.Server.Environment))
	}
	return errors.Join(errs...)
}

// Load reads .env (if present) and builds the configuration.
func Load() (*Config, error) {
	// a missing .env is normal outside development
	_ = godotenv.Load()
	return load(viper.New(), "./config", ".")
}

func load(v *viper.Viper, paths ...string) (*Config, error) {
	setDefaults(v)

	v.SetEnvPrefix("NOMINA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("nomina")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Server.Environment = strings.ToLower(cfg.Server.Environment)
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.environment", EnvDevelopment)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.shutdown_timeout", 30*time.Second)
	v.SetDefault("server.allowed_origins", []string{"*"})

	v.SetDefault("database.path", "./data/nomina.db")

	v.SetDefault("rate.enabled", false)
	v.SetDefault("rate.url", "https://ve.dolarapi.com/v1/dolares/oficial")
	v.SetDefault("rate.interval", 6*time.Hour)
	v.SetDefault("rate.timeout", 10*time.Second)

	v.SetDefault("payroll.exchange_rate", "36.5")
	v.SetDefault("payroll.meal_voucher_usd", "40")
	v.SetDefault("payroll.minimum_wage_ves", "130")
	v.SetDefault("payroll.base_vacation_days", 15)
	v.SetDefault("payroll.annual_profit_share_days", 30)
	v.SetDefault("payroll.period_days", 15)

	v.SetDefault("events.amqp_url", "")
	v.SetDefault("events.exchange", "nomina.events")
}

// Parameters converts the payroll defaults into the seed parameter row.
func (c PayrollConfig) Parameters() (payroll.Parameters, error) {
	rate, err := decimal.NewFromString(c.ExchangeRate)
	if err != nil {
		return payroll.Parameters{}, fmt.Errorf("payroll.exchange_rate: %w", err)
	}
	meal, err := decimal.NewFromString(c.MealVoucherUSD)
	if err != nil {
		return payroll.Parameters{}, fmt.Errorf("payroll.meal_voucher_usd: %w", err)
	}
	wage, err := decimal.NewFromString(c.MinimumWageVES)
	if err != nil {
		return payroll.Parameters{}, fmt.Errorf("payroll.minimum_wage_ves: %w", err)
	}
	return payroll.Parameters{
		ExchangeRate:          rate,
		MealVoucherForeign:    generic.NewAmountFromDecimal(meal, generic.UnitUSD),
		MinimumWage:           generic.NewAmountFromDecimal(wage, generic.UnitVES),
		BaseVacationDays:      c.BaseVacationDays,
		AnnualProfitShareDays: c.AnnualProfitShareDays,
	}, nil
}
