package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"CryptoForecast/internal/model"
)

// DateLayout is the format of history.start and history.end.
const DateLayout = "2006-01-02"

// Config holds all application configuration.
type Config struct {
	Assets  []model.Asset `yaml:"assets" validate:"required,min=1,dive"`
	History struct {
		Start string `yaml:"start" validate:"required,datetime=2006-01-02"`
		End   string `yaml:"end" validate:"required,datetime=2006-01-02"`
	} `yaml:"history"`
	Forecast struct {
		HorizonDays int    `yaml:"horizon_days" validate:"min=1,max=3650"`
		NumPaths    int    `yaml:"num_paths" validate:"min=1,max=1000000"`
		Seed        uint64 `yaml:"seed"`
		MaxParallel int    `yaml:"max_parallel" validate:"min=1,max=64"`
	} `yaml:"forecast"`
	DataSource struct {
		Provider   string  `yaml:"provider" validate:"oneof=binance yahoo mock"`
		BaseURL    string  `yaml:"base_url" validate:"omitempty,url"`
		RatePerSec float64 `yaml:"rate_per_sec" validate:"gt=0"`
		Burst      int     `yaml:"burst" validate:"min=1"`
		MaxRetries int     `yaml:"max_retries" validate:"min=0,max=10"`
	} `yaml:"data_source"`
	Schedule struct {
		ForecastCron string `yaml:"forecast_cron" validate:"required"`
	} `yaml:"schedule"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id" validate:"required_with=BotToken"`
	} `yaml:"telegram"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Metrics struct {
		Listen string `yaml:"listen" validate:"omitempty,hostname_port"`
	} `yaml:"metrics"`
	Log struct {
		Level string `yaml:"level" validate:"oneof=trace debug info warn error"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy" validate:"omitempty,url"`
}

var validate = validator.New()

// DefaultAssets mirrors the four majors forecast out of the box.
func DefaultAssets() []model.Asset {
	return []model.Asset{
		{Symbol: "BTC", Ticker: "BTC/USDT"},
		{Symbol: "ETH", Ticker: "ETH/USDT"},
		{Symbol: "SOL", Ticker: "SOL/USDT"},
		{Symbol: "BNB", Ticker: "BNB/USDT"},
	}
}

// Load reads config from a YAML file, then applies environment variable overrides.
// A missing file is not an error; defaults fill in whatever is left unset.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if len(data) > 0 {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		c.Telegram.ChatID = v
	}
	if v := os.Getenv("DATA_SOURCE_PROVIDER"); v != "" {
		c.DataSource.Provider = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		c.Proxy = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		c.Database.SQLitePath = v
	}
	if v := os.Getenv("METRICS_LISTEN"); v != "" {
		c.Metrics.Listen = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("FORECAST_HORIZON_DAYS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("FORECAST_HORIZON_DAYS: %w", err)
		}
		c.Forecast.HorizonDays = n
	}
	if v := os.Getenv("FORECAST_NUM_PATHS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("FORECAST_NUM_PATHS: %w", err)
		}
		c.Forecast.NumPaths = n
	}
	if v := os.Getenv("FORECAST_SEED"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("FORECAST_SEED: %w", err)
		}
		c.Forecast.Seed = n
	}
	return nil
}

func (c *Config) applyDefaults() {
	if len(c.Assets) == 0 {
		c.Assets = DefaultAssets()
	}
	if c.History.Start == "" {
		c.History.Start = "2024-01-01"
	}
	if c.History.End == "" {
		c.History.End = "2024-10-12"
	}
	if c.Forecast.HorizonDays == 0 {
		c.Forecast.HorizonDays = 30
	}
	if c.Forecast.NumPaths == 0 {
		c.Forecast.NumPaths = 10000
	}
	if c.Forecast.MaxParallel == 0 {
		c.Forecast.MaxParallel = 4
	}
	if c.DataSource.Provider == "" {
		c.DataSource.Provider = "binance"
	}
	if c.DataSource.RatePerSec == 0 {
		c.DataSource.RatePerSec = 5
	}
	if c.DataSource.Burst == 0 {
		c.DataSource.Burst = 1
	}
	if c.DataSource.MaxRetries == 0 {
		c.DataSource.MaxRetries = 3
	}
	if c.Schedule.ForecastCron == "" {
		c.Schedule.ForecastCron = "0 0 1 * * *"
	}
	if c.Database.SQLitePath == "" {
		c.Database.SQLitePath = "data/crypto_forecast.db"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Validate checks field constraints and the history window.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("config field %s fails %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("validate config: %w", err)
	}

	start, end, err := c.Window()
	if err != nil {
		return err
	}
	if !end.After(start) {
		return fmt.Errorf("history.end %s must be after history.start %s", c.History.End, c.History.Start)
	}

	seen := make(map[string]bool, len(c.Assets))
	for _, a := range c.Assets {
		if seen[a.Symbol] {
			return fmt.Errorf("asset %q listed more than once", a.Symbol)
		}
		seen[a.Symbol] = true
	}
	return nil
}

// Window returns the parsed history window in UTC.
func (c *Config) Window() (start, end time.Time, err error) {
	start, err = time.ParseInLocation(DateLayout, c.History.Start, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("history.start: %w", err)
	}
	end, err = time.ParseInLocation(DateLayout, c.History.End, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("history.end: %w", err)
	}
	return start, end, nil
}

// Asset looks up a configured asset by symbol.
func (c *Config) Asset(symbol string) (model.Asset, bool) {
	for _, a := range c.Assets {
		if a.Symbol == symbol {
			return a, true
		}
	}
	return model.Asset{}, false
}
