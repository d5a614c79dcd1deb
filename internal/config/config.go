package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/goliatone/go-tripform/pkg/sheets"
)

// Config holds all configuration values.
type Config struct {
	AppPort  string `mapstructure:"APP_PORT"`
	Env      string `mapstructure:"ENV"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	// Spreadsheet endpoint.
	SheetsEndpoint string        `mapstructure:"SHEETS_ENDPOINT"`
	SheetsAction   string        `mapstructure:"SHEETS_ACTION"`
	SheetsPath     string        `mapstructure:"SHEETS_PATH"`
	RequestTimeout time.Duration `mapstructure:"REQUEST_TIMEOUT"`

	// Form behaviour.
	StatusTTL    time.Duration `mapstructure:"STATUS_TTL"`
	SessionTTL   time.Duration `mapstructure:"SESSION_TTL"`
	LabelVariant string        `mapstructure:"LABEL_VARIANT"`

	// Theme selection.
	ThemeName    string `mapstructure:"THEME_NAME"`
	ThemeVariant string `mapstructure:"THEME_VARIANT"`
	ThemeBrand   string `mapstructure:"THEME_BRAND"`
}

// Keys lists every configuration key.
var Keys = []string{
	"APP_PORT", "ENV", "LOG_LEVEL",
	"SHEETS_ENDPOINT", "SHEETS_ACTION", "SHEETS_PATH", "REQUEST_TIMEOUT",
	"STATUS_TTL", "SESSION_TTL", "LABEL_VARIANT",
	"THEME_NAME", "THEME_VARIANT", "THEME_BRAND",
}

// Option tweaks how configuration is loaded.
type Option func(*viper.Viper)

// WithConfigFile reads an explicit file instead of searching for config.yaml.
func WithConfigFile(path string) Option {
	return func(v *viper.Viper) {
		if path = strings.TrimSpace(path); path != "" {
			v.SetConfigFile(path)
		}
	}
}

// WithOverride sets a value that wins over file and environment.
func WithOverride(key string, value any) Option {
	return func(v *viper.Viper) {
		v.Set(key, value)
	}
}

// Load reads config.yaml from the working directory or ./config, applies
// environment overrides and defaults, and validates the result. A missing
// config file is not an error.
func Load(options ...Option) (Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AutomaticEnv()
	for _, key := range Keys {
		_ = v.BindEnv(key)
	}
	setDefaults(v)

	for _, opt := range options {
		if opt != nil {
			opt(v)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("config: read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("SHEETS_ENDPOINT", sheets.DefaultEndpoint)
	v.SetDefault("SHEETS_ACTION", sheets.DefaultAction)
	v.SetDefault("SHEETS_PATH", sheets.DefaultPath)
	v.SetDefault("REQUEST_TIMEOUT", sheets.DefaultTimeout)
	v.SetDefault("STATUS_TTL", 5*time.Second)
	v.SetDefault("SESSION_TTL", 30*time.Minute)
	v.SetDefault("LABEL_VARIANT", "required")
	v.SetDefault("THEME_NAME", "")
	v.SetDefault("THEME_VARIANT", "")
	v.SetDefault("THEME_BRAND", "")
}

// Validate checks the values that would otherwise fail later at startup.
func (c Config) Validate() error {
	if strings.TrimSpace(c.SheetsEndpoint) == "" {
		return errors.New("config: SHEETS_ENDPOINT is required")
	}
	if c.StatusTTL <= 0 {
		return fmt.Errorf("config: STATUS_TTL must be positive, got %s", c.StatusTTL)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("config: SESSION_TTL must be positive, got %s", c.SessionTTL)
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("config: REQUEST_TIMEOUT must not be negative, got %s", c.RequestTimeout)
	}
	switch strings.ToLower(strings.TrimSpace(c.LabelVariant)) {
	case "", "required", "optional":
	default:
		return fmt.Errorf("config: LABEL_VARIANT must be required or optional, got %q", c.LabelVariant)
	}
	return nil
}

// IsProduction reports whether the service runs in production mode.
func (c Config) IsProduction() bool {
	return strings.EqualFold(strings.TrimSpace(c.Env), "production")
}

// Addr returns the listen address for the HTTP server.
func (c Config) Addr() string {
	port := strings.TrimSpace(c.AppPort)
	if strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}
