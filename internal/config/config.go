package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/rebeliceyang/lazygrid/internal/logger"
	"github.com/rebeliceyang/lazygrid/internal/models"
	"github.com/spf13/viper"
)

const appName = "lazygrid"

// Config holds all application configuration
type Config struct {
	General  GeneralConfig  `mapstructure:"general"`
	Data     DataConfig     `mapstructure:"data"`
	Views    ViewsConfig    `mapstructure:"views"`
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
}

type GeneralConfig struct {
	RegistryPath string `mapstructure:"registry_path"`
	DefaultTable string `mapstructure:"default_table"`
	Theme        string `mapstructure:"theme" validate:"oneof=default catppuccin-mocha"`
}

type DataConfig struct {
	DefaultPageSize      int `mapstructure:"default_page_size" validate:"gt=0"`
	MaxPageSize          int `mapstructure:"max_page_size" validate:"gtefield=DefaultPageSize"`
	MaxCellDisplayLength int `mapstructure:"max_cell_display_length" validate:"gt=0"`
}

type ViewsConfig struct {
	Backend string `mapstructure:"backend" validate:"oneof=yaml sqlite"`
	Path    string `mapstructure:"path"`
}

type DatabaseConfig struct {
	DSN            string `mapstructure:"dsn"`
	MaxConns       int32  `mapstructure:"max_conns" validate:"gte=0"`
	QueryTimeoutMS int    `mapstructure:"query_timeout_ms" validate:"gte=0"`
}

type LogConfig struct {
	Level         string `mapstructure:"level" validate:"oneof=trace debug info warn error"`
	HumanReadable bool   `mapstructure:"human_readable"`
	File          string `mapstructure:"file"`
	MaxSizeMB     int    `mapstructure:"max_size_mb" validate:"gte=0"`
	MaxBackups    int    `mapstructure:"max_backups" validate:"gte=0"`
}

// GetDefaults returns a Config with all default values
func GetDefaults() *Config {
	return &Config{
		General: GeneralConfig{
			RegistryPath: "",
			DefaultTable: "crm.contacts",
			Theme:        "default",
		},
		Data: DataConfig{
			DefaultPageSize:      25,
			MaxPageSize:          500,
			MaxCellDisplayLength: 50,
		},
		Views: ViewsConfig{
			Backend: "yaml",
		},
		Database: DatabaseConfig{
			MaxConns:       5,
			QueryTimeoutMS: 30000,
		},
		Log: LogConfig{
			Level:         "info",
			HumanReadable: true,
			MaxSizeMB:     10,
			MaxBackups:    3,
		},
	}
}

func setDefaults(v *viper.Viper) {
	d := GetDefaults()
	v.SetDefault("general.registry_path", d.General.RegistryPath)
	v.SetDefault("general.default_table", d.General.DefaultTable)
	v.SetDefault("general.theme", d.General.Theme)
	v.SetDefault("data.default_page_size", d.Data.DefaultPageSize)
	v.SetDefault("data.max_page_size", d.Data.MaxPageSize)
	v.SetDefault("data.max_cell_display_length", d.Data.MaxCellDisplayLength)
	v.SetDefault("views.backend", d.Views.Backend)
	v.SetDefault("views.path", d.Views.Path)
	v.SetDefault("database.dsn", d.Database.DSN)
	v.SetDefault("database.max_conns", d.Database.MaxConns)
	v.SetDefault("database.query_timeout_ms", d.Database.QueryTimeoutMS)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.human_readable", d.Log.HumanReadable)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("log.max_size_mb", d.Log.MaxSizeMB)
	v.SetDefault("log.max_backups", d.Log.MaxBackups)
}

// Load loads configuration from the default locations. A missing config file is
// not an error.
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile loads configuration from path, or from the default locations when
// path is empty. Values are overridden by LAZYGRID_* environment variables; a
// .env file in the working directory is read first.
func LoadFile(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		if configDir, err := GetConfigPath(); err == nil {
			v.AddConfigPath(configDir)
		}
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	setDefaults(v)
	v.SetEnvPrefix("LAZYGRID")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.Views.Path = cfg.Views.resolvedPath()

	return &cfg, nil
}

// Validate checks the loaded values against their constraints
func (c *Config) Validate() error {
	err := validator.New().Struct(c)
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if errors.As(err, &ves) {
		fe := ves[0]
		return fmt.Errorf("invalid config: %s failed validation for tag '%s': %w", fieldName(fe), fe.Tag(), err)
	}
	return fmt.Errorf("invalid config: %w", err)
}

// fieldName renders a validator namespace like Config.Data.MaxPageSize as data.maxpagesize
func fieldName(fe validator.FieldError) string {
	parts := strings.Split(fe.StructNamespace(), ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	for i, part := range parts {
		parts[i] = strings.ToLower(part)
	}
	return strings.Join(parts, ".")
}

func (c ViewsConfig) resolvedPath() string {
	if c.Path != "" {
		return c.Path
	}
	name := "views.yaml"
	if c.Backend == "sqlite" {
		name = "views.db"
	}
	if dir, err := GetConfigPath(); err == nil {
		return filepath.Join(dir, name)
	}
	return name
}

// ConnectionConfig returns the pool settings of the database section
func (c DatabaseConfig) ConnectionConfig() models.ConnectionConfig {
	return models.ConnectionConfig{
		DSN:            c.DSN,
		MaxConns:       c.MaxConns,
		QueryTimeout:   time.Duration(c.QueryTimeoutMS) * time.Millisecond,
		ApplicationTag: appName,
	}
}

// LoggerOptions returns the logger settings of the log section
func (c LogConfig) LoggerOptions() logger.Options {
	return logger.Options{
		Level:         c.Level,
		HumanReadable: c.HumanReadable,
		File:          c.File,
		MaxSizeMB:     c.MaxSizeMB,
		MaxBackups:    c.MaxBackups,
	}
}

// GetConfigPath returns the user config directory path
func GetConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, appName), nil
}
