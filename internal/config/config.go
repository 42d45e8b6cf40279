package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig   `mapstructure:"server"`
	Database  DatabaseConfig `mapstructure:"database"`
	Cache     CacheConfig    `mapstructure:"cache"`
	Sections  SectionsConfig `mapstructure:"sections"`
	Uploads   UploadsConfig  `mapstructure:"uploads"`
	JWTSecret string         `mapstructure:"jwt_secret"`
}

type ServerConfig struct {
	Port int `mapstructure:"port"`
}

type DatabaseConfig struct {
	Driver   string `mapstructure:"driver"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	PoolSize int    `mapstructure:"pool_size"`
	Path     string `mapstructure:"path"` // directory for SQLite database files
}

// CacheConfig controls the display-name resolver cache.
type CacheConfig struct {
	TTLSeconds int `mapstructure:"ttl_seconds"`
	MaxEntries int `mapstructure:"max_entries"`
}

// SectionsConfig controls section loading.
type SectionsConfig struct {
	InitialCount  int `mapstructure:"initial_count"`   // sections inlined in the first response
	BatchSize     int `mapstructure:"batch_size"`      // sections per load-more request
	CardLimit     int `mapstructure:"card_limit"`      // rows per section card
	PageSize      int `mapstructure:"page_size"`       // rows per page on the full-data endpoint
	SearchLimit   int `mapstructure:"search_limit"`    // max matches per section
	FKOptionLimit int `mapstructure:"fk_option_limit"` // max entries in a FK option list
}

// UploadsConfig controls attachment storage.
type UploadsConfig struct {
	Path      string `mapstructure:"path"`
	MaxSizeMB int64  `mapstructure:"max_size_mb"`
}

// DSN returns the driver-specific data source name.
func (d DatabaseConfig) DSN() string {
	if d.Driver == "sqlite" {
		return d.Path + "/" + d.Name + ".db"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		d.User, d.Password, d.Host, d.Port, d.Name)
}

// IsSQLite returns true if the driver is sqlite.
func (d DatabaseConfig) IsSQLite() bool {
	return d.Driver == "sqlite"
}

func Load() (*Config, error) {
	viper.SetConfigName("app")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("../..")

	viper.SetDefault("server.port", 8080)
	viper.SetDefault("database.driver", "postgres")
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.pool_size", 10)
	viper.SetDefault("database.path", "./data")
	viper.SetDefault("cache.ttl_seconds", 300)
	viper.SetDefault("cache.max_entries", 10000)
	viper.SetDefault("sections.initial_count", 3)
	viper.SetDefault("sections.batch_size", 3)
	viper.SetDefault("sections.card_limit", 20)
	viper.SetDefault("sections.page_size", 50)
	viper.SetDefault("sections.search_limit", 10)
	viper.SetDefault("sections.fk_option_limit", 100)
	viper.SetDefault("uploads.path", "./uploads")
	viper.SetDefault("uploads.max_size_mb", 25)
	viper.SetDefault("jwt_secret", "changeme-secret")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// Missing config file is fine; defaults and env cover everything.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}
