package utils

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Booking  BookingConfig
	Storage  StorageConfig
	Metrics  MetricsConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
	Migrate  bool
}

// BookingConfig holds the tenancy defaults used when seating a student.
type BookingConfig struct {
	// ProgramEnd is the default end date of a new booking until it is closed.
	ProgramEnd time.Time
}

// StorageConfig bounds every storage attempt and the single retry after it.
type StorageConfig struct {
	Timeout      time.Duration
	RetryBackoff time.Duration
}

type MetricsConfig struct {
	Enabled bool
}

const DateLayout = "2006-01-02"

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("APP_NAME", "dormitory-backend")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("DB_MIGRATE", true)
	viper.SetDefault("BOOKING_PROGRAM_END", "2024-06-30")
	viper.SetDefault("STORAGE_TIMEOUT", "5s")
	viper.SetDefault("STORAGE_RETRY_BACKOFF", "200ms")
	viper.SetDefault("METRICS_ENABLED", true)

	if err := viper.ReadInConfig(); err != nil {
		// Running without a .env file is fine, everything can come from the environment.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	viper.AutomaticEnv()

	programEnd, err := time.Parse(DateLayout, viper.GetString("BOOKING_PROGRAM_END"))
	if err != nil {
		return nil, fmt.Errorf("parse BOOKING_PROGRAM_END: %w", err)
	}

	config := &Config{
		App: AppConfig{
			Name:    viper.GetString("APP_NAME"),
			Port:    viper.GetString("PORT"),
			Debug:   viper.GetBool("DEBUG"),
			LogPath: viper.GetString("LOG_PATH"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASS"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
			Migrate:  viper.GetBool("DB_MIGRATE"),
		},
		Booking: BookingConfig{
			ProgramEnd: programEnd,
		},
		Storage: StorageConfig{
			Timeout:      viper.GetDuration("STORAGE_TIMEOUT"),
			RetryBackoff: viper.GetDuration("STORAGE_RETRY_BACKOFF"),
		},
		Metrics: MetricsConfig{
			Enabled: viper.GetBool("METRICS_ENABLED"),
		},
	}

	return config, nil
}
