package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string
	Environment string
	LogLevel    string
	Database    DatabaseConfig
	Redis       RedisConfig
	Device      DeviceConfig
	SMTP        SMTPConfig
	Gateway     GatewayConfig
	SessionTTL  time.Duration
}

type DatabaseConfig struct {
	Host           string
	Port           string
	User           string
	Password       string
	DBName         string
	SSLMode        string
	MigrationsPath string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type DeviceConfig struct {
	Path string // bolt file for local-first profiles and cart snapshots
}

type SMTPConfig struct {
	Host string
	Port string
	From string
}

type GatewayConfig struct {
	BaseURL string
	APIKey  string
}

func Load() (*Config, error) {
	viper.SetConfigType("env")
	viper.SetConfigName(".env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MIGRATIONS_PATH", "file://migrations")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("DEVICE_DB_PATH", "angohost-device.db")
	viper.SetDefault("SESSION_TTL", "24h")

	// Read from environment variables
	viper.AutomaticEnv()

	// Try to read .env file (optional)
	if err := viper.ReadInConfig(); err != nil {
		// It's okay if .env doesn't exist, we'll use env vars
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	sessionTTL, err := time.ParseDuration(getEnvOrViper("SESSION_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_TTL: %w", err)
	}

	cfg := &Config{
		Port:        getEnvOrViper("PORT", "8080"),
		Environment: getEnvOrViper("ENVIRONMENT", "development"),
		LogLevel:    getEnvOrViper("LOG_LEVEL", "info"),
		Database: DatabaseConfig{
			Host:           getEnvOrViper("DB_HOST", "localhost"),
			Port:           getEnvOrViper("DB_PORT", "5432"),
			User:           getEnvOrViper("DB_USER", "postgres"),
			Password:       getEnvOrViper("DB_PASSWORD", "postgres"),
			DBName:         getEnvOrViper("DB_NAME", "angohost"),
			SSLMode:        getEnvOrViper("DB_SSLMODE", "disable"),
			MigrationsPath: getEnvOrViper("MIGRATIONS_PATH", "file://migrations"),
		},
		Redis: RedisConfig{
			Addr:     getEnvOrViper("REDIS_ADDR", "localhost:6379"),
			Password: getEnvOrViper("REDIS_PASSWORD", ""),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Device: DeviceConfig{
			Path: getEnvOrViper("DEVICE_DB_PATH", "angohost-device.db"),
		},
		SMTP: SMTPConfig{
			Host: getEnvOrViper("SMTP_HOST", ""),
			Port: getEnvOrViper("SMTP_PORT", "587"),
			From: getEnvOrViper("SMTP_FROM", "no-reply@angohost.ao"),
		},
		Gateway: GatewayConfig{
			BaseURL: getEnvOrViper("GATEWAY_BASE_URL", ""),
			APIKey:  getEnvOrViper("GATEWAY_API_KEY", ""),
		},
		SessionTTL: sessionTTL,
	}

	return cfg, nil
}

func getEnvOrViper(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	if viper.IsSet(key) {
		return viper.GetString(key)
	}
	return defaultValue
}
