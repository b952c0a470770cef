package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the service
type Config struct {
	Server    ServerConfig
	Database  PostgresConfig `mapstructure:"database"`
	MQTT      MQTTConfig
	Redis     RedisConfig
	Retention RetentionConfig
	Analytics AnalyticsConfig
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Host            string        `mapstructure:"host"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

type MQTTConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	ClientID string `mapstructure:"client_id"`
	// TopicRoot is the prefix devices publish under, e.g. "iot/device".
	TopicRoot string `mapstructure:"topic_root"`
}

type RedisConfig struct {
	Host     string        `mapstructure:"host"`
	Port     int           `mapstructure:"port"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

type RetentionConfig struct {
	// Horizon is how long readings are kept before the purge removes them.
	Horizon time.Duration `mapstructure:"horizon"`
	// MinInterval gates how often a purge may actually run, regardless of
	// how many statistics queries trigger it.
	MinInterval time.Duration `mapstructure:"min_interval"`
}

type AnalyticsConfig struct {
	// Timezone is the reference location for hourly/daily bucket boundaries.
	Timezone     string `mapstructure:"timezone"`
	HistoryLimit int    `mapstructure:"history_limit"`
}

// Load initializes configuration from environment variables and config file
func Load() (*Config, error) {
	viper.SetEnvPrefix("IRRIHUB")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "__"))
	viper.AutomaticEnv()

	// Set defaults
	setDefaults()

	// Load config file if exists
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("config validation error: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	// Server defaults
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.read_timeout", "15s")
	viper.SetDefault("server.write_timeout", "15s")
	viper.SetDefault("server.shutdown_timeout", "30s")
	viper.SetDefault("server.allowed_origins", []string{"*"})

	// Database defaults
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.sslmode", "disable")

	// MQTT defaults
	viper.SetDefault("mqtt.port", 1883)
	viper.SetDefault("mqtt.client_id", "irrihub-ingest")
	viper.SetDefault("mqtt.topic_root", "iot/device")

	// Redis defaults
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.ttl", "5m")

	// Retention defaults
	viper.SetDefault("retention.horizon", "720h") // 30 days
	viper.SetDefault("retention.min_interval", "6h")

	// Analytics defaults
	viper.SetDefault("analytics.timezone", "UTC")
	viper.SetDefault("analytics.history_limit", 100)
}

func validateConfig(config *Config) error {
	if config.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if config.MQTT.Host == "" {
		return fmt.Errorf("mqtt broker host is required")
	}
	if config.Retention.Horizon <= 0 {
		return fmt.Errorf("retention horizon must be positive")
	}
	// The retention loop tickers on MinInterval; zero would panic it.
	if config.Retention.MinInterval <= 0 {
		return fmt.Errorf("retention min interval must be positive")
	}
	if _, err := time.LoadLocation(config.Analytics.Timezone); err != nil {
		return fmt.Errorf("invalid analytics timezone %q: %w", config.Analytics.Timezone, err)
	}
	return nil
}
