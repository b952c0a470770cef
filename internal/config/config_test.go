// FilePath: internal/config/config_test.go
package config

import (
	"testing"
	"time"
)

func validTestConfig() *Config {
	return &Config{
		Database: PostgresConfig{Host: "localhost"},
		MQTT:     MQTTConfig{Host: "localhost"},
		Retention: RetentionConfig{
			Horizon:     720 * time.Hour,
			MinInterval: 6 * time.Hour,
		},
		Analytics: AnalyticsConfig{Timezone: "UTC"},
	}
}

func TestValidateConfigAccepts(t *testing.T) {
	if err := validateConfig(validTestConfig()); err != nil {
		t.Errorf("expected valid config to pass, got %v", err)
	}
}

func TestValidateConfigRejects(t *testing.T) {
	cases := map[string]func(*Config){
		"missing database host": func(c *Config) { c.Database.Host = "" },
		"missing mqtt host":     func(c *Config) { c.MQTT.Host = "" },
		"zero horizon":          func(c *Config) { c.Retention.Horizon = 0 },
		"zero min interval":     func(c *Config) { c.Retention.MinInterval = 0 },
		"negative min interval": func(c *Config) { c.Retention.MinInterval = -time.Hour },
		"bogus timezone":        func(c *Config) { c.Analytics.Timezone = "Mars/Olympus" },
	}
	for name, mutate := range cases {
		cfg := validTestConfig()
		mutate(cfg)
		if err := validateConfig(cfg); err == nil {
			t.Errorf("%s: expected validation error", name)
		}
	}
}
