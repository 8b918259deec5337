package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	Storage StorageConfig `yaml:"storage"`
	Auth    AuthConfig    `yaml:"auth"`
}

type HTTPConfig struct {
	Address string `yaml:"address"`
}

type StorageConfig struct {
	// Dir holds flights.txt, customers.txt and bookings.txt.
	Dir string `yaml:"dir"`
}

type AuthConfig struct {
	AdminUsername     string `yaml:"admin_username"`
	AdminPassword     string `yaml:"admin_password"`
	SessionTTLMinutes int    `yaml:"session_ttl_minutes"`
}

func (a AuthConfig) SessionTTL() time.Duration {
	return time.Duration(a.SessionTTLMinutes) * time.Minute
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.HTTP.Address == "" {
		cfg.HTTP.Address = ":8080"
	}
	if cfg.Storage.Dir == "" {
		cfg.Storage.Dir = "./data"
	}
	if cfg.Auth.SessionTTLMinutes <= 0 {
		cfg.Auth.SessionTTLMinutes = 60
	}

	return &cfg, nil
}
