package main

import (
	"fmt"
	"strings"
	"time"

	"habitflow/internal/repository"
	"habitflow/internal/scheduler"

	"github.com/spf13/viper"
)

const (
	configPath   = "./"
	configName   = "config"
	configFormat = "yaml"
)

type Config struct {
	Database  repository.Config `yaml:"database"`
	Server    ServerConfig      `yaml:"server"`
	Auth      AuthConfig        `yaml:"auth"`
	Scheduler scheduler.Config  `yaml:"scheduler"`
	Missions  MissionsConfig    `yaml:"missions"`

	LogLevel string `yaml:"logLevel"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

type AuthConfig struct {
	JWTSecret string        `yaml:"jwtSecret"`
	TokenTTL  time.Duration `yaml:"tokenTTL"`
}

type MissionsConfig struct {
	DeliveryFromHour int    `yaml:"deliveryFromHour"`
	DeliveryToHour   int    `yaml:"deliveryToHour"`
	InactivityDays   int    `yaml:"inactivityDays"`
	SeedFile         string `yaml:"seedFile"`
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName(configName)
	viper.AddConfigPath(configPath)
	viper.SetConfigType(configFormat)

	viper.AutomaticEnv()
	viper.SetEnvPrefix("APP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	viper.SetDefault("auth.tokenTTL", 24*time.Hour)
	viper.SetDefault("scheduler.assignmentInterval", 2*time.Minute)
	viper.SetDefault("scheduler.expirationInterval", 2*time.Minute)
	viper.SetDefault("scheduler.deactivationInterval", time.Hour)
	viper.SetDefault("missions.deliveryFromHour", 10)
	viper.SetDefault("missions.deliveryToHour", 22)
	viper.SetDefault("missions.inactivityDays", 30)
	viper.SetDefault("logLevel", "info")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("auth.jwtSecret must be set")
	}
	if cfg.Missions.DeliveryFromHour < 0 || cfg.Missions.DeliveryToHour > 23 ||
		cfg.Missions.DeliveryFromHour > cfg.Missions.DeliveryToHour {
		return nil, fmt.Errorf("invalid mission delivery window [%d, %d]",
			cfg.Missions.DeliveryFromHour, cfg.Missions.DeliveryToHour)
	}

	return &cfg, nil
}
