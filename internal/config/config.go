package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xxxsen/common/logger"
)

type Config struct {
	Port        int              `json:"port"`
	JWTSecret   string           `json:"jwt_secret"`
	JWTTTLHours int              `json:"jwt_ttl_hours"`
	Database    DatabaseConfig   `json:"database"`
	Mail        MailConfig       `json:"mail"`
	Session     SessionConfig    `json:"session"`
	RateLimit   RateLimitConfig  `json:"rate_limit"`
	CORSOrigins []string         `json:"cors_origins"`
	LogConfig   logger.LogConfig `json:"log_config"`
}

type DatabaseConfig struct {
	DSN      string `json:"dsn"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	DBName   string `json:"dbname"`
	SSLMode  string `json:"sslmode"`
}

type MailConfig struct {
	Host         string `json:"host"`
	Port         int    `json:"port"`
	Username     string `json:"username"`
	Password     string `json:"password"`
	From         string `json:"from"`
	FromName     string `json:"from_name"`
	QueueSize    int    `json:"queue_size"`
	Workers      int    `json:"workers"`
	SendTimeoutS int    `json:"send_timeout_seconds"`
}

type SessionConfig struct {
	// Backend is "redis" or "memory".
	Backend     string `json:"backend"`
	RedisAddr   string `json:"redis_addr"`
	RedisPass   string `json:"redis_password"`
	RedisDB     int    `json:"redis_db"`
	IdleMinutes int    `json:"idle_minutes"`
	MemorySize  int    `json:"memory_size"`
}

type RateLimitConfig struct {
	PerMinute int `json:"per_minute"`
	Burst     int `json:"burst"`
}

func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("jwt_secret is required")
	}
	if cfg.Port == 0 {
		return nil, fmt.Errorf("port is required")
	}
	if cfg.Database.DSN == "" && cfg.Database.Host == "" {
		return nil, fmt.Errorf("database.dsn or database.host is required")
	}
	if cfg.JWTTTLHours == 0 {
		cfg.JWTTTLHours = 72
	}
	if cfg.LogConfig.Level == "" {
		cfg.LogConfig.Level = "info"
	}
	switch cfg.Session.Backend {
	case "":
		cfg.Session.Backend = "memory"
	case "redis":
		if cfg.Session.RedisAddr == "" {
			return nil, fmt.Errorf("session.redis_addr is required for redis backend")
		}
	case "memory":
	default:
		return nil, fmt.Errorf("session.backend must be redis or memory")
	}
	if cfg.Session.IdleMinutes == 0 {
		cfg.Session.IdleMinutes = 30
	}
	if cfg.RateLimit.PerMinute == 0 {
		cfg.RateLimit.PerMinute = 60
	}
	if cfg.RateLimit.Burst == 0 {
		cfg.RateLimit.Burst = 20
	}
	return &cfg, nil
}
