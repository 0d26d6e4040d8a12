package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	JWT       JWTConfig       `yaml:"jwt"`
	Realtime  RealtimeConfig  `yaml:"realtime"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Firebase  FirebaseConfig  `yaml:"firebase"`
}

type ServerConfig struct {
	Port         string        `yaml:"port"`
	Env          string        `yaml:"env"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

type DatabaseConfig struct {
	Driver          string        `yaml:"driver"` // mysql | postgres | sqlite
	DSN             string        `yaml:"dsn"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

type JWTConfig struct {
	AccessSecret string        `yaml:"access_secret"`
	AccessExpiry time.Duration `yaml:"access_expiry"`
	Issuer       string        `yaml:"issuer"`
}

// RealtimeConfig controls the websocket chat transport. RedisURL is optional; when set,
// room broadcasts are relayed through Redis so several API instances share rooms.
type RealtimeConfig struct {
	RedisURL       string `yaml:"redis_url"`
	SendBufferSize int    `yaml:"send_buffer_size"`
}

type RateLimitConfig struct {
	RequestsPerWindow int           `yaml:"requests_per_window"`
	MessagesPerWindow int           `yaml:"messages_per_window"`
	Window            time.Duration `yaml:"window"`
}

type FirebaseConfig struct {
	ServiceAccountPath string `yaml:"service_account_path"`
}

// Load returns the defaults, overlaid by the YAML file named in SHELTER_CONFIG (if any),
// overlaid by environment variables.
func Load() (*Config, error) {
	cfg := Default()
	if path := os.Getenv("SHELTER_CONFIG"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         "8080",
			Env:          "development",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			Driver:          "mysql",
			DSN:             "shelter:shelter@tcp(localhost:3306)/shelter_connect?charset=utf8mb4&parseTime=True&loc=Local",
			MaxIdleConns:    10,
			MaxOpenConns:    100,
			ConnMaxLifetime: time.Hour,
		},
		JWT: JWTConfig{
			AccessSecret: "change-me-in-production",
			AccessExpiry: 24 * time.Hour,
			Issuer:       "shelter-connect",
		},
		Realtime: RealtimeConfig{
			SendBufferSize: 256,
		},
		RateLimit: RateLimitConfig{
			RequestsPerWindow: 100,
			MessagesPerWindow: 30,
			Window:            60 * time.Second,
		},
	}
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	setString(&c.Server.Port, "PORT")
	setString(&c.Server.Env, "APP_ENV")
	setString(&c.Database.Driver, "DB_DRIVER")
	setString(&c.Database.DSN, "DATABASE_DSN")
	setString(&c.JWT.AccessSecret, "JWT_ACCESS_SECRET")
	setString(&c.Realtime.RedisURL, "REDIS_URL")
	setString(&c.Firebase.ServiceAccountPath, "FIREBASE_SERVICE_ACCOUNT_PATH")
	setInt(&c.RateLimit.RequestsPerWindow, "RATE_LIMIT_REQUESTS")
	setInt(&c.RateLimit.MessagesPerWindow, "RATE_LIMIT_MESSAGES")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	if n, err := strconv.Atoi(v); err == nil {
		*dst = n
	}
}
