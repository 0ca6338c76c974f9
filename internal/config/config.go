package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName           string
	AppEnv            string
	AppPort           string
	DatabaseURL       string
	RedisURL          string
	NATSURL           string
	JWTSecret         string
	AuthRequired      bool
	AggregateCacheTTL time.Duration
	PollInterval      time.Duration
	StreamKeepAlive   time.Duration
	NotifyChannelBase string
	SeedEnabled       bool
	SeedToken         string
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("SAP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "SAP Mentor API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("aggregate.cache_ttl", "5m")
	v.SetDefault("poll.interval", "10s")
	v.SetDefault("stream.keepalive", "30s")
	v.SetDefault("notify.channel", "sap:mentor")
	v.SetDefault("auth.required", true)

	ttl, err := parseDurationSetting(v.GetString("aggregate.cache_ttl"), 5*time.Minute)
	if err != nil {
		return Config{}, fmt.Errorf("invalid aggregate cache ttl: %w", err)
	}

	pollInterval, err := parseDurationSetting(v.GetString("poll.interval"), 10*time.Second)
	if err != nil {
		return Config{}, fmt.Errorf("invalid poll interval: %w", err)
	}

	keepAlive, err := parseDurationSetting(v.GetString("stream.keepalive"), 30*time.Second)
	if err != nil {
		return Config{}, fmt.Errorf("invalid stream keepalive: %w", err)
	}

	cfg := Config{
		AppName:           v.GetString("app.name"),
		AppEnv:            v.GetString("app.env"),
		AppPort:           v.GetString("app.port"),
		DatabaseURL:       v.GetString("database.url"),
		RedisURL:          v.GetString("redis.url"),
		NATSURL:           v.GetString("nats.url"),
		JWTSecret:         v.GetString("jwt.secret"),
		AuthRequired:      v.GetBool("auth.required"),
		AggregateCacheTTL: ttl,
		PollInterval:      pollInterval,
		StreamKeepAlive:   keepAlive,
		NotifyChannelBase: v.GetString("notify.channel"),
		SeedEnabled:       v.GetBool("seed.enabled"),
		SeedToken:         v.GetString("seed.token"),
	}

	if cfg.AuthRequired && cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided when auth is required")
	}

	return cfg, nil
}

func parseDurationSetting(value string, fallback time.Duration) (time.Duration, error) {
	if strings.TrimSpace(value) == "" {
		return fallback, nil
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, err
	}
	if parsed <= 0 {
		return fallback, nil
	}
	return parsed, nil
}
