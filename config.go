package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const devJWTSecret = "dev-insecure-secret-change" // development fallback

// Config is read from the environment. A local .env file is loaded first
// without overwriting variables that are already set.
type Config struct {
	DSN         string
	AutoMigrate bool
	SeedRoles   bool
	ListenAddr  string
	JWTSecret   []byte
	LogLevel    string

	RedisAddrs    []string
	RedisPassword string
	RedisCluster  bool
	CacheTTL      time.Duration

	KafkaBrokers []string
	KafkaTopic   string
}

func loadConfig() (*Config, error) {
	_ = godotenv.Load() // no .env is fine

	cfg := &Config{
		DSN:           strings.TrimSpace(os.Getenv("DB_DSN")),
		AutoMigrate:   envBool("DB_AUTO_MIGRATE", true),
		SeedRoles:     envBool("SEED_ROLES", true),
		ListenAddr:    envString("LISTEN_ADDR", ":8081"),
		JWTSecret:     []byte(envString("JWT_SECRET", devJWTSecret)),
		LogLevel:      envString("LOG_LEVEL", "info"),
		RedisAddrs:    envList("REDIS_ADDRS"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisCluster:  envBool("REDIS_CLUSTER", false),
		KafkaBrokers:  envList("KAFKA_BROKERS"),
		KafkaTopic:    envString("KAFKA_TOPIC", "roles.events"),
	}

	ttl, err := time.ParseDuration(envString("CACHE_TTL", "5m"))
	if err != nil {
		return nil, fmt.Errorf("CACHE_TTL: %w", err)
	}
	cfg.CacheTTL = ttl
	return cfg, nil
}

// requireDSN is checked by commands that talk to the database.
func (c *Config) requireDSN() error {
	if c.DSN == "" {
		return errors.New("DB_DSN is not set. This service requires a Postgres DSN in DB_DSN")
	}
	return nil
}

func envString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envBool(key string, def bool) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	switch v {
	case "":
		return def
	case "false", "0", "no", "off":
		return false
	default:
		return true
	}
}

func envList(key string) []string {
	var out []string
	for _, p := range strings.Split(os.Getenv(key), ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
