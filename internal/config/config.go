package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Port                  string `yaml:"port"`
	AllowedOrigin         string `yaml:"allowed_origin"`
	DatabaseURL           string `yaml:"database_url"`
	RedisAddr             string `yaml:"redis_addr"`
	RedisPassword         string `yaml:"redis_password"`
	RedisDB               int    `yaml:"redis_db"`
	RedisKeyPrefix        string `yaml:"redis_key_prefix"`
	DataDir               string `yaml:"data_dir"`
	AuthSecret            string `yaml:"auth_secret"`
	AccessTokenTTLMinutes int    `yaml:"access_token_ttl_minutes"`
	SeedDemoData          bool   `yaml:"seed_demo_data"`
	SeedOwnerName         string `yaml:"seed_owner_name"`
	SeedOwnerPassword     string `yaml:"seed_owner_password"`
}

// Load builds the configuration from defaults, then the YAML file at path
// (skipped when path is empty), then environment variables.
func Load(path string) (Config, error) {
	cfg := Config{
		Port:                  "8080",
		AllowedOrigin:         "http://127.0.0.1:3000",
		RedisKeyPrefix:        "bankai:",
		AccessTokenTTLMinutes: 480,
		SeedOwnerName:         "admin",
	}

	if path = strings.TrimSpace(path); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.AllowedOrigin = getEnv("ALLOWED_ORIGIN", cfg.AllowedOrigin)
	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL)
	cfg.RedisAddr = getEnv("REDIS_ADDR", cfg.RedisAddr)
	cfg.RedisPassword = getEnv("REDIS_PASSWORD", cfg.RedisPassword)
	cfg.RedisKeyPrefix = getEnv("REDIS_KEY_PREFIX", cfg.RedisKeyPrefix)
	cfg.DataDir = getEnv("DATA_DIR", cfg.DataDir)
	cfg.AuthSecret = strings.TrimSpace(getEnv("AUTH_SECRET", cfg.AuthSecret))
	cfg.SeedOwnerName = getEnv("SEED_OWNER_NAME", cfg.SeedOwnerName)
	cfg.SeedOwnerPassword = getEnv("SEED_OWNER_PASSWORD", cfg.SeedOwnerPassword)

	if redisDB, err := strconv.Atoi(getEnv("REDIS_DB", strconv.Itoa(cfg.RedisDB))); err == nil {
		cfg.RedisDB = redisDB
	}
	tokenTTL, err := strconv.Atoi(getEnv("ACCESS_TOKEN_TTL_MINUTES", strconv.Itoa(cfg.AccessTokenTTLMinutes)))
	if err != nil || tokenTTL < 1 {
		tokenTTL = 480
	}
	cfg.AccessTokenTTLMinutes = tokenTTL
	if seed, err := strconv.ParseBool(getEnv("SEED_DEMO_DATA", strconv.FormatBool(cfg.SeedDemoData))); err == nil {
		cfg.SeedDemoData = seed
	}

	return cfg, nil
}

func (c Config) Address() string {
	return fmt.Sprintf(":%s", c.Port)
}

// Backend names the blob store the configuration selects.
func (c Config) Backend() string {
	switch {
	case c.DatabaseURL != "":
		return "postgres"
	case c.RedisAddr != "":
		return "redis"
	case c.DataDir != "":
		return "file"
	default:
		return "memory"
	}
}

func getEnv(key string, fallback string) string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	return val
}
