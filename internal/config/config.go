package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime settings. Everything comes from environment
// variables so the same binary works in Docker, CI, and local dev; a .env
// file is honored when present.
type Config struct {
	Port            string
	DatabasePath    string
	DefaultLanguage string

	CacheTTL          time.Duration
	CacheDisabled     bool
	TranslateDisabled bool

	AdminKey       string
	AdminRateRPS   float64
	AdminRateBurst int

	ExportsDir     string
	AllowedOrigins []string
}

// Load reads configuration from the environment and validates it.
func Load() (*Config, error) {
	// .env is optional; env vars provided by the runtime win anyway.
	_ = godotenv.Load()

	cfg := &Config{
		Port:              getEnv("PORT", "8080"),
		DatabasePath:      getEnv("DATABASE_PATH", "./data/translations.db"),
		DefaultLanguage:   strings.ToLower(strings.TrimSpace(getEnv("DEFAULT_LANGUAGE", "en"))),
		CacheDisabled:     getBoolEnv("TRANSLATION_CACHE_DISABLE"),
		TranslateDisabled: getBoolEnv("TRANSLATE_DISABLE"),
		AdminKey:          os.Getenv("ADMIN_KEY"),
		ExportsDir:        getEnv("EXPORTS_DIR", "./data/exports"),
	}

	ttlSeconds, err := getIntEnv("TRANSLATION_CACHE_TTL", 3600)
	if err != nil {
		return nil, err
	}
	cfg.CacheTTL = time.Duration(ttlSeconds) * time.Second

	rps, err := getIntEnv("ADMIN_RATE_LIMIT", 10)
	if err != nil {
		return nil, err
	}
	cfg.AdminRateRPS = float64(rps)
	cfg.AdminRateBurst = rps * 2

	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
			}
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	for _, r := range c.Port {
		if r < '0' || r > '9' {
			return fmt.Errorf("config: PORT must be numeric, got %q", c.Port)
		}
	}
	if c.DefaultLanguage == "" {
		return fmt.Errorf("config: DEFAULT_LANGUAGE cannot be empty")
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("config: TRANSLATION_CACHE_TTL must be positive")
	}
	if c.AdminRateRPS <= 0 {
		return fmt.Errorf("config: ADMIN_RATE_LIMIT must be positive")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getBoolEnv(key string) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "1", "true", "yes", "y":
		return true
	}
	return false
}

func getIntEnv(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s must be an integer, got %q", key, v)
	}
	return n, nil
}
