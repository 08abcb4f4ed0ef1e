package config

import (
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Addr      string `yaml:"addr"`
		PublicURL string `yaml:"public_url"`
	} `yaml:"server"`
	DB struct {
		Driver string `yaml:"driver"` // sqlite | postgres | memory
		DSN    string `yaml:"dsn"`
	} `yaml:"db"`
	Redis struct {
		Addr     string `yaml:"addr"` // empty disables the verify cache
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Auth struct {
		HMACSecret string `yaml:"hmac_secret"`
		TokenTTL   string `yaml:"token_ttl"`
	} `yaml:"auth"`
	CORS struct {
		Origins []string `yaml:"origins"`
	} `yaml:"cors"`
}

// Load reads YAML config from path (if the file exists), then applies env
// overrides and defaults. A missing file is not an error; env-only setups
// are fine.
func Load(path string) (Config, error) {
	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, err
			}
		} else if !os.IsNotExist(err) {
			return cfg, err
		}
	}

	cfg.Server.Addr = envOr("HTTP_ADDR", defOr(cfg.Server.Addr, ":8080"))
	cfg.Server.PublicURL = envOr("PUBLIC_URL", cfg.Server.PublicURL)
	cfg.DB.Driver = envOr("DB_DRIVER", defOr(cfg.DB.Driver, "sqlite"))
	cfg.DB.DSN = envOr("DB_DSN", cfg.DB.DSN)
	cfg.Redis.Addr = envOr("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = envOr("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Auth.HMACSecret = envOr("AUTH_HMAC_SECRET", defOr(cfg.Auth.HMACSecret, "supersecret-dev-key"))
	cfg.Auth.TokenTTL = envOr("AUTH_TOKEN_TTL", cfg.Auth.TokenTTL)
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		cfg.CORS.Origins = splitCSV(v)
	}
	if len(cfg.CORS.Origins) == 0 {
		cfg.CORS.Origins = []string{"http://localhost:3000"}
	}
	return cfg, nil
}

// TokenTTL parses the configured token lifetime, falling back to 8h.
func (c Config) TokenTTL() time.Duration {
	return ttlDuration(c.Auth.TokenTTL, 8*time.Hour)
}

// RedisTTL parses the verify-cache TTL, falling back to 5m.
func (c Config) RedisTTL() time.Duration {
	return ttlDuration(c.Redis.TTL, 5*time.Minute)
}

func ttlDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func defOr(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
