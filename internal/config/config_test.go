package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Fatalf("addr = %s", cfg.Server.Addr)
	}
	if cfg.DB.Driver != "sqlite" {
		t.Fatalf("driver = %s", cfg.DB.Driver)
	}
	if len(cfg.CORS.Origins) != 1 || cfg.CORS.Origins[0] != "http://localhost:3000" {
		t.Fatalf("origins = %v", cfg.CORS.Origins)
	}
	if cfg.TokenTTL() != 8*time.Hour {
		t.Fatalf("token ttl = %s", cfg.TokenTTL())
	}
	if cfg.RedisTTL() != 5*time.Minute {
		t.Fatalf("redis ttl = %s", cfg.RedisTTL())
	}
}

func TestLoadYAMLWithEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
server:
  addr: ":9090"
db:
  driver: postgres
  dsn: postgres://localhost/quizport
auth:
  token_ttl: 1h
redis:
  ttl: 30s
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("HTTP_ADDR", ":7070")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Addr != ":7070" {
		t.Fatalf("env override lost: addr = %s", cfg.Server.Addr)
	}
	if cfg.DB.Driver != "postgres" || cfg.DB.DSN != "postgres://localhost/quizport" {
		t.Fatalf("db = %+v", cfg.DB)
	}
	if cfg.TokenTTL() != time.Hour {
		t.Fatalf("token ttl = %s", cfg.TokenTTL())
	}
	if cfg.RedisTTL() != 30*time.Second {
		t.Fatalf("redis ttl = %s", cfg.RedisTTL())
	}
	want := []string{"https://a.example", "https://b.example"}
	if len(cfg.CORS.Origins) != 2 || cfg.CORS.Origins[0] != want[0] || cfg.CORS.Origins[1] != want[1] {
		t.Fatalf("origins = %v", cfg.CORS.Origins)
	}
}

func TestBadTTLFallsBack(t *testing.T) {
	var cfg Config
	cfg.Auth.TokenTTL = "not-a-duration"
	if cfg.TokenTTL() != 8*time.Hour {
		t.Fatalf("ttl = %s, want fallback", cfg.TokenTTL())
	}
}
