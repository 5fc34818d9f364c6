package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/kitforge/kitforge/pkg/errors"
	"github.com/kitforge/kitforge/pkg/points"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := loadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("missing config should not error: %v", err)
	}
	if cfg.Template.Backend != "" {
		t.Errorf("zero config expected, got %+v", cfg)
	}
}

func TestLoadConfigParses(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[points]
url = "https://points.example.com"
api_key = "secret"

[template]
backend = "redis"
redis_addr = "localhost:6379"

[export]
dir = "/tmp/out"
quality = "ultra"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if cfg.Points.URL != "https://points.example.com" || cfg.Points.APIKey != "secret" {
		t.Errorf("points config = %+v", cfg.Points)
	}
	if cfg.Template.Backend != "redis" || cfg.Template.RedisURL != "localhost:6379" {
		t.Errorf("template config = %+v", cfg.Template)
	}
	if cfg.Export.Quality != "ultra" {
		t.Errorf("export config = %+v", cfg.Export)
	}
}

func TestLoadConfigMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[points\nbroken"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := loadConfig(path)
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("error = %v, want INVALID_CONFIG", err)
	}
}

func TestNewStoreUnknownBackend(t *testing.T) {
	cfg := Config{Template: TemplateConfig{Backend: "etcd"}}
	_, err := cfg.newStore(context.Background())
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("error = %v, want INVALID_CONFIG", err)
	}
}

func TestNewPointsOffline(t *testing.T) {
	cfg := Config{Points: PointsConfig{OfflineBalance: 25}}
	svc := cfg.newPoints()
	static, ok := svc.(*points.Static)
	if !ok {
		t.Fatalf("offline service = %T, want *points.Static", svc)
	}
	if bal, _ := static.Balance(context.Background()); bal != 25 {
		t.Errorf("balance = %d, want 25", bal)
	}
}
