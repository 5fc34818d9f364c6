package cli

import (
	"context"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/kitforge/kitforge/pkg/cache"
	"github.com/kitforge/kitforge/pkg/errors"
	"github.com/kitforge/kitforge/pkg/fonts"
	"github.com/kitforge/kitforge/pkg/points"
	"github.com/kitforge/kitforge/pkg/studio"
	"github.com/kitforge/kitforge/pkg/template"
)

// appName is the application name used for config/cache directories.
const appName = "kitforge"

// Config is the on-disk CLI configuration, read from
// ~/.config/kitforge/config.toml (or the --config override).
type Config struct {
	Points   PointsConfig   `toml:"points"`
	Template TemplateConfig `toml:"template"`
	Fonts    FontsConfig    `toml:"fonts"`
	Export   ExportConfig   `toml:"export"`
}

// PointsConfig selects the points collaborator. With no URL the studio
// runs offline against a static balance.
type PointsConfig struct {
	URL            string `toml:"url"`
	APIKey         string `toml:"api_key"`
	OfflineBalance int    `toml:"offline_balance"`
}

// TemplateConfig selects the template store backend.
type TemplateConfig struct {
	Backend  string `toml:"backend"` // file (default), redis, mongo, memory
	Path     string `toml:"path"`    // file backend override
	RedisURL string `toml:"redis_addr"`
	MongoURI string `toml:"mongo_uri"`
}

// FontsConfig points at additional font directories.
type FontsConfig struct {
	Dirs []string `toml:"dirs"`
}

// ExportConfig carries export defaults.
type ExportConfig struct {
	Dir     string `toml:"dir"`
	Quality string `toml:"quality"`
}

// defaultConfigPath returns ~/.config/kitforge/config.toml, honoring
// XDG_CONFIG_HOME.
func defaultConfigPath() string {
	if cfgHome := os.Getenv("XDG_CONFIG_HOME"); cfgHome != "" {
		return filepath.Join(cfgHome, appName, "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appName, "config.toml")
}

// loadConfig reads the TOML config at path. A missing file yields the
// zero config without error; a malformed one fails.
func loadConfig(path string) (Config, error) {
	var cfg Config
	if path == "" {
		path = defaultConfigPath()
	}
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	return cfg, nil
}

// newStore builds the template store the config names.
func (c Config) newStore(ctx context.Context) (template.Store, error) {
	switch c.Template.Backend {
	case "", "file":
		return template.NewFileStore(c.Template.Path)
	case "redis":
		return template.NewRedisStore(ctx, template.RedisConfig{Addr: c.Template.RedisURL})
	case "mongo":
		return template.NewMongoStore(ctx, template.MongoConfig{URI: c.Template.MongoURI})
	case "memory":
		return template.NewMemoryStore(), nil
	}
	return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown template backend %q", c.Template.Backend)
}

// newPoints builds the points collaborator: the HTTP client when a URL
// is configured, a static offline balance otherwise.
func (c Config) newPoints() points.Service {
	if c.Points.URL != "" {
		return points.NewClient(c.Points.URL, c.Points.APIKey)
	}
	return points.NewStatic(&points.User{ID: "offline"}, c.Points.OfflineBalance)
}

// newStudioConfig assembles the full session config.
func (c Config) newStudioConfig(ctx context.Context, logger *log.Logger) (studio.Config, error) {
	store, err := c.newStore(ctx)
	if err != nil {
		return studio.Config{}, err
	}

	var byteCache cache.Cache = cache.NewNullCache()
	if dir, err := cacheDir(); err == nil {
		if fc, err := cache.NewFileCache(dir); err == nil {
			byteCache = fc
		}
	}

	outDir := c.Export.Dir
	if outDir == "" {
		outDir = "."
	}

	return studio.Config{
		Store:  store,
		Points: c.newPoints(),
		Cache:  byteCache,
		Fonts:  fonts.NewLibrary(c.Fonts.Dirs...),
		OutDir: outDir,
		Logger: logger,
		Notify: func(msg string) { printWarning("%s", msg) },
	}, nil
}

// cacheDir returns the cache directory using XDG standard (~/.cache/kitforge/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
