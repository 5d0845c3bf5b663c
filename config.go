package pubfront

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/eringen/pubfront/richtext"
)

// SiteConfig holds all configuration for a pubfront site.
type SiteConfig struct {
	Name        string `yaml:"name"`        // Site name (default "Blog")
	URL         string `yaml:"url"`         // Canonical URL (default "http://localhost:3000")
	Description string `yaml:"description"` // Site description for RSS
	Author      string `yaml:"author"`      // Default post author

	Addr         string `yaml:"addr"`          // Listen address (default ":3000")
	DatabasePath string `yaml:"database_path"` // SQLite path (default "data/blog.db")

	AdminPassword string `yaml:"admin_password"` // Required: admin login password
	SessionSecret string `yaml:"session_secret"` // Required: session encryption secret
	PreviewSecret string `yaml:"preview_secret"` // Token accepted by /api/preview; empty disables preview
	CookieSecure  bool   `yaml:"cookie_secure"`  // Set true for HTTPS

	PostCacheTTL time.Duration `yaml:"post_cache_ttl"` // Post cache TTL (default 30m)

	WordsPerMinute int    `yaml:"words_per_minute"` // Reading speed (default 200)
	WordCounting   string `yaml:"word_counting"`    // "legacy" (default) or "fields"
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Blog"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/blog.db"
	}
	if c.PostCacheTTL == 0 {
		c.PostCacheTTL = 30 * time.Minute
	}
	if c.WordsPerMinute == 0 {
		c.WordsPerMinute = richtext.DefaultWordsPerMinute
	}
}

// Estimator builds the reading-time estimator described by the config.
func (c SiteConfig) Estimator() (richtext.Estimator, error) {
	count, ok := richtext.CounterByName(c.WordCounting)
	if !ok {
		return richtext.Estimator{}, fmt.Errorf("pubfront: unknown word counting %q", c.WordCounting)
	}
	wpm := c.WordsPerMinute
	if wpm == 0 {
		wpm = richtext.DefaultWordsPerMinute
	}
	if wpm < 0 {
		return richtext.Estimator{}, fmt.Errorf("pubfront: words per minute: %w", richtext.ErrInvalidArgument)
	}
	return richtext.Estimator{WordsPerMinute: wpm, Count: count}, nil
}

// LoadConfig reads an optional YAML file at path and then applies
// environment overrides. A missing file is not an error. Defaults are
// applied last.
func LoadConfig(path string) (SiteConfig, error) {
	var cfg SiteConfig
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return SiteConfig{}, fmt.Errorf("pubfront: read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return SiteConfig{}, fmt.Errorf("pubfront: parse config %s: %w", path, err)
			}
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return SiteConfig{}, err
	}
	cfg.setDefaults()
	return cfg, nil
}

func applyEnv(cfg *SiteConfig) error {
	strs := map[string]*string{
		"SITE_NAME":        &cfg.Name,
		"SITE_URL":         &cfg.URL,
		"SITE_DESCRIPTION": &cfg.Description,
		"SITE_AUTHOR":      &cfg.Author,
		"ADDR":             &cfg.Addr,
		"DATABASE_PATH":    &cfg.DatabasePath,
		"ADMIN_PASSWORD":   &cfg.AdminPassword,
		"SESSION_SECRET":   &cfg.SessionSecret,
		"PREVIEW_SECRET":   &cfg.PreviewSecret,
		"WORD_COUNTING":    &cfg.WordCounting,
	}
	for envVar, dst := range strs {
		if v := os.Getenv(envVar); v != "" {
			*dst = v
		}
	}
	if raw := os.Getenv("COOKIE_SECURE"); raw != "" {
		v, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return fmt.Errorf("pubfront: COOKIE_SECURE: %w", err)
		}
		cfg.CookieSecure = v
	}
	if raw := os.Getenv("WORDS_PER_MINUTE"); raw != "" {
		v, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return fmt.Errorf("pubfront: WORDS_PER_MINUTE: %w", err)
		}
		cfg.WordsPerMinute = v
	}
	if raw := os.Getenv("POST_CACHE_TTL"); raw != "" {
		v, err := time.ParseDuration(strings.TrimSpace(raw))
		if err != nil {
			return fmt.Errorf("pubfront: POST_CACHE_TTL: %w", err)
		}
		cfg.PostCacheTTL = v
	}
	return nil
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for user-owned static assets (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}

// WithEstimator overrides the reading-time estimator derived from SiteConfig.
func WithEstimator(e richtext.Estimator) Option {
	return func(a *App) {
		a.estimator = &e
	}
}
