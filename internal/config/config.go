package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the process-level settings read from the environment.
type Config struct {
	DatabaseURL    string
	DatabaseDriver string
	Port           string
	JWTSecret      string
	SessionTTL     time.Duration
	LogLevel       string
	LogFormat      string
	MigrationsPath string
	SiteConfigPath string
}

// Load reads configuration from the environment. Call godotenv.Load before
// this if a .env file should be honoured.
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		DatabaseDriver: getenvDefault("DB_DRIVER", "postgres"),
		Port:           getenvDefault("PORT", "8080"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		LogLevel:       getenvDefault("LOG_LEVEL", "info"),
		LogFormat:      getenvDefault("LOG_FORMAT", "json"),
		MigrationsPath: getenvDefault("MIGRATIONS_PATH", "migrations"),
		SiteConfigPath: os.Getenv("SITE_CONFIG"),
	}

	hours := 24
	if raw := os.Getenv("JWT_EXPIRY_HOURS"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid JWT_EXPIRY_HOURS %q", raw)
		}
		hours = n
	}
	cfg.SessionTTL = time.Duration(hours) * time.Hour

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL not set in environment or .env file")
	}
	switch cfg.DatabaseDriver {
	case "postgres", "sqlite":
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DatabaseDriver)
	}

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// Site is the build-time configuration of the web front end.
type Site struct {
	Images       ImagesConfig       `yaml:"images"`
	Build        BuildConfig        `yaml:"build"`
	Experimental ExperimentalConfig `yaml:"experimental"`
}

// ImagesConfig lists the external hosts allowed as image sources.
type ImagesConfig struct {
	RemoteHosts []string `yaml:"remote_hosts"`
}

// BuildConfig mirrors the error suppression switches of the front end build.
type BuildConfig struct {
	// IgnoreTemplateErrors lets the server start with templates that fail
	// to parse; affected pages fall back to the generic error page.
	IgnoreTemplateErrors bool `yaml:"ignore_template_errors"`
	IgnoreLintErrors     bool `yaml:"ignore_lint_errors"`
}

// ExperimentalConfig gates features that are not enabled by default.
type ExperimentalConfig struct {
	ServerActions   bool `yaml:"server_actions"`
	ImageUploadSize int  `yaml:"image_upload_max_mb"`
}

// DefaultSite returns the settings used when no site file is configured.
func DefaultSite() *Site {
	return &Site{
		Images: ImagesConfig{
			RemoteHosts: []string{
				"lh3.googleusercontent.com",
				"avatars.githubusercontent.com",
				"images.unsplash.com",
			},
		},
		Experimental: ExperimentalConfig{
			ImageUploadSize: 10,
		},
	}
}

// LoadSite reads the YAML site file at path. An empty path yields the
// defaults.
func LoadSite(path string) (*Site, error) {
	site := DefaultSite()
	if path == "" {
		return site, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read site config: %w", err)
	}
	if err := yaml.Unmarshal(data, site); err != nil {
		return nil, fmt.Errorf("failed to parse site config %s: %w", path, err)
	}
	if site.Experimental.ImageUploadSize <= 0 {
		site.Experimental.ImageUploadSize = 10
	}
	return site, nil
}
