package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config is the central typed configuration struct.
type Config struct {
	App  AppConfig
	Scan ScanConfig
	Log  LogConfig
}

type AppConfig struct {
	Name        string
	Env         string // local | production | testing
	Debug       bool
	Port        string
	ContextPath string // prefix stripped from every request path before matching
}

// ScanConfig names the package root the component scanner starts from.
type ScanConfig struct {
	Package string
}

type LogConfig struct {
	Level  string // debug | info | warn | error
	Format string // text | json
}

// Load reads .env (if present) and populates a Config from environment variables.
// When APP_CONFIG points at an HCL file it is decoded first and the
// environment is layered on top; a file that cannot be read or decoded is
// an error.
// Call once at bootstrap: cfg, err := config.Load()
func Load(envFiles ...string) (*Config, error) {
	loadEnv(envFiles)

	if path := os.Getenv("APP_CONFIG"); path != "" {
		return fromFile(path)
	}
	cfg := Defaults()
	overlayEnv(cfg)
	return cfg, nil
}

// Defaults returns the configuration used when nothing is set.
func Defaults() *Config {
	return &Config{
		App: AppConfig{
			Name:  "GoMVC",
			Env:   "local",
			Debug: true,
			Port:  "8000",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

func loadEnv(envFiles []string) {
	files := envFiles
	if len(files) == 0 {
		files = []string{".env"}
	}
	// Non-fatal: .env may not exist in production
	_ = godotenv.Load(files...)
}

// overlayEnv replaces every field whose environment variable is set.
func overlayEnv(cfg *Config) {
	cfg.App.Name = env("APP_NAME", cfg.App.Name)
	cfg.App.Env = env("APP_ENV", cfg.App.Env)
	cfg.App.Debug = envBool("APP_DEBUG", cfg.App.Debug)
	cfg.App.Port = env("APP_PORT", cfg.App.Port)
	cfg.App.ContextPath = normalizeContextPath(env("APP_CONTEXT_PATH", cfg.App.ContextPath))
	cfg.Scan.Package = strings.Trim(env("SCAN_PACKAGE", cfg.Scan.Package), "/")
	cfg.Log.Level = strings.ToLower(env("LOG_LEVEL", cfg.Log.Level))
	cfg.Log.Format = strings.ToLower(env("LOG_FORMAT", cfg.Log.Format))
}

// normalizeContextPath turns "shop/", "/shop" and "shop" into "/shop"; "/" becomes "".
func normalizeContextPath(p string) string {
	p = strings.Trim(strings.TrimSpace(p), "/")
	if p == "" {
		return ""
	}
	return "/" + p
}

// Get returns a raw env value, falling back to defaultVal.
func Get(key, defaultVal string) string {
	return env(key, defaultVal)
}

// GetInt returns an int env value.
func GetInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

// GetBool returns a bool env value.
func GetBool(key string, defaultVal bool) bool {
	return envBool(key, defaultVal)
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
