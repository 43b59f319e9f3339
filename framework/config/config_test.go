package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-mvc/framework/config"
)

// ── helpers ──────────────────────────────────────────────────────────────────

var managedKeys = []string{
	"APP_NAME", "APP_ENV", "APP_DEBUG", "APP_PORT", "APP_CONTEXT_PATH",
	"SCAN_PACKAGE", "LOG_LEVEL", "LOG_FORMAT", "APP_CONFIG",
}

// clearEnv blanks every key the loader reads; env() treats "" as unset.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range managedKeys {
		t.Setenv(k, "")
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func load(t *testing.T, envFiles ...string) *config.Config {
	t.Helper()
	cfg, err := config.Load(envFiles...)
	require.NoError(t, err)
	return cfg
}

// ── Load ─────────────────────────────────────────────────────────────────────

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg := load(t, filepath.Join(t.TempDir(), "missing.env"))

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"App.Name", cfg.App.Name, "GoMVC"},
		{"App.Env", cfg.App.Env, "local"},
		{"App.Port", cfg.App.Port, "8000"},
		{"App.ContextPath", cfg.App.ContextPath, ""},
		{"Scan.Package", cfg.Scan.Package, ""},
		{"Log.Level", cfg.Log.Level, "info"},
		{"Log.Format", cfg.Log.Format, "text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
	assert.True(t, cfg.App.Debug)
}

func TestLoad_EnvOverridesDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_NAME", "Shop")
	t.Setenv("APP_ENV", "production")
	t.Setenv("APP_PORT", "9000")
	t.Setenv("SCAN_PACKAGE", "github.com/acme/shop/web/")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg := load(t)

	assert.Equal(t, "Shop", cfg.App.Name)
	assert.Equal(t, "production", cfg.App.Env)
	assert.Equal(t, "9000", cfg.App.Port)
	assert.Equal(t, "github.com/acme/shop/web", cfg.Scan.Package)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_ContextPathNormalized(t *testing.T) {
	for _, raw := range []string{"shop", "/shop", "shop/", "//shop//"} {
		t.Run(raw, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("APP_CONTEXT_PATH", raw)
			assert.Equal(t, "/shop", load(t).App.ContextPath)
		})
	}
}

func TestLoad_DotEnvFile(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "app.env", "SCAN_PACKAGE=github.com/acme/demo\nAPP_PORT=7070\n")
	// godotenv does not override variables that already exist, even when empty.
	os.Unsetenv("SCAN_PACKAGE")
	os.Unsetenv("APP_PORT")
	t.Cleanup(func() {
		os.Unsetenv("SCAN_PACKAGE")
		os.Unsetenv("APP_PORT")
	})

	cfg := load(t, path)

	assert.Equal(t, "github.com/acme/demo", cfg.Scan.Package)
	assert.Equal(t, "7070", cfg.App.Port)
}

func TestLoad_AppDebugFalse(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_DEBUG", "false")
	assert.False(t, load(t).App.Debug)
}

func TestLoad_PicksUpAppConfigFile(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "app.hcl", `scan { package = "github.com/acme/from-file" }`)
	t.Setenv("APP_CONFIG", path)

	assert.Equal(t, "github.com/acme/from-file", load(t).Scan.Package)
}

func TestLoad_BrokenAppConfigFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_CONFIG", writeFile(t, "bad.hcl", `app {`))

	cfg, err := config.Load()
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoad_MissingAppConfigFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_CONFIG", filepath.Join(t.TempDir(), "nope.hcl"))

	_, err := config.Load()
	assert.Error(t, err)
}

// ── LoadFile ─────────────────────────────────────────────────────────────────

func TestLoadFile_DecodesBlocks(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "app.hcl", `
app {
  name         = "shop"
  debug        = false
  port         = 8181
  context_path = "shop"
}

scan {
  package = "github.com/acme/shop/web"
}

log {
  level  = "warn"
  format = "json"
}
`)

	cfg, err := config.LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "shop", cfg.App.Name)
	assert.False(t, cfg.App.Debug)
	assert.Equal(t, "8181", cfg.App.Port)
	assert.Equal(t, "/shop", cfg.App.ContextPath)
	assert.Equal(t, "github.com/acme/shop/web", cfg.Scan.Package)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "local", cfg.App.Env, "unset attributes keep defaults")
}

func TestLoadFile_EnvReferences(t *testing.T) {
	clearEnv(t)
	t.Setenv("SHOP_PORT", "6060")
	path := writeFile(t, "app.hcl", `app { port = env.SHOP_PORT }`)

	cfg, err := config.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "6060", cfg.App.Port)
}

func TestLoadFile_EnvironmentWins(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_PORT", "9999")
	path := writeFile(t, "app.hcl", `app { port = "1111" }`)

	cfg, err := config.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "9999", cfg.App.Port)
}

func TestLoadFile_Errors(t *testing.T) {
	clearEnv(t)

	t.Run("syntax", func(t *testing.T) {
		_, err := config.LoadFile(writeFile(t, "bad.hcl", `app {`))
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := config.LoadFile(filepath.Join(t.TempDir(), "nope.hcl"))
		assert.Error(t, err)
	})

	t.Run("scan block without package", func(t *testing.T) {
		_, err := config.LoadFile(writeFile(t, "scan.hcl", `scan {}`))
		assert.Error(t, err)
	})
}

// ── Get / GetInt / GetBool ───────────────────────────────────────────────────

func TestGet_ReturnsValue(t *testing.T) {
	t.Setenv("CUSTOM_KEY", "hello")
	assert.Equal(t, "hello", config.Get("CUSTOM_KEY", "default"))
}

func TestGet_ReturnsFallback(t *testing.T) {
	t.Setenv("MISSING_KEY", "")
	assert.Equal(t, "fallback", config.Get("MISSING_KEY", "fallback"))
}

func TestGetInt(t *testing.T) {
	t.Setenv("SOME_INT", "42")
	assert.Equal(t, 42, config.GetInt("SOME_INT", 0))

	t.Setenv("SOME_INT", "notanint")
	assert.Equal(t, 99, config.GetInt("SOME_INT", 99))
}

func TestGetBool(t *testing.T) {
	for _, val := range []string{"true", "1", "True", "TRUE"} {
		t.Setenv("BOOL_KEY", val)
		assert.True(t, config.GetBool("BOOL_KEY", false), val)
	}

	t.Setenv("BOOL_KEY", "notabool")
	assert.True(t, config.GetBool("BOOL_KEY", true))
}
