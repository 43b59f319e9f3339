package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
)

// fileSchema is the shape of an HCL settings file:
//
//	app {
//	  name         = "shop"
//	  port         = env.PORT
//	  context_path = "/shop"
//	}
//	scan { package = "github.com/acme/shop/web" }
//	log  { level = "debug" }
type fileSchema struct {
	App  *appBlock  `hcl:"app,block"`
	Scan *scanBlock `hcl:"scan,block"`
	Log  *logBlock  `hcl:"log,block"`
	Body hcl.Body   `hcl:",remain"`
}

type appBlock struct {
	Name        *string `hcl:"name,optional"`
	Env         *string `hcl:"env,optional"`
	Debug       *bool   `hcl:"debug,optional"`
	Port        *string `hcl:"port,optional"`
	ContextPath *string `hcl:"context_path,optional"`
}

type scanBlock struct {
	Package string `hcl:"package"`
}

type logBlock struct {
	Level  *string `hcl:"level,optional"`
	Format *string `hcl:"format,optional"`
}

// LoadFile decodes the HCL settings file at path, then layers the
// environment (and .env files) on top of it.
func LoadFile(path string, envFiles ...string) (*Config, error) {
	loadEnv(envFiles)
	return fromFile(path)
}

func fromFile(path string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("config: parse %s: %w", path, diags)
	}

	var schema fileSchema
	if diags := gohcl.DecodeBody(file.Body, evalContext(), &schema); diags.HasErrors() {
		return nil, fmt.Errorf("config: decode %s: %w", path, diags)
	}

	cfg := Defaults()
	schema.apply(cfg)
	overlayEnv(cfg)
	return cfg, nil
}

func (s *fileSchema) apply(cfg *Config) {
	if a := s.App; a != nil {
		set(&cfg.App.Name, a.Name)
		set(&cfg.App.Env, a.Env)
		set(&cfg.App.Port, a.Port)
		set(&cfg.App.ContextPath, a.ContextPath)
		if a.Debug != nil {
			cfg.App.Debug = *a.Debug
		}
	}
	if s.Scan != nil {
		cfg.Scan.Package = s.Scan.Package
	}
	if l := s.Log; l != nil {
		set(&cfg.Log.Level, l.Level)
		set(&cfg.Log.Format, l.Format)
	}
}

func set(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

// evalContext exposes the process environment as the "env" object.
func evalContext() *hcl.EvalContext {
	vars := make(map[string]cty.Value)
	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		vars[k] = cty.StringVal(v)
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": cty.ObjectVal(vars),
		},
	}
}
