package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	if cfg.Server.Port != 8080 {
		t.Errorf("default server.port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout != 30*time.Second {
		t.Errorf("default server.read_timeout = %v, want 30s", cfg.Server.ReadTimeout)
	}
	if cfg.Server.ShutdownTimeout != 10*time.Second {
		t.Errorf("default server.shutdown_timeout = %v, want 10s", cfg.Server.ShutdownTimeout)
	}
	if cfg.Server.Name != "molecule" {
		t.Errorf("default server.name = %q, want \"molecule\"", cfg.Server.Name)
	}
	if cfg.Locales.Default != "en" {
		t.Errorf("default locales.default = %q, want \"en\"", cfg.Locales.Default)
	}
	if cfg.RateLimit.Enabled {
		t.Error("rate limiting should be disabled by default")
	}
	if cfg.Auth.Type != "none" {
		t.Errorf("default auth.type = %q, want \"none\"", cfg.Auth.Type)
	}
	if !cfg.Observability.Metrics.Enabled || cfg.Observability.Metrics.Path != "/metrics" {
		t.Errorf("default metrics = %+v, want enabled on /metrics", cfg.Observability.Metrics)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate, got %v", err)
	}
}

func TestLoadFromYAML(t *testing.T) {
	yamlContent := `
server:
  port: 9090
  read_timeout: 60s
  max_body_size: 1024
  name: edge
locales:
  default: fr
  supported: [fr, de, en-US]
rate_limit:
  enabled: true
  rps: 2.5
  burst: 4
auth:
  type: apikey
  api_keys:
    - key: sk-one
      subject: alice
      scopes: [read, write]
observability:
  metrics:
    enabled: false
log:
  level: debug
  format: json
`
	path := writeTemp(t, "config-*.yaml", yamlContent)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("server.port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout != 60*time.Second {
		t.Errorf("server.read_timeout = %v, want 60s", cfg.Server.ReadTimeout)
	}
	if cfg.Server.MaxBodySize != 1024 {
		t.Errorf("server.max_body_size = %d, want 1024", cfg.Server.MaxBodySize)
	}
	if cfg.Server.Name != "edge" {
		t.Errorf("server.name = %q, want \"edge\"", cfg.Server.Name)
	}
	if cfg.Locales.Default != "fr" || len(cfg.Locales.Supported) != 3 {
		t.Errorf("locales = %+v, want fr with 3 supported", cfg.Locales)
	}
	if !cfg.RateLimit.Enabled || cfg.RateLimit.RPS != 2.5 || cfg.RateLimit.Burst != 4 {
		t.Errorf("rate_limit = %+v", cfg.RateLimit)
	}
	if len(cfg.Auth.APIKeys) != 1 {
		t.Fatalf("auth.api_keys length = %d, want 1", len(cfg.Auth.APIKeys))
	}
	if k := cfg.Auth.APIKeys[0]; k.Key != "sk-one" || k.Subject != "alice" || len(k.Scopes) != 2 {
		t.Errorf("auth.api_keys[0] = %+v", k)
	}
	if cfg.Observability.Metrics.Enabled {
		t.Error("metrics should be disabled")
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("log = %+v, want debug/json", cfg.Log)
	}
}

func TestEnvOverride(t *testing.T) {
	path := writeTemp(t, "config-*.yaml", `
server:
  port: 9090
log:
  level: warn
`)

	t.Setenv("MOLECULE_PORT", "7070")
	t.Setenv("MOLECULE_LOG_LEVEL", "error")
	t.Setenv("MOLECULE_SUPPORTED_LOCALES", "de, fr ,")
	t.Setenv("MOLECULE_RATE_LIMIT_ENABLED", "true")
	t.Setenv("MOLECULE_RATE_LIMIT_RPS", "20")
	t.Setenv("MOLECULE_WRITE_TIMEOUT", "5s")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Server.Port != 7070 {
		t.Errorf("server.port = %d, want 7070 (env override)", cfg.Server.Port)
	}
	if cfg.Log.Level != "error" {
		t.Errorf("log.level = %q, want \"error\" (env override)", cfg.Log.Level)
	}
	if got := strings.Join(cfg.Locales.Supported, ","); got != "de,fr" {
		t.Errorf("locales.supported = %q, want \"de,fr\"", got)
	}
	if !cfg.RateLimit.Enabled || cfg.RateLimit.RPS != 20 {
		t.Errorf("rate_limit = %+v, want enabled at 20 rps", cfg.RateLimit)
	}
	if cfg.Server.WriteTimeout != 5*time.Second {
		t.Errorf("server.write_timeout = %v, want 5s", cfg.Server.WriteTimeout)
	}
}

func TestEnvOverrideMalformed(t *testing.T) {
	t.Setenv("MOLECULE_CONFIG", "")
	t.Setenv("MOLECULE_PORT", "eighty")
	t.Setenv("MOLECULE_READ_TIMEOUT", "soon")

	_, err := Load("")
	if err == nil {
		t.Fatal("expected error for malformed env values")
	}
	for _, name := range []string{"MOLECULE_PORT", "MOLECULE_READ_TIMEOUT"} {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("error %q should name %s", err, name)
		}
	}
}

func TestEnvOverrideAPIKeys(t *testing.T) {
	t.Setenv("MOLECULE_CONFIG", "")
	t.Setenv("MOLECULE_AUTH_TYPE", "apikey")
	t.Setenv("MOLECULE_API_KEYS", `[{"key":"sk-env","subject":"svc","scopes":["admin"]}]`)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(cfg.Auth.APIKeys) != 1 || cfg.Auth.APIKeys[0].Subject != "svc" {
		t.Errorf("auth.api_keys = %+v, want one key for svc", cfg.Auth.APIKeys)
	}
}

func TestEnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	if err := os.WriteFile(envPath, []byte("MOLECULE_SERVER_NAME=from-dotenv\nMOLECULE_PORT=6060\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	prev := EnvFile
	EnvFile = envPath
	t.Cleanup(func() { EnvFile = prev })

	t.Setenv("MOLECULE_CONFIG", "")
	// Register restoration, then leave SERVER_NAME unset so the file supplies it.
	t.Setenv("MOLECULE_SERVER_NAME", "")
	os.Unsetenv("MOLECULE_SERVER_NAME")
	t.Setenv("MOLECULE_PORT", "5050")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Server.Name != "from-dotenv" {
		t.Errorf("server.name = %q, want value from .env", cfg.Server.Name)
	}
	if cfg.Server.Port != 5050 {
		t.Errorf("server.port = %d, want 5050: .env must not override the environment", cfg.Server.Port)
	}
}

func TestFileReferenceJWTSecret(t *testing.T) {
	secretFile := writeTemp(t, "secret-*", "  hmac-secret\n")
	path := writeTemp(t, "config-*.yaml", `
auth:
  type: jwt
  jwt:
    secret_file: `+secretFile+`
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Auth.JWT.Secret != "hmac-secret" {
		t.Errorf("auth.jwt.secret = %q, want trimmed file content", cfg.Auth.JWT.Secret)
	}
}

func TestFileReferenceForAPIKeys(t *testing.T) {
	keyFile := writeTemp(t, "key-*", "sk-from-file\n")
	path := writeTemp(t, "config-*.yaml", `
auth:
  type: apikey
  api_keys:
    - key_file: `+keyFile+`
      subject: bob
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Auth.APIKeys[0].Key != "sk-from-file" {
		t.Errorf("auth.api_keys[0].key = %q, want \"sk-from-file\"", cfg.Auth.APIKeys[0].Key)
	}
}

func TestFileReferenceMissing(t *testing.T) {
	path := writeTemp(t, "config-*.yaml", `
auth:
  type: jwt
  jwt:
    secret_file: /nonexistent/secret
`)

	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "auth.jwt.secret_file") {
		t.Errorf("Load() error = %v, want auth.jwt.secret_file failure", err)
	}
}

func TestFileReferenceDoesNotOverrideExplicitValue(t *testing.T) {
	secretFile := writeTemp(t, "secret-*", "from-file")
	path := writeTemp(t, "config-*.yaml", `
auth:
  type: jwt
  jwt:
    secret: explicit
    secret_file: `+secretFile+`
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Auth.JWT.Secret != "explicit" {
		t.Errorf("auth.jwt.secret = %q, want explicit value to win", cfg.Auth.JWT.Secret)
	}
}

func TestFileDiscovery(t *testing.T) {
	// Explicit path.
	explicit := writeTemp(t, "config-*.yaml", "server:\n  name: explicit\n")
	cfg, err := Load(explicit)
	if err != nil {
		t.Fatalf("Load(explicit) error: %v", err)
	}
	if cfg.Server.Name != "explicit" {
		t.Errorf("explicit path: server.name = %q", cfg.Server.Name)
	}

	// MOLECULE_CONFIG env var.
	envConfig := writeTemp(t, "envconfig-*.yaml", "server:\n  name: env-config\n")
	t.Setenv("MOLECULE_CONFIG", envConfig)
	cfg, err = Load("")
	if err != nil {
		t.Fatalf("Load(MOLECULE_CONFIG) error: %v", err)
	}
	if cfg.Server.Name != "env-config" {
		t.Errorf("MOLECULE_CONFIG: server.name = %q", cfg.Server.Name)
	}

	// No file: defaults plus env overrides.
	t.Setenv("MOLECULE_CONFIG", "")
	t.Setenv("MOLECULE_SERVER_NAME", "defaults-only")
	cfg, err = Load("")
	if err != nil {
		t.Fatalf("Load(no file) error: %v", err)
	}
	if cfg.Server.Name != "defaults-only" {
		t.Errorf("no file: server.name = %q", cfg.Server.Name)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for a missing explicit config file")
	}
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{
			name:    "invalid port",
			modify:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: "server.port must be between 1 and 65535",
		},
		{
			name:    "zero body size",
			modify:  func(c *Config) { c.Server.MaxBodySize = 0 },
			wantErr: "server.max_body_size must be > 0",
		},
		{
			name:    "bad default locale",
			modify:  func(c *Config) { c.Locales.Default = "not a tag!" },
			wantErr: "locales.default",
		},
		{
			name:    "no supported locales",
			modify:  func(c *Config) { c.Locales.Supported = nil },
			wantErr: "locales.supported must list at least one locale",
		},
		{
			name:    "bad supported locale",
			modify:  func(c *Config) { c.Locales.Supported = []string{"en", "??"} },
			wantErr: "locales.supported[1]",
		},
		{
			name: "rate limit without rps",
			modify: func(c *Config) {
				c.RateLimit.Enabled = true
				c.RateLimit.RPS = 0
			},
			wantErr: "rate_limit.rps",
		},
		{
			name:    "unknown auth type",
			modify:  func(c *Config) { c.Auth.Type = "oauth" },
			wantErr: "auth.type must be",
		},
		{
			name:    "apikey without keys",
			modify:  func(c *Config) { c.Auth.Type = "apikey" },
			wantErr: "auth.api_keys is required",
		},
		{
			name: "apikey without subject",
			modify: func(c *Config) {
				c.Auth.Type = "apikey"
				c.Auth.APIKeys = []APIKeyConfig{{Key: "k"}}
			},
			wantErr: "auth.api_keys[0].subject is required",
		},
		{
			name:    "jwt without secret",
			modify:  func(c *Config) { c.Auth.Type = "jwt" },
			wantErr: "auth.jwt.secret",
		},
		{
			name:    "relative metrics path",
			modify:  func(c *Config) { c.Observability.Metrics.Path = "metrics" },
			wantErr: "observability.metrics.path",
		},
		{
			name:    "bad log level",
			modify:  func(c *Config) { c.Log.Level = "verbose" },
			wantErr: "log.level",
		},
		{
			name:    "bad log format",
			modify:  func(c *Config) { c.Log.Format = "xml" },
			wantErr: "log.format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.modify(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatalf("expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want to contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestValidationJoinsErrors(t *testing.T) {
	cfg := Defaults()
	cfg.Server.Port = 0
	cfg.Log.Format = "xml"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "server.port") || !strings.Contains(err.Error(), "log.format") {
		t.Errorf("error %q should report both failures", err)
	}
}

func TestYAMLDefaultsMerge(t *testing.T) {
	path := writeTemp(t, "config-*.yaml", "server:\n  port: 3000\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Server.Port != 3000 {
		t.Errorf("server.port = %d, want 3000", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout != 30*time.Second {
		t.Errorf("server.read_timeout = %v, want default 30s", cfg.Server.ReadTimeout)
	}
	if cfg.Locales.Default != "en" {
		t.Errorf("locales.default = %q, want default", cfg.Locales.Default)
	}
}

// writeTemp creates a temporary file with the given content and returns its path.
// The file is automatically cleaned up when the test finishes.
func writeTemp(t *testing.T, pattern, content string) string {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), pattern)
	if err != nil {
		t.Fatalf("creating temp file: %v", err)
	}
	defer f.Close()

	if _, err := f.WriteString(content); err != nil {
		t.Fatalf("writing temp file: %v", err)
	}
	return f.Name()
}
