package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvFile is the dotenv file Load reads before anything else.
var EnvFile = ".env"

// Load loads configuration from a layered set of sources.
//
// The loading order is:
//  1. Built-in defaults
//  2. The .env file, when present
//  3. YAML config file (explicit path, MOLECULE_CONFIG env, ./config.yaml, /etc/molecule/config.yaml)
//  4. MOLECULE_* environment variable overrides
//  5. File reference resolution (_file suffix)
//  6. Validation
func Load(configPath string) (*Config, error) {
	// Start with defaults.
	cfg := Defaults()

	if err := godotenv.Load(EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading env file %s: %w", EnvFile, err)
	}

	// Discover and load YAML config file.
	filePath := discoverConfigFile(configPath)
	if filePath != "" {
		if err := loadYAMLFile(filePath, &cfg); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", filePath, err)
		}
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, fmt.Errorf("environment overrides: %w", err)
	}

	// Resolve _file references.
	if err := resolveFileReferences(&cfg); err != nil {
		return nil, fmt.Errorf("resolving file references: %w", err)
	}

	// Validate.
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return &cfg, nil
}

// discoverConfigFile finds the config file path using the discovery order:
// 1. Explicit configPath argument
// 2. MOLECULE_CONFIG environment variable
// 3. ./config.yaml in the current directory
// 4. /etc/molecule/config.yaml
//
// Returns empty string if no config file is found.
func discoverConfigFile(configPath string) string {
	// Explicit path takes priority.
	if configPath != "" {
		return configPath
	}

	if envPath := os.Getenv("MOLECULE_CONFIG"); envPath != "" {
		return envPath
	}

	// Check common locations.
	candidates := []string{
		"config.yaml",
		"/etc/molecule/config.yaml",
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// loadYAMLFile reads and parses a YAML file into the Config struct.
// Fields not present in the YAML retain their current (default) values.
func loadYAMLFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// applyEnvOverrides maps MOLECULE_* environment variables to config
// fields. Malformed values are reported with the variable name.
func applyEnvOverrides(cfg *Config) error {
	var errs []error

	str := func(name string, dst *string) {
		if v, ok := os.LookupEnv(name); ok && v != "" {
			*dst = v
		}
	}
	integer := func(name string, dst *int) {
		if v, ok := os.LookupEnv(name); ok && v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", name, err))
				return
			}
			*dst = n
		}
	}
	duration := func(name string, dst *time.Duration) {
		if v, ok := os.LookupEnv(name); ok && v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", name, err))
				return
			}
			*dst = d
		}
	}
	boolean := func(name string, dst *bool) {
		if v, ok := os.LookupEnv(name); ok && v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", name, err))
				return
			}
			*dst = b
		}
	}

	integer("MOLECULE_PORT", &cfg.Server.Port)
	duration("MOLECULE_READ_TIMEOUT", &cfg.Server.ReadTimeout)
	duration("MOLECULE_WRITE_TIMEOUT", &cfg.Server.WriteTimeout)
	duration("MOLECULE_SHUTDOWN_TIMEOUT", &cfg.Server.ShutdownTimeout)
	str("MOLECULE_SERVER_NAME", &cfg.Server.Name)
	if v := os.Getenv("MOLECULE_MAX_BODY_SIZE"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("MOLECULE_MAX_BODY_SIZE: %w", err))
		} else {
			cfg.Server.MaxBodySize = n
		}
	}

	str("MOLECULE_DEFAULT_LOCALE", &cfg.Locales.Default)
	if v := os.Getenv("MOLECULE_SUPPORTED_LOCALES"); v != "" {
		cfg.Locales.Supported = splitList(v)
	}

	boolean("MOLECULE_RATE_LIMIT_ENABLED", &cfg.RateLimit.Enabled)
	if v := os.Getenv("MOLECULE_RATE_LIMIT_RPS"); v != "" {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("MOLECULE_RATE_LIMIT_RPS: %w", err))
		} else {
			cfg.RateLimit.RPS = rps
		}
	}
	integer("MOLECULE_RATE_LIMIT_BURST", &cfg.RateLimit.Burst)

	str("MOLECULE_AUTH_TYPE", &cfg.Auth.Type)
	// MOLECULE_API_KEYS: JSON array of API key configs.
	if v := os.Getenv("MOLECULE_API_KEYS"); v != "" {
		keys, err := parseAPIKeysJSON(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("MOLECULE_API_KEYS: %w", err))
		} else {
			cfg.Auth.APIKeys = keys
		}
	}
	str("MOLECULE_JWT_SECRET", &cfg.Auth.JWT.Secret)
	str("MOLECULE_JWT_SECRET_FILE", &cfg.Auth.JWT.SecretFile)
	str("MOLECULE_JWT_ISSUER", &cfg.Auth.JWT.Issuer)
	str("MOLECULE_JWT_AUDIENCE", &cfg.Auth.JWT.Audience)

	boolean("MOLECULE_METRICS_ENABLED", &cfg.Observability.Metrics.Enabled)
	str("MOLECULE_METRICS_PATH", &cfg.Observability.Metrics.Path)

	str("MOLECULE_LOG_LEVEL", &cfg.Log.Level)
	str("MOLECULE_LOG_FORMAT", &cfg.Log.Format)
	str("MOLECULE_DEBUG", &cfg.Log.Debug)

	return errors.Join(errs...)
}

func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// parseAPIKeysJSON parses a JSON array of API key configurations.
func parseAPIKeysJSON(jsonStr string) ([]APIKeyConfig, error) {
	var keys []APIKeyConfig
	if err := json.Unmarshal([]byte(jsonStr), &keys); err != nil {
		return nil, fmt.Errorf("parsing API keys JSON: %w", err)
	}
	return keys, nil
}

// resolveFileReferences reads _file fields and populates the corresponding value fields.
// For each field ending in _file, if the value field is empty and the file field is set,
// the file is read, whitespace is trimmed, and the value field is populated.
func resolveFileReferences(cfg *Config) error {
	// auth.jwt.secret_file -> auth.jwt.secret
	if cfg.Auth.JWT.SecretFile != "" && cfg.Auth.JWT.Secret == "" {
		val, err := readSecretFile(cfg.Auth.JWT.SecretFile)
		if err != nil {
			return fmt.Errorf("auth.jwt.secret_file: %w", err)
		}
		cfg.Auth.JWT.Secret = val
	}

	// auth.api_keys[*].key_file -> auth.api_keys[*].key
	for i := range cfg.Auth.APIKeys {
		if cfg.Auth.APIKeys[i].KeyFile != "" && cfg.Auth.APIKeys[i].Key == "" {
			val, err := readSecretFile(cfg.Auth.APIKeys[i].KeyFile)
			if err != nil {
				return fmt.Errorf("auth.api_keys[%d].key_file: %w", i, err)
			}
			cfg.Auth.APIKeys[i].Key = val
		}
	}

	return nil
}

// readSecretFile reads a file and returns its content with surrounding whitespace trimmed.
func readSecretFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
