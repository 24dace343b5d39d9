// Package config loads stackcalc.yaml and applies STACKCALC_* environment overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// DefaultFile is looked up in the working directory when no path is given.
const DefaultFile = "stackcalc.yaml"

// EnvPrefix prefixes every environment override.
const EnvPrefix = "STACKCALC_"

// Store kinds.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"
)

// Config is the application configuration.
type Config struct {
	Precision  int    `mapstructure:"precision"`
	ScriptDir  string `mapstructure:"script_dir"`
	Macros     string `mapstructure:"macros"`
	MaxHistory int    `mapstructure:"max_history"`
	LogLevel   string `mapstructure:"log_level"`

	Store StoreConfig `mapstructure:"store"`
}

// StoreConfig selects where session snapshots live.
type StoreConfig struct {
	Kind        string        `mapstructure:"kind"`
	Path        string        `mapstructure:"path"`
	RedisAddr   string        `mapstructure:"redis_addr"`
	RedisPrefix string        `mapstructure:"redis_prefix"`
	TTL         time.Duration `mapstructure:"ttl"`

	// EncryptionKey is a base64 AES-256 key. When set, stack values are sealed at rest.
	EncryptionKey string `mapstructure:"encryption_key"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Precision: 6,
		LogLevel:  "info",
		Store: StoreConfig{
			Kind:        StoreFile,
			Path:        filepath.Join(".stackcalc", "sessions"),
			RedisAddr:   "localhost:6379",
			RedisPrefix: "stackcalc:stack:",
		},
	}
}

// Load reads path (or DefaultFile when path is empty) on top of the defaults and then
// applies environment overrides. A missing DefaultFile is not an error; a missing
// explicit path is.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := decode(bytes.NewReader(data), &cfg); err != nil {
			return cfg, fmt.Errorf("%s: %w", path, err)
		}
		// Relative paths in the file are relative to the file.
		base := filepath.Dir(path)
		cfg.ScriptDir = resolve(base, cfg.ScriptDir)
		cfg.Macros = resolve(base, cfg.Macros)
		cfg.Store.Path = resolve(base, cfg.Store.Path)
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if err := applyEnv(&cfg, os.Environ()); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// Parse decodes a YAML document on top of the defaults, without environment overrides.
func Parse(r io.Reader) (Config, error) {
	cfg := Default()
	if err := decode(r, &cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func decode(r io.Reader, cfg *Config) error {
	var raw map[string]any
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to parse yaml: %w", err)
	}
	if raw == nil {
		return nil
	}
	return decodeMap(raw, cfg)
}

func decodeMap(raw map[string]any, cfg *Config) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(raw); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// applyEnv maps STACKCALC_PRECISION, STACKCALC_STORE_KIND, ... onto the config.
// Nested keys join their path with an underscore.
func applyEnv(cfg *Config, environ []string) error {
	top := map[string]any{}
	store := map[string]any{}
	for _, kv := range environ {
		key, val, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(key, EnvPrefix) {
			continue
		}
		name := strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
		switch name {
		case "precision", "script_dir", "macros", "max_history", "log_level":
			top[name] = val
		case "store_kind", "store_path", "store_redis_addr", "store_redis_prefix", "store_ttl", "store_encryption_key":
			store[strings.TrimPrefix(name, "store_")] = val
		}
	}
	if len(store) > 0 {
		top["store"] = store
	}
	if len(top) == 0 {
		return nil
	}
	if err := decodeMap(top, cfg); err != nil {
		return fmt.Errorf("environment: %w", err)
	}
	return nil
}

// Validate checks value ranges and the store kind.
func (c Config) Validate() error {
	if c.Precision < 0 || c.Precision > 17 {
		return fmt.Errorf("precision must be between 0 and 17, got %d", c.Precision)
	}
	if c.MaxHistory < 0 {
		return fmt.Errorf("max_history must not be negative, got %d", c.MaxHistory)
	}
	switch c.Store.Kind {
	case StoreMemory, StoreFile, StoreRedis:
	default:
		return fmt.Errorf("unknown store kind %q (want memory, file or redis)", c.Store.Kind)
	}
	if c.Store.TTL < 0 {
		return fmt.Errorf("store ttl must not be negative")
	}
	return nil
}

func resolve(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}
