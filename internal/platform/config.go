package platform

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/NTPCPHARMACY/HRPC/pkg/assistant"
)

// ConfigFile is the default configuration file name.
const ConfigFile = "hrpc.yaml"

// EnvFile is loaded into the environment when present.
const EnvFile = ".env"

// Config is the file/environment configuration of a site.
// Layering: defaults, then the YAML file, then .env, then the process
// environment. CLI flags are applied last by the caller.
type Config struct {
	Store    string `yaml:"store"`
	DSN      string `yaml:"dsn"`
	Codec    string `yaml:"codec"`
	ReadOnly bool   `yaml:"read_only"`
	Secret   string `yaml:"admin_secret"`
	Addr     string `yaml:"addr"`
	Model    string `yaml:"model"`
	// APIKey is never read from the file.
	APIKey string `yaml:"-"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		Store:  "fs",
		DSN:    "data",
		Codec:  "json",
		Secret: "admin",
		Addr:   ":8080",
		Model:  assistant.DefaultModel,
	}
}

// LoadConfig builds the configuration. An empty path means ConfigFile,
// which may be absent; an explicit path must exist.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		path = ConfigFile
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return cfg, fmt.Errorf("read config: %w", err)
	}

	// godotenv never overrides variables already set in the environment.
	if err := godotenv.Load(EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, fmt.Errorf("load %s: %w", EnvFile, err)
	}
	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString := func(dst *string, keys ...string) {
		for _, k := range keys {
			if v := os.Getenv(k); v != "" {
				*dst = v
				return
			}
		}
	}
	setString(&c.Store, "HRPC_STORE")
	setString(&c.DSN, "HRPC_DSN")
	setString(&c.Codec, "HRPC_CODEC")
	setString(&c.Secret, "HRPC_ADMIN_SECRET")
	setString(&c.Addr, "HRPC_ADDR")
	setString(&c.Model, "HRPC_MODEL")
	setString(&c.APIKey, "GEMINI_API_KEY", "API_KEY")

	if v := os.Getenv("HRPC_READ_ONLY"); v != "" {
		ro, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("HRPC_READ_ONLY: %w", err)
		}
		c.ReadOnly = ro
	}
	return nil
}

// Options converts the storage part of the configuration to options.
func (c Config) Options() []Option {
	return []Option{
		WithAdapter(c.Store),
		WithCodec(c.Codec),
		WithReadOnly(c.ReadOnly),
	}
}
