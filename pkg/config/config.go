// Package config handles local configuration management.
//
// Values come from, in increasing priority: defaults, ~/.promorang/config.json
// (or $PROMORANG_CONFIG_DIR/config.json), and PROMORANG_* environment
// variables ("log.level" is read from PROMORANG_LOG_LEVEL).
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"

	"github.com/promorang/promorang-cli/pkg/baseurl"
)

const envPrefix = "PROMORANG"

var (
	mu         sync.RWMutex
	globalCfg  *Config
	fileV      *viper.Viper
	configPath string
	lastDir    string
)

// ErrNotLoaded is returned by accessors called before Load.
var ErrNotLoaded = errors.New("config not loaded")

// Config represents the CLI configuration.
type Config struct {
	APIUrl    string          `mapstructure:"api_url"`
	Env       string          `mapstructure:"env"`
	Origin    string          `mapstructure:"origin"`
	Log       LogConfig       `mapstructure:"log"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Timeout   time.Duration   `mapstructure:"timeout"`
	Render    RenderConfig    `mapstructure:"render"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// RateLimitConfig configures the client throttle. Zero RPS disables it.
type RateLimitConfig struct {
	RPS   float64 `mapstructure:"rps"`
	Burst int     `mapstructure:"burst"`
}

// RenderConfig configures command output.
type RenderConfig struct {
	Format string `mapstructure:"format"`
}

// BaseURL resolves the API base for this configuration.
func (c *Config) BaseURL() string {
	return baseurl.Resolve(baseurl.Settings{
		Mode:     c.Env,
		Override: c.APIUrl,
		Origin:   c.Origin,
	})
}

// defaults lists every known key with its default value.
var defaults = map[string]any{
	"api_url":          "",
	"env":              baseurl.ModeProduction,
	"origin":           "",
	"log.level":        "warn",
	"log.format":       "text",
	"rate_limit.rps":   0.0,
	"rate_limit.burst": 1,
	"timeout":          "0s",
	"render.format":    "auto",
}

// Keys returns the known configuration keys, sorted.
func Keys() []string {
	keys := make([]string, 0, len(defaults))
	for k := range defaults {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Default returns a config with default values.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	_ = v.Unmarshal(&cfg)
	return &cfg
}

func setDefaults(v *viper.Viper) {
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
}

// Dir returns the configuration directory, creating it if needed.
func Dir() (string, error) {
	if dir := os.Getenv(envPrefix + "_CONFIG_DIR"); dir != "" {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return "", fmt.Errorf("create config directory: %w", err)
		}
		return dir, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}

	dir := filepath.Join(homeDir, ".promorang")
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("create .promorang directory: %w", err)
	}
	return dir, nil
}

// Load reads the configuration from disk, creating defaults if needed.
func Load() (*Config, error) {
	mu.Lock()
	defer mu.Unlock()

	dir, err := Dir()
	if err != nil {
		return nil, err
	}
	if lastDir != "" && lastDir != dir {
		globalCfg = nil
	}
	lastDir = dir

	if globalCfg != nil {
		return globalCfg, nil
	}

	configPath = filepath.Join(dir, "config.json")
	fileV = viper.New()
	fileV.SetConfigFile(configPath)
	fileV.SetConfigType("json")

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		for k, val := range defaults {
			fileV.Set(k, val)
		}
		if err := fileV.WriteConfigAs(configPath); err != nil {
			return nil, fmt.Errorf("save default config: %w", err)
		}
	} else if err := fileV.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg, err := resolve()
	if err != nil {
		return nil, err
	}
	globalCfg = cfg
	return globalCfg, nil
}

// merged layers defaults, the file and the environment.
func merged() (*viper.Viper, error) {
	v := viper.New()
	setDefaults(v)
	if err := v.MergeConfigMap(fileV.AllSettings()); err != nil {
		return nil, fmt.Errorf("merge config: %w", err)
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v, nil
}

func resolve() (*Config, error) {
	v, err := merged()
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}

// Save persists the file-level configuration to disk. Environment overrides
// are never written.
func Save() error {
	mu.Lock()
	defer mu.Unlock()

	if fileV == nil {
		return ErrNotLoaded
	}
	return fileV.WriteConfigAs(configPath)
}

// Get retrieves a config value by key, after environment overrides.
func Get(key string) (string, error) {
	mu.RLock()
	defer mu.RUnlock()

	if fileV == nil {
		return "", ErrNotLoaded
	}
	if _, ok := defaults[key]; !ok {
		return "", fmt.Errorf("unknown config key: %s", key)
	}
	v, err := merged()
	if err != nil {
		return "", err
	}
	return v.GetString(key), nil
}

// Set validates and stores a config value, then saves the file.
func Set(key, value string) error {
	mu.Lock()
	defer mu.Unlock()

	if fileV == nil {
		return ErrNotLoaded
	}

	typed, err := parseValue(key, value)
	if err != nil {
		return err
	}
	fileV.Set(key, typed)
	if err := fileV.WriteConfigAs(configPath); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	cfg, err := resolve()
	if err != nil {
		return err
	}
	globalCfg = cfg
	return nil
}

func parseValue(key, value string) (any, error) {
	value = strings.TrimSpace(value)
	switch key {
	case "api_url", "origin":
		return value, nil
	case "env":
		return oneOf(key, value, baseurl.ModeProduction, baseurl.ModeDevelopment)
	case "log.level":
		return oneOf(key, value, "debug", "info", "warn", "error")
	case "log.format":
		return oneOf(key, value, "text", "json")
	case "render.format":
		return oneOf(key, value, "auto", "human", "json", "raw")
	case "rate_limit.rps":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f < 0 {
			return nil, fmt.Errorf("%s must be a non-negative number", key)
		}
		return f, nil
	case "rate_limit.burst":
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("%s must be a positive integer", key)
		}
		return n, nil
	case "timeout":
		d, err := time.ParseDuration(value)
		if err != nil || d < 0 {
			return nil, fmt.Errorf("%s must be a duration such as 30s", key)
		}
		return d.String(), nil
	default:
		return nil, fmt.Errorf("unknown config key: %s", key)
	}
}

func oneOf(key, value string, allowed ...string) (string, error) {
	if slices.Contains(allowed, value) {
		return value, nil
	}
	return "", fmt.Errorf("%s must be one of: %s", key, strings.Join(allowed, ", "))
}

// List returns all config key-value pairs, after environment overrides.
func List() (map[string]string, error) {
	mu.RLock()
	defer mu.RUnlock()

	if fileV == nil {
		return nil, ErrNotLoaded
	}
	v, err := merged()
	if err != nil {
		return nil, err
	}

	result := make(map[string]string, len(defaults))
	for k := range defaults {
		result[k] = v.GetString(k)
	}
	return result, nil
}

// GetAPIUrl returns the resolved API base URL.
func GetAPIUrl() string {
	mu.RLock()
	defer mu.RUnlock()

	if globalCfg == nil {
		return Default().BaseURL()
	}
	return globalCfg.BaseURL()
}

// Reset drops the cached configuration so the next Load reads from disk.
func Reset() {
	mu.Lock()
	defer mu.Unlock()

	globalCfg = nil
	fileV = nil
	lastDir = ""
}
