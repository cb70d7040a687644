package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Paths holds the resolved filesystem locations for the application.
type Paths struct {
	BaseDir      string // base directory for config files
	ActiveConfig string // path to the active config file
	DataDir      string // directory for application data
	DBFile       string // path to the history database
}

// Config holds all application configuration.
type Config struct {
	// AssetsDir is where pasted images land, relative to the workspace
	// root unless absolute.
	AssetsDir string `yaml:"assets_dir"`

	// RetentionDays deletes saved images older than this many days during
	// cleanup. 0 disables deletion.
	RetentionDays int `yaml:"retention_days"`

	// Debug enables verbose logging of per-strategy clipboard attempts.
	Debug bool `yaml:"debug"`

	// Timeouts are per-operation overrides, in seconds. Values are clamped
	// to a sane range before they reach the clipboard service.
	Timeouts TimeoutConfig `yaml:"timeouts"`
}

// TimeoutConfig holds the per-operation timeout overrides in seconds.
type TimeoutConfig struct {
	Fetch  int `yaml:"fetch"`
	Probe  int `yaml:"probe"`
	Clear  int `yaml:"clear"`
	WarmUp int `yaml:"warm_up"`
}

const (
	minTimeoutSeconds = 1
	maxTimeoutSeconds = 60
)

// GetPaths returns the platform-specific configuration paths, creating the
// directories as needed. CLIPIMG_CONFIG_DIR and CLIPIMG_DATA_DIR override
// the defaults.
func GetPaths() (*Paths, error) {
	baseDir := os.Getenv("CLIPIMG_CONFIG_DIR")
	if baseDir == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			return nil, err
		}
		switch runtime.GOOS {
		case "windows":
			baseDir = filepath.Join(configDir, "Clipimg")
		default:
			baseDir = filepath.Join(configDir, "clipimg")
		}
	}

	dataDir := os.Getenv("CLIPIMG_DATA_DIR")
	if dataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		switch runtime.GOOS {
		case "windows":
			dataDir = filepath.Join(baseDir, "Data")
		case "darwin":
			dataDir = filepath.Join(homeDir, "Library", "Application Support", "Clipimg")
		default:
			if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
				dataDir = filepath.Join(xdg, "clipimg")
			} else {
				dataDir = filepath.Join(homeDir, ".clipimg")
			}
		}
	}

	paths := &Paths{
		BaseDir:      baseDir,
		ActiveConfig: filepath.Join(baseDir, "config.yaml"),
		DataDir:      dataDir,
		DBFile:       filepath.Join(dataDir, "clipimg.db"),
	}

	for _, dir := range []string{paths.BaseDir, paths.DataDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}
	return paths, nil
}

// DefaultConfig returns a new Config with default values.
func DefaultConfig() *Config {
	return &Config{
		AssetsDir:     "assets",
		RetentionDays: 0,
		Debug:         false,
		Timeouts: TimeoutConfig{
			Fetch:  10,
			Probe:  3,
			Clear:  3,
			WarmUp: 15,
		},
	}
}

// Load loads the configuration from the given file, creating a default one
// if it does not exist. An empty path resolves to the active config file.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		paths, err := GetPaths()
		if err != nil {
			return nil, err
		}
		configPath = paths.ActiveConfig
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := DefaultConfig()
			if err := cfg.Save(configPath); err != nil {
				return nil, fmt.Errorf("failed to create default config: %w", err)
			}
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	overrideFromEnv(cfg)
	cfg.clamp()
	return cfg, nil
}

// Save writes the configuration to the given file.
func (c *Config) Save(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// FetchTimeout returns the clamped fetch timeout as a duration.
func (c *Config) FetchTimeout() time.Duration { return secs(c.Timeouts.Fetch) }

// ProbeTimeout returns the clamped probe timeout as a duration.
func (c *Config) ProbeTimeout() time.Duration { return secs(c.Timeouts.Probe) }

// ClearTimeout returns the clamped clear timeout as a duration.
func (c *Config) ClearTimeout() time.Duration { return secs(c.Timeouts.Clear) }

// WarmUpTimeout returns the clamped warm-up timeout as a duration.
func (c *Config) WarmUpTimeout() time.Duration { return secs(c.Timeouts.WarmUp) }

func secs(n int) time.Duration { return time.Duration(n) * time.Second }

// clamp forces every numeric knob into its sane range so a hand-edited
// config cannot hang an operation or make every spawn fail instantly.
func (c *Config) clamp() {
	c.Timeouts.Fetch = clampInt(c.Timeouts.Fetch, minTimeoutSeconds, maxTimeoutSeconds)
	c.Timeouts.Probe = clampInt(c.Timeouts.Probe, minTimeoutSeconds, maxTimeoutSeconds)
	c.Timeouts.Clear = clampInt(c.Timeouts.Clear, minTimeoutSeconds, maxTimeoutSeconds)
	c.Timeouts.WarmUp = clampInt(c.Timeouts.WarmUp, minTimeoutSeconds, maxTimeoutSeconds)
	if c.RetentionDays < 0 {
		c.RetentionDays = 0
	}
	if c.AssetsDir == "" {
		c.AssetsDir = "assets"
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// overrideFromEnv overrides configuration values from environment variables.
func overrideFromEnv(cfg *Config) {
	if val := os.Getenv("CLIPIMG_ASSETS_DIR"); val != "" {
		cfg.AssetsDir = val
	}
	if val := os.Getenv("CLIPIMG_RETENTION_DAYS"); val != "" {
		if days, err := strconv.Atoi(val); err == nil {
			cfg.RetentionDays = days
		}
	}
	if val := os.Getenv("CLIPIMG_DEBUG"); val != "" {
		cfg.Debug = val == "true"
	}
	if val := os.Getenv("CLIPIMG_FETCH_TIMEOUT"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			cfg.Timeouts.Fetch = n
		}
	}
	if val := os.Getenv("CLIPIMG_PROBE_TIMEOUT"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			cfg.Timeouts.Probe = n
		}
	}
}
