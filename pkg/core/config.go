// pkg/core/config.go
package core

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Config holds uvx configuration
type Config struct {
	WorkDir   string `yaml:"work_dir" toml:"work_dir"`
	BinDir    string `yaml:"bin_dir" toml:"bin_dir"`
	Python    string `yaml:"python" toml:"python"`
	UV        string `yaml:"uv" toml:"uv"`
	Debug     bool   `yaml:"debug" toml:"debug"`
	NoSpinner bool   `yaml:"no_spinner" toml:"no_spinner"`
	Journal   bool   `yaml:"journal" toml:"journal"`

	// JournalDSN overrides the history database; libsql:// URLs point at a remote database
	JournalDSN string `yaml:"journal_dsn,omitempty" toml:"journal_dsn,omitempty"`
}

// Environment variables that override the config file.
const (
	EnvHome   = "UVX_HOME"
	EnvBinDir = "UVX_BIN_DIR"
	EnvPython = "UVX_PYTHON"
)

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	cfg := &Config{
		WorkDir: getDefaultWorkDir(),
		BinDir:  getDefaultBinDir(),
		UV:      "uv",
		Journal: true,
	}
	cfg.applyEnv()
	return cfg
}

// DefaultConfigPath is $HOME/.config/uvx/config.yaml, or empty if no home is known.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "uvx", "config.yaml")
}

// LoadConfig loads configuration from file. A .toml extension selects the
// TOML decoder, anything else is read as YAML.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigPath()
		if path == "" {
			return DefaultConfig(), nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := DefaultConfig()
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.applyEnv()
	cfg.WorkDir = expandHome(cfg.WorkDir)
	cfg.BinDir = expandHome(cfg.BinDir)
	return cfg, nil
}

// SaveConfig saves configuration to file
func SaveConfig(cfg *Config, path string) error {
	if path == "" {
		path = DefaultConfigPath()
		if path == "" {
			return fmt.Errorf("no config path and no home directory")
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// VenvsDir is the directory holding one venv per installed package.
func (c *Config) VenvsDir() string {
	return filepath.Join(c.WorkDir, "venvs")
}

// JournalPath is the location of the operation history database.
func (c *Config) JournalPath() string {
	if c.JournalDSN != "" {
		return c.JournalDSN
	}
	return filepath.Join(c.WorkDir, "history.db")
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvHome); v != "" {
		c.WorkDir = v
	}
	if v := os.Getenv(EnvBinDir); v != "" {
		c.BinDir = v
	}
	if v := os.Getenv(EnvPython); v != "" {
		c.Python = v
	}
}

func getDefaultWorkDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "uvx")
	}
	return filepath.Join(home, ".local", "uvx")
}

func getDefaultBinDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "uvx", "bin")
	}
	return filepath.Join(home, ".local", "bin")
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
