package core

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	t.Setenv(EnvHome, "")
	t.Setenv(EnvBinDir, "")
	t.Setenv(EnvPython, "")

	cfg := DefaultConfig()
	if cfg == nil {
		t.Fatal("DefaultConfig returned nil")
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	if want := filepath.Join(homeDir, ".local", "uvx"); cfg.WorkDir != want {
		t.Errorf("Expected work dir %s, got %s", want, cfg.WorkDir)
	}
	if want := filepath.Join(homeDir, ".local", "bin"); cfg.BinDir != want {
		t.Errorf("Expected bin dir %s, got %s", want, cfg.BinDir)
	}
	if cfg.UV != "uv" {
		t.Errorf("Expected uv executable 'uv', got %s", cfg.UV)
	}
	if !cfg.Journal {
		t.Error("Expected journal to be enabled by default")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(EnvHome, "/tmp/uvx-home")
	t.Setenv(EnvBinDir, "/tmp/uvx-bin")
	t.Setenv(EnvPython, "3.12")

	cfg := DefaultConfig()
	if cfg.WorkDir != "/tmp/uvx-home" {
		t.Errorf("Expected work dir from env, got %s", cfg.WorkDir)
	}
	if cfg.BinDir != "/tmp/uvx-bin" {
		t.Errorf("Expected bin dir from env, got %s", cfg.BinDir)
	}
	if cfg.Python != "3.12" {
		t.Errorf("Expected python from env, got %s", cfg.Python)
	}
	if cfg.VenvsDir() != "/tmp/uvx-home/venvs" {
		t.Errorf("Unexpected venvs dir %s", cfg.VenvsDir())
	}
}

func TestConfigSaveLoad(t *testing.T) {
	t.Setenv(EnvHome, "")
	t.Setenv(EnvBinDir, "")
	t.Setenv(EnvPython, "")

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.yaml")

	cfg := &Config{
		WorkDir: filepath.Join(tmpDir, "work"),
		BinDir:  filepath.Join(tmpDir, "bin"),
		Python:  "3.11",
		UV:      "/opt/uv",
		Debug:   true,
	}
	if err := SaveConfig(cfg, path); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if *loaded != *cfg {
		t.Errorf("Loaded config %+v, want %+v", loaded, cfg)
	}
}

func TestLoadConfigTOML(t *testing.T) {
	t.Setenv(EnvHome, "")
	t.Setenv(EnvBinDir, "")
	t.Setenv(EnvPython, "")

	path := filepath.Join(t.TempDir(), "config.toml")
	content := "work_dir = \"/srv/uvx\"\npython = \"3.10\"\njournal = false\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.WorkDir != "/srv/uvx" || cfg.Python != "3.10" || cfg.Journal {
		t.Errorf("Unexpected config %+v", cfg)
	}
	if cfg.UV != "uv" {
		t.Errorf("Expected default uv to survive partial config, got %q", cfg.UV)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Missing config should not fail: %v", err)
	}
	if cfg.UV != "uv" {
		t.Errorf("Expected defaults, got %+v", cfg)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("work_dir: [unterminated"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("Expected parse error")
	}
}
