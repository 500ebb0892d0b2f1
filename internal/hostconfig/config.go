// Package hostconfig manages the on-disk preferences for the vaultcli
// host application: where the vault lives, KDF tuning, and clipboard
// behavior. It has nothing to do with the library's own Config, which a
// caller builds in code; this is what lets a human reuse the same
// settings across invocations of the CLI.
package hostconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the vaultcli host application's persisted preferences.
type Config struct {
	VaultPath    string    `yaml:"vault_path"`
	ClipboardTTL time.Duration `yaml:"clipboard_ttl"`
	OutputFormat string    `yaml:"output_format"`
	KDF          KDFConfig `yaml:"kdf"`
}

// KDFConfig mirrors crypto.Argon2Params in a YAML-friendly shape so the
// host config file doesn't need to import the library's crypto package
// just to describe three integers.
type KDFConfig struct {
	Memory      uint32 `yaml:"memory"`
	Iterations  uint32 `yaml:"iterations"`
	Parallelism uint8  `yaml:"parallelism"`
}

// Default returns the preferences used when no config file exists yet.
func Default() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		VaultPath:    filepath.Join(home, ".local", "share", "vaultcli", "vault.db"),
		ClipboardTTL: 30 * time.Second,
		OutputFormat: "table",
		KDF: KDFConfig{
			Memory:      64 * 1024,
			Iterations:  3,
			Parallelism: 4,
		},
	}
}

// Load reads the config file at path, writing out the default config if
// nothing exists there yet. An empty path returns the default in memory
// without touching disk.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := Save(cfg, path); err != nil {
			return cfg, fmt.Errorf("hostconfig: writing default config: %w", err)
		}
		return cfg, nil
	}

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return cfg, fmt.Errorf("hostconfig: reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return cfg, fmt.Errorf("hostconfig: parsing config file: %w", err)
	}
	return cfg, nil
}

// Save writes cfg to path as YAML, creating its parent directory.
func Save(cfg *Config, path string) error {
	clean := filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(clean), 0o700); err != nil {
		return fmt.Errorf("hostconfig: creating config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("hostconfig: marshaling config: %w", err)
	}
	if err := os.WriteFile(clean, data, 0o600); err != nil {
		return fmt.Errorf("hostconfig: writing config file: %w", err)
	}
	return nil
}
