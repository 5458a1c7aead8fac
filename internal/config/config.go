package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/byterings/benv/internal/platform"
)

const (
	ConfigFileName  = "config.toml"
	BackupDirName   = "backups"
	ContextsDirName = "contexts"
)

// Environment overrides. They take precedence over the config file so a
// single shell can point at a throwaway tree without editing config.toml.
const (
	EnvContextsDir = "BENV_CONTEXTS_DIR"
	EnvShell       = "BENV_SHELL"
)

// GetConfigDirName returns the config directory name
func GetConfigDirName() string {
	return platform.GetConfigDirName()
}

// GetConfigDir returns the path to the benv config directory
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, GetConfigDirName()), nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, ConfigFileName), nil
}

// GetBackupDir returns the path to the backup directory
func GetBackupDir() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, BackupDirName), nil
}

// ConfigExists checks if the config file exists
func ConfigExists() (bool, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return false, err
	}
	_, err = os.Stat(configPath)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// CreateConfigDir creates the benv config directory
func CreateConfigDir() error {
	configDir, err := GetConfigDir()
	if err != nil {
		return err
	}
	return platform.MkdirSecure(configDir)
}

// CreateBackupDir creates the backup directory
func CreateBackupDir() error {
	backupDir, err := GetBackupDir()
	if err != nil {
		return err
	}
	return platform.MkdirSecure(backupDir)
}

// NewConfig creates a new config with defaults
func NewConfig() *Config {
	return &Config{
		Version:     "1.0",
		ContextsDir: filepath.Join("~", GetConfigDirName(), ContextsDirName),
		Shell:       platform.DefaultShell(),
		UI:          UI{Color: "auto"},
	}
}

// LoadConfig loads the config from file
func LoadConfig() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadConfigFrom(configPath)
}

// LoadConfigFrom loads the config from an explicit path
func LoadConfigFrom(path string) (*Config, error) {
	var config Config
	if _, err := toml.DecodeFile(path, &config); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	// Fill gaps so hand-edited configs keep working
	defaults := NewConfig()
	if config.ContextsDir == "" {
		config.ContextsDir = defaults.ContextsDir
	}
	if config.Shell == "" {
		config.Shell = defaults.Shell
	}
	if config.UI.Color == "" {
		config.UI.Color = defaults.UI.Color
	}

	return &config, nil
}

// SaveConfig saves the config to file
func SaveConfig(config *Config) error {
	configPath, err := GetConfigPath()
	if err != nil {
		return err
	}
	return SaveConfigTo(configPath, config)
}

// SaveConfigTo saves the config to an explicit path
func SaveConfigTo(path string, config *Config) error {
	if err := platform.MkdirSecure(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := platform.OpenFileSecure(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC)
	if err != nil {
		return fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(config); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}

// ContextsRoot returns the absolute path of the category/config tree,
// honoring the BENV_CONTEXTS_DIR override and expanding ~.
func (c *Config) ContextsRoot() (string, error) {
	dir := c.ContextsDir
	if env := os.Getenv(EnvContextsDir); env != "" {
		dir = env
	}

	expanded, err := platform.ExpandTilde(dir)
	if err != nil {
		return "", err
	}

	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", fmt.Errorf("failed to resolve contexts dir: %w", err)
	}
	return abs, nil
}

// EffectiveShell returns the shell used to source payloads, honoring the
// BENV_SHELL override.
func (c *Config) EffectiveShell() string {
	if env := os.Getenv(EnvShell); env != "" {
		return env
	}
	if c.Shell != "" {
		return c.Shell
	}
	return platform.DefaultShell()
}
