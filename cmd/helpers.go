package cmd

import (
	"fmt"

	"github.com/byterings/benv/internal/config"
	"github.com/byterings/benv/internal/platform"
	"github.com/byterings/benv/internal/registry"
	"github.com/byterings/benv/internal/ui"
)

// autoInit initializes benv automatically if not already initialized
func autoInit() error {
	exists, err := config.ConfigExists()
	if err != nil {
		return err
	}

	if !exists {
		// Silently initialize
		if err := config.CreateConfigDir(); err != nil {
			return err
		}

		if err := config.CreateBackupDir(); err != nil {
			return err
		}

		cfg := config.NewConfig()
		if err := config.SaveConfig(cfg); err != nil {
			return err
		}
	}

	return nil
}

// loadConfig auto-initializes, loads the config and applies its UI settings
func loadConfig() (*config.Config, error) {
	if err := autoInit(); err != nil {
		return nil, err
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	ui.InitColor(cfg.UI.Color)
	return cfg, nil
}

// openRegistry opens the contexts tree the config points at, creating the
// root directory on first use. Categories and configurations inside it are
// never created here; users lay those out themselves.
func openRegistry(cfg *config.Config) (*registry.Registry, error) {
	root, err := cfg.ContextsRoot()
	if err != nil {
		return nil, err
	}

	if err := platform.MkdirSecure(root); err != nil {
		return nil, fmt.Errorf("failed to create contexts root: %w", err)
	}

	return registry.New(root), nil
}
