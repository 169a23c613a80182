package app

import (
	"os"
	"path/filepath"
)

// ConfigDir returns ~/.config/guidgenie/ on all platforms.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "guidgenie"), nil
}

// EnsureConfigDir creates the config directory and default config.yaml if missing.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	configFile := filepath.Join(dir, "config.yaml")
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		return os.WriteFile(configFile, []byte(defaultConfig), 0600)
	}
	return nil
}

const defaultConfig = `# guidgenie configuration
# Run: guidgenie --help

# Emit identifiers in uppercase (default: true).
# uppercase: true

# Wrap identifiers in braces, reusing braces already around a selection (default: false).
# include_braces: false
`
