package config

import (
	"os"
	"path/filepath"
)

var (
	homeDir string
)

func init() {
	var err error
	homeDir, err = os.UserHomeDir()
	if err != nil {
		homeDir = "~"
	}
}

// Dir returns the jbpluggen config directory path
// ~/.config/jbpluggen/
func Dir() string {
	return filepath.Join(homeDir, ".config", "jbpluggen")
}

// ConfigPath returns the config.json file path
// ~/.config/jbpluggen/config.json
func ConfigPath() string {
	return filepath.Join(Dir(), "config.json")
}

// EnsureDir creates a directory if it doesn't exist
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}
