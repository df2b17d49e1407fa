package config

import (
	"encoding/json"
	"os"
	"sync"
)

// MarketplaceConfig overrides marketplace endpoints, mainly for mirrors.
type MarketplaceConfig struct {
	PluginsURL     string   `json:"pluginsUrl,omitempty"`
	DownloadPrefix string   `json:"downloadPrefix,omitempty"`
	IndexURLs      []string `json:"indexUrls,omitempty"`
}

// Config represents the main configuration file structure
type Config struct {
	Locale            string            `json:"locale"`            // "auto" or ISO format (e.g., "ko-KR", "en-US")
	OutputPath        string            `json:"outputPath"`        // manifest store root
	Workers           int               `json:"workers"`           // concurrent plugin workers
	Attempts          int               `json:"attempts"`          // per-plugin retry budget
	RequestsPerSecond float64           `json:"requestsPerSecond"` // outbound marketplace request cap
	FreshnessPrefixes []string          `json:"freshnessPrefixes,omitempty"`
	Marketplace       MarketplaceConfig `json:"marketplace"`
}

var (
	cfg     *Config
	cfgOnce sync.Once
	cfgMu   sync.RWMutex
)

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		Locale:            "auto", // default: auto-detect system locale
		OutputPath:        "data",
		Workers:           16,
		Attempts:          3,
		RequestsPerSecond: 20,
	}
}

// Load loads the configuration from file
func Load() (*Config, error) {
	cfgMu.RLock()
	defer cfgMu.RUnlock()

	data, err := os.ReadFile(ConfigPath())
	if err != nil {
		if os.IsNotExist(err) {
			return NewConfig(), nil
		}
		return nil, err
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	// Set defaults for unset fields
	if config.Locale == "" {
		config.Locale = "auto"
	}
	if config.OutputPath == "" {
		config.OutputPath = "data"
	}
	if config.Workers <= 0 {
		config.Workers = 16
	}
	if config.Attempts <= 0 {
		config.Attempts = 3
	}
	if config.RequestsPerSecond <= 0 {
		config.RequestsPerSecond = 20
	}

	return &config, nil
}

// Save saves the configuration to file
func Save(config *Config) error {
	cfgMu.Lock()
	defer cfgMu.Unlock()

	if err := EnsureDir(Dir()); err != nil {
		return err
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(ConfigPath(), data, 0644)
}

// Get returns the current configuration (singleton)
func Get() *Config {
	cfgOnce.Do(func() {
		var err error
		cfg, err = Load()
		if err != nil {
			cfg = NewConfig()
		}
	})
	return cfg
}

// Reload reloads the configuration from file
func Reload() error {
	newCfg, err := Load()
	if err != nil {
		return err
	}

	cfgMu.Lock()
	defer cfgMu.Unlock()
	cfg = newCfg
	return nil
}

// GetLocale returns the configured locale
func GetLocale() string {
	return Get().Locale
}

// SetLocale sets the locale and saves
func SetLocale(locale string) error {
	config := Get()
	config.Locale = locale
	return Save(config)
}
