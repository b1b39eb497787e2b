package config

import (
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v4"
)

type Config struct {
	Tracker  TrackerConfig  `yaml:"tracker"`
	Storage  StorageConfig  `yaml:"storage"`
	ScanPost ScanPostConfig `yaml:"scanpost"`
	Emulator EmulatorConfig `yaml:"emulator"`
}

type TrackerConfig struct {
	BaseURL            string `yaml:"base_url"`
	PingTimeoutSeconds int    `yaml:"ping_timeout_seconds"`
	DataTimeoutSeconds int    `yaml:"data_timeout_seconds"`
}

type StorageConfig struct {
	QueuePath   string `yaml:"queue_path"`
	SessionPath string `yaml:"session_path"`
}

type ScanPostConfig struct {
	DrainIntervalSeconds int    `yaml:"drain_interval_seconds"`
	ExportDir            string `yaml:"export_dir"`
	UseFakeTracker       bool   `yaml:"use_fake_tracker"`
}

type EmulatorConfig struct {
	HTTPAddr string `yaml:"http_addr"`
	Secret   string `yaml:"secret"`
}

func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal YAML: %w", err)
	}

	config.applyDefaults()
	return &config, nil
}

// Default returns the config used when no file is given: local
// emulator, state under the user's home.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Tracker.BaseURL == "" {
		c.Tracker.BaseURL = "http://localhost:9080"
	}
	if c.Tracker.PingTimeoutSeconds <= 0 {
		c.Tracker.PingTimeoutSeconds = 3
	}
	if c.Tracker.DataTimeoutSeconds <= 0 {
		c.Tracker.DataTimeoutSeconds = 10
	}

	stateDir := defaultStateDir()
	if c.Storage.QueuePath == "" {
		c.Storage.QueuePath = filepath.Join(stateDir, "queue.json")
	}
	if c.Storage.SessionPath == "" {
		c.Storage.SessionPath = filepath.Join(stateDir, "session.json")
	}

	if c.ScanPost.DrainIntervalSeconds <= 0 {
		c.ScanPost.DrainIntervalSeconds = 30
	}
	if c.ScanPost.ExportDir == "" {
		c.ScanPost.ExportDir = "."
	}

	if c.Emulator.HTTPAddr == "" {
		c.Emulator.HTTPAddr = ":9080"
	}
	if c.Emulator.Secret == "" {
		c.Emulator.Secret = "scan-emulator-dev-secret"
	}
}

func defaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".scanpost"
	}
	return filepath.Join(home, ".scanpost")
}
