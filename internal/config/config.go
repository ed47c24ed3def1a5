// internal/config/config.go
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Monitor   MonitorConfig   `yaml:"monitor"`
	Dashboard DashboardConfig `yaml:"dashboard"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ---- MONITOR ----

type MonitorConfig struct {
	Name    string       `yaml:"name"`
	Variant string       `yaml:"variant"` // a | b
	Source  SourceConfig `yaml:"source"`
	Poll    PollConfig   `yaml:"poll"`
	Status  StatusConfig `yaml:"status"`
}

// ---- SOURCE ----

type SourceConfig struct {
	BaseURL   string `yaml:"base_url"`
	Path      string `yaml:"path"`
	TimeoutMs int    `yaml:"timeout_ms"`
}

// ---- POLL ----

type PollConfig struct {
	IntervalMs int `yaml:"interval_ms"`
}

// ---- STATUS MIRROR (optional, opt-in) ----

type StatusConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Endpoint  string `yaml:"endpoint"`
	UnitID    uint8  `yaml:"unit_id"`
	BaseSlot  uint16 `yaml:"base_slot"`
	TimeoutMs int    `yaml:"timeout_ms"`
}

// ---- DASHBOARD ----

type DashboardConfig struct {
	Enabled *bool  `yaml:"enabled"` // nil => enabled
	Address string `yaml:"address"`
}

// IsEnabled reports whether the dashboard should be served.
func (d DashboardConfig) IsEnabled() bool {
	return d.Enabled == nil || *d.Enabled
}

// ---- LOGGING ----

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // console | json
}

// Load reads and decodes a YAML config file and fills defaults.
// Unknown keys are rejected. It does not validate.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)

	var cfg Config
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	Defaults(&cfg)
	return &cfg, nil
}
