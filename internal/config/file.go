package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// FileConfig is the optional YAML configuration file. Unset fields leave the
// environment defaults in place.
type FileConfig struct {
	Server struct {
		Port int `yaml:"port" validate:"omitempty,gt=0,lte=65535"`
	} `yaml:"server"`

	Geotag struct {
		OffsetSeconds *int   `yaml:"offsetSeconds" validate:"omitempty,gte=-86400,lte=86400"`
		Workers       int    `yaml:"workers" validate:"gte=0,lte=64"`
		FailFast      *bool  `yaml:"failFast"`
		DryRun        *bool  `yaml:"dryRun"`
		Journal       string `yaml:"journal"`
		Track         string `yaml:"track"`
	} `yaml:"geotag"`

	Log struct {
		Level  string `yaml:"level" validate:"omitempty,oneof=debug info warn warning error"`
		Format string `yaml:"format" validate:"omitempty,oneof=text json"`
	} `yaml:"log"`

	Auth struct {
		JWTSecret string `yaml:"jwtSecret" validate:"omitempty,min=16"`
	} `yaml:"auth"`
}

// LoadFile reads and validates a YAML file and applies it on top of cfg.
func LoadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	var fc FileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if err := validator.New().Struct(fc); err != nil {
		return fmt.Errorf("invalid config file %s: %w", path, err)
	}
	fc.apply(cfg)
	return nil
}

func (fc *FileConfig) apply(cfg *Config) {
	if fc.Server.Port > 0 {
		cfg.Port = fmt.Sprintf(":%d", fc.Server.Port)
	}
	if fc.Geotag.OffsetSeconds != nil {
		cfg.OffsetSeconds = *fc.Geotag.OffsetSeconds
	}
	if fc.Geotag.Workers > 0 {
		cfg.Workers = fc.Geotag.Workers
	}
	if fc.Geotag.FailFast != nil {
		cfg.FailFast = *fc.Geotag.FailFast
	}
	if fc.Geotag.DryRun != nil {
		cfg.DryRun = *fc.Geotag.DryRun
	}
	if fc.Geotag.Journal != "" {
		cfg.JournalPath = fc.Geotag.Journal
	}
	if fc.Geotag.Track != "" {
		cfg.TrackPath = fc.Geotag.Track
	}
	if fc.Log.Level != "" {
		cfg.LogLevel = fc.Log.Level
	}
	if fc.Log.Format != "" {
		cfg.LogFormat = fc.Log.Format
	}
	if fc.Auth.JWTSecret != "" {
		cfg.JWTSecret = fc.Auth.JWTSecret
	}
}
