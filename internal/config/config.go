// Package config loads canopy clustering settings from YAML files.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/TrevorS/canopy"
	"gopkg.in/yaml.v3"
)

// FileConfig mirrors canopy.Config in a file-friendly form.
type FileConfig struct {
	T2                 float64 `yaml:"t2"`
	T1                 float64 `yaml:"t1"`
	NumClusters        int     `yaml:"num_clusters"`
	Seed               int64   `yaml:"seed"`
	DontReplaceMissing bool    `yaml:"dont_replace_missing"`
	Normalize          bool    `yaml:"normalize"`
	Metric             string  `yaml:"metric"`                // euclidean, manhattan, chebyshev or minkowski
	MinkowskiP         float64 `yaml:"minkowski_p,omitempty"` // only for metric: minkowski
	Workers            int     `yaml:"workers,omitempty"`     // 0 means one per CPU
	LogLevel           string  `yaml:"log_level"`             // debug, info, warn or error
}

// Default returns the settings canopy.DefaultConfig uses.
func Default() *FileConfig {
	d := canopy.DefaultConfig()
	return &FileConfig{
		T2:          d.T2,
		T1:          d.T1,
		NumClusters: d.NumClusters,
		Seed:        d.Seed,
		Normalize:   true,
		Metric:      "euclidean",
		MinkowskiP:  2,
		LogLevel:    "warn",
	}
}

// Load reads a YAML file on top of Default. Keys absent from the file keep
// their defaults.
func Load(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML on top of Default and validates the result.
func Parse(data []byte) (*FileConfig, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *FileConfig) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate checks the fields that canopy.New can't check on its own.
func (c *FileConfig) Validate() error {
	if _, err := c.metric(); err != nil {
		return err
	}
	if _, err := c.level(); err != nil {
		return err
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0, got %d", c.Workers)
	}
	return nil
}

// ToConfig builds a canopy.Config for records of schema. Diagnostics at or
// above LogLevel are written to logOut.
func (c *FileConfig) ToConfig(schema *canopy.Schema, logOut io.Writer) (canopy.Config, error) {
	metric, err := c.metric()
	if err != nil {
		return canopy.Config{}, err
	}
	level, err := c.level()
	if err != nil {
		return canopy.Config{}, err
	}

	cfg := canopy.DefaultConfig()
	cfg.T2 = c.T2
	cfg.T1 = c.T1
	cfg.NumClusters = c.NumClusters
	cfg.Seed = c.Seed
	cfg.DontReplaceMissing = c.DontReplaceMissing
	cfg.Metric = metric
	cfg.Workers = c.Workers
	cfg.Logger = canopy.NewTextLogger(logOut, level)
	if !c.Normalize {
		cfg.Distance = canopy.NewNormalizedDistance(schema, metric, canopy.WithoutNormalization())
	}
	return cfg, nil
}

func (c *FileConfig) metric() (canopy.DistanceMetric, error) {
	switch strings.ToLower(c.Metric) {
	case "", "euclidean":
		return canopy.EuclideanMetric{}, nil
	case "manhattan":
		return canopy.ManhattanMetric{}, nil
	case "chebyshev":
		return canopy.ChebyshevMetric{}, nil
	case "minkowski":
		if c.MinkowskiP < 1 {
			return nil, fmt.Errorf("minkowski_p must be >= 1, got %v", c.MinkowskiP)
		}
		return canopy.MinkowskiMetric{P: c.MinkowskiP}, nil
	default:
		return nil, fmt.Errorf("unknown metric %q", c.Metric)
	}
}

func (c *FileConfig) level() (slog.Level, error) {
	var level slog.Level
	if c.LogLevel == "" {
		return slog.LevelWarn, nil
	}
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}
	return level, nil
}
