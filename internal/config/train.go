package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// TrainConfig is the train.yaml configuration for a learning run.
type TrainConfig struct {
	// Data is the path to the training set: one observed value per line in
	// surface syntax (e.g. "cons true nil"). Blank lines and # comments are
	// skipped.
	Data string `yaml:"data"`

	// Epochs is the number of gradient-descent passes. Defaults to 100.
	Epochs int `yaml:"epochs,omitempty"`

	// LearningRate is the SGD step size. Defaults to 0.01.
	LearningRate float64 `yaml:"learning_rate,omitempty"`

	// Seed seeds parameter initialization. Zero means time-seeded.
	Seed int64 `yaml:"seed,omitempty"`

	// Store is the SQLite database to record the run in. Empty disables
	// recording; "default" uses DefaultStorePath.
	Store string `yaml:"store,omitempty"`
}

// LoadTrainConfig reads and validates a training configuration file.
func LoadTrainConfig(path string) (*TrainConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading train config: %w", err)
	}

	cfg := &TrainConfig{}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parsing train config %s: %w", path, err)
	}

	if cfg.Data == "" {
		return nil, fmt.Errorf("train config %s: data path is required", path)
	}
	if cfg.Epochs < 0 {
		return nil, fmt.Errorf("train config %s: epochs must be non-negative", path)
	}
	if cfg.Epochs == 0 {
		cfg.Epochs = 100
	}
	if cfg.LearningRate < 0 {
		return nil, fmt.Errorf("train config %s: learning_rate must be non-negative", path)
	}
	if cfg.LearningRate == 0 {
		cfg.LearningRate = 0.01
	}
	if cfg.Store == "default" {
		cfg.Store = DefaultStorePath
	}
	return cfg, nil
}
