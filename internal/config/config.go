package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	MinGroupSize      int      `yaml:"min_group_size"`
	MaxDepth          int      `yaml:"max_depth"`
	MergeThreshold    int      `yaml:"merge_threshold"`
	MinRootConfidence float64  `yaml:"min_root_confidence"`
	RespectRoots      bool     `yaml:"respect_roots"`
	PreventRedundancy bool     `yaml:"prevent_redundancy"`
	FollowSymlinks    bool     `yaml:"follow_symlinks"`
	Skip              []string `yaml:"skip"`
	LogLevel          string   `yaml:"log_level"`
	LogFormat         string   `yaml:"log_format"`
}

func DefaultConfig() *Config {
	return &Config{
		MinGroupSize:      5,
		MaxDepth:          3,
		MergeThreshold:    3,
		MinRootConfidence: 0.7,
		RespectRoots:      true,
		PreventRedundancy: true,
		// Junk only. Root markers like .git must stay visible to the scan
		// or protected-root detection cannot see them.
		Skip: []string{
			"*.tmp",
			"*.swp",
			".DS_Store",
			"Thumbs.db",
			"desktop.ini",
		},
		LogLevel:  "info",
		LogFormat: "text",
	}
}

// Load reads a YAML config, overlaying the file's keys onto the defaults.
// A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	if cfg.Skip == nil {
		cfg.Skip = []string{}
	}

	return cfg, nil
}
