// Package config loads the service tuning file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pflow-xyz/go-goap/planner"
)

// Config is the full tuning surface of the service.
type Config struct {
	Listen  string  `yaml:"listen"`
	Planner Planner `yaml:"planner"`
	History History `yaml:"history"`
}

// Planner bounds the search and sizes the plan cache.
type Planner struct {
	MaxDepth  int `yaml:"max_depth"`
	MaxNodes  int `yaml:"max_nodes"`
	CacheSize int `yaml:"cache_size"`
}

// History configures persistence of planning records.
type History struct {
	DBPath   string `yaml:"db_path"`
	LogDir   string `yaml:"log_dir"`
	Disabled bool   `yaml:"disabled"`
}

// Default returns the built-in tuning.
func Default() Config {
	return Config{
		Listen: ":8080",
		Planner: Planner{
			MaxDepth:  planner.DefaultMaxDepth,
			MaxNodes:  planner.DefaultMaxNodes,
			CacheSize: 1024,
		},
		History: History{
			DBPath: "data/history.db",
			LogDir: "data/logs",
		},
	}
}

// Load reads a tuning file over the defaults. An empty path (or an
// empty file) returns the defaults unchanged. Unknown keys are
// rejected so typos fail loudly; empty or non-positive values fall
// back to the default per field.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)

	var loaded Config
	if err := dec.Decode(&loaded); err != nil {
		if errors.Is(err, io.EOF) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}

	if loaded.Listen != "" {
		cfg.Listen = loaded.Listen
	}
	if loaded.Planner.MaxDepth > 0 {
		cfg.Planner.MaxDepth = loaded.Planner.MaxDepth
	}
	if loaded.Planner.MaxNodes > 0 {
		cfg.Planner.MaxNodes = loaded.Planner.MaxNodes
	}
	if loaded.Planner.CacheSize > 0 {
		cfg.Planner.CacheSize = loaded.Planner.CacheSize
	}
	if loaded.History.DBPath != "" {
		cfg.History.DBPath = loaded.History.DBPath
	}
	if loaded.History.LogDir != "" {
		cfg.History.LogDir = loaded.History.LogDir
	}
	cfg.History.Disabled = loaded.History.Disabled

	return cfg, nil
}
