// Package config loads runtime tunables from defaults, an optional JSON
// config file, and LUMINA_-prefixed environment variables, in that order of
// precedence (later wins).
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/confmap"
	env "github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigFile is looked for in the working directory when no explicit
// path is given.
const DefaultConfigFile = "lumina.json"

const envPrefix = "LUMINA_"

// Config holds every tunable the analysis pipeline and CLI read.
type Config struct {
	TraceCap          int     `koanf:"trace_cap"`
	OutputBudget      int     `koanf:"output_budget"`
	LongFunctionLines int     `koanf:"long_function_lines"`
	StepBudget        int     `koanf:"step_budget"`
	MaxDepth          int     `koanf:"max_depth"`
	TimeoutSeconds    float64 `koanf:"timeout_seconds"`
	HistoryPath       string  `koanf:"history_path"`
	DemoGlob          string  `koanf:"demo_glob"`
}

// Timeout returns the execution timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds * float64(time.Second))
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"trace_cap":           500,
		"output_budget":       10_000,
		"long_function_lines": 30,
		"step_budget":         200_000,
		"max_depth":           200,
		"timeout_seconds":     5.0,
		"history_path":        "lumina-history.db",
		"demo_glob":           "sample_bugs/*.py",
	}
}

// Load builds the effective configuration. path names a JSON config file;
// an empty path falls back to DefaultConfigFile, and a missing file is not
// an error.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	explicit := path != ""
	if path == "" {
		path = DefaultConfigFile
	}
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), json.Parser()); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
	} else if explicit {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}

	err := k.Load(env.Provider(".", env.Opt{
		Prefix: envPrefix,
		TransformFunc: func(key, value string) (string, any) {
			return strings.ToLower(strings.TrimPrefix(key, envPrefix)), value
		},
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return &cfg, nil
}
