// Package config loads linemod.toml / linemod.yaml project settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-yaml"

	"linemod/internal/rules"
)

// FileNames are the config file names searched for, in priority order.
var FileNames = []string{"linemod.toml", "linemod.yaml", "linemod.yml"}

// Config is the decoded contents of a config file.
type Config struct {
	Path  string             `toml:"-" yaml:"-"`
	Run   RunConfig          `toml:"run" yaml:"run"`
	Rules []rules.Definition `toml:"rule" yaml:"rules"`
}

// RunConfig holds defaults for the run command. Command line flags override them.
type RunConfig struct {
	Rules         []string `toml:"rules" yaml:"rules"`
	Extensions    []string `toml:"extensions" yaml:"extensions"`
	Exclude       []string `toml:"exclude" yaml:"exclude"`
	Jobs          int      `toml:"jobs" yaml:"jobs"`
	MarkdownLangs []string `toml:"markdown_langs" yaml:"markdown_langs"`
	StateFile     string   `toml:"state_file" yaml:"state_file"`
	Incremental   bool     `toml:"incremental" yaml:"incremental"`
}

// Default returns the settings used when no config file exists.
func Default() *Config {
	return &Config{
		Run: RunConfig{
			Extensions:    []string{".dart"},
			MarkdownLangs: []string{"dart"},
			StateFile:     ".linemod_state.json",
		},
	}
}

// Find walks up from startDir looking for a config file.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		for _, name := range FileNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, true, nil
			} else if !errors.Is(err, os.ErrNotExist) {
				return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load decodes the config file at path on top of Default.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("%s: failed to parse YAML: %w", path, err)
		}
	default:
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
		}
	}
	if cfg.Run.Jobs < 0 {
		return nil, fmt.Errorf("%s: run.jobs must not be negative", path)
	}
	cfg.Path = path
	return cfg, nil
}

// Discover loads the nearest config file above startDir, or Default when there is none.
func Discover(startDir string) (*Config, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return nil, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

// Catalog returns the built-in rules plus the rules defined in the config.
func (c *Config) Catalog() (*rules.Catalog, error) {
	catalog := rules.Builtin()
	for _, def := range c.Rules {
		r, err := def.Compile()
		if err != nil {
			return nil, c.wrap(err)
		}
		if err := catalog.Add(r); err != nil {
			return nil, c.wrap(err)
		}
	}
	return catalog, nil
}

func (c *Config) wrap(err error) error {
	if c.Path == "" {
		return err
	}
	return fmt.Errorf("%s: %w", c.Path, err)
}
