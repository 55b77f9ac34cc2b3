package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dusk-indust/parsedescribe/internal/engine"
	"gopkg.in/yaml.v3"
)

// ProjectConfig holds project-level settings loaded from parsedescribe.yml.
type ProjectConfig struct {
	Language    string            `yaml:"language,omitempty"`
	ExcludeDirs []string          `yaml:"excludeDirs,omitempty"`
	Workers     int               `yaml:"workers,omitempty"`
	Verbose     bool              `yaml:"verbose,omitempty"`
	Extensions  map[string]string `yaml:"extensions,omitempty"`
}

// Load attempts to read parsedescribe.yml or parsedescribe.yaml from the
// given directory. Returns a zero-value config (not an error) if no config
// file exists.
func Load(dir string) (*ProjectConfig, error) {
	for _, name := range []string{"parsedescribe.yml", "parsedescribe.yaml"} {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var cfg ProjectConfig
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		if err := cfg.validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return &cfg, nil
	}
	return &ProjectConfig{}, nil
}

func (c *ProjectConfig) validate() error {
	if c.Language != "" {
		if _, err := engine.ParseLanguage(c.Language); err != nil {
			return err
		}
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	_, err := c.ExtensionMap()
	return err
}

// DefaultLanguage returns the configured fallback language, or the engine
// default when none is set.
func (c *ProjectConfig) DefaultLanguage() engine.Language {
	if c.Language == "" {
		return engine.DefaultLanguage
	}
	lang, err := engine.ParseLanguage(c.Language)
	if err != nil {
		return engine.DefaultLanguage
	}
	return lang
}

// ExtensionMap converts the extra extension mappings into engine languages.
// Keys are normalized to a lower-case ".ext" form.
func (c *ProjectConfig) ExtensionMap() (map[string]engine.Language, error) {
	if len(c.Extensions) == 0 {
		return nil, nil
	}
	out := make(map[string]engine.Language, len(c.Extensions))
	for ext, name := range c.Extensions {
		lang, err := engine.ParseLanguage(name)
		if err != nil {
			return nil, fmt.Errorf("extension %q: %w", ext, err)
		}
		ext = strings.ToLower(ext)
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		out[ext] = lang
	}
	return out, nil
}

// Excluded reports whether a directory base name is skipped when walking.
// VCS metadata directories are always skipped.
func (c *ProjectConfig) Excluded(name string) bool {
	if name == ".git" || name == ".hg" {
		return true
	}
	for _, d := range c.ExcludeDirs {
		if d == name {
			return true
		}
	}
	return false
}
