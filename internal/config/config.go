package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Config represents the repolens configuration.
type Config struct {
	Exclude   ExcludeConfig `yaml:"exclude"`
	Include   IncludeConfig `yaml:"include"`
	Languages []string      `yaml:"languages"`
	History   HistoryConfig `yaml:"history"`

	includeRe []*regexp.Regexp
	excludeRe []*regexp.Regexp
}

// ExcludeConfig defines patterns to exclude from extraction.
type ExcludeConfig struct {
	Dirs      []string `yaml:"dirs"`
	FilesGlob []string `yaml:"files_glob"`
	Patterns  []string `yaml:"patterns"` // regexes matched against normalized paths
}

// IncludeConfig restricts extraction to matching paths when non-empty.
type IncludeConfig struct {
	Patterns []string `yaml:"patterns"`
}

// HistoryConfig tunes the history extractor.
type HistoryConfig struct {
	// PathPrefix is prepended to repo-relative paths reported by git so they
	// line up with the paths recorded by the code extractor, e.g. "python/".
	PathPrefix string `yaml:"path_prefix"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Exclude: ExcludeConfig{
			Dirs:      []string{".git", "vendor", "node_modules", "third_party", "testdata"},
			FilesGlob: []string{"*.pb.go", "*_gen.go", "*_mock.go"},
		},
		Languages: []string{"python", "go", "typescript", "rust"},
	}
}

// Load reads configuration from file, falling back to defaults.
// If configPath is empty, it looks for repolens.yaml in the current directory.
// Values in the config file replace defaults entirely (no merging).
func Load(configPath string) (*Config, error) {
	defaults := Default()

	if configPath == "" {
		configPath = "repolens.yaml"
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			// No config file, use defaults
			return defaults, defaults.compile()
		}
		return nil, err
	}

	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, err
	}

	// Apply defaults for missing fields
	defaults.Merge(&fileCfg)
	return defaults, defaults.compile()
}

// LoadFromDir loads configuration from the specified directory.
func LoadFromDir(dir string) (*Config, error) {
	return Load(filepath.Join(dir, "repolens.yaml"))
}

// Merge combines another config into this one, with other taking precedence.
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	if len(other.Exclude.Dirs) > 0 {
		c.Exclude.Dirs = other.Exclude.Dirs
	}
	if len(other.Exclude.FilesGlob) > 0 {
		c.Exclude.FilesGlob = other.Exclude.FilesGlob
	}
	if len(other.Exclude.Patterns) > 0 {
		c.Exclude.Patterns = other.Exclude.Patterns
	}
	if len(other.Include.Patterns) > 0 {
		c.Include.Patterns = other.Include.Patterns
	}
	if len(other.Languages) > 0 {
		c.Languages = other.Languages
	}
	if other.History.PathPrefix != "" {
		c.History.PathPrefix = other.History.PathPrefix
	}
}

// compile precompiles include/exclude regexes so a bad pattern fails at
// load time, not per file.
func (c *Config) compile() error {
	c.includeRe = c.includeRe[:0]
	c.excludeRe = c.excludeRe[:0]
	for _, p := range c.Include.Patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return fmt.Errorf("invalid include pattern %q: %w", p, err)
		}
		c.includeRe = append(c.includeRe, re)
	}
	for _, p := range c.Exclude.Patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return fmt.Errorf("invalid exclude pattern %q: %w", p, err)
		}
		c.excludeRe = append(c.excludeRe, re)
	}
	return nil
}

// IsExcludedDir checks if a directory should be excluded from extraction.
func (c *Config) IsExcludedDir(dir string) bool {
	base := filepath.Base(dir)
	for _, excluded := range c.Exclude.Dirs {
		if base == excluded {
			return true
		}
	}
	return false
}

// IncludesPath reports whether a normalized slash-separated path passes the
// include/exclude filters. Both extractors apply the same rule so code and
// history see the same file universe.
func (c *Config) IncludesPath(path string) bool {
	base := filepath.Base(path)
	for _, glob := range c.Exclude.FilesGlob {
		if matched, err := filepath.Match(glob, base); err == nil && matched {
			return false
		}
	}
	if len(c.includeRe) > 0 {
		found := false
		for _, re := range c.includeRe {
			if re.MatchString(path) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	for _, re := range c.excludeRe {
		if re.MatchString(path) {
			return false
		}
	}
	return true
}

// LanguageEnabled reports whether extraction is enabled for a language.
func (c *Config) LanguageEnabled(lang string) bool {
	for _, l := range c.Languages {
		if l == lang {
			return true
		}
	}
	return false
}
