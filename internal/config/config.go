// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/slide-deck/internal/schemas"
)

// DefaultPort matches the port the presentation has always been served on.
const DefaultPort = 3000

// DefaultMaxAssetSize is the bundle size above which a build warns.
const DefaultMaxAssetSize = 1024000

// Config represents the deck configuration that can be loaded from deck.json.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	SourceDir    string `json:"source_dir,omitempty"`    // Slide sources (Markdown, entry scripts, assets)
	OutputDir    string `json:"output_dir,omitempty"`    // Build output, wiped on every build
	FrameworkDir string `json:"framework_dir,omitempty"` // Slide framework runtime (reveal.js checkout)

	// Entries maps a bundle name to its entry script; each produces <name>.js.
	Entries map[string]string `json:"entries,omitempty" validate:"omitempty,dive,keys,required,excludesall=/,endkeys,required"`

	Port         int   `json:"port,omitempty" validate:"omitempty,min=1,max=65535"`
	MaxAssetSize int64 `json:"max_asset_size,omitempty" validate:"min=0"` // Bundles above this size are reported
	Minify       bool  `json:"minify,omitempty"`
	Verbose      bool  `json:"verbose,omitempty"` // Print detailed build information
}

// Defaults returns the configuration used when nothing else is provided.
func Defaults() Config {
	return Config{
		SourceDir:    "src",
		OutputDir:    "dist",
		FrameworkDir: filepath.Join("node_modules", "reveal.js"),
		Entries: map[string]string{
			"main":    "./src/index.js",
			"content": "./src/content/index.js",
		},
		Port:         DefaultPort,
		MaxAssetSize: DefaultMaxAssetSize,
		Minify:       true,
	}
}

// LoadConfig loads configuration from a JSON file.
// The file is checked against the deck schema before it is decoded.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if !json.Valid(data) {
		return nil, fmt.Errorf("failed to parse config JSON: %s is not valid JSON", path)
	}
	if err := schemas.ValidateDeckConfig(data); err != nil {
		return nil, fmt.Errorf("config %s does not match schema: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// after merging with defaults.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	if c.SourceDir != "" && c.OutputDir != "" && samePath(c.SourceDir, c.OutputDir) {
		return fmt.Errorf("config error: 'output_dir' must differ from 'source_dir' (output is wiped on build)")
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.SourceDir == "" {
		result.SourceDir = defaults.SourceDir
	}
	if result.OutputDir == "" {
		result.OutputDir = defaults.OutputDir
	}
	if result.FrameworkDir == "" {
		result.FrameworkDir = defaults.FrameworkDir
	}
	if len(result.Entries) == 0 && len(defaults.Entries) > 0 {
		result.Entries = make(map[string]string, len(defaults.Entries))
		for name, entry := range defaults.Entries {
			result.Entries[name] = entry
		}
	}
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.MaxAssetSize == 0 {
		result.MaxAssetSize = defaults.MaxAssetSize
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// Addr returns the listen address for the static server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}
