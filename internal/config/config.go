// Package config provides the Config struct and loader for .bunk.yaml
// configuration files, plus BUNK_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bunkapp/bunk/internal/utils"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// FileName is the configuration file looked up by Load.
const FileName = ".bunk.yaml"

// Default values. New() references them and no other code should duplicate
// them.
const (
	DefaultCriteria = 75

	BackendFile   = "file"
	BackendAzBlob = "azblob"

	DefaultBackend       = BackendFile
	DefaultBlobContainer = "bunk-state"

	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"

	DefaultFormat     = "text"
	DefaultExportDir  = "."
	DefaultExportName = "attendance-report"
)

// maxWalk bounds how many parent directories Load searches.
const maxWalk = 10

// DefaultsConfig holds defaults for the calculator inputs.
type DefaultsConfig struct {
	Criteria float64 `yaml:"criteria,omitempty"`
}

// BlobConfig locates the Azure Storage container used by the azblob backend.
type BlobConfig struct {
	AccountURL string `yaml:"account_url,omitempty"`
	Container  string `yaml:"container,omitempty"`
}

// StateConfig controls where the last inputs are remembered.
type StateConfig struct {
	Enabled *bool      `yaml:"enabled,omitempty"`
	Backend string     `yaml:"backend,omitempty"`
	Dir     string     `yaml:"dir,omitempty"`
	Blob    BlobConfig `yaml:"blob,omitempty"`
}

// OutputConfig holds rendering preferences.
type OutputConfig struct {
	Format string `yaml:"format,omitempty"`
	Color  string `yaml:"color,omitempty"`
}

// ExportConfig holds where exported cards are written.
type ExportConfig struct {
	Dir  string `yaml:"dir,omitempty"`
	Name string `yaml:"name,omitempty"`
}

// Config is the top-level configuration loaded from .bunk.yaml.
type Config struct {
	Defaults DefaultsConfig `yaml:"defaults,omitempty"`
	State    StateConfig    `yaml:"state,omitempty"`
	Output   OutputConfig   `yaml:"output,omitempty"`
	Export   ExportConfig   `yaml:"export,omitempty"`

	// Path is the file the configuration was read from, if any.
	Path string `yaml:"-"`
}

// New returns a Config with all hard-coded defaults populated.
func New() *Config {
	return &Config{
		Defaults: DefaultsConfig{
			Criteria: DefaultCriteria,
		},
		State: StateConfig{
			Enabled: utils.Ptr(true),
			Backend: DefaultBackend,
			Blob: BlobConfig{
				Container: DefaultBlobContainer,
			},
		},
		Output: OutputConfig{
			Format: DefaultFormat,
			Color:  ColorAuto,
		},
		Export: ExportConfig{
			Dir:  DefaultExportDir,
			Name: DefaultExportName,
		},
	}
}

// StateEnabled reports whether inputs should be remembered between runs.
func (c *Config) StateEnabled() bool {
	return c.State.Enabled == nil || *c.State.Enabled
}

// StateDir returns the directory used by the file backend. When none is
// configured it is "bunk" under the user's configuration directory.
func (c *Config) StateDir() (string, error) {
	if c.State.Dir != "" {
		return c.State.Dir, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locating user config directory: %w", err)
	}
	return filepath.Join(base, "bunk"), nil
}

// Validate checks enumerated values and ranges.
func (c *Config) Validate() error {
	var errs []error
	if c.Defaults.Criteria < 0 || c.Defaults.Criteria > 100 {
		errs = append(errs, fmt.Errorf("defaults.criteria must be between 0 and 100, got %v", c.Defaults.Criteria))
	}
	switch c.State.Backend {
	case BackendFile:
	case BackendAzBlob:
		if c.StateEnabled() && c.State.Blob.AccountURL == "" {
			errs = append(errs, errors.New("state.blob.account_url is required for the azblob backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("state.backend must be %q or %q, got %q", BackendFile, BackendAzBlob, c.State.Backend))
	}
	switch c.Output.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		errs = append(errs, fmt.Errorf("output.color must be one of auto, always, never, got %q", c.Output.Color))
	}
	return errors.Join(errs...)
}

// Load finds .bunk.yaml by walking up from startDir (max 10 levels),
// unmarshals it, and fills in missing fields with defaults.
// If no config file is found, returns defaults with a nil error.
func Load(startDir string) (*Config, error) {
	path, err := findConfigFile(startDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return New(), nil
		}
		return nil, fmt.Errorf("loading %s: %w", FileName, err)
	}
	return LoadFile(path)
}

// LoadFile reads the configuration at path and merges it onto the defaults.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	// Directories in the file are relative to the file itself.
	baseDir := filepath.Dir(path)
	fileCfg.State.Dir = utils.ResolvePath(fileCfg.State.Dir, baseDir)
	fileCfg.Export.Dir = utils.ResolvePath(fileCfg.Export.Dir, baseDir)

	cfg := New()
	mergeConfig(cfg, &fileCfg)
	cfg.Path = path
	return cfg, nil
}

// findConfigFile walks up from dir looking for .bunk.yaml and returns its
// path, or os.ErrNotExist. Real I/O errors are propagated.
func findConfigFile(dir string) (string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving path %q: %w", dir, err)
	}
	dir = absDir

	for i := 0; i < maxWalk; i++ {
		p := filepath.Join(dir, FileName)
		info, err := os.Stat(p)
		if err == nil && !info.IsDir() {
			return p, nil
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("checking %q: %w", p, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break // reached filesystem root
		}
		dir = parent
	}
	return "", os.ErrNotExist
}

// mergeConfig overlays non-zero values from src onto dst.
func mergeConfig(dst, src *Config) {
	if src.Defaults.Criteria != 0 {
		dst.Defaults.Criteria = src.Defaults.Criteria
	}

	if src.State.Enabled != nil {
		dst.State.Enabled = src.State.Enabled
	}
	if src.State.Backend != "" {
		dst.State.Backend = src.State.Backend
	}
	if src.State.Dir != "" {
		dst.State.Dir = src.State.Dir
	}
	if src.State.Blob.AccountURL != "" {
		dst.State.Blob.AccountURL = src.State.Blob.AccountURL
	}
	if src.State.Blob.Container != "" {
		dst.State.Blob.Container = src.State.Blob.Container
	}

	if src.Output.Format != "" {
		dst.Output.Format = src.Output.Format
	}
	if src.Output.Color != "" {
		dst.Output.Color = src.Output.Color
	}

	if src.Export.Dir != "" {
		dst.Export.Dir = src.Export.Dir
	}
	if src.Export.Name != "" {
		dst.Export.Name = src.Export.Name
	}
}

// LoadDotEnv loads KEY=value pairs from the .env file in dir into the
// process environment. Variables that are already set win. A missing file is
// not an error.
func LoadDotEnv(dir string) error {
	path := filepath.Join(dir, ".env")
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overlays BUNK_* variables read through lookup onto c.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(name); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}

	var errs []error
	if v, ok := lookup("BUNK_CRITERIA"); ok && v != "" {
		f, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(v), "%"), 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("BUNK_CRITERIA: %w", err))
		} else {
			c.Defaults.Criteria = f
		}
	}
	if v, ok := lookup("BUNK_STATE_ENABLED"); ok && v != "" {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			errs = append(errs, fmt.Errorf("BUNK_STATE_ENABLED: %w", err))
		} else {
			c.State.Enabled = utils.Ptr(b)
		}
	}
	str("BUNK_STATE_BACKEND", &c.State.Backend)
	str("BUNK_STATE_DIR", &c.State.Dir)
	str("BUNK_BLOB_ACCOUNT_URL", &c.State.Blob.AccountURL)
	str("BUNK_BLOB_CONTAINER", &c.State.Blob.Container)
	str("BUNK_OUTPUT_FORMAT", &c.Output.Format)
	str("BUNK_COLOR", &c.Output.Color)
	str("BUNK_EXPORT_DIR", &c.Export.Dir)
	str("BUNK_EXPORT_NAME", &c.Export.Name)

	return errors.Join(errs...)
}
