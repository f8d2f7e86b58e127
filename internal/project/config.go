// Package project loads jsfront.toml and maps module paths to loaded files.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// ManifestName is the project file looked up by FindManifest.
const ManifestName = "jsfront.toml"

var (
	// ErrProjectSectionMissing indicates that [project] is missing.
	ErrProjectSectionMissing = errors.New("missing [project]")
	// ErrProjectNameMissing indicates that [project].name is missing or empty.
	ErrProjectNameMissing = errors.New("missing [project].name")
)

// DefaultExtensions are tried, in order, when a require specifier names a
// module without its extension.
var DefaultExtensions = []string{".js", ".mjs", ".cjs"}

type Config struct {
	// Root is the directory containing the manifest; empty for defaults.
	Root string `toml:"-"`

	Project struct {
		Name  string   `toml:"name"`
		Roots []string `toml:"roots"`
	} `toml:"project"`

	Resolve struct {
		Extensions []string `toml:"extensions"`
		Jobs       int      `toml:"jobs"`
	} `toml:"resolve"`

	Limits struct {
		Decls     uint32 `toml:"decls"`
		Scopes    uint32 `toml:"scopes"`
		Functions uint32 `toml:"functions"`
	} `toml:"limits"`
}

// Default returns the configuration used when no manifest exists.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if len(c.Project.Roots) == 0 {
		c.Project.Roots = []string{"."}
	}
	if len(c.Resolve.Extensions) == 0 {
		c.Resolve.Extensions = append([]string(nil), DefaultExtensions...)
	}
	if c.Resolve.Jobs < 0 {
		c.Resolve.Jobs = 0
	}
}

// RootDirs returns the configured roots as filesystem paths.
func (c *Config) RootDirs() []string {
	out := make([]string, 0, len(c.Project.Roots))
	for _, r := range c.Project.Roots {
		if c.Root != "" && !filepath.IsAbs(r) {
			r = filepath.Join(c.Root, filepath.FromSlash(r))
		}
		out = append(out, r)
	}
	return out
}

// FindManifest walks up from startDir to locate jsfront.toml.
func FindManifest(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}

// LoadConfig decodes and validates a manifest.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("project") {
		return nil, fmt.Errorf("%s: %w", path, ErrProjectSectionMissing)
	}
	cfg.Project.Name = strings.TrimSpace(cfg.Project.Name)
	if !meta.IsDefined("project", "name") || cfg.Project.Name == "" {
		return nil, fmt.Errorf("%s: %w", path, ErrProjectNameMissing)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	for _, ext := range cfg.Resolve.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return nil, fmt.Errorf("%s: [resolve].extensions: %q must start with '.'", path, ext)
		}
	}
	for _, r := range cfg.Project.Roots {
		if filepath.IsAbs(r) {
			return nil, fmt.Errorf("%s: [project].roots: %q must be relative", path, r)
		}
	}
	cfg.Root = filepath.Dir(path)
	cfg.applyDefaults()
	return &cfg, nil
}

// Discover finds and loads the manifest above startDir, falling back to
// Default when there is none.
func Discover(startDir string) (*Config, error) {
	path, ok, err := FindManifest(startDir)
	if err != nil {
		return nil, err
	}
	if !ok {
		return Default(), nil
	}
	return LoadConfig(path)
}
