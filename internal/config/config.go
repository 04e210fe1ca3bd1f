// Package config loads sumgen.toml and turns build properties into
// generator options.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"golang.org/x/text/cases"

	"sumgen/internal/model"
)

// FileName is the manifest looked up from the target directory upwards.
const FileName = "sumgen.toml"

// AsyncProperty is the build-level switch for async helpers.
const AsyncProperty = "AsyncUnionExtensions"

var (
	ErrEmptyPropertyKey = errors.New("empty property key")
	ErrBadProperty      = errors.New("property must be KEY=VALUE")
)

// Config is the decoded manifest. Zero values mean "not set".
type Config struct {
	// Path of the manifest; empty when defaults are used.
	Path          string            `toml:"-"`
	BuildProperty map[string]string `toml:"build_property"`
	Generator     Generator         `toml:"generator"`
}

type Generator struct {
	Output           string   `toml:"output"`
	RuntimeNamespace string   `toml:"runtime_namespace"`
	Extensions       []string `toml:"extensions"`
	Jobs             int      `toml:"jobs"`
	// Indent is one indentation step of generated code; empty means four spaces.
	Indent string `toml:"indent"`
}

// Default is the configuration used without a manifest.
func Default() Config {
	return Config{
		BuildProperty: map[string]string{},
		Generator: Generator{
			Output:           filepath.Join("obj", "sumgen"),
			RuntimeNamespace: model.DefaultRuntimeNamespace,
			Extensions:       []string{".cs"},
		},
	}
}

// Find walks up from startDir to locate sumgen.toml.
func Find(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	if info, statErr := os.Stat(dir); statErr == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load decodes path on top of Default. Relative output paths are resolved
// against the manifest directory.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("%s: unknown key %s", path, undecoded[0])
	}
	if cfg.Generator.Jobs < 0 {
		return Config{}, fmt.Errorf("%s: [generator].jobs must not be negative", path)
	}
	if strings.Trim(cfg.Generator.Indent, " \t") != "" {
		return Config{}, fmt.Errorf("%s: [generator].indent may only contain spaces and tabs", path)
	}
	if strings.TrimSpace(cfg.Generator.RuntimeNamespace) == "" {
		cfg.Generator.RuntimeNamespace = model.DefaultRuntimeNamespace
	}
	if !filepath.IsAbs(cfg.Generator.Output) && meta.IsDefined("generator", "output") {
		cfg.Generator.Output = filepath.Join(filepath.Dir(path), cfg.Generator.Output)
	}
	if cfg.BuildProperty == nil {
		cfg.BuildProperty = map[string]string{}
	}
	cfg.Path = path
	return cfg, nil
}

// Discover finds and loads the manifest for startDir, falling back to
// Default when there is none.
func Discover(startDir string) (Config, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

// SetProperty applies one "KEY=VALUE" override.
func (c *Config) SetProperty(kv string) error {
	key, value, ok := strings.Cut(kv, "=")
	if !ok {
		return fmt.Errorf("%q: %w", kv, ErrBadProperty)
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return ErrEmptyPropertyKey
	}
	if c.BuildProperty == nil {
		c.BuildProperty = map[string]string{}
	}
	c.BuildProperty[key] = strings.TrimSpace(value)
	return nil
}

// Options derives generator options from the manifest.
func (c Config) Options() model.GeneratorOptions {
	opts := ParseOptions(c.BuildProperty)
	if ns := strings.TrimSpace(c.Generator.RuntimeNamespace); ns != "" {
		opts.RuntimeNamespace = ns
	}
	return opts
}

// ParseOptions reads the build properties. Async generation is on when
// AsyncUnionExtensions is enable, enabled or true in any letter case.
func ParseOptions(props map[string]string) model.GeneratorOptions {
	opts := model.GeneratorOptions{RuntimeNamespace: model.DefaultRuntimeNamespace}
	value, ok := props[AsyncProperty]
	if !ok {
		return opts
	}
	switch cases.Fold().String(strings.TrimSpace(value)) {
	case "enable", "enabled", "true":
		opts.AsyncExtensions = true
	}
	return opts
}
