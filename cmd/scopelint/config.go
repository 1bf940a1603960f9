package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"scopelint/internal/diag"
	"scopelint/internal/diagfmt"
)

const configFileName = "scopelint.toml"

// projectConfig mirrors scopelint.toml.
type projectConfig struct {
	Parser   parserConfig   `toml:"parser"`
	Lint     lintConfig     `toml:"lint"`
	Builtins builtinsConfig `toml:"builtins"`
	Cache    cacheConfig    `toml:"cache"`
	Output   outputConfig   `toml:"output"`
}

type parserConfig struct {
	Command string   `toml:"command"`
	Args    []string `toml:"args"`
	Timeout duration `toml:"timeout"`
}

type lintConfig struct {
	Disable        []string `toml:"disable"`
	MaxDiagnostics int      `toml:"max_diagnostics"`
	Jobs           int      `toml:"jobs"`
}

type builtinsConfig struct {
	Names      []string `toml:"names"`
	File       string   `toml:"file"`
	NoDefaults bool     `toml:"no_defaults"`
}

type cacheConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

type outputConfig struct {
	Format   string `toml:"format"`
	Color    string `toml:"color"`
	PathMode string `toml:"path_mode"`
}

// duration accepts "10s", "1m30s" and the like.
type duration struct{ time.Duration }

func (d *duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// projectManifest is a loaded scopelint.toml together with its location.
type projectManifest struct {
	Path   string
	Root   string
	Config projectConfig
}

func defaultConfig() projectConfig {
	return projectConfig{
		Cache:  cacheConfig{Enabled: true},
		Output: outputConfig{Format: "short", Color: "auto", PathMode: "given"},
	}
}

func findScopelintToml(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, configFileName)
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

// loadProjectManifest returns the manifest at explicit, or the nearest one
// above startDir. A missing manifest yields defaults and a nil manifest.
func loadProjectManifest(explicit, startDir string) (*projectManifest, error) {
	path := explicit
	if path == "" {
		found, ok, err := findScopelintToml(startDir)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, nil
		}
		path = found
	}
	cfg, err := loadProjectConfig(path)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	root := filepath.Dir(abs)
	cfg.Builtins.File = resolveRelative(root, cfg.Builtins.File)
	cfg.Cache.Dir = resolveRelative(root, cfg.Cache.Dir)
	return &projectManifest{Path: abs, Root: root, Config: cfg}, nil
}

func loadProjectConfig(path string) (projectConfig, error) {
	cfg := defaultConfig()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return projectConfig{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		return projectConfig{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if meta.IsDefined("parser", "command") && strings.TrimSpace(cfg.Parser.Command) == "" {
		return projectConfig{}, fmt.Errorf("%s: [parser].command is empty", path)
	}
	if cfg.Parser.Timeout.Duration < 0 {
		return projectConfig{}, fmt.Errorf("%s: [parser].timeout must not be negative", path)
	}
	if cfg.Lint.MaxDiagnostics < 0 {
		return projectConfig{}, fmt.Errorf("%s: [lint].max_diagnostics must not be negative", path)
	}
	if _, err := parseDisabled(cfg.Lint.Disable); err != nil {
		return projectConfig{}, fmt.Errorf("%s: [lint].disable: %w", path, err)
	}
	if _, err := diagfmt.ParseFormat(cfg.Output.Format); err != nil {
		return projectConfig{}, fmt.Errorf("%s: [output].format: %w", path, err)
	}
	if _, err := parseColorMode(cfg.Output.Color); err != nil {
		return projectConfig{}, fmt.Errorf("%s: [output].color: %w", path, err)
	}
	if _, err := diagfmt.ParsePathMode(cfg.Output.PathMode); err != nil {
		return projectConfig{}, fmt.Errorf("%s: [output].path_mode: %w", path, err)
	}
	return cfg, nil
}

func resolveRelative(root, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, filepath.FromSlash(p))
}

// parseDisabled maps identifiers such as "unused-local" to codes.
// Entries may also be comma separated.
func parseDisabled(ids []string) ([]diag.Code, error) {
	var codes []diag.Code
	for _, entry := range ids {
		for _, id := range strings.Split(entry, ",") {
			id = strings.TrimSpace(id)
			if id == "" {
				continue
			}
			code, ok := diag.ParseCode(id)
			if !ok {
				return nil, fmt.Errorf("unknown diagnostic %q", id)
			}
			codes = append(codes, code)
		}
	}
	return codes, nil
}

type colorMode uint8

const (
	colorAuto colorMode = iota
	colorOn
	colorOff
)

func parseColorMode(s string) (colorMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return colorAuto, nil
	case "on", "always":
		return colorOn, nil
	case "off", "never":
		return colorOff, nil
	default:
		return colorAuto, fmt.Errorf("unsupported color mode %q (must be auto, on or off)", s)
	}
}
