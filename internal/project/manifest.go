// Package project locates and describes a Lumen project: its
// lumen.toml manifest and the index of symbols its modules export.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// ManifestName is the file that marks a project root.
const ManifestName = "lumen.toml"

// Manifest is a loaded lumen.toml together with its location.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

// Config mirrors the lumen.toml schema.
type Config struct {
	Package PackageConfig `toml:"package"`
	Assists AssistsConfig `toml:"assists"`
}

// PackageConfig is the [package] table.
type PackageConfig struct {
	Name string `toml:"name"`
	// SourceDir is the directory scanned for .lum files, relative to
	// the project root. Defaults to "src".
	SourceDir string `toml:"source_dir"`
}

// AssistsConfig is the [assists] table.
type AssistsConfig struct {
	// Disabled lists assist ids excluded from listing and resolution.
	Disabled []string `toml:"disabled"`
}

// FindManifest walks up from startDir to locate lumen.toml.
func FindManifest(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("project: failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("project: failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// LoadManifest finds and parses the manifest governing startDir.
// The boolean is false when no manifest exists anywhere above it.
func LoadManifest(startDir string) (*Manifest, bool, error) {
	manifestPath, ok, err := FindManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := loadConfig(manifestPath)
	if err != nil {
		return nil, true, err
	}
	return &Manifest{
		Path:   manifestPath,
		Root:   filepath.Dir(manifestPath),
		Config: cfg,
	}, true, nil
}

func loadConfig(path string) (Config, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("package") {
		return Config{}, fmt.Errorf("%s: missing [package]", path)
	}
	if !meta.IsDefined("package", "name") || strings.TrimSpace(cfg.Package.Name) == "" {
		return Config{}, fmt.Errorf("%s: missing [package].name", path)
	}
	if strings.TrimSpace(cfg.Package.SourceDir) == "" {
		cfg.Package.SourceDir = "src"
	}
	return cfg, nil
}

// SourceRoot returns the absolute directory scanned for .lum files.
func (m *Manifest) SourceRoot() string {
	return filepath.Join(m.Root, filepath.FromSlash(m.Config.Package.SourceDir))
}
