package project

import (
	"crypto/sha256"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"lumen/internal/ast"
	"lumen/internal/parser"
	"lumen/internal/source"
)

// Digest identifies index content for cache validation.
type Digest [sha256.Size]byte

// Module is one indexed source file and the names it exports.
type Module struct {
	// Path is the import path, e.g. "math::trig".
	Path string
	// File is the path on disk relative to the source root.
	File string
	// Fns lists the exported function names, sorted.
	Fns []string
}

// Index maps exported function names to the modules declaring them.
// Built once per invocation and immutable afterwards.
type Index struct {
	root    string
	modules []Module
	exports map[string][]string
	hash    Digest
}

// BuildIndex scans root recursively for .lum files and records every
// top-level function each module exports. Files that fail to parse
// cleanly still contribute the declarations the parser recovered.
func BuildIndex(root string) (*Index, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && filepath.Ext(path) == ".lum" {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("project: scan %s: %w", root, err)
	}
	sort.Strings(paths)

	idx := &Index{
		root:    root,
		exports: make(map[string][]string),
	}
	fileSet := source.NewFileSetWithBase(root)
	hasher := sha256.New()
	for _, path := range paths {
		id, err := fileSet.Load(path)
		if err != nil {
			return nil, fmt.Errorf("project: load %s: %w", path, err)
		}
		file := fileSet.Get(id)
		rel := file.FormatPath(root)
		mod := Module{
			Path: modulePath(rel),
			File: rel,
			Fns:  exportedFns(file),
		}
		idx.modules = append(idx.modules, mod)
		for _, name := range mod.Fns {
			idx.exports[name] = append(idx.exports[name], mod.Path)
		}
		hasher.Write([]byte(rel))
		hasher.Write(file.Hash[:])
	}
	copy(idx.hash[:], hasher.Sum(nil))
	return idx, nil
}

// modulePath converts a root-relative file path to an import path:
// "math/trig.lum" becomes "math::trig".
func modulePath(rel string) string {
	rel = strings.TrimSuffix(filepath.ToSlash(rel), ".lum")
	return strings.ReplaceAll(rel, "/", "::")
}

func exportedFns(file *source.File) []string {
	tree, _ := parser.ParseFile(file)
	root, ok := ast.Cast[ast.File](tree.Root())
	if !ok {
		return nil
	}
	var out []string
	for _, fn := range root.Fns() {
		if name := fn.Name(); name != "" {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// Root returns the scanned source root.
func (ix *Index) Root() string { return ix.root }

// Hash returns a digest over the indexed file paths and contents.
func (ix *Index) Hash() Digest { return ix.hash }

// Modules returns the indexed modules sorted by import path.
func (ix *Index) Modules() []Module {
	out := make([]Module, len(ix.modules))
	copy(out, ix.modules)
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// ModulesExporting returns the import paths of modules exporting a
// function with the given name, sorted.
func (ix *Index) ModulesExporting(name string) []string {
	mods := ix.exports[name]
	out := make([]string, len(mods))
	copy(out, mods)
	sort.Strings(out)
	return out
}

// WriteManifest writes a fresh lumen.toml for `lumen init`.
func WriteManifest(dir, name string) (string, error) {
	path := filepath.Join(dir, ManifestName)
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("project: %s already exists", path)
	}
	body := fmt.Sprintf("[package]\nname = %q\nsource_dir = \"src\"\n\n[assists]\ndisabled = []\n", name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		return "", err
	}
	return path, nil
}
