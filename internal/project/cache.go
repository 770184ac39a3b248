package project

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"lumen/internal/source"
)

// Bump when indexPayload changes shape.
const indexCacheSchemaVersion uint16 = 1

// IndexCache persists built indexes on disk, keyed by source root.
// Thread-safe for concurrent access.
type IndexCache struct {
	mu  sync.RWMutex
	dir string
}

type indexPayload struct {
	// Schema version for safe invalidation when format changes.
	Schema  uint16
	Root    string
	Hash    Digest
	Modules []Module
}

// OpenIndexCache initializes a cache at the standard location.
func OpenIndexCache(app string) (*IndexCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &IndexCache{dir: dir}, nil
}

func (c *IndexCache) pathFor(root string) string {
	key := sha256.Sum256([]byte(root))
	// подкаталог "index" — чтобы кэш было удобно чистить руками
	return filepath.Join(c.dir, "index", hex.EncodeToString(key[:])+".mp")
}

// Put serializes and writes an index to the cache.
func (c *IndexCache) Put(ix *Index) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(ix.root)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())

	payload := indexPayload{
		Schema:  indexCacheSchemaVersion,
		Root:    ix.root,
		Hash:    ix.hash,
		Modules: ix.modules,
	}
	if err := msgpack.NewEncoder(f).Encode(&payload); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(f.Name(), p)
}

// Get reads a cached index for root. The boolean is false on a miss:
// no entry, a stale schema, or a digest that no longer matches.
func (c *IndexCache) Get(root string, want Digest) (*Index, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(root))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer f.Close()

	var payload indexPayload
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil {
		return nil, false, fmt.Errorf("project: decode index cache: %w", err)
	}
	if payload.Schema != indexCacheSchemaVersion || payload.Hash != want {
		return nil, false, nil
	}

	ix := &Index{
		root:    payload.Root,
		modules: payload.Modules,
		exports: make(map[string][]string),
		hash:    payload.Hash,
	}
	for _, mod := range ix.modules {
		for _, name := range mod.Fns {
			ix.exports[name] = append(ix.exports[name], mod.Path)
		}
	}
	return ix, true, nil
}

// DropAll invalidates the cache, useful after format changes.
func (c *IndexCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		return err
	}
	return os.RemoveAll(old)
}

// LoadIndex returns the index for root, consulting cache when given.
// The digest over file paths and contents decides cache validity, so
// a hit skips only the parse work.
func LoadIndex(root string, cache *IndexCache) (*Index, error) {
	if cache == nil {
		return BuildIndex(root)
	}
	hash, err := scanDigest(root)
	if err != nil {
		return nil, err
	}
	if ix, ok, err := cache.Get(root, hash); err == nil && ok {
		return ix, nil
	}
	ix, err := BuildIndex(root)
	if err != nil {
		return nil, err
	}
	if err := cache.Put(ix); err != nil {
		return nil, fmt.Errorf("project: write index cache: %w", err)
	}
	return ix, nil
}

// scanDigest hashes the indexed files without parsing them, mirroring
// the digest BuildIndex computes.
func scanDigest(root string) (Digest, error) {
	var out Digest
	var paths []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && filepath.Ext(path) == ".lum" {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return out, fmt.Errorf("project: scan %s: %w", root, err)
	}
	sort.Strings(paths)

	fileSet := source.NewFileSetWithBase(root)
	hasher := sha256.New()
	for _, path := range paths {
		id, err := fileSet.Load(path)
		if err != nil {
			return out, fmt.Errorf("project: load %s: %w", path, err)
		}
		file := fileSet.Get(id)
		hasher.Write([]byte(file.FormatPath(root)))
		hasher.Write(file.Hash[:])
	}
	copy(out[:], hasher.Sum(nil))
	return out, nil
}
