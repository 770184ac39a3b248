package engine

import (
	"fmt"
	"sync"

	"lumen/internal/parser"
	"lumen/internal/sema"
	"lumen/internal/source"
	"lumen/internal/syntax"
)

// Database is the default assist.DB: it parses files from a FileSet
// once and hands out the cached immutable trees. Parse results are
// error-tolerant; assists operate on whatever tree the parser managed
// to build.
type Database struct {
	fs    *source.FileSet
	mu    sync.RWMutex
	trees map[source.FileID]*syntax.Tree
}

// NewDatabase creates a database over the given file set.
func NewDatabase(fs *source.FileSet) *Database {
	return &Database{
		fs:    fs,
		trees: make(map[source.FileID]*syntax.Tree),
	}
}

// FileSet returns the underlying file set.
func (db *Database) FileSet() *source.FileSet { return db.fs }

// Parse returns the cached tree for the file, parsing on first use.
func (db *Database) Parse(id source.FileID) (*syntax.Tree, error) {
	db.mu.RLock()
	tree, ok := db.trees[id]
	db.mu.RUnlock()
	if ok {
		return tree, nil
	}

	if int(id) >= db.fs.Len() {
		return nil, fmt.Errorf("engine: unknown file id %d", id)
	}

	db.mu.Lock()
	defer db.mu.Unlock()
	if tree, ok := db.trees[id]; ok {
		return tree, nil
	}
	tree, _ = parser.ParseFile(db.fs.Get(id))
	db.trees[id] = tree
	return tree, nil
}

// Analyze derives a semantic view scoped to node.
func (db *Database) Analyze(node *syntax.Node) *sema.Analyzer {
	return sema.NewAnalyzer(node)
}

// Invalidate drops the cached tree for a file, e.g. after an edit.
func (db *Database) Invalidate(id source.FileID) {
	db.mu.Lock()
	delete(db.trees, id)
	db.mu.Unlock()
}
