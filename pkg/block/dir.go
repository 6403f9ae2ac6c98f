package block

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/BurntSushi/toml"
)

// DefinitionFile is the fixed per-block definition filename
const DefinitionFile = "block.toml"

// DirRegistry reads blocks from a directory tree: one directory per slug
// containing block.toml and <slug>.kicad_sch. Definitions are loaded
// lazily and memoized; directories are never written.
type DirRegistry struct {
	root string

	mu   sync.Mutex
	defs map[string]*Definition
}

// NewDirRegistry creates a registry rooted at dir
func NewDirRegistry(dir string) (*DirRegistry, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("registry root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("registry root %s is not a directory", dir)
	}

	return &DirRegistry{
		root: dir,
		defs: make(map[string]*Definition),
	}, nil
}

// Definition returns the definition for a slug, loading it on first use
func (r *DirRegistry) Definition(ctx context.Context, slug string) (*Definition, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if def, ok := r.defs[slug]; ok {
		return def, nil
	}

	def, err := r.load(slug)
	if err != nil {
		return nil, err
	}

	r.defs[slug] = def
	return def, nil
}

// Definitions scans the registry root and returns every definition,
// sorted by slug
func (r *DirRegistry) Definitions(ctx context.Context) ([]*Definition, error) {
	entries, err := os.ReadDir(r.root)
	if err != nil {
		return nil, fmt.Errorf("scan registry: %w", err)
	}

	var defs []*Definition
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		// Directories without a definition file are not blocks
		if _, err := os.Stat(filepath.Join(r.root, entry.Name(), DefinitionFile)); err != nil {
			continue
		}
		def, err := r.Definition(ctx, entry.Name())
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}

	sort.Slice(defs, func(i, j int) bool { return defs[i].Slug < defs[j].Slug })
	return defs, nil
}

// SchematicSource reads the block's .kicad_sch source text
func (r *DirRegistry) SchematicSource(ctx context.Context, slug string) ([]byte, error) {
	path := filepath.Join(r.root, slug, slug+".kicad_sch")
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrNoSource, slug)
	}
	if err != nil {
		return nil, fmt.Errorf("read schematic source: %w", err)
	}
	return data, nil
}

// load parses a block.toml definition from disk
func (r *DirRegistry) load(slug string) (*Definition, error) {
	path := filepath.Join(r.root, slug, DefinitionFile)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, slug)
	}
	if err != nil {
		return nil, fmt.Errorf("read definition: %w", err)
	}

	var def Definition
	if err := toml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("parse %s for %s: %w", DefinitionFile, slug, err)
	}

	if def.Slug == "" {
		def.Slug = slug
	}
	if def.Slug != slug {
		return nil, fmt.Errorf("definition slug %q does not match directory %q", def.Slug, slug)
	}

	return &def, nil
}

// Ensure DirRegistry implements Registry.
var _ Registry = (*DirRegistry)(nil)
