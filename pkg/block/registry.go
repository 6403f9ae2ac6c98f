package block

import (
	"context"
	"errors"
	"fmt"
	"sort"
)

// Sentinel errors for registry lookups.
var (
	// ErrNotFound is returned when no block exists for a slug.
	ErrNotFound = errors.New("block not found")

	// ErrNoSource is returned when a block exists but its schematic
	// source document is missing.
	ErrNoSource = errors.New("schematic source not found")
)

// Registry supplies block definitions and raw schematic source documents,
// keyed by slug. Implementations must be safe for concurrent use: the
// merge engine fetches sources from multiple goroutines.
type Registry interface {
	// Definition returns the block definition for a slug.
	// Returns ErrNotFound if no such block exists.
	Definition(ctx context.Context, slug string) (*Definition, error)

	// Definitions returns all known definitions, sorted by slug.
	Definitions(ctx context.Context) ([]*Definition, error)

	// SchematicSource returns the raw .kicad_sch source text for a slug.
	// Returns ErrNoSource if the block has no source document.
	SchematicSource(ctx context.Context, slug string) ([]byte, error)
}

// StaticRegistry is an in-memory Registry for tests and embedding
type StaticRegistry struct {
	defs    map[string]*Definition
	sources map[string][]byte
}

// NewStaticRegistry creates an empty in-memory registry
func NewStaticRegistry() *StaticRegistry {
	return &StaticRegistry{
		defs:    make(map[string]*Definition),
		sources: make(map[string][]byte),
	}
}

// Add registers a definition with an optional schematic source
func (r *StaticRegistry) Add(def *Definition, source []byte) {
	r.defs[def.Slug] = def
	if source != nil {
		r.sources[def.Slug] = source
	}
}

// Definition returns the definition for a slug
func (r *StaticRegistry) Definition(ctx context.Context, slug string) (*Definition, error) {
	def, ok := r.defs[slug]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, slug)
	}
	return def, nil
}

// Definitions returns all definitions sorted by slug
func (r *StaticRegistry) Definitions(ctx context.Context) ([]*Definition, error) {
	defs := make([]*Definition, 0, len(r.defs))
	for _, def := range r.defs {
		defs = append(defs, def)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Slug < defs[j].Slug })
	return defs, nil
}

// SchematicSource returns the schematic source for a slug
func (r *StaticRegistry) SchematicSource(ctx context.Context, slug string) ([]byte, error) {
	src, ok := r.sources[slug]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoSource, slug)
	}
	return src, nil
}

// Ensure StaticRegistry implements Registry.
var _ Registry = (*StaticRegistry)(nil)

// Resolve maps a list of slugs to definitions through a registry,
// preserving order. Fails on the first unknown slug.
func Resolve(ctx context.Context, reg Registry, slugs []string) ([]*Definition, error) {
	defs := make([]*Definition, 0, len(slugs))
	for _, slug := range slugs {
		def, err := reg.Definition(ctx, slug)
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return defs, nil
}
