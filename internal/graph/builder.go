package graph

import (
	"fmt"

	"github.com/abramin/repolens/internal/store"
)

// Builder constructs graph views from the schema store. The same store and
// filter always produce identical node and edge sets in identical order.
type Builder struct {
	store *store.Store
}

// NewBuilder creates a graph builder over the given store.
func NewBuilder(st *store.Store) *Builder {
	return &Builder{store: st}
}

// BuildFileGraph returns the file dependency graph: an edge A→B exists iff
// some function declared in A calls some function declared in B. Self-edges
// from intra-file calls are suppressed. Files with no edges still appear as
// isolated nodes.
func (b *Builder) BuildFileGraph(filter *Filter) (*Graph, error) {
	g := New(KindFile)

	files, err := b.store.Files()
	if err != nil {
		return nil, fmt.Errorf("loading files: %w", err)
	}
	for _, f := range files {
		g.AddNode(Node{ID: f.FullPath, File: f.FullPath, Label: f.FullPath})
	}

	deps, err := b.store.FunctionDependencies()
	if err != nil {
		return nil, fmt.Errorf("loading dependencies: %w", err)
	}
	for _, d := range deps {
		callerFile, _ := store.SplitFunctionPath(d.CallerPath)
		calleeFile, _ := store.SplitFunctionPath(d.CalleePath)
		if callerFile == calleeFile {
			continue // intra-file calls are not file dependencies
		}
		g.AddEdge(callerFile, calleeFile)
	}

	filter.Apply(g)
	return g, nil
}

// BuildFunctionGraph returns the function call graph. Intra-file and
// self-recursive edges are retained.
func (b *Builder) BuildFunctionGraph(filter *Filter) (*Graph, error) {
	g := New(KindFunction)

	fns, err := b.store.Functions()
	if err != nil {
		return nil, fmt.Errorf("loading functions: %w", err)
	}
	for _, fn := range fns {
		g.AddNode(Node{
			ID:    fn.Path(),
			File:  fn.FileFullPath,
			Label: fn.Name,
		})
	}

	deps, err := b.store.FunctionDependencies()
	if err != nil {
		return nil, fmt.Errorf("loading dependencies: %w", err)
	}
	for _, d := range deps {
		g.AddEdge(d.CallerPath, d.CalleePath)
	}

	filter.Apply(g)
	return g, nil
}
