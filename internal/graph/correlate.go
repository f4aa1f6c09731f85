package graph

import (
	"fmt"

	"github.com/abramin/repolens/internal/store"
)

// UnknownAuthor is attached to nodes whose file has no commit history.
const UnknownAuthor = "unknown"

// Correlator joins commit history onto a built graph: per-node touch counts
// and most-recent-commit details, and per-edge co-change weights. The join
// is exact-string path equality; it never adds or removes nodes.
type Correlator struct {
	store *store.Store
}

// NewCorrelator creates a correlator over the given store.
func NewCorrelator(st *store.Store) *Correlator {
	return &Correlator{store: st}
}

// Annotate attaches history attributes to every node of the graph. Function
// nodes correlate through their declaring file. Files never touched by a
// commit get TouchCount 0 and author "unknown".
func (c *Correlator) Annotate(g *Graph) error {
	counts, err := c.store.TouchCounts()
	if err != nil {
		return fmt.Errorf("loading touch counts: %w", err)
	}
	touches, err := c.store.LastTouches()
	if err != nil {
		return fmt.Errorf("loading last touches: %w", err)
	}
	byAuthor, err := c.store.AuthorTouchCounts()
	if err != nil {
		return fmt.Errorf("loading author touch counts: %w", err)
	}

	for _, n := range g.Nodes() {
		attrs := NodeAttrs{LastAuthor: UnknownAuthor}
		if count, ok := counts[n.File]; ok {
			attrs.TouchCount = count
		}
		if t, ok := touches[n.File]; ok {
			attrs.LastAuthor = t.Author
			attrs.LastCommit = t.Hash
			attrs.LastDate = t.Date
		}
		attrs.Authors = byAuthor[n.File]
		g.SetNodeAttrs(n.ID, attrs)
	}

	// Co-change proxy: an edge weighs as much as its less-touched endpoint.
	for _, e := range g.Edges() {
		from := g.Node(e.From)
		to := g.Node(e.To)
		if from == nil || to == nil {
			continue
		}
		weight := from.Attrs.TouchCount
		if to.Attrs.TouchCount < weight {
			weight = to.Attrs.TouchCount
		}
		g.SetEdgeWeight(e.From, e.To, weight)
	}
	return nil
}
