package graph

import "strings"

// Filter restricts which nodes survive in a built graph. Substring filters
// match against a node's file path; excluding a node prunes every edge
// touching it. Degree thresholds are applied once, after substring
// filtering, against the degrees of the substring-filtered graph.
type Filter struct {
	Include   []string // keep only nodes whose path contains any of these
	Exclude   []string // drop nodes whose path contains any of these
	MinDegree int      // drop nodes with degree below this
	MaxDegree int      // drop nodes with degree above this; 0 means no cap
}

// MatchPath reports whether a path passes the substring filters.
func (f *Filter) MatchPath(path string) bool {
	if f == nil {
		return true
	}
	if len(f.Include) > 0 {
		found := false
		for _, s := range f.Include {
			if strings.Contains(path, s) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	for _, s := range f.Exclude {
		if strings.Contains(path, s) {
			return false
		}
	}
	return true
}

// Apply prunes the graph in place: substring filtering first, then a single
// degree-threshold pass.
func (f *Filter) Apply(g *Graph) {
	if f == nil {
		return
	}

	for _, n := range g.Nodes() {
		if !f.MatchPath(n.File) {
			g.RemoveNode(n.ID)
		}
	}

	if f.MinDegree <= 0 && f.MaxDegree <= 0 {
		return
	}

	// Snapshot degrees before pruning so removal order cannot matter.
	degrees := make(map[string]int, g.NodeCount())
	for _, n := range g.Nodes() {
		degrees[n.ID] = g.Degree(n.ID)
	}
	for id, d := range degrees {
		if f.MinDegree > 0 && d < f.MinDegree {
			g.RemoveNode(id)
			continue
		}
		if f.MaxDegree > 0 && d > f.MaxDegree {
			g.RemoveNode(id)
		}
	}
}
