package graph

import "sort"

// Kind distinguishes the two graph views.
type Kind string

const (
	KindFile     Kind = "file"
	KindFunction Kind = "function"
)

// NodeAttrs holds history-derived attributes attached by the Correlator.
type NodeAttrs struct {
	TouchCount int            `json:"touch_count"`
	LastAuthor string         `json:"last_author"`
	LastCommit string         `json:"last_commit,omitempty"`
	LastDate   string         `json:"last_date,omitempty"`
	Authors    map[string]int `json:"authors,omitempty"`
}

// Node is one vertex of a dependency graph. For file graphs ID and File are
// the same path; for function graphs ID is the encoded function path and
// File is the declaring file.
type Node struct {
	ID    string    `json:"id"`
	File  string    `json:"file"`
	Label string    `json:"label"`
	Attrs NodeAttrs `json:"attrs"`
}

// Edge is one directed edge. Weight is a correlation attribute (0 until the
// Correlator runs).
type Edge struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Weight int    `json:"weight"`
}

// Graph is a simple directed graph with set semantics on nodes and edges.
// Iteration via Nodes and Edges is deterministic: sorted by ID and by
// (From, To) respectively.
type Graph struct {
	Kind  Kind
	nodes map[string]*Node
	edges map[[2]string]*Edge
}

// New creates an empty graph of the given kind.
func New(kind Kind) *Graph {
	return &Graph{
		Kind:  kind,
		nodes: make(map[string]*Node),
		edges: make(map[[2]string]*Edge),
	}
}

// AddNode inserts a node; re-adding an existing ID is a no-op.
func (g *Graph) AddNode(n Node) {
	if _, ok := g.nodes[n.ID]; ok {
		return
	}
	g.nodes[n.ID] = &n
}

// AddEdge inserts a directed edge between existing nodes; duplicates
// collapse. Edges to or from unknown nodes are ignored.
func (g *Graph) AddEdge(from, to string) {
	if _, ok := g.nodes[from]; !ok {
		return
	}
	if _, ok := g.nodes[to]; !ok {
		return
	}
	key := [2]string{from, to}
	if _, ok := g.edges[key]; ok {
		return
	}
	g.edges[key] = &Edge{From: from, To: to}
}

// Node returns the node with the given ID, or nil.
func (g *Graph) Node(id string) *Node {
	return g.nodes[id]
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Nodes returns all nodes sorted by ID.
func (g *Graph) Nodes() []Node {
	out := make([]Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		out = append(out, *n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Edges returns all edges sorted by (From, To).
func (g *Graph) Edges() []Edge {
	out := make([]Edge, 0, len(g.edges))
	for _, e := range g.edges {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].From != out[j].From {
			return out[i].From < out[j].From
		}
		return out[i].To < out[j].To
	})
	return out
}

// Degree returns the total degree (in + out) of a node. A self-loop counts
// once for each direction.
func (g *Graph) Degree(id string) int {
	d := 0
	for key := range g.edges {
		if key[0] == id {
			d++
		}
		if key[1] == id {
			d++
		}
	}
	return d
}

// RemoveNode removes a node and every edge touching it.
func (g *Graph) RemoveNode(id string) {
	delete(g.nodes, id)
	for key := range g.edges {
		if key[0] == id || key[1] == id {
			delete(g.edges, key)
		}
	}
}

// SetNodeAttrs replaces the attributes of a node if it exists.
func (g *Graph) SetNodeAttrs(id string, attrs NodeAttrs) {
	if n, ok := g.nodes[id]; ok {
		n.Attrs = attrs
	}
}

// SetEdgeWeight sets the weight of an edge if it exists.
func (g *Graph) SetEdgeWeight(from, to string, weight int) {
	if e, ok := g.edges[[2]string{from, to}]; ok {
		e.Weight = weight
	}
}
