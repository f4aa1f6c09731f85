package export

import (
	"encoding/json"
	"fmt"

	"github.com/abramin/repolens/internal/graph"
)

// Document is the JSON handoff format for external renderers: the abstract
// graph with all correlation attributes, nothing presentational.
type Document struct {
	Kind  graph.Kind   `json:"kind"`
	Nodes []graph.Node `json:"nodes"`
	Edges []graph.Edge `json:"edges"`
}

// JSON renders a graph as an indented JSON document with deterministic
// node and edge order.
func JSON(g *graph.Graph) ([]byte, error) {
	doc := Document{
		Kind:  g.Kind,
		Nodes: g.Nodes(),
		Edges: g.Edges(),
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling graph: %w", err)
	}
	return data, nil
}
