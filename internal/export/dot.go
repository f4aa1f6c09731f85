package export

import (
	"fmt"
	"strings"

	"github.com/abramin/repolens/internal/graph"
)

// DOT renders a graph as a Graphviz digraph. Node labels carry the touch
// count when history has been correlated; edge pen widths scale with the
// co-change weight. Output is deterministic.
func DOT(g *graph.Graph) string {
	var sb strings.Builder
	sb.WriteString("digraph dependencies {\n")
	sb.WriteString("  rankdir=LR;\n")
	sb.WriteString("  node [shape=box, style=rounded];\n")

	for _, n := range g.Nodes() {
		label := n.Label
		if n.Attrs.TouchCount > 0 {
			label = fmt.Sprintf("%s\\n%d commits, last by %s", n.Label, n.Attrs.TouchCount, n.Attrs.LastAuthor)
		}
		// Not %q: the \n must reach Graphviz as a DOT escape, not a Go one.
		sb.WriteString(fmt.Sprintf("  %q [label=\"%s\"];\n", n.ID, label))
	}

	for _, e := range g.Edges() {
		if e.Weight > 0 {
			sb.WriteString(fmt.Sprintf("  %q -> %q [penwidth=%d];\n", e.From, e.To, penwidth(e.Weight)))
		} else {
			sb.WriteString(fmt.Sprintf("  %q -> %q;\n", e.From, e.To))
		}
	}

	sb.WriteString("}\n")
	return sb.String()
}

// penwidth maps a co-change weight onto a bounded stroke width.
func penwidth(weight int) int {
	w := 1 + weight/2
	if w > 6 {
		w = 6
	}
	return w
}
