package export

import (
	"fmt"
	"strings"

	"github.com/abramin/repolens/internal/graph"
)

// Mermaid renders a graph as a Mermaid "graph TD" diagram. Node IDs are
// rewritten to short alphanumeric handles; the original path stays in the
// label. Output is deterministic.
func Mermaid(g *graph.Graph) string {
	nodeIDs := make(map[string]string)
	nextID := 0
	getID := func(path string) string {
		if id, ok := nodeIDs[path]; ok {
			return id
		}
		id := fmt.Sprintf("N%d", nextID)
		nextID++
		nodeIDs[path] = id
		return id
	}

	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, n := range g.Nodes() {
		label := n.Label
		if n.Attrs.TouchCount > 0 {
			label = fmt.Sprintf("%s (%d)", n.Label, n.Attrs.TouchCount)
		}
		sb.WriteString(fmt.Sprintf("  %s[\"%s\"]\n", getID(n.ID), label))
	}

	for _, e := range g.Edges() {
		sb.WriteString(fmt.Sprintf("  %s --> %s\n", getID(e.From), getID(e.To)))
	}

	return sb.String()
}
