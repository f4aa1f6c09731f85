package graph

import (
	"testing"

	"github.com/abramin/repolens/internal/store"
)

// fixtureStore builds a store with two files: a.py declares f calling g,
// b.py declares g, plus an intra-file call g→g for self-loop behavior.
func fixtureStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(t.TempDir())
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	for _, path := range []string{"a.py", "b.py"} {
		if err := st.InsertFile(&store.File{FullPath: path}); err != nil {
			t.Fatalf("failed to insert file: %v", err)
		}
	}
	for _, fn := range []store.Function{
		{Name: "f", FileFullPath: "a.py", Line: 1},
		{Name: "g", FileFullPath: "b.py", Line: 1},
	} {
		if err := st.InsertFunction(&fn); err != nil {
			t.Fatalf("failed to insert function: %v", err)
		}
	}
	for _, dep := range []store.FunctionDependency{
		{CallerPath: "a.py:f", CalleePath: "b.py:g"},
		{CallerPath: "b.py:g", CalleePath: "b.py:g"}, // recursive self-call
	} {
		if err := st.InsertFunctionDependency(&dep); err != nil {
			t.Fatalf("failed to insert dependency: %v", err)
		}
	}
	return st
}

func TestBuildFileGraph(t *testing.T) {
	st := fixtureStore(t)
	g, err := NewBuilder(st).BuildFileGraph(nil)
	if err != nil {
		t.Fatalf("failed to build file graph: %v", err)
	}

	if g.NodeCount() != 2 {
		t.Errorf("expected 2 nodes, got %d", g.NodeCount())
	}
	edges := g.Edges()
	// The g→g self-call projects to b.py→b.py, which is suppressed.
	if len(edges) != 1 {
		t.Fatalf("expected 1 edge, got %d: %v", len(edges), edges)
	}
	if edges[0].From != "a.py" || edges[0].To != "b.py" {
		t.Errorf("expected edge a.py -> b.py, got %+v", edges[0])
	}
}

func TestBuildFunctionGraphKeepsSelfLoops(t *testing.T) {
	st := fixtureStore(t)
	g, err := NewBuilder(st).BuildFunctionGraph(nil)
	if err != nil {
		t.Fatalf("failed to build function graph: %v", err)
	}

	if g.NodeCount() != 2 {
		t.Errorf("expected 2 nodes, got %d", g.NodeCount())
	}
	edges := g.Edges()
	if len(edges) != 2 {
		t.Fatalf("expected 2 edges, got %d: %v", len(edges), edges)
	}
	// Sorted by (From, To): a.py:f first
	if edges[0].From != "a.py:f" || edges[0].To != "b.py:g" {
		t.Errorf("unexpected first edge: %+v", edges[0])
	}
	if edges[1].From != "b.py:g" || edges[1].To != "b.py:g" {
		t.Errorf("expected self-loop retained, got %+v", edges[1])
	}
}

func TestBuildIsolatedFilesAppear(t *testing.T) {
	st := fixtureStore(t)
	if err := st.InsertFile(&store.File{FullPath: "lonely.py"}); err != nil {
		t.Fatalf("failed to insert file: %v", err)
	}

	g, err := NewBuilder(st).BuildFileGraph(nil)
	if err != nil {
		t.Fatalf("failed to build file graph: %v", err)
	}
	if g.Node("lonely.py") == nil {
		t.Error("expected isolated file to appear as a node")
	}
}

func TestBuildDeterministicOrder(t *testing.T) {
	st := fixtureStore(t)
	b := NewBuilder(st)

	g1, err := b.BuildFileGraph(nil)
	if err != nil {
		t.Fatalf("failed to build graph: %v", err)
	}
	g2, err := b.BuildFileGraph(nil)
	if err != nil {
		t.Fatalf("failed to build graph: %v", err)
	}

	n1, n2 := g1.Nodes(), g2.Nodes()
	if len(n1) != len(n2) {
		t.Fatalf("node count differs between builds: %d vs %d", len(n1), len(n2))
	}
	for i := range n1 {
		if n1[i].ID != n2[i].ID {
			t.Errorf("node order differs at %d: %q vs %q", i, n1[i].ID, n2[i].ID)
		}
	}
}

func TestBuildFileGraphWithSubstringFilter(t *testing.T) {
	st := fixtureStore(t)
	g, err := NewBuilder(st).BuildFileGraph(&Filter{Include: []string{"a.py"}})
	if err != nil {
		t.Fatalf("failed to build filtered graph: %v", err)
	}

	if g.NodeCount() != 1 {
		t.Errorf("expected 1 node after filter, got %d", g.NodeCount())
	}
	// b.py is gone, so the a.py→b.py edge must be pruned with it
	if g.EdgeCount() != 0 {
		t.Errorf("expected edges pruned with excluded endpoint, got %d", g.EdgeCount())
	}
}
