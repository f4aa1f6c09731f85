package store

import (
	"os"
	"path/filepath"
	"testing"
)

func TestOpenAndClose(t *testing.T) {
	tmpDir := t.TempDir()

	st, err := Open(tmpDir)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}

	// Verify .repolens directory was created
	repolensDir := filepath.Join(tmpDir, ".repolens")
	if _, err := os.Stat(repolensDir); os.IsNotExist(err) {
		t.Error(".repolens directory was not created")
	}

	// Verify database file exists
	dbPath := filepath.Join(repolensDir, "index.db")
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("index.db was not created")
	}

	if err := st.Close(); err != nil {
		t.Errorf("failed to close store: %v", err)
	}
}

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func TestInsertFileIdempotent(t *testing.T) {
	st := openTestStore(t)

	f := &File{FullPath: "pkg/a.py"}
	if err := st.InsertFile(f); err != nil {
		t.Fatalf("failed to insert file: %v", err)
	}
	// Re-inserting the same key must not duplicate
	if err := st.InsertFile(f); err != nil {
		t.Fatalf("failed to re-insert file: %v", err)
	}

	files, err := st.Files()
	if err != nil {
		t.Fatalf("failed to list files: %v", err)
	}
	if len(files) != 1 {
		t.Errorf("expected 1 file, got %d", len(files))
	}
}

func TestInsertFunctionRequiresFile(t *testing.T) {
	st := openTestStore(t)

	fn := &Function{Name: "f", FileFullPath: "pkg/a.py", Line: 3}
	if err := st.InsertFunction(fn); err == nil {
		t.Error("expected foreign key violation for function without file")
	}

	if err := st.InsertFile(&File{FullPath: "pkg/a.py"}); err != nil {
		t.Fatalf("failed to insert file: %v", err)
	}
	if err := st.InsertFunction(fn); err != nil {
		t.Fatalf("failed to insert function: %v", err)
	}
}

func TestFunctionsInFile(t *testing.T) {
	st := openTestStore(t)

	for _, path := range []string{"a.py", "b.py"} {
		if err := st.InsertFile(&File{FullPath: path}); err != nil {
			t.Fatalf("failed to insert file: %v", err)
		}
	}
	for _, fn := range []Function{
		{Name: "g", FileFullPath: "a.py", Line: 10},
		{Name: "f", FileFullPath: "a.py", Line: 1},
		{Name: "h", FileFullPath: "b.py", Line: 1},
	} {
		if err := st.InsertFunction(&fn); err != nil {
			t.Fatalf("failed to insert function: %v", err)
		}
	}

	fns, err := st.FunctionsInFile("a.py")
	if err != nil {
		t.Fatalf("failed to query functions: %v", err)
	}
	if len(fns) != 2 {
		t.Fatalf("expected 2 functions in a.py, got %d", len(fns))
	}
	if fns[0].Name != "f" || fns[1].Name != "g" {
		t.Errorf("expected deterministic name order [f g], got [%s %s]", fns[0].Name, fns[1].Name)
	}
}

func TestFunctionDependencyRoundTrip(t *testing.T) {
	st := openTestStore(t)

	if err := st.InsertFile(&File{FullPath: "a.py"}); err != nil {
		t.Fatalf("failed to insert file: %v", err)
	}
	caller := Function{Name: "f", FileFullPath: "a.py"}
	callee := Function{Name: "g", FileFullPath: "a.py"}
	for _, fn := range []Function{caller, callee} {
		if err := st.InsertFunction(&fn); err != nil {
			t.Fatalf("failed to insert function: %v", err)
		}
	}

	dep := &FunctionDependency{CallerPath: caller.Path(), CalleePath: callee.Path()}
	if err := st.InsertFunctionDependency(dep); err != nil {
		t.Fatalf("failed to insert dependency: %v", err)
	}
	// Set semantics: duplicate edge collapses
	if err := st.InsertFunctionDependency(dep); err != nil {
		t.Fatalf("failed to re-insert dependency: %v", err)
	}

	deps, err := st.FunctionDependencies()
	if err != nil {
		t.Fatalf("failed to list dependencies: %v", err)
	}
	if len(deps) != 1 {
		t.Errorf("expected 1 dependency, got %d", len(deps))
	}

	warnings, err := st.CheckIntegrity()
	if err != nil {
		t.Fatalf("failed to check integrity: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("expected no integrity warnings, got %v", warnings)
	}
}

func TestCheckIntegrityReportsDanglers(t *testing.T) {
	st := openTestStore(t)

	dep := &FunctionDependency{CallerPath: "a.py:f", CalleePath: "ghost.py:g"}
	if err := st.InsertFunctionDependency(dep); err != nil {
		t.Fatalf("failed to insert dependency: %v", err)
	}

	warnings, err := st.CheckIntegrity()
	if err != nil {
		t.Fatalf("failed to check integrity: %v", err)
	}
	if len(warnings) != 1 {
		t.Fatalf("expected 1 integrity warning, got %d", len(warnings))
	}
}

func TestCommitFilesMayDangle(t *testing.T) {
	st := openTestStore(t)

	c := &Commit{Hash: "abc123", Author: "alice", Date: "2024-01-02T10:00:00Z"}
	if err := st.InsertCommit(c); err != nil {
		t.Fatalf("failed to insert commit: %v", err)
	}
	// deleted.py was never registered as a File entity; this must succeed
	cf := &CommitFile{CommitHash: "abc123", FilePath: "deleted.py", Change: ChangeDeleted}
	if err := st.InsertCommitFile(cf); err != nil {
		t.Fatalf("failed to insert commit file: %v", err)
	}

	counts, err := st.TouchCounts()
	if err != nil {
		t.Fatalf("failed to get touch counts: %v", err)
	}
	if counts["deleted.py"] != 1 {
		t.Errorf("expected touch count 1 for deleted.py, got %d", counts["deleted.py"])
	}
}

func TestTouchCountsAndLastTouches(t *testing.T) {
	st := openTestStore(t)

	commits := []Commit{
		{Hash: "c1", Author: "alice", Date: "2024-01-01T09:00:00Z"},
		{Hash: "c2", Author: "bob", Date: "2024-02-01T09:00:00Z"},
	}
	for _, c := range commits {
		if err := st.InsertCommit(&c); err != nil {
			t.Fatalf("failed to insert commit: %v", err)
		}
	}
	touched := []CommitFile{
		{CommitHash: "c1", FilePath: "a.py", Change: ChangeAdded},
		{CommitHash: "c2", FilePath: "a.py", Change: ChangeModified},
		{CommitHash: "c2", FilePath: "b.py", Change: ChangeAdded},
	}
	for _, cf := range touched {
		if err := st.InsertCommitFile(&cf); err != nil {
			t.Fatalf("failed to insert commit file: %v", err)
		}
	}

	counts, err := st.TouchCounts()
	if err != nil {
		t.Fatalf("failed to get touch counts: %v", err)
	}
	if counts["a.py"] != 2 || counts["b.py"] != 1 {
		t.Errorf("unexpected touch counts: %v", counts)
	}

	touches, err := st.LastTouches()
	if err != nil {
		t.Fatalf("failed to get last touches: %v", err)
	}
	if touches["a.py"].Author != "bob" {
		t.Errorf("expected most recent author bob for a.py, got %q", touches["a.py"].Author)
	}
	if touches["a.py"].Hash != "c2" {
		t.Errorf("expected most recent commit c2 for a.py, got %q", touches["a.py"].Hash)
	}

	recent, err := st.CommitsTouching("a.py")
	if err != nil {
		t.Fatalf("failed to get commits touching a.py: %v", err)
	}
	if len(recent) != 2 || recent[0].Hash != "c2" {
		t.Errorf("expected [c2 c1] for a.py, got %v", recent)
	}

	byAuthor, err := st.AuthorTouchCounts()
	if err != nil {
		t.Fatalf("failed to get author touch counts: %v", err)
	}
	if byAuthor["a.py"]["alice"] != 1 || byAuthor["a.py"]["bob"] != 1 {
		t.Errorf("unexpected author breakdown for a.py: %v", byAuthor["a.py"])
	}
	if len(byAuthor["b.py"]) != 1 || byAuthor["b.py"]["bob"] != 1 {
		t.Errorf("unexpected author breakdown for b.py: %v", byAuthor["b.py"])
	}
}

func TestBatchTxVisibility(t *testing.T) {
	st := openTestStore(t)

	batch, err := st.BeginBatch()
	if err != nil {
		t.Fatalf("failed to begin batch: %v", err)
	}
	if err := batch.InsertFile(&File{FullPath: "a.py"}); err != nil {
		t.Fatalf("failed to insert file in batch: %v", err)
	}
	if err := batch.InsertFunction(&Function{Name: "f", FileFullPath: "a.py"}); err != nil {
		t.Fatalf("failed to insert function in batch: %v", err)
	}
	if err := batch.Commit(); err != nil {
		t.Fatalf("failed to commit batch: %v", err)
	}

	fns, err := st.Functions()
	if err != nil {
		t.Fatalf("failed to list functions: %v", err)
	}
	if len(fns) != 1 {
		t.Errorf("expected 1 function after batch commit, got %d", len(fns))
	}
}

func TestStats(t *testing.T) {
	st := openTestStore(t)

	if err := st.InsertFile(&File{FullPath: "a.py"}); err != nil {
		t.Fatalf("failed to insert file: %v", err)
	}
	if err := st.InsertFunction(&Function{Name: "f", FileFullPath: "a.py"}); err != nil {
		t.Fatalf("failed to insert function: %v", err)
	}

	stats, err := st.GetStats()
	if err != nil {
		t.Fatalf("failed to get stats: %v", err)
	}
	if stats.FileCount != 1 || stats.FunctionCount != 1 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}

func TestClear(t *testing.T) {
	st := openTestStore(t)

	if err := st.InsertFile(&File{FullPath: "a.py"}); err != nil {
		t.Fatalf("failed to insert file: %v", err)
	}
	if err := st.Clear(); err != nil {
		t.Fatalf("failed to clear store: %v", err)
	}

	files, err := st.Files()
	if err != nil {
		t.Fatalf("failed to list files: %v", err)
	}
	if len(files) != 0 {
		t.Errorf("expected empty store after clear, got %d files", len(files))
	}
}

func TestFunctionPathRoundTrip(t *testing.T) {
	fn := Function{Name: "parse", FileFullPath: "internal/extract/parser.py"}
	file, name := SplitFunctionPath(fn.Path())
	if file != fn.FileFullPath || name != fn.Name {
		t.Errorf("round trip mismatch: got (%q, %q)", file, name)
	}
}
