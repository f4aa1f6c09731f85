package extract

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/abramin/repolens/internal/config"
	"github.com/abramin/repolens/internal/store"
)

// Extractor walks a directory tree, parses every recognized source file, and
// populates the files, functions, and function_dependencies tables. Files
// that fail to parse are skipped with a warning; an unreadable root is fatal.
type Extractor struct {
	cfg    *config.Config
	root   string
	parser *Parser
	logger *slog.Logger
}

// New creates an extractor rooted at the given directory.
func New(cfg *config.Config, root string) *Extractor {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		absRoot = root
	}
	return &Extractor{
		cfg:    cfg,
		root:   absRoot,
		parser: NewParser(),
		logger: slog.Default(),
	}
}

// Result holds the results of a code extraction run.
type Result struct {
	FileCount       int
	FunctionCount   int
	DependencyCount int
	ParseFailures   int
	Ambiguous       int
}

// Run executes the extraction: parse everything, then write the store in a
// single batch so no reader sees a function without its file, or a
// dependency without its endpoints.
func (e *Extractor) Run(ctx context.Context, st *store.Store) (*Result, error) {
	info, err := os.Stat(e.root)
	if err != nil {
		return nil, fmt.Errorf("reading root directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root %s is not a directory", e.root)
	}

	results, failures, err := e.parseAll(ctx)
	if err != nil {
		return nil, err
	}

	res := &Result{ParseFailures: failures}
	if err := e.write(results, st, res); err != nil {
		return nil, err
	}
	return res, nil
}

// parseAll walks the tree in lexicographic order and parses each recognized
// source file. Parse failures are logged and counted, never fatal.
func (e *Extractor) parseAll(ctx context.Context) ([]FileResult, int, error) {
	var results []FileResult
	failures := 0

	err := filepath.WalkDir(e.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if d.IsDir() {
			if path != e.root && e.cfg.IsExcludedDir(path) {
				return filepath.SkipDir
			}
			return nil
		}

		lang, ok := LanguageForPath(path)
		if !ok || !e.cfg.LanguageEnabled(string(lang)) {
			return nil
		}

		rel, err := filepath.Rel(e.root, path)
		if err != nil {
			rel = path
		}
		rel = filepath.ToSlash(rel)
		if !e.cfg.IncludesPath(rel) {
			return nil
		}

		source, err := os.ReadFile(path)
		if err != nil {
			e.logger.Warn("skipping unreadable file", "path", rel, "error", err)
			failures++
			return nil
		}

		parsed, err := e.parser.Parse(rel, source, lang)
		if err != nil {
			e.logger.Warn("skipping unparsable file", "path", rel, "error", err)
			failures++
			return nil
		}

		results = append(results, *parsed)
		return nil
	})
	if err != nil {
		return nil, 0, fmt.Errorf("walking %s: %w", e.root, err)
	}
	return results, failures, nil
}

// write resolves calls against the full declaration set and persists all
// rows in one transaction.
func (e *Extractor) write(results []FileResult, st *store.Store, res *Result) error {
	resolver := NewResolver(results)

	batch, err := st.BeginBatch()
	if err != nil {
		return fmt.Errorf("beginning batch: %w", err)
	}
	defer batch.Rollback()

	// Files and functions first so dependency endpoints always exist.
	for _, r := range results {
		if err := batch.InsertFile(&store.File{FullPath: r.Path}); err != nil {
			return fmt.Errorf("inserting file %s: %w", r.Path, err)
		}
		res.FileCount++
		for _, d := range r.Decls {
			fn := &store.Function{Name: d.Name, FileFullPath: r.Path, Line: d.Line}
			if err := batch.InsertFunction(fn); err != nil {
				return fmt.Errorf("inserting function %s: %w", fn.Path(), err)
			}
			res.FunctionCount++
		}
	}

	seen := make(map[store.FunctionDependency]bool)
	for _, r := range results {
		for _, c := range r.Calls {
			calleeFile, ok := resolver.Resolve(r.Path, c.Callee)
			if !ok {
				continue // call targets code outside the analyzed tree
			}
			if resolver.Ambiguous(c.Callee) {
				res.Ambiguous++
			}
			dep := store.FunctionDependency{
				CallerPath: store.FunctionPath(r.Path, c.Caller),
				CalleePath: store.FunctionPath(calleeFile, c.Callee),
			}
			if seen[dep] {
				continue
			}
			seen[dep] = true
			if err := batch.InsertFunctionDependency(&dep); err != nil {
				return fmt.Errorf("inserting dependency %s -> %s: %w", dep.CallerPath, dep.CalleePath, err)
			}
			res.DependencyCount++
		}
	}

	if err := batch.Commit(); err != nil {
		return fmt.Errorf("committing batch: %w", err)
	}
	return nil
}
