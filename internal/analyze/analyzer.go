package analyze

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/abramin/repolens/internal/config"
	"github.com/abramin/repolens/internal/extract"
	"github.com/abramin/repolens/internal/history"
	"github.com/abramin/repolens/internal/store"
)

// Analyzer coordinates a full extraction run: the code extractor and the
// history extractor write disjoint table groups and may run concurrently;
// nothing reads the store until both have finished.
type Analyzer struct {
	cfg         *config.Config
	projectDir  string
	repoDir     string
	withHistory bool
}

// New creates an analyzer for the given project directory. repoDir points
// the history extractor at a repository (usually the project directory
// itself); pass withHistory false for a code-only run.
func New(cfg *config.Config, projectDir, repoDir string, withHistory bool) *Analyzer {
	absPath, err := filepath.Abs(projectDir)
	if err != nil {
		absPath = projectDir
	}
	if repoDir == "" {
		repoDir = absPath
	}
	return &Analyzer{
		cfg:         cfg,
		projectDir:  absPath,
		repoDir:     repoDir,
		withHistory: withHistory,
	}
}

// Result holds the results of an analysis run.
type Result struct {
	Code              *extract.Result
	History           *history.Result
	IntegrityWarnings []string
	Duration          time.Duration
	DBPath            string
}

// Run executes the extraction pipeline.
func (a *Analyzer) Run(ctx context.Context) (*Result, error) {
	start := time.Now()

	st, err := store.Open(a.projectDir)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	defer st.Close()

	// Clear existing data for a fresh run
	if err := st.Clear(); err != nil {
		return nil, fmt.Errorf("clearing store: %w", err)
	}

	res := &Result{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		code, err := extract.New(a.cfg, a.projectDir).Run(gctx, st)
		if err != nil {
			return fmt.Errorf("code extraction: %w", err)
		}
		res.Code = code
		return nil
	})

	if a.withHistory {
		g.Go(func() error {
			hist, err := history.New(a.cfg, a.repoDir).Run(gctx, st)
			if err != nil {
				return fmt.Errorf("history extraction: %w", err)
			}
			res.History = hist
			return nil
		})
	}

	// Barrier: no reads until both writers are done.
	if err := g.Wait(); err != nil {
		return nil, err
	}

	warnings, err := st.CheckIntegrity()
	if err != nil {
		return nil, fmt.Errorf("checking integrity: %w", err)
	}
	for _, w := range warnings {
		slog.Warn("integrity violation", "detail", w)
	}
	res.IntegrityWarnings = warnings

	if err := st.SetMetadata("extracted_at", time.Now().Format(time.RFC3339)); err != nil {
		return nil, fmt.Errorf("storing metadata: %w", err)
	}
	if err := st.SetMetadata("project_dir", a.projectDir); err != nil {
		return nil, fmt.Errorf("storing metadata: %w", err)
	}
	if a.withHistory {
		if err := st.SetMetadata("repo_dir", a.repoDir); err != nil {
			return nil, fmt.Errorf("storing metadata: %w", err)
		}
	}

	res.Duration = time.Since(start)
	res.DBPath = st.DBPath()
	return res, nil
}
