package history

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/abramin/repolens/internal/config"
	"github.com/abramin/repolens/internal/store"
)

// Extractor walks the commit log of a git repository and populates the
// commits and commit_files tables. Unlike the code extractor, any failure
// here is fatal: a bad repository path is a configuration error, not
// something to skip past.
type Extractor struct {
	cfg     *config.Config
	repoDir string
	git     *GitClient
}

// New creates a history extractor for the given repository path.
func New(cfg *config.Config, repoDir string) *Extractor {
	return &Extractor{
		cfg:     cfg,
		repoDir: repoDir,
		git:     NewGitClient(),
	}
}

// NewWithClient creates a history extractor with a custom git client (for testing).
func NewWithClient(cfg *config.Config, repoDir string, git *GitClient) *Extractor {
	return &Extractor{
		cfg:     cfg,
		repoDir: repoDir,
		git:     git,
	}
}

// Result holds the results of a history extraction run.
type Result struct {
	CommitCount     int
	CommitFileCount int
}

// Run extracts the commit log and writes it to the store in one batch.
// Commits are recorded in the order git log emits them: newest first.
func (e *Extractor) Run(ctx context.Context, st *store.Store) (*Result, error) {
	if _, err := os.Stat(e.repoDir); err != nil {
		return nil, fmt.Errorf("reading repository path: %w", err)
	}
	if !e.git.IsRepository(ctx, e.repoDir) {
		return nil, fmt.Errorf("%s is not a git repository", e.repoDir)
	}

	out, err := e.git.Log(ctx, e.repoDir)
	if err != nil {
		return nil, fmt.Errorf("retrieving history: %w", err)
	}

	records := parseLog(out)

	batch, err := st.BeginBatch()
	if err != nil {
		return nil, fmt.Errorf("beginning batch: %w", err)
	}
	defer batch.Rollback()

	res := &Result{}
	for _, rec := range records {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		if err := batch.InsertCommit(&rec.commit); err != nil {
			return nil, fmt.Errorf("inserting commit %s: %w", rec.commit.Hash, err)
		}
		res.CommitCount++

		for _, cf := range rec.files {
			cf.FilePath = e.cfg.History.PathPrefix + cf.FilePath
			if !e.cfg.IncludesPath(cf.FilePath) {
				continue
			}
			if err := batch.InsertCommitFile(&cf); err != nil {
				return nil, fmt.Errorf("inserting commit file %s/%s: %w", cf.CommitHash, cf.FilePath, err)
			}
			res.CommitFileCount++
		}
	}

	if err := batch.Commit(); err != nil {
		return nil, fmt.Errorf("committing batch: %w", err)
	}
	return res, nil
}

type commitRecord struct {
	commit store.Commit
	files  []store.CommitFile
}

// parseLog parses `git log --name-status` output produced by GitClient.Log.
// Each record is "commit <hash>" followed by author and date lines, then
// zero or more status lines like "M\tpath". Rename and copy lines carry two
// paths; the new path is the one recorded.
func parseLog(data []byte) []commitRecord {
	var records []commitRecord
	var cur *commitRecord
	fieldsLeft := 0

	for _, line := range strings.Split(string(data), "\n") {
		if hash, ok := strings.CutPrefix(line, "commit "); ok {
			if cur != nil {
				records = append(records, *cur)
			}
			cur = &commitRecord{commit: store.Commit{Hash: strings.TrimSpace(hash)}}
			fieldsLeft = 2
			continue
		}
		if cur == nil {
			continue
		}

		if fieldsLeft == 2 {
			cur.commit.Author = strings.TrimSpace(line)
			fieldsLeft--
			continue
		}
		if fieldsLeft == 1 {
			cur.commit.Date = strings.TrimSpace(line)
			fieldsLeft--
			continue
		}

		if line == "" {
			continue
		}
		if cf, ok := parseStatusLine(line, cur.commit.Hash); ok {
			cur.files = append(cur.files, cf)
		}
	}
	if cur != nil {
		records = append(records, *cur)
	}
	return records
}

func parseStatusLine(line, hash string) (store.CommitFile, bool) {
	parts := strings.Split(line, "\t")
	if len(parts) < 2 || parts[0] == "" {
		return store.CommitFile{}, false
	}

	var kind store.ChangeKind
	switch parts[0][0] {
	case 'A', 'C':
		kind = store.ChangeAdded
	case 'D':
		kind = store.ChangeDeleted
	case 'M', 'R', 'T':
		kind = store.ChangeModified
	default:
		return store.CommitFile{}, false
	}

	// Renames and copies list old then new path; keep the new one.
	path := parts[len(parts)-1]
	if path == "" {
		return store.CommitFile{}, false
	}
	return store.CommitFile{CommitHash: hash, FilePath: path, Change: kind}, true
}
