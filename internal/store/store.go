package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Store handles persistence of extracted dependency and history data to SQLite.
type Store struct {
	db      *sql.DB
	dbPath  string
	baseDir string // Project root directory
}

// Open creates or opens a repolens index database.
// By default, stores at .repolens/index.db relative to the given project directory.
func Open(projectDir string) (*Store, error) {
	repolensDir := filepath.Join(projectDir, ".repolens")
	if err := os.MkdirAll(repolensDir, 0755); err != nil {
		return nil, fmt.Errorf("creating .repolens directory: %w", err)
	}

	dbPath := filepath.Join(repolensDir, "index.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable foreign keys and WAL mode for better performance
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA cache_size = -64000", // 64MB cache
		"PRAGMA busy_timeout = 5000", // writers from both extractors may overlap
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("setting pragma: %w", err)
		}
	}

	// Create schema
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{
		db:      db,
		dbPath:  dbPath,
		baseDir: projectDir,
	}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DBPath returns the path to the database file.
func (s *Store) DBPath() string {
	return s.dbPath
}

// Clear removes all data from the database (for re-extraction).
func (s *Store) Clear() error {
	tables := []string{"function_dependencies", "functions", "commit_files", "commits", "files", "metadata"}
	for _, table := range tables {
		if _, err := s.db.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("clearing table %s: %w", table, err)
		}
	}
	return nil
}

// ClearCode removes code-extraction tables only, leaving history intact.
func (s *Store) ClearCode() error {
	for _, table := range []string{"function_dependencies", "functions"} {
		if _, err := s.db.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("clearing table %s: %w", table, err)
		}
	}
	return nil
}

// ClearHistory removes history-extraction tables only.
func (s *Store) ClearHistory() error {
	for _, table := range []string{"commit_files", "commits"} {
		if _, err := s.db.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("clearing table %s: %w", table, err)
		}
	}
	return nil
}

// InsertFile upserts a file. Re-inserting an existing path is a no-op.
func (s *Store) InsertFile(f *File) error {
	_, err := s.db.Exec(`
		INSERT INTO files (full_path) VALUES (?)
		ON CONFLICT(full_path) DO NOTHING
	`, f.FullPath)
	return err
}

// InsertFunction upserts a function keyed by (name, file).
func (s *Store) InsertFunction(fn *Function) error {
	_, err := s.db.Exec(`
		INSERT INTO functions (name, file_full_path, line)
		VALUES (?, ?, ?)
		ON CONFLICT(name, file_full_path) DO UPDATE SET
			line = excluded.line
	`, fn.Name, fn.FileFullPath, fn.Line)
	return err
}

// InsertFunctionDependency upserts a caller→callee edge.
func (s *Store) InsertFunctionDependency(dep *FunctionDependency) error {
	_, err := s.db.Exec(`
		INSERT INTO function_dependencies (caller_path, callee_path)
		VALUES (?, ?)
		ON CONFLICT(caller_path, callee_path) DO NOTHING
	`, dep.CallerPath, dep.CalleePath)
	return err
}

// InsertCommit upserts a commit keyed by hash.
func (s *Store) InsertCommit(c *Commit) error {
	_, err := s.db.Exec(`
		INSERT INTO commits (hash, author, date)
		VALUES (?, ?, ?)
		ON CONFLICT(hash) DO NOTHING
	`, c.Hash, c.Author, c.Date)
	return err
}

// InsertCommitFile upserts a commit→file association.
func (s *Store) InsertCommitFile(cf *CommitFile) error {
	_, err := s.db.Exec(`
		INSERT INTO commit_files (commit_hash, file_path, change_kind)
		VALUES (?, ?, ?)
		ON CONFLICT(commit_hash, file_path) DO UPDATE SET
			change_kind = excluded.change_kind
	`, cf.CommitHash, cf.FilePath, cf.Change)
	return err
}

// Files returns all files ordered by path.
func (s *Store) Files() ([]File, error) {
	rows, err := s.db.Query("SELECT full_path FROM files ORDER BY full_path")
	if err != nil {
		return nil, fmt.Errorf("querying files: %w", err)
	}
	defer rows.Close()

	var files []File
	for rows.Next() {
		var f File
		if err := rows.Scan(&f.FullPath); err != nil {
			return nil, fmt.Errorf("scanning file: %w", err)
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

// Functions returns all functions ordered by (file, name).
func (s *Store) Functions() ([]Function, error) {
	rows, err := s.db.Query(`
		SELECT name, file_full_path, line FROM functions
		ORDER BY file_full_path, name
	`)
	if err != nil {
		return nil, fmt.Errorf("querying functions: %w", err)
	}
	defer rows.Close()
	return scanFunctions(rows)
}

// FunctionsInFile returns all functions declared in the given file,
// ordered by name.
func (s *Store) FunctionsInFile(path string) ([]Function, error) {
	rows, err := s.db.Query(`
		SELECT name, file_full_path, line FROM functions
		WHERE file_full_path = ?
		ORDER BY name
	`, path)
	if err != nil {
		return nil, fmt.Errorf("querying functions in %s: %w", path, err)
	}
	defer rows.Close()
	return scanFunctions(rows)
}

func scanFunctions(rows *sql.Rows) ([]Function, error) {
	var fns []Function
	for rows.Next() {
		var fn Function
		if err := rows.Scan(&fn.Name, &fn.FileFullPath, &fn.Line); err != nil {
			return nil, fmt.Errorf("scanning function: %w", err)
		}
		fns = append(fns, fn)
	}
	return fns, rows.Err()
}

// FunctionDependencies returns all call edges ordered by (caller, callee).
func (s *Store) FunctionDependencies() ([]FunctionDependency, error) {
	rows, err := s.db.Query(`
		SELECT caller_path, callee_path FROM function_dependencies
		ORDER BY caller_path, callee_path
	`)
	if err != nil {
		return nil, fmt.Errorf("querying function dependencies: %w", err)
	}
	defer rows.Close()

	var deps []FunctionDependency
	for rows.Next() {
		var d FunctionDependency
		if err := rows.Scan(&d.CallerPath, &d.CalleePath); err != nil {
			return nil, fmt.Errorf("scanning function dependency: %w", err)
		}
		deps = append(deps, d)
	}
	return deps, rows.Err()
}

// Commits returns all commits in reverse chronological order (the order
// the history extractor observed them).
func (s *Store) Commits() ([]Commit, error) {
	rows, err := s.db.Query("SELECT hash, author, date FROM commits ORDER BY date DESC, hash")
	if err != nil {
		return nil, fmt.Errorf("querying commits: %w", err)
	}
	defer rows.Close()

	var commits []Commit
	for rows.Next() {
		var c Commit
		if err := rows.Scan(&c.Hash, &c.Author, &c.Date); err != nil {
			return nil, fmt.Errorf("scanning commit: %w", err)
		}
		commits = append(commits, c)
	}
	return commits, rows.Err()
}

// CommitsTouching returns all commits whose change set includes the given
// file path, most recent first.
func (s *Store) CommitsTouching(path string) ([]Commit, error) {
	rows, err := s.db.Query(`
		SELECT c.hash, c.author, c.date
		FROM commits c
		JOIN commit_files cf ON cf.commit_hash = c.hash
		WHERE cf.file_path = ?
		ORDER BY c.date DESC, c.hash
	`, path)
	if err != nil {
		return nil, fmt.Errorf("querying commits touching %s: %w", path, err)
	}
	defer rows.Close()

	var commits []Commit
	for rows.Next() {
		var c Commit
		if err := rows.Scan(&c.Hash, &c.Author, &c.Date); err != nil {
			return nil, fmt.Errorf("scanning commit: %w", err)
		}
		commits = append(commits, c)
	}
	return commits, rows.Err()
}

// TouchCounts returns the number of commits touching each file path.
// Paths with no history are absent from the map.
func (s *Store) TouchCounts() (map[string]int, error) {
	rows, err := s.db.Query(`
		SELECT file_path, COUNT(*) FROM commit_files GROUP BY file_path
	`)
	if err != nil {
		return nil, fmt.Errorf("querying touch counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var path string
		var n int
		if err := rows.Scan(&path, &n); err != nil {
			return nil, fmt.Errorf("scanning touch count: %w", err)
		}
		counts[path] = n
	}
	return counts, rows.Err()
}

// AuthorTouchCounts returns, per file path with history, how many commits
// each author contributed to it.
func (s *Store) AuthorTouchCounts() (map[string]map[string]int, error) {
	rows, err := s.db.Query(`
		SELECT cf.file_path, c.author, COUNT(*)
		FROM commit_files cf
		JOIN commits c ON c.hash = cf.commit_hash
		GROUP BY cf.file_path, c.author
	`)
	if err != nil {
		return nil, fmt.Errorf("querying author touch counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]map[string]int)
	for rows.Next() {
		var path, author string
		var n int
		if err := rows.Scan(&path, &author, &n); err != nil {
			return nil, fmt.Errorf("scanning author touch count: %w", err)
		}
		byAuthor := counts[path]
		if byAuthor == nil {
			byAuthor = make(map[string]int)
			counts[path] = byAuthor
		}
		byAuthor[author] = n
	}
	return counts, rows.Err()
}

// Touch describes the most recent commit that touched a file.
type Touch struct {
	Hash   string
	Author string
	Date   string
}

// LastTouches returns, for each file path with history, the most recent
// commit that touched it. Ties on date break by hash for determinism.
func (s *Store) LastTouches() (map[string]Touch, error) {
	rows, err := s.db.Query(`
		SELECT cf.file_path, c.hash, c.author, c.date
		FROM commit_files cf
		JOIN commits c ON c.hash = cf.commit_hash
		ORDER BY cf.file_path, c.date DESC, c.hash
	`)
	if err != nil {
		return nil, fmt.Errorf("querying last touches: %w", err)
	}
	defer rows.Close()

	touches := make(map[string]Touch)
	for rows.Next() {
		var path string
		var t Touch
		if err := rows.Scan(&path, &t.Hash, &t.Author, &t.Date); err != nil {
			return nil, fmt.Errorf("scanning touch: %w", err)
		}
		if _, seen := touches[path]; !seen {
			touches[path] = t
		}
	}
	return touches, rows.Err()
}

// CheckIntegrity reports function dependency endpoints that do not resolve
// to a registered function. The batch write discipline in the extractor
// should make this impossible; violations are surfaced as warnings rather
// than silently dropped.
func (s *Store) CheckIntegrity() ([]string, error) {
	rows, err := s.db.Query(`
		SELECT d.caller_path, d.callee_path
		FROM function_dependencies d
		WHERE NOT EXISTS (
			SELECT 1 FROM functions f
			WHERE d.caller_path = f.file_full_path || ':' || f.name
		) OR NOT EXISTS (
			SELECT 1 FROM functions f
			WHERE d.callee_path = f.file_full_path || ':' || f.name
		)
		ORDER BY d.caller_path, d.callee_path
	`)
	if err != nil {
		return nil, fmt.Errorf("checking integrity: %w", err)
	}
	defer rows.Close()

	var warnings []string
	for rows.Next() {
		var caller, callee string
		if err := rows.Scan(&caller, &callee); err != nil {
			return nil, fmt.Errorf("scanning integrity violation: %w", err)
		}
		warnings = append(warnings, fmt.Sprintf("dangling dependency %s -> %s", caller, callee))
	}
	return warnings, rows.Err()
}

// Stats holds statistics about the extracted data.
type Stats struct {
	FileCount       int       `json:"file_count"`
	FunctionCount   int       `json:"function_count"`
	DependencyCount int       `json:"dependency_count"`
	CommitCount     int       `json:"commit_count"`
	CommitFileCount int       `json:"commit_file_count"`
	ExtractedAt     time.Time `json:"extracted_at"`
}

// GetStats returns statistics about the extracted data.
func (s *Store) GetStats() (*Stats, error) {
	stats := &Stats{}

	rows := []struct {
		table string
		dest  *int
	}{
		{"files", &stats.FileCount},
		{"functions", &stats.FunctionCount},
		{"function_dependencies", &stats.DependencyCount},
		{"commits", &stats.CommitCount},
		{"commit_files", &stats.CommitFileCount},
	}

	for _, r := range rows {
		err := s.db.QueryRow("SELECT COUNT(*) FROM " + r.table).Scan(r.dest)
		if err != nil {
			return nil, fmt.Errorf("counting %s: %w", r.table, err)
		}
	}

	// Get extraction timestamp from metadata
	if ts, err := s.GetMetadata("extracted_at"); err == nil {
		stats.ExtractedAt, _ = time.Parse(time.RFC3339, ts)
	}

	return stats, nil
}

// SetMetadata stores a key-value pair in the metadata table.
func (s *Store) SetMetadata(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO metadata (key, value)
		VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}

// GetMetadata retrieves a value from the metadata table.
func (s *Store) GetMetadata(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM metadata WHERE key = ?", key).Scan(&value)
	return value, err
}

// Tx returns the underlying database for advanced queries.
// Use with caution - prefer adding methods to Store instead.
func (s *Store) Tx() *sql.DB {
	return s.db
}

// BeginBatch starts a transaction for batch inserts. A reader never sees a
// function without its owning file: both land in the same transaction.
// Call Commit() when done, or Rollback() on error.
func (s *Store) BeginBatch() (*BatchTx, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	return &BatchTx{tx: tx}, nil
}

// BatchTx wraps a transaction for batch operations.
type BatchTx struct {
	tx *sql.Tx
}

// Commit commits the batch transaction.
func (b *BatchTx) Commit() error {
	return b.tx.Commit()
}

// Rollback rolls back the batch transaction.
func (b *BatchTx) Rollback() error {
	return b.tx.Rollback()
}

// InsertFile upserts a file within the batch.
func (b *BatchTx) InsertFile(f *File) error {
	_, err := b.tx.Exec(`
		INSERT INTO files (full_path) VALUES (?)
		ON CONFLICT(full_path) DO NOTHING
	`, f.FullPath)
	return err
}

// InsertFunction upserts a function within the batch.
func (b *BatchTx) InsertFunction(fn *Function) error {
	_, err := b.tx.Exec(`
		INSERT INTO functions (name, file_full_path, line)
		VALUES (?, ?, ?)
		ON CONFLICT(name, file_full_path) DO UPDATE SET
			line = excluded.line
	`, fn.Name, fn.FileFullPath, fn.Line)
	return err
}

// InsertFunctionDependency upserts a call edge within the batch.
func (b *BatchTx) InsertFunctionDependency(dep *FunctionDependency) error {
	_, err := b.tx.Exec(`
		INSERT INTO function_dependencies (caller_path, callee_path)
		VALUES (?, ?)
		ON CONFLICT(caller_path, callee_path) DO NOTHING
	`, dep.CallerPath, dep.CalleePath)
	return err
}

// InsertCommit upserts a commit within the batch.
func (b *BatchTx) InsertCommit(c *Commit) error {
	_, err := b.tx.Exec(`
		INSERT INTO commits (hash, author, date)
		VALUES (?, ?, ?)
		ON CONFLICT(hash) DO NOTHING
	`, c.Hash, c.Author, c.Date)
	return err
}

// InsertCommitFile upserts a commit→file association within the batch.
func (b *BatchTx) InsertCommitFile(cf *CommitFile) error {
	_, err := b.tx.Exec(`
		INSERT INTO commit_files (commit_hash, file_path, change_kind)
		VALUES (?, ?, ?)
		ON CONFLICT(commit_hash, file_path) DO UPDATE SET
			change_kind = excluded.change_kind
	`, cf.CommitHash, cf.FilePath, cf.Change)
	return err
}
