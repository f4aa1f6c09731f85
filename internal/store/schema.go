package store

// schema contains the SQL statements to create the repolens database schema.
//
// commit_files.file_path is intentionally not a foreign key: history may
// reference files that were deleted, or that are not source files at all.
// function_dependencies endpoints are encoded function paths ("<file>:<name>");
// their integrity against the functions table is guaranteed by the batch
// write discipline in the extractor and checked by CheckIntegrity.
const schema = `
CREATE TABLE IF NOT EXISTS commits (
    hash   TEXT PRIMARY KEY,
    author TEXT,
    date   TEXT
);

CREATE TABLE IF NOT EXISTS commit_files (
    commit_hash TEXT NOT NULL,
    file_path   TEXT NOT NULL,
    change_kind TEXT NOT NULL DEFAULT 'modified',
    PRIMARY KEY (commit_hash, file_path),
    FOREIGN KEY (commit_hash) REFERENCES commits(hash)
);

CREATE INDEX IF NOT EXISTS idx_commit_files_path ON commit_files(file_path);

CREATE TABLE IF NOT EXISTS files (
    full_path TEXT PRIMARY KEY
);

CREATE TABLE IF NOT EXISTS functions (
    name           TEXT NOT NULL,
    file_full_path TEXT NOT NULL,
    line           INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (name, file_full_path),
    FOREIGN KEY (file_full_path) REFERENCES files(full_path)
);

CREATE INDEX IF NOT EXISTS idx_functions_file ON functions(file_full_path);
CREATE INDEX IF NOT EXISTS idx_functions_name ON functions(name);

CREATE TABLE IF NOT EXISTS function_dependencies (
    caller_path TEXT NOT NULL,
    callee_path TEXT NOT NULL,
    PRIMARY KEY (caller_path, callee_path)
);

CREATE INDEX IF NOT EXISTS idx_function_deps_callee ON function_dependencies(callee_path);

-- Metadata table for run info
CREATE TABLE IF NOT EXISTS metadata (
    key   TEXT PRIMARY KEY,
    value TEXT
);
`
