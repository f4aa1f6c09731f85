package store

import "strings"

// ChangeKind classifies how a commit touched a file.
type ChangeKind string

const (
	ChangeAdded    ChangeKind = "added"
	ChangeModified ChangeKind = "modified"
	ChangeDeleted  ChangeKind = "deleted"
)

// File represents one source artifact, keyed by its normalized path.
type File struct {
	FullPath string `json:"full_path"`
}

// Function represents one callable unit, keyed by (name, declaring file).
type Function struct {
	Name         string `json:"name"`
	FileFullPath string `json:"file_full_path"`
	Line         int    `json:"line"`
}

// Path returns the encoded identity of the function, used as an endpoint
// in function_dependencies rows.
func (f Function) Path() string {
	return FunctionPath(f.FileFullPath, f.Name)
}

// FunctionDependency is a directed caller→callee edge between two function
// identities. Repeated calls between the same pair collapse to one row.
type FunctionDependency struct {
	CallerPath string `json:"caller_path"`
	CalleePath string `json:"callee_path"`
}

// Commit is one immutable history record.
type Commit struct {
	Hash   string `json:"hash"`
	Author string `json:"author"`
	Date   string `json:"date"` // RFC3339
}

// CommitFile records that a commit touched a file. The file path may refer
// to a file that was never parsed as source, or no longer exists.
type CommitFile struct {
	CommitHash string     `json:"commit_hash"`
	FilePath   string     `json:"file_path"`
	Change     ChangeKind `json:"change"`
}

// FunctionPath encodes a function identity as "<file>:<name>". File paths
// are slash-separated and never contain a colon, so the final colon always
// delimits the name.
func FunctionPath(file, name string) string {
	return file + ":" + name
}

// SplitFunctionPath is the inverse of FunctionPath.
func SplitFunctionPath(p string) (file, name string) {
	i := strings.LastIndexByte(p, ':')
	if i < 0 {
		return "", p
	}
	return p[:i], p[i+1:]
}
