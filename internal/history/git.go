package history

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// CommandExecutor abstracts command execution for testing.
type CommandExecutor interface {
	// Run executes a command and returns its standard output.
	Run(ctx context.Context, dir string, name string, args ...string) ([]byte, error)
}

// DefaultExecutor executes commands using os/exec.
type DefaultExecutor struct{}

// Run executes a command and returns its standard output.
func (e *DefaultExecutor) Run(ctx context.Context, dir string, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	if dir != "" {
		cmd.Dir = dir
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		// Include stderr in error message for debugging
		if stderr.Len() > 0 {
			return nil, fmt.Errorf("%w: %s", err, strings.TrimSpace(stderr.String()))
		}
		return nil, err
	}

	return stdout.Bytes(), nil
}

// GitClient executes git commands.
type GitClient struct {
	executor CommandExecutor
}

// NewGitClient creates a new GitClient with the default command executor.
func NewGitClient() *GitClient {
	return &GitClient{
		executor: &DefaultExecutor{},
	}
}

// NewGitClientWithExecutor creates a GitClient with a custom executor (for testing).
func NewGitClientWithExecutor(executor CommandExecutor) *GitClient {
	return &GitClient{
		executor: executor,
	}
}

// IsRepository reports whether the directory is inside a git work tree.
func (g *GitClient) IsRepository(ctx context.Context, repoDir string) bool {
	_, err := g.executor.Run(ctx, repoDir, "git", "rev-parse", "--git-dir")
	return err == nil
}

// Log returns the full commit log with per-commit change status, newest
// first. Each record starts with a "commit <hash>" line followed by the
// author name, the strict-ISO committer date, and the touched files.
func (g *GitClient) Log(ctx context.Context, repoDir string) ([]byte, error) {
	out, err := g.executor.Run(ctx, repoDir, "git", "log",
		"--name-status",
		"--date=iso-strict",
		"--pretty=format:commit %H%n%an%n%ad",
	)
	if err != nil {
		return nil, fmt.Errorf("git log failed: %w", err)
	}
	return out, nil
}
