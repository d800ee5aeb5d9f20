// Package execgit provides a git client adapter using exec.Command.
package execgit

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/mcdonaldj/reltag/internal/ports"
)

// ExecGitClient implements ports.GitClient using exec.Command.
type ExecGitClient struct {
	// gitPath is the path to the git binary. Defaults to "git".
	gitPath string
}

// Option is a functional option for configuring ExecGitClient.
type Option func(*ExecGitClient)

// WithGitPath sets a custom path to the git binary.
func WithGitPath(path string) Option {
	return func(c *ExecGitClient) {
		c.gitPath = path
	}
}

// New creates a new ExecGitClient adapter.
func New(opts ...Option) *ExecGitClient {
	c := &ExecGitClient{
		gitPath: "git",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// IsRepo checks if the given path is a git repository.
// A .git file (not just a directory) counts, so worktrees are accepted.
func (g *ExecGitClient) IsRepo(path string) bool {
	_, err := os.Stat(filepath.Join(path, ".git"))
	return err == nil
}

// Head returns the current HEAD commit hash for the repository.
func (g *ExecGitClient) Head(path string) (string, error) {
	out, err := g.command(path, "rev-parse", "HEAD").CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("git rev-parse HEAD failed: %w: %s", err, strings.TrimSpace(string(out)))
	}
	return strings.TrimSpace(string(out)), nil
}

// TagExists reports whether refs/tags/<name> exists in the local tag
// namespace. Exit status 1 from show-ref means the ref is absent, which
// is not an error here.
func (g *ExecGitClient) TagExists(path, name string) (bool, error) {
	err := g.command(path, "show-ref", "--verify", "--quiet", "refs/tags/"+name).Run()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
			return false, nil
		}
		return false, fmt.Errorf("git show-ref failed: %w", err)
	}
	return true, nil
}

// CreateTag creates a tag named name at the current HEAD.
func (g *ExecGitClient) CreateTag(path, name string, opts ports.TagOptions) error {
	args := []string{"tag"}
	if opts.Annotated {
		args = append(args, "-a", name, "-m", opts.Message)
	} else {
		args = append(args, name)
	}

	out, err := g.command(path, args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("git tag failed: %w: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}

// PushTags publishes all local tags to the named remote.
func (g *ExecGitClient) PushTags(ctx context.Context, path, remote string) error {
	cmd := exec.CommandContext(ctx, g.gitPath, "push", remote, "--tags")
	cmd.Dir = path

	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("git push failed: %w: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}

// ListTags returns all local tag names.
func (g *ExecGitClient) ListTags(path string) ([]string, error) {
	out, err := g.command(path, "tag", "--list").CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("git tag --list failed: %w: %s", err, strings.TrimSpace(string(out)))
	}

	var tags []string
	for _, line := range strings.Split(string(out), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			tags = append(tags, line)
		}
	}
	return tags, nil
}

// RemoteURL returns the fetch URL configured for the named remote.
func (g *ExecGitClient) RemoteURL(path, remote string) (string, error) {
	out, err := g.command(path, "remote", "get-url", remote).CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("git remote get-url failed: %w: %s", err, strings.TrimSpace(string(out)))
	}
	return strings.TrimSpace(string(out)), nil
}

// command creates an exec.Cmd for the git binary rooted at the repository.
func (g *ExecGitClient) command(repoPath string, args ...string) *exec.Cmd {
	cmd := exec.Command(g.gitPath, args...)
	cmd.Dir = repoPath
	return cmd
}

// Compile-time check that ExecGitClient implements ports.GitClient.
var _ ports.GitClient = (*ExecGitClient)(nil)
