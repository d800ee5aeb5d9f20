// Package ports defines interfaces (contracts) for external dependencies.
package ports

import "context"

// TagOptions configures tag creation.
// The zero value creates a lightweight tag.
type TagOptions struct {
	// Annotated creates an annotated tag object instead of a lightweight ref.
	Annotated bool

	// Message is the annotation message. Ignored for lightweight tags.
	Message string
}

// GitClient abstracts git operations for testability.
// Production code uses the ExecGitClient or GoGitClient adapter; tests use MockGitClient.
// Every operation takes the repository path explicitly rather than relying on
// the process working directory.
type GitClient interface {
	// IsRepo checks if the given path is a git repository.
	IsRepo(path string) bool

	// Head returns the current HEAD commit hash for the repository.
	Head(path string) (string, error)

	// TagExists reports whether refs/tags/<name> exists in the local
	// tag namespace. Read-only; never touches the remote.
	TagExists(path, name string) (bool, error)

	// CreateTag creates a tag named name at the current HEAD.
	CreateTag(path, name string, opts TagOptions) error

	// PushTags publishes all local tags to the named remote.
	PushTags(ctx context.Context, path, remote string) error

	// ListTags returns all local tag names.
	ListTags(path string) ([]string, error)

	// RemoteURL returns the fetch URL configured for the named remote.
	RemoteURL(path, remote string) (string, error)
}
