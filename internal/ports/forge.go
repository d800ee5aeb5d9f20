package ports

import "context"

// Forge abstracts a code-hosting API for remote verification.
// Production code uses the GitHubForge adapter; tests use MockForge.
type Forge interface {
	// TagExists reports whether the named tag exists on the remote repository.
	TagExists(ctx context.Context, owner, repo, tag string) (bool, error)

	// LatestRelease returns the tag name of the latest published release,
	// or empty string if the repository has no releases.
	LatestRelease(ctx context.Context, owner, repo string) (string, error)
}
