// Package ghforge provides a forge adapter backed by the GitHub API.
package ghforge

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/go-github/v60/github"

	"github.com/mcdonaldj/reltag/internal/ports"
)

// GitHubForge implements ports.Forge using the GitHub REST API.
type GitHubForge struct {
	client *github.Client
}

// New creates a new GitHubForge adapter. An empty token gives an
// unauthenticated client, which is enough for public repositories.
func New(token string) *GitHubForge {
	client := github.NewClient(nil)
	if token != "" {
		client = client.WithAuthToken(token)
	}
	return &GitHubForge{client: client}
}

// NewWithClient wraps an existing GitHub client.
// Tests use this with a client pointed at a local test server.
func NewWithClient(client *github.Client) *GitHubForge {
	return &GitHubForge{client: client}
}

// TagExists reports whether the named tag exists on the remote repository.
func (f *GitHubForge) TagExists(ctx context.Context, owner, repo, tag string) (bool, error) {
	opts := &github.ListOptions{PerPage: 100}

	for {
		tags, resp, err := f.client.Repositories.ListTags(ctx, owner, repo, opts)
		if err != nil {
			return false, fmt.Errorf("list tags for %s/%s: %w", owner, repo, err)
		}
		for _, t := range tags {
			if t.GetName() == tag {
				return true, nil
			}
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return false, nil
}

// LatestRelease returns the tag name of the latest published release, or
// empty string when the repository has no releases yet.
func (f *GitHubForge) LatestRelease(ctx context.Context, owner, repo string) (string, error) {
	release, _, err := f.client.Repositories.GetLatestRelease(ctx, owner, repo)
	if err != nil {
		if strings.Contains(err.Error(), "404") {
			return "", nil
		}
		return "", fmt.Errorf("get latest release for %s/%s: %w", owner, repo, err)
	}
	return release.GetTagName(), nil
}

// Compile-time check that GitHubForge implements ports.Forge.
var _ ports.Forge = (*GitHubForge)(nil)
