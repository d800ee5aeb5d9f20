// Package gogit provides a git client adapter using go-git, with no
// dependency on an installed git binary for local operations.
package gogit

import (
	"context"
	"errors"
	"fmt"
	"time"

	git "gopkg.in/src-d/go-git.v4"
	gitconfig "gopkg.in/src-d/go-git.v4/config"
	"gopkg.in/src-d/go-git.v4/plumbing"
	"gopkg.in/src-d/go-git.v4/plumbing/object"
	"gopkg.in/src-d/go-git.v4/plumbing/transport/ssh"

	"github.com/mcdonaldj/reltag/internal/ports"
)

// tagRefSpec pushes the full local tag namespace.
const tagRefSpec = gitconfig.RefSpec("refs/tags/*:refs/tags/*")

// GoGitClient implements ports.GitClient using go-git.
type GoGitClient struct {
	// sshKeyPath authenticates pushes when set. Empty means whatever
	// the transport negotiates on its own (ssh-agent, credentials).
	sshKeyPath string

	// taggerName is recorded as the tagger of annotated tags.
	taggerName string
}

// Option is a functional option for configuring GoGitClient.
type Option func(*GoGitClient)

// WithSSHKey sets the private key file used to authenticate pushes.
func WithSSHKey(path string) Option {
	return func(c *GoGitClient) {
		c.sshKeyPath = path
	}
}

// WithTaggerName sets the signature name used on annotated tags.
func WithTaggerName(name string) Option {
	return func(c *GoGitClient) {
		c.taggerName = name
	}
}

// New creates a new GoGitClient adapter.
func New(opts ...Option) *GoGitClient {
	c := &GoGitClient{
		taggerName: "reltag",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// IsRepo checks if the given path is a git repository.
func (g *GoGitClient) IsRepo(path string) bool {
	_, err := git.PlainOpen(path)
	return err == nil
}

// Head returns the current HEAD commit hash for the repository.
func (g *GoGitClient) Head(path string) (string, error) {
	repo, err := git.PlainOpen(path)
	if err != nil {
		return "", fmt.Errorf("open repository %s: %w", path, err)
	}

	ref, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("resolve HEAD: %w", err)
	}
	return ref.Hash().String(), nil
}

// TagExists reports whether refs/tags/<name> exists in the local tag
// namespace.
func (g *GoGitClient) TagExists(path, name string) (bool, error) {
	repo, err := git.PlainOpen(path)
	if err != nil {
		return false, fmt.Errorf("open repository %s: %w", path, err)
	}

	_, err = repo.Tag(name)
	if errors.Is(err, git.ErrTagNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("look up tag %s: %w", name, err)
	}
	return true, nil
}

// CreateTag creates a tag named name at the current HEAD.
func (g *GoGitClient) CreateTag(path, name string, opts ports.TagOptions) error {
	repo, err := git.PlainOpen(path)
	if err != nil {
		return fmt.Errorf("open repository %s: %w", path, err)
	}

	head, err := repo.Head()
	if err != nil {
		return fmt.Errorf("resolve HEAD: %w", err)
	}

	// A nil options value makes a lightweight tag
	var tagOpts *git.CreateTagOptions
	if opts.Annotated {
		tagOpts = &git.CreateTagOptions{
			Tagger: &object.Signature{
				Name: g.taggerName,
				When: time.Now(),
			},
			Message: opts.Message,
		}
	}

	if _, err := repo.CreateTag(name, head.Hash(), tagOpts); err != nil {
		return fmt.Errorf("create tag %s: %w", name, err)
	}
	return nil
}

// PushTags publishes all local tags to the named remote. An up-to-date
// remote is a success, not an error.
func (g *GoGitClient) PushTags(ctx context.Context, path, remote string) error {
	repo, err := git.PlainOpen(path)
	if err != nil {
		return fmt.Errorf("open repository %s: %w", path, err)
	}

	pushOpts := &git.PushOptions{
		RemoteName: remote,
		RefSpecs:   []gitconfig.RefSpec{tagRefSpec},
	}
	if g.sshKeyPath != "" {
		auth, err := ssh.NewPublicKeysFromFile("git", g.sshKeyPath, "")
		if err != nil {
			return fmt.Errorf("load ssh key %s: %w", g.sshKeyPath, err)
		}
		pushOpts.Auth = auth
	}

	if err := repo.PushContext(ctx, pushOpts); err != nil {
		if errors.Is(err, git.NoErrAlreadyUpToDate) {
			return nil
		}
		return fmt.Errorf("push tags to %s: %w", remote, err)
	}
	return nil
}

// ListTags returns all local tag names.
func (g *GoGitClient) ListTags(path string) ([]string, error) {
	repo, err := git.PlainOpen(path)
	if err != nil {
		return nil, fmt.Errorf("open repository %s: %w", path, err)
	}

	iter, err := repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("iterate tags: %w", err)
	}

	var tags []string
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		tags = append(tags, ref.Name().Short())
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("iterate tags: %w", err)
	}
	return tags, nil
}

// RemoteURL returns the first URL configured for the named remote.
func (g *GoGitClient) RemoteURL(path, remote string) (string, error) {
	repo, err := git.PlainOpen(path)
	if err != nil {
		return "", fmt.Errorf("open repository %s: %w", path, err)
	}

	rem, err := repo.Remote(remote)
	if err != nil {
		return "", fmt.Errorf("remote %s: %w", remote, err)
	}

	urls := rem.Config().URLs
	if len(urls) == 0 {
		return "", fmt.Errorf("remote %s has no URL", remote)
	}
	return urls[0], nil
}

// Compile-time check that GoGitClient implements ports.GitClient.
var _ ports.GitClient = (*GoGitClient)(nil)
