package tagger

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mcdonaldj/reltag/internal/adapters/execgit"
	"github.com/mcdonaldj/reltag/internal/adapters/ghforge"
	"github.com/mcdonaldj/reltag/internal/adapters/gogit"
	"github.com/mcdonaldj/reltag/internal/config"
	"github.com/mcdonaldj/reltag/internal/manifest"
	"github.com/mcdonaldj/reltag/internal/ports"
)

// ErrNotARepo reports that the given path is not a git repository.
var ErrNotARepo = errors.New("not a git repository")

// ExtractionError reports that no version could be determined from the
// packaging manifest.
type ExtractionError struct {
	Path string
	Err  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract version from %s: %v", e.Path, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// TagError reports a failure checking or creating the release tag.
type TagError struct {
	TagName string
	Err     error
}

func (e *TagError) Error() string {
	return fmt.Sprintf("tag %s: %v", e.TagName, e.Err)
}

func (e *TagError) Unwrap() error { return e.Err }

// PushError reports a failure publishing tags to the remote. The local
// tag already exists when this is returned; rerunning after the remote
// recovers will push it.
type PushError struct {
	Remote string
	Err    error
}

func (e *PushError) Error() string {
	return fmt.Sprintf("push tags to %s: %v", e.Remote, e.Err)
}

func (e *PushError) Unwrap() error { return e.Err }

// Outcome describes a completed EnsureTag run.
type Outcome struct {
	RepoPath     string
	ManifestPath string
	Version      string
	TagName      string
	Head         string
	Created      bool // false means the tag already existed
	Pushed       bool
}

// Status describes the release state of a repository without touching it.
type Status struct {
	RepoPath     string
	ManifestPath string
	Version      string
	TagName      string
	Head         string
	Exists       bool
}

// TagInfo describes one local tag.
type TagInfo struct {
	Name      string
	IsRelease bool // name carries the configured release prefix
}

// RemoteStatus describes the release state of the forge-hosted remote.
type RemoteStatus struct {
	TagName       string
	Owner         string
	Repo          string
	Exists        bool
	LatestRelease string
}

// Service provides release-tagging operations with injected dependencies.
type Service struct {
	git   ports.GitClient
	forge ports.Forge
}

// NewService creates a new tagger service with the given dependencies.
func NewService(git ports.GitClient, forge ports.Forge) *Service {
	return &Service{
		git:   git,
		forge: forge,
	}
}

// NewDefaultService creates a tagger service with real production dependencies.
func NewDefaultService() *Service {
	return NewService(
		execgit.New(),
		ghforge.New(os.Getenv("GITHUB_TOKEN")),
	)
}

// NewServiceFor creates a tagger service with the git client the config
// selects. The forge client authenticates with GITHUB_TOKEN when set.
func NewServiceFor(cfg *config.Config) (*Service, error) {
	var git ports.GitClient
	switch cfg.Client {
	case config.ClientExec, "":
		git = execgit.New()
	case config.ClientGoGit:
		git = gogit.New(gogit.WithSSHKey(config.ExpandPath(cfg.SSHKey)))
	default:
		return nil, fmt.Errorf("unknown git client %q (supported: %s, %s)",
			cfg.Client, config.ClientExec, config.ClientGoGit)
	}
	return NewService(git, ghforge.New(os.Getenv("GITHUB_TOKEN"))), nil
}

// EnsureTag extracts the manifest version, derives the release tag name,
// and creates and pushes the tag unless it already exists. The returned
// Outcome carries whatever stage was reached when an error occurred; a
// PushError in particular means the local tag was created.
func (s *Service) EnsureTag(ctx context.Context, cfg *config.Config, repoPath string) (Outcome, error) {
	out := Outcome{RepoPath: repoPath}

	if !s.git.IsRepo(repoPath) {
		return out, fmt.Errorf("%s: %w", repoPath, ErrNotARepo)
	}

	info, err := s.extract(cfg, repoPath)
	if err != nil {
		return out, err
	}
	out.ManifestPath = info.Path
	out.Version = info.Version
	out.TagName = cfg.TagPrefix + info.Version

	// HEAD is informational; a repo without commits fails at CreateTag
	if head, err := s.git.Head(repoPath); err == nil {
		out.Head = head
	}

	exists, err := s.git.TagExists(repoPath, out.TagName)
	if err != nil {
		return out, &TagError{TagName: out.TagName, Err: err}
	}
	if exists {
		return out, nil
	}

	// The existence check above does not lock anything. A tag created
	// between it and here surfaces as a create failure.
	opts := ports.TagOptions{
		Annotated: cfg.Annotated,
		Message:   renderMessage(cfg.Message, out.TagName, out.Version),
	}
	if err := s.git.CreateTag(repoPath, out.TagName, opts); err != nil {
		return out, &TagError{TagName: out.TagName, Err: err}
	}
	out.Created = true

	if !cfg.Push {
		return out, nil
	}
	if err := s.git.PushTags(ctx, repoPath, cfg.Remote); err != nil {
		return out, &PushError{Remote: cfg.Remote, Err: err}
	}
	out.Pushed = true

	return out, nil
}

// Check reports the release state of the repository. Read-only: no tag
// is created and nothing is pushed.
func (s *Service) Check(cfg *config.Config, repoPath string) (Status, error) {
	st := Status{RepoPath: repoPath}

	if !s.git.IsRepo(repoPath) {
		return st, fmt.Errorf("%s: %w", repoPath, ErrNotARepo)
	}

	info, err := s.extract(cfg, repoPath)
	if err != nil {
		return st, err
	}
	st.ManifestPath = info.Path
	st.Version = info.Version
	st.TagName = cfg.TagPrefix + info.Version

	if head, err := s.git.Head(repoPath); err == nil {
		st.Head = head
	}

	exists, err := s.git.TagExists(repoPath, st.TagName)
	if err != nil {
		return st, &TagError{TagName: st.TagName, Err: err}
	}
	st.Exists = exists

	return st, nil
}

// Tags lists all local tags, marking the ones that carry the configured
// release prefix.
func (s *Service) Tags(cfg *config.Config, repoPath string) ([]TagInfo, error) {
	if !s.git.IsRepo(repoPath) {
		return nil, fmt.Errorf("%s: %w", repoPath, ErrNotARepo)
	}

	names, err := s.git.ListTags(repoPath)
	if err != nil {
		return nil, err
	}

	tags := make([]TagInfo, 0, len(names))
	for _, name := range names {
		tags = append(tags, TagInfo{
			Name:      name,
			IsRelease: strings.HasPrefix(name, cfg.TagPrefix) && len(name) > len(cfg.TagPrefix),
		})
	}
	return tags, nil
}

// Remote reports the URL of the configured remote.
func (s *Service) Remote(cfg *config.Config, repoPath string) (string, error) {
	return s.git.RemoteURL(repoPath, cfg.Remote)
}

// VerifyRemote checks whether the release tag has reached the forge.
// Owner and repo come from config when set, otherwise from the remote URL.
func (s *Service) VerifyRemote(ctx context.Context, cfg *config.Config, repoPath string) (RemoteStatus, error) {
	rs := RemoteStatus{}

	if s.forge == nil {
		return rs, errors.New("no forge client configured")
	}
	if !s.git.IsRepo(repoPath) {
		return rs, fmt.Errorf("%s: %w", repoPath, ErrNotARepo)
	}

	info, err := s.extract(cfg, repoPath)
	if err != nil {
		return rs, err
	}
	rs.TagName = cfg.TagPrefix + info.Version

	rs.Owner, rs.Repo = cfg.GitHub.Owner, cfg.GitHub.Repo
	if rs.Owner == "" || rs.Repo == "" {
		url, err := s.git.RemoteURL(repoPath, cfg.Remote)
		if err != nil {
			return rs, fmt.Errorf("resolve remote %s: %w", cfg.Remote, err)
		}
		rs.Owner, rs.Repo, err = ParseGitHubRemote(url)
		if err != nil {
			return rs, err
		}
	}

	exists, err := s.forge.TagExists(ctx, rs.Owner, rs.Repo, rs.TagName)
	if err != nil {
		return rs, err
	}
	rs.Exists = exists

	latest, err := s.forge.LatestRelease(ctx, rs.Owner, rs.Repo)
	if err != nil {
		return rs, err
	}
	rs.LatestRelease = latest

	return rs, nil
}

// extract resolves the manifest path and pulls the version out of it.
// All failures come back as ExtractionError.
func (s *Service) extract(cfg *config.Config, repoPath string) (manifest.Info, error) {
	path := cfg.Manifest
	if path == "" {
		detected, err := manifest.Detect(repoPath)
		if err != nil {
			return manifest.Info{}, &ExtractionError{Path: repoPath, Err: err}
		}
		path = detected
	} else if !filepath.IsAbs(path) {
		path = filepath.Join(repoPath, path)
	}

	info, err := manifest.Extract(path)
	if err != nil {
		return manifest.Info{}, &ExtractionError{Path: path, Err: err}
	}
	return info, nil
}

// renderMessage fills the {tag} and {version} placeholders of the
// configured annotation message.
func renderMessage(template, tagName, version string) string {
	msg := strings.ReplaceAll(template, "{tag}", tagName)
	return strings.ReplaceAll(msg, "{version}", version)
}

// ParseGitHubRemote extracts owner and repo from a GitHub remote URL.
// Both https and ssh forms are accepted.
func ParseGitHubRemote(remoteURL string) (owner, repo string, err error) {
	trimmed := strings.TrimPrefix(remoteURL, "https://")
	trimmed = strings.TrimPrefix(trimmed, "http://")
	trimmed = strings.TrimPrefix(trimmed, "ssh://")
	trimmed = strings.TrimPrefix(trimmed, "git@")

	var path string
	switch {
	case strings.HasPrefix(trimmed, "github.com:"):
		path = strings.TrimPrefix(trimmed, "github.com:")
	case strings.HasPrefix(trimmed, "github.com/"):
		path = strings.TrimPrefix(trimmed, "github.com/")
	default:
		return "", "", fmt.Errorf("%q is not a GitHub remote", remoteURL)
	}

	path = strings.TrimSuffix(path, ".git")
	path = strings.TrimSuffix(path, "/")

	parts := strings.SplitN(path, "/", 3)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("cannot parse GitHub repo from %q", remoteURL)
	}
	return parts[0], parts[1], nil
}
