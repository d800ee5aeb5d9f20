// Package tuisvc provides the real implementation of ports.TUIService.
package tuisvc

import (
	"context"

	"github.com/mcdonaldj/reltag/internal/config"
	"github.com/mcdonaldj/reltag/internal/ports"
	"github.com/mcdonaldj/reltag/internal/tagger"
)

// Service implements ports.TUIService using real git and filesystem operations.
type Service struct{}

// New creates a new TUI service.
func New() *Service {
	return &Service{}
}

// Summary gathers everything the dashboard shows for one repository.
func (s *Service) Summary(repoPath string) (ports.TUISummary, error) {
	cfg, err := config.Load(repoPath)
	if err != nil {
		return ports.TUISummary{}, err
	}

	svc, err := tagger.NewServiceFor(cfg)
	if err != nil {
		return ports.TUISummary{}, err
	}

	st, err := svc.Check(cfg, repoPath)
	if err != nil {
		return ports.TUISummary{}, err
	}

	summary := ports.TUISummary{
		RepoPath:     st.RepoPath,
		ManifestPath: st.ManifestPath,
		Version:      st.Version,
		TagName:      st.TagName,
		Head:         st.Head,
		TagExists:    st.Exists,
	}

	// Remote and tag list are informational; leave them empty on error
	if remote, err := svc.Remote(cfg, repoPath); err == nil {
		summary.Remote = remote
	}
	if tags, err := svc.Tags(cfg, repoPath); err == nil {
		for _, tag := range tags {
			summary.Tags = append(summary.Tags, ports.TUITagInfo{
				Name:      tag.Name,
				IsRelease: tag.IsRelease,
			})
		}
	}

	return summary, nil
}

// EnsureTag creates and publishes the release tag for the repository.
func (s *Service) EnsureTag(repoPath string) ports.TUITagResult {
	cfg, err := config.Load(repoPath)
	if err != nil {
		return ports.TUITagResult{Error: err}
	}

	svc, err := tagger.NewServiceFor(cfg)
	if err != nil {
		return ports.TUITagResult{Error: err}
	}

	out, err := svc.EnsureTag(context.Background(), cfg, repoPath)
	return ports.TUITagResult{
		TagName: out.TagName,
		Created: out.Created,
		Pushed:  out.Pushed,
		Error:   err,
	}
}

// Compile-time check that Service implements ports.TUIService.
var _ ports.TUIService = (*Service)(nil)
