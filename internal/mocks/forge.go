package mocks

import (
	"context"

	"github.com/mcdonaldj/reltag/internal/ports"
)

// MockForge implements ports.Forge for testing.
type MockForge struct {
	// RemoteTags maps "owner/repo" to tag names present on the forge
	RemoteTags map[string][]string
	// Releases maps "owner/repo" to the latest release tag
	Releases map[string]string

	// TagExistsCalls records the looked-up "owner/repo" keys in order
	TagExistsCalls []string

	// Errors allows simulating errors for specific operations
	Errors struct {
		TagExists     error
		LatestRelease error
	}
}

// NewMockForge creates a new mock forge.
func NewMockForge() *MockForge {
	return &MockForge{
		RemoteTags: make(map[string][]string),
		Releases:   make(map[string]string),
	}
}

// TagExists reports whether the tag is present on the remote repository.
func (m *MockForge) TagExists(ctx context.Context, owner, repo, tag string) (bool, error) {
	key := owner + "/" + repo
	m.TagExistsCalls = append(m.TagExistsCalls, key)
	if m.Errors.TagExists != nil {
		return false, m.Errors.TagExists
	}
	for _, t := range m.RemoteTags[key] {
		if t == tag {
			return true, nil
		}
	}
	return false, nil
}

// LatestRelease returns the latest release tag, or empty string if none.
func (m *MockForge) LatestRelease(ctx context.Context, owner, repo string) (string, error) {
	if m.Errors.LatestRelease != nil {
		return "", m.Errors.LatestRelease
	}
	return m.Releases[owner+"/"+repo], nil
}

// Compile-time check that MockForge implements ports.Forge.
var _ ports.Forge = (*MockForge)(nil)
