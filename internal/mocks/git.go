// Package mocks provides mock implementations for testing.
package mocks

import (
	"context"
	"fmt"

	"github.com/mcdonaldj/reltag/internal/ports"
)

// TagCall records a CreateTag invocation.
type TagCall struct {
	Path string
	Name string
	Opts ports.TagOptions
}

// PushCall records a PushTags invocation.
type PushCall struct {
	Path   string
	Remote string
}

// MockGitClient implements ports.GitClient for testing.
type MockGitClient struct {
	// Repos maps paths to whether they are git repos
	Repos map[string]bool
	// Heads maps repository paths to HEAD commit hashes
	Heads map[string]string
	// TagsByRepo stores local tag names by repo path
	TagsByRepo map[string][]string
	// RemoteURLs maps repo path -> remote name -> URL
	RemoteURLs map[string]map[string]string

	// CreateCalls records CreateTag invocations in order
	CreateCalls []TagCall
	// PushCalls records PushTags invocations in order
	PushCalls []PushCall

	// Errors allows simulating errors for specific operations
	Errors struct {
		Head      error
		TagExists error
		Create    error
		Push      error
		ListTags  error
		RemoteURL error
	}
}

// NewMockGitClient creates a new mock git client.
func NewMockGitClient() *MockGitClient {
	return &MockGitClient{
		Repos:      make(map[string]bool),
		Heads:      make(map[string]string),
		TagsByRepo: make(map[string][]string),
		RemoteURLs: make(map[string]map[string]string),
	}
}

// IsRepo checks if the given path is a git repository.
func (m *MockGitClient) IsRepo(path string) bool {
	return m.Repos[path]
}

// Head returns the current HEAD commit hash for the repository.
func (m *MockGitClient) Head(path string) (string, error) {
	if m.Errors.Head != nil {
		return "", m.Errors.Head
	}
	if head, ok := m.Heads[path]; ok {
		return head, nil
	}
	return "", fmt.Errorf("no HEAD for %s", path)
}

// TagExists reports whether the named tag exists in the repo's local tags.
func (m *MockGitClient) TagExists(path, name string) (bool, error) {
	if m.Errors.TagExists != nil {
		return false, m.Errors.TagExists
	}
	for _, tag := range m.TagsByRepo[path] {
		if tag == name {
			return true, nil
		}
	}
	return false, nil
}

// CreateTag records the call and adds the tag to the repo's local tags.
func (m *MockGitClient) CreateTag(path, name string, opts ports.TagOptions) error {
	if m.Errors.Create != nil {
		return m.Errors.Create
	}
	m.CreateCalls = append(m.CreateCalls, TagCall{Path: path, Name: name, Opts: opts})
	m.TagsByRepo[path] = append(m.TagsByRepo[path], name)
	return nil
}

// PushTags records the call.
func (m *MockGitClient) PushTags(ctx context.Context, path, remote string) error {
	if m.Errors.Push != nil {
		return m.Errors.Push
	}
	m.PushCalls = append(m.PushCalls, PushCall{Path: path, Remote: remote})
	return nil
}

// ListTags returns the repo's local tag names.
func (m *MockGitClient) ListTags(path string) ([]string, error) {
	if m.Errors.ListTags != nil {
		return nil, m.Errors.ListTags
	}
	tags := make([]string, len(m.TagsByRepo[path]))
	copy(tags, m.TagsByRepo[path])
	return tags, nil
}

// RemoteURL returns the configured URL for the named remote.
func (m *MockGitClient) RemoteURL(path, remote string) (string, error) {
	if m.Errors.RemoteURL != nil {
		return "", m.Errors.RemoteURL
	}
	if url, ok := m.RemoteURLs[path][remote]; ok {
		return url, nil
	}
	return "", fmt.Errorf("no such remote %q in %s", remote, path)
}

// Mutations returns the total number of state-changing git calls, for
// asserting that read-only operations touched nothing.
func (m *MockGitClient) Mutations() int {
	return len(m.CreateCalls) + len(m.PushCalls)
}

// Compile-time check that MockGitClient implements ports.GitClient.
var _ ports.GitClient = (*MockGitClient)(nil)
