package mocks

import (
	"github.com/mcdonaldj/reltag/internal/ports"
)

// MockTUIService implements ports.TUIService for testing.
type MockTUIService struct {
	// SummaryResult is returned from Summary
	SummaryResult ports.TUISummary
	// SummaryError is the error to return from Summary
	SummaryError error

	// TagResult is returned from EnsureTag
	TagResult ports.TUITagResult

	// Call tracking
	SummaryCalls   []string
	EnsureTagCalls []string
}

// NewMockTUIService creates a new mock TUI service.
func NewMockTUIService() *MockTUIService {
	return &MockTUIService{}
}

// Summary returns the release state of the repository for display.
func (m *MockTUIService) Summary(repoPath string) (ports.TUISummary, error) {
	m.SummaryCalls = append(m.SummaryCalls, repoPath)
	if m.SummaryError != nil {
		return ports.TUISummary{}, m.SummaryError
	}
	return m.SummaryResult, nil
}

// EnsureTag performs the tag-and-push operation on the repository.
func (m *MockTUIService) EnsureTag(repoPath string) ports.TUITagResult {
	m.EnsureTagCalls = append(m.EnsureTagCalls, repoPath)
	return m.TagResult
}

// Compile-time check that MockTUIService implements ports.TUIService.
var _ ports.TUIService = (*MockTUIService)(nil)
