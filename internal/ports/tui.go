package ports

// TUITagInfo contains local tag metadata for display.
type TUITagInfo struct {
	Name      string
	IsRelease bool
}

// TUISummary contains repository release state for display.
type TUISummary struct {
	RepoPath     string
	ManifestPath string
	Version      string
	TagName      string
	Head         string
	Remote       string
	TagExists    bool
	Tags         []TUITagInfo
}

// TUITagResult contains the result of a tagging operation.
type TUITagResult struct {
	TagName string
	Created bool
	Pushed  bool
	Error   error
}

// TUIService provides operations needed by the TUI.
// This abstraction allows the TUI to be tested without a real repository.
type TUIService interface {
	// Summary returns the release state of the repository for display.
	Summary(repoPath string) (TUISummary, error)

	// EnsureTag performs the tag-and-push operation on the repository.
	EnsureTag(repoPath string) TUITagResult
}
