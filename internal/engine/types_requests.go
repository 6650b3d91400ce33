package engine

import "github.com/danieljhkim/edmv/internal/planner"

// PreviewFunc receives the rules of a batch before confirmation.
type PreviewFunc func(rules []planner.Rename)

// EditRequest represents a request to rename files through the editor.
type EditRequest struct {
	// Paths are the paths to rename; when empty the selector is used
	Paths []string

	// Query pre-filters the selector's candidates
	Query string

	// DryRun stops after showing the rules
	DryRun bool

	// AssumeYes skips the confirmation prompt
	AssumeYes bool

	// Retry reopens the editor after a rejected edit instead of giving up
	Retry bool

	// Preview is called with the rules before confirmation
	Preview PreviewFunc
}

// ApplyRequest represents a request to rename files from two listing files.
type ApplyRequest struct {
	// OldListing is the path of the listing naming the current files
	OldListing string

	// NewListing is the path of the listing naming the desired files
	NewListing string

	// DryRun stops after showing the rules
	DryRun bool

	// AssumeYes skips the confirmation prompt
	AssumeYes bool

	// Preview is called with the rules before confirmation
	Preview PreviewFunc
}
