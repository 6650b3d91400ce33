// Package engine provides the core business logic for edmv operations.
//
// The engine package acts as the orchestration layer between CLI commands and
// lower-level operations. It drives a rename session from file selection
// through editing, planning and confirmation to execution.
//
// Key components:
//   - Engine: Main orchestrator that coordinates a rename session
//   - Executor: Applies rules, deferring and staging conflicting renames
//   - Report: Per-rule outcome of an execution
package engine

import (
	"go.uber.org/zap"

	"github.com/danieljhkim/edmv/internal/fsops"
)

// Selector picks the paths to rename. An empty query selects from everything.
type Selector interface {
	Select(query string) ([]string, error)
}

// Editor lets the user edit a listing and returns the edited text.
type Editor interface {
	Edit(initial string) (string, error)
}

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(message string, defaultAnswer bool) (bool, error)
}

// Engine orchestrates all edmv operations.
// It is the main API surface called by the CLI.
type Engine struct {
	fs       fsops.FS
	selector Selector
	editor   Editor
	prompt   Confirmer
	logger   *zap.Logger
	executor *Executor
}

// New creates a new Engine with the given dependencies.
// The selector may be nil when paths are always passed explicitly.
func New(
	fs fsops.FS,
	selector Selector,
	editor Editor,
	prompt Confirmer,
	logger *zap.Logger,
	root string,
) *Engine {
	return &Engine{
		fs:       fs,
		selector: selector,
		editor:   editor,
		prompt:   prompt,
		logger:   logger,
		executor: NewExecutor(fs, logger, root),
	}
}
