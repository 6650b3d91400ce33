package cli

import (
	"encoding/json"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/danieljhkim/edmv/internal/config"
	"github.com/danieljhkim/edmv/internal/editor"
	"github.com/danieljhkim/edmv/internal/engine"
	"github.com/danieljhkim/edmv/internal/fsops"
	"github.com/danieljhkim/edmv/internal/logging"
	"github.com/danieljhkim/edmv/internal/prompt"
	"github.com/danieljhkim/edmv/internal/selector"
)

// newEngine creates a new engine with real implementations of all dependencies.
func newEngine(cfg *config.Config) *engine.Engine {
	fs := fsops.NewRealFS()
	term := prompt.NewStdTerminal()
	logger := logging.New(os.Stderr, cfg.Verbose)

	var confirmer engine.Confirmer = term
	if cfg.AssumeYes {
		confirmer = prompt.Static{Answer: true}
	}

	ed := editor.New(cfg.Editor).WithFS(fs.Backend())
	logger.Debug("using editor", zap.String("program", ed.Program()))

	return engine.New(
		fs,
		selector.New(fs, cfg.Dir, term, cfg.Hidden, logger),
		ed,
		confirmer,
		logger,
		cfg.Dir,
	)
}

// formatError formats an error for display.
func formatError(err error) string {
	return errorColor.Sprintf("Error: %v", err)
}

// FormatError formats an error for display by the main package.
func FormatError(err error) string {
	return formatError(err)
}

// outputJSON writes a value as indented JSON.
func outputJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
