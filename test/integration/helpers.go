package integration

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/danieljhkim/edmv/internal/editor"
	"github.com/danieljhkim/edmv/internal/engine"
	"github.com/danieljhkim/edmv/internal/fsops"
	"github.com/danieljhkim/edmv/internal/prompt"
	"github.com/danieljhkim/edmv/internal/selector"
)

// chooseAll is a picker that selects every option it is shown.
type chooseAll struct {
	shown [][]string
}

func (c *chooseAll) MultiSelect(_ string, options []string) ([]string, error) {
	c.shown = append(c.shown, options)
	return options, nil
}

// setupWorkspace creates a temporary directory holding the given files. A
// name ending in a slash creates a directory. Every file contains its own name.
func setupWorkspace(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		path := filepath.Join(dir, name)
		if name[len(name)-1] == '/' {
			if err := os.MkdirAll(path, 0o755); err != nil {
				t.Fatalf("failed to create directory %s: %v", name, err)
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("failed to create parent of %s: %v", name, err)
		}
		if err := os.WriteFile(path, []byte(name), 0o644); err != nil {
			t.Fatalf("failed to create %s: %v", name, err)
		}
	}
	return dir
}

// copyEditor returns an editor command that replaces the listing with text.
func copyEditor(t *testing.T, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "edited.txt")
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		t.Fatalf("failed to write edited listing: %v", err)
	}
	return "cp " + path
}

// setupEngine wires an engine with the real filesystem, a real editor
// process and a picker that selects everything.
func setupEngine(t *testing.T, dir, program string, hidden bool) (*engine.Engine, *chooseAll) {
	t.Helper()
	fs := fsops.NewRealFS()
	logger := zaptest.NewLogger(t)
	chooser := &chooseAll{}
	eng := engine.New(
		fs,
		selector.New(fs, dir, chooser, hidden, logger),
		editor.New(program).WithFS(fs.Backend()),
		prompt.Static{Answer: true},
		logger,
		dir,
	)
	return eng, chooser
}

func readFile(t *testing.T, dir, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("failed to read %s: %v", name, err)
	}
	return string(data)
}

func assertNotExists(t *testing.T, dir, name string) {
	t.Helper()
	if _, err := os.Lstat(filepath.Join(dir, name)); !os.IsNotExist(err) {
		t.Errorf("%s should not exist (err = %v)", name, err)
	}
}

// assertNoTempFiles fails if any staging name is left below dir.
func assertNoTempFiles(t *testing.T, dir string) {
	t.Helper()
	err := filepath.Walk(dir, func(path string, _ os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fsops.IsTempName(path) {
			t.Errorf("leftover temporary file %s", path)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("failed to walk %s: %v", dir, err)
	}
}
