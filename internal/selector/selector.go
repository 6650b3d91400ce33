// Package selector lets the user pick the files to rename.
//
// Candidates are all files and directories below a root directory. A query
// narrows them down before the interactive picker is shown: queries with glob
// metacharacters are matched as doublestar patterns ("**/*.jpg"), anything
// else as a case-insensitive fuzzy subsequence ("ph2024" matches
// "photos/2024-01.jpg").
package selector

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/zap"

	"github.com/danieljhkim/edmv/internal/fsops"
)

const (
	pickerMessage = "search>"
	globMeta      = "*?[{"
)

// Chooser shows options to the user and returns the chosen ones.
type Chooser interface {
	MultiSelect(message string, options []string) ([]string, error)
}

// FileSelector picks paths below a root directory.
type FileSelector struct {
	fs      fsops.FS
	root    string
	hidden  bool
	chooser Chooser
	logger  *zap.Logger
}

// New creates a FileSelector. Hidden entries are only listed when hidden is set.
// Entries that cannot be read are skipped and logged.
func New(fs fsops.FS, root string, chooser Chooser, hidden bool, logger *zap.Logger) *FileSelector {
	if root == "" {
		root = "."
	}
	return &FileSelector{
		fs:      fs,
		root:    root,
		hidden:  hidden,
		chooser: chooser,
		logger:  logger,
	}
}

// Select lists the candidates matching query and lets the user pick among them.
// The returned paths are relative to the root.
func (s *FileSelector) Select(query string) ([]string, error) {
	candidates, err := s.Candidates(query)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, nil
	}
	return s.chooser.MultiSelect(pickerMessage, candidates)
}

// Candidates returns every path below the root that matches query, in
// lexical walk order.
func (s *FileSelector) Candidates(query string) ([]string, error) {
	var candidates []string
	err := s.fs.Walk(s.root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if filepath.Clean(path) == filepath.Clean(s.root) {
				return err
			}
			s.logger.Warn("skipping unreadable entry", zap.String("path", path), zap.Error(err))
			if info != nil && info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}

		if s.skip(info.Name()) {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if Match(query, rel) {
			candidates = append(candidates, rel)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", s.root, err)
	}
	return candidates, nil
}

func (s *FileSelector) skip(name string) bool {
	if name == ".git" {
		return true
	}
	return !s.hidden && strings.HasPrefix(name, ".")
}

// Match reports whether candidate satisfies query. An empty query matches everything.
func Match(query, candidate string) bool {
	if query == "" {
		return true
	}
	if strings.ContainsAny(query, globMeta) {
		ok, err := doublestar.Match(query, filepath.ToSlash(candidate))
		return err == nil && ok
	}
	return fuzzyMatch(query, candidate)
}

// fuzzyMatch reports whether the runes of query appear in candidate in order.
func fuzzyMatch(query, candidate string) bool {
	q := []rune(strings.ToLower(query))
	i := 0
	for _, r := range candidate {
		if i == len(q) {
			break
		}
		if unicode.ToLower(r) == q[i] {
			i++
		}
	}
	return i == len(q)
}

// Static returns a fixed list of paths, for paths given on the command line.
type Static []string

// Select returns the fixed paths; the query is ignored.
func (s Static) Select(string) ([]string, error) {
	return []string(s), nil
}
