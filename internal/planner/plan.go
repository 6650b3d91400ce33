package planner

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInputShape indicates the edited listing no longer lines up with the original.
var ErrInputShape = errors.New("line count changed")

// Rename represents a single rename of Source to Dest.
type Rename struct {
	// Source is the path as it appeared in the original listing
	Source string `json:"source"`

	// Dest is the path as it appears in the edited listing
	Dest string `json:"dest"`
}

func (r Rename) String() string {
	return fmt.Sprintf("%s → %s", r.Source, r.Dest)
}

// InputShapeError is returned when lines were added or removed during editing
// instead of being renamed in place.
type InputShapeError struct {
	OldLines int
	NewLines int
}

func (e *InputShapeError) Error() string {
	return fmt.Sprintf("%s: listing had %d lines, edited listing has %d", ErrInputShape, e.OldLines, e.NewLines)
}

// Is reports whether target is ErrInputShape.
func (e *InputShapeError) Is(target error) bool {
	return target == ErrInputShape
}

// DeriveRules compares two listings line by line and returns a rule for
// every line that changed, in line order.
// Identical listings yield no rules and no error.
func DeriveRules(oldText, newText string) ([]Rename, error) {
	if oldText == newText {
		return nil, nil
	}

	oldLines := SplitLines(oldText)
	newLines := SplitLines(newText)
	if len(oldLines) != len(newLines) {
		return nil, &InputShapeError{OldLines: len(oldLines), NewLines: len(newLines)}
	}

	var rules []Rename
	for i, source := range oldLines {
		dest := newLines[i]
		if source == dest {
			continue
		}
		rules = append(rules, Rename{Source: source, Dest: dest})
	}
	return rules, nil
}

// SplitLines splits text on '\n'. A trailing '\r' is dropped from every line
// and a final newline does not start an extra empty line.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.TrimSuffix(text, "\n")
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

// JoinListing builds the editor buffer for the given paths, one per line.
func JoinListing(paths []string) string {
	return strings.Join(paths, "\n")
}
