package planner

import (
	"errors"
	"fmt"
	"strings"
)

// ErrValidation indicates the rule set is internally inconsistent.
var ErrValidation = errors.New("invalid rename batch")

// ValidationKind identifies which consistency check a rule set failed.
type ValidationKind string

const (
	DuplicateSource ValidationKind = "duplicate source"
	DuplicateDest   ValidationKind = "duplicate destination"
	EmptyPath       ValidationKind = "empty path"
)

// ValidationError describes why a rule set was rejected.
type ValidationError struct {
	// Kind is the failed check
	Kind ValidationKind

	// Paths lists the offending values, in first-seen order
	Paths []string
}

func (e *ValidationError) Error() string {
	quoted := make([]string, len(e.Paths))
	for i, p := range e.Paths {
		quoted[i] = fmt.Sprintf("%q", p)
	}
	return fmt.Sprintf("%s: %s: %s", ErrValidation, e.Kind, strings.Join(quoted, ", "))
}

// Is reports whether target is ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Validate checks that no source is renamed twice and no two rules share a
// destination. The whole batch is rejected on the first failed check.
func Validate(rules []Rename) error {
	n := len(rules)

	sources := make(map[string]struct{}, n)
	for _, r := range rules {
		sources[r.Source] = struct{}{}
	}
	if len(sources) != n {
		return &ValidationError{Kind: DuplicateSource, Paths: duplicates(rules, func(r Rename) string { return r.Source })}
	}

	dests := make(map[string]struct{}, n)
	for _, r := range rules {
		dests[r.Dest] = struct{}{}
	}
	if len(dests) != n {
		return &ValidationError{Kind: DuplicateDest, Paths: duplicates(rules, func(r Rename) string { return r.Dest })}
	}

	// An empty line can never name a filesystem entry
	var empty []string
	for _, r := range rules {
		if r.Source == "" || r.Dest == "" {
			empty = append(empty, r.String())
		}
	}
	if len(empty) > 0 {
		return &ValidationError{Kind: EmptyPath, Paths: empty}
	}

	return nil
}

// duplicates returns every value that occurs more than once, once each.
func duplicates(rules []Rename, key func(Rename) string) []string {
	counts := make(map[string]int, len(rules))
	for _, r := range rules {
		counts[key(r)]++
	}

	var dups []string
	for _, r := range rules {
		k := key(r)
		if counts[k] > 1 {
			dups = append(dups, k)
			counts[k] = 0
		}
	}
	return dups
}
