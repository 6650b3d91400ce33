package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/danieljhkim/edmv/internal/fsops"
	"github.com/danieljhkim/edmv/internal/planner"
)

// maxTempAttempts bounds how many staging names are tried per rule.
const maxTempAttempts = 10

// Executor applies validated rename rules to the filesystem.
type Executor struct {
	fs       fsops.FS
	logger   *zap.Logger
	root     string
	tempName func(path string) (string, error)
}

// NewExecutor creates an Executor. Relative rule paths are resolved against
// root; an empty root leaves them relative to the process working directory.
func NewExecutor(fs fsops.FS, logger *zap.Logger, root string) *Executor {
	return &Executor{
		fs:       fs,
		logger:   logger,
		root:     root,
		tempName: fsops.TempName,
	}
}

// Algorithm steps:
// 1. Preflight: every source must exist, otherwise nothing is touched
// 2. Direct pass: rename each rule whose destination is free, defer the rest
// 3. Conflict check: a deferred rule whose destination is not vacated by
//    another deferred rule can never complete, so the batch stops here
// 4. Allocate a temporary path next to every deferred source
// 5. Stage A: move every deferred source to its temporary path
// 6. Stage B: move every temporary path to its destination
//
// Stage A always finishes for all rules before Stage B starts, which is what
// lets cycles such as a→b, b→a complete. Nothing is rolled back on failure;
// the returned report tells exactly where every file ended up.
//
// Execute is only meant to be called with rules that passed planner.Validate.
func (x *Executor) Execute(rules []planner.Rename) (*Report, error) {
	report := newReport(rules)

	if err := x.preflight(report); err != nil {
		return report, err
	}

	pending, err := x.applyDirect(report)
	if err != nil {
		return report, err
	}
	if len(pending) == 0 {
		return report, nil
	}

	x.logger.Info("found renaming conflicts, staging", zap.Int("count", len(pending)))
	if err := x.resolveConflicts(report, pending); err != nil {
		return report, err
	}

	return report, nil
}

func (x *Executor) resolve(path string) string {
	if x.root == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(x.root, path)
}

func (x *Executor) preflight(report *Report) error {
	var missing, broken int
	for i, o := range report.Outcomes {
		exists, err := x.fs.Exists(x.resolve(o.Rule.Source))
		if err != nil {
			report.fail(i, fmt.Errorf("%w: %w", ErrIO, err))
			broken++
			continue
		}
		if !exists {
			report.fail(i, fmt.Errorf("%w: %s", ErrSourceMissing, o.Rule.Source))
			missing++
		}
	}

	if broken > 0 {
		return fmt.Errorf("%w: failed to check %d of %d sources", ErrIO, broken, len(report.Outcomes))
	}
	if missing > 0 {
		return fmt.Errorf("%w: %d of %d sources do not exist", ErrSourceMissing, missing, len(report.Outcomes))
	}
	return nil
}

// applyDirect renames every rule whose destination is free and returns the
// indexes of the rules it had to defer.
func (x *Executor) applyDirect(report *Report) ([]int, error) {
	var pending []int
	for i := range report.Outcomes {
		rule := report.Outcomes[i].Rule
		src, dst := x.resolve(rule.Source), x.resolve(rule.Dest)

		exists, err := x.fs.Exists(dst)
		if err != nil {
			report.fail(i, fmt.Errorf("%w: %w", ErrIO, err))
			return nil, fmt.Errorf("failed to check %s: %w", rule.Dest, report.Outcomes[i].Err)
		}
		if exists {
			x.logger.Debug("destination exists, deferring", zap.String("source", rule.Source), zap.String("dest", rule.Dest))
			report.set(i, StatePending)
			pending = append(pending, i)
			continue
		}

		x.logger.Info("renaming", zap.String("source", rule.Source), zap.String("dest", rule.Dest))
		if err := x.fs.Rename(src, dst); err != nil {
			report.fail(i, fmt.Errorf("%w: %w", ErrIO, err))
			return nil, fmt.Errorf("failed to rename %s: %w", rule, report.Outcomes[i].Err)
		}
		report.set(i, StateDirectApplied)
	}
	return pending, nil
}

func (x *Executor) resolveConflicts(report *Report, pending []int) error {
	if err := x.checkConflicts(report, pending); err != nil {
		return err
	}

	temps, err := x.allocateAll(report, pending)
	if err != nil {
		return err
	}

	// Stage A: vacate every source before any destination is taken
	for _, i := range pending {
		rule := report.Outcomes[i].Rule
		x.logger.Info("staging", zap.String("source", rule.Source), zap.String("temp", temps[i]))
		if err := x.fs.Rename(x.resolve(rule.Source), temps[i]); err != nil {
			report.fail(i, fmt.Errorf("%w: %w", ErrIO, err))
			return x.stagingFailed(report, rule, err)
		}
		report.Outcomes[i].TempPath = temps[i]
		report.set(i, StateStaged)
	}

	// Stage B
	for _, i := range pending {
		rule := report.Outcomes[i].Rule
		dst := x.resolve(rule.Dest)

		exists, err := x.fs.Exists(dst)
		if err != nil {
			report.fail(i, fmt.Errorf("%w: %w", ErrIO, err))
			return x.stagingFailed(report, rule, err)
		}
		if exists {
			err := fmt.Errorf("%w: %s appeared while staging", ErrConflictUnresolved, rule.Dest)
			report.fail(i, err)
			return x.stagingFailed(report, rule, err)
		}

		x.logger.Info("renaming", zap.String("source", rule.Source), zap.String("dest", rule.Dest), zap.String("temp", temps[i]))
		if err := x.fs.Rename(temps[i], dst); err != nil {
			report.fail(i, fmt.Errorf("%w: %w", ErrIO, err))
			return x.stagingFailed(report, rule, err)
		}
		report.set(i, StateDone)
	}

	return nil
}

// checkConflicts fails every deferred rule whose destination is occupied by
// something this batch never moves away. Such a rule would otherwise have to
// overwrite a file, which edmv never does.
func (x *Executor) checkConflicts(report *Report, pending []int) error {
	vacated := make(map[string]bool, len(pending))
	for _, i := range pending {
		vacated[filepath.Clean(x.resolve(report.Outcomes[i].Rule.Source))] = true
	}

	var unresolved int
	for _, i := range pending {
		rule := report.Outcomes[i].Rule
		src, dst := x.resolve(rule.Source), x.resolve(rule.Dest)

		exists, err := x.fs.Exists(dst)
		if err != nil {
			report.fail(i, fmt.Errorf("%w: %w", ErrIO, err))
			return fmt.Errorf("failed to check %s: %w", rule.Dest, report.Outcomes[i].Err)
		}
		if !exists || vacated[filepath.Clean(dst)] || x.caseOnly(src, dst) {
			continue
		}

		report.fail(i, fmt.Errorf("%w: %s already exists and is not renamed by this batch", ErrConflictUnresolved, rule.Dest))
		unresolved++
	}

	if unresolved > 0 {
		return fmt.Errorf("%w: %d destination(s) already taken", ErrConflictUnresolved, unresolved)
	}
	return nil
}

// caseOnly reports whether src and dst differ only in letter case and name the
// same entry, as happens on case-insensitive filesystems. Hard links to the
// same file under unrelated names do not count.
func (x *Executor) caseOnly(src, dst string) bool {
	src, dst = filepath.Clean(src), filepath.Clean(dst)
	return src != dst && strings.EqualFold(src, dst) && x.sameFile(src, dst)
}

func (x *Executor) sameFile(a, b string) bool {
	ai, err := x.fs.Lstat(a)
	if err != nil {
		return false
	}
	bi, err := x.fs.Lstat(b)
	if err != nil {
		return false
	}
	return os.SameFile(ai, bi)
}

func (x *Executor) allocateAll(report *Report, pending []int) (map[int]string, error) {
	temps := make(map[int]string, len(pending))
	taken := make(map[string]bool, len(pending))
	for _, i := range pending {
		rule := report.Outcomes[i].Rule
		tmp, err := x.allocate(x.resolve(rule.Source), taken)
		if err != nil {
			report.fail(i, err)
			return nil, fmt.Errorf("failed to allocate temporary path for %s: %w", rule.Source, err)
		}
		temps[i] = tmp
		taken[tmp] = true
	}
	return temps, nil
}

// allocate finds a free temporary path next to path and checks that the
// directory accepts new entries, so an unwritable directory fails the batch
// before anything is staged.
func (x *Executor) allocate(path string, taken map[string]bool) (string, error) {
	for attempt := 0; attempt < maxTempAttempts; attempt++ {
		tmp, err := x.tempName(path)
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrConflictUnresolved, err)
		}
		if taken[tmp] {
			continue
		}

		exists, err := x.fs.Exists(tmp)
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrConflictUnresolved, err)
		}
		if exists {
			continue
		}

		if err := x.fs.WriteFile(tmp, nil, 0o600); err != nil {
			return "", fmt.Errorf("%w: directory of %s is not writable: %w", ErrConflictUnresolved, path, err)
		}
		if err := x.fs.Remove(tmp); err != nil {
			return "", fmt.Errorf("%w: %w", ErrIO, err)
		}
		return tmp, nil
	}
	return "", fmt.Errorf("%w: no free temporary name next to %s", ErrConflictUnresolved, path)
}

func (x *Executor) stagingFailed(report *Report, rule planner.Rename, cause error) error {
	stranded := report.Staged()
	for _, o := range stranded {
		x.logger.Error("file left under temporary name",
			zap.String("source", o.Rule.Source),
			zap.String("dest", o.Rule.Dest),
			zap.String("temp", o.TempPath),
		)
	}
	return fmt.Errorf("%w: %s: %d file(s) left under temporary names: %w", ErrStagingIncomplete, rule, len(stranded), cause)
}
