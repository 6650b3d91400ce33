package engine

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/danieljhkim/edmv/internal/editor"
	"github.com/danieljhkim/edmv/internal/fsops"
	"github.com/danieljhkim/edmv/internal/planner"
)

type fakeSelector struct {
	paths   []string
	err     error
	queries []string
}

func (s *fakeSelector) Select(query string) ([]string, error) {
	s.queries = append(s.queries, query)
	return s.paths, s.err
}

// scriptedEditor returns its outputs in order and records what it was given.
type scriptedEditor struct {
	outputs []string
	err     error
	inputs  []string
}

func (e *scriptedEditor) Edit(initial string) (string, error) {
	e.inputs = append(e.inputs, initial)
	if e.err != nil {
		return initial, e.err
	}
	if len(e.inputs) > len(e.outputs) {
		return "", fmt.Errorf("unexpected editor call %d", len(e.inputs))
	}
	return e.outputs[len(e.inputs)-1], nil
}

// scriptedPrompt answers confirmations in order and records the questions.
type scriptedPrompt struct {
	answers  []bool
	messages []string
}

func (p *scriptedPrompt) Confirm(message string, _ bool) (bool, error) {
	p.messages = append(p.messages, message)
	if len(p.messages) > len(p.answers) {
		return false, fmt.Errorf("unexpected prompt %q", message)
	}
	return p.answers[len(p.messages)-1], nil
}

type editFixture struct {
	fs       *fsops.AferoFS
	selector *fakeSelector
	editor   *scriptedEditor
	prompt   *scriptedPrompt
	engine   *Engine
}

func newEditFixture(t *testing.T, files ...string) *editFixture {
	t.Helper()
	f := &editFixture{
		fs:       newWorkFS(t, files...),
		selector: &fakeSelector{paths: files},
		editor:   &scriptedEditor{},
		prompt:   &scriptedPrompt{},
	}
	f.engine = New(f.fs, f.selector, f.editor, f.prompt, zaptest.NewLogger(t), testRoot)
	return f
}

func TestEdit_NoSelection(t *testing.T) {
	f := newEditFixture(t)
	f.selector.paths = nil

	result, err := f.engine.Edit(context.Background(), &EditRequest{Query: "*.jpg"})
	require.NoError(t, err)

	assert.Equal(t, StatusNoSelection, result.Status)
	assert.Equal(t, []string{"*.jpg"}, f.selector.queries)
	assert.Empty(t, f.editor.inputs, "editor should not open without paths")
}

func TestEdit_NoSelector(t *testing.T) {
	eng := New(newWorkFS(t), nil, &scriptedEditor{}, &scriptedPrompt{}, zaptest.NewLogger(t), testRoot)

	_, err := eng.Edit(context.Background(), &EditRequest{})
	assert.ErrorIs(t, err, ErrNoSelector)
}

func TestEdit_SelectorError(t *testing.T) {
	f := newEditFixture(t, "a")
	f.selector.err = errors.New("picker crashed")

	_, err := f.engine.Edit(context.Background(), &EditRequest{})
	assert.ErrorContains(t, err, "picker crashed")
}

func TestEdit_ExplicitPathsSkipSelector(t *testing.T) {
	f := newEditFixture(t, "a", "b")
	f.editor.outputs = []string{"a\nb\n"}

	result, err := f.engine.Edit(context.Background(), &EditRequest{Paths: []string{"a", "b"}})
	require.NoError(t, err)

	assert.Equal(t, StatusNoChanges, result.Status)
	assert.Empty(t, f.selector.queries)
	assert.Equal(t, []string{"a\nb"}, f.editor.inputs)
	assert.Empty(t, f.prompt.messages)
}

func TestEdit_InvalidEdit(t *testing.T) {
	f := newEditFixture(t, "a", "b")
	f.editor.outputs = []string{"a\n"}

	result, err := f.engine.Edit(context.Background(), &EditRequest{})
	require.NoError(t, err)

	assert.Equal(t, StatusInvalidEdit, result.Status)
	assert.ErrorIs(t, result.Problem, planner.ErrInputShape)
	assertContent(t, f.fs, "a", "a")
}

func TestEdit_Rejected(t *testing.T) {
	f := newEditFixture(t, "a", "b")
	f.editor.outputs = []string{"c\nc\n"}

	result, err := f.engine.Edit(context.Background(), &EditRequest{})
	require.ErrorIs(t, err, planner.ErrValidation)

	assert.Equal(t, StatusRejected, result.Status)
	assert.Len(t, result.Rules, 2)
	assertContent(t, f.fs, "a", "a")
	assertMissing(t, f.fs, "c")
}

func TestEdit_RetryAfterRejectedEdit(t *testing.T) {
	f := newEditFixture(t, "a", "b")
	f.editor.outputs = []string{"c\nc\n", "c\nd\n"}
	f.prompt.answers = []bool{true, true}

	result, err := f.engine.Edit(context.Background(), &EditRequest{Retry: true})
	require.NoError(t, err)

	assert.Equal(t, StatusApplied, result.Status)
	require.Len(t, f.editor.inputs, 2)
	assert.Equal(t, "c\nc\n", f.editor.inputs[1], "editor should reopen with the rejected text")
	assert.Contains(t, f.prompt.messages[0], "Edit again?")
	assert.Equal(t, "Apply 2 renames?", f.prompt.messages[1])
	assertContent(t, f.fs, "c", "a")
	assertContent(t, f.fs, "d", "b")
}

func TestEdit_RetryDeclined(t *testing.T) {
	f := newEditFixture(t, "a", "b")
	f.editor.outputs = []string{"a\n"}
	f.prompt.answers = []bool{false}

	result, err := f.engine.Edit(context.Background(), &EditRequest{Retry: true})
	require.NoError(t, err)

	assert.Equal(t, StatusInvalidEdit, result.Status)
	assert.Len(t, f.editor.inputs, 1)
}

func TestEdit_EditorAborted(t *testing.T) {
	f := newEditFixture(t, "a")
	f.editor.err = editor.ErrAborted

	result, err := f.engine.Edit(context.Background(), &EditRequest{})
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, result.Status)
}

func TestEdit_EditorFailure(t *testing.T) {
	f := newEditFixture(t, "a")
	f.editor.err = errors.New("no such program")

	_, err := f.engine.Edit(context.Background(), &EditRequest{})
	assert.ErrorContains(t, err, "no such program")
}

func TestEdit_ConfirmDeclined(t *testing.T) {
	f := newEditFixture(t, "a")
	f.editor.outputs = []string{"z\n"}
	f.prompt.answers = []bool{false}

	result, err := f.engine.Edit(context.Background(), &EditRequest{})
	require.NoError(t, err)

	assert.Equal(t, StatusCancelled, result.Status)
	assert.Equal(t, []string{"Apply 1 rename?"}, f.prompt.messages)
	assert.Nil(t, result.Report)
	assertContent(t, f.fs, "a", "a")
}

func TestEdit_DryRun(t *testing.T) {
	f := newEditFixture(t, "a", "b")
	f.editor.outputs = []string{"b\na\n"}

	var previewed []planner.Rename
	result, err := f.engine.Edit(context.Background(), &EditRequest{
		DryRun:  true,
		Preview: func(rules []planner.Rename) { previewed = rules },
	})
	require.NoError(t, err)

	assert.Equal(t, StatusDryRun, result.Status)
	assert.Equal(t, result.Rules, previewed)
	assert.Empty(t, f.prompt.messages)
	assertContent(t, f.fs, "a", "a")
}

func TestEdit_AssumeYesApplies(t *testing.T) {
	f := newEditFixture(t, "a", "b")
	f.editor.outputs = []string{"b\na\n"}

	result, err := f.engine.Edit(context.Background(), &EditRequest{AssumeYes: true})
	require.NoError(t, err)

	assert.Equal(t, StatusApplied, result.Status)
	assert.Empty(t, f.prompt.messages)
	require.NotNil(t, result.Report)
	assert.True(t, result.Report.OK())
	assertContent(t, f.fs, "a", "b")
	assertContent(t, f.fs, "b", "a")
	assertNoTempFiles(t, f.fs)
}

func TestEdit_ExecutionFailure(t *testing.T) {
	f := newEditFixture(t, "a", "b")
	require.NoError(t, f.fs.WriteFile("/work/c", []byte("c"), 0o644))
	f.editor.outputs = []string{"c\nb\n"}

	result, err := f.engine.Edit(context.Background(), &EditRequest{AssumeYes: true})
	require.ErrorIs(t, err, ErrConflictUnresolved)

	assert.Equal(t, StatusFailed, result.Status)
	require.NotNil(t, result.Report)
	assert.Len(t, result.Report.Failed(), 1)
}

func TestEdit_CancelledContext(t *testing.T) {
	f := newEditFixture(t, "a")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.engine.Edit(ctx, &EditRequest{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, f.editor.inputs)
}

func TestApply(t *testing.T) {
	tests := []struct {
		name       string
		oldListing string
		newListing string
		wantStatus Status
		wantErr    error
	}{
		{name: "swap", oldListing: "a\nb\n", newListing: "b\na\n", wantStatus: StatusApplied},
		{name: "no changes", oldListing: "a\nb\n", newListing: "a\nb", wantStatus: StatusNoChanges},
		{name: "line count mismatch", oldListing: "a\nb\n", newListing: "b\n", wantStatus: StatusInvalidEdit},
		{name: "duplicate destination", oldListing: "a\nb\n", newListing: "c\nc\n", wantStatus: StatusRejected, wantErr: planner.ErrValidation},
		{name: "missing source", oldListing: "a\nm\n", newListing: "x\ny\n", wantStatus: StatusFailed, wantErr: ErrSourceMissing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newEditFixture(t, "a", "b")
			require.NoError(t, f.fs.WriteFile("/lists/old", []byte(tt.oldListing), 0o644))
			require.NoError(t, f.fs.WriteFile("/lists/new", []byte(tt.newListing), 0o644))

			result, err := f.engine.Apply(context.Background(), &ApplyRequest{
				OldListing: "/lists/old",
				NewListing: "/lists/new",
				AssumeYes:  true,
			})
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}

			assert.Equal(t, tt.wantStatus, result.Status)
			assert.Equal(t, planner.SplitLines(tt.oldListing), result.Paths)
			assert.Empty(t, f.editor.inputs)
		})
	}
}

func TestApply_MissingListing(t *testing.T) {
	f := newEditFixture(t, "a")

	_, err := f.engine.Apply(context.Background(), &ApplyRequest{
		OldListing: "/lists/old",
		NewListing: "/lists/new",
	})
	assert.ErrorContains(t, err, "/lists/old")
}

func TestApply_Confirms(t *testing.T) {
	f := newEditFixture(t, "a")
	f.prompt.answers = []bool{true}
	require.NoError(t, f.fs.WriteFile("/lists/old", []byte("a\n"), 0o644))
	require.NoError(t, f.fs.WriteFile("/lists/new", []byte("z\n"), 0o644))

	result, err := f.engine.Apply(context.Background(), &ApplyRequest{OldListing: "/lists/old", NewListing: "/lists/new"})
	require.NoError(t, err)

	assert.Equal(t, StatusApplied, result.Status)
	assert.Equal(t, []string{"Apply 1 rename?"}, f.prompt.messages)
	assertContent(t, f.fs, "z", "a")
}
