package policy

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/packlint/packlint/pkg/classify"
	"github.com/packlint/packlint/pkg/parser"
	"github.com/packlint/packlint/pkg/typecheck"
)

// stubEngine is a canned type-check engine for tests.
type stubEngine struct {
	result *typecheck.Result
	err    error

	called   bool
	gotFiles []string
}

func (s *stubEngine) Check(_ context.Context, files []string, _ typecheck.Options) (*typecheck.Result, error) {
	s.called = true
	s.gotFiles = files
	if s.err != nil {
		return nil, s.err
	}
	if s.result == nil {
		return &typecheck.Result{}, nil
	}
	return s.result, nil
}

func newTestChecker(t *testing.T, engine typecheck.Engine) *Checker {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))
	manager := parser.NewManager(logger)
	t.Cleanup(func() { manager.Close() })
	return NewChecker(classify.NewAnalyzer(manager, logger), engine, logger)
}

func violationChecks(violations []Violation) []string {
	out := make([]string, 0, len(violations))
	for _, v := range violations {
		out = append(out, v.Check)
	}
	return out
}

func TestCheck_LenientSingleESMFile(t *testing.T) {
	checker := newTestChecker(t, nil)

	report, violations, err := checker.Check(context.Background(),
		[]classify.SourceUnit{{Path: "x.ts", Source: []byte("export const a = 1;")}},
		Config{Mode: Lenient, NoCheck: true})

	require.NoError(t, err)
	assert.Equal(t, &Report{
		IsNone:       false,
		IsJsx:        false,
		IsCjs:        false,
		IsBoth:       false,
		IsJs:         false,
		IsTs:         true,
		UnknownCount: 0,
		CJSCount:     0,
	}, report)
	assert.Empty(t, violations)
}

func TestCheck_CommonJSBatchViolates(t *testing.T) {
	checker := newTestChecker(t, nil)

	report, violations, err := checker.Check(context.Background(),
		[]classify.SourceUnit{
			{Path: "a.js", Source: []byte("const x = require('x');")},
			{Path: "b.js", Source: []byte("export const b = 1;")},
		},
		Config{Mode: FailFast, NoCheck: true})

	require.NoError(t, err)
	assert.Equal(t, 1, report.CJSCount)
	assert.Contains(t, violationChecks(violations), "module-format")
}

func TestCheck_UnknownFileViolates(t *testing.T) {
	checker := newTestChecker(t, nil)

	report, violations, err := checker.Check(context.Background(),
		[]classify.SourceUnit{{Path: "broken.js", Source: []byte("const a = ;")}},
		Config{Mode: FailFast, NoCheck: true})

	require.NoError(t, err)
	assert.Equal(t, 1, report.UnknownCount)
	require.NotEmpty(t, violations)
	assert.Contains(t, violations[0].Message, "broken.js")
}

func TestCheck_ExtensionViolations(t *testing.T) {
	checker := newTestChecker(t, nil)

	t.Run("cjs suffix", func(t *testing.T) {
		report, violations, err := checker.Check(context.Background(),
			[]classify.SourceUnit{{Path: "a.cjs", Source: []byte("export const a = 1;")}},
			Config{Mode: FailFast, NoCheck: true})
		require.NoError(t, err)
		assert.True(t, report.IsCjs)
		assert.Contains(t, violationChecks(violations), "extensions")
	})

	t.Run("unrecognized suffix", func(t *testing.T) {
		report, violations, err := checker.Check(context.Background(),
			[]classify.SourceUnit{{Path: "a.txt", Source: []byte("hello")}},
			Config{Mode: FailFast, NoCheck: true})
		require.NoError(t, err)
		assert.True(t, report.IsNone)
		assert.Contains(t, violationChecks(violations), "extensions")
	})
}

// An empty batch satisfies the all-quantified extension flags
// vacuously, so IsCjs and IsBoth come back true and a strict run fails
// with extension violations even though no file was checked. Callers
// depend on the flags being defined this way, so the consequence is
// pinned here too.
func TestCheck_EmptyBatchFailFastViolates(t *testing.T) {
	checker := newTestChecker(t, nil)

	report, violations, err := checker.Check(context.Background(), nil,
		Config{Mode: FailFast, NoCheck: true})

	require.NoError(t, err)
	assert.True(t, report.IsCjs)
	assert.True(t, report.IsBoth)
	assert.False(t, report.IsNone)
	assert.Equal(t, []string{"extensions", "extensions"}, violationChecks(violations))
}

func TestCheck_NoCheckSkipsEngine(t *testing.T) {
	engine := &stubEngine{}
	checker := newTestChecker(t, engine)

	_, _, err := checker.Check(context.Background(),
		[]classify.SourceUnit{{Path: "x.ts", Source: []byte("export const a = 1;")}},
		Config{Mode: Lenient, NoCheck: true})

	require.NoError(t, err)
	assert.False(t, engine.called, "NoCheck must skip the engine entirely")
}

func TestCheck_TypeCheckDiagnosticsBecomeViolations(t *testing.T) {
	engine := &stubEngine{result: &typecheck.Result{
		Diagnostics: []typecheck.Diagnostic{
			{File: "x.ts", Line: 1, Column: 7, Code: "TS2322", Message: "Type 'string' is not assignable to type 'number'."},
		},
	}}
	checker := newTestChecker(t, engine)

	_, violations, err := checker.Check(context.Background(),
		[]classify.SourceUnit{{Path: "x.ts", Source: []byte("export const a = 1;")}},
		Config{Mode: FailFast})

	require.NoError(t, err)
	assert.True(t, engine.called)
	assert.Equal(t, []string{"x.ts"}, engine.gotFiles)
	require.Len(t, violations, 1)
	assert.Equal(t, "type-check", violations[0].Check)
	assert.Contains(t, violations[0].Message, "TS2322")
}

func TestCheck_TypeCheckSetupFailureIsError(t *testing.T) {
	engine := &stubEngine{err: errors.New("source file unavailable")}
	checker := newTestChecker(t, engine)

	report, _, err := checker.Check(context.Background(),
		[]classify.SourceUnit{{Path: "x.ts", Source: []byte("export const a = 1;")}},
		Config{Mode: FailFast})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "type-check")
	assert.NotNil(t, report, "classification results are still returned")
}

func TestParseMode(t *testing.T) {
	for input, want := range map[string]Mode{
		"":          Lenient,
		"lenient":   Lenient,
		"fail-fast": FailFast,
		"strict":    FailFast,
	} {
		got, err := ParseMode(input)
		require.NoError(t, err)
		assert.Equal(t, want, got, "input %q", input)
	}

	_, err := ParseMode("bogus")
	assert.Error(t, err)
}
