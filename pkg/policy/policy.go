// Package policy layers the lenient and fail-fast behaviors over the
// shared classifiers. The classifiers themselves only return flags and
// counts; whether a finding stops the build is decided here, and whether
// the process exits is decided by the caller inspecting the violations.
package policy

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/packlint/packlint/pkg/classify"
	"github.com/packlint/packlint/pkg/typecheck"
)

// Mode selects how check results are meant to be consumed.
type Mode int

const (
	// Lenient returns the raw flags and counts; the caller applies its
	// own policy.
	Lenient Mode = iota
	// FailFast means the caller intends to stop on any violation. The
	// checker still scans the full batch first so every warning is
	// reported before the caller exits.
	FailFast
)

// String returns the string representation of the mode.
func (m Mode) String() string {
	if m == FailFast {
		return "fail-fast"
	}
	return "lenient"
}

// ParseMode converts a config string to a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "lenient":
		return Lenient, nil
	case "fail-fast", "strict":
		return FailFast, nil
	default:
		return Lenient, fmt.Errorf("unknown mode %q (want lenient or fail-fast)", s)
	}
}

// Report is the lenient-mode result: the extension flags plus the two
// counts a packaging tool gates on. ESM counts are intentionally not
// exposed here; a pure-ESM batch is simply one where CJSCount and
// UnknownCount are both zero.
type Report struct {
	IsNone       bool `json:"isNone"`
	IsJsx        bool `json:"isJsx"`
	IsCjs        bool `json:"isCjs"`
	IsBoth       bool `json:"isBoth"`
	IsJs         bool `json:"isJs"`
	IsTs         bool `json:"isTs"`
	UnknownCount int  `json:"unknownCount"`
	CJSCount     int  `json:"cjsCount"`
}

// Violation is one failed check, with the warning line a strict caller
// prints before exiting non-zero.
type Violation struct {
	Check   string `json:"check"`
	Message string `json:"message"`
}

// Config controls one Check invocation.
type Config struct {
	Mode Mode

	// NoCheck skips the type-check pass entirely.
	NoCheck bool

	// TypeCheck configures the external type-checking engine. Forwarded
	// opaquely; only NoCheck is interpreted here.
	TypeCheck typecheck.Options
}

// Checker runs the extension, module-format and type-check passes over a
// batch. The three passes are independent views over the same input;
// none of them feeds the others.
type Checker struct {
	analyzer *classify.Analyzer
	engine   typecheck.Engine
	logger   *slog.Logger
}

// NewChecker creates a Checker. engine may be nil when type-checking is
// never wanted (equivalent to NoCheck always set).
func NewChecker(analyzer *classify.Analyzer, engine typecheck.Engine, logger *slog.Logger) *Checker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Checker{analyzer: analyzer, engine: engine, logger: logger}
}

// Check classifies the batch and returns the lenient report plus every
// violation found. The error return is reserved for type-check setup
// failures (engine unreachable, input file missing); classification
// problems are never errors here, they are counts and violations.
//
// Check itself never terminates the process. A FailFast caller prints
// the violation messages and exits; a Lenient caller keeps the report.
func (c *Checker) Check(ctx context.Context, units []classify.SourceUnit, cfg Config) (*Report, []Violation, error) {
	ext := classify.ClassifyExtensions(units)
	format := c.analyzer.AnalyzeBatch(units)

	report := &Report{
		IsNone:       ext.IsNone,
		IsJsx:        ext.IsJsx,
		IsCjs:        ext.IsCjs,
		IsBoth:       ext.IsBoth,
		IsJs:         ext.IsJs,
		IsTs:         ext.IsTs,
		UnknownCount: format.UnknownCount,
		CJSCount:     format.CJSCount,
	}

	violations := extensionViolations(ext)
	violations = append(violations, formatViolations(format)...)

	if !cfg.NoCheck && c.engine != nil {
		diagViolations, err := c.typeCheck(ctx, units, cfg.TypeCheck)
		if err != nil {
			return report, violations, err
		}
		violations = append(violations, diagViolations...)
	}

	c.logger.Info("batch checked",
		"files", len(units),
		"mode", cfg.Mode.String(),
		"cjs_count", format.CJSCount,
		"unknown_count", format.UnknownCount,
		"violations", len(violations))

	return report, violations, nil
}

// extensionViolations translates the homogeneity flags into the checks a
// pure-ESM packaging tool refuses to build under.
func extensionViolations(ext classify.ExtensionSummary) []Violation {
	var out []Violation
	if ext.IsNone {
		out = append(out, Violation{
			Check:   "extensions",
			Message: "batch contains files with unrecognized extensions; only .js, .mjs, .cjs, .jsx, .ts, .mts, .cts and .tsx are supported",
		})
	}
	if ext.IsCjs {
		out = append(out, Violation{
			Check:   "extensions",
			Message: "batch is entirely CommonJS-suffixed (.cjs/.cts); a pure-ESM dependency tree is required",
		})
	}
	if ext.IsBoth {
		out = append(out, Violation{
			Check:   "extensions",
			Message: "batch reports both all-JavaScript and all-TypeScript extensions",
		})
	}
	return out
}

// formatViolations gates on the module-format counters: any CommonJS
// file and any unclassifiable file fails a pure-ESM build.
func formatViolations(format classify.FormatSummary) []Violation {
	var out []Violation
	if format.CJSCount > 0 {
		out = append(out, Violation{
			Check:   "module-format",
			Message: fmt.Sprintf("%d file(s) use CommonJS module syntax; only ECMAScript modules are supported", format.CJSCount),
		})
	}
	if format.UnknownCount > 0 {
		msg := fmt.Sprintf("%d file(s) could not be classified", format.UnknownCount)
		for _, failure := range format.Failures {
			msg += fmt.Sprintf("\n  %s: %v", failure.Path, failure.Err)
		}
		out = append(out, Violation{Check: "module-format", Message: msg})
	}
	return out
}

// typeCheck runs the external engine over the batch paths and converts
// its diagnostics into violations. Engine setup failures (including a
// source file the engine cannot reach) surface as errors, not
// violations.
func (c *Checker) typeCheck(ctx context.Context, units []classify.SourceUnit, opts typecheck.Options) ([]Violation, error) {
	paths := make([]string, 0, len(units))
	for _, unit := range units {
		paths = append(paths, unit.Path)
	}

	result, err := c.engine.Check(ctx, paths, opts)
	if err != nil {
		return nil, fmt.Errorf("type-check: %w", err)
	}

	c.logger.Info("type-check completed",
		"files", len(paths),
		"diagnostics", len(result.Diagnostics),
		"duration", result.Duration)

	violations := make([]Violation, 0, len(result.Diagnostics))
	for _, diag := range result.Diagnostics {
		violations = append(violations, Violation{
			Check:   "type-check",
			Message: diag.String(),
		})
	}
	return violations, nil
}
