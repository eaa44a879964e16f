// Package classify decides, per source file, which module system a
// JavaScript or TypeScript file belongs to. It looks at two independent
// axes: the file-name suffix (script dialect) and the syntax found in the
// parse tree (ECMAScript modules vs CommonJS require/exports usage).
//
// The analysis is purely structural. A local function literally named
// require, or a user object called exports, will be picked up as a
// CommonJS signal; that false positive is an accepted tradeoff for speed,
// and resolving bindings is deliberately out of scope.
package classify

import "fmt"

// SourceUnit is one file submitted for classification: a path (used for
// its suffix and in diagnostics) plus the full source text. Units are
// never mutated and nothing is persisted across batch runs.
type SourceUnit struct {
	Path   string
	Source []byte
}

// Verdict is the per-file module-format classification.
type Verdict int

const (
	// VerdictNone means neither ESM nor CommonJS syntax was found. The
	// file is format-agnostic (type-only, or side-effect-free script) and
	// contributes to no counter.
	VerdictNone Verdict = iota
	// VerdictESM means ESM syntax was found. Files mixing ESM syntax with
	// require/exports usage also land here: the ESM syntax wins and the
	// CommonJS usage is treated as legacy interop.
	VerdictESM
	// VerdictCJS means only CommonJS syntax was found.
	VerdictCJS
	// VerdictUnknown means the file could not be classified because its
	// parse or traversal failed.
	VerdictUnknown
)

// String returns the string representation of the verdict.
func (v Verdict) String() string {
	switch v {
	case VerdictNone:
		return "none"
	case VerdictESM:
		return "esm"
	case VerdictCJS:
		return "cjs"
	default:
		return "unknown"
	}
}

// Markers are the two raw signals accumulated during one file's tree
// walk. Both are monotonic: once a node sets a flag it stays set for the
// rest of the walk.
type Markers struct {
	HasESM bool
	HasCJS bool
}

// verdict folds the two signals into a Verdict. ESM wins ties.
func (m Markers) verdict() Verdict {
	switch {
	case m.HasESM:
		return VerdictESM
	case m.HasCJS:
		return VerdictCJS
	default:
		return VerdictNone
	}
}

// FileError records a per-file classification failure. Failures are
// contained to the file: the rest of the batch is still processed.
type FileError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e FileError) Unwrap() error {
	return e.Err
}

// FormatSummary aggregates per-file verdicts over a batch. Counts are
// mutually exclusive; files with VerdictNone contribute to no counter.
type FormatSummary struct {
	ESMCount     int
	CJSCount     int
	UnknownCount int

	// Failures lists the files behind UnknownCount, with the raw error.
	Failures []FileError
}
