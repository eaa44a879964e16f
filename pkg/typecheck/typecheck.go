// Package typecheck is a thin pass-through to an external type-checking
// engine. It owns no checking logic of its own: it hands the batch to
// the engine, collects the diagnostics, and re-emits them.
package typecheck

import (
	"context"
	"fmt"
	"time"
)

// Diagnostic is one type error reported by the engine, normalized from
// its native output format.
type Diagnostic struct {
	File    string `json:"file"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// String formats the diagnostic the way the TypeScript compiler prints
// it, so downstream tooling that greps compiler output keeps working.
func (d Diagnostic) String() string {
	if d.File == "" {
		return fmt.Sprintf("error %s: %s", d.Code, d.Message)
	}
	return fmt.Sprintf("%s(%d,%d): error %s: %s", d.File, d.Line, d.Column, d.Code, d.Message)
}

// Result is the outcome of one engine run. Zero diagnostics means the
// batch type-checked cleanly.
type Result struct {
	Diagnostics []Diagnostic
	Duration    time.Duration
}

// Options configures an engine run. Everything except the fields read by
// the engine constructor is forwarded opaquely to the external checker.
type Options struct {
	// CompilerPath is the executable to invoke. Empty means "tsc" from
	// PATH.
	CompilerPath string `yaml:"compiler_path"`

	// CompilerArgs are extra flags forwarded verbatim, e.g.
	// --strict or --target es2022.
	CompilerArgs []string `yaml:"compiler_args"`
}

// Engine checks a batch of files and returns their diagnostics.
//
// An error return means the engine itself could not run or could not
// reach an input file; diagnostics are not errors. Implementations must
// report diagnostics for the whole batch, not stop at the first file.
type Engine interface {
	Check(ctx context.Context, files []string, opts Options) (*Result, error)
}
