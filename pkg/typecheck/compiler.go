package typecheck

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// diagnosticLine matches tsc's machine-readable output, e.g.
// src/app.ts(12,5): error TS2322: Type 'string' is not assignable ...
var diagnosticLine = regexp.MustCompile(`^(.+)\((\d+),(\d+)\): error (TS\d+): (.*)$`)

// bareDiagnosticLine matches file-less compiler errors, e.g.
// error TS5083: Cannot read file 'tsconfig.json'.
var bareDiagnosticLine = regexp.MustCompile(`^error (TS\d+): (.*)$`)

// CompilerEngine runs the TypeScript compiler in --noEmit mode as the
// external type-checking engine.
type CompilerEngine struct {
	logger *slog.Logger
}

// NewCompilerEngine creates a CompilerEngine.
func NewCompilerEngine(logger *slog.Logger) *CompilerEngine {
	if logger == nil {
		logger = slog.Default()
	}
	return &CompilerEngine{logger: logger}
}

// Check invokes the compiler over the batch and parses its diagnostics.
//
// Input files are stat'd up front: a file the engine cannot reach is a
// setup failure, returned as an error, and is not folded into the
// diagnostic list. A non-zero compiler exit with parseable diagnostics
// is the normal "type errors found" outcome, not an error.
func (e *CompilerEngine) Check(ctx context.Context, files []string, opts Options) (*Result, error) {
	if len(files) == 0 {
		return &Result{}, nil
	}

	for _, file := range files {
		if _, err := os.Stat(file); err != nil {
			return nil, fmt.Errorf("source file unavailable: %w", err)
		}
	}

	compiler := opts.CompilerPath
	if compiler == "" {
		compiler = "tsc"
	}

	args := []string{"--noEmit", "--pretty", "false"}
	args = append(args, opts.CompilerArgs...)
	args = append(args, files...)

	e.logger.Debug("invoking type checker",
		"compiler", compiler,
		"files", len(files))

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, compiler, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	runErr := cmd.Run()
	elapsed := time.Since(start)

	diagnostics := parseDiagnostics(stdout.String())
	diagnostics = append(diagnostics, parseDiagnostics(stderr.String())...)

	if runErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(runErr, &exitErr) {
			// Compiler missing or not executable.
			return nil, fmt.Errorf("type checker could not run: %w", runErr)
		}
		if len(diagnostics) == 0 {
			return nil, fmt.Errorf("type checker exited %d with no diagnostics: %s",
				exitErr.ExitCode(), strings.TrimSpace(stderr.String()))
		}
	}

	return &Result{Diagnostics: diagnostics, Duration: elapsed}, nil
}

// parseDiagnostics extracts diagnostics from compiler output, one per
// line. Unrecognized lines (summaries, watch banners) are skipped.
func parseDiagnostics(output string) []Diagnostic {
	var diagnostics []Diagnostic
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		if m := diagnosticLine.FindStringSubmatch(line); m != nil {
			lineNo, _ := strconv.Atoi(m[2])
			colNo, _ := strconv.Atoi(m[3])
			diagnostics = append(diagnostics, Diagnostic{
				File:    m[1],
				Line:    lineNo,
				Column:  colNo,
				Code:    m[4],
				Message: m[5],
			})
			continue
		}
		if m := bareDiagnosticLine.FindStringSubmatch(line); m != nil {
			diagnostics = append(diagnostics, Diagnostic{Code: m[1], Message: m[2]})
		}
	}
	return diagnostics
}
