package classify

import (
	"fmt"
	"log/slog"

	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/packlint/packlint/pkg/parser"
)

// Analyzer classifies source files by module format. It holds no state
// between invocations beyond the parser pools, so repeated runs over the
// same batch always produce identical summaries.
type Analyzer struct {
	parser *parser.Manager
	logger *slog.Logger
}

// NewAnalyzer creates an Analyzer on top of an existing parser Manager.
// The Manager's lifetime is the caller's responsibility.
func NewAnalyzer(m *parser.Manager, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{parser: m, logger: logger}
}

// InspectFile parses one unit and returns its verdict plus the raw marker
// signals. On parse or traversal failure the verdict is VerdictUnknown
// and the error carries the detail; the caller folds that into the
// batch's unknown bucket. The parse tree lives only for the duration of
// this call.
func (a *Analyzer) InspectFile(unit SourceUnit) (Verdict, Markers, error) {
	tree, err := a.parser.ParseFile(unit.Source, unit.Path)
	if err != nil {
		return VerdictUnknown, Markers{}, fmt.Errorf("parse: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return VerdictUnknown, Markers{}, fmt.Errorf("parse: malformed source")
	}

	markers, err := a.scan(root, unit.Source)
	if err != nil {
		return VerdictUnknown, Markers{}, err
	}
	return markers.verdict(), markers, nil
}

// scan runs the tree walk, converting any panic out of the traversal
// into an error so a single odd tree cannot take down the batch.
func (a *Analyzer) scan(root *ts.Node, source []byte) (markers Markers, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("traversal: %v", r)
		}
	}()
	markers = scanTree(root, source)
	return markers, nil
}

// AnalyzeBatch classifies every unit in order and folds the verdicts
// into a FormatSummary. Files are processed strictly sequentially; a
// failure on one file is recorded and the remaining files are still
// classified.
func (a *Analyzer) AnalyzeBatch(units []SourceUnit) FormatSummary {
	var summary FormatSummary

	for _, unit := range units {
		verdict, markers, err := a.InspectFile(unit)
		if err != nil {
			summary.UnknownCount++
			summary.Failures = append(summary.Failures, FileError{Path: unit.Path, Err: err})
			a.logger.Warn("could not classify file",
				"file", unit.Path,
				"error", err)
			continue
		}

		a.logger.Debug("classified file",
			"file", unit.Path,
			"verdict", verdict.String(),
			"esm_marker", markers.HasESM,
			"cjs_marker", markers.HasCJS)

		switch verdict {
		case VerdictESM:
			summary.ESMCount++
		case VerdictCJS:
			summary.CJSCount++
		}
		// VerdictNone contributes to no counter: the file is
		// format-agnostic, not an error.
	}

	return summary
}
