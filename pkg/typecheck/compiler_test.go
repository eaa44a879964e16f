package typecheck

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o644)
}

func TestParseDiagnostics(t *testing.T) {
	output := "src/app.ts(12,5): error TS2322: Type 'string' is not assignable to type 'number'.\n" +
		"src/util.ts(3,1): error TS2304: Cannot find name 'fs'.\n" +
		"error TS5083: Cannot read file 'tsconfig.json'.\n" +
		"\n" +
		"Found 3 errors in 2 files.\n"

	diagnostics := parseDiagnostics(output)
	require.Len(t, diagnostics, 3)

	assert.Equal(t, Diagnostic{
		File:    "src/app.ts",
		Line:    12,
		Column:  5,
		Code:    "TS2322",
		Message: "Type 'string' is not assignable to type 'number'.",
	}, diagnostics[0])

	assert.Equal(t, "TS2304", diagnostics[1].Code)
	assert.Equal(t, "src/util.ts", diagnostics[1].File)

	// File-less compiler errors keep their code and message.
	assert.Equal(t, Diagnostic{Code: "TS5083", Message: "Cannot read file 'tsconfig.json'."}, diagnostics[2])
}

func TestParseDiagnostics_EmptyOutput(t *testing.T) {
	assert.Empty(t, parseDiagnostics(""))
	assert.Empty(t, parseDiagnostics("Files: 12\nCheck time: 0.5s\n"))
}

func TestDiagnosticString(t *testing.T) {
	d := Diagnostic{File: "x.ts", Line: 1, Column: 7, Code: "TS2322", Message: "bad type"}
	assert.Equal(t, "x.ts(1,7): error TS2322: bad type", d.String())

	bare := Diagnostic{Code: "TS5083", Message: "missing file"}
	assert.Equal(t, "error TS5083: missing file", bare.String())
}

func TestCompilerEngine_EmptyBatch(t *testing.T) {
	engine := NewCompilerEngine(nil)
	result, err := engine.Check(context.Background(), nil, Options{})
	require.NoError(t, err)
	assert.Empty(t, result.Diagnostics)
}

func TestCompilerEngine_MissingSourceFileIsSetupError(t *testing.T) {
	engine := NewCompilerEngine(nil)
	missing := filepath.Join(t.TempDir(), "no-such-file.ts")

	_, err := engine.Check(context.Background(), []string{missing}, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "source file unavailable")
}

func TestCompilerEngine_MissingCompilerIsError(t *testing.T) {
	engine := NewCompilerEngine(nil)

	dir := t.TempDir()
	file := filepath.Join(dir, "a.ts")
	require.NoError(t, writeFile(file, "export const a = 1;"))

	_, err := engine.Check(context.Background(), []string{file}, Options{
		CompilerPath: filepath.Join(dir, "definitely-not-tsc"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "could not run")
}
