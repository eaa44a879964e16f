package discover

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func relative(t *testing.T, root string, paths []string) []string {
	t.Helper()
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		rel, err := filepath.Rel(root, p)
		require.NoError(t, err)
		out = append(out, filepath.ToSlash(rel))
	}
	return out
}

func TestFiles_Defaults(t *testing.T) {
	root := makeTree(t, map[string]string{
		"src/a.ts":                  "export const a = 1;",
		"src/b.tsx":                 "export const B = () => <div />;",
		"lib/c.mjs":                 "export default 1;",
		"README.md":                 "# readme",
		"node_modules/dep/index.js": "module.exports = 1;",
		"dist/bundle.js":            "var x;",
	})

	files, err := Files(root, DefaultOptions(), nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"lib/c.mjs", "src/a.ts", "src/b.tsx"}, relative(t, root, files),
		"results are sorted, exclude node_modules/dist, skip non-source files")
}

func TestFiles_CustomInclude(t *testing.T) {
	root := makeTree(t, map[string]string{
		"src/a.ts": "export const a = 1;",
		"src/b.js": "export const b = 1;",
	})

	files, err := Files(root, Options{Include: []string{"**/*.ts"}}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"src/a.ts"}, relative(t, root, files))
}

func TestFiles_CustomExclude(t *testing.T) {
	root := makeTree(t, map[string]string{
		"src/a.ts":       "export const a = 1;",
		"src/gen/b.ts":   "export const b = 1;",
		"vendor/c.ts":    "export const c = 1;",
		"src/keep/d.mts": "export const d = 1;",
	})

	files, err := Files(root, Options{
		Exclude: []string{"**/gen/**", "vendor/**"},
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"src/a.ts", "src/keep/d.mts"}, relative(t, root, files))
}

func TestFiles_InvalidPattern(t *testing.T) {
	root := t.TempDir()

	_, err := Files(root, Options{Include: []string{"[unterminated"}}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid include pattern")

	_, err = Files(root, Options{Exclude: []string{"[unterminated"}}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid exclude pattern")
}

func TestFiles_EmptyTree(t *testing.T) {
	files, err := Files(t.TempDir(), DefaultOptions(), nil)
	require.NoError(t, err)
	assert.Empty(t, files)
}
