package parser

import (
	"path/filepath"
	"strings"
)

// Language selects the tree-sitter grammar used to parse a source file.
type Language int

const (
	// LanguageTypeScript covers .ts, .mts, .cts and .tsx files.
	LanguageTypeScript Language = iota
	// LanguageJavaScript covers .js, .mjs, .cjs and .jsx files.
	LanguageJavaScript
	// LanguageUnknown means the file suffix is not parseable by this tool.
	LanguageUnknown
)

// String returns the string representation of the language.
func (l Language) String() string {
	switch l {
	case LanguageTypeScript:
		return "typescript"
	case LanguageJavaScript:
		return "javascript"
	default:
		return "unknown"
	}
}

// DetectLanguage picks the grammar for a file path from its suffix.
// Returns LanguageUnknown for unrecognized suffixes.
func DetectLanguage(filePath string) Language {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".ts", ".mts", ".cts", ".tsx":
		return LanguageTypeScript
	case ".js", ".jsx", ".mjs", ".cjs":
		return LanguageJavaScript
	default:
		return LanguageUnknown
	}
}

// NeedsTSX reports whether the file requires the TSX grammar variant.
// Only .tsx needs it; .jsx is accepted by the JavaScript grammar natively.
func NeedsTSX(filePath string) bool {
	return strings.ToLower(filepath.Ext(filePath)) == ".tsx"
}
