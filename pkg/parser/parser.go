package parser

import (
	"fmt"
	"log/slog"
	"sync"
	"unsafe"

	ts "github.com/tree-sitter/go-tree-sitter"
	ts_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	ts_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// poolKey uniquely identifies a parser pool (language + TSX variant).
type poolKey struct {
	lang  Language
	isTSX bool
}

// Manager owns tree-sitter parsers for the JavaScript and TypeScript
// grammars, with lazy pool creation and thread-safe concurrent access.
//
// Callers own returned Tree instances and must call tree.Close() after
// traversal; the Manager itself must be closed via Close().
//
// Example:
//
//	m := parser.NewManager(logger)
//	defer m.Close()
//
//	tree, err := m.Parse([]byte("export const a = 1;"), parser.LanguageTypeScript, false)
//	if err != nil {
//	    return err
//	}
//	defer tree.Close()
type Manager struct {
	pools map[poolKey]*parserPool
	mutex sync.RWMutex

	logger *slog.Logger

	stats struct {
		parsesCalled int
	}
}

// NewManager creates a Manager. The returned manager must be closed via
// Close() to free the underlying parsers.
func NewManager(logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		pools:  make(map[poolKey]*parserPool),
		logger: logger,
	}
}

// Parse parses source text with the given language grammar. The isTSX
// parameter is only meaningful for TypeScript and selects the TSX grammar.
//
// The returned Tree MUST be closed by the caller. A tree is returned even
// when the source is malformed; callers check RootNode().HasError() to
// decide how to treat partial trees.
func (m *Manager) Parse(source []byte, lang Language, isTSX bool) (*ts.Tree, error) {
	if lang == LanguageUnknown {
		return nil, fmt.Errorf("cannot parse unknown language")
	}

	m.mutex.Lock()
	m.stats.parsesCalled++
	m.mutex.Unlock()

	pool, err := m.getOrCreatePool(lang, isTSX)
	if err != nil {
		return nil, fmt.Errorf("failed to get pool for %s: %w", lang, err)
	}

	p, err := pool.acquire()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire parser: %w", err)
	}

	tree := p.Parse(source, nil)
	pool.release(p)

	if tree == nil {
		return nil, fmt.Errorf("parser returned nil tree")
	}
	return tree, nil
}

// ParseFile parses source text, detecting the grammar from the file path.
// The returned Tree MUST be closed by the caller.
func (m *Manager) ParseFile(source []byte, filePath string) (*ts.Tree, error) {
	lang := DetectLanguage(filePath)
	if lang == LanguageUnknown {
		return nil, fmt.Errorf("unsupported file extension: %s", filePath)
	}
	return m.Parse(source, lang, NeedsTSX(filePath))
}

// ParseCount reports the number of Parse calls served so far.
func (m *Manager) ParseCount() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return m.stats.parsesCalled
}

// Close releases all pooled parsers. The Manager cannot be used afterwards.
func (m *Manager) Close() error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for key, pool := range m.pools {
		if pool != nil {
			pool.close()
			m.logger.Debug("closed parser pool",
				"language", key.lang.String(),
				"isTSX", key.isTSX)
		}
	}
	m.pools = make(map[poolKey]*parserPool)
	return nil
}

// getOrCreatePool returns an existing parser pool or creates a new one,
// using double-checked locking.
func (m *Manager) getOrCreatePool(lang Language, isTSX bool) (*parserPool, error) {
	key := poolKey{lang: lang, isTSX: isTSX}

	m.mutex.RLock()
	pool, exists := m.pools[key]
	m.mutex.RUnlock()
	if exists {
		return pool, nil
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()
	if pool, exists = m.pools[key]; exists {
		return pool, nil
	}

	langPtr, err := grammarPointer(lang, isTSX)
	if err != nil {
		return nil, err
	}

	pool = newParserPool(lang, langPtr, isTSX, defaultPoolSize(), m.logger)
	m.pools[key] = pool
	return pool, nil
}

// grammarPointer returns the tree-sitter grammar pointer for a language.
func grammarPointer(lang Language, isTSX bool) (unsafe.Pointer, error) {
	switch lang {
	case LanguageTypeScript:
		if isTSX {
			return ts_typescript.LanguageTSX(), nil
		}
		return ts_typescript.LanguageTypescript(), nil
	case LanguageJavaScript:
		return ts_javascript.Language(), nil
	default:
		return nil, fmt.Errorf("unsupported language: %s", lang.String())
	}
}
