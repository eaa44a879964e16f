package parser

import (
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"unsafe"

	ts "github.com/tree-sitter/go-tree-sitter"
)

// defaultPoolSize sizes parser pools from the CPU count: 2x cores,
// clamped to [4, 32]. Parsing goes through CGO, so a little headroom
// over the core count keeps concurrent callers from blocking.
func defaultPoolSize() int {
	size := runtime.NumCPU() * 2
	if size < 4 {
		size = 4
	}
	if size > 32 {
		size = 32
	}
	return size
}

// parserPool is a channel-based pool of tree-sitter parsers sharing one
// grammar. Parsers are created lazily up to maxSize; acquire blocks once
// the pool is saturated.
type parserPool struct {
	pool    chan *ts.Parser
	langPtr unsafe.Pointer
	lang    Language
	isTSX   bool
	maxSize int

	// mutex guards created, closed and parser creation
	mutex   sync.Mutex
	created int
	closed  bool

	logger *slog.Logger
}

func newParserPool(lang Language, langPtr unsafe.Pointer, isTSX bool, maxSize int, logger *slog.Logger) *parserPool {
	return &parserPool{
		pool:    make(chan *ts.Parser, maxSize),
		langPtr: langPtr,
		lang:    lang,
		isTSX:   isTSX,
		maxSize: maxSize,
		logger:  logger,
	}
}

// acquire returns a pooled parser, creating one if the pool has headroom.
func (p *parserPool) acquire() (*ts.Parser, error) {
	select {
	case parser := <-p.pool:
		// A closed, drained channel yields nil.
		if parser == nil {
			return nil, fmt.Errorf("parser pool is closed")
		}
		return parser, nil
	default:
		return p.createOrWait()
	}
}

func (p *parserPool) createOrWait() (*ts.Parser, error) {
	p.mutex.Lock()
	if p.closed {
		p.mutex.Unlock()
		return nil, fmt.Errorf("parser pool is closed")
	}
	if p.created < p.maxSize {
		parser := ts.NewParser()
		if parser == nil {
			p.mutex.Unlock()
			return nil, fmt.Errorf("failed to create parser")
		}
		if err := parser.SetLanguage(ts.NewLanguage(p.langPtr)); err != nil {
			parser.Close()
			p.mutex.Unlock()
			return nil, fmt.Errorf("failed to set language: %w", err)
		}
		p.created++
		p.mutex.Unlock()
		return parser, nil
	}
	p.mutex.Unlock()

	// Saturated: wait for a release.
	parser := <-p.pool
	if parser == nil {
		return nil, fmt.Errorf("parser pool is closed")
	}
	return parser, nil
}

// release returns a parser to the pool for reuse. A parser released
// after close is closed instead of re-pooled.
func (p *parserPool) release(parser *ts.Parser) {
	if parser == nil {
		return
	}
	p.mutex.Lock()
	defer p.mutex.Unlock()
	if p.closed {
		parser.Close()
		return
	}
	select {
	case p.pool <- parser:
	default:
		// Pool full; close the excess parser rather than leak it.
		parser.Close()
		p.logger.Warn("parser pool full, closing excess parser",
			"language", p.lang.String())
	}
}

// close drains the pool and closes every parser. The pool is unusable
// afterwards.
func (p *parserPool) close() {
	p.mutex.Lock()
	p.closed = true
	close(p.pool)
	p.mutex.Unlock()

	for parser := range p.pool {
		if parser != nil {
			parser.Close()
		}
	}
}
