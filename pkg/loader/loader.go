// Package loader reads batch file contents for the CLI and watch modes.
// Files are memory-mapped when possible, with a plain read fallback, and
// kept in an LRU-bounded cache so repeated checks over the same tree
// (watch mode) do not re-read unchanged files from disk.
//
// The classifiers never touch this package: they operate on in-memory
// (path, text) pairs only.
package loader

import (
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/edsrzf/mmap-go"
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultMaxEntries bounds the content cache. A batch for a packaging
// run is typically a few hundred files; 4096 leaves room for large trees
// without letting watch mode hold a whole monorepo mapped.
const DefaultMaxEntries = 4096

// entry is one cached file. Either data (a live mapping backed by file)
// or fallback (heap copy when mmap failed) is set, never both.
type entry struct {
	data     mmap.MMap
	file     *os.File
	fallback []byte
}

func (e *entry) bytes() []byte {
	if e.fallback != nil {
		return e.fallback
	}
	return e.data
}

// release unmaps and closes the entry. Called on eviction and on Close.
func (e *entry) release(logger *slog.Logger, path string) {
	if e.data != nil {
		if err := e.data.Unmap(); err != nil {
			logger.Warn("failed to unmap file", "file", path, "error", err)
		}
	}
	if e.file != nil {
		if err := e.file.Close(); err != nil {
			logger.Warn("failed to close file", "file", path, "error", err)
		}
	}
}

// Stats are cumulative loader metrics.
type Stats struct {
	Hits         int64
	Misses       int64
	MmapFailures int64
}

// Loader loads file contents with an LRU-bounded mmap cache.
// Safe for concurrent use.
type Loader struct {
	cache  *lru.Cache[string, *entry]
	logger *slog.Logger

	mu    sync.Mutex
	stats Stats
}

// New creates a Loader. maxEntries <= 0 selects DefaultMaxEntries.
func New(maxEntries int, logger *slog.Logger) (*Loader, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}

	l := &Loader{logger: logger}
	cache, err := lru.NewWithEvict[string, *entry](maxEntries, func(path string, e *entry) {
		e.release(logger, path)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create content cache: %w", err)
	}
	l.cache = cache
	return l, nil
}

// Load returns the content of a file, from cache when present. The
// returned slice is a copy: the mapping never leaves the cache, so
// eviction of the entry cannot invalidate content a caller still
// holds.
func (l *Loader) Load(path string) ([]byte, error) {
	if e, ok := l.cache.Get(path); ok {
		l.record(func(s *Stats) { s.Hits++ })
		return append([]byte(nil), e.bytes()...), nil
	}
	l.record(func(s *Stats) { s.Misses++ })

	e, err := l.open(path)
	if err != nil {
		return nil, err
	}
	l.cache.Add(path, e)
	return append([]byte(nil), e.bytes()...), nil
}

// Invalidate drops a path from the cache, releasing its mapping. Watch
// mode calls this when a file changes so the next Load re-reads it.
func (l *Loader) Invalidate(path string) {
	l.cache.Remove(path)
}

// Len returns the number of cached entries.
func (l *Loader) Len() int {
	return l.cache.Len()
}

// Stats returns a snapshot of the loader metrics.
func (l *Loader) Stats() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stats
}

// Close releases every cached mapping. The Loader stays usable but
// empty afterwards.
func (l *Loader) Close() {
	l.cache.Purge()
}

// open maps a file read-only, falling back to os.ReadFile when the
// mapping fails (exotic filesystems, zero-length files).
func (l *Loader) open(path string) (*entry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %q: %w", path, err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to stat %q: %w", path, err)
	}

	// Zero-length files cannot be mapped.
	if info.Size() == 0 {
		file.Close()
		return &entry{fallback: []byte{}}, nil
	}

	data, err := mmap.Map(file, mmap.RDONLY, 0)
	if err != nil {
		l.logger.Warn("mmap failed, using fallback read",
			"file", path,
			"error", err)
		l.record(func(s *Stats) { s.MmapFailures++ })
		file.Close()

		content, readErr := os.ReadFile(path)
		if readErr != nil {
			return nil, fmt.Errorf("failed to read %q: %w", path, readErr)
		}
		return &entry{fallback: content}, nil
	}

	return &entry{data: data, file: file}, nil
}

func (l *Loader) record(update func(*Stats)) {
	l.mu.Lock()
	update(&l.stats)
	l.mu.Unlock()
}
