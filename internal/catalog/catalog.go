// Package catalog holds the set of servable log files and their line
// indexes. A Catalog is built once at startup and is read-only afterwards,
// so it can be shared between concurrent requests without locking.
package catalog

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/TimelordUK/logpage/internal/config"
	"github.com/TimelordUK/logpage/internal/index"
	"github.com/TimelordUK/logpage/internal/logerr"
)

// Entry is a registered log file
type Entry struct {
	ID    string
	Path  string
	Index *index.LineIndex
}

// Catalog maps file ids to indexed log files, in registration order
type Catalog struct {
	entries map[string]*Entry
	order   []string
}

// New indexes each source in order. Sources whose file does not exist are
// logged and left out; any other indexing failure is returned.
func New(sources []config.LogSource, log *slog.Logger) (*Catalog, error) {
	c := &Catalog{
		entries: make(map[string]*Entry, len(sources)),
	}

	for _, src := range sources {
		if _, dup := c.entries[src.ID]; dup {
			return nil, fmt.Errorf("log %q registered twice", src.ID)
		}

		path, err := filepath.Abs(src.Path)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", src.Path, err)
		}

		idx, err := index.Build(path)
		if err != nil {
			if errors.Is(err, logerr.ErrNotFound) {
				log.Warn("log file missing, skipping", "id", src.ID, "path", path)
				continue
			}
			return nil, fmt.Errorf("index %s (%s): %w", src.ID, path, err)
		}

		log.Info("indexed log file",
			"id", src.ID,
			"path", path,
			"lines", idx.LineCount(),
			"bytes", idx.Size(),
		)

		c.entries[src.ID] = &Entry{ID: src.ID, Path: path, Index: idx}
		c.order = append(c.order, src.ID)
	}

	return c, nil
}

// Lookup returns the entry for id
func (c *Catalog) Lookup(id string) (*Entry, error) {
	e, ok := c.entries[id]
	if !ok {
		return nil, fmt.Errorf("%w: file %s", logerr.ErrNotFound, id)
	}
	return e, nil
}

// IDs lists servable file ids in registration order
func (c *Catalog) IDs() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Len returns the number of servable files
func (c *Catalog) Len() int {
	return len(c.order)
}
