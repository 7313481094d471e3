// Package pager serves pages of lines and keyword searches over the log
// files held in a catalog. Every call opens its own mapping of the file and
// keeps its scan state local, so a Reader is safe for concurrent use.
package pager

import (
	"bytes"
	"fmt"
	"log/slog"
	"math"

	"github.com/TimelordUK/logpage/internal/catalog"
	"github.com/TimelordUK/logpage/internal/index"
	mlessio "github.com/TimelordUK/logpage/internal/io"
	"github.com/TimelordUK/logpage/internal/logerr"
)

const (
	// DefaultPageSize is the page length used when a caller does not pick one.
	DefaultPageSize = 100

	// DefaultMaxResults caps how many matches a first-match search counts.
	DefaultMaxResults = 100
)

// Page is a slice of a file's lines plus pagination metadata
type Page struct {
	FileID     string   `json:"file"`
	Offset     int      `json:"offset"`
	Limit      int      `json:"limit"`
	Lines      []string `json:"lines"`
	TotalLines int      `json:"total_lines"`
	TotalPages int      `json:"total_pages"`
}

// Reader answers page and search requests against a catalog
type Reader struct {
	catalog    *catalog.Catalog
	maxResults int
	log        *slog.Logger
}

// Option configures a Reader
type Option func(*Reader)

// WithMaxResults sets the match cap for SearchFirst. Values <= 0 disable it.
func WithMaxResults(n int) Option {
	return func(r *Reader) { r.maxResults = n }
}

// WithLogger sets the logger used for debug tracing
func WithLogger(log *slog.Logger) Option {
	return func(r *Reader) { r.log = log }
}

// NewReader creates a reader over c
func NewReader(c *catalog.Catalog, opts ...Option) *Reader {
	r := &Reader{
		catalog:    c,
		maxResults: DefaultMaxResults,
		log:        slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Files lists the servable file ids in registration order
func (r *Reader) Files() []string {
	return r.catalog.IDs()
}

// FileCount returns the number of servable files
func (r *Reader) FileCount() int {
	return r.catalog.Len()
}

// TotalLines returns the line count of a file
func (r *Reader) TotalLines(fileID string) (int, error) {
	e, err := r.catalog.Lookup(fileID)
	if err != nil {
		return 0, err
	}
	return e.Index.LineCount(), nil
}

// Path returns the absolute path a file id was indexed from
func (r *Reader) Path(fileID string) (string, error) {
	e, err := r.catalog.Lookup(fileID)
	if err != nil {
		return "", err
	}
	return e.Path, nil
}

type pageQuery struct {
	limit      int
	offset     int
	pageNumber int
	hasPage    bool
}

// PageOption selects which lines a page read returns
type PageOption func(*pageQuery)

// WithLimit sets the maximum number of lines (default DefaultPageSize)
func WithLimit(n int) PageOption {
	return func(q *pageQuery) { q.limit = n }
}

// WithOffset starts the page at a 0-based line number
func WithOffset(n int) PageOption {
	return func(q *pageQuery) { q.offset = n }
}

// WithPageNumber starts the page at (n-1)*limit. A non-zero offset takes
// precedence over the page number.
func WithPageNumber(n int) PageOption {
	return func(q *pageQuery) {
		q.pageNumber = n
		q.hasPage = true
	}
}

// Page reads up to limit lines of fileID. An offset past the end of the file
// yields an empty page rather than an error.
func (r *Reader) Page(fileID string, opts ...PageOption) (*Page, error) {
	e, err := r.catalog.Lookup(fileID)
	if err != nil {
		return nil, err
	}

	q := pageQuery{limit: DefaultPageSize}
	for _, opt := range opts {
		opt(&q)
	}

	if q.hasPage && q.pageNumber < 1 {
		return nil, fmt.Errorf("%w: page number must be >= 1, got %d", logerr.ErrInvalidArgument, q.pageNumber)
	}

	offset := q.offset
	if q.hasPage && offset == 0 {
		offset = pageStart(q.pageNumber, q.limit)
	}

	lines, err := readLines(e, offset, q.limit)
	if err != nil {
		return nil, err
	}

	total := e.Index.LineCount()
	return &Page{
		FileID:     fileID,
		Offset:     offset,
		Limit:      q.limit,
		Lines:      lines,
		TotalLines: total,
		TotalPages: totalPages(total, q.limit),
	}, nil
}

// Lines is Page without the pagination metadata
func (r *Reader) Lines(fileID string, opts ...PageOption) ([]string, error) {
	p, err := r.Page(fileID, opts...)
	if err != nil {
		return nil, err
	}
	return p.Lines, nil
}

// pageStart is the 0-based first line of a 1-based page. Pages whose start
// does not fit in an int saturate to math.MaxInt, which is past any file.
func pageStart(pageNumber, size int) int {
	if size <= 0 || pageNumber <= 1 {
		return 0
	}
	if pageNumber-1 > math.MaxInt/size {
		return math.MaxInt
	}
	return (pageNumber - 1) * size
}

// totalPages is ceil(lines/limit); a non-positive limit counts as one page
func totalPages(lines, limit int) int {
	if limit <= 0 {
		return 1
	}
	if lines == 0 {
		return 0
	}
	return (lines-1)/limit + 1
}

// readLines reads lines [offset, offset+limit) with one ranged read and
// splits them on the index boundaries
func readLines(e *catalog.Entry, offset, limit int) ([]string, error) {
	count := e.Index.LineCount()
	if limit <= 0 || offset < 0 || offset >= count {
		return []string{}, nil
	}

	end := offset + limit
	if end > count || end < offset {
		end = count
	}

	file, err := mlessio.OpenMapped(e.Path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", e.ID, err)
	}
	defer file.Close()

	return splitLines(file, e.Index, offset, end)
}

func splitLines(file *mlessio.MappedFile, idx *index.LineIndex, start, end int) ([]string, error) {
	base := idx.Offset(start)
	data, err := file.ReadRange(base, idx.Offset(end))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", file.Path(), err)
	}
	if int64(len(data)) != idx.Offset(end)-base {
		return nil, fmt.Errorf("%s changed size since it was indexed", file.Path())
	}

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		line := data[idx.Offset(i)-base : idx.Offset(i+1)-base]
		lines = append(lines, string(trimEOL(line)))
	}
	return lines, nil
}

// trimEOL strips one trailing "\n" or "\r\n"
func trimEOL(line []byte) []byte {
	line = bytes.TrimSuffix(line, []byte("\n"))
	return bytes.TrimSuffix(line, []byte("\r"))
}
