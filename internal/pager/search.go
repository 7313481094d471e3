package pager

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	stdio "io"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/TimelordUK/logpage/internal/catalog"
	mlessio "github.com/TimelordUK/logpage/internal/io"
	"github.com/TimelordUK/logpage/internal/logerr"
)

// SearchResult locates the page holding a match
type SearchResult struct {
	MatchedPageNumber int   `json:"matched_page_number"`
	Occurrences       []int `json:"occurrences"`
	TotalMatches      int   `json:"total_matches"`
	Page              *Page `json:"page"`
}

// matcher lower-cases the query and each line and tests for a substring.
// Not safe for concurrent use.
type matcher struct {
	lower  cases.Caser
	needle []byte
}

func newMatcher(query string) *matcher {
	lower := cases.Lower(language.Und)
	return &matcher{
		lower:  lower,
		needle: lower.Bytes([]byte(query)),
	}
}

func (m *matcher) match(line []byte) bool {
	return bytes.Contains(m.lower.Bytes(line), m.needle)
}

func checkSearchArgs(query string, pageSize int) (int, error) {
	if query == "" {
		return 0, fmt.Errorf("%w: query must not be empty", logerr.ErrInvalidArgument)
	}
	if pageSize < 0 {
		return 0, fmt.Errorf("%w: page size must be positive, got %d", logerr.ErrInvalidArgument, pageSize)
	}
	if pageSize == 0 {
		pageSize = DefaultPageSize
	}
	return pageSize, nil
}

// SearchFirst scans fileID from the top for query and returns the page of the
// first match. Occurrences only lists matches on that page. The scan stops
// once the reader's match cap is reached.
func (r *Reader) SearchFirst(fileID, query string, pageSize int) (*SearchResult, error) {
	e, err := r.catalog.Lookup(fileID)
	if err != nil {
		return nil, err
	}
	pageSize, err = checkSearchArgs(query, pageSize)
	if err != nil {
		return nil, err
	}

	m := newMatcher(query)
	foundPage := -1
	occurrences := []int{}
	total := 0

	err = scanLines(e, 0, func(lineNo int, line []byte) bool {
		if !m.match(line) {
			return true
		}
		total++
		page := lineNo / pageSize
		if foundPage < 0 {
			foundPage = page
		}
		if page == foundPage {
			occurrences = append(occurrences, lineNo)
		}
		return r.maxResults <= 0 || total < r.maxResults
	})
	if err != nil {
		return nil, err
	}

	if foundPage < 0 {
		return nil, fmt.Errorf("%w: %q in %s", logerr.ErrNoMatch, query, fileID)
	}

	r.log.Debug("search first",
		"file", fileID,
		"query", query,
		"page", foundPage+1,
		"matches", total,
	)

	return r.result(fileID, foundPage+1, pageSize, occurrences, total)
}

// SearchFromPage scans fileID for query starting at pageNumber and returns
// the first page at or after it that contains a match.
func (r *Reader) SearchFromPage(fileID, query string, pageNumber, pageSize int) (*SearchResult, error) {
	e, err := r.catalog.Lookup(fileID)
	if err != nil {
		return nil, err
	}
	pageSize, err = checkSearchArgs(query, pageSize)
	if err != nil {
		return nil, err
	}
	if pageNumber < 1 {
		return nil, fmt.Errorf("%w: page number must be >= 1, got %d", logerr.ErrInvalidArgument, pageNumber)
	}

	offset := pageStart(pageNumber, pageSize)
	if offset >= e.Index.LineCount() {
		return nil, fmt.Errorf("%w: page %d of %s is past the last line, file has %d lines",
			logerr.ErrOutOfRange, pageNumber, fileID, e.Index.LineCount())
	}

	m := newMatcher(query)
	foundPage := -1
	occurrences := []int{}

	err = scanLines(e, offset, func(lineNo int, line []byte) bool {
		page := lineNo / pageSize
		if foundPage >= 0 && page > foundPage {
			return false
		}
		if m.match(line) {
			if foundPage < 0 {
				foundPage = page
			}
			occurrences = append(occurrences, lineNo)
		}
		return true
	})
	if err != nil {
		return nil, err
	}

	if foundPage < 0 {
		return nil, fmt.Errorf("%w: %q in %s from page %d", logerr.ErrNoMatch, query, fileID, pageNumber)
	}

	r.log.Debug("search from page",
		"file", fileID,
		"query", query,
		"from", pageNumber,
		"page", foundPage+1,
	)

	return r.result(fileID, foundPage+1, pageSize, occurrences, len(occurrences))
}

func (r *Reader) result(fileID string, pageNumber, pageSize int, occurrences []int, total int) (*SearchResult, error) {
	page, err := r.Page(fileID, WithPageNumber(pageNumber), WithLimit(pageSize))
	if err != nil {
		return nil, err
	}
	return &SearchResult{
		MatchedPageNumber: pageNumber,
		Occurrences:       occurrences,
		TotalMatches:      total,
		Page:              page,
	}, nil
}

// scanLines streams lines from start to end of file, calling fn with each
// 0-based line number and its content without terminator. Scanning stops
// when fn returns false.
func scanLines(e *catalog.Entry, start int, fn func(lineNo int, line []byte) bool) error {
	if start < 0 || start >= e.Index.LineCount() {
		return nil
	}

	file, err := mlessio.OpenMapped(e.Path)
	if err != nil {
		return fmt.Errorf("open %s: %w", e.ID, err)
	}
	defer file.Close()

	br := bufio.NewReaderSize(file.SectionFrom(e.Index.Offset(start)), 64*1024)
	lineNo := start
	for {
		line, err := br.ReadSlice('\n')
		if errors.Is(err, bufio.ErrBufferFull) {
			// Long line: copy the buffered head before reading on
			head := append([]byte(nil), line...)
			rest, rerr := br.ReadBytes('\n')
			line = append(head, rest...)
			err = rerr
		}
		if len(line) > 0 {
			if !fn(lineNo, trimEOL(line)) {
				return nil
			}
			lineNo++
		}
		if err != nil {
			if errors.Is(err, stdio.EOF) {
				return nil
			}
			return fmt.Errorf("scan %s: %w", e.ID, err)
		}
	}
}
