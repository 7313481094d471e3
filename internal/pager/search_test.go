package pager

import (
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TimelordUK/logpage/internal/logerr"
)

// linesWithMatches builds n lines where the listed line numbers contain "Needle"
func linesWithMatches(n int, matches ...int) string {
	hit := make(map[int]bool, len(matches))
	for _, m := range matches {
		hit[m] = true
	}
	var b strings.Builder
	for i := 0; i < n; i++ {
		if hit[i] {
			fmt.Fprintf(&b, "%04d build step found a NeEdLe here\n", i)
		} else {
			fmt.Fprintf(&b, "%04d build step ok\n", i)
		}
	}
	return b.String()
}

func TestSearchFirst_SingleMatchOnSecondPage(t *testing.T) {
	r := newTestReader(t, map[string]string{"log1": linesWithMatches(250, 150)})

	res, err := r.SearchFirst("log1", "needle", 100)
	require.NoError(t, err)
	assert.Equal(t, 2, res.MatchedPageNumber)
	assert.Equal(t, []int{150}, res.Occurrences)
	assert.Equal(t, 1, res.TotalMatches)
	require.NotNil(t, res.Page)
	assert.Len(t, res.Page.Lines, 100)
	assert.Equal(t, 100, res.Page.Offset)
	assert.True(t, strings.HasPrefix(res.Page.Lines[0], "0100 "))
	assert.True(t, strings.HasPrefix(res.Page.Lines[99], "0199 "))

	_, err = r.SearchFromPage("log1", "needle", 3, 100)
	assert.ErrorIs(t, err, logerr.ErrNoMatch)
}

func TestSearchFirst_OccurrencesRestrictedToFirstPage(t *testing.T) {
	r := newTestReader(t, map[string]string{"log1": linesWithMatches(60, 12, 15, 19, 25, 41)})

	res, err := r.SearchFirst("log1", "NEEDLE", 10)
	require.NoError(t, err)
	assert.Equal(t, 2, res.MatchedPageNumber)
	assert.Equal(t, []int{12, 15, 19}, res.Occurrences)
	assert.Equal(t, 5, res.TotalMatches)
	assert.Equal(t, 10, res.Page.Offset)
	assert.Len(t, res.Page.Lines, 10)
}

func TestSearchFirst_MatchCap(t *testing.T) {
	var matches []int
	for i := 0; i < 40; i++ {
		matches = append(matches, i)
	}
	r := newTestReader(t, map[string]string{"log1": linesWithMatches(40, matches...)}, WithMaxResults(7))

	res, err := r.SearchFirst("log1", "needle", 5)
	require.NoError(t, err)
	assert.Equal(t, 7, res.TotalMatches)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, res.Occurrences)
	assert.Equal(t, 1, res.MatchedPageNumber)
}

func TestSearchFirst_NoMatch(t *testing.T) {
	r := newTestReader(t, map[string]string{"log1": linesWithMatches(30)})

	_, err := r.SearchFirst("log1", "needle", 10)
	assert.ErrorIs(t, err, logerr.ErrNoMatch)
	assert.NotErrorIs(t, err, logerr.ErrNotFound)
}

func TestSearchFirst_EmptyFile(t *testing.T) {
	r := newTestReader(t, map[string]string{"empty": ""})

	_, err := r.SearchFirst("empty", "anything", 10)
	assert.ErrorIs(t, err, logerr.ErrNoMatch)
}

func TestSearchFirst_Errors(t *testing.T) {
	r := newTestReader(t, map[string]string{"log1": "a\n"})

	_, err := r.SearchFirst("nope", "a", 10)
	assert.ErrorIs(t, err, logerr.ErrNotFound)

	_, err = r.SearchFirst("log1", "", 10)
	assert.ErrorIs(t, err, logerr.ErrInvalidArgument)

	_, err = r.SearchFirst("log1", "a", -1)
	assert.ErrorIs(t, err, logerr.ErrInvalidArgument)
}

func TestSearchFirst_DefaultPageSize(t *testing.T) {
	r := newTestReader(t, map[string]string{"log1": linesWithMatches(250, 220)})

	res, err := r.SearchFirst("log1", "needle", 0)
	require.NoError(t, err)
	assert.Equal(t, 3, res.MatchedPageNumber)
	assert.Equal(t, DefaultPageSize, res.Page.Limit)
	assert.Len(t, res.Page.Lines, 50)
}

func TestSearchFirst_LowerCaseMatchAndTerminators(t *testing.T) {
	content := "ok\r\nStraße ÉCHEC\r\nERROR: Disk Full\r\n"
	r := newTestReader(t, map[string]string{"log1": content})

	res, err := r.SearchFirst("log1", "error: disk", 10)
	require.NoError(t, err)
	assert.Equal(t, []int{2}, res.Occurrences)
	assert.Equal(t, []string{"ok", "Straße ÉCHEC", "ERROR: Disk Full"}, res.Page.Lines)

	_, err = r.SearchFirst("log1", "STRASSE", 10)
	require.ErrorIs(t, err, logerr.ErrNoMatch, "lower-casing does not expand ß")

	res, err = r.SearchFirst("log1", "straße échec", 10)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, res.Occurrences)

	// terminator is not part of the searchable text
	_, err = r.SearchFirst("log1", "full\r", 10)
	assert.ErrorIs(t, err, logerr.ErrNoMatch)
}

func TestSearchFromPage_WalksMatchingPages(t *testing.T) {
	r := newTestReader(t, map[string]string{"log1": linesWithMatches(100, 3, 7, 35, 38, 81)})

	first, err := r.SearchFirst("log1", "needle", 10)
	require.NoError(t, err)
	assert.Equal(t, 1, first.MatchedPageNumber)
	assert.Equal(t, []int{3, 7}, first.Occurrences)

	var pages []int
	var occurrences [][]int
	next := first.MatchedPageNumber + 1
	for {
		res, err := r.SearchFromPage("log1", "needle", next, 10)
		if err != nil {
			assert.ErrorIs(t, err, logerr.ErrNoMatch)
			break
		}
		pages = append(pages, res.MatchedPageNumber)
		occurrences = append(occurrences, res.Occurrences)
		assert.Equal(t, (res.MatchedPageNumber-1)*10, res.Page.Offset)
		next = res.MatchedPageNumber + 1
	}

	assert.Equal(t, []int{4, 9}, pages)
	assert.Equal(t, [][]int{{35, 38}, {81}}, occurrences)
}

func TestSearchFromPage_IncludesStartPage(t *testing.T) {
	r := newTestReader(t, map[string]string{"log1": linesWithMatches(30, 12, 25)})

	res, err := r.SearchFromPage("log1", "needle", 2, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, res.MatchedPageNumber)
	assert.Equal(t, []int{12}, res.Occurrences)
	assert.Equal(t, 1, res.TotalMatches)
}

func TestSearchFromPage_OutOfRange(t *testing.T) {
	r := newTestReader(t, map[string]string{"log1": linesWithMatches(250, 10), "empty": ""})

	_, err := r.SearchFromPage("log1", "needle", 4, 100)
	assert.ErrorIs(t, err, logerr.ErrOutOfRange)
	assert.NotErrorIs(t, err, logerr.ErrNoMatch)

	_, err = r.SearchFromPage("empty", "needle", 1, 100)
	assert.ErrorIs(t, err, logerr.ErrOutOfRange)
}

func TestSearchFromPage_HugePageNumberIsOutOfRange(t *testing.T) {
	r := newTestReader(t, map[string]string{"log1": linesWithMatches(250, 150)})

	for _, n := range []int{1<<62 + 1, math.MaxInt/100 + 2, math.MaxInt} {
		_, err := r.SearchFromPage("log1", "needle", n, 100)
		assert.ErrorIs(t, err, logerr.ErrOutOfRange, "page %d", n)
	}
}

func TestSearchFromPage_Errors(t *testing.T) {
	r := newTestReader(t, map[string]string{"log1": linesWithMatches(20, 1)})

	_, err := r.SearchFromPage("nope", "needle", 1, 10)
	assert.ErrorIs(t, err, logerr.ErrNotFound)

	_, err = r.SearchFromPage("log1", "needle", 0, 10)
	assert.ErrorIs(t, err, logerr.ErrInvalidArgument)

	_, err = r.SearchFromPage("log1", "", 1, 10)
	assert.ErrorIs(t, err, logerr.ErrInvalidArgument)
}

func TestScanLines_LongLines(t *testing.T) {
	long := strings.Repeat("z", 200*1024)
	content := "short\n" + long + "needle\nafter\n"
	r := newTestReader(t, map[string]string{"log1": content})

	res, err := r.SearchFirst("log1", "needle", 10)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, res.Occurrences)
	assert.Len(t, res.Page.Lines[1], len(long)+len("needle"))

	res, err = r.SearchFirst("log1", "after", 10)
	require.NoError(t, err)
	assert.Equal(t, []int{2}, res.Occurrences)
}

func TestSearch_ConcurrentReaders(t *testing.T) {
	r := newTestReader(t, map[string]string{"log1": linesWithMatches(500, 123, 456)})

	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		go func() {
			res, err := r.SearchFirst("log1", "needle", 100)
			if err == nil && res.MatchedPageNumber != 2 {
				err = fmt.Errorf("page %d", res.MatchedPageNumber)
			}
			errs <- err
		}()
	}
	for i := 0; i < 16; i++ {
		assert.NoError(t, <-errs)
	}
}
