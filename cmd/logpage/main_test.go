package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TimelordUK/logpage/internal/logerr"
	"github.com/TimelordUK/logpage/internal/pager"
)

// writeBuildLog writes 250 numbered lines with "FAILED" on line 150.
func writeBuildLog(t *testing.T) string {
	t.Helper()
	var b strings.Builder
	for i := 0; i < 250; i++ {
		if i == 150 {
			fmt.Fprintf(&b, "step %d FAILED\n", i)
		} else {
			fmt.Fprintf(&b, "step %d ok\n", i)
		}
	}
	path := filepath.Join(t.TempDir(), "build.log")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))
	return path
}

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("LOGPAGE_ADDR", "")
	t.Setenv("LOGPAGE_LOG_LEVEL", "error")
	t.Setenv("LOGPAGE_LOG_FORMAT", "")

	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestFilesJSON(t *testing.T) {
	path := writeBuildLog(t)

	out, _, err := runCLI(t, "--log", "log1="+path, "files", "--json")
	require.NoError(t, err)

	var files []fileSummary
	require.NoError(t, json.Unmarshal([]byte(out), &files))
	require.Len(t, files, 1)
	assert.Equal(t, "log1", files[0].ID)
	assert.Equal(t, path, files[0].Path)
	assert.Equal(t, 250, files[0].TotalLines)
	assert.Equal(t, 3, files[0].TotalPages)
}

func TestFilesTable(t *testing.T) {
	path := writeBuildLog(t)

	out, _, err := runCLI(t, "-l", "log1="+path, "files")
	require.NoError(t, err)
	assert.Contains(t, out, "log1")
	assert.Contains(t, out, "250")
}

func TestFilesSkipsMissing(t *testing.T) {
	path := writeBuildLog(t)
	missing := filepath.Join(t.TempDir(), "gone.log")

	out, _, err := runCLI(t, "--log", "log1="+path, "--log", "log3="+missing, "files", "--json")
	require.NoError(t, err)

	var files []fileSummary
	require.NoError(t, json.Unmarshal([]byte(out), &files))
	require.Len(t, files, 1)
	assert.Equal(t, "log1", files[0].ID)
}

func TestPage(t *testing.T) {
	path := writeBuildLog(t)

	out, _, err := runCLI(t, "--log", "log1="+path, "page", "log1", "--page", "3", "--json")
	require.NoError(t, err)

	var page pager.Page
	require.NoError(t, json.Unmarshal([]byte(out), &page))
	assert.Equal(t, 200, page.Offset)
	assert.Len(t, page.Lines, 50)
	assert.Equal(t, "step 200 ok", page.Lines[0])
}

func TestPage_TextWithOffset(t *testing.T) {
	path := writeBuildLog(t)

	out, stderr, err := runCLI(t, "--log", "log1="+path, "page", "log1", "-o", "10", "-n", "2")
	require.NoError(t, err)
	assert.Equal(t, "step 10 ok\nstep 11 ok\n", out)
	assert.Contains(t, stderr, "of 250")
}

func TestPage_Numbers(t *testing.T) {
	path := writeBuildLog(t)

	out, _, err := runCLI(t, "--log", "log1="+path, "page", "log1", "-n", "1", "-N")
	require.NoError(t, err)
	assert.Equal(t, "   1  step 0 ok\n", out)
}

func TestPage_Errors(t *testing.T) {
	path := writeBuildLog(t)

	_, _, err := runCLI(t, "--log", "log1="+path, "page", "nope")
	assert.ErrorIs(t, err, logerr.ErrNotFound)

	_, _, err = runCLI(t, "--log", "log1="+path, "page", "log1", "--page", "0")
	assert.ErrorIs(t, err, logerr.ErrInvalidArgument)
}

func TestSearch(t *testing.T) {
	path := writeBuildLog(t)

	out, _, err := runCLI(t, "--log", "log1="+path, "search", "log1", "failed", "--json")
	require.NoError(t, err)

	var res pager.SearchResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, 2, res.MatchedPageNumber)
	assert.Equal(t, []int{150}, res.Occurrences)
}

func TestSearch_TextMarksMatch(t *testing.T) {
	path := writeBuildLog(t)

	out, stderr, err := runCLI(t, "--log", "log1="+path, "search", "log1", "FAILED", "--page-size", "10")
	require.NoError(t, err)
	assert.Contains(t, stderr, "match on page 16/25")
	assert.Contains(t, out, "*151  step 150 FAILED")
	assert.Contains(t, out, " 152  step 151 ok")
}

func TestSearch_FromPage(t *testing.T) {
	path := writeBuildLog(t)

	_, _, err := runCLI(t, "--log", "log1="+path, "search", "log1", "failed", "--from-page", "3")
	assert.ErrorIs(t, err, logerr.ErrNoMatch)

	_, _, err = runCLI(t, "--log", "log1="+path, "search", "log1", "failed", "--from-page", "4")
	assert.ErrorIs(t, err, logerr.ErrOutOfRange)

	out, _, err := runCLI(t, "--log", "log1="+path, "search", "log1", "failed", "--from-page", "1", "--json")
	require.NoError(t, err)
	var res pager.SearchResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, 2, res.MatchedPageNumber)
}

func TestInvalidLogFlag(t *testing.T) {
	_, _, err := runCLI(t, "--log", "no-equals-sign", "files")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "id=path")

	path := writeBuildLog(t)
	_, _, err = runCLI(t, "--log", "a="+path, "--log", "a="+path, "files")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate id")
}

func TestViewNeedsTerminal(t *testing.T) {
	path := writeBuildLog(t)

	_, _, err := runCLI(t, "--log", "log1="+path, "view", "log1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "interactive terminal")
}

func TestConfigShow(t *testing.T) {
	path := writeBuildLog(t)

	out, _, err := runCLI(t, "--log", "log1="+path, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "[server]")
	assert.Contains(t, out, "read_timeout = '30s'")
	assert.Contains(t, out, "id = 'log1'")
}

func TestConfigPath(t *testing.T) {
	out, _, err := runCLI(t, "config", "path")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(strings.TrimSpace(out), filepath.Join("logpage", "config.toml")))
}
