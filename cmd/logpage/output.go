package main

import (
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/TimelordUK/logpage/internal/config"
	"github.com/TimelordUK/logpage/internal/pager"
	"github.com/TimelordUK/logpage/internal/render"
)

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// lineRenderer colours by log level and highlights a non-empty query when w
// is a terminal. Anything else gets plain text.
func lineRenderer(w io.Writer, cfg *config.Config, query string) render.Renderer {
	if !isTerminal(w) {
		return render.NewPlainRenderer()
	}
	var r render.Renderer = render.NewLogLevelRenderer(cfg)
	if query != "" {
		style := lipgloss.NewStyle().
			Background(lipgloss.Color(cfg.Theme.SearchMatch)).
			Foreground(lipgloss.Color("0"))
		r = render.NewMatchHighlighter(r, query, style)
	}
	return r
}

// printLines writes a page's lines. With numbers set each line carries its
// 1-based line number, and lines listed in marked get a "*" gutter.
func printLines(w io.Writer, page *pager.Page, r render.Renderer, numbers bool, marked []int) {
	width := len(fmt.Sprint(page.TotalLines))
	for i, line := range page.Lines {
		lineNo := page.Offset + i
		if numbers {
			mark := " "
			if slices.Contains(marked, lineNo) {
				mark = "*"
			}
			fmt.Fprintf(w, "%s%*d  %s\n", mark, width, lineNo+1, r.Render(line))
			continue
		}
		fmt.Fprintln(w, r.Render(line))
	}
}
