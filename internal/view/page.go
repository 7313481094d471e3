package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/TimelordUK/logpage/internal/pager"
	"github.com/TimelordUK/logpage/internal/render"
)

// PageView draws one pager.Page. It knows nothing about files or searches
// beyond the page it is handed and the lines to mark.
type PageView struct {
	renderer render.Renderer

	width  int
	height int

	lineNumberStyle lipgloss.Style
	markStyle       lipgloss.Style

	showLineNumbers bool

	// 0-based file line numbers to mark, usually search occurrences
	marked map[int]bool
}

// NewPageView creates a page view
func NewPageView(width, height int) *PageView {
	return &PageView{
		width:           width,
		height:          height,
		showLineNumbers: true,
		lineNumberStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		markStyle:       lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		renderer:        render.NewPlainRenderer(),
	}
}

// SetRenderer sets the line renderer
func (v *PageView) SetRenderer(r render.Renderer) {
	v.renderer = r
}

// SetSize updates view dimensions
func (v *PageView) SetSize(width, height int) {
	v.width = width
	v.height = height
}

// Height returns the number of text rows the view fills
func (v *PageView) Height() int {
	return v.height
}

// SetShowLineNumbers toggles line numbers
func (v *PageView) SetShowLineNumbers(show bool) {
	v.showLineNumbers = show
}

// SetLineNumberStyle sets the gutter style
func (v *PageView) SetLineNumberStyle(s lipgloss.Style) {
	v.lineNumberStyle = s
}

// SetMarkStyle sets the gutter style used for marked lines
func (v *PageView) SetMarkStyle(s lipgloss.Style) {
	v.markStyle = s
}

// SetMarked replaces the set of marked lines
func (v *PageView) SetMarked(lines []int) {
	if len(lines) == 0 {
		v.marked = nil
		return
	}
	v.marked = make(map[int]bool, len(lines))
	for _, l := range lines {
		v.marked[l] = true
	}
}

// Render returns the page content as a string, padded to the view height
func (v *PageView) Render(page *pager.Page) string {
	var builder strings.Builder
	rows := 0

	if page != nil {
		numWidth := len(fmt.Sprintf("%d", page.TotalLines))

		for i, line := range page.Lines {
			if rows > 0 {
				builder.WriteString("\n")
			}
			lineNo := page.Offset + i

			if v.showLineNumbers {
				gutter := fmt.Sprintf("%*d ", numWidth, lineNo+1) // 1-based for display
				if v.marked[lineNo] {
					builder.WriteString(v.markStyle.Render(gutter))
				} else {
					builder.WriteString(v.lineNumberStyle.Render(gutter))
				}
			} else if v.marked[lineNo] {
				builder.WriteString(v.markStyle.Render("> "))
			}

			builder.WriteString(v.renderer.Render(line))
			rows++
		}
	}

	for ; rows < v.height; rows++ {
		if rows > 0 {
			builder.WriteString("\n")
		}
		builder.WriteString("~")
	}

	return builder.String()
}
