package render

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// MatchHighlighter marks case-insensitive occurrences of a query inside
// lines produced by a base renderer
type MatchHighlighter struct {
	base    Renderer
	pattern *regexp.Regexp
	style   lipgloss.Style
}

// NewMatchHighlighter wraps base. An empty query disables highlighting.
func NewMatchHighlighter(base Renderer, query string, style lipgloss.Style) *MatchHighlighter {
	h := &MatchHighlighter{base: base, style: style}
	if query != "" {
		h.pattern = regexp.MustCompile("(?i)" + regexp.QuoteMeta(query))
	}
	return h
}

// Render styles matched spans with the highlight style and the rest with
// the base renderer. A Styler base picks its style from the whole line, so
// text after a match keeps the line's colour.
func (h *MatchHighlighter) Render(line string) string {
	if h.pattern == nil {
		return h.base.Render(line)
	}

	spans := h.pattern.FindAllStringIndex(line, -1)
	if len(spans) == 0 {
		return h.base.Render(line)
	}

	rest := h.base.Render
	if styler, ok := h.base.(Styler); ok {
		style := styler.Style(line)
		rest = func(text string) string { return style.Render(text) }
	}

	var b strings.Builder
	prev := 0
	for _, s := range spans {
		if s[0] > prev {
			b.WriteString(rest(line[prev:s[0]]))
		}
		b.WriteString(h.style.Render(line[s[0]:s[1]]))
		prev = s[1]
	}
	if prev < len(line) {
		b.WriteString(rest(line[prev:]))
	}
	return b.String()
}
