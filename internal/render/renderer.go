package render

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/TimelordUK/logpage/internal/config"
	"github.com/TimelordUK/logpage/pkg/logformat"
)

// Renderer applies styling to a line of text
type Renderer interface {
	Render(line string) string
}

// Styler is a Renderer whose style depends on the whole line
type Styler interface {
	Renderer
	Style(line string) lipgloss.Style
}

// LogLevelRenderer colors lines based on log level
type LogLevelRenderer struct {
	detector *logformat.LevelDetector
	styles   map[logformat.Level]lipgloss.Style
}

// NewLogLevelRenderer creates a renderer with config
func NewLogLevelRenderer(cfg *config.Config) *LogLevelRenderer {
	colors := cfg.Theme.Levels
	fg := func(c string) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(c))
	}

	return &LogLevelRenderer{
		detector: logformat.NewLevelDetector(&cfg.LogLevels),
		styles: map[logformat.Level]lipgloss.Style{
			logformat.LevelUnknown: lipgloss.NewStyle(),
			logformat.LevelTrace:   fg(colors.Trace),
			logformat.LevelDebug:   fg(colors.Debug),
			logformat.LevelInfo:    fg(colors.Info),
			logformat.LevelWarn:    fg(colors.Warn),
			logformat.LevelError:   fg(colors.Error),
			logformat.LevelFatal:   fg(colors.Fatal),
		},
	}
}

// Style returns the style for a line's detected level
func (r *LogLevelRenderer) Style(line string) lipgloss.Style {
	return r.styles[r.detector.Detect(line)]
}

// Render applies log level styling to a line
func (r *LogLevelRenderer) Render(line string) string {
	return r.Style(line).Render(line)
}

// PlainRenderer renders without styling
type PlainRenderer struct{}

// NewPlainRenderer creates a plain renderer
func NewPlainRenderer() *PlainRenderer {
	return &PlainRenderer{}
}

// Render returns the line as-is
func (r *PlainRenderer) Render(line string) string {
	return line
}
