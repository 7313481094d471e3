package render

import (
	"bytes"
	"strings"

	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/quick"
)

// SyntaxRenderer applies syntax highlighting based on file type
type SyntaxRenderer struct {
	lexerName string
	theme     string
}

// NewSyntaxRenderer creates a syntax highlighting renderer for the given
// filename, or returns nil when chroma has no lexer beyond plain text for it
func NewSyntaxRenderer(filename string) *SyntaxRenderer {
	lexer := lexers.Match(filename)
	if lexer == nil {
		return nil
	}
	name := lexer.Config().Name
	if strings.EqualFold(name, "plaintext") {
		return nil
	}

	return &SyntaxRenderer{
		lexerName: name,
		theme:     "monokai",
	}
}

// Render highlights a single line. Lexing is per line, so constructs that
// span lines are only partially coloured.
func (r *SyntaxRenderer) Render(line string) string {
	if line == "" {
		return ""
	}

	var buf bytes.Buffer
	if err := quick.Highlight(&buf, line, r.lexerName, "terminal256", r.theme); err != nil {
		return line
	}

	return strings.NewReplacer("\n", "", "\r", "").Replace(buf.String())
}
