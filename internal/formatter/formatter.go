// Package formatter re-indents the compact generated class
package formatter

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/mcncl/jsonmodel/internal/errors"
)

// DefaultIndent is used when no indent is configured
const DefaultIndent = "    "

// joiners continue on the same line as the closing brace before them
var joiners = []string{"catch", "else", "finally"}

// Formatter lays out the compact generated class one statement per line, indented by brace depth
type Formatter struct {
	indent string
}

// NewFormatter creates a new Formatter instance
func NewFormatter() *Formatter {
	return &Formatter{indent: DefaultIndent}
}

// NewFormatterWithIndent creates a Formatter with a custom indent unit
func NewFormatterWithIndent(indent string) *Formatter {
	if indent == "" {
		indent = DefaultIndent
	}
	return &Formatter{indent: indent}
}

// Format reflows code. String literals and // comments are copied verbatim. Semicolons inside
// parentheses do not break the line.
func (f *Formatter) Format(code string) (string, error) {
	if strings.TrimSpace(code) == "" {
		return "", nil
	}

	w := &writer{indent: f.indent, atLineStart: true}
	parens := 0
	inString := false
	escaped := false

	for i := 0; i < len(code); i++ {
		c := code[i]

		if inString {
			w.buf.WriteByte(c)
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			case c == '\n':
				return "", fmt.Errorf("failed to format code: unterminated string literal at offset %d", i)
			}
			continue
		}

		switch {
		case c == '"':
			w.write(c)
			inString = true
		case c == '/' && i+1 < len(code) && code[i+1] == '/':
			end := strings.IndexByte(code[i:], '\n')
			if end < 0 {
				end = len(code) - i
			}
			w.newline()
			w.writeString(strings.TrimSpace(code[i : i+end]))
			w.newline()
			i += end
		case c == '\n' || c == '\r':
			w.newline()
		case c == ' ' || c == '\t':
			w.space()
		case c == '{':
			w.write(c)
			w.depth++
			w.newline()
		case c == '}':
			w.newline()
			w.dropBlankLine()
			w.depth--
			if w.depth < 0 {
				return "", fmt.Errorf("failed to format code: unexpected '}' at offset %d: %w", i, errors.ErrUnbalancedBraces)
			}
			w.write(c)
			if startsWithJoiner(code[i+1:]) {
				w.space()
				continue
			}
			w.newline()
			if w.depth == 1 {
				w.blankLine()
			}
		case c == '(':
			parens++
			w.write(c)
		case c == ')':
			parens--
			w.write(c)
		case c == ';':
			w.write(c)
			if parens == 0 {
				w.newline()
			}
		default:
			w.write(c)
		}
	}

	if inString {
		return "", fmt.Errorf("failed to format code: unterminated string literal")
	}
	if w.depth != 0 {
		return "", fmt.Errorf("failed to format code: %d unclosed '{': %w", w.depth, errors.ErrUnbalancedBraces)
	}

	return strings.TrimRight(w.buf.String(), "\n") + "\n", nil
}

func startsWithJoiner(rest string) bool {
	rest = strings.TrimLeft(rest, " \t")
	for _, j := range joiners {
		if strings.HasPrefix(rest, j) {
			return true
		}
	}
	return false
}

// writer tracks indentation and collapses whitespace while the formatter emits code
type writer struct {
	buf         bytes.Buffer
	indent      string
	depth       int
	atLineStart bool
}

func (w *writer) startLine() {
	if w.atLineStart {
		w.buf.WriteString(strings.Repeat(w.indent, w.depth))
		w.atLineStart = false
	}
}

func (w *writer) write(c byte) {
	w.startLine()
	w.buf.WriteByte(c)
}

func (w *writer) writeString(s string) {
	w.startLine()
	w.buf.WriteString(s)
}

// space writes a single separator, never at the start of a line and never doubled
func (w *writer) space() {
	if w.atLineStart {
		return
	}
	b := w.buf.Bytes()
	if len(b) > 0 && b[len(b)-1] == ' ' {
		return
	}
	w.buf.WriteByte(' ')
}

// newline ends the current line, dropping trailing spaces. Repeated calls are no-ops.
func (w *writer) newline() {
	if w.atLineStart {
		return
	}
	trimmed := bytes.TrimRight(w.buf.Bytes(), " \t")
	w.buf.Truncate(len(trimmed))
	w.buf.WriteByte('\n')
	w.atLineStart = true
}

// dropBlankLine keeps a closing brace directly under the last member
func (w *writer) dropBlankLine() {
	for bytes.HasSuffix(w.buf.Bytes(), []byte("\n\n")) {
		w.buf.Truncate(w.buf.Len() - 1)
	}
}

// blankLine separates class members
func (w *writer) blankLine() {
	w.newline()
	if !bytes.HasSuffix(w.buf.Bytes(), []byte("\n\n")) {
		w.buf.WriteByte('\n')
	}
}
