// Package xmltree writes the indented, tagged text form of a parse tree.
//
// Nodes are streamed: Open writes a start tag, Close the matching end tag,
// Leaf a terminal on one line. The writer keeps a stack of open tags and
// refuses to close a tag that is not on top of it. The first failure is
// sticky; later calls do nothing and Err returns it.
package xmltree

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// DefaultIndent is the per-level indentation.
const DefaultIndent = "  "

// Attr is a name="value" pair on a tag.
type Attr struct {
	Name  string
	Value string
}

// Writer streams tags to an underlying writer.
type Writer struct {
	w      *bufio.Writer
	indent string
	stack  []string
	lines  int
	err    error
}

// NewWriter returns a Writer using DefaultIndent.
func NewWriter(w io.Writer) *Writer {
	return NewWriterIndent(w, DefaultIndent)
}

// NewWriterIndent returns a Writer that indents every level with indent.
func NewWriterIndent(w io.Writer, indent string) *Writer {
	return &Writer{w: bufio.NewWriter(w), indent: indent}
}

// Open writes <tag attrs...> and pushes tag.
func (w *Writer) Open(tag string, attrs ...Attr) {
	w.line("<" + tag + formatAttrs(attrs) + ">")
	w.stack = append(w.stack, tag)
}

// Close pops tag and writes </tag>.
func (w *Writer) Close(tag string) {
	if w.err != nil {
		return
	}
	if len(w.stack) == 0 {
		w.err = fmt.Errorf("xmltree: close of %q without open tag", tag)
		return
	}
	if top := w.stack[len(w.stack)-1]; top != tag {
		w.err = fmt.Errorf("xmltree: close of %q while %q is open", tag, top)
		return
	}
	w.stack = w.stack[:len(w.stack)-1]
	w.line("</" + tag + ">")
}

// Leaf writes <tag attrs...> text </tag> on a single line.
func (w *Writer) Leaf(tag, text string, attrs ...Attr) {
	w.line("<" + tag + formatAttrs(attrs) + "> " + Escape(text) + " </" + tag + ">")
}

// Depth returns the number of open tags.
func (w *Writer) Depth() int {
	return len(w.stack)
}

// Lines returns the number of lines written.
func (w *Writer) Lines() int {
	return w.lines
}

// Err returns the first error encountered.
func (w *Writer) Err() error {
	return w.err
}

// Flush writes buffered output and returns the first error encountered.
func (w *Writer) Flush() error {
	if err := w.w.Flush(); err != nil && w.err == nil {
		w.err = err
	}
	return w.err
}

// Finish flushes and fails if tags are still open.
func (w *Writer) Finish() error {
	if err := w.Flush(); err != nil {
		return err
	}
	if len(w.stack) > 0 {
		return fmt.Errorf("xmltree: unclosed tags %s", strings.Join(w.stack, " > "))
	}
	return nil
}

func (w *Writer) line(s string) {
	if w.err != nil {
		return
	}
	if _, err := w.w.WriteString(strings.Repeat(w.indent, len(w.stack))); err != nil {
		w.err = err
		return
	}
	if _, err := w.w.WriteString(s); err != nil {
		w.err = err
		return
	}
	if err := w.w.WriteByte('\n'); err != nil {
		w.err = err
		return
	}
	w.lines++
}

var textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

var attrEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")

// Escape replaces &, < and > by their entities and leaves all other
// characters alone.
func Escape(s string) string {
	return textEscaper.Replace(s)
}

func formatAttrs(attrs []Attr) string {
	if len(attrs) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, a := range attrs {
		sb.WriteByte(' ')
		sb.WriteString(a.Name)
		sb.WriteString(`="`)
		sb.WriteString(attrEscaper.Replace(a.Value))
		sb.WriteByte('"')
	}
	return sb.String()
}
