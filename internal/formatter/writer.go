package formatter

import (
	"bufio"
	"io"

	"github.com/go-json-experiment/json/jsontext"

	"github.com/oakwood-commons/jsonwalk/pkg/tree"
	"github.com/oakwood-commons/jsonwalk/pkg/walk"
)

// Writer is a walk.Visitor sink that renders each visited pair. Text and
// ndjson lines are written as they arrive; table rows are buffered until
// Close so the columns can be aligned.
type Writer struct {
	out       *bufio.Writer
	output    Output
	pathStyle PathStyle
	noColor   bool
	maxWidth  int

	enc   *jsontext.Encoder
	rows  [][]string
	count int
	err   error
}

// WriterOption configures a Writer.
type WriterOption func(*Writer)

// WithOutput selects the output layout.
func WithOutput(o Output) WriterOption {
	return func(w *Writer) { w.output = o }
}

// WithPathStyle selects how paths are rendered.
func WithPathStyle(s PathStyle) WriterOption {
	return func(w *Writer) { w.pathStyle = s }
}

// WithNoColor disables ANSI styling.
func WithNoColor(noColor bool) WriterOption {
	return func(w *Writer) { w.noColor = noColor }
}

// WithMaxWidth caps the table width; 0 means unlimited.
func WithMaxWidth(width int) WriterOption {
	return func(w *Writer) { w.maxWidth = width }
}

// NewWriter returns a Writer that renders to out. Defaults: text output,
// dotted paths, colour on.
func NewWriter(out io.Writer, opts ...WriterOption) *Writer {
	w := &Writer{
		out:       bufio.NewWriter(out),
		output:    OutputText,
		pathStyle: PathDotted,
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.output == OutputNDJSON {
		w.enc = jsontext.NewEncoder(w.out)
	}
	return w
}

// Visit renders one pair. It returns false after the first write error so
// the walk stops; the error is reported by Close.
func (w *Writer) Visit(path *walk.Key, value tree.Scalar) bool {
	if w.err != nil {
		return false
	}
	w.count++
	p := RenderPath(path, w.pathStyle)

	switch w.output {
	case OutputTable:
		w.rows = append(w.rows, []string{p, Stringify(value)})
	case OutputNDJSON:
		w.err = w.writeNDJSON(p, value)
	default:
		w.err = w.writeText(p, value)
	}
	return w.err == nil
}

// Count is the number of pairs rendered so far.
func (w *Writer) Count() int { return w.count }

// Close renders buffered table rows and flushes the output. It returns the
// first error seen.
func (w *Writer) Close() error {
	if w.err != nil {
		return w.err
	}
	if w.output == OutputTable && len(w.rows) > 0 {
		if _, err := w.out.WriteString(RenderTableFitContent(w.rows, w.noColor, w.maxWidth)); err != nil {
			return err
		}
		w.rows = nil
	}
	return w.out.Flush()
}

func (w *Writer) writeText(path string, value tree.Scalar) error {
	sep := " = "
	val := Stringify(value)
	if !w.noColor {
		path = keyStyle.Render(path)
		sep = separatorStyle.Render(sep)
		val = valueStyle.Render(val)
	}
	_, err := w.out.WriteString(path + sep + val + "\n")
	return err
}

func (w *Writer) writeNDJSON(path string, value tree.Scalar) error {
	tokens := []jsontext.Token{
		jsontext.BeginObject,
		jsontext.String("path"),
		jsontext.String(path),
		jsontext.String("value"),
	}
	for _, tok := range tokens {
		if err := w.enc.WriteToken(tok); err != nil {
			return err
		}
	}
	if err := w.enc.WriteValue(jsontext.Value(value.JSON())); err != nil {
		return err
	}
	return w.enc.WriteToken(jsontext.EndObject)
}
