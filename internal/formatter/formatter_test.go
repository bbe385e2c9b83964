package formatter

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/go-json-experiment/json"
	"github.com/mattn/go-runewidth"

	"github.com/oakwood-commons/jsonwalk/pkg/tree"
	"github.com/oakwood-commons/jsonwalk/pkg/walk"
)

func TestStringifyString(t *testing.T) {
	result := Stringify(tree.String("hello"))
	if result != "hello" {
		t.Fatalf("expected 'hello', got %q", result)
	}
}

func TestStringifyStringEscapesNewlines(t *testing.T) {
	result := Stringify(tree.String("line1\r\nline2\rline3"))
	if result != `line1\nline2\nline3` {
		t.Fatalf("expected escaped newlines, got %q", result)
	}
}

func TestStringifyNonStrings(t *testing.T) {
	tests := []struct {
		value tree.Scalar
		want  string
	}{
		{tree.Null(), "null"},
		{tree.Bool(true), "true"},
		{tree.Num("1.50"), "1.50"},
		{tree.Int(-3), "-3"},
	}
	for _, tt := range tests {
		if got := Stringify(tt.value); got != tt.want {
			t.Fatalf("Stringify(%#v) = %q, want %q", tt.value, got, tt.want)
		}
	}
}

func TestTruncateNoTruncation(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Fatalf("expected no truncation, got %q", got)
	}
}

func TestTruncateWithTruncation(t *testing.T) {
	got := truncate("this is a long string", 10)
	if got != "this is..." {
		t.Fatalf("expected 'this is...', got %q", got)
	}
}

func TestTruncateSmallMaxLen(t *testing.T) {
	if got := truncate("abcdef", 2); got != "ab" {
		t.Fatalf("expected 'ab', got %q", got)
	}
}

func TestTruncateWideRunes(t *testing.T) {
	got := truncate("日本語テキスト", 8)
	if w := runewidth.StringWidth(got); w > 8 {
		t.Fatalf("expected width <= 8, got %d (%q)", w, got)
	}
	if !strings.HasSuffix(got, "...") {
		t.Fatalf("expected ellipsis, got %q", got)
	}
}

func TestPadRight(t *testing.T) {
	if got := padRight("ab", 5); got != "ab   " {
		t.Fatalf("expected 'ab   ', got %q", got)
	}
	if got := padRight("日本", 6); runewidth.StringWidth(got) != 6 {
		t.Fatalf("expected display width 6, got %q", got)
	}
}

func TestParseOutput(t *testing.T) {
	for in, want := range map[string]Output{"": OutputText, "TABLE": OutputTable, " ndjson ": OutputNDJSON} {
		got, err := ParseOutput(in)
		if err != nil {
			t.Fatalf("ParseOutput(%q) error: %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseOutput(%q) = %q, want %q", in, got, want)
		}
	}
	if _, err := ParseOutput("xml"); err == nil {
		t.Fatal("expected error for unknown output")
	}
}

func TestParsePathStyle(t *testing.T) {
	if s, err := ParsePathStyle(""); err != nil || s != PathDotted {
		t.Fatalf("expected dotted default, got %q, %v", s, err)
	}
	if s, err := ParsePathStyle("JSONPath"); err != nil || s != PathJSONPath {
		t.Fatalf("expected jsonpath, got %q, %v", s, err)
	}
	if _, err := ParsePathStyle("slashes"); err == nil {
		t.Fatal("expected error for unknown path style")
	}
}

func TestRenderPath(t *testing.T) {
	key := walk.Field(walk.Index(walk.Field(nil, "a"), 1), "b")
	if got := RenderPath(key, PathDotted); got != "a.1.b" {
		t.Fatalf("unexpected dotted path %q", got)
	}
	if got := RenderPath(key, PathJSONPath); got != "$['a'][1]['b']" {
		t.Fatalf("unexpected jsonpath %q", got)
	}
	if got := RenderPath(nil, PathDotted); got != "" {
		t.Fatalf("expected empty root path, got %q", got)
	}
}

func TestRenderTableFitContentNoColor(t *testing.T) {
	rows := [][]string{{"a.b", "1"}, {"long.path.here", "value"}}
	out := RenderTableFitContent(rows, true, 0)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header, separator and 2 rows, got %d lines:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "PATH") || !strings.Contains(lines[0], "VALUE") {
		t.Fatalf("unexpected header %q", lines[0])
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("expected no ANSI codes, got %q", out)
	}
	// values start in the same column
	col := strings.Index(lines[2], "1")
	if col != strings.Index(lines[3], "value") {
		t.Fatalf("values not aligned:\n%s", out)
	}
	if col != len("long.path.here")+2 {
		t.Fatalf("expected value column at %d, got %d", len("long.path.here")+2, col)
	}
}

func TestRenderTableFitContentTruncates(t *testing.T) {
	rows := [][]string{{"path", strings.Repeat("x", 200)}}
	out := RenderTableFitContent(rows, true, 40)
	for _, line := range strings.Split(strings.TrimRight(out, "\n"), "\n") {
		if w := runewidth.StringWidth(line); w > 40 {
			t.Fatalf("line wider than 40 cells (%d): %q", w, line)
		}
	}
	if !strings.Contains(out, "...") {
		t.Fatalf("expected ellipsis in truncated output:\n%s", out)
	}
}

func sampleVisits(w *Writer) {
	a := walk.Field(nil, "a")
	w.Visit(walk.Index(a, 0), tree.Int(1))
	w.Visit(walk.Field(walk.Index(a, 1), "b"), tree.String("two\nlines"))
	w.Visit(walk.Field(nil, "c"), tree.Null())
}

func TestWriterText(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, WithNoColor(true))
	sampleVisits(w)
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	want := "a.0 = 1\na.1.b = two\\nlines\nc = null\n"
	if buf.String() != want {
		t.Fatalf("expected %q, got %q", want, buf.String())
	}
	if w.Count() != 3 {
		t.Fatalf("expected count 3, got %d", w.Count())
	}
}

func TestWriterTextJSONPath(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, WithNoColor(true), WithPathStyle(PathJSONPath))
	w.Visit(nil, tree.Int(42))
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if buf.String() != "$ = 42\n" {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestWriterNDJSON(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, WithOutput(OutputNDJSON))
	sampleVisits(w)
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d: %q", len(lines), buf.String())
	}
	if lines[0] != `{"path":"a.0","value":1}` {
		t.Fatalf("unexpected first line %q", lines[0])
	}

	var rec struct {
		Path  string `json:"path"`
		Value any    `json:"value"`
	}
	if err := json.Unmarshal([]byte(lines[1]), &rec); err != nil {
		t.Fatalf("line 2 is not JSON: %v", err)
	}
	if rec.Path != "a.1.b" || rec.Value != "two\nlines" {
		t.Fatalf("unexpected record %+v", rec)
	}
	if lines[2] != `{"path":"c","value":null}` {
		t.Fatalf("unexpected last line %q", lines[2])
	}
}

func TestWriterTable(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, WithOutput(OutputTable), WithNoColor(true))
	sampleVisits(w)
	if buf.Len() != 0 {
		t.Fatalf("expected table rows to be buffered until Close, got %q", buf.String())
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"PATH", "a.0", "a.1.b", `two\nlines`, "null"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in table:\n%s", want, out)
		}
	}
}

func TestWriterColor(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.Visit(walk.Field(nil, "k"), tree.String("v"))
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !strings.Contains(buf.String(), "k") || !strings.Contains(buf.String(), "v") {
		t.Fatalf("expected path and value in output, got %q", buf.String())
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriterReportsWriteError(t *testing.T) {
	w := NewWriter(failingWriter{}, WithNoColor(true))
	w.Visit(walk.Field(nil, "k"), tree.String("v"))
	err := w.Close()
	if err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Fatalf("expected write error, got %v", err)
	}
}
