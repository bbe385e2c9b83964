// Package formatter renders visited (path, value) pairs for the terminal.
package formatter

import (
	"fmt"
	"image/color"
	"os"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/oakwood-commons/jsonwalk/pkg/tree"
	"github.com/oakwood-commons/jsonwalk/pkg/walk"
)

var (
	defaultHeaderFG   = lipgloss.Color("12")
	defaultHeaderBG   = lipgloss.Color("236")
	defaultKeyColor   = lipgloss.Color("14")
	defaultValueColor = lipgloss.Color("248")
	defaultSeparator  = lipgloss.Color("240")

	headerStyle    lipgloss.Style
	keyStyle       lipgloss.Style
	valueStyle     lipgloss.Style
	separatorStyle lipgloss.Style
)

// TableColors controls the rendered colors for paths, values and the table
// header. Empty fields fall back to defaults (ANSI 256 codes).
type TableColors struct {
	HeaderFG       color.Color
	HeaderBG       color.Color
	KeyColor       color.Color
	ValueColor     color.Color
	SeparatorColor color.Color
}

func applyTableTheme(tc TableColors) {
	hfg := tc.HeaderFG
	hbg := tc.HeaderBG
	kc := tc.KeyColor
	vc := tc.ValueColor
	sep := tc.SeparatorColor
	if hfg == nil {
		hfg = defaultHeaderFG
	}
	if hbg == nil {
		hbg = defaultHeaderBG
	}
	if kc == nil {
		kc = defaultKeyColor
	}
	if vc == nil {
		vc = defaultValueColor
	}
	if sep == nil {
		sep = defaultSeparator
	}

	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(hfg).Background(hbg)
	keyStyle = lipgloss.NewStyle().Foreground(kc)
	valueStyle = lipgloss.NewStyle().Foreground(vc)
	separatorStyle = lipgloss.NewStyle().Foreground(sep)
}

// SetTableTheme overrides the global styles. Callers can pass zero-valued
// fields to fall back to formatter defaults.
func SetTableTheme(tc TableColors) {
	applyTableTheme(tc)
}

// ParseColor accepts an ANSI code ("14") or a hex color ("#00ffff"). The
// empty string returns nil, meaning the default.
func ParseColor(s string) color.Color {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return lipgloss.Color(s)
}

//nolint:gochecknoinits // initialize default theme for package consumers
func init() {
	applyTableTheme(TableColors{})
}

// Output selects how visited pairs are written.
type Output string

const (
	OutputText   Output = "text"   // path = value
	OutputTable  Output = "table"  // aligned PATH / VALUE columns
	OutputNDJSON Output = "ndjson" // {"path":...,"value":...} per line
)

// Outputs lists the accepted values of ParseOutput.
var Outputs = []Output{OutputText, OutputTable, OutputNDJSON}

// ParseOutput validates an output name. The empty string means OutputText.
func ParseOutput(s string) (Output, error) {
	name := Output(strings.ToLower(strings.TrimSpace(s)))
	if name == "" {
		return OutputText, nil
	}
	for _, o := range Outputs {
		if o == name {
			return o, nil
		}
	}
	return "", fmt.Errorf("unknown output %q", s)
}

// PathStyle selects how a path is rendered.
type PathStyle string

const (
	PathDotted   PathStyle = "dotted"   // a.0.b
	PathJSONPath PathStyle = "jsonpath" // $['a'][0]['b']
)

// ParsePathStyle validates a path style name. The empty string means
// PathDotted.
func ParsePathStyle(s string) (PathStyle, error) {
	switch PathStyle(strings.ToLower(strings.TrimSpace(s))) {
	case "", PathDotted:
		return PathDotted, nil
	case PathJSONPath:
		return PathJSONPath, nil
	default:
		return "", fmt.Errorf("unknown path style %q (want dotted or jsonpath)", s)
	}
}

// RenderPath renders key in the given style.
func RenderPath(key *walk.Key, style PathStyle) string {
	if style == PathJSONPath {
		return key.JSONPath()
	}
	return key.String()
}

// Stringify returns a single-line representation of a scalar: strings as-is
// with line breaks escaped, everything else as JSON text.
func Stringify(v tree.Scalar) string {
	if s, ok := v.Value().(string); ok {
		return escapeScalarString(s)
	}
	return v.JSON()
}

// escapeScalarString flattens control characters in scalar strings so rows
// stay single-line.
func escapeScalarString(s string) string {
	if s == "" {
		return s
	}
	// Normalize Windows newlines first, then escape remaining line breaks.
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	if strings.Contains(s, "\n") {
		s = strings.ReplaceAll(s, "\n", "\\n")
	}
	return s
}

// truncate truncates a string to maxLen display cells and adds an ellipsis
// if needed.
func truncate(s string, maxLen int) string {
	if maxLen <= 0 || runewidth.StringWidth(s) <= maxLen {
		return s
	}
	if maxLen < 3 {
		return runewidth.Truncate(s, maxLen, "")
	}
	return runewidth.Truncate(s, maxLen, "...")
}

// padRight pads a string to the specified display width.
func padRight(s string, width int) string {
	return runewidth.FillRight(s, width)
}

// TerminalWidth returns the width of the terminal behind f, or 0 when f is
// not a terminal.
func TerminalWidth(f *os.File) int {
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return 0
	}
	return width
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// RenderTableFitContent renders a PATH/VALUE table sized to fit its content.
// maxWidth limits the table width (truncation occurs if content exceeds it).
// If maxWidth is 0, no truncation is applied.
func RenderTableFitContent(rows [][]string, noColor bool, maxWidth int) string {
	sepWidth := 2
	sep := strings.Repeat(" ", sepWidth)

	maxKeyWidth := 4 // "PATH" header
	maxValWidth := 5 // "VALUE" header
	for _, row := range rows {
		if len(row) > 0 {
			if w := runewidth.StringWidth(row[0]); w > maxKeyWidth {
				maxKeyWidth = w
			}
		}
		if len(row) > 1 {
			if w := runewidth.StringWidth(row[1]); w > maxValWidth {
				maxValWidth = w
			}
		}
	}

	keyWidth := maxKeyWidth
	valueWidth := maxValWidth

	if maxWidth > 0 && keyWidth+sepWidth+valueWidth > maxWidth {
		// Distribute space: the path column gets at most 60%, the rest goes
		// to values.
		available := maxWidth - sepWidth
		if available < 10 {
			available = 10
		}
		maxKeyAlloc := available * 60 / 100
		if maxKeyAlloc < 5 {
			maxKeyAlloc = 5
		}
		if keyWidth > maxKeyAlloc {
			keyWidth = maxKeyAlloc
		}
		valueWidth = available - keyWidth
		if valueWidth < 5 {
			valueWidth = 5
		}
	}

	var b strings.Builder

	headerKey := padRight("PATH", keyWidth)
	headerValue := padRight("VALUE", valueWidth)
	if !noColor {
		headerKey = headerStyle.Render(headerKey)
		headerValue = headerStyle.Render(headerValue)
	}
	b.WriteString(headerKey + sep + headerValue + "\n")

	separator := strings.Repeat("─", keyWidth+sepWidth+valueWidth)
	if !noColor {
		separator = separatorStyle.Render(separator)
	}
	b.WriteString(separator + "\n")

	for _, row := range rows {
		key := ""
		val := ""
		if len(row) > 0 {
			key = row[0]
		}
		if len(row) > 1 {
			val = row[1]
		}
		keyStr := padRight(truncate(key, keyWidth), keyWidth)
		valStr := truncate(val, valueWidth)
		if !noColor {
			keyStr = keyStyle.Render(keyStr)
			valStr = valueStyle.Render(valStr)
		}
		b.WriteString(strings.TrimRight(keyStr+sep+valStr, " ") + "\n")
	}

	return b.String()
}
