package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/oakwood-commons/jsonwalk/internal/formatter"
	"github.com/oakwood-commons/jsonwalk/pkg/loader"
	"github.com/oakwood-commons/jsonwalk/pkg/logger"
	"github.com/oakwood-commons/jsonwalk/pkg/walk"
)

// errShowHelp is returned by readInput when no input is provided and help should be shown.
var errShowHelp = errors.New("no input provided")

type unknownChoiceError struct {
	Flag      string
	Selected  string
	Available []string
}

func (e unknownChoiceError) Error() string {
	return fmt.Sprintf("invalid --%s value %q\navailable: %s", e.Flag, e.Selected, strings.Join(e.Available, ", "))
}

func printChoiceError(w io.Writer, err error) {
	var choiceErr unknownChoiceError
	if errors.As(err, &choiceErr) {
		fmt.Fprintf(w, "invalid --%s value %q\n", choiceErr.Flag, choiceErr.Selected)
		fmt.Fprintf(w, "available: %s\n", strings.Join(choiceErr.Available, ", "))
		return
	}
	fmt.Fprintln(w, err)
}

func parseOrderFlag(s string) (walk.Order, error) {
	order, err := walk.ParseOrder(s)
	if err != nil {
		return "", unknownChoiceError{Flag: "order", Selected: s, Available: []string{"dfs", "bfs"}}
	}
	return order, nil
}

func parseFormatFlag(s string) (loader.Format, error) {
	format, err := loader.ParseFormat(s)
	if err != nil {
		return "", unknownChoiceError{Flag: "format", Selected: s, Available: choices(loader.Formats)}
	}
	return format, nil
}

func parseOutputFlag(s string) (formatter.Output, error) {
	out, err := formatter.ParseOutput(s)
	if err != nil {
		return "", unknownChoiceError{Flag: "output", Selected: s, Available: choices(formatter.Outputs)}
	}
	return out, nil
}

func parsePathStyleFlag(s string) (formatter.PathStyle, error) {
	style, err := formatter.ParsePathStyle(s)
	if err != nil {
		return "", unknownChoiceError{
			Flag:      "path-style",
			Selected:  s,
			Available: []string{string(formatter.PathDotted), string(formatter.PathJSONPath)},
		}
	}
	return style, nil
}

func parseLogFormatFlag(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", logger.FormatJSON:
		return logger.FormatJSON, nil
	case logger.FormatConsole:
		return logger.FormatConsole, nil
	default:
		return "", unknownChoiceError{Flag: "log-format", Selected: s, Available: []string{logger.FormatJSON, logger.FormatConsole}}
	}
}

func choices[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

// stdinIsPiped reports whether r is a pipe or file rather than a terminal.
// Readers that are not files (tests) count as piped.
func stdinIsPiped(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return true
	}
	stat, err := f.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// colorEnabled reports whether w is a terminal that should receive ANSI
// styling. NO_COLOR disables it regardless of the terminal.
func colorEnabled(w io.Writer) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	f, ok := w.(*os.File)
	return ok && formatter.IsTerminal(f)
}

// outputWidth returns the configured width, or the terminal width of w.
func outputWidth(w io.Writer, configured int) int {
	if configured > 0 {
		return configured
	}
	if f, ok := w.(*os.File); ok {
		return formatter.TerminalWidth(f)
	}
	return 0
}
