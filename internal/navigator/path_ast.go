package navigator

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-json-experiment/json/jsontext"
)

// Step is one parsed segment of a path input.
// Path example: regions.asia.countries[0].city["postal-code"]
type Step interface {
	step()
}

// Field represents a simple dotted field name. A numeric field such as the
// "0" in "items.0" also indexes arrays.
type Field struct {
	Name string
}

// QuotedKey represents a field accessed via a bracket-quoted key: ["key"] or
// ['key'].
type QuotedKey struct {
	Name string
}

// ArrayIndex represents an array index like [0].
type ArrayIndex struct {
	Index int
}

func (Field) step()      {}
func (QuotedKey) step()  {}
func (ArrayIndex) step() {}

// ParsePath parses a path string into steps. It accepts the dotted form
// ("a.0.b"), bracket indices and quoted keys ("a[0]['b']"), and normalized
// JSONPath with a leading "$". The empty string and "$" address the root. A
// "$" that starts a key name ("$ref") is part of the key.
func ParsePath(input string) ([]Step, error) {
	var steps []Step
	s := strings.TrimSpace(input)
	if s == "$" || strings.HasPrefix(s, "$.") || strings.HasPrefix(s, "$[") {
		s = s[1:]
	}

	i := 0
	for i < len(s) {
		switch s[i] {
		case '.':
			i++
		case '[':
			step, n, err := parseBracket(s[i:])
			if err != nil {
				return nil, fmt.Errorf("path %q at offset %d: %w", input, i, err)
			}
			steps = append(steps, step)
			i += n
		default:
			// a dotted name runs until the next '.' or '['
			j := i
			for j < len(s) && s[j] != '.' && s[j] != '[' {
				j++
			}
			steps = append(steps, Field{Name: s[i:j]})
			i = j
		}
	}
	return steps, nil
}

// parseBracket parses one [..] segment at the start of s and returns the
// number of bytes consumed.
func parseBracket(s string) (Step, int, error) {
	if len(s) < 2 {
		return nil, 0, fmt.Errorf("unterminated bracket")
	}
	if q := s[1]; q == '"' || q == '\'' {
		name, n, err := unquote(s[1:], q)
		if err != nil {
			return nil, 0, err
		}
		end := 1 + n
		if end >= len(s) || s[end] != ']' {
			return nil, 0, fmt.Errorf("expected ']' after quoted key")
		}
		return QuotedKey{Name: name}, end + 1, nil
	}

	end := strings.IndexByte(s, ']')
	if end == -1 {
		return nil, 0, fmt.Errorf("unterminated bracket")
	}
	inner := strings.TrimSpace(s[1:end])
	idx, err := strconv.Atoi(inner)
	if err != nil || idx < 0 {
		return nil, 0, fmt.Errorf("invalid array index %q", inner)
	}
	return ArrayIndex{Index: idx}, end + 1, nil
}

// unquote reads a string literal delimited by quote from the start of s and
// returns its value and the number of bytes consumed, quotes included.
func unquote(s string, quote byte) (string, int, error) {
	var b strings.Builder
	i := 1
	for i < len(s) {
		ch := s[i]
		switch {
		case ch == quote:
			return b.String(), i + 1, nil
		case ch == '\\':
			if i+1 >= len(s) {
				return "", 0, fmt.Errorf("unterminated escape")
			}
			i++
			switch s[i] {
			case 'b':
				b.WriteByte('\b')
			case 'f':
				b.WriteByte('\f')
			case 'n':
				b.WriteByte('\n')
			case 'r':
				b.WriteByte('\r')
			case 't':
				b.WriteByte('\t')
			case 'u':
				if i+4 >= len(s) {
					return "", 0, fmt.Errorf("short \\u escape")
				}
				r, err := strconv.ParseUint(s[i+1:i+5], 16, 32)
				if err != nil {
					return "", 0, fmt.Errorf("invalid \\u escape: %w", err)
				}
				b.WriteRune(rune(r))
				i += 4
			default:
				b.WriteByte(s[i])
			}
			i++
		default:
			r, size := utf8.DecodeRuneInString(s[i:])
			b.WriteRune(r)
			i += size
		}
	}
	return "", 0, fmt.Errorf("unterminated quoted key")
}

// ReconstructPath rebuilds a path string from steps. Names that would not
// survive the dotted form are written as quoted keys.
func ReconstructPath(steps []Step) string {
	var b strings.Builder
	for idx, st := range steps {
		switch v := st.(type) {
		case Field:
			if !isPlainName(v.Name) {
				writeQuoted(&b, v.Name)
				continue
			}
			if idx > 0 {
				b.WriteByte('.')
			}
			b.WriteString(v.Name)
		case QuotedKey:
			writeQuoted(&b, v.Name)
		case ArrayIndex:
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(v.Index))
			b.WriteByte(']')
		}
	}
	return b.String()
}

func isPlainName(name string) bool {
	return name != "" && !strings.ContainsAny(name, ".[]\"' ")
}

func writeQuoted(b *strings.Builder, name string) {
	quoted, err := jsontext.AppendQuote(nil, name)
	if err != nil {
		quoted = []byte(strconv.Quote(name))
	}
	b.WriteByte('[')
	b.Write(quoted)
	b.WriteByte(']')
}
