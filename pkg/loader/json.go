package loader

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-json-experiment/json/jsontext"

	"github.com/oakwood-commons/jsonwalk/pkg/tree"
)

// loadJSON parses exactly one JSON value. Object members keep document order
// and duplicate names are rejected.
func loadJSON(input string) ([]tree.Node, error) {
	dec := jsontext.NewDecoder(strings.NewReader(input))
	node, err := decodeValue(dec)
	if err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if _, err := dec.ReadToken(); !errors.Is(err, io.EOF) {
		if err == nil {
			err = errors.New("unexpected data after top-level value")
		}
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	return []tree.Node{node}, nil
}

// loadNDJSON parses one JSON value per line. Blank lines are skipped and
// lines that are not valid JSON are kept as string scalars.
func loadNDJSON(input string) ([]tree.Node, error) {
	lines := strings.Split(input, "\n")
	results := make([]tree.Node, 0, len(lines))

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		docs, err := loadJSON(line)
		if err != nil {
			results = append(results, tree.String(line))
			continue
		}
		results = append(results, docs[0])
	}

	if len(results) == 0 {
		return nil, fmt.Errorf("no data found in input")
	}
	return results, nil
}

// decodeValue reads the next complete value from dec.
func decodeValue(dec *jsontext.Decoder) (tree.Node, error) {
	tok, err := dec.ReadToken()
	if err != nil {
		return nil, err
	}
	switch tok.Kind() {
	case '{':
		obj := tree.NewObject()
		for dec.PeekKind() != '}' {
			name, err := dec.ReadToken()
			if err != nil {
				return nil, err
			}
			child, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			obj.Set(name.String(), child)
		}
		if _, err := dec.ReadToken(); err != nil {
			return nil, err
		}
		return obj, nil
	case '[':
		arr := tree.Array{}
		for dec.PeekKind() != ']' {
			child, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			arr = append(arr, child)
		}
		if _, err := dec.ReadToken(); err != nil {
			return nil, err
		}
		return arr, nil
	case '"':
		return tree.String(tok.String()), nil
	case '0':
		return tree.Num(tok.String()), nil
	case 't', 'f':
		return tree.Bool(tok.Bool()), nil
	case 'n':
		return tree.Null(), nil
	default:
		return nil, fmt.Errorf("unexpected token %v", tok.Kind())
	}
}
