package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"reflect"

	"github.com/fxamacker/cbor/v2"

	"github.com/oakwood-commons/jsonwalk/pkg/tree"
)

// cborDecMode decodes maps with string keys for JSON compatibility.
var cborDecMode cbor.DecMode

func init() {
	var err error
	cborDecMode, err = cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic("failed to initialize CBOR decoder mode: " + err.Error())
	}
}

// loadCBOR decodes a sequence of CBOR data items, one document each. Maps are
// decoded into Go maps, so keys are sorted.
func loadCBOR(input []byte) ([]tree.Node, error) {
	if len(input) == 0 {
		return nil, ErrEmptyInput
	}
	dec := cborDecMode.NewDecoder(bytes.NewReader(input))
	var results []tree.Node
	for {
		var v any
		if err := dec.Decode(&v); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("invalid CBOR: %w", err)
		}
		node, err := tree.FromValue(v)
		if err != nil {
			return nil, fmt.Errorf("invalid CBOR: %w", err)
		}
		results = append(results, node)
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("no documents found in CBOR input")
	}
	return results, nil
}
