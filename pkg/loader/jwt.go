package loader

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/oakwood-commons/jsonwalk/pkg/tree"
)

// IsJWT detects if input looks like a JWT token.
// A valid JWT has exactly 3 dot-separated parts where the first two
// are base64url-encoded JSON objects.
func IsJWT(input string) bool {
	parts, ok := jwtParts(input)
	if !ok {
		return false
	}
	for i := 0; i < 2; i++ {
		if _, err := decodeJWTSegment(parts[i]); err != nil {
			return false
		}
	}
	_, err := base64.RawURLEncoding.DecodeString(parts[2])
	return err == nil
}

// DecodeJWT decodes a JWT token into an object with header, payload and
// signature members. The signature stays base64url text.
func DecodeJWT(input string) (*tree.Object, error) {
	parts, ok := jwtParts(input)
	if !ok {
		return nil, fmt.Errorf("invalid JWT: expected 3 non-empty parts")
	}

	header, err := decodeJWTSegment(parts[0])
	if err != nil {
		return nil, fmt.Errorf("invalid JWT header: %w", err)
	}
	payload, err := decodeJWTSegment(parts[1])
	if err != nil {
		return nil, fmt.Errorf("invalid JWT payload: %w", err)
	}

	return tree.NewObject(
		tree.Member{Key: "header", Value: header},
		tree.Member{Key: "payload", Value: payload},
		tree.Member{Key: "signature", Value: tree.String(parts[2])},
	), nil
}

func loadJWT(input string) ([]tree.Node, error) {
	decoded, err := DecodeJWT(input)
	if err != nil {
		return nil, err
	}
	return []tree.Node{decoded}, nil
}

func jwtParts(input string) ([]string, bool) {
	input = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(input), "Bearer "))
	parts := strings.Split(input, ".")
	if len(parts) != 3 {
		return nil, false
	}
	for _, part := range parts {
		if part == "" {
			return nil, false
		}
	}
	return parts, true
}

// decodeJWTSegment decodes one base64url part that must hold a JSON object.
func decodeJWTSegment(segment string) (*tree.Object, error) {
	raw, err := base64.RawURLEncoding.DecodeString(segment)
	if err != nil {
		return nil, err
	}
	docs, err := loadJSON(string(raw))
	if err != nil {
		return nil, err
	}
	obj, ok := docs[0].(*tree.Object)
	if !ok {
		return nil, fmt.Errorf("expected a JSON object")
	}
	return obj, nil
}
