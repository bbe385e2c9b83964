package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/go-logr/logr"
	"github.com/klauspost/compress/gzip"
	"github.com/pelletier/go-toml/v2"

	"github.com/oakwood-commons/jsonwalk/pkg/tree"
)

// ErrEmptyInput is returned when there is nothing to parse.
var ErrEmptyInput = errors.New("empty input")

// Format names an input encoding.
type Format string

const (
	FormatAuto   Format = "auto"
	FormatJSON   Format = "json"
	FormatNDJSON Format = "ndjson"
	FormatYAML   Format = "yaml"
	FormatTOML   Format = "toml"
	FormatCBOR   Format = "cbor"
	FormatJWT    Format = "jwt"
)

// Formats lists the accepted values of ParseFormat.
var Formats = []Format{FormatAuto, FormatJSON, FormatNDJSON, FormatYAML, FormatTOML, FormatCBOR, FormatJWT}

// ParseFormat validates a format name. The empty string means FormatAuto.
func ParseFormat(s string) (Format, error) {
	name := Format(strings.ToLower(strings.TrimSpace(s)))
	if name == "" {
		return FormatAuto, nil
	}
	for _, f := range Formats {
		if f == name {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown input format %q", s)
}

// FormatForPath picks a format from a file extension, ignoring a trailing
// ".gz". Unknown extensions map to FormatAuto.
func FormatForPath(path string) Format {
	name := strings.ToLower(filepath.Base(path))
	name = strings.TrimSuffix(name, ".gz")
	switch filepath.Ext(name) {
	case ".json":
		return FormatJSON
	case ".ndjson", ".jsonl":
		return FormatNDJSON
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	case ".cbor":
		return FormatCBOR
	case ".jwt":
		return FormatJWT
	default:
		return FormatAuto
	}
}

// LoadData parses input into one tree per document, auto-detecting the format.
// Supports:
// - gzip-compressed input of any of the formats below
// - JWT tokens (3-part base64url-encoded tokens)
// - YAML: multi-document (separated by ---)
// - Newline-delimited JSON (NDJSON): one JSON value per line
// - TOML
// - Single JSON document
// - Single YAML document (the fallback)
//
// CBOR is binary and has no reliable signature, so it is only used when asked
// for with LoadDataAs.
func LoadData(input []byte) ([]tree.Node, error) {
	return LoadDataAs(input, FormatAuto, logr.Discard())
}

// LoadDataAs parses input using format. If an explicit text format fails to
// parse, detection falls back to FormatAuto and the failed attempt is logged
// at V(1).
func LoadDataAs(input []byte, format Format, lgr logr.Logger) ([]tree.Node, error) {
	input, err := maybeGunzip(input)
	if err != nil {
		return nil, err
	}
	switch format {
	case FormatAuto, "":
		return loadAuto(input, lgr)
	case FormatCBOR:
		return loadCBOR(input)
	}

	docs, err := loadAs(input, format)
	if err == nil {
		return docs, nil
	}
	if errors.Is(err, ErrEmptyInput) {
		return nil, err
	}
	lgr.V(1).Info("falling back to format detection", "format", string(format), "error", err.Error())
	docs, autoErr := loadAuto(input, lgr)
	if autoErr != nil {
		return nil, err
	}
	return docs, nil
}

func loadAs(input []byte, format Format) ([]tree.Node, error) {
	text := strings.TrimSpace(string(input))
	if text == "" {
		return nil, ErrEmptyInput
	}
	switch format {
	case FormatJSON:
		return loadJSON(text)
	case FormatNDJSON:
		return loadNDJSON(text)
	case FormatYAML:
		return loadMultiDocYAML(text)
	case FormatTOML:
		return loadTOML(text)
	case FormatJWT:
		return loadJWT(text)
	default:
		return nil, fmt.Errorf("unknown input format %q", format)
	}
}

func loadAuto(input []byte, lgr logr.Logger) ([]tree.Node, error) {
	text := strings.TrimSpace(string(input))
	if text == "" {
		return nil, ErrEmptyInput
	}

	// Check for JWT first (single-line, dot-separated base64url)
	if IsJWT(text) {
		return loadJWT(text)
	}

	if strings.Contains(text, "\n---") || strings.HasPrefix(text, "---") {
		return loadMultiDocYAML(text)
	}

	lines := strings.Split(text, "\n")
	if len(lines) > 1 && isLikelyNDJSON(lines) {
		return loadNDJSON(text)
	}

	// TOML [section] headers look like JSON arrays, so TOML is checked first.
	if isLikelyTOML(text) {
		docs, err := loadTOML(text)
		if err == nil {
			return docs, nil
		}
		lgr.V(1).Info("TOML detection failed, trying JSON and YAML", "error", err.Error())
	}

	if looksLikeJSON(text) {
		docs, err := loadJSON(text)
		if err == nil {
			return docs, nil
		}
		lgr.V(1).Info("JSON parse failed, trying YAML", "error", err.Error())
	}

	return loadYAML(text)
}

// LoadRoot parses input into a single root node. Multi-document inputs are
// returned as an Array of documents.
func LoadRoot(input string) (tree.Node, error) {
	return LoadRootBytes([]byte(input))
}

// LoadRootBytes parses input bytes into a single root node.
func LoadRootBytes(data []byte) (tree.Node, error) {
	return LoadRootAs(data, FormatAuto, logr.Discard())
}

// LoadRootBytesWithLogger is like LoadRootBytes but records fallback parse
// attempts on lgr.
func LoadRootBytesWithLogger(data []byte, lgr logr.Logger) (tree.Node, error) {
	return LoadRootAs(data, FormatAuto, lgr)
}

// LoadRootAs parses data with an explicit format into a single root node.
func LoadRootAs(data []byte, format Format, lgr logr.Logger) (tree.Node, error) {
	docs, err := LoadDataAs(data, format, lgr)
	if err != nil {
		return nil, err
	}
	return rootOf(docs), nil
}

// LoadReader reads r to the end and parses it with format.
func LoadReader(r io.Reader, format Format, lgr logr.Logger) (tree.Node, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return LoadRootAs(data, format, lgr)
}

// LoadFile reads a file and parses it into a single root node.
func LoadFile(path string) (tree.Node, error) {
	return LoadFileWithLogger(path, logr.Discard())
}

// LoadFileWithLogger is like LoadFile but logs the extension-based format
// choice and any fallback parse attempts.
func LoadFileWithLogger(path string, lgr logr.Logger) (tree.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	format := FormatForPath(path)
	lgr.V(1).Info("loading file", "path", path, "format", string(format), "bytes", len(data))
	return LoadRootAs(data, format, lgr)
}

// LoadObject accepts an already parsed value. Strings and byte slices are
// parsed with format detection; anything else is converted with
// tree.FromValue.
func LoadObject(value any) (tree.Node, error) {
	switch v := value.(type) {
	case nil:
		return nil, fmt.Errorf("object input is nil")
	case string:
		return LoadRoot(v)
	case []byte:
		return LoadRootBytes(v)
	default:
		return tree.FromValue(value)
	}
}

func rootOf(docs []tree.Node) tree.Node {
	if len(docs) == 1 {
		return docs[0]
	}
	return tree.Array(docs)
}

var gzipMagic = []byte{0x1f, 0x8b}

func maybeGunzip(input []byte) ([]byte, error) {
	if !bytes.HasPrefix(input, gzipMagic) {
		return input, nil
	}
	zr, err := gzip.NewReader(bytes.NewReader(input))
	if err != nil {
		return nil, fmt.Errorf("invalid gzip: %w", err)
	}
	defer zr.Close()
	out, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("invalid gzip: %w", err)
	}
	return out, nil
}

// looksLikeJSON reports whether text starts like a JSON value.
func looksLikeJSON(text string) bool {
	switch text[0] {
	case '{', '[', '"', '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		return true
	}
	return text == "true" || text == "false" || text == "null"
}

// isLikelyNDJSON heuristic: a majority of non-empty lines must be a whole
// JSON object or array, i.e. open with '{' or '[' and close with '}' or ']'.
// Pretty-printed JSON and YAML with bare list items are not misclassified.
func isLikelyNDJSON(lines []string) bool {
	jsonCount := 0
	nonEmptyCount := 0

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		nonEmptyCount++
		opens := strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[")
		closes := strings.HasSuffix(trimmed, "}") || strings.HasSuffix(trimmed, "]")
		if opens && closes {
			jsonCount++
		}
	}

	return nonEmptyCount > 1 && jsonCount > nonEmptyCount/2
}

var (
	// [server], [[items]], ["table name"], [database.credentials]; not [1, 2, 3].
	tomlSectionPattern = regexp.MustCompile(`^\[{1,2}(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+')+(?:\.(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+'))*\]{1,2}\s*$`)
	// name = "value", "table name" = 1, database.host = "localhost"; not key: value.
	tomlKeyValuePattern = regexp.MustCompile(`^(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+')+(?:\.(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+'))*\s*=\s*.+$`)
)

// isLikelyTOML looks for unindented section headers, or a majority of
// key = value lines. Indented lines never count, which keeps YAML block
// scalars holding ["x"] from looking like TOML.
func isLikelyTOML(input string) bool {
	sectionCount := 0
	keyValueCount := 0
	nonEmptyCount := 0

	for _, line := range strings.Split(input, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		nonEmptyCount++
		if line != strings.TrimLeft(line, " \t") {
			continue
		}
		if tomlSectionPattern.MatchString(line) {
			sectionCount++
		}
		if tomlKeyValuePattern.MatchString(line) {
			keyValueCount++
		}
	}

	if sectionCount > 0 {
		return true
	}
	return nonEmptyCount > 0 && keyValueCount > nonEmptyCount/2
}

// loadTOML decodes TOML. Tables come back as Go maps, so keys are sorted.
func loadTOML(input string) ([]tree.Node, error) {
	var data map[string]any
	if err := toml.Unmarshal([]byte(input), &data); err != nil {
		return nil, fmt.Errorf("invalid TOML: %w", err)
	}
	node, err := tree.FromValue(data)
	if err != nil {
		return nil, fmt.Errorf("invalid TOML: %w", err)
	}
	return []tree.Node{node}, nil
}
