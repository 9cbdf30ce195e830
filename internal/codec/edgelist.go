package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strings"

	"netsimbridge/internal/domain"
)

// ExportPrefix is the assignment every edge-list file starts with
const ExportPrefix = "module.exports"

var (
	// declarationPattern and callPattern are a shallow guard against files that
	// are more than a plain array literal. They are not a sandbox.
	declarationPattern = regexp.MustCompile(`(^|[^\w$.])(var|let|const)\s`)
	callPattern        = regexp.MustCompile(`\(\s*\)`)
	arrayPattern       = regexp.MustCompile(`\[.*\]`)
	newlineReplacer    = strings.NewReplacer("\r", "", "\n", "")
)

// EdgeListCodec handles the netsim edge-list file:
//
//	module.exports = [{"src":"a","dst":"b",...}];
type EdgeListCodec struct{}

// NewEdgeListCodec creates a new edge-list codec
func NewEdgeListCodec() *EdgeListCodec {
	return &EdgeListCodec{}
}

// Format returns the codec format identifier
func (c *EdgeListCodec) Format() string {
	return FormatNetsim
}

// Extension returns the file extension of edge-list files
func (c *EdgeListCodec) Extension() string {
	return ".js"
}

// Serialize renders def as edge-list text
func (c *EdgeListCodec) Serialize(def domain.NetworkDefinition) (string, error) {
	if def == nil {
		def = domain.NetworkDefinition{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(def); err != nil {
		return "", fmt.Errorf("failed to encode edge list: %w", err)
	}

	return ExportPrefix + " = " + strings.TrimSuffix(buf.String(), "\n") + ";", nil
}

// ParseString extracts the edge list from edge-list text
func (c *EdgeListCodec) ParseString(text string) (domain.NetworkDefinition, error) {
	if declarationPattern.MatchString(text) {
		return nil, &domain.FormatError{Reason: "variable declarations are not allowed"}
	}
	if callPattern.MatchString(text) {
		return nil, &domain.FormatError{Reason: "function calls are not allowed"}
	}

	text = newlineReplacer.Replace(text)

	idx := strings.LastIndex(text, ExportPrefix)
	if idx < 0 {
		return nil, &domain.FormatError{Reason: "missing " + ExportPrefix}
	}
	literal := arrayPattern.FindString(text[idx+len(ExportPrefix):])
	if literal == "" {
		return nil, &domain.FormatError{Reason: "no edge array found"}
	}

	var raw any
	if err := json.Unmarshal([]byte(literal), &raw); err != nil {
		return nil, &domain.FormatError{Reason: "malformed edge array", Err: err}
	}
	if _, ok := raw.([]any); !ok {
		return nil, &domain.FormatError{Reason: "edge list is not an array"}
	}

	var def domain.NetworkDefinition
	if err := json.Unmarshal([]byte(literal), &def); err != nil {
		return nil, &domain.FormatError{Reason: "malformed edge", Err: err}
	}
	if len(def) == 0 {
		return nil, &domain.FormatError{Reason: "empty edge list", Err: domain.ErrEmptyDefinition}
	}
	return def, nil
}

// Parse imports a network definition from edge-list text
func (c *EdgeListCodec) Parse(r io.Reader) (domain.NetworkDefinition, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read edge list: %w", err)
	}
	return c.ParseString(string(data))
}

// Export writes def as edge-list text
func (c *EdgeListCodec) Export(def domain.NetworkDefinition, w io.Writer) error {
	text, err := c.Serialize(def)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w, text); err != nil {
		return fmt.Errorf("failed to write edge list: %w", err)
	}
	return nil
}
