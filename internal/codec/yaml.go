package codec

import (
	"fmt"
	"io"

	"netsimbridge/internal/domain"

	"gopkg.in/yaml.v3"
)

// YAMLCodec handles a readable YAML rendition of a network definition
type YAMLCodec struct{}

// NewYAMLCodec creates a new YAML codec
func NewYAMLCodec() *YAMLCodec {
	return &YAMLCodec{}
}

// Format returns the codec format identifier
func (c *YAMLCodec) Format() string {
	return FormatYAML
}

// Extension returns the file extension of YAML files
func (c *YAMLCodec) Extension() string {
	return ".yaml"
}

// yamlNetwork represents the YAML structure for a network
type yamlNetwork struct {
	Edges []domain.EdgeRecord `yaml:"edges"`
}

// Parse imports a network definition from YAML
func (c *YAMLCodec) Parse(r io.Reader) (domain.NetworkDefinition, error) {
	var yn yamlNetwork
	if err := yaml.NewDecoder(r).Decode(&yn); err != nil {
		if err == io.EOF {
			return nil, &domain.FormatError{Reason: "empty edge list", Err: domain.ErrEmptyDefinition}
		}
		return nil, &domain.FormatError{Reason: "malformed YAML", Err: err}
	}
	if len(yn.Edges) == 0 {
		return nil, &domain.FormatError{Reason: "empty edge list", Err: domain.ErrEmptyDefinition}
	}
	return domain.NetworkDefinition(yn.Edges), nil
}

// Export exports a network definition to YAML
func (c *YAMLCodec) Export(def domain.NetworkDefinition, w io.Writer) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer encoder.Close()

	if err := encoder.Encode(yamlNetwork{Edges: def}); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return nil
}
