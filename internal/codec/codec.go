// Package codec reads and writes network definitions in the formats the
// bridge exchanges with the outside world.
package codec

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"netsimbridge/internal/domain"
)

// Importer interface for importing network definitions from various formats
type Importer interface {
	Parse(r io.Reader) (domain.NetworkDefinition, error)
	Format() string
}

// Exporter interface for exporting network definitions to various formats
type Exporter interface {
	Export(def domain.NetworkDefinition, w io.Writer) error
	Format() string
}

// Codec both imports and exports one format
type Codec interface {
	Importer
	Exporter
	// Extension is the file extension used for the format, with the dot
	Extension() string
}

// Registered format names
const (
	FormatNetsim = "netsim"
	FormatYAML   = "yaml"
)

var registry = map[string]Codec{}

func register(c Codec) {
	registry[c.Format()] = c
}

func init() {
	register(NewEdgeListCodec())
	register(NewYAMLCodec())
}

// Lookup returns the codec registered for format
func Lookup(format string) (Codec, error) {
	c, ok := registry[format]
	if !ok {
		return nil, fmt.Errorf("unknown format %q (known: %v)", format, Formats())
	}
	return c, nil
}

// Formats lists the registered format names
func Formats() []string {
	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// ForFile picks the codec whose extension matches name. Anything that is not
// a known extension is read as a netsim edge list.
func ForFile(name string) Codec {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == ".yml" {
		ext = ".yaml"
	}
	for _, c := range registry {
		if c.Extension() == ext {
			return c
		}
	}
	return registry[FormatNetsim]
}
