package codec

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"netsimbridge/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestYAMLRoundTrip(t *testing.T) {
	c := NewYAMLCodec()
	def := append(sampleDefinition(), *domain.NewEdgeRecord("n2", "n3").WithLatency(0, 2.5, 0))

	var buf bytes.Buffer
	require.NoError(t, c.Export(def, &buf))
	assert.Contains(t, buf.String(), "packetLoss: 0.1")

	parsed, err := c.Parse(&buf)
	require.NoError(t, err)
	assert.Equal(t, def, parsed)
}

func TestYAMLParseRejectsEmpty(t *testing.T) {
	c := NewYAMLCodec()
	for _, input := range []string{"", "edges: []\n"} {
		_, err := c.Parse(strings.NewReader(input))
		var formatErr *domain.FormatError
		assert.True(t, errors.As(err, &formatErr), "input %q", input)
	}
}

func TestLookup(t *testing.T) {
	c, err := Lookup("netsim")
	require.NoError(t, err)
	assert.Equal(t, ".js", c.Extension())

	c, err = Lookup("yaml")
	require.NoError(t, err)
	assert.Equal(t, "yaml", c.Format())

	_, err = Lookup("graphml")
	assert.Error(t, err)
	assert.Equal(t, []string{"netsim", "yaml"}, Formats())
}

func TestForFile(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"office.js", FormatNetsim},
		{"office.yaml", FormatYAML},
		{"OFFICE.YML", FormatYAML},
		{"office", FormatNetsim},
		{"office.txt", FormatNetsim},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ForFile(tt.name).Format())
		})
	}
}
