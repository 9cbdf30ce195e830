package codec

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"

	"netsimbridge/internal/domain"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleEdgeList = `module.exports = [{"src":"n1","dst":"n2","packetLoss":0.1,"latencyMean":5,"latencySigma":1,"srcPosition":{"x":10,"y":20},"dstPosition":{"x":30,"y":40}}];`

func sampleDefinition() domain.NetworkDefinition {
	return domain.NetworkDefinition{
		*domain.NewEdgeRecord("n1", "n2").
			WithLatency(0.1, 5, 1).
			WithPositions(domain.NewPosition(10, 20), domain.NewPosition(30, 40)),
	}
}

func TestEdgeListSerialize(t *testing.T) {
	c := NewEdgeListCodec()

	t.Run("matches the wire format exactly", func(t *testing.T) {
		text, err := c.Serialize(sampleDefinition())
		require.NoError(t, err)
		assert.Equal(t, sampleEdgeList, text)
	})

	t.Run("omits absent positions", func(t *testing.T) {
		text, err := c.Serialize(domain.NetworkDefinition{*domain.NewEdgeRecord("a", "b")})
		require.NoError(t, err)
		assert.Equal(t, `module.exports = [{"src":"a","dst":"b","packetLoss":0,"latencyMean":0,"latencySigma":0}];`, text)
	})

	t.Run("does not escape html characters", func(t *testing.T) {
		text, err := c.Serialize(domain.NetworkDefinition{*domain.NewEdgeRecord("a<b>", "c&d")})
		require.NoError(t, err)
		assert.Contains(t, text, `"src":"a<b>","dst":"c&d"`)
	})

	t.Run("nil definition", func(t *testing.T) {
		text, err := c.Serialize(nil)
		require.NoError(t, err)
		assert.Equal(t, "module.exports = [];", text)
	})
}

func TestEdgeListParse(t *testing.T) {
	c := NewEdgeListCodec()

	t.Run("sample file", func(t *testing.T) {
		def, err := c.ParseString(sampleEdgeList)
		require.NoError(t, err)
		assert.Equal(t, sampleDefinition(), def)
	})

	t.Run("newlines and indentation", func(t *testing.T) {
		text := "// generated\nmodule.exports = [\n  {\"src\": \"a\",\r\n   \"dst\": \"b\"},\n  {\"src\": \"b\", \"dst\": \"c\"}\n];\n"
		def, err := c.ParseString(text)
		require.NoError(t, err)
		require.Len(t, def, 2)
		assert.Equal(t, "b->c", def[1].Key())
		assert.Nil(t, def[0].SrcPosition)
	})

	t.Run("uses the last export", func(t *testing.T) {
		text := `module.exports = [{"src":"old","dst":"x"}]; module.exports = [{"src":"new","dst":"x"}];`
		def, err := c.ParseString(text)
		require.NoError(t, err)
		assert.Equal(t, "new", def[0].Src)
	})

	t.Run("reader variant", func(t *testing.T) {
		def, err := c.Parse(strings.NewReader(sampleEdgeList))
		require.NoError(t, err)
		assert.Len(t, def, 1)
	})
}

func TestEdgeListParseRejects(t *testing.T) {
	c := NewEdgeListCodec()

	tests := []struct {
		name  string
		input string
	}{
		{"call-like syntax", `module.exports = [{"src":"a()"}];`},
		{"call with spaces", `module.exports = [{"src":"a( )","dst":"b"}];`},
		{"var declaration", "var edges = [{\"src\":\"a\",\"dst\":\"b\"}];\nmodule.exports = edges;"},
		{"const declaration", `const e = 1; module.exports = [{"src":"a","dst":"b"}];`},
		{"let declaration", `let e; module.exports = [{"src":"a","dst":"b"}];`},
		{"empty array", `module.exports = [];`},
		{"missing prefix", `[{"src":"a","dst":"b"}]`},
		{"no array literal", `module.exports = {"src":"a"};`},
		{"malformed json", `module.exports = [{"src":"a",}];`},
		{"non-object element", `module.exports = [1, 2];`},
		{"empty input", ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def, err := c.ParseString(tt.input)
			assert.Nil(t, def)
			var formatErr *domain.FormatError
			require.True(t, errors.As(err, &formatErr), "got %v", err)
		})
	}

	t.Run("empty array wraps ErrEmptyDefinition", func(t *testing.T) {
		_, err := c.ParseString(`module.exports = [];`)
		assert.ErrorIs(t, err, domain.ErrEmptyDefinition)
	})
}

func TestEdgeListExport(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewEdgeListCodec().Export(sampleDefinition(), &buf))
	assert.Equal(t, sampleEdgeList, buf.String())
}

func TestEdgeListRoundTrip(t *testing.T) {
	c := NewEdgeListCodec()
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("parse(serialize(D)) == D", prop.ForAll(
		func(first domain.EdgeRecord, rest []domain.EdgeRecord) bool {
			def := append(domain.NetworkDefinition{first}, rest...)
			text, err := c.Serialize(def)
			if err != nil {
				return false
			}
			parsed, err := c.ParseString(text)
			if err != nil {
				return false
			}
			return reflect.DeepEqual(def, parsed)
		},
		genEdge(),
		gen.SliceOf(genEdge()),
	))

	properties.TestingRun(t)
}
