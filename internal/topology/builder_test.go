package topology

import (
	"errors"
	"testing"

	"netsimbridge/internal/codec"
	"netsimbridge/internal/domain"
	"netsimbridge/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNetworkName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"office.js", "office (IMPORTED)"},
		{"backbone.v2.js", "backbone.v2 (IMPORTED)"},
		{"plain", "plain (IMPORTED)"},
		{"", " (IMPORTED)"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, NetworkName(tt.input))
		})
	}
}

func TestBuildSampleFile(t *testing.T) {
	f := newFixture(t)
	text := `module.exports = [{"src":"n1","dst":"n2","packetLoss":0.1,"latencyMean":5,"latencySigma":1,"srcPosition":{"x":10,"y":20},"dstPosition":{"x":30,"y":40}}];`

	def, err := codec.NewEdgeListCodec().ParseString(text)
	require.NoError(t, err)

	network, err := f.builder.Build(f.ctx, def, Synthesize(def), "sample.js")
	require.NoError(t, err)
	assert.Equal(t, "sample (IMPORTED)", network.Name())
	assert.Equal(t, f.meta.Network.Path(), network.BasePath())
	assert.Equal(t, model.RootPath, network.ParentPath())

	children, err := f.store.LoadChildren(f.ctx, network)
	require.NoError(t, err)
	require.Len(t, children, 3)

	byName := map[string]*model.Node{}
	var conn *model.Node
	for _, c := range children {
		switch c.BasePath() {
		case f.meta.Node.Path():
			byName[c.Name()] = c
		case f.meta.Connection.Path():
			conn = c
		}
	}

	require.Contains(t, byName, "n1")
	require.Contains(t, byName, "n2")
	assert.Equal(t, &domain.Position{X: 10, Y: 20}, byName["n1"].Position())
	assert.Equal(t, &domain.Position{X: 30, Y: 40}, byName["n2"].Position())

	require.NotNil(t, conn)
	src, _ := conn.PointerPath(model.PointerSrc)
	dst, _ := conn.PointerPath(model.PointerDst)
	assert.Equal(t, byName["n1"].Path(), src)
	assert.Equal(t, byName["n2"].Path(), dst)
	assert.Equal(t, 0.1, conn.AttributeFloat(model.AttrPacketLoss))
	assert.Equal(t, 5.0, conn.AttributeFloat(model.AttrLatencyMean))
	assert.Equal(t, 1.0, conn.AttributeFloat(model.AttrLatencyVariance))

	t.Run("export reproduces the edge", func(t *testing.T) {
		cache, err := f.loader.Load(f.ctx, network)
		require.NoError(t, err)
		out, err := f.extractor.Extract(cache, network)
		require.NoError(t, err)
		assert.Equal(t, def, out)
	})
}

func TestBuildConsistencyError(t *testing.T) {
	f := newFixture(t)
	def := domain.NetworkDefinition{*domain.NewEdgeRecord("a", "b")}
	vnodes := map[string]domain.VirtualNode{"a": {ID: "a", Position: domain.DefaultPosition}}

	network, err := f.builder.Build(f.ctx, def, vnodes, "broken.js")

	var consistencyErr *domain.ConsistencyError
	require.True(t, errors.As(err, &consistencyErr))
	assert.Equal(t, "b", consistencyErr.Name)
	assert.Equal(t, model.PointerDst, consistencyErr.Role)
	assert.False(t, domain.IsUserError(err))

	require.NotNil(t, network, "partial network is left behind")
	children, err := f.store.LoadChildren(f.ctx, network)
	require.NoError(t, err)
	assert.Len(t, children, 1)
}

func TestBuildSharedEndpoints(t *testing.T) {
	f := newFixture(t)
	def := domain.NetworkDefinition{
		*domain.NewEdgeRecord("hub", "a"),
		*domain.NewEdgeRecord("hub", "b"),
		*domain.NewEdgeRecord("a", "b"),
	}

	network, err := f.builder.Build(f.ctx, def, Synthesize(def), "star.js")
	require.NoError(t, err)
	assert.Len(t, network.ChildPaths(), 3+3)
}
