package topology

import (
	"context"
	"testing"

	"netsimbridge/internal/domain"
	"netsimbridge/internal/model"
	"netsimbridge/internal/subtree"
	"netsimbridge/internal/typematch"

	"github.com/stretchr/testify/require"
)

type fixture struct {
	ctx       context.Context
	store     *model.MemoryStore
	meta      *model.Meta
	builder   *Builder
	extractor *Extractor
	loader    *subtree.Loader
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := model.NewMemoryStore()
	matcher, err := typematch.NewMatcher(ctx, store)
	require.NoError(t, err)

	return &fixture{
		ctx:       ctx,
		store:     store,
		meta:      matcher.Meta(),
		builder:   NewBuilder(store, matcher.Meta(), nil),
		extractor: NewExtractor(matcher),
		loader:    subtree.NewLoader(store, nil),
	}
}

// roundTrip imports def and exports the resulting network again
func (f *fixture) roundTrip(def domain.NetworkDefinition) (domain.NetworkDefinition, *model.Node, error) {
	network, err := f.builder.Build(f.ctx, def, Synthesize(def), "x")
	if err != nil {
		return nil, network, err
	}
	cache, err := f.loader.Load(f.ctx, network)
	if err != nil {
		return nil, network, err
	}
	out, err := f.extractor.Extract(cache, network)
	return out, network, err
}
