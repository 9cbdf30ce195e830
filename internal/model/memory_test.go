package model

import (
	"context"
	"testing"

	"netsimbridge/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreSeedsMeta(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	meta, err := store.Meta(ctx)
	require.NoError(t, err)

	assert.Equal(t, "/FCO", meta.FCO.Path())
	assert.Empty(t, meta.FCO.BasePath())
	for _, kind := range domain.Kinds {
		n := meta.ByKind(kind)
		require.NotNil(t, n, kind)
		assert.Equal(t, MetaPath(kind), n.Path())
		assert.Equal(t, "/FCO", n.BasePath())
		assert.Equal(t, string(kind), n.Name())
	}
	assert.Nil(t, meta.ByKind(domain.KindUnknown))

	root, err := store.Root(ctx)
	require.NoError(t, err)
	assert.True(t, root.IsRoot())
	assert.Len(t, root.ChildPaths(), 4)
}

func TestMemoryStoreCreateAndLoad(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	meta, _ := store.Meta(ctx)
	root, _ := store.Root(ctx)

	network, err := store.CreateNode(ctx, CreateParams{Parent: root, Base: meta.Network})
	require.NoError(t, err)
	assert.Equal(t, RootPath, network.ParentPath())
	assert.Equal(t, meta.Network.Path(), network.BasePath())
	assert.Contains(t, root.ChildPaths(), network.Path(), "parent handle sees the new child")

	a, err := store.CreateNode(ctx, CreateParams{Parent: network, Base: meta.Node})
	require.NoError(t, err)
	b, err := store.CreateNode(ctx, CreateParams{Parent: network, Base: meta.Node})
	require.NoError(t, err)
	assert.Equal(t, network.Path(), ParentOf(a.Path()))

	require.NoError(t, store.SetAttribute(ctx, a, AttrName, "a"))
	require.NoError(t, store.SetPosition(ctx, a, domain.Position{X: 1, Y: 2}))
	require.NoError(t, store.SetPointer(ctx, b, PointerSrc, a))

	t.Run("writes are visible through the handle", func(t *testing.T) {
		assert.Equal(t, "a", a.Name())
		assert.Equal(t, &domain.Position{X: 1, Y: 2}, a.Position())
		target, ok := b.PointerPath(PointerSrc)
		assert.True(t, ok)
		assert.Equal(t, a.Path(), target)
	})

	t.Run("writes are visible through a fresh load", func(t *testing.T) {
		loaded, err := store.Load(ctx, a.Path())
		require.NoError(t, err)
		assert.Equal(t, "a", loaded.Name())
		assert.Equal(t, 1.0, loaded.Position().X)
	})

	t.Run("children keep creation order", func(t *testing.T) {
		children, err := store.LoadChildren(ctx, network)
		require.NoError(t, err)
		require.Len(t, children, 2)
		assert.Equal(t, a.Path(), children[0].Path())
		assert.Equal(t, b.Path(), children[1].Path())
	})

	t.Run("missing node", func(t *testing.T) {
		missing, err := store.Load(ctx, "/nope")
		require.NoError(t, err)
		assert.Nil(t, missing)

		ghost := NewNode(NodeData{Path: "/nope"})
		_, err = store.LoadChildren(ctx, ghost)
		assert.ErrorIs(t, err, ErrNodeNotFound)
		assert.ErrorIs(t, store.SetAttribute(ctx, ghost, AttrName, "x"), ErrNodeNotFound)
		assert.ErrorIs(t, store.SetPointer(ctx, a, PointerDst, ghost), ErrNodeNotFound)
	})

	t.Run("snapshots do not alias", func(t *testing.T) {
		loaded, _ := store.Load(ctx, a.Path())
		pos := loaded.Position()
		pos.X = 99
		assert.Equal(t, 1.0, loaded.Position().X)
	})
}

func TestNodeAttributeFloat(t *testing.T) {
	n := NewNode(NodeData{Path: "/x", Attributes: map[string]any{
		"f": 0.5, "i": 3, "s": "text",
	}})
	assert.Equal(t, 0.5, n.AttributeFloat("f"))
	assert.Equal(t, 3.0, n.AttributeFloat("i"))
	assert.Equal(t, 0.0, n.AttributeFloat("s"))
	assert.Equal(t, 0.0, n.AttributeFloat("missing"))
	assert.Equal(t, "x", n.RelID())
}

func TestMemoryStoreFindByBase(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	meta, _ := store.Meta(ctx)
	root, _ := store.Root(ctx)

	first, err := store.CreateNode(ctx, CreateParams{Parent: root, Base: meta.Network})
	require.NoError(t, err)
	_, err = store.CreateNode(ctx, CreateParams{Parent: first, Base: meta.Node})
	require.NoError(t, err)
	second, err := store.CreateNode(ctx, CreateParams{Parent: root, Base: meta.Network})
	require.NoError(t, err)

	networks, err := store.FindByBase(ctx, meta.Network.Path())
	require.NoError(t, err)
	require.Len(t, networks, 2)
	assert.Equal(t, first.Path(), networks[0].Path())
	assert.Equal(t, second.Path(), networks[1].Path())
}
