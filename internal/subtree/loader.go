// Package subtree loads every descendant of a model node into a path-keyed
// cache.
//
// Children of a node are fetched with one goroutine per child, and each child
// starts loading its own subtree as soon as it arrives. Siblings never wait
// for each other. Failure handling keeps the first error seen anywhere in the
// traversal but lets every other branch run to completion.
package subtree

import (
	"context"
	"sync"
	"time"

	"netsimbridge/internal/domain"
	"netsimbridge/internal/model"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Cache maps node paths to loaded nodes
type Cache map[string]*model.Node

// Get looks up a node by path
func (c Cache) Get(path string) (*model.Node, bool) {
	n, ok := c[path]
	return n, ok
}

// Paths returns the cached paths in no particular order
func (c Cache) Paths() []string {
	out := make([]string, 0, len(c))
	for path := range c {
		out = append(out, path)
	}
	return out
}

// Observer receives traversal statistics
type Observer interface {
	ObserveSubtreeLoad(nodes int, elapsed time.Duration, err error)
}

// Loader traverses a store
type Loader struct {
	store    model.Store
	logger   *zap.Logger
	observer Observer
}

// NewLoader creates a loader over store
func NewLoader(store model.Store, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{store: store, logger: logger}
}

// SetObserver sets the receiver of traversal statistics
func (l *Loader) SetObserver(o Observer) {
	l.observer = o
}

// Load fetches the strict descendants of root.
// The returned cache holds whatever was loaded even when err is non-nil.
func (l *Loader) Load(ctx context.Context, root *model.Node) (Cache, error) {
	start := time.Now()
	t := &traversal{store: l.store, cache: make(Cache)}

	err := t.load(ctx, root)

	elapsed := time.Since(start)
	if l.observer != nil {
		l.observer.ObserveSubtreeLoad(len(t.cache), elapsed, err)
	}
	if err != nil {
		l.logger.Warn("subtree load failed",
			zap.String("root", root.Path()),
			zap.Int("nodes", len(t.cache)),
			zap.Duration("elapsed", elapsed),
			zap.Error(err))
		return t.cache, err
	}

	l.logger.Debug("subtree loaded",
		zap.String("root", root.Path()),
		zap.Int("nodes", len(t.cache)),
		zap.Duration("elapsed", elapsed))
	return t.cache, nil
}

// traversal is the state of one Load call
type traversal struct {
	store model.Store

	mu    sync.Mutex
	cache Cache
}

func (t *traversal) record(n *model.Node) {
	t.mu.Lock()
	t.cache[n.Path()] = n
	t.mu.Unlock()
}

// load completes when the subtrees of all children of node have completed.
// errgroup.Group without a derived context keeps the first error and does
// not cancel the other branches.
func (t *traversal) load(ctx context.Context, node *model.Node) error {
	children, err := t.store.LoadChildren(ctx, node)
	if err != nil {
		return &domain.LoadError{Path: node.Path(), Err: err}
	}
	if len(children) == 0 {
		return nil
	}

	var g errgroup.Group
	for _, child := range children {
		child := child
		t.record(child)
		g.Go(func() error {
			return t.load(ctx, child)
		})
	}
	return g.Wait()
}
