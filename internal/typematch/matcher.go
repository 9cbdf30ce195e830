// Package typematch answers "is this node an instance of that type" for
// model nodes.
package typematch

import (
	"context"
	"fmt"
	"sync"

	"netsimbridge/internal/domain"
	"netsimbridge/internal/model"
)

// BaseLookup returns the base path of the node at path, or false when the
// node cannot be resolved
type BaseLookup func(path string) (base string, ok bool)

// Matcher classifies nodes against the meta types of one store.
// Ancestor sets of the meta types are computed at construction; other types
// met on a base chain are resolved through the lookup and memoized.
type Matcher struct {
	meta   *model.Meta
	kinds  map[string]domain.Kind
	lookup BaseLookup

	mu    sync.Mutex
	bases map[string]string
	// ancestors maps a type path to every path on its base chain, itself included
	ancestors map[string]map[string]struct{}
}

// NewMatcher loads the store's meta types and precomputes their ancestry.
// Bases outside the meta types are loaded from store with ctx on first use.
func NewMatcher(ctx context.Context, store model.Store) (*Matcher, error) {
	meta, err := store.Meta(ctx)
	if err != nil {
		return nil, fmt.Errorf("load meta types: %w", err)
	}
	m := FromMeta(meta)
	m.lookup = func(path string) (string, bool) {
		n, err := store.Load(ctx, path)
		if err != nil || n == nil {
			return "", false
		}
		return n.BasePath(), true
	}
	return m, nil
}

// FromMeta builds a matcher from already loaded meta types. It cannot
// resolve bases outside them until WithLookup is set.
func FromMeta(meta *model.Meta) *Matcher {
	m := &Matcher{
		meta:      meta,
		kinds:     make(map[string]domain.Kind),
		bases:     make(map[string]string),
		ancestors: make(map[string]map[string]struct{}),
	}

	for _, n := range meta.Nodes() {
		if n != nil {
			m.bases[n.Path()] = n.BasePath()
		}
	}
	for path := range m.bases {
		m.ancestorsOf(path)
	}

	for _, kind := range append([]domain.Kind{domain.KindFCO}, domain.Kinds...) {
		if n := meta.ByKind(kind); n != nil {
			m.kinds[n.Path()] = kind
		}
	}
	return m
}

// WithLookup sets how bases outside the meta types are resolved
func (m *Matcher) WithLookup(lookup BaseLookup) *Matcher {
	m.mu.Lock()
	m.lookup = lookup
	m.mu.Unlock()
	return m
}

// Meta returns the meta types the matcher was built from
func (m *Matcher) Meta() *model.Meta {
	return m.meta
}

// IsTypeOf reports whether node is typeNode or derives from it through its
// base chain. Either argument being nil yields false.
func (m *Matcher) IsTypeOf(node, typeNode *model.Node) bool {
	if node == nil || typeNode == nil {
		return false
	}
	target := typeNode.Path()
	if node.Path() == target {
		return true
	}
	base := node.BasePath()
	if base == "" {
		return false
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	_, found := m.ancestorsOf(base)[target]
	return found
}

// ancestorsOf returns path and every path on its base chain. The chain ends
// at a type without base or one that cannot be resolved. Callers hold mu.
func (m *Matcher) ancestorsOf(path string) map[string]struct{} {
	if set, ok := m.ancestors[path]; ok {
		return set
	}

	var (
		chain []string
		tail  map[string]struct{}
		seen  = make(map[string]struct{})
	)
	for cur := path; cur != ""; {
		if set, ok := m.ancestors[cur]; ok {
			tail = set
			break
		}
		if _, loop := seen[cur]; loop {
			break
		}
		seen[cur] = struct{}{}
		chain = append(chain, cur)

		base, ok := m.baseOf(cur)
		if !ok {
			break
		}
		cur = base
	}

	for i := len(chain) - 1; i >= 0; i-- {
		set := make(map[string]struct{}, len(tail)+1)
		for p := range tail {
			set[p] = struct{}{}
		}
		set[chain[i]] = struct{}{}
		m.ancestors[chain[i]] = set
		tail = set
	}
	return m.ancestors[path]
}

func (m *Matcher) baseOf(path string) (string, bool) {
	if base, ok := m.bases[path]; ok {
		return base, true
	}
	if m.lookup == nil {
		return "", false
	}
	base, ok := m.lookup(path)
	if ok {
		m.bases[path] = base
	}
	return base, ok
}

// Classify returns the most specific kind node belongs to
func (m *Matcher) Classify(node *model.Node) domain.Kind {
	if node == nil {
		return domain.KindUnknown
	}
	for _, kind := range domain.Kinds {
		if m.IsTypeOf(node, m.meta.ByKind(kind)) {
			return kind
		}
	}
	if m.IsTypeOf(node, m.meta.FCO) {
		return domain.KindFCO
	}
	return domain.KindUnknown
}

// Is reports whether node belongs to kind
func (m *Matcher) Is(node *model.Node, kind domain.Kind) bool {
	return m.IsTypeOf(node, m.meta.ByKind(kind))
}
