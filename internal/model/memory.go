package model

import (
	"context"
	"fmt"
	"sync"

	"netsimbridge/internal/domain"
)

// MemoryStore is an in-process Store. Handles it returns are snapshots;
// writes go through the store and update both the record and the handle.
type MemoryStore struct {
	mu    sync.RWMutex
	nodes map[string]*Node
}

// NewMemoryStore creates a store holding a root and the seeded meta types
func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{nodes: make(map[string]*Node)}
	s.nodes[RootPath] = NewNode(NodeData{Path: RootPath, Attributes: map[string]any{AttrName: "ROOT"}})

	s.insert(NodeData{
		Path:       MetaPath(domain.KindFCO),
		Parent:     RootPath,
		Attributes: map[string]any{AttrName: string(domain.KindFCO)},
	})
	for _, kind := range domain.Kinds {
		s.insert(NodeData{
			Path:       MetaPath(kind),
			Parent:     RootPath,
			Base:       MetaPath(domain.KindFCO),
			Attributes: map[string]any{AttrName: string(kind)},
		})
	}
	return s
}

func (s *MemoryStore) insert(data NodeData) *Node {
	n := NewNode(data)
	s.nodes[n.path] = n
	if parent, ok := s.nodes[n.parent]; ok && n.path != RootPath {
		parent.ApplyChild(n.path)
	}
	return n
}

func (s *MemoryStore) snapshot(path string) *Node {
	n, ok := s.nodes[path]
	if !ok {
		return nil
	}
	return NewNode(n.Data())
}

// Root returns the model root
func (s *MemoryStore) Root(ctx context.Context) (*Node, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot(RootPath), nil
}

// Meta returns the seeded meta types
func (s *MemoryStore) Meta(ctx context.Context) (*Meta, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return &Meta{
		FCO:        s.snapshot(MetaPath(domain.KindFCO)),
		Network:    s.snapshot(MetaPath(domain.KindNetwork)),
		Node:       s.snapshot(MetaPath(domain.KindNode)),
		Connection: s.snapshot(MetaPath(domain.KindConnection)),
	}, nil
}

// Load retrieves a node by path, nil when absent
func (s *MemoryStore) Load(ctx context.Context, path string) (*Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot(path), nil
}

// LoadChildren returns the direct children of node
func (s *MemoryStore) LoadChildren(ctx context.Context, node *Node) ([]*Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.nodes[node.Path()]
	if !ok {
		return nil, fmt.Errorf("load children of %q: %w", node.Path(), ErrNodeNotFound)
	}
	children := make([]*Node, 0, len(stored.children))
	for _, path := range stored.children {
		children = append(children, s.snapshot(path))
	}
	return children, nil
}

// CreateNode creates a child of params.Parent derived from params.Base
func (s *MemoryStore) CreateNode(ctx context.Context, params CreateParams) (*Node, error) {
	if params.Parent == nil {
		return nil, fmt.Errorf("create node: parent is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.nodes[params.Parent.Path()]; !ok {
		return nil, fmt.Errorf("create node under %q: %w", params.Parent.Path(), ErrNodeNotFound)
	}

	data := NodeData{Parent: params.Parent.Path()}
	if params.Base != nil {
		data.Base = params.Base.Path()
	}
	for {
		data.Path = ChildPath(data.Parent, NewRelID())
		if _, taken := s.nodes[data.Path]; !taken {
			break
		}
	}

	s.insert(data)
	params.Parent.ApplyChild(data.Path)
	return s.snapshot(data.Path), nil
}

// SetAttribute sets an attribute value
func (s *MemoryStore) SetAttribute(ctx context.Context, node *Node, key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.nodes[node.Path()]
	if !ok {
		return fmt.Errorf("set attribute %q on %q: %w", key, node.Path(), ErrNodeNotFound)
	}
	stored.ApplyAttribute(key, value)
	node.ApplyAttribute(key, value)
	return nil
}

// SetPointer points role of node at target
func (s *MemoryStore) SetPointer(ctx context.Context, node *Node, role string, target *Node) error {
	if target == nil {
		return fmt.Errorf("set pointer %q on %q: target is required", role, node.Path())
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.nodes[node.Path()]
	if !ok {
		return fmt.Errorf("set pointer %q on %q: %w", role, node.Path(), ErrNodeNotFound)
	}
	if _, ok := s.nodes[target.Path()]; !ok {
		return fmt.Errorf("set pointer %q to %q: %w", role, target.Path(), ErrNodeNotFound)
	}
	stored.ApplyPointer(role, target.Path())
	node.ApplyPointer(role, target.Path())
	return nil
}

// SetPosition sets the position registry
func (s *MemoryStore) SetPosition(ctx context.Context, node *Node, pos domain.Position) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.nodes[node.Path()]
	if !ok {
		return fmt.Errorf("set position on %q: %w", node.Path(), ErrNodeNotFound)
	}
	stored.ApplyPosition(pos)
	node.ApplyPosition(pos)
	return nil
}

// Len returns the number of stored nodes including root and meta types
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.nodes)
}

// Close is a no-op
func (s *MemoryStore) Close() error { return nil }

// FindByBase returns the nodes whose base is basePath in tree order
func (s *MemoryStore) FindByBase(ctx context.Context, basePath string) ([]*Node, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var found []*Node
	var walk func(path string)
	walk = func(path string) {
		n := s.nodes[path]
		if n.base == basePath && path != RootPath {
			found = append(found, s.snapshot(path))
		}
		for _, child := range n.children {
			walk(child)
		}
	}
	walk(RootPath)
	return found, nil
}

var _ Store = (*MemoryStore)(nil)
