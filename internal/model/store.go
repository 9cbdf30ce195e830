package model

import (
	"context"
	"errors"
	"strings"

	"netsimbridge/internal/domain"

	"github.com/google/uuid"
)

// ErrNodeNotFound is returned by store writes that address a missing node
var ErrNodeNotFound = errors.New("node not found")

// Store is the host model store consumed by the bridge
type Store interface {
	// Read operations
	Root(ctx context.Context) (*Node, error)
	Meta(ctx context.Context) (*Meta, error)
	Load(ctx context.Context, path string) (*Node, error)
	LoadChildren(ctx context.Context, node *Node) ([]*Node, error)

	// Write operations
	CreateNode(ctx context.Context, params CreateParams) (*Node, error)
	SetAttribute(ctx context.Context, node *Node, key string, value any) error
	SetPointer(ctx context.Context, node *Node, role string, target *Node) error
	SetPosition(ctx context.Context, node *Node, pos domain.Position) error

	// Close releases resources
	Close() error
}

// CreateParams describes a node to create
type CreateParams struct {
	Parent *Node
	Base   *Node
}

// Meta holds the meta type nodes of a model
type Meta struct {
	FCO        *Node
	Network    *Node
	Node       *Node
	Connection *Node
}

// ByKind returns the meta node for a kind, nil for unknown kinds
func (m *Meta) ByKind(kind domain.Kind) *Node {
	switch kind {
	case domain.KindFCO:
		return m.FCO
	case domain.KindNetwork:
		return m.Network
	case domain.KindNode:
		return m.Node
	case domain.KindConnection:
		return m.Connection
	}
	return nil
}

// Nodes returns all meta nodes, FCO first
func (m *Meta) Nodes() []*Node {
	return []*Node{m.FCO, m.Network, m.Node, m.Connection}
}

// MetaPath is the path a kind's meta node is seeded at
func MetaPath(kind domain.Kind) string {
	return "/" + string(kind)
}

// ChildPath joins a parent path and a relative id
func ChildPath(parent, relid string) string {
	return parent + "/" + relid
}

// ParentOf returns the parent path of a path
func ParentOf(path string) string {
	i := strings.LastIndex(path, "/")
	if i <= 0 {
		return RootPath
	}
	return path[:i]
}

// NewRelID generates a relative id for a new node
func NewRelID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}
