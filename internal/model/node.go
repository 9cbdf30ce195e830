package model

import (
	"strings"

	"netsimbridge/internal/domain"
)

// Attribute keys used by the netsim meta model
const (
	AttrName            = "name"
	AttrPacketLoss      = "packet loss"
	AttrLatencyMean     = "latency mean"
	AttrLatencyVariance = "latency variance"
)

// Pointer roles of a Connection
const (
	PointerSrc = "src"
	PointerDst = "dst"
)

// RootPath is the path of the model root
const RootPath = ""

// Node is a handle to a node of the model store
type Node struct {
	path       string
	parent     string
	base       string
	attributes map[string]any
	pointers   map[string]string
	position   *domain.Position
	children   []string
}

// NodeData is the raw state used by store implementations to build handles
type NodeData struct {
	Path       string
	Parent     string
	Base       string
	Attributes map[string]any
	Pointers   map[string]string
	Position   *domain.Position
	Children   []string
}

// NewNode builds a handle from raw store data
func NewNode(data NodeData) *Node {
	n := &Node{
		path:       data.Path,
		parent:     data.Parent,
		base:       data.Base,
		attributes: data.Attributes,
		pointers:   data.Pointers,
		position:   data.Position,
		children:   data.Children,
	}
	if n.attributes == nil {
		n.attributes = make(map[string]any)
	}
	if n.pointers == nil {
		n.pointers = make(map[string]string)
	}
	return n
}

// Path returns the stable identifier of the node
func (n *Node) Path() string { return n.path }

// ParentPath returns the path of the containing node
func (n *Node) ParentPath() string { return n.parent }

// BasePath returns the path of the node's base type, "" when it has none
func (n *Node) BasePath() string { return n.base }

// RelID returns the last segment of the path
func (n *Node) RelID() string {
	return n.path[strings.LastIndex(n.path, "/")+1:]
}

// IsRoot reports whether n is the model root
func (n *Node) IsRoot() bool { return n.path == RootPath }

// ChildPaths returns the paths of the direct children
func (n *Node) ChildPaths() []string {
	out := make([]string, len(n.children))
	copy(out, n.children)
	return out
}

// Attribute gets an attribute value
func (n *Node) Attribute(key string) (any, bool) {
	val, ok := n.attributes[key]
	return val, ok
}

// AttributeString gets an attribute as a string
func (n *Node) AttributeString(key string) string {
	val, ok := n.Attribute(key)
	if !ok {
		return ""
	}
	if s, ok := val.(string); ok {
		return s
	}
	return ""
}

// AttributeFloat gets a numeric attribute as float64, 0 when missing
func (n *Node) AttributeFloat(key string) float64 {
	val, ok := n.Attribute(key)
	if !ok {
		return 0
	}
	switch v := val.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return 0
}

// Attributes returns a copy of all attributes
func (n *Node) Attributes() map[string]any {
	out := make(map[string]any, len(n.attributes))
	for k, v := range n.attributes {
		out[k] = v
	}
	return out
}

// Name is the "name" attribute
func (n *Node) Name() string {
	return n.AttributeString(AttrName)
}

// PointerPath returns the target path of a pointer and whether it is set
func (n *Node) PointerPath(role string) (string, bool) {
	target, ok := n.pointers[role]
	return target, ok
}

// Pointers returns a copy of all pointers
func (n *Node) Pointers() map[string]string {
	out := make(map[string]string, len(n.pointers))
	for k, v := range n.pointers {
		out[k] = v
	}
	return out
}

// Position returns the position registry, nil when unset
func (n *Node) Position() *domain.Position {
	if n.position == nil {
		return nil
	}
	p := *n.position
	return &p
}

// Data returns the raw state of the handle
func (n *Node) Data() NodeData {
	return NodeData{
		Path:       n.path,
		Parent:     n.parent,
		Base:       n.base,
		Attributes: n.Attributes(),
		Pointers:   n.Pointers(),
		Position:   n.Position(),
		Children:   n.ChildPaths(),
	}
}

// The Apply methods below only touch the handle. Store implementations call
// them after persisting a write so callers holding the handle see it.

// ApplyAttribute records an attribute value on the handle
func (n *Node) ApplyAttribute(key string, value any) { n.attributes[key] = value }

// ApplyPointer records a pointer target on the handle
func (n *Node) ApplyPointer(role, target string) { n.pointers[role] = target }

// ApplyPosition records a position on the handle
func (n *Node) ApplyPosition(p domain.Position) { n.position = &p }

// ApplyChild appends a child path to the handle
func (n *Node) ApplyChild(path string) { n.children = append(n.children, path) }
