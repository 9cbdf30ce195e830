package topology

import (
	"netsimbridge/internal/domain"
	"netsimbridge/internal/model"
	"netsimbridge/internal/subtree"
	"netsimbridge/internal/typematch"
)

// Extractor turns the Connections of a Network back into edge records
type Extractor struct {
	matcher *typematch.Matcher
}

// NewExtractor creates an extractor classifying nodes with matcher
func NewExtractor(matcher *typematch.Matcher) *Extractor {
	return &Extractor{matcher: matcher}
}

// Extract emits one edge per Connection among the direct children of root,
// in child order. Pointer targets are resolved through cache only; a target
// or child missing from it fails with *domain.NotFoundError.
func (x *Extractor) Extract(cache subtree.Cache, root *model.Node) (domain.NetworkDefinition, error) {
	def := domain.NetworkDefinition{}
	for _, path := range root.ChildPaths() {
		child, ok := cache.Get(path)
		if !ok {
			return nil, &domain.NotFoundError{Path: path}
		}
		if !x.matcher.Is(child, domain.KindConnection) {
			continue
		}

		edge, err := x.edge(cache, child)
		if err != nil {
			return nil, err
		}
		def.Add(edge)
	}
	return def, nil
}

func (x *Extractor) edge(cache subtree.Cache, conn *model.Node) (domain.EdgeRecord, error) {
	src, err := resolve(cache, conn, model.PointerSrc)
	if err != nil {
		return domain.EdgeRecord{}, err
	}
	dst, err := resolve(cache, conn, model.PointerDst)
	if err != nil {
		return domain.EdgeRecord{}, err
	}

	return domain.EdgeRecord{
		Src:          src.Name(),
		Dst:          dst.Name(),
		PacketLoss:   conn.AttributeFloat(model.AttrPacketLoss),
		LatencyMean:  conn.AttributeFloat(model.AttrLatencyMean),
		LatencySigma: conn.AttributeFloat(model.AttrLatencyVariance),
		SrcPosition:  src.Position(),
		DstPosition:  dst.Position(),
	}, nil
}

func resolve(cache subtree.Cache, node *model.Node, role string) (*model.Node, error) {
	path, ok := node.PointerPath(role)
	if !ok {
		return nil, &domain.NotFoundError{Path: node.Path(), Role: role}
	}
	target, ok := cache.Get(path)
	if !ok {
		return nil, &domain.NotFoundError{Path: path, Role: role}
	}
	return target, nil
}
