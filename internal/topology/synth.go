package topology

import (
	"sort"

	"netsimbridge/internal/domain"
)

// Synthesize derives the endpoint set of def. Edges are visited in order,
// src before dst; when a name repeats, the last position seen wins. Missing
// positions become domain.DefaultPosition.
func Synthesize(def domain.NetworkDefinition) map[string]domain.VirtualNode {
	nodes := make(map[string]domain.VirtualNode, len(def)*2)
	register := func(name string, pos *domain.Position) {
		nodes[name] = domain.VirtualNode{ID: name, Position: domain.PositionOrDefault(pos)}
	}
	for _, edge := range def {
		register(edge.Src, edge.SrcPosition)
		register(edge.Dst, edge.DstPosition)
	}
	return nodes
}

// sortedIDs returns the ids of vnodes in lexical order
func sortedIDs(vnodes map[string]domain.VirtualNode) []string {
	ids := make([]string, 0, len(vnodes))
	for id := range vnodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
