package domain

// Kind is the type tag of a model node
type Kind string

const (
	KindUnknown    Kind = "unknown"
	KindNetwork    Kind = "Network"
	KindNode       Kind = "Node"
	KindConnection Kind = "Connection"
)

// KindFCO is the common base every typed kind derives from
const KindFCO Kind = "FCO"

// Kinds lists the typed kinds in the order they are seeded into a store
var Kinds = []Kind{KindNetwork, KindNode, KindConnection}

// ancestors is the precomputed ancestor set of each kind (reflexive)
var ancestors = map[Kind]map[Kind]struct{}{
	KindFCO:        {KindFCO: {}},
	KindNetwork:    {KindNetwork: {}, KindFCO: {}},
	KindNode:       {KindNode: {}, KindFCO: {}},
	KindConnection: {KindConnection: {}, KindFCO: {}},
}

// Ancestors returns the kinds k derives from, including k itself
func (k Kind) Ancestors() []Kind {
	set := ancestors[k]
	out := make([]Kind, 0, len(set))
	for _, a := range append([]Kind{KindFCO}, Kinds...) {
		if _, ok := set[a]; ok {
			out = append(out, a)
		}
	}
	return out
}

// Is reports whether k is other or derives from it
func (k Kind) Is(other Kind) bool {
	_, ok := ancestors[k][other]
	return ok
}

// Valid reports whether k is one of the known kinds
func (k Kind) Valid() bool {
	_, ok := ancestors[k]
	return ok
}

// ParseKind maps a meta type name to its Kind
func ParseKind(s string) Kind {
	k := Kind(s)
	if k.Valid() {
		return k
	}
	return KindUnknown
}
