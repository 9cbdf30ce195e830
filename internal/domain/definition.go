package domain

import "sort"

// NetworkDefinition is the serializable form of one Network
type NetworkDefinition []EdgeRecord

// Add appends an edge to the definition
func (d *NetworkDefinition) Add(edge EdgeRecord) {
	*d = append(*d, edge)
}

// Endpoints returns the distinct names used as src or dst, sorted
func (d NetworkDefinition) Endpoints() []string {
	seen := make(map[string]struct{}, len(d)*2)
	for _, e := range d {
		seen[e.Src] = struct{}{}
		seen[e.Dst] = struct{}{}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Equivalent reports whether d and other hold the same records regardless of order
func (d NetworkDefinition) Equivalent(other NetworkDefinition) bool {
	if len(d) != len(other) {
		return false
	}
	counts := make(map[string]int, len(d))
	for _, e := range d {
		counts[e.canonical()]++
	}
	for _, e := range other {
		key := e.canonical()
		if counts[key] == 0 {
			return false
		}
		counts[key]--
	}
	return true
}

// Sorted returns a copy ordered by src, then dst
func (d NetworkDefinition) Sorted() NetworkDefinition {
	out := make(NetworkDefinition, len(d))
	copy(out, d)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Src != out[j].Src {
			return out[i].Src < out[j].Src
		}
		return out[i].Dst < out[j].Dst
	})
	return out
}
