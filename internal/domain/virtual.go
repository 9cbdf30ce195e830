package domain

// VirtualNode is an endpoint inferred from an edge list
type VirtualNode struct {
	ID       string   `json:"id"`
	Position Position `json:"position"`
}
