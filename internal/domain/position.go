package domain

import "fmt"

// DefaultPosition is assigned to endpoints that arrive without a position
var DefaultPosition = Position{X: 100, Y: 100}

// Position is a point on the model canvas
type Position struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// NewPosition returns a pointer to a position at x, y
func NewPosition(x, y float64) *Position {
	return &Position{X: x, Y: y}
}

// PositionOrDefault dereferences p, falling back to DefaultPosition for nil
func PositionOrDefault(p *Position) Position {
	if p == nil {
		return DefaultPosition
	}
	return *p
}

func (p Position) String() string {
	return fmt.Sprintf("(%g,%g)", p.X, p.Y)
}
