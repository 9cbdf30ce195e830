package domain

import (
	"encoding/json"
	"fmt"
)

// EdgeRecord is one link of a netsim network definition.
// Field order is the wire order of the edge-list format.
type EdgeRecord struct {
	Src          string    `json:"src" yaml:"src"`
	Dst          string    `json:"dst" yaml:"dst"`
	PacketLoss   float64   `json:"packetLoss" yaml:"packetLoss"`
	LatencyMean  float64   `json:"latencyMean" yaml:"latencyMean"`
	LatencySigma float64   `json:"latencySigma" yaml:"latencySigma"`
	SrcPosition  *Position `json:"srcPosition,omitempty" yaml:"srcPosition,omitempty"`
	DstPosition  *Position `json:"dstPosition,omitempty" yaml:"dstPosition,omitempty"`
}

// NewEdgeRecord creates an edge between two named endpoints
func NewEdgeRecord(src, dst string) *EdgeRecord {
	return &EdgeRecord{Src: src, Dst: dst}
}

// WithLatency sets the packet loss and latency distribution of the link
func (e *EdgeRecord) WithLatency(packetLoss, mean, sigma float64) *EdgeRecord {
	e.PacketLoss = packetLoss
	e.LatencyMean = mean
	e.LatencySigma = sigma
	return e
}

// WithPositions sets the endpoint positions
func (e *EdgeRecord) WithPositions(src, dst *Position) *EdgeRecord {
	e.SrcPosition = src
	e.DstPosition = dst
	return e
}

// Key identifies the directed link, ignoring attributes
func (e EdgeRecord) Key() string {
	return fmt.Sprintf("%s->%s", e.Src, e.Dst)
}

// canonical renders the full record in wire order for multiset comparison
func (e EdgeRecord) canonical() string {
	data, err := json.Marshal(e)
	if err != nil {
		return e.Key()
	}
	return string(data)
}
