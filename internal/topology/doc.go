// Package topology converts between a network definition and the Network
// subtree of a model.
//
// Import runs Synthesize to infer the node set from edge endpoints, then
// Builder to create the Network, its Nodes and its Connections. Export runs
// Extractor over a loaded subtree to turn the Connections of a Network back
// into edge records. Extract(Build(D)) holds the same records as D whenever
// the endpoint names of D are unique per position.
package topology
