// Package domain defines the core value types for the netsim bridge.
//
// This package contains the transient values passed between the export and
// import pipelines, plus the typed errors those pipelines report.
//
// # Core Types
//
// EdgeRecord is one link of a netsim network: the names of both endpoints,
// the link's packet loss and latency distribution, and the display position
// of each endpoint.
//
// NetworkDefinition is the ordered list of EdgeRecords that serializes to a
// single edge-list file.
//
// VirtualNode is an endpoint inferred from the edge list. It only exists
// between parsing a file and building the model from it.
//
// Kind classifies model nodes as Network, Node or Connection. Each kind
// carries its ancestor set so classification never has to walk the model.
//
// # Errors
//
// LoadError, FormatError, ConsistencyError and NotFoundError describe the
// failure classes of a run. All of them unwrap to their cause and work with
// errors.Is and errors.As.
//
// # Design Principles
//
// - Immutable value objects where possible
// - No database or external dependencies
// - Pure domain logic without infrastructure concerns
package domain
