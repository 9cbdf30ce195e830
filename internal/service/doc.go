// Package service runs the export and import plugins against a model store.
//
// # Export
//
// Exporter.Run loads the subtree of the active Network, turns its
// Connections into an edge list and saves it as an artifact named
// "<network>_Config" holding "<network>.js".
//
// # Import
//
// Importer.Run reads an uploaded edge-list asset, synthesizes one Node per
// endpoint and builds a new "<file> (IMPORTED)" Network under the model root.
// Model writes are not transactional; a failed build leaves the partial
// Network in place and reports its path.
//
// # Event System
//
// Runs publish start, finish, message and artifact events on an EventBus so
// the HTTP API and the CLI can follow them.
package service
