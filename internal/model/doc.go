// Package model is the bridge's view of the host graph-model store.
//
// A model is a tree of nodes addressed by slash-separated paths ("" is the
// root). Every node except the FCO meta type has a base node it inherits
// from, a set of scalar attributes, named pointers to other nodes and an
// optional canvas position.
//
// Store is the collaborator interface the export and import pipelines
// consume. MemoryStore implements it in process; the sqlite repository
// implements it on disk.
package model
