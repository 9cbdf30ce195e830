// Package repository defines persistent access to the hierarchical model.
//
// The Repository interface extends model.Store with lookups the CLI and HTTP
// API need. The sqlite subpackage implements it on SQLite; model.MemoryStore
// implements it in memory.
//
// # SQLite Implementation
//
// Nodes live in a single table keyed by path. Attributes and pointers are
// stored as JSON, positions as two REAL columns. Child order is creation
// order. The root and the meta types are seeded on open.
//
// # Schema Migration
//
// The schema is created on startup with CREATE ... IF NOT EXISTS, so
// reopening an existing database preserves its data.
package repository
