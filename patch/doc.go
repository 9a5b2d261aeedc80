// Package patch loads multi-node patch documents and applies them to a
// routing registry.
//
// A document lists units (id, type, params, declared parameter ranges) and
// the edges between them. Applying a document adds the edges to the edge
// store first and then builds and registers every unit; the registry's
// order independence resolves each edge as soon as both of its endpoints
// exist, so no delay between the two steps is needed.
package patch
