// Package signalgraph is a block-based continuous signal router.
//
// A Graph owns Nodes. Each node sums every source connected to its input,
// renders the sum through its Processor and exposes the result as its
// output block. Nodes may also own Params: named control inputs whose
// per-sample value is either the intrinsic value (nothing connected) or the
// sum of the connected sources.
//
// Connections are idempotent: connecting the same source to the same
// target twice leaves a single link. Rendering visits nodes in topological
// order; a node inside a feedback cycle reads its source's previous block.
//
// Topology changes and Render must not run concurrently. Render holds the
// graph lock; wrap topology changes issued from another goroutine in
// Graph.Update.
package signalgraph
