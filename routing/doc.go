// Package routing turns a mutable set of typed edges into live connections
// between registered units.
//
// Units register themselves under a node id in any order. Every
// registration re-resolves the edges touching that id, so an edge whose
// other endpoint is missing is deferred and wired as soon as that endpoint
// arrives. Four signal kinds are routed differently:
//
//   - audio: source output into the target's input port
//   - cv: source output into a named parameter, through a range scaler when
//     the target declares a range for that parameter
//   - gate: trigger subscription on the source's fan-out list
//   - note: note-event subscription, or a continuous pitch connection when
//     the source emits frequency as a signal
//
// Every wired edge is recorded so that removing the edge, deleting a unit
// or replacing a unit tears down exactly what that edge created.
package routing
