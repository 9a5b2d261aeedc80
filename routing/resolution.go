package routing

// Outcome is the result of resolving one edge.
type Outcome int

const (
	// Wired means the edge has a live connection.
	Wired Outcome = iota
	// Deferred means an endpoint unit is not registered yet. The edge is
	// retried when either endpoint registers.
	Deferred
	// Rejected means the edge cannot be wired with the current units.
	Rejected
)

func (o Outcome) String() string {
	switch o {
	case Wired:
		return "wired"
	case Deferred:
		return "deferred"
	default:
		return "rejected"
	}
}

// Resolution describes how one edge was resolved.
type Resolution struct {
	Edge    Edge
	Signal  SignalType
	Outcome Outcome
	Mode    Mode
	Err     error
}

// Report summarizes a reconciliation pass.
type Report struct {
	Wired       int
	Deferred    int
	Rejected    int
	Resolutions []Resolution
}

func (r *Report) add(res Resolution) {
	switch res.Outcome {
	case Wired:
		r.Wired++
	case Deferred:
		r.Deferred++
	case Rejected:
		r.Rejected++
	}

	r.Resolutions = append(r.Resolutions, res)
}
