package routing

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// validate is a singleton validator instance
var validate = validator.New()

// Endpoint is one side of an edge: a type tag and an optional property
// (port or parameter name).
type Endpoint struct {
	Type     string `json:"type" yaml:"type" validate:"max=32"`
	Property string `json:"property,omitempty" yaml:"property,omitempty" validate:"max=64"`
}

// Edge is a declared connection between two node ids. Edges are values;
// editing an edge means replacing it under the same id.
type Edge struct {
	ID             string   `json:"id" yaml:"id" validate:"required,max=128"`
	Source         string   `json:"source" yaml:"source" validate:"required,max=128"`
	Target         string   `json:"target" yaml:"target" validate:"required,max=128"`
	SourceEndpoint Endpoint `json:"sourceEndpoint" yaml:"sourceEndpoint"`
	TargetEndpoint Endpoint `json:"targetEndpoint" yaml:"targetEndpoint"`
}

// NewEdge builds an edge with a fresh id. Both endpoints carry the same
// type tag.
func NewEdge(source, sourceProperty, target, targetProperty string, signal SignalType) Edge {
	return Edge{
		ID:             uuid.NewString(),
		Source:         source,
		Target:         target,
		SourceEndpoint: Endpoint{Type: signal.String(), Property: sourceProperty},
		TargetEndpoint: Endpoint{Type: signal.String(), Property: targetProperty},
	}
}

// Touches reports whether nodeID is either endpoint of e.
func (e Edge) Touches(nodeID string) bool {
	return e.Source == nodeID || e.Target == nodeID
}

// Validate checks the structural fields. Type tags are checked at
// resolution time so that unroutable edges can still be stored and
// reported.
func (e Edge) Validate() error {
	if err := validate.Struct(e); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidEdge, formatValidationError(err))
	}

	return nil
}

// Signal returns the classified target type, or SignalNone when the two
// endpoint tags disagree.
func (e Edge) Signal() SignalType {
	sig := Classify(e.TargetEndpoint)
	if Classify(e.SourceEndpoint) != sig {
		return SignalNone
	}

	return sig
}

func (e Edge) String() string {
	return fmt.Sprintf("%s: %s -> %s (%s)",
		e.ID, endpointString(e.Source, e.SourceEndpoint), endpointString(e.Target, e.TargetEndpoint), e.TargetEndpoint.Type)
}

func endpointString(nodeID string, ep Endpoint) string {
	if ep.Property == "" {
		return nodeID
	}

	return nodeID + "." + ep.Property
}

func formatValidationError(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return err.Error()
	}

	e := verrs[0]

	switch e.Tag() {
	case "required":
		return e.Namespace() + ": field is required"
	case "max":
		return fmt.Sprintf("%s: must not exceed %s", e.Namespace(), e.Param())
	default:
		return fmt.Sprintf("%s: validation failed (%s)", e.Namespace(), e.Tag())
	}
}
