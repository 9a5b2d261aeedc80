package patch

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/cwbudde/algo-modular/dsp/unit"
	"github.com/cwbudde/algo-modular/routing"
)

// ErrInvalidDocument is returned for documents that fail validation.
var ErrInvalidDocument = errors.New("invalid patch document")

// validate is a singleton validator instance
var validate = validator.New()

// Node declares one unit.
type Node struct {
	ID     string             `json:"id" yaml:"id" validate:"required,max=128"`
	Type   string             `json:"type" yaml:"type" validate:"required,max=64"`
	Params map[string]any     `json:"params,omitempty" yaml:"params,omitempty"`
	Ranges routing.RangeTable `json:"ranges,omitempty" yaml:"ranges,omitempty"`
}

// Document is a patch: a set of units and the edges between them.
type Document struct {
	Name  string         `json:"name,omitempty" yaml:"name,omitempty" validate:"max=128"`
	Nodes []Node         `json:"nodes" yaml:"nodes" validate:"required,min=1,dive"`
	Edges []routing.Edge `json:"edges,omitempty" yaml:"edges,omitempty" validate:"-"`
}

// Parse decodes a YAML (or JSON) document. Unknown fields are errors.
func Parse(data []byte) (*Document, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrInvalidDocument)
		}

		return nil, fmt.Errorf("parse patch: %w", err)
	}

	return &doc, nil
}

// Load reads and parses a document file.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load patch: %w", err)
	}

	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return doc, nil
}

// Validate checks the document without building anything: field
// constraints, unique node ids, edges between declared nodes with known
// and matching type tags, and valid ranges. Every problem is reported.
func (d *Document) Validate() error {
	var errs []error

	if err := validate.Struct(d); err != nil {
		errs = append(errs, describe(err))
	}

	ids := make(map[string]bool, len(d.Nodes))

	for i, n := range d.Nodes {
		if n.ID != "" && ids[n.ID] {
			errs = append(errs, fmt.Errorf("nodes[%d]: duplicate id %q", i, n.ID))
		}

		ids[n.ID] = true

		for name, r := range n.Ranges {
			if !r.Valid() {
				errs = append(errs, fmt.Errorf("nodes[%d] %s: range %s: %w", i, name, r, routing.ErrInvalidRange))
			}
		}
	}

	edgeIDs := make(map[string]bool, len(d.Edges))

	for i, e := range d.Edges {
		if e.ID != "" {
			if edgeIDs[e.ID] {
				errs = append(errs, fmt.Errorf("edges[%d]: duplicate id %q", i, e.ID))
			}

			edgeIDs[e.ID] = true
		}

		if e.Source == "" || e.Target == "" {
			errs = append(errs, fmt.Errorf("edges[%d]: source and target are required", i))
			continue
		}

		if !ids[e.Source] {
			errs = append(errs, fmt.Errorf("edges[%d]: unknown source %q", i, e.Source))
		}

		if !ids[e.Target] {
			errs = append(errs, fmt.Errorf("edges[%d]: unknown target %q", i, e.Target))
		}

		if e.Signal() == routing.SignalNone {
			errs = append(errs, fmt.Errorf("edges[%d]: type %q -> %q: %w",
				i, e.SourceEndpoint.Type, e.TargetEndpoint.Type, routing.ErrUnroutable))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, errors.Join(errs...))
	}

	return nil
}

// Check validates d and also requires every node type to be known to cat.
func (d *Document) Check(cat *unit.Catalog) error {
	if err := d.Validate(); err != nil {
		return err
	}

	for i, n := range d.Nodes {
		if cat.Lookup(n.Type) == nil {
			return fmt.Errorf("%w: nodes[%d]: %w: %s", ErrInvalidDocument, i, unit.ErrUnknownType, n.Type)
		}
	}

	return nil
}

func describe(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return err
	}

	e := verrs[0]

	switch e.Tag() {
	case "required":
		return fmt.Errorf("%s: field is required", e.Namespace())
	case "min":
		return fmt.Errorf("%s: must be at least %s", e.Namespace(), e.Param())
	case "max":
		return fmt.Errorf("%s: must not exceed %s", e.Namespace(), e.Param())
	default:
		return fmt.Errorf("%s: validation failed (%s)", e.Namespace(), e.Tag())
	}
}
