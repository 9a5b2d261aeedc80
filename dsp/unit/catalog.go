package unit

import (
	"errors"
	"fmt"
	"sort"
)

// Factory builds one unit instance.
type Factory func(ctx Context, params Params) (Unit, error)

// Catalog maps unit type names to their factories.
type Catalog struct {
	factories map[string]Factory
}

var (
	// ErrUnknownType is returned when no factory is registered for a type.
	ErrUnknownType = errors.New("unknown unit type")

	errDuplicateType = errors.New("duplicate unit type")
)

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{factories: make(map[string]Factory)}
}

// Register adds a factory for the given unit type.
func (c *Catalog) Register(unitType string, factory Factory) error {
	if unitType == "" {
		return errors.New("empty unit type")
	}

	if factory == nil {
		return errors.New("nil factory")
	}

	if _, exists := c.factories[unitType]; exists {
		return fmt.Errorf("%w: %s", errDuplicateType, unitType)
	}

	c.factories[unitType] = factory

	return nil
}

// MustRegister is like Register but panics on error.
func (c *Catalog) MustRegister(unitType string, factory Factory) {
	err := c.Register(unitType, factory)
	if err != nil {
		panic("unit catalog: " + err.Error())
	}
}

// Lookup returns the factory for the given unit type, or nil.
func (c *Catalog) Lookup(unitType string) Factory {
	return c.factories[unitType]
}

// Types returns the registered type names in sorted order.
func (c *Catalog) Types() []string {
	types := make([]string, 0, len(c.factories))
	for t := range c.factories {
		types = append(types, t)
	}

	sort.Strings(types)

	return types
}

// New builds a unit of params.Type.
func (c *Catalog) New(ctx Context, params Params) (Unit, error) {
	factory := c.Lookup(params.Type)
	if factory == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, params.Type)
	}

	u, err := factory(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("unit %q (%s): %w", params.ID, params.Type, err)
	}

	return u, nil
}
