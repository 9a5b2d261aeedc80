package unit

// Unit type names registered by DefaultCatalog.
const (
	TypeOscillator = "oscillator"
	TypeLFO        = "lfo"
	TypeFilter     = "filter"
	TypeEnvelope   = "envelope"
	TypeVCA        = "vca"
	TypeDelay      = "delay"
	TypeNoise      = "noise"
	TypeConstant   = "constant"
	TypeGlide      = "glide"
	TypeSequencer  = "sequencer"
	TypeAnalyzer   = "analyzer"
	TypeOutput     = "output"
)

// DefaultCatalog returns a catalog with every built-in unit type.
func DefaultCatalog() *Catalog {
	c := NewCatalog()

	c.MustRegister(TypeOscillator, func(ctx Context, p Params) (Unit, error) { return NewOscillator(ctx, p) })
	c.MustRegister(TypeLFO, func(ctx Context, p Params) (Unit, error) { return NewLFO(ctx, p) })
	c.MustRegister(TypeFilter, func(ctx Context, p Params) (Unit, error) { return NewFilter(ctx, p) })
	c.MustRegister(TypeEnvelope, func(ctx Context, p Params) (Unit, error) { return NewEnvelope(ctx, p) })
	c.MustRegister(TypeVCA, func(ctx Context, p Params) (Unit, error) { return NewVCA(ctx, p) })
	c.MustRegister(TypeDelay, func(ctx Context, p Params) (Unit, error) { return NewDelay(ctx, p) })
	c.MustRegister(TypeNoise, func(ctx Context, p Params) (Unit, error) { return NewNoise(ctx, p) })
	c.MustRegister(TypeConstant, func(ctx Context, p Params) (Unit, error) { return NewConstant(ctx, p) })
	c.MustRegister(TypeGlide, func(ctx Context, p Params) (Unit, error) { return NewGlide(ctx, p) })
	c.MustRegister(TypeSequencer, func(ctx Context, p Params) (Unit, error) { return NewSequencer(ctx, p) })
	c.MustRegister(TypeAnalyzer, func(ctx Context, p Params) (Unit, error) { return NewAnalyzer(ctx, p) })
	c.MustRegister(TypeOutput, func(ctx Context, p Params) (Unit, error) { return NewOutput(ctx, p) })

	return c
}
