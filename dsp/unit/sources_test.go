package unit

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-modular/dsp/core"
	"github.com/cwbudde/algo-modular/internal/testutil"
)

func TestOscillatorSineMatchesReference(t *testing.T) {
	t.Parallel()

	ctx := newContext(core.WithSampleRate(48000))

	osc, err := NewOscillator(ctx, params(TypeOscillator, map[string]any{"frequency": 1000.0, "gain": 0.5}))
	if err != nil {
		t.Fatal(err)
	}

	connect(t, osc.Output(), ctx.Graph.Destination())

	got := render(ctx, 256)
	want := testutil.DeterministicSine(1000, 48000, 0.5, 256)

	testutil.RequireSliceNearlyEqual(t, got, want, 1e-9)
}

func TestOscillatorDetuneOctave(t *testing.T) {
	t.Parallel()

	ctx := newContext(core.WithSampleRate(48000))

	osc, err := NewOscillator(ctx, params(TypeOscillator, map[string]any{"frequency": 1000, "detune": 1200}))
	if err != nil {
		t.Fatal(err)
	}

	connect(t, osc.Output(), ctx.Graph.Destination())

	got := render(ctx, 128)
	testutil.RequireSliceNearlyEqual(t, got, testutil.DeterministicSine(2000, 48000, 1, 128), 1e-9)
}

func TestOscillatorNoteAliasesFrequency(t *testing.T) {
	t.Parallel()

	osc, err := NewOscillator(newContext(), params(TypeOscillator, nil))
	if err != nil {
		t.Fatal(err)
	}

	note, ok := osc.Param("note")
	if !ok {
		t.Fatal("missing note param")
	}

	freq, _ := osc.Param("frequency")
	if note != freq {
		t.Fatal("note must alias frequency")
	}

	want := []string{"detune", "frequency", "gain", "note"}
	got := osc.ParamNames()

	if len(got) != len(want) {
		t.Fatalf("param names = %v, want %v", got, want)
	}

	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("param names = %v, want %v", got, want)
		}
	}
}

func TestWaveforms(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		wave Waveform
	}{
		{"sine", WaveSine},
		{"triangle", WaveTriangle},
		{"saw", WaveSaw},
		{"Square", WaveSquare},
		{"", WaveSine},
	}

	for _, tt := range tests {
		got, err := ParseWaveform(tt.name)
		if err != nil || got != tt.wave {
			t.Fatalf("ParseWaveform(%q) = %v, %v", tt.name, got, err)
		}
	}

	if _, err := ParseWaveform("pulse"); err == nil {
		t.Fatal("expected error for unknown waveform")
	}

	if _, err := NewOscillator(newContext(), params(TypeOscillator, map[string]any{"waveform": "pulse"})); err == nil {
		t.Fatal("expected constructor error for unknown waveform")
	}
}

func TestWaveformsStayBounded(t *testing.T) {
	t.Parallel()

	for _, w := range []string{"sine", "triangle", "saw", "square"} {
		ctx := newContext()

		lfo, err := NewLFO(ctx, params(TypeLFO, map[string]any{"waveform": w, "rate": 440}))
		if err != nil {
			t.Fatal(err)
		}

		connect(t, lfo.Output(), ctx.Graph.Destination())

		out := render(ctx, 4096)
		testutil.RequireFinite(t, out)

		if p := testutil.Peak(out); p > 1+1e-9 || p < 0.5 {
			t.Fatalf("%s: peak = %g", w, p)
		}
	}
}

func TestNoiseIsSeededAndBounded(t *testing.T) {
	t.Parallel()

	run := func(seed int) []float64 {
		ctx := newContext()

		n, err := NewNoise(ctx, params(TypeNoise, map[string]any{"seed": seed, "gain": 0.25}))
		if err != nil {
			t.Fatal(err)
		}

		connect(t, n.Output(), ctx.Graph.Destination())

		return render(ctx, 2048)
	}

	a, b, c := run(7), run(7), run(8)

	testutil.RequireSliceNearlyEqual(t, a, b, 0)

	if testutil.Peak(a) > 0.25 {
		t.Fatalf("peak = %g exceeds gain", testutil.Peak(a))
	}

	same := true
	for i := range a {
		if a[i] != c[i] {
			same = false
			break
		}
	}

	if same {
		t.Fatal("different seeds produced identical noise")
	}
}

func TestConstantDomains(t *testing.T) {
	t.Parallel()

	ctx := newContext()

	c, err := NewConstant(ctx, params(TypeConstant, map[string]any{"offset": 0.3, "domain": "unipolar"}))
	if err != nil {
		t.Fatal(err)
	}

	if c.OutputDomain() != Unipolar {
		t.Fatalf("domain = %v", c.OutputDomain())
	}

	connect(t, c.Output(), ctx.Graph.Destination())
	testutil.RequireConstant(t, render(ctx, 64), 0.3, 0)

	c.SetValue(-0.2)
	testutil.RequireConstant(t, render(ctx, 64), -0.2, 0)

	if _, err := NewConstant(ctx, params(TypeConstant, map[string]any{"domain": "tripolar"})); err == nil {
		t.Fatal("expected error for unknown domain")
	}
}

func TestGlideFirstNoteJumpsThenSlews(t *testing.T) {
	t.Parallel()

	ctx := newContext(core.WithSampleRate(1000))

	g, err := NewGlide(ctx, params(TypeGlide, map[string]any{"time": 0.05}))
	if err != nil {
		t.Fatal(err)
	}

	connect(t, g.Output(), ctx.Graph.Destination())

	g.ReceiveNote(440)
	testutil.RequireConstant(t, render(ctx, 32), 440, 1e-9)

	g.ReceiveNote(880)

	out := render(ctx, 1000)
	for i := 1; i < len(out); i++ {
		if out[i] < out[i-1] {
			t.Fatalf("glide not monotonic at %d: %g < %g", i, out[i], out[i-1])
		}
	}

	if out[0] >= 880 || out[0] <= 440 {
		t.Fatalf("first sample after note = %g, want strictly between", out[0])
	}

	testutil.RequireNearlyEqual(t, testutil.Last(out), 880, 1e-3)

	if g.Notes() != 2 || g.Target() != 880 {
		t.Fatalf("notes = %d target = %g", g.Notes(), g.Target())
	}
}

func TestGlideZeroTimeFollowsImmediately(t *testing.T) {
	t.Parallel()

	ctx := newContext()

	g, err := NewGlide(ctx, params(TypeGlide, map[string]any{"time": 0}))
	if err != nil {
		t.Fatal(err)
	}

	connect(t, g.Output(), ctx.Graph.Destination())

	g.ReceiveNote(220)
	g.ReceiveNote(330)

	testutil.RequireConstant(t, render(ctx, 16), 330, 0)
}

func TestLFORateFollowsParam(t *testing.T) {
	t.Parallel()

	ctx := newContext(core.WithSampleRate(1000))

	lfo, err := NewLFO(ctx, params(TypeLFO, map[string]any{"rate": 1}))
	if err != nil {
		t.Fatal(err)
	}

	connect(t, lfo.Output(), ctx.Graph.Destination())

	out := render(ctx, 1000)
	testutil.RequireNearlyEqual(t, out[250], 1, 1e-9)
	testutil.RequireNearlyEqual(t, out[750], -1, 1e-9)
	testutil.RequireNearlyEqual(t, math.Abs(out[500]), 0, 1e-9)
}
