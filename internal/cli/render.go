package cli

import (
	"fmt"
	"maps"
	"math"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-modular/dsp/core"
	"github.com/cwbudde/algo-modular/stats/level"
)

// RenderOptions holds the render command flags.
type RenderOptions struct {
	Seconds    float64
	SampleRate float64
	BlockSize  int
}

// RenderResult summarizes an offline render.
type RenderResult struct {
	Patch      string  `json:"patch"`
	SampleRate float64 `json:"sample_rate"`
	Samples    int     `json:"samples"`
	Peak       float64 `json:"peak"`
	RMS        float64 `json:"rms"`
	DC         float64 `json:"dc"`
	Clipped    int     `json:"clipped"`
	NonFinite  int     `json:"non_finite"`
	Wired      int     `json:"wired"`
	Deferred   int     `json:"deferred"`
	Rejected   int     `json:"rejected"`
}

func (r RenderResult) String() string {
	var b strings.Builder

	fmt.Fprintf(&b, "patch:    %s\n", r.Patch)
	fmt.Fprintf(&b, "rendered: %d samples at %g Hz (%.3f s)\n", r.Samples, r.SampleRate, float64(r.Samples)/r.SampleRate)
	fmt.Fprintf(&b, "peak:     %.6f (%.1f dBFS)\n", r.Peak, core.LinearToDB(r.Peak))
	fmt.Fprintf(&b, "rms:      %.6f (%.1f dBFS)\n", r.RMS, core.LinearToDB(r.RMS))
	fmt.Fprintf(&b, "dc:       %.6f\n", r.DC)
	fmt.Fprintf(&b, "clipped:  %d (%d non-finite)\n", r.Clipped, r.NonFinite)
	fmt.Fprintf(&b, "edges:    %d wired, %d deferred, %d rejected", r.Wired, r.Deferred, r.Rejected)

	return b.String()
}

// NewRenderCommand creates the render command.
func NewRenderCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RenderOptions{}

	cmd := &cobra.Command{
		Use:   "render <patch>",
		Short: "Render a patch offline and print signal levels",
		Long: `Apply a patch to a fresh graph, render it for the given duration and
report the peak and RMS level of the output.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(rootOpts, opts, args[0], cmd)
		},
	}

	cmd.Flags().Float64Var(&opts.Seconds, "seconds", 2, "duration to render")
	cmd.Flags().Float64Var(&opts.SampleRate, "sample-rate", 48000, "sample rate in Hz")
	cmd.Flags().IntVar(&opts.BlockSize, "block-size", 512, "render block size in samples")

	return cmd
}

func runRender(rootOpts *RootOptions, opts *RenderOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    rootOpts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   rootOpts.Verbose,
	}

	if opts.Seconds <= 0 {
		return formatter.Fail(ExitCommandError, ErrCodeFlags, fmt.Errorf("seconds must be positive, got %g", opts.Seconds))
	}

	cfg := core.ProcessorConfig{SampleRate: opts.SampleRate, BlockSize: opts.BlockSize}
	if err := cfg.Validate(); err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeFlags, err)
	}

	doc, err := loadPatch(formatter, path)
	if err != nil {
		return err
	}

	e, err := openEngine(formatter, doc, newLogger(rootOpts, cmd.ErrOrStderr()),
		core.WithSampleRate(opts.SampleRate), core.WithBlockSize(opts.BlockSize))
	if err != nil {
		return err
	}
	defer e.close()

	total := int(math.Round(opts.Seconds * opts.SampleRate))
	buf := make([]float64, opts.BlockSize)
	meter := level.NewMeter()

	cfg = e.graph.Config()
	formatter.VerboseLog("block %d samples (%.2f ms), nyquist %.0f Hz",
		cfg.BlockSize, cfg.BlockSeconds()*1000, cfg.Nyquist())

	for done := 0; done < total; done += len(buf) {
		block := buf[:min(len(buf), total-done)]
		e.graph.Render(block)
		meter.Update(block)
	}

	lvl := meter.Result()
	rep := e.instance.Report
	res := RenderResult{
		Patch:      e.doc.Name,
		SampleRate: e.graph.SampleRate(),
		Samples:    total,
		Peak:       lvl.Peak,
		RMS:        lvl.RMS,
		DC:         lvl.DC,
		Clipped:    lvl.Clipped,
		NonFinite:  lvl.NonFinite,
		Wired:      rep.Wired,
		Deferred:   rep.Deferred,
		Rejected:   rep.Rejected,
	}

	counts := e.resolutions()
	for _, outcome := range slices.Sorted(maps.Keys(counts)) {
		formatter.VerboseLog("resolutions %s: %g", outcome, counts[outcome])
	}

	return formatter.Success(res)
}
