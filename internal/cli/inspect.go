package cli

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-modular/dsp/unit"
	"github.com/cwbudde/algo-modular/routing"
)

// UnitInfo describes one registered unit.
type UnitInfo struct {
	ID           string   `json:"id"`
	Type         string   `json:"type"`
	Capabilities string   `json:"capabilities"`
	Params       []string `json:"params,omitempty"`
}

// EdgeInfo describes how one edge resolved.
type EdgeInfo struct {
	ID      string         `json:"id"`
	Route   string         `json:"route"`
	Signal  string         `json:"signal"`
	Outcome string         `json:"outcome"`
	Mode    routing.Mode   `json:"mode,omitempty"`
	Range   *routing.Range `json:"range,omitempty"`
	Error   string         `json:"error,omitempty"`
}

// InspectResult is the resolved structure of a patch.
type InspectResult struct {
	Patch    string     `json:"patch"`
	Units    []UnitInfo `json:"units"`
	Edges    []EdgeInfo `json:"edges"`
	Wired    int        `json:"wired"`
	Deferred int        `json:"deferred"`
	Rejected int        `json:"rejected"`
}

func (r InspectResult) String() string {
	var b strings.Builder

	writeInspect(&b, r)

	return strings.TrimSuffix(b.String(), "\n")
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <patch>",
		Short: "Show the units of a patch and how each edge is wired",
		Long: `Apply a patch to a scratch graph and list its units with their routing
capabilities, and every edge with its signal type, outcome and wiring mode.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runInspect(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	doc, err := loadPatch(formatter, path)
	if err != nil {
		return err
	}

	e, err := openEngine(formatter, doc, newLogger(opts, cmd.ErrOrStderr()))
	if err != nil {
		return err
	}
	defer e.close()

	return formatter.Success(e.inspect())
}

func (e *engine) inspect() InspectResult {
	rep := e.instance.Report
	res := InspectResult{
		Patch:    e.doc.Name,
		Wired:    rep.Wired,
		Deferred: rep.Deferred,
		Rejected: rep.Rejected,
	}

	types := make(map[string]string, len(e.doc.Nodes))
	for _, n := range e.doc.Nodes {
		types[n.ID] = n.Type
	}

	for _, id := range e.registry.NodeIDs() {
		u, _ := e.registry.Unit(id)
		info := UnitInfo{ID: id, Type: types[id], Capabilities: unit.CapabilitiesOf(u).String()}

		if p, ok := u.(interface{ ParamNames() []string }); ok {
			info.Params = p.ParamNames()
		}

		res.Units = append(res.Units, info)
	}

	ranges := make(map[string]*routing.Range)
	for _, c := range e.registry.Connections() {
		ranges[c.EdgeID] = c.Range
	}

	for _, r := range rep.Resolutions {
		info := EdgeInfo{
			ID:      r.Edge.ID,
			Route:   route(r.Edge),
			Signal:  r.Signal.String(),
			Outcome: r.Outcome.String(),
			Mode:    r.Mode,
			Range:   ranges[r.Edge.ID],
		}

		if r.Err != nil {
			info.Error = r.Err.Error()
		}

		res.Edges = append(res.Edges, info)
	}

	slices.SortFunc(res.Edges, func(a, b EdgeInfo) int { return strings.Compare(a.ID, b.ID) })

	return res
}

func route(e routing.Edge) string {
	return endpoint(e.Source, e.SourceEndpoint.Property) + " -> " + endpoint(e.Target, e.TargetEndpoint.Property)
}

func endpoint(id, property string) string {
	if property == "" {
		return id
	}

	return id + "." + property
}

func writeInspect(w io.Writer, r InspectResult) {
	fmt.Fprintf(w, "patch %s: %d units, %d edges (%d wired, %d deferred, %d rejected)\n\n",
		r.Patch, len(r.Units), len(r.Edges), r.Wired, r.Deferred, r.Rejected)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "UNIT\tTYPE\tCAPABILITIES\tPARAMS")

	for _, u := range r.Units {
		params := "-"
		if len(u.Params) > 0 {
			params = strings.Join(u.Params, ",")
		}

		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", u.ID, u.Type, u.Capabilities, params)
	}

	tw.Flush()
	fmt.Fprintln(w)

	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "EDGE\tROUTE\tSIGNAL\tOUTCOME\tDETAIL")

	for _, e := range r.Edges {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", e.ID, e.Route, e.Signal, e.Outcome, e.detail())
	}

	tw.Flush()
}

func (e EdgeInfo) detail() string {
	switch {
	case e.Error != "":
		return e.Error
	case e.Range != nil:
		return fmt.Sprintf("%s %s", e.Mode, e.Range)
	case e.Mode != routing.ModeNone:
		return e.Mode.String()
	default:
		return "-"
	}
}
