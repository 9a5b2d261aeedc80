package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-modular/dsp/unit"
	"github.com/cwbudde/algo-modular/patch"
	"github.com/cwbudde/algo-modular/routing"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid    bool     `json:"valid"`
	Nodes    int      `json:"nodes"`
	Edges    int      `json:"edges"`
	Problems []string `json:"problems,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <patch>",
		Short: "Validate a patch without rendering it",
		Long: `Check a patch document and resolve its edges on a scratch graph.

Reports document errors (unknown unit types, duplicate ids, mismatched edge
types, invalid ranges) and edges the registry rejects, such as a CV edge
into a parameter the target unit does not have.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
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

	res := ValidationResult{Nodes: len(doc.Nodes), Edges: len(doc.Edges)}

	if err := doc.Check(unit.DefaultCatalog()); err != nil {
		res.Problems = problems(err)
		return outputValidation(formatter, res, ErrCodeInvalid)
	}

	e, err := openEngine(formatter, doc, newLogger(opts, cmd.ErrOrStderr()))
	if err != nil {
		return err
	}
	defer e.close()

	for _, r := range e.instance.Report.Resolutions {
		if r.Outcome != routing.Wired {
			res.Problems = append(res.Problems, fmt.Sprintf("edge %s: %s: %v", r.Edge.ID, r.Outcome, r.Err))
		}
	}

	return outputValidation(formatter, res, ErrCodeRejected)
}

// problems splits a document error into one message per problem.
func problems(err error) []string {
	msg := strings.TrimPrefix(err.Error(), patch.ErrInvalidDocument.Error()+": ")

	return strings.Split(msg, "\n")
}

func outputValidation(f *OutputFormatter, res ValidationResult, code string) error {
	res.Valid = len(res.Problems) == 0

	if f.Format == "json" {
		resp := CLIResponse{Status: "ok", Data: res}
		if !res.Valid {
			resp.Status = "error"
			resp.Error = &CLIError{Code: code, Message: res.Problems[0]}
		}

		if err := f.encode(resp); err != nil {
			return err
		}
	} else {
		writeValidation(f.Writer, res)
	}

	if !res.Valid {
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d problem(s)", len(res.Problems)))
	}

	return nil
}

func writeValidation(w io.Writer, res ValidationResult) {
	if res.Valid {
		fmt.Fprintf(w, "✓ patch valid: %d nodes, %d edges\n", res.Nodes, res.Edges)
		return
	}

	fmt.Fprintln(w, "✗ Validation failed")

	for _, p := range res.Problems {
		fmt.Fprintf(w, "  %s\n", p)
	}
}
