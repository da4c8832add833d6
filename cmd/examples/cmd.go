package examples

import (
	"context"
	"fmt"
	"io"
	"math"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/operator-framework/wmidnf/pkg/wmi/solver"
)

func NewExamplesCommand() *cobra.Command {
	var epsilon, delta float64
	var seed uint64
	cmd := &cobra.Command{
		Use:   "examples",
		Short: "Runs the reference problems and compares estimates with their known values",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if epsilon <= 0 || delta <= 0 || delta >= 1 {
				return fmt.Errorf("invalid accuracy: epsilon=%g delta=%g", epsilon, delta)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return run(ctx, cmd.OutOrStdout(), epsilon, delta, seed)
		},
	}
	cmd.Flags().Float64Var(&epsilon, "epsilon", 0.2, "relative error of the estimates")
	cmd.Flags().Float64Var(&delta, "delta", 0.1, "probability that an estimate misses the error bound")
	cmd.Flags().Uint64Var(&seed, "seed", 42, "sampler seed")
	return cmd
}

func run(ctx context.Context, out io.Writer, epsilon, delta float64, seed uint64) error {
	fixtures, err := Fixtures()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tESTIMATE\tEXPECTED\tRELATIVE ERROR")
	for _, f := range fixtures {
		so, err := solver.NewWMISolver(ctx, f.Formula, f.NbBools, f.Domain, f.Weight, solver.WithSeed(seed))
		if err != nil {
			return fmt.Errorf("%s: %w", f.Name, err)
		}
		solution, err := so.Estimate(ctx, epsilon, delta)
		if err != nil {
			return fmt.Errorf("%s: %w", f.Name, err)
		}
		fmt.Fprintf(w, "%s\t%.6f\t%.6f\t%.4f\n", f.Name, solution.Value(), f.Expected, math.Abs(solution.Value()-f.Expected)/f.Expected)
	}
	return w.Flush()
}
