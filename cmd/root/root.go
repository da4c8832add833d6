package root

import (
	"github.com/spf13/cobra"

	"github.com/operator-framework/wmidnf/cmd/estimate"
	"github.com/operator-framework/wmidnf/cmd/examples"
	"github.com/operator-framework/wmidnf/cmd/generate"
)

func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "wmidnf",
		Short: "wmidnf approximates weighted model integrals of hybrid DNF formulas",
		Long: `Approximates the weighted model integral of a disjunction of clauses mixing
boolean literals and linear real constraints, to within a relative error epsilon
with probability 1 - delta.`,
		SilenceUsage: true,
	}

	// add sub-commands
	rootCmd.AddCommand(estimate.NewEstimateCommand())
	rootCmd.AddCommand(generate.NewGenerateCommand())
	rootCmd.AddCommand(examples.NewExamplesCommand())

	return rootCmd
}
