package estimate

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/operator-framework/wmidnf/internal/integrate"
)

type options struct {
	epsilon   float64
	delta     float64
	seed      uint64
	latte     string
	lower     float64
	upper     float64
	verbosity int
	trace     bool
}

func (o *options) validate() error {
	if o.epsilon <= 0 {
		return fmt.Errorf("epsilon must be positive, got %g", o.epsilon)
	}
	if o.delta <= 0 || o.delta >= 1 {
		return fmt.Errorf("delta must be in (0, 1), got %g", o.delta)
	}
	if o.lower > o.upper {
		return fmt.Errorf("lower bound %g is above upper bound %g", o.lower, o.upper)
	}
	return nil
}

func NewEstimateCommand() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "estimate <path>",
		Short: "Estimates the weighted model integral of a test description",
		Long: `Estimates the weighted model integral of the formula stored in a test
description, under a random polynomial weight drawn from the seed. For instance:
{"formula":[[0,[[1,1],["<=",2]]],[2]],"nbReals":1,"nbBools":1}
describes (b0 and x1 <= 2) or (not b0), where literal nbBools+nbReals+i negates
boolean i and real atoms list [variable, coefficient] pairs followed by
[operator, constant].
`,
		Args: cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(args[0]); errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("file (%s) not found", args[0])
			}
			return opts.validate()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), args[0], opts)
		},
	}

	flags := cmd.Flags()
	flags.Float64Var(&opts.epsilon, "epsilon", 0.25, "relative error of the estimate")
	flags.Float64Var(&opts.delta, "delta", 0.15, "probability that the estimate misses the error bound")
	flags.Uint64Var(&opts.seed, "seed", 42, "seed of the weight function and of the sampler")
	flags.StringVar(&opts.latte, "latte", integrate.DefaultLatteBinary, "path to LattE's integrate binary")
	flags.Float64Var(&opts.lower, "lower", 0, "lower bound of every real variable")
	flags.Float64Var(&opts.upper, "upper", 10, "upper bound of every real variable")
	flags.IntVarP(&opts.verbosity, "verbosity", "v", 0, "log verbosity")
	flags.BoolVar(&opts.trace, "trace", false, "print every coverage trial to stderr")
	return cmd
}
