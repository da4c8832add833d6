package generate

import (
	"fmt"
	"io"
	"math/rand/v2"
	"os"

	"github.com/spf13/cobra"

	"github.com/operator-framework/wmidnf/internal/generator"
	"github.com/operator-framework/wmidnf/pkg/wmi"
)

type options struct {
	reals         int
	bools         int
	clauses       int
	minWidth      int
	maxWidth      int
	avgAtomLength int
	lower         float64
	upper         float64
	seed          uint64
	output        string
}

func (o *options) validate() error {
	switch {
	case o.reals < 0 || o.bools < 0 || o.reals+o.bools == 0:
		return fmt.Errorf("need at least one variable, got %d reals and %d booleans", o.reals, o.bools)
	case o.clauses <= 0:
		return fmt.Errorf("need at least one clause, got %d", o.clauses)
	case o.minWidth <= 0 || o.maxWidth < o.minWidth:
		return fmt.Errorf("invalid clause widths [%d, %d]", o.minWidth, o.maxWidth)
	case o.avgAtomLength <= 0:
		return fmt.Errorf("average atom length must be positive, got %d", o.avgAtomLength)
	case o.lower > o.upper:
		return fmt.Errorf("lower bound %g is above upper bound %g", o.lower, o.upper)
	}
	return nil
}

func NewGenerateCommand() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Writes a random hybrid DNF test description",
		Long: `Writes a random hybrid DNF test description. Every real literal of the
underlying random DNF becomes a linear atom with integer coefficients, and the
atoms of a clause are oriented so that a random point of the domain satisfies
them all.`,
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.validate()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if opts.output != "" {
				f, err := os.Create(opts.output)
				if err != nil {
					return fmt.Errorf("error creating output file (%s): %w", opts.output, err)
				}
				defer f.Close()
				out = f
			}
			return generate(out, opts)
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&opts.reals, "reals", 3, "number of real variables")
	flags.IntVar(&opts.bools, "bools", 3, "number of boolean variables")
	flags.IntVar(&opts.clauses, "clauses", 5, "number of clauses")
	flags.IntVar(&opts.minWidth, "min-width", 2, "minimum number of literals per clause")
	flags.IntVar(&opts.maxWidth, "max-width", 3, "maximum number of literals per clause")
	flags.IntVar(&opts.avgAtomLength, "avg-atom-length", 2, "average number of variables per linear atom")
	flags.Float64Var(&opts.lower, "lower", 0, "lower bound of every real variable")
	flags.Float64Var(&opts.upper, "upper", 10, "upper bound of every real variable")
	flags.Uint64Var(&opts.seed, "seed", 42, "generator seed")
	flags.StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	return cmd
}

func generate(out io.Writer, opts *options) error {
	domain, err := wmi.NewDomain(opts.reals, opts.lower, opts.upper)
	if err != nil {
		return err
	}
	in, err := generator.LRA(rand.New(rand.NewPCG(opts.seed, opts.seed)), generator.Config{
		NbReals:       opts.reals,
		NbBools:       opts.bools,
		NbClauses:     opts.clauses,
		MinWidth:      opts.minWidth,
		MaxWidth:      opts.maxWidth,
		AvgAtomLength: opts.avgAtomLength,
		Domain:        domain,
	})
	if err != nil {
		return err
	}
	return wmi.WriteInstance(out, in)
}
