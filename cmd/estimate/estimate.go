package estimate

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"time"

	"github.com/operator-framework/wmidnf/internal/generator"
	"github.com/operator-framework/wmidnf/internal/lib/util"
	"github.com/operator-framework/wmidnf/pkg/wmi"
	"github.com/operator-framework/wmidnf/pkg/wmi/solver"
)

func run(ctx context.Context, out, errOut io.Writer, path string, opts *options) error {
	if ctx == nil {
		ctx = context.Background()
	}
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("error opening test description (%s): %w", path, err)
	}
	defer file.Close()

	in, err := wmi.ReadInstance(file)
	if err != nil {
		return fmt.Errorf("error parsing test description (%s): %w", path, err)
	}

	domain, err := wmi.NewDomain(in.NbReals, opts.lower, opts.upper)
	if err != nil {
		return err
	}
	weight, err := generator.Weight(rand.New(rand.NewPCG(opts.seed, opts.seed)), in.NbReals, in.NbBools)
	if err != nil {
		return err
	}

	logger := util.NewLogger(errOut, opts.verbosity)
	solverOpts := []solver.Option{
		solver.WithLatte(opts.latte, logger),
		solver.WithSeed(opts.seed),
		solver.WithLogger(logger),
	}
	if opts.trace {
		solverOpts = append(solverOpts, solver.WithTracer(solver.NewLoggingTracer(errOut)))
	}

	start := time.Now()
	so, err := solver.NewWMISolver(ctx, in.Formula, in.NbBools, domain, weight, solverOpts...)
	if err != nil {
		return err
	}
	solution, err := so.Estimate(ctx, opts.epsilon, opts.delta)
	if err != nil {
		return fmt.Errorf("no estimate found: %w", err)
	}
	elapsed := time.Since(start)

	fmt.Fprintf(out, "Report for %s:\n\n", path)
	fmt.Fprintf(out, "Eps: %g\n", opts.epsilon)
	fmt.Fprintf(out, "Delta: %g\n", opts.delta)
	fmt.Fprintf(out, "Instance: %d reals, %d booleans, %d clauses over %s\n", in.NbReals, in.NbBools, len(in.Formula), domain)
	fmt.Fprintf(out, "WF (as list of monomials): %v\n\n", weight.Monomials())
	fmt.Fprintf(out, "Result: %g\n", solution.Value())
	fmt.Fprintf(out, "Trials: %d\n", solution.Trials())
	fmt.Fprintf(out, "Execution time: %.2f sec\n", elapsed.Seconds())
	return nil
}
