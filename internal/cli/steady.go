package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/csnkit/pkg/csn"
	"github.com/matzehuels/csnkit/pkg/matio"
)

func newSteadyCmd() *cobra.Command {
	var (
		symmetrize bool
		minCount   float64
		skipTrim   bool
		tol        float64
		maxIter    int
	)

	cmd := &cobra.Command{
		Use:   "steady <counts-file>",
		Short: "Compute the stationary distribution by both methods",
		Long: `Steady trims the network and computes its stationary distribution twice -
by eigendecomposition and by power iteration - printing one line per state:
original index, eigenvector weight, iterative weight. The two columns are
independent computations and should agree closely; a large disagreement
points at an ill-conditioned transition matrix.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			counts, err := matio.LoadCounts(args[0])
			if err != nil {
				return err
			}
			c, err := csn.New(counts, symmetrize)
			if err != nil {
				return err
			}
			if !skipTrim {
				trim, err := c.Trim(minCount)
				if err != nil {
					return err
				}
				logger.Debug("trimmed network", "retained", len(trim.Indices))
			}

			prog := newProgress(logger)
			eigen, err := c.SolveEigen()
			if err != nil {
				return fmt.Errorf("eigenvector method: %w", err)
			}
			mult, err := c.SolveIterative(csn.IterOptions{Tol: tol, MaxIter: maxIter})
			if err != nil {
				return fmt.Errorf("iterative method: %w", err)
			}
			prog.done(fmt.Sprintf("Solved %d states", len(eigen)))

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "# state eig_weight mult_weight")
			for _, node := range c.ActiveGraph().Nodes() {
				fmt.Fprintf(out, "%d %.12g %.12g\n", node.Attrs.OrigIndex, eigen[node.Index], mult[node.Index])
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&symmetrize, "symmetrize", false, "symmetrize counts as (C + Cᵀ)/2")
	cmd.Flags().Float64Var(&minCount, "min-count", 0, "drop states with total outgoing count below this")
	cmd.Flags().BoolVar(&skipTrim, "skip-trim", false, "solve on the untrimmed network")
	cmd.Flags().Float64Var(&tol, "tol", 0, "iterative convergence tolerance (default 1e-10)")
	cmd.Flags().IntVar(&maxIter, "max-iter", 0, "iterative iteration cap (default 10000)")

	return cmd
}
