package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/csnkit/pkg/csn"
	"github.com/matzehuels/csnkit/pkg/matio"
)

func newTrimCmd() *cobra.Command {
	var (
		symmetrize bool
		minCount   float64
	)

	cmd := &cobra.Command{
		Use:   "trim <counts-file>",
		Short: "Trim a network to its main component and print the index map",
		Long: `Trim applies the count and connectivity filters and prints one line per
retained state: its trimmed index and its original index. States below the
minimum outgoing count or outside the largest strongly-connected component
are dropped.`,
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
			trim, err := c.Trim(minCount)
			if err != nil {
				return err
			}
			logger.Info("trimmed network",
				"retained", len(trim.Indices),
				"removed", c.NumStates()-len(trim.Indices))

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "# trimmed original")
			for t, orig := range trim.Indices {
				fmt.Fprintf(out, "%d %d\n", t, orig)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&symmetrize, "symmetrize", false, "symmetrize counts as (C + Cᵀ)/2")
	cmd.Flags().Float64Var(&minCount, "min-count", 0, "drop states with total outgoing count below this")

	return cmd
}
