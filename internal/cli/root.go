package cli

import (
	"context"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/csnkit/pkg/buildinfo"
)

// Execute runs the csnkit CLI. This is the entry point used by main; it
// wires the command tree, configures logging from the --verbose flag,
// and executes with the given context so interrupts propagate into the
// pipeline.
func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:   "csnkit",
		Short: "csnkit analyzes conformation space networks",
		Long: `csnkit builds a conformation space network from molecular-dynamics
transition counts, trims it to its main communicating component, computes
stationary distributions and committor probabilities, and exports the
annotated network for visualization.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(os.Stderr, level)))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newAnalyzeCmd())
	root.AddCommand(newTrimCmd())
	root.AddCommand(newSteadyCmd())

	return root
}
