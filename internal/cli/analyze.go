package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/csnkit/pkg/matio"
	"github.com/matzehuels/csnkit/pkg/pipeline"
)

// artifactExtensions maps export formats to output file names.
var artifactExtensions = map[string]string{
	pipeline.FormatGEXF: "csn.gexf",
	pipeline.FormatDOT:  "csn.dot",
	pipeline.FormatSVG:  "csn.svg",
}

func newAnalyzeCmd() *cobra.Command {
	var (
		configPath string
		counts     string
		symmetrize bool
		minCount   float64
		skipTrim   bool
		formats    []string
		outDir     string
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run the full analysis pipeline and export the annotated network",
		Long: `Analyze builds a conformation space network from a count matrix, trims it
to its main communicating component, computes stationary distributions by
both the eigenvector and iterative methods, runs the committor analysis
when basins are configured, and writes the requested export formats.

The run is driven either by a TOML config (--config, which is the only way
to define basins) or directly by flags.`,
		Example: `  csnkit analyze --config analysis.toml
  csnkit analyze --counts counts.dat --symmetrize --min-count 10 -f gexf -f dot`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			opts := pipeline.Options{
				CountsPath: counts,
				Symmetrize: symmetrize,
				MinCount:   minCount,
				SkipTrim:   skipTrim,
				Formats:    formats,
				Logger:     logger,
			}
			if configPath != "" {
				if counts != "" {
					return fmt.Errorf("--config and --counts are mutually exclusive")
				}
				cfg, err := matio.LoadConfig(configPath)
				if err != nil {
					return err
				}
				opts, err = pipeline.FromConfig(cfg, logger)
				if err != nil {
					return err
				}
				opts.SkipTrim = skipTrim
				if cfg.OutDir != "" && outDir == "." {
					outDir = cfg.OutDir
				}
			}

			prog := newProgress(logger)
			runner := pipeline.NewRunner(logger)
			result, err := runner.Execute(cmd.Context(), opts)
			if err != nil {
				return err
			}

			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("create output directory: %w", err)
			}
			for format, data := range result.Artifacts {
				path := filepath.Join(outDir, artifactExtensions[format])
				if err := os.WriteFile(path, data, 0o644); err != nil {
					return fmt.Errorf("write %s: %w", path, err)
				}
				logger.Debug("wrote artifact", "path", path, "bytes", len(data))
			}
			prog.done(fmt.Sprintf("Analyzed %d states", result.Stats.States))

			s := summary{title: "Analysis " + result.RunID}
			s.add("states", "%d (%d after trim)", result.Stats.States, result.Stats.TrimmedStates)
			s.add("edges", "%d", result.Stats.Edges)
			if len(opts.Labels) > 0 {
				s.add("basins", "%v", opts.Labels)
			}
			s.add("outputs", "%s", styleSuccess.Render(fmt.Sprintf("%d files in %s", len(result.Artifacts), outDir)))
			fmt.Fprint(cmd.OutOrStdout(), s.render())
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "TOML analysis config")
	cmd.Flags().StringVar(&counts, "counts", "", "count-matrix file (dense CSV or \"i j count\" triplets)")
	cmd.Flags().BoolVar(&symmetrize, "symmetrize", false, "symmetrize counts as (C + Cᵀ)/2")
	cmd.Flags().Float64Var(&minCount, "min-count", 0, "drop states with total outgoing count below this")
	cmd.Flags().BoolVar(&skipTrim, "skip-trim", false, "analyze the untrimmed network")
	cmd.Flags().StringSliceVarP(&formats, "format", "f", nil, "export formats: gexf, dot, svg (repeatable)")
	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "output directory")

	return cmd
}
