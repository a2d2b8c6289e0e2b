package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/awalczak/cartstream/internal/cli"
	"github.com/awalczak/cartstream/internal/config"
	"github.com/awalczak/cartstream/internal/projection"
)

func projectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Reduce batch dimensionality with a Gaussian random projection",
		Long: `Fits a Gaussian random projection on the chronologically first batch
and applies the identical transform to every batch, so the whole time
series shares one embedding space. The target dimension defaults to the
Johnson–Lindenstrauss minimum for the fitting batch's row count.`,
		RunE: runProject,
	}

	addPathFlags(cmd)
	addProjectionFlags(cmd)
	return cmd
}

func projectionOptions() projection.Options {
	return projection.Options{
		TargetDim: viper.GetInt("projection.target_dim"),
		Eps:       viper.GetFloat64("projection.eps"),
		Seed:      viper.GetInt64("projection.seed"),
	}
}

func runProject(cmd *cobra.Command, _ []string) error {
	bindPathFlags(cmd)
	bindProjectionFlags(cmd)
	paths, err := config.Load()
	if err != nil {
		return err
	}

	summary, err := projection.ProcessAll(paths.BatchDir, paths.ReducedDir, projectionOptions())
	if err != nil {
		return fmt.Errorf("projection failed: %w", err)
	}

	if summary.Clamped {
		slog.Warn("target dimension clamped below source dimension",
			"source_dim", summary.SourceDim, "target_dim", summary.TargetDim)
		fmt.Println(cli.FormatWarning("Target dimension was clamped to source − 1"))
	}
	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Projected %d batches (%d rows): %d → %d dimensions (%.2fx)",
		summary.Batches, summary.RowsProcessed, summary.SourceDim, summary.TargetDim, summary.CompressionRatio())))
	return nil
}
