package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/awalczak/cartstream/internal/catalog"
	"github.com/awalczak/cartstream/internal/cli"
	"github.com/awalczak/cartstream/internal/config"
	"github.com/awalczak/cartstream/internal/matrix"
)

func matrixCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "matrix",
		Short: "Build the binary transaction-by-item matrix",
		Long: `Derives the item catalog from the cleaned record table, then streams
the records a second time to emit one binary presence row per transaction.
Rows are emitted in first-seen order, columns in catalog (lexicographic)
order.`,
		RunE: runMatrix,
	}

	addPathFlags(cmd)
	addMatrixFlags(cmd)
	return cmd
}

func runMatrix(cmd *cobra.Command, _ []string) error {
	bindPathFlags(cmd)
	bindMatrixFlags(cmd)
	paths, err := config.Load()
	if err != nil {
		return err
	}

	cat, _, err := catalog.Build(paths.Cleaned())
	if err != nil {
		return fmt.Errorf("catalog build failed: %w", err)
	}
	if err := catalog.WriteItems(cat, paths.Items()); err != nil {
		return err
	}

	streamer := &matrix.Streamer{
		Catalog:    cat,
		Progress:   os.Stderr,
		Grouped:    viper.GetBool("matrix.grouped"),
		FlushEvery: viper.GetInt("matrix.flush_every"),
	}
	summary, err := streamer.Stream(paths.Cleaned(), paths.Matrix())
	if err != nil {
		return fmt.Errorf("matrix build failed: %w", err)
	}

	stats, err := matrix.Analyze(paths.Matrix())
	if err != nil {
		return fmt.Errorf("matrix analysis failed: %w", err)
	}
	matrix.LogStats(stats)

	slog.Info("matrix written",
		"transactions", summary.Transactions,
		"items", summary.Items,
		"path", summary.Path)
	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Matrix written: %d transactions × %d items → %s",
		summary.Transactions, summary.Items, summary.Path)))
	return nil
}
