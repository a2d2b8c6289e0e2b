package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/awalczak/cartstream/internal/cli"
	"github.com/awalczak/cartstream/internal/config"
	"github.com/awalczak/cartstream/internal/partition"
)

func partitionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "partition",
		Short: "Split the matrix into per-month batch files",
		Long: `Maps each transaction to the calendar month of its earliest record,
then routes every matrix row into its month's batch file. Rows without a
period mapping are counted and skipped, never fatal.`,
		RunE: runPartition,
	}

	addPathFlags(cmd)
	return cmd
}

func runPartition(cmd *cobra.Command, _ []string) error {
	bindPathFlags(cmd)
	paths, err := config.Load()
	if err != nil {
		return err
	}

	partitioner := &partition.Partitioner{
		BatchDir: paths.BatchDir,
		Compress: paths.Compress,
		Progress: os.Stderr,
	}
	summary, err := partitioner.Run(paths.Cleaned(), paths.Matrix())
	if err != nil {
		return fmt.Errorf("partitioning failed: %w", err)
	}

	for _, pc := range summary.Periods {
		slog.Info("batch written", "period", pc.Period, "rows", pc.Rows, "path", pc.Path)
	}
	if summary.Unmatched > 0 {
		slog.Warn("matrix rows without a period mapping", "count", summary.Unmatched)
		fmt.Println(cli.FormatWarning(fmt.Sprintf("%d matrix rows had no period mapping", summary.Unmatched)))
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Partitioned %d rows into %d monthly batches → %s",
		summary.TotalRows-summary.Unmatched, len(summary.Periods), paths.BatchDir)))
	return nil
}
