package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/awalczak/cartstream/internal/clean"
	"github.com/awalczak/cartstream/internal/cli"
	"github.com/awalczak/cartstream/internal/config"
)

func cleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Filter invalid records out of the raw sales log",
		Long: `Reads the raw sales log, drops records that fail the validity rules
(empty required fields, non-positive unit price), and writes the cleaned
record table. Every discarded record is logged with its reasons.`,
		RunE: runClean,
	}

	addPathFlags(cmd)
	return cmd
}

func runClean(cmd *cobra.Command, _ []string) error {
	bindPathFlags(cmd)
	paths, err := config.Load()
	if err != nil {
		return err
	}

	summary, err := clean.Run(paths.Input, paths.Cleaned())
	if err != nil {
		return fmt.Errorf("cleaning failed: %w", err)
	}

	slog.Info("cleaning complete",
		"kept", summary.CleanRows,
		"input", summary.InputRows,
		"discarded", len(summary.Discards),
		"path", paths.Cleaned())
	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Cleaned %d of %d rows (%d discarded) → %s",
		summary.CleanRows, summary.InputRows, len(summary.Discards), paths.Cleaned())))
	return nil
}
