package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/awalczak/cartstream/internal/config"
	"github.com/awalczak/cartstream/internal/pipeline"
)

func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the full pipeline: clean, matrix, partition, project",
		RunE:  runAll,
	}

	addPathFlags(cmd)
	addMatrixFlags(cmd)
	addProjectionFlags(cmd)
	return cmd
}

func runAll(cmd *cobra.Command, _ []string) error {
	bindPathFlags(cmd)
	bindMatrixFlags(cmd)
	bindProjectionFlags(cmd)
	paths, err := config.Load()
	if err != nil {
		return err
	}

	p := pipeline.New(paths)
	p.Progress = os.Stderr
	p.Grouped = viper.GetBool("matrix.grouped")
	p.FlushEvery = viper.GetInt("matrix.flush_every")
	p.Projection = projectionOptions()

	summary, err := p.Run(cmd.Context())
	if err != nil {
		return fmt.Errorf("pipeline failed: %w", err)
	}

	fmt.Println(pipeline.RenderSummary(summary))
	return nil
}
