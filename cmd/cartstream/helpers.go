package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// addPathFlags registers the file-layout flags shared by every stage
// command. Binding to viper happens in bindPathFlags at run time: each
// stage command carries its own flag instances, so binding here would
// leave the keys attached to whichever command registered last.
func addPathFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("input", "i", "", "raw sales log file")
	cmd.Flags().StringP("output-dir", "o", "", "directory for cleaned table, items list and matrix (default: input's directory)")
	cmd.Flags().String("batch-dir", "", "directory for per-month batch files (default: <output-dir>/batches)")
	cmd.Flags().String("reduced-dir", "", "directory for reduced batch files (default: <output-dir>/batches_reduced)")
	cmd.Flags().Bool("compress", false, "gzip-compress the matrix and batch files")
}

// bindPathFlags points the paths.* viper keys at the invoked command's
// flag instances.
func bindPathFlags(cmd *cobra.Command) {
	_ = viper.BindPFlag("paths.input", cmd.Flags().Lookup("input"))
	_ = viper.BindPFlag("paths.output_dir", cmd.Flags().Lookup("output-dir"))
	_ = viper.BindPFlag("paths.batch_dir", cmd.Flags().Lookup("batch-dir"))
	_ = viper.BindPFlag("paths.reduced_dir", cmd.Flags().Lookup("reduced-dir"))
	_ = viper.BindPFlag("paths.compress", cmd.Flags().Lookup("compress"))
}

// addMatrixFlags registers the matrix-build flags.
func addMatrixFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("grouped", false, "input records are contiguous per transaction (pre-sorted)")
	cmd.Flags().Int("flush-every", 0, "flush the matrix writer after this many rows (0 = default)")
}

func bindMatrixFlags(cmd *cobra.Command) {
	_ = viper.BindPFlag("matrix.grouped", cmd.Flags().Lookup("grouped"))
	_ = viper.BindPFlag("matrix.flush_every", cmd.Flags().Lookup("flush-every"))
}

// addProjectionFlags registers the projection-fit flags.
func addProjectionFlags(cmd *cobra.Command) {
	cmd.Flags().Int("target-dim", 0, "target dimension (0 = derive from the fitting batch via the JL bound)")
	cmd.Flags().Float64("eps", 0.5, "distance-distortion tolerance for the derived dimension")
	cmd.Flags().Int64("seed", 42, "random seed for the projection fit")
}

func bindProjectionFlags(cmd *cobra.Command) {
	_ = viper.BindPFlag("projection.target_dim", cmd.Flags().Lookup("target-dim"))
	_ = viper.BindPFlag("projection.eps", cmd.Flags().Lookup("eps"))
	_ = viper.BindPFlag("projection.seed", cmd.Flags().Lookup("seed"))
}
