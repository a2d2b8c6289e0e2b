// Package pipeline wires the stages into the full clean → matrix →
// partition → project run.
package pipeline

import (
	"context"
	"io"
	"log/slog"

	"github.com/awalczak/cartstream/internal/catalog"
	"github.com/awalczak/cartstream/internal/clean"
	"github.com/awalczak/cartstream/internal/config"
	"github.com/awalczak/cartstream/internal/matrix"
	"github.com/awalczak/cartstream/internal/model"
	"github.com/awalczak/cartstream/internal/partition"
	"github.com/awalczak/cartstream/internal/projection"
)

// Pipeline runs the whole conversion end to end. Stages execute
// sequentially; each stage is atomic, cancellation is honored between
// stages only. Partial output left behind by a failed run is the caller's
// to discard.
type Pipeline struct {
	// Progress receives progress bars; nil disables them.
	Progress   io.Writer
	Paths      config.Paths
	Projection projection.Options
	// Grouped declares the input's records contiguous per transaction.
	Grouped bool
	// FlushEvery bounds the matrix writer buffer; zero uses the default.
	FlushEvery int
}

// New returns a Pipeline over the given file layout.
func New(paths config.Paths) *Pipeline {
	return &Pipeline{Paths: paths}
}

// Run executes every stage in order and returns the aggregated summary.
// Structural errors abort immediately; validation-level issues are
// recovered locally and surface only as summary counts.
func (p *Pipeline) Run(ctx context.Context) (model.RunSummary, error) {
	var summary model.RunSummary

	slog.Info("cleaning records", "input", p.Paths.Input)
	cleanSummary, err := clean.Run(p.Paths.Input, p.Paths.Cleaned())
	if err != nil {
		return summary, err
	}
	summary.Clean = cleanSummary

	if err := ctx.Err(); err != nil {
		return summary, err
	}

	slog.Info("building catalog", "cleaned", p.Paths.Cleaned())
	cat, _, err := catalog.Build(p.Paths.Cleaned())
	if err != nil {
		return summary, err
	}
	if err := catalog.WriteItems(cat, p.Paths.Items()); err != nil {
		return summary, err
	}

	if err := ctx.Err(); err != nil {
		return summary, err
	}

	streamer := &matrix.Streamer{
		Catalog:    cat,
		Progress:   p.Progress,
		Grouped:    p.Grouped,
		FlushEvery: p.FlushEvery,
	}
	matrixSummary, err := streamer.Stream(p.Paths.Cleaned(), p.Paths.Matrix())
	if err != nil {
		return summary, err
	}
	summary.Matrix = matrixSummary

	if stats, err := matrix.Analyze(p.Paths.Matrix()); err == nil {
		matrix.LogStats(stats)
	} else {
		slog.Warn("matrix analysis failed", "error", err)
	}

	if err := ctx.Err(); err != nil {
		return summary, err
	}

	partitioner := &partition.Partitioner{
		BatchDir: p.Paths.BatchDir,
		Compress: p.Paths.Compress,
		Progress: p.Progress,
	}
	partitionSummary, err := partitioner.Run(p.Paths.Cleaned(), p.Paths.Matrix())
	if err != nil {
		return summary, err
	}
	summary.Partition = partitionSummary

	if err := ctx.Err(); err != nil {
		return summary, err
	}

	projectionSummary, err := projection.ProcessAll(p.Paths.BatchDir, p.Paths.ReducedDir, p.Projection)
	if err != nil {
		return summary, err
	}
	summary.Projection = projectionSummary

	return summary, nil
}
