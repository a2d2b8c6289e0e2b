package projection

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/awalczak/cartstream/internal/model"
	"github.com/awalczak/cartstream/internal/partition"
	"github.com/awalczak/cartstream/internal/tabular"
)

// ProcessAll fits one model on the chronologically first batch under
// batchDir and applies it, unmodified, to every batch including the one it
// was fit on. Reduced batches land in outDir with a "_reduced" suffix.
func ProcessAll(batchDir, outDir string, opts Options) (model.ProjectionSummary, error) {
	batches, err := partition.ListBatches(batchDir)
	if err != nil {
		return model.ProjectionSummary{}, err
	}
	if len(batches) == 0 {
		return model.ProjectionSummary{}, fmt.Errorf("%w: no batch files under %s", tabular.ErrMissingInput, batchDir)
	}

	fitBatch := batches[0]
	slog.Info("fitting projection", "batch", fitBatch, "seed", opts.Seed)
	fit, err := Fit(fitBatch, opts)
	if err != nil {
		return model.ProjectionSummary{}, err
	}

	summary := model.ProjectionSummary{
		FittedOn:  fitBatch,
		SourceDim: fit.Model.SourceDim,
		TargetDim: fit.Model.TargetDim,
		Clamped:   fit.Clamped,
	}

	for _, batch := range batches {
		outPath := filepath.Join(outDir, ReducedName(filepath.Base(batch)))
		rows, err := Apply(batch, fit.Model, outPath)
		if err != nil {
			return summary, err
		}
		summary.Batches++
		summary.RowsProcessed += rows
		slog.Info("reduced batch written",
			"batch", filepath.Base(batch),
			"output", outPath,
			"rows", rows)
	}

	slog.Info("projection complete",
		"batches", summary.Batches,
		"rows", summary.RowsProcessed,
		"source_dim", summary.SourceDim,
		"target_dim", summary.TargetDim,
		"compression_ratio", fmt.Sprintf("%.2fx", summary.CompressionRatio()))

	return summary, nil
}

// ReducedName inserts the "_reduced" suffix before the tabular extension:
// batch_2010-12.csv → batch_2010-12_reduced.csv. A trailing ".gz" is
// preserved.
func ReducedName(name string) string {
	gz := strings.HasSuffix(name, ".gz")
	if gz {
		name = strings.TrimSuffix(name, ".gz")
	}
	ext := filepath.Ext(name)
	name = strings.TrimSuffix(name, ext) + "_reduced" + ext
	if gz {
		name += ".gz"
	}
	return name
}
