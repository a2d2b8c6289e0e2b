package projection

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand"
	"strconv"

	"github.com/awalczak/cartstream/internal/matrix"
	"github.com/awalczak/cartstream/internal/model"
	"github.com/awalczak/cartstream/internal/tabular"
)

// DefaultEps is the error tolerance used when none is configured.
const DefaultEps = 0.5

// Options controls how a projection model is fitted.
type Options struct {
	// TargetDim is the requested embedding dimension. Zero means derive it
	// from the fitting batch's row count via the Johnson–Lindenstrauss
	// bound.
	TargetDim int
	// Eps is the distance-distortion tolerance for the derived dimension.
	// Zero means DefaultEps.
	Eps float64
	// Seed drives the Gaussian component draw. Identical seeds produce
	// identical models.
	Seed int64
}

// FitResult carries the fitted model plus what the fit saw.
type FitResult struct {
	Model *model.ProjectionModel
	Rows  int
	// Clamped records that the requested or derived dimension reached the
	// source dimension and was reduced to source−1.
	Clamped bool
}

// Fit fits a Gaussian random projection against one batch file. The
// components are drawn N(0, 1/k) from the seeded source; the batch
// contributes only its shape (row count for the JL bound, column count as
// the source dimension), so fitting streams the file without holding it.
func Fit(batchPath string, opts Options) (FitResult, error) {
	reader, err := tabular.Open(batchPath)
	if err != nil {
		return FitResult{}, err
	}
	defer func() { _ = reader.Close() }()

	sourceDim := len(reader.Header()) - 1
	if sourceDim < 1 {
		return FitResult{}, fmt.Errorf("%w: batch %s has no feature columns", ErrInvalidDimension, batchPath)
	}

	rows := 0
	for {
		if _, err := reader.Read(); err == io.EOF {
			break
		} else if err != nil {
			return FitResult{}, fmt.Errorf("failed to read %s: %w", batchPath, err)
		}
		rows++
	}

	eps := opts.Eps
	if eps == 0 {
		eps = DefaultEps
	}

	targetDim := opts.TargetDim
	if targetDim == 0 {
		targetDim, err = MinDimension(rows, eps)
		if err != nil {
			return FitResult{}, err
		}
		slog.Info("derived target dimension",
			"rows", rows,
			"eps", eps,
			"target_dim", targetDim)
	}

	clamped := false
	if targetDim >= sourceDim {
		slog.Warn("target dimension reaches source dimension, clamping",
			"target_dim", targetDim,
			"source_dim", sourceDim,
			"clamped_to", sourceDim-1)
		targetDim = sourceDim - 1
		clamped = true
	}
	if targetDim <= 0 {
		return FitResult{}, fmt.Errorf("%w: %d (source dimension %d)", ErrInvalidDimension, targetDim, sourceDim)
	}

	return FitResult{
		Model:   newModel(sourceDim, targetDim, opts.Seed),
		Rows:    rows,
		Clamped: clamped,
	}, nil
}

func newModel(sourceDim, targetDim int, seed int64) *model.ProjectionModel {
	rng := rand.New(rand.NewSource(seed))
	sigma := 1 / math.Sqrt(float64(targetDim))

	components := make([][]float64, targetDim)
	for k := range components {
		row := make([]float64, sourceDim)
		for i := range row {
			row[i] = rng.NormFloat64() * sigma
		}
		components[k] = row
	}

	return &model.ProjectionModel{
		Components: components,
		SourceDim:  sourceDim,
		TargetDim:  targetDim,
		Seed:       seed,
	}
}

// ComponentColumns returns the synthetic header for a k-dimensional
// embedding: component_0 … component_{k-1}.
func ComponentColumns(k int) []string {
	cols := make([]string, k)
	for i := range cols {
		cols[i] = "component_" + strconv.Itoa(i)
	}
	return cols
}

// Apply streams a batch through a fitted model into outPath. Row identity
// is carried through unchanged; the output header is the transaction id
// column plus the synthetic component names. Returns the row count.
func Apply(batchPath string, m *model.ProjectionModel, outPath string) (int, error) {
	reader, err := tabular.Open(batchPath)
	if err != nil {
		return 0, err
	}
	defer func() { _ = reader.Close() }()

	if got := len(reader.Header()) - 1; got != m.SourceDim {
		return 0, fmt.Errorf("%w: batch %s has %d feature columns, model expects %d",
			ErrInvalidDimension, batchPath, got, m.SourceDim)
	}

	writer, err := tabular.Create(outPath, append([]string{matrix.HeaderColumn}, ComponentColumns(m.TargetDim)...))
	if err != nil {
		return 0, err
	}

	rows, err := applyRows(reader, writer, m)
	if closeErr := writer.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	return rows, err
}

func applyRows(reader *tabular.Reader, writer *tabular.Writer, m *model.ProjectionModel) (int, error) {
	vec := make([]float64, m.SourceDim)
	rows := 0

	for {
		row, err := reader.Read()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return rows, fmt.Errorf("failed to read %s: %w", reader.Path(), err)
		}
		if len(row) != m.SourceDim+1 {
			return rows, fmt.Errorf("row %d of %s has %d cells, want %d",
				rows+1, reader.Path(), len(row), m.SourceDim+1)
		}

		for i := 0; i < m.SourceDim; i++ {
			v, err := strconv.ParseFloat(row[i+1], 64)
			if err != nil {
				return rows, fmt.Errorf("row %d of %s: cell %q is not numeric",
					rows+1, reader.Path(), row[i+1])
			}
			vec[i] = v
		}

		projected := m.Project(vec)
		out := make([]string, m.TargetDim+1)
		out[0] = row[0] // identity column rides along untouched
		for k, v := range projected {
			out[k+1] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := writer.Write(out); err != nil {
			return rows, err
		}
		rows++
	}
}
