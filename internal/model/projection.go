package model

// ProjectionModel is a fitted linear dimensionality-reduction transform.
// It is fitted exactly once against one designated partition and then
// shared read-only by every apply call; no field changes after fitting,
// so concurrent reads need no synchronization.
type ProjectionModel struct {
	// Components holds the projection matrix, TargetDim rows of
	// SourceDim coefficients.
	Components [][]float64
	SourceDim  int
	TargetDim  int
	Seed       int64
}

// Project maps a source-dimension vector into the embedding space.
func (m *ProjectionModel) Project(row []float64) []float64 {
	out := make([]float64, m.TargetDim)
	for k, component := range m.Components {
		var sum float64
		for i, c := range component {
			sum += c * row[i]
		}
		out[k] = sum
	}
	return out
}
