package model

// CleanSummary reports the outcome of the record filtering stage.
type CleanSummary struct {
	Discards  []Discard
	InputRows int
	CleanRows int
}

// ReductionPercent returns the share of input rows discarded, 0–100.
func (s CleanSummary) ReductionPercent() float64 {
	if s.InputRows == 0 {
		return 0
	}
	return float64(len(s.Discards)) / float64(s.InputRows) * 100
}

// MatrixSummary reports the outcome of the matrix build stage.
type MatrixSummary struct {
	Path         string
	Transactions int
	Items        int
}

// PeriodCount holds per-partition row and distinct-invoice counts.
type PeriodCount struct {
	Period   PeriodKey
	Path     string
	Rows     int
	Invoices int
}

// PartitionSummary reports the outcome of the time partitioning stage.
type PartitionSummary struct {
	Periods   []PeriodCount
	TotalRows int
	Unmatched int
}

// ProjectionSummary reports the outcome of the projection stage.
type ProjectionSummary struct {
	FittedOn      string
	SourceDim     int
	TargetDim     int
	Batches       int
	RowsProcessed int
	Clamped       bool
}

// CompressionRatio returns source over target dimensionality.
func (s ProjectionSummary) CompressionRatio() float64 {
	if s.TargetDim == 0 {
		return 0
	}
	return float64(s.SourceDim) / float64(s.TargetDim)
}

// RunSummary aggregates the per-stage summaries for a full pipeline run.
type RunSummary struct {
	Clean      CleanSummary
	Matrix     MatrixSummary
	Partition  PartitionSummary
	Projection ProjectionSummary
}
