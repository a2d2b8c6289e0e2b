package matrix

import (
	"fmt"
	"io"
	"log/slog"
	"sort"

	"github.com/awalczak/cartstream/internal/tabular"
)

// Count pairs an identifier with an occurrence count, used for the
// most-popular-items and largest-transactions rankings.
type Count struct {
	ID string
	N  int
}

// Stats describes the shape and density of a matrix artifact.
type Stats struct {
	TopItems        []Count
	TopTransactions []Count
	Rows            int
	Cols            int
	Filled          int
}

// Density returns the share of filled cells, 0–100.
func (s Stats) Density() float64 {
	total := s.Rows * s.Cols
	if total == 0 {
		return 0
	}
	return float64(s.Filled) / float64(total) * 100
}

// AvgItemsPerTransaction returns the mean row sum.
func (s Stats) AvgItemsPerTransaction() float64 {
	if s.Rows == 0 {
		return 0
	}
	return float64(s.Filled) / float64(s.Rows)
}

// AvgTransactionsPerItem returns the mean column sum.
func (s Stats) AvgTransactionsPerItem() float64 {
	if s.Cols == 0 {
		return 0
	}
	return float64(s.Filled) / float64(s.Cols)
}

// Analyze streams the matrix artifact once and computes its shape, density
// and top-10 rankings. Peak memory is one row plus the per-column counts.
func Analyze(matrixPath string) (Stats, error) {
	reader, err := tabular.Open(matrixPath)
	if err != nil {
		return Stats{}, err
	}
	defer func() { _ = reader.Close() }()

	header := reader.Header()
	if len(header) < 1 || header[0] != HeaderColumn {
		return Stats{}, fmt.Errorf("%w: %q in %s", tabular.ErrMissingColumn, HeaderColumn, matrixPath)
	}
	items := header[1:]

	stats := Stats{Cols: len(items)}
	colSums := make([]int, len(items))
	var rowCounts []Count

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Stats{}, fmt.Errorf("failed to read %s: %w", matrixPath, err)
		}

		stats.Rows++
		rowSum := 0
		for i := 1; i < len(row) && i <= len(items); i++ {
			if row[i] == "1" {
				rowSum++
				colSums[i-1]++
			}
		}
		stats.Filled += rowSum
		rowCounts = append(rowCounts, Count{ID: tabular.Cell(row, 0), N: rowSum})
	}

	itemCounts := make([]Count, len(items))
	for i, item := range items {
		itemCounts[i] = Count{ID: item, N: colSums[i]}
	}
	stats.TopItems = topN(itemCounts, 10)
	stats.TopTransactions = topN(rowCounts, 10)

	return stats, nil
}

// LogStats writes the matrix analysis to the log the way the run summary
// expects it.
func LogStats(stats Stats) {
	slog.Info("matrix analysis",
		"rows", stats.Rows,
		"cols", stats.Cols,
		"density_pct", fmt.Sprintf("%.2f", stats.Density()),
		"avg_items_per_transaction", fmt.Sprintf("%.2f", stats.AvgItemsPerTransaction()),
		"avg_transactions_per_item", fmt.Sprintf("%.2f", stats.AvgTransactionsPerItem()))

	for _, c := range stats.TopItems {
		slog.Info("popular item", "item", c.ID, "transactions", c.N)
	}
	for _, c := range stats.TopTransactions {
		slog.Info("large transaction", "transaction", c.ID, "items", c.N)
	}
}

// topN returns the n highest counts, ties broken by identifier for
// deterministic output.
func topN(counts []Count, n int) []Count {
	sorted := make([]Count, len(counts))
	copy(sorted, counts)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].N != sorted[j].N {
			return sorted[i].N > sorted[j].N
		}
		return sorted[i].ID < sorted[j].ID
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
