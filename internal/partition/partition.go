// Package partition routes matrix rows into per-month batch files.
//
// The design is two-pass: the first pass derives each transaction's period
// from the earliest timestamp among its cleaned records, the second pass
// streams the matrix artifact and appends every row verbatim to its
// period's batch file. A transaction is atomic: it belongs to exactly one
// period even if its records straddle a month boundary.
package partition

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/awalczak/cartstream/internal/clean"
	"github.com/awalczak/cartstream/internal/model"
	"github.com/awalczak/cartstream/internal/tabular"
)

// Partitioner writes one batch file per calendar month under BatchDir.
type Partitioner struct {
	// Progress receives the progress bar; nil disables it.
	Progress io.Writer
	BatchDir string
	// Compress writes batch files gzip-compressed (".csv.gz").
	Compress bool
}

// Run partitions the matrix artifact by the period mapping derived from
// the cleaned record table. Rows whose transaction id has no period
// mapping are counted and skipped, never fatal.
func (p *Partitioner) Run(cleanedPath, matrixPath string) (model.PartitionSummary, error) {
	periods, err := BuildPeriodMap(cleanedPath)
	if err != nil {
		return model.PartitionSummary{}, err
	}

	summary, err := p.route(matrixPath, periods)
	if err != nil {
		return model.PartitionSummary{}, err
	}

	if summary.Unmatched > 0 {
		slog.Warn("matrix rows had no period mapping",
			"unmatched", summary.Unmatched,
			"total", summary.TotalRows)
	}
	slog.Info("partitioning complete",
		"periods", len(summary.Periods),
		"rows", summary.TotalRows,
		"unmatched", summary.Unmatched,
		"batch_dir", p.BatchDir)

	return summary, nil
}

// BuildPeriodMap makes one pass over the cleaned record table and maps
// each normalized transaction id to the calendar month of its earliest
// record.
func BuildPeriodMap(cleanedPath string) (map[string]model.PeriodKey, error) {
	reader, err := tabular.Open(cleanedPath)
	if err != nil {
		return nil, err
	}
	defer func() { _ = reader.Close() }()

	cols, err := reader.RequireColumns(clean.ColTransactionID, clean.ColTimestamp)
	if err != nil {
		return nil, err
	}
	txnCol, tsCol := cols[clean.ColTransactionID], cols[clean.ColTimestamp]

	earliest := make(map[string]time.Time)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", cleanedPath, err)
		}

		ts, err := model.ParseTimestamp(tabular.Cell(row, tsCol))
		if err != nil {
			// The cleaning stage validates timestamps; anything left is a
			// hand-edited file. The row's transaction still partitions by
			// its other records, or surfaces as unmatched.
			continue
		}

		txn := model.NormalizeKey(tabular.Cell(row, txnCol))
		if txn == "" {
			continue
		}
		if cur, ok := earliest[txn]; !ok || ts.Before(cur) {
			earliest[txn] = ts
		}
	}

	periods := make(map[string]model.PeriodKey, len(earliest))
	for txn, ts := range earliest {
		periods[txn] = model.PeriodOf(ts)
	}
	return periods, nil
}

// route streams the matrix artifact row by row into per-period writers.
// Each batch file carries the same header and column order as the matrix.
func (p *Partitioner) route(matrixPath string, periods map[string]model.PeriodKey) (model.PartitionSummary, error) {
	reader, err := tabular.Open(matrixPath)
	if err != nil {
		return model.PartitionSummary{}, err
	}
	defer func() { _ = reader.Close() }()

	header := reader.Header()

	writers := make(map[model.PeriodKey]*tabular.Writer)
	counts := make(map[model.PeriodKey]*model.PeriodCount)
	defer func() {
		for _, w := range writers {
			_ = w.Close()
		}
	}()

	bar := p.bar()
	var summary model.PartitionSummary

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return summary, fmt.Errorf("failed to read %s: %w", matrixPath, err)
		}

		summary.TotalRows++
		_ = bar.Add(1)

		// Keys cross a file-format boundary here: the matrix writer may
		// have rendered the id differently than the cleaned table did.
		txn := model.NormalizeKey(tabular.Cell(row, 0))
		period, ok := periods[txn]
		if !ok {
			summary.Unmatched++
			continue
		}

		w, ok := writers[period]
		if !ok {
			w, err = tabular.Create(p.batchPath(period), header)
			if err != nil {
				return summary, err
			}
			writers[period] = w
			counts[period] = &model.PeriodCount{Period: period, Path: w.Path()}
		}

		if err := w.Write(row); err != nil {
			return summary, err
		}
		counts[period].Rows++
		counts[period].Invoices++ // one matrix row per invoice
	}
	_ = bar.Finish()

	for period, w := range writers {
		if err := w.Close(); err != nil {
			return summary, err
		}
		delete(writers, period)
		summary.Periods = append(summary.Periods, *counts[period])
	}
	sort.Slice(summary.Periods, func(i, j int) bool {
		return summary.Periods[i].Period < summary.Periods[j].Period
	})

	return summary, nil
}

func (p *Partitioner) batchPath(period model.PeriodKey) string {
	name := period.BatchName() + ".csv"
	if p.Compress {
		name += ".gz"
	}
	return filepath.Join(p.BatchDir, name)
}

func (p *Partitioner) bar() *progressbar.ProgressBar {
	out := p.Progress
	if out == nil {
		out = io.Discard
	}
	return progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(out),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("Routing matrix rows..."),
	)
}

// ListBatches returns the batch files under dir sorted lexicographically,
// which for batch_<YYYY-MM> names is chronological order.
func ListBatches(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", tabular.ErrMissingInput, dir)
		}
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	var batches []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, "batch_") {
			continue
		}
		if strings.Contains(name, "_reduced") {
			// Already-projected output, never an input batch.
			continue
		}
		if strings.HasSuffix(name, ".csv") || strings.HasSuffix(name, ".csv.gz") {
			batches = append(batches, filepath.Join(dir, name))
		}
	}
	sort.Strings(batches)
	return batches, nil
}
