// Package matrix builds the binary transaction-by-item incidence matrix
// from the cleaned record stream.
package matrix

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/schollz/progressbar/v3"

	"github.com/awalczak/cartstream/internal/clean"
	"github.com/awalczak/cartstream/internal/model"
	"github.com/awalczak/cartstream/internal/tabular"
)

// HeaderColumn is the first column of the matrix artifact; the remaining
// columns are the catalog items in catalog order.
const HeaderColumn = "transaction_id"

// defaultFlushEvery matches the original pipeline's periodic save cadence.
const defaultFlushEvery = 500

// Streamer emits exactly one matrix row per distinct transaction, in the
// order transactions are first encountered in the cleaned stream. That
// first-seen order is the canonical row order for the whole pipeline;
// the catalog's lexicographic order applies to columns only.
type Streamer struct {
	// Progress receives the progress bar; nil disables it.
	Progress io.Writer
	Catalog  *model.Catalog
	// FlushEvery bounds the writer buffer: the output is flushed after
	// this many rows. Flush timing never changes output contents.
	FlushEvery int
	// Grouped declares that records for one transaction are contiguous in
	// the input (e.g. the source is pre-sorted). When false the streamer
	// falls back to buffering a transaction → item-set map, which costs
	// more memory but produces byte-identical output.
	Grouped bool
}

// Stream reads the cleaned record table and writes the matrix artifact.
func (s *Streamer) Stream(cleanedPath, matrixPath string) (model.MatrixSummary, error) {
	reader, err := tabular.Open(cleanedPath)
	if err != nil {
		return model.MatrixSummary{}, err
	}
	defer func() { _ = reader.Close() }()

	cols, err := reader.RequireColumns(clean.ColTransactionID, clean.ColItemID)
	if err != nil {
		return model.MatrixSummary{}, err
	}

	header := append([]string{HeaderColumn}, s.Catalog.Items()...)
	writer, err := tabular.Create(matrixPath, header)
	if err != nil {
		return model.MatrixSummary{}, err
	}

	summary, err := s.fill(reader, writer, cols[clean.ColTransactionID], cols[clean.ColItemID])
	if closeErr := writer.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	if err != nil {
		return model.MatrixSummary{}, err
	}

	summary.Path = matrixPath
	summary.Items = s.Catalog.Len()

	slog.Info("matrix artifact written",
		"path", matrixPath,
		"transactions", summary.Transactions,
		"items", summary.Items)

	return summary, nil
}

func (s *Streamer) fill(reader *tabular.Reader, writer *tabular.Writer, txnCol, itemCol int) (model.MatrixSummary, error) {
	if s.Grouped {
		return s.fillGrouped(reader, writer, txnCol, itemCol)
	}
	return s.fillBuffered(reader, writer, txnCol, itemCol)
}

// fillGrouped streams contiguous transaction groups, holding only the
// current transaction's item set in memory.
func (s *Streamer) fillGrouped(reader *tabular.Reader, writer *tabular.Writer, txnCol, itemCol int) (model.MatrixSummary, error) {
	var summary model.MatrixSummary
	bar := s.bar()

	current := ""
	items := make(map[int]struct{})
	unknown := 0
	truncated := 0

	emit := func() error {
		if current == "" {
			return nil
		}
		if err := s.writeRow(writer, current, items, &summary); err != nil {
			return err
		}
		_ = bar.Add(1)
		items = make(map[int]struct{})
		return nil
	}

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return summary, fmt.Errorf("failed to read %s: %w", reader.Path(), err)
		}

		txn := model.NormalizeKey(tabular.Cell(row, txnCol))
		item := tabular.Cell(row, itemCol)
		if txn == "" || item == "" {
			truncated++
			continue
		}
		if txn != current {
			if err := emit(); err != nil {
				return summary, err
			}
			current = txn
		}
		if idx, ok := s.Catalog.Index(item); ok {
			items[idx] = struct{}{}
		} else {
			unknown++
		}
	}
	if err := emit(); err != nil {
		return summary, err
	}

	_ = bar.Finish()
	s.warnSkipped(unknown, truncated)
	return summary, nil
}

// fillBuffered builds the complete transaction → item-set mapping before
// emitting any rows. Memory grows with transactions × items per
// transaction, but no contiguity guarantee is needed.
func (s *Streamer) fillBuffered(reader *tabular.Reader, writer *tabular.Writer, txnCol, itemCol int) (model.MatrixSummary, error) {
	var summary model.MatrixSummary

	var order []string
	sets := make(map[string]map[int]struct{})
	unknown := 0
	truncated := 0

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return summary, fmt.Errorf("failed to read %s: %w", reader.Path(), err)
		}

		txn := model.NormalizeKey(tabular.Cell(row, txnCol))
		item := tabular.Cell(row, itemCol)
		if txn == "" || item == "" {
			truncated++
			continue
		}
		set, ok := sets[txn]
		if !ok {
			set = make(map[int]struct{})
			sets[txn] = set
			order = append(order, txn)
		}
		if idx, ok := s.Catalog.Index(item); ok {
			set[idx] = struct{}{}
		} else {
			unknown++
		}
	}

	bar := s.bar()
	for _, txn := range order {
		if err := s.writeRow(writer, txn, sets[txn], &summary); err != nil {
			return summary, err
		}
		_ = bar.Add(1)
		delete(sets, txn) // release row state as it is written
	}

	_ = bar.Finish()
	s.warnSkipped(unknown, truncated)
	return summary, nil
}

// writeRow converts an item-index set into a presence row and appends it.
// Presence is strictly 0/1: repeated occurrences of an item still yield 1.
func (s *Streamer) writeRow(writer *tabular.Writer, txn string, items map[int]struct{}, summary *model.MatrixSummary) error {
	row := model.MatrixRow{
		TransactionID: txn,
		Presence:      make([]uint8, s.Catalog.Len()),
	}
	for idx := range items {
		row.Presence[idx] = 1
	}

	if err := writer.Write(row.Cells()); err != nil {
		return err
	}

	summary.Transactions++
	flushEvery := s.FlushEvery
	if flushEvery <= 0 {
		flushEvery = defaultFlushEvery
	}
	if summary.Transactions%flushEvery == 0 {
		if err := writer.Flush(); err != nil {
			return err
		}
	}
	return nil
}

func (s *Streamer) bar() *progressbar.ProgressBar {
	out := s.Progress
	if out == nil {
		out = io.Discard
	}
	return progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(out),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("Filling matrix..."),
	)
}

func (s *Streamer) warnSkipped(unknown, truncated int) {
	if unknown > 0 {
		// Items missing from the catalog mean the catalog and the stream
		// came from different inputs.
		slog.Warn("records referenced items outside the catalog", "count", unknown)
	}
	if truncated > 0 {
		slog.Warn("skipped records missing a transaction or item id", "count", truncated)
	}
}
