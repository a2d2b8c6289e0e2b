// Package clean filters invalid records out of the raw sales log.
//
// Every validity rule is evaluated for every record, not short-circuited,
// so a discarded record reports the full set of violated rules. Validation
// failures never terminate the run; structural problems (missing file,
// missing column) abort before any output row is written.
package clean

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/awalczak/cartstream/internal/model"
	"github.com/awalczak/cartstream/internal/tabular"
)

// Canonical column names of the sales log and the cleaned record table.
const (
	ColTransactionID = "transaction_id"
	ColItemID        = "item_id"
	ColDescription   = "description"
	ColQuantity      = "quantity"
	ColTimestamp     = "timestamp"
	ColCustomerID    = "customer_id"
	ColUnitPrice     = "unit_price"
)

// Columns is the canonical column order of the cleaned record table.
var Columns = []string{
	ColTransactionID,
	ColItemID,
	ColDescription,
	ColQuantity,
	ColTimestamp,
	ColCustomerID,
	ColUnitPrice,
}

// requiredFields are the fields whose emptiness discards a record.
// Description is carried as a label only and may be blank.
var requiredFields = []string{
	ColTransactionID,
	ColItemID,
	ColQuantity,
	ColTimestamp,
	ColCustomerID,
}

// Run reads the raw sales log at inputPath, writes passing records to
// outputPath in canonical column order, and returns the summary with one
// Discard per rejected row. Input order is preserved.
func Run(inputPath, outputPath string) (model.CleanSummary, error) {
	reader, err := tabular.Open(inputPath)
	if err != nil {
		return model.CleanSummary{}, err
	}
	defer func() { _ = reader.Close() }()

	cols, err := reader.RequireColumns(Columns...)
	if err != nil {
		return model.CleanSummary{}, err
	}

	writer, err := tabular.Create(outputPath, Columns)
	if err != nil {
		return model.CleanSummary{}, err
	}

	summary, err := filter(reader, writer, cols)
	if closeErr := writer.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	if err != nil {
		return model.CleanSummary{}, err
	}

	slog.Info("cleanup complete",
		"input_rows", summary.InputRows,
		"clean_rows", summary.CleanRows,
		"discarded", len(summary.Discards),
		"reduction_pct", fmt.Sprintf("%.2f", summary.ReductionPercent()))

	return summary, nil
}

func filter(reader *tabular.Reader, writer *tabular.Writer, cols map[string]int) (model.CleanSummary, error) {
	var summary model.CleanSummary

	for line := 1; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return summary, fmt.Errorf("failed to read row %d: %w", line, err)
		}

		summary.InputRows++
		raw := rawRecord(row, cols, line)

		if reasons := Validate(raw); len(reasons) > 0 {
			summary.Discards = append(summary.Discards, model.Discard{Record: raw, Reasons: reasons})
			slog.Info("discarding record",
				"row", line+1, // 1-based with header, matching the source file
				"reason", strings.Join(reasons, "; "),
				"transaction_id", raw.TransactionID,
				"item_id", raw.ItemID)
			continue
		}

		if err := writer.Write([]string{
			raw.TransactionID,
			raw.ItemID,
			raw.Description,
			raw.Quantity,
			raw.Timestamp,
			raw.CustomerID,
			raw.UnitPrice,
		}); err != nil {
			return summary, err
		}
		summary.CleanRows++
	}

	return summary, nil
}

// rawRecord extracts the canonical fields from a source row. Cells beyond
// the row's length read as empty, so a truncated row fails the field
// checks instead of aborting the parse.
func rawRecord(row []string, cols map[string]int, line int) model.RawRecord {
	cell := func(name string) string {
		i := cols[name]
		if i >= len(row) {
			return ""
		}
		return row[i]
	}

	return model.RawRecord{
		TransactionID: cell(ColTransactionID),
		ItemID:        cell(ColItemID),
		Description:   cell(ColDescription),
		Quantity:      cell(ColQuantity),
		Timestamp:     cell(ColTimestamp),
		CustomerID:    cell(ColCustomerID),
		UnitPrice:     cell(ColUnitPrice),
		Line:          line,
	}
}

// Validate applies every validity rule to a raw record and returns the
// reasons that fired, in rule order. An empty slice means the record passes.
func Validate(raw model.RawRecord) []string {
	var reasons []string

	fields := map[string]string{
		ColTransactionID: raw.TransactionID,
		ColItemID:        raw.ItemID,
		ColQuantity:      raw.Quantity,
		ColTimestamp:     raw.Timestamp,
		ColCustomerID:    raw.CustomerID,
	}
	for _, name := range requiredFields {
		if strings.TrimSpace(fields[name]) == "" {
			reasons = append(reasons, name+" is empty")
		}
	}

	// Cells that fail to parse count as empty, matching how a spreadsheet
	// reader surfaces unusable cells.
	if strings.TrimSpace(raw.Quantity) != "" {
		if _, err := strconv.ParseFloat(strings.TrimSpace(raw.Quantity), 64); err != nil {
			reasons = append(reasons, ColQuantity+" is empty")
		}
	}
	if strings.TrimSpace(raw.Timestamp) != "" {
		if _, err := model.ParseTimestamp(raw.Timestamp); err != nil {
			reasons = append(reasons, ColTimestamp+" is empty")
		}
	}

	price := strings.TrimSpace(raw.UnitPrice)
	if price == "" {
		reasons = append(reasons, ColUnitPrice+" is empty")
	} else if v, err := strconv.ParseFloat(price, 64); err != nil {
		reasons = append(reasons, ColUnitPrice+" is empty")
	} else if v <= 0 {
		reasons = append(reasons, ColUnitPrice+" is non-positive")
	}

	return reasons
}
