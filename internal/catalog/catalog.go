// Package catalog derives the matrix dimensions from the cleaned record
// stream: the ordered set of distinct items (columns) and the set of
// distinct transaction ids (rows).
package catalog

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/awalczak/cartstream/internal/clean"
	"github.com/awalczak/cartstream/internal/model"
	"github.com/awalczak/cartstream/internal/tabular"
)

// Build makes a single forward pass over the cleaned record table and
// returns the item catalog plus the distinct transaction-id set. Memory is
// bounded by the distinct item and transaction cardinalities, not by row
// count.
func Build(cleanedPath string) (*model.Catalog, map[string]struct{}, error) {
	reader, err := tabular.Open(cleanedPath)
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = reader.Close() }()

	cols, err := reader.RequireColumns(clean.ColTransactionID, clean.ColItemID)
	if err != nil {
		return nil, nil, err
	}
	txnCol, itemCol := cols[clean.ColTransactionID], cols[clean.ColItemID]

	items := make(map[string]struct{})
	transactions := make(map[string]struct{})
	truncated := 0

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read %s: %w", cleanedPath, err)
		}

		item := strings.TrimSpace(tabular.Cell(row, itemCol))
		txn := model.NormalizeKey(tabular.Cell(row, txnCol))
		if item == "" || txn == "" {
			// Ragged or blanked row in a hand-edited file.
			truncated++
			continue
		}
		items[item] = struct{}{}
		transactions[txn] = struct{}{}
	}

	if truncated > 0 {
		slog.Warn("skipped rows missing a transaction or item id", "count", truncated)
	}

	ids := make([]string, 0, len(items))
	for item := range items {
		ids = append(ids, item)
	}
	cat := model.NewCatalog(ids)

	slog.Info("catalog built",
		"items", cat.Len(),
		"transactions", len(transactions))

	return cat, transactions, nil
}

// WriteItems persists the catalog's item list, one id per line, so later
// stages can be run as separate invocations against the same column order.
func WriteItems(cat *model.Catalog, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	w := bufio.NewWriter(file)
	for _, item := range cat.Items() {
		if _, err := fmt.Fprintln(w, item); err != nil {
			_ = file.Close()
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
	}
	if err := w.Flush(); err != nil {
		_ = file.Close()
		return fmt.Errorf("failed to flush %s: %w", path, err)
	}
	return file.Close()
}

// ReadItems loads a persisted item list back into a catalog. Blank lines
// are skipped; duplicates and ordering are re-normalized on load.
func ReadItems(path string) (*model.Catalog, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", tabular.ErrMissingInput, path)
		}
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	var items []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			items = append(items, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	return model.NewCatalog(items), nil
}
