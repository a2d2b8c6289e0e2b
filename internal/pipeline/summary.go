package pipeline

import (
	"fmt"
	"sort"
	"strings"

	"github.com/awalczak/cartstream/internal/cli"
	"github.com/awalczak/cartstream/internal/model"
)

// RenderSummary renders the run summary as a styled box. Every dropped or
// unmatched row is accounted for here; silent data loss is not permitted.
func RenderSummary(s model.RunSummary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Input rows:            %d\n", s.Clean.InputRows)
	fmt.Fprintf(&b, "Cleaned rows:          %d\n", s.Clean.CleanRows)
	fmt.Fprintf(&b, "Discarded rows:        %d (%.2f%%)\n", len(s.Clean.Discards), s.Clean.ReductionPercent())

	if n := len(s.Clean.Discards); n > 0 {
		reasons := make(map[string]int)
		for _, d := range s.Clean.Discards {
			for _, r := range d.Reasons {
				reasons[r]++
			}
		}
		for _, reason := range sortedKeys(reasons) {
			fmt.Fprintf(&b, "  %s: %d\n", reason, reasons[reason])
		}
	}

	fmt.Fprintf(&b, "Distinct transactions: %d\n", s.Matrix.Transactions)
	fmt.Fprintf(&b, "Distinct items:        %d\n", s.Matrix.Items)
	b.WriteString("\n")

	for _, pc := range s.Partition.Periods {
		fmt.Fprintf(&b, "%s: %d invoices\n", pc.Period, pc.Invoices)
	}
	if s.Partition.Unmatched > 0 {
		b.WriteString(cli.FormatWarning(fmt.Sprintf("Unmatched rows: %d", s.Partition.Unmatched)))
		b.WriteString("\n")
	} else {
		fmt.Fprintf(&b, "Unmatched rows: 0\n")
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "Projection: %d → %d dimensions (%.2fx compression)\n",
		s.Projection.SourceDim, s.Projection.TargetDim, s.Projection.CompressionRatio())
	if s.Projection.Clamped {
		b.WriteString(cli.FormatWarning("Target dimension was clamped to source − 1"))
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "Reduced batches: %d (%d rows)", s.Projection.Batches, s.Projection.RowsProcessed)

	return cli.RenderBox("Run summary", b.String())
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
