package partition

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/awalczak/cartstream/internal/model"
	"github.com/awalczak/cartstream/internal/tabular"
)

const cleanedHeader = "transaction_id,item_id,description,quantity,timestamp,customer_id,unit_price\n"

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func readAll(t *testing.T, path string) ([]string, [][]string) {
	t.Helper()
	r, err := tabular.Open(path)
	require.NoError(t, err)
	defer func() { _ = r.Close() }()

	var rows [][]string
	for {
		row, err := r.Read()
		if err == io.EOF {
			return r.Header(), rows
		}
		require.NoError(t, err)
		rows = append(rows, row)
	}
}

func TestBuildPeriodMapUsesEarliestTimestamp(t *testing.T) {
	dir := t.TempDir()
	cleaned := writeFile(t, dir, "cleaned.csv", cleanedHeader+
		"T1,A,x,1,2011-01-01 00:10:00,C1,2\n"+
		"T1,B,x,1,2010-12-31 23:55:00,C1,2\n"+ // earlier record in the prior month
		"T2,A,x,1,2011-01-05 12:00:00,C2,2\n")

	periods, err := BuildPeriodMap(cleaned)
	require.NoError(t, err)

	// T1 straddles the boundary; the earliest timestamp wins.
	assert.Equal(t, model.PeriodKey("2010-12"), periods["T1"])
	assert.Equal(t, model.PeriodKey("2011-01"), periods["T2"])
}

func TestRunRoutesRowsAndCounts(t *testing.T) {
	dir := t.TempDir()
	cleaned := writeFile(t, dir, "cleaned.csv", cleanedHeader+
		"T1,A,x,1,2010-12-01 08:26:00,C1,2\n"+
		"T2,A,x,1,2011-01-04 10:00:00,C2,2\n"+
		"T3,B,x,1,2011-01-05 11:00:00,C3,2\n")
	mtx := writeFile(t, dir, "matrix.csv",
		"transaction_id,A,B\n"+
			"T1,1,0\n"+
			"T2,1,0\n"+
			"T3,0,1\n")

	p := &Partitioner{BatchDir: filepath.Join(dir, "batches")}
	summary, err := p.Run(cleaned, mtx)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.TotalRows)
	assert.Equal(t, 0, summary.Unmatched)
	require.Len(t, summary.Periods, 2)

	// Periods listed chronologically.
	assert.Equal(t, model.PeriodKey("2010-12"), summary.Periods[0].Period)
	assert.Equal(t, model.PeriodKey("2011-01"), summary.Periods[1].Period)
	assert.Equal(t, 1, summary.Periods[0].Rows)
	assert.Equal(t, 2, summary.Periods[1].Rows)

	// Partition completeness: every matrix row lands somewhere or is
	// counted unmatched.
	total := summary.Unmatched
	for _, pc := range summary.Periods {
		total += pc.Rows
	}
	assert.Equal(t, summary.TotalRows, total)

	// Batch files carry the matrix header and the rows verbatim.
	header, rows := readAll(t, filepath.Join(dir, "batches", "batch_2011-01.csv"))
	assert.Equal(t, []string{"transaction_id", "A", "B"}, header)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"T2", "1", "0"}, rows[0])
	assert.Equal(t, []string{"T3", "0", "1"}, rows[1])
}

func TestRunJoinsAcrossKeyRenderings(t *testing.T) {
	dir := t.TempDir()
	// The cleaned table renders the id as an integer, the matrix as an
	// integral float; the join must still succeed.
	cleaned := writeFile(t, dir, "cleaned.csv", cleanedHeader+
		"536365,A,x,1,2010-12-01 08:26:00,C1,2\n")
	mtx := writeFile(t, dir, "matrix.csv",
		"transaction_id,A\n"+
			" 536365.0,1\n")

	p := &Partitioner{BatchDir: filepath.Join(dir, "batches")}
	summary, err := p.Run(cleaned, mtx)
	require.NoError(t, err)

	assert.Equal(t, 0, summary.Unmatched)
	require.Len(t, summary.Periods, 1)
	assert.Equal(t, 1, summary.Periods[0].Rows)
}

func TestRunCountsUnmatchedRowsWithoutFailing(t *testing.T) {
	dir := t.TempDir()
	cleaned := writeFile(t, dir, "cleaned.csv", cleanedHeader+
		"T1,A,x,1,2010-12-01 08:26:00,C1,2\n")
	mtx := writeFile(t, dir, "matrix.csv",
		"transaction_id,A\n"+
			"T1,1\n"+
			"GHOST,1\n")

	p := &Partitioner{BatchDir: filepath.Join(dir, "batches")}
	summary, err := p.Run(cleaned, mtx)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.TotalRows)
	assert.Equal(t, 1, summary.Unmatched)
	require.Len(t, summary.Periods, 1)
	assert.Equal(t, 1, summary.Periods[0].Rows)
}

func TestRunCompressedBatches(t *testing.T) {
	dir := t.TempDir()
	cleaned := writeFile(t, dir, "cleaned.csv", cleanedHeader+
		"T1,A,x,1,2010-12-01 08:26:00,C1,2\n")
	mtx := writeFile(t, dir, "matrix.csv", "transaction_id,A\nT1,1\n")

	p := &Partitioner{BatchDir: filepath.Join(dir, "batches"), Compress: true}
	summary, err := p.Run(cleaned, mtx)
	require.NoError(t, err)

	require.Len(t, summary.Periods, 1)
	assert.Equal(t, filepath.Join(dir, "batches", "batch_2010-12.csv.gz"), summary.Periods[0].Path)

	_, rows := readAll(t, summary.Periods[0].Path)
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"T1", "1"}, rows[0])
}

func TestListBatches(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "batch_2011-01.csv", "transaction_id,A\n")
	writeFile(t, dir, "batch_2010-12.csv", "transaction_id,A\n")
	writeFile(t, dir, "batch_2010-12_reduced.csv", "transaction_id,component_0\n")
	writeFile(t, dir, "notes.txt", "ignore me")

	batches, err := ListBatches(dir)
	require.NoError(t, err)

	// Chronological order; reduced output and foreign files are ignored.
	require.Len(t, batches, 2)
	assert.Equal(t, filepath.Join(dir, "batch_2010-12.csv"), batches[0])
	assert.Equal(t, filepath.Join(dir, "batch_2011-01.csv"), batches[1])
}

func TestListBatchesMissingDir(t *testing.T) {
	_, err := ListBatches(filepath.Join(t.TempDir(), "absent"))
	assert.ErrorIs(t, err, tabular.ErrMissingInput)
}

func TestRunToleratesTruncatedRows(t *testing.T) {
	dir := t.TempDir()
	cleaned := writeFile(t, dir, "cleaned.csv", cleanedHeader+
		"T1,A,x,1,2010-12-01 08:26:00,C1,2\n"+
		"T2\n") // ragged row, no timestamp cell
	mtx := writeFile(t, dir, "matrix.csv",
		"transaction_id,A\n"+
			"T1,1\n"+
			"T2\n") // ragged matrix row

	p := &Partitioner{BatchDir: filepath.Join(dir, "batches")}
	summary, err := p.Run(cleaned, mtx)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.TotalRows)
	assert.Equal(t, 1, summary.Unmatched)
	require.Len(t, summary.Periods, 1)
	assert.Equal(t, 1, summary.Periods[0].Rows)
}
