package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/awalczak/cartstream/internal/config"
	"github.com/awalczak/cartstream/internal/projection"
)

func writeInput(t *testing.T, dir string) string {
	t.Helper()
	content := "transaction_id,item_id,description,quantity,timestamp,customer_id,unit_price\n" +
		"T1,A,Item A,6,2010-12-01 08:26:00,C1,2.55\n" +
		"T1,B,Item B,1,2010-12-01 08:26:00,C1,3.39\n" +
		"T2,A,Item A,2,2010-12-05 10:00:00,C2,2.55\n" +
		"T3,C,Item C,1,2011-01-04 09:30:00,C3,1.25\n" +
		"T3,A,Item A,1,2011-01-04 09:30:00,C3,2.55\n" +
		"T4,B,Item B,3,2011-01-10 15:45:00,C1,3.39\n" +
		"BAD,D,Item D,1,2011-01-11 11:00:00,C9,-2\n" + // dropped: non-positive price
		"T5,,Item ?,1,2011-01-12 12:00:00,C5,1.00\n" // dropped: empty item id
	path := filepath.Join(dir, "sales.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunEndToEnd(t *testing.T) {
	dir := t.TempDir()
	paths := config.Paths{
		Input:      writeInput(t, dir),
		OutputDir:  filepath.Join(dir, "out"),
		BatchDir:   filepath.Join(dir, "out", "batches"),
		ReducedDir: filepath.Join(dir, "out", "reduced"),
	}

	p := New(paths)
	p.Projection = projection.Options{TargetDim: 2, Seed: 42}

	summary, err := p.Run(context.Background())
	require.NoError(t, err)

	// Every input row is accounted for.
	assert.Equal(t, 8, summary.Clean.InputRows)
	assert.Equal(t, 6, summary.Clean.CleanRows)
	assert.Len(t, summary.Clean.Discards, 2)
	assert.Equal(t, summary.Clean.InputRows, summary.Clean.CleanRows+len(summary.Clean.Discards))

	assert.Equal(t, 4, summary.Matrix.Transactions)
	assert.Equal(t, 3, summary.Matrix.Items)

	// Partition completeness.
	total := summary.Partition.Unmatched
	for _, pc := range summary.Partition.Periods {
		total += pc.Rows
	}
	assert.Equal(t, summary.Partition.TotalRows, total)
	assert.Equal(t, 0, summary.Partition.Unmatched)
	require.Len(t, summary.Partition.Periods, 2)
	assert.Equal(t, 2, summary.Partition.Periods[0].Rows) // 2010-12: T1, T2
	assert.Equal(t, 2, summary.Partition.Periods[1].Rows) // 2011-01: T3, T4

	assert.Equal(t, 3, summary.Projection.SourceDim)
	assert.Equal(t, 2, summary.Projection.TargetDim)
	assert.Equal(t, 2, summary.Projection.Batches)
	assert.Equal(t, 4, summary.Projection.RowsProcessed)

	// Artifacts land where configured.
	for _, path := range []string{
		paths.Cleaned(),
		paths.Items(),
		paths.Matrix(),
		filepath.Join(paths.BatchDir, "batch_2010-12.csv"),
		filepath.Join(paths.BatchDir, "batch_2011-01.csv"),
		filepath.Join(paths.ReducedDir, "batch_2010-12_reduced.csv"),
		filepath.Join(paths.ReducedDir, "batch_2011-01_reduced.csv"),
	} {
		_, err := os.Stat(path)
		assert.NoError(t, err, path)
	}
}

func TestRunMissingInputAborts(t *testing.T) {
	dir := t.TempDir()
	paths := config.Paths{
		Input:     filepath.Join(dir, "absent.csv"),
		OutputDir: dir,
	}

	_, err := New(paths).Run(context.Background())
	assert.Error(t, err)
}

func TestRunHonorsCancellationBetweenStages(t *testing.T) {
	dir := t.TempDir()
	paths := config.Paths{
		Input:     writeInput(t, dir),
		OutputDir: filepath.Join(dir, "out"),
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(paths).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRenderSummary(t *testing.T) {
	dir := t.TempDir()
	paths := config.Paths{
		Input:     writeInput(t, dir),
		OutputDir: filepath.Join(dir, "out"),
	}

	p := New(paths)
	p.Projection = projection.Options{TargetDim: 2, Seed: 42}
	summary, err := p.Run(context.Background())
	require.NoError(t, err)

	rendered := RenderSummary(summary)
	assert.Contains(t, rendered, "Input rows")
	assert.Contains(t, rendered, "Unmatched rows: 0")
	assert.Contains(t, rendered, "unit_price is non-positive: 1")
	assert.Contains(t, rendered, "item_id is empty: 1")
	assert.True(t, strings.Contains(rendered, "2010-12"))
}
