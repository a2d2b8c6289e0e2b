package tabular

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteReadRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		file string
	}{
		{name: "plain csv", file: "rows.csv"},
		{name: "gzip csv", file: "rows.csv.gz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)

			w, err := Create(path, []string{"id", "value"})
			require.NoError(t, err)
			require.NoError(t, w.Write([]string{"1", "a"}))
			require.NoError(t, w.Flush())
			require.NoError(t, w.Write([]string{"2", "b"}))
			require.NoError(t, w.Close())

			r, err := Open(path)
			require.NoError(t, err)
			defer func() { require.NoError(t, r.Close()) }()

			assert.Equal(t, []string{"id", "value"}, r.Header())

			row, err := r.Read()
			require.NoError(t, err)
			assert.Equal(t, []string{"1", "a"}, row)

			row, err = r.Read()
			require.NoError(t, err)
			assert.Equal(t, []string{"2", "b"}, row)

			_, err = r.Read()
			assert.Equal(t, io.EOF, err)
		})
	}
}

func TestCreateMakesParentDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "out.csv")

	w, err := Create(path, []string{"id"})
	require.NoError(t, err)
	require.NoError(t, w.Close())

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestCloseFlushesBufferedRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")

	w, err := Create(path, []string{"id"})
	require.NoError(t, err)
	for i := 0; i < 100; i++ {
		require.NoError(t, w.Write([]string{"x"}))
	}
	require.NoError(t, w.Close())

	r, err := Open(path)
	require.NoError(t, err)
	defer func() { _ = r.Close() }()

	rows := 0
	for {
		_, err := r.Read()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		rows++
	}
	assert.Equal(t, 100, rows)
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "absent.csv"))
	assert.ErrorIs(t, err, ErrMissingInput)
}

func TestRequireColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cols.csv")
	require.NoError(t, os.WriteFile(path, []byte("a,b,c\n1,2,3\n"), 0o644))

	r, err := Open(path)
	require.NoError(t, err)
	defer func() { _ = r.Close() }()

	cols, err := r.RequireColumns("a", "c")
	require.NoError(t, err)
	assert.Equal(t, 0, cols["a"])
	assert.Equal(t, 2, cols["c"])

	_, err = r.RequireColumns("a", "missing")
	assert.ErrorIs(t, err, ErrMissingColumn)
}

func TestOpenEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	_, err := Open(path)
	assert.Error(t, err)
}

func TestCell(t *testing.T) {
	row := []string{"a", "b"}

	assert.Equal(t, "a", Cell(row, 0))
	assert.Equal(t, "b", Cell(row, 1))
	assert.Equal(t, "", Cell(row, 2), "past the end of a ragged row")
	assert.Equal(t, "", Cell(row, -1))
	assert.Equal(t, "", Cell(nil, 0))
}
