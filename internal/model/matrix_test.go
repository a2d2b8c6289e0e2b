package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatrixRowCells(t *testing.T) {
	tests := []struct {
		name     string
		row      MatrixRow
		expected []string
	}{
		{
			name:     "mixed presence",
			row:      MatrixRow{TransactionID: "T1", Presence: []uint8{1, 0, 1}},
			expected: []string{"T1", "1", "0", "1"},
		},
		{
			name:     "all absent",
			row:      MatrixRow{TransactionID: "T2", Presence: []uint8{0, 0}},
			expected: []string{"T2", "0", "0"},
		},
		{
			name:     "no columns",
			row:      MatrixRow{TransactionID: "T3"},
			expected: []string{"T3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.row.Cells())
		})
	}
}
