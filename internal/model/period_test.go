package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPeriodOf(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want PeriodKey
	}{
		{
			name: "mid month",
			in:   time.Date(2010, 12, 15, 10, 30, 0, 0, time.UTC),
			want: "2010-12",
		},
		{
			name: "first instant of a month",
			in:   time.Date(2011, 1, 1, 0, 0, 0, 0, time.UTC),
			want: "2011-01",
		},
		{
			name: "last instant of a month",
			in:   time.Date(2011, 1, 31, 23, 59, 59, 0, time.UTC),
			want: "2011-01",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PeriodOf(tt.in))
		})
	}
}

func TestPeriodKeyBatchName(t *testing.T) {
	assert.Equal(t, "batch_2010-12", PeriodKey("2010-12").BatchName())
}

func TestParseTimestamp(t *testing.T) {
	ts, err := ParseTimestamp("2010-12-01 08:26:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2010, 12, 1, 8, 26, 0, 0, time.UTC), ts)

	_, err = ParseTimestamp("not a date")
	assert.Error(t, err)
}
