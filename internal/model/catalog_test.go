package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewCatalog(t *testing.T) {
	cat := NewCatalog([]string{"B", "A", "C", "A", "B"})

	assert.Equal(t, []string{"A", "B", "C"}, cat.Items())
	assert.Equal(t, 3, cat.Len())

	i, ok := cat.Index("B")
	assert.True(t, ok)
	assert.Equal(t, 1, i)

	_, ok = cat.Index("Z")
	assert.False(t, ok)
}

func TestNewCatalogEmpty(t *testing.T) {
	cat := NewCatalog(nil)
	assert.Equal(t, 0, cat.Len())
}
