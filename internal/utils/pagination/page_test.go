package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPage(t *testing.T) {
	p := NewPage(0, 50)
	assert.Equal(t, 1, p.Number)
	assert.Equal(t, 0, p.Offset())

	p = NewPage(3, 50)
	assert.Equal(t, 100, p.Offset())
}

func TestTotalPages(t *testing.T) {
	p := NewPage(1, 50)
	assert.Equal(t, 0, p.TotalPages(0))
	assert.Equal(t, 1, p.TotalPages(1))
	assert.Equal(t, 1, p.TotalPages(50))
	assert.Equal(t, 2, p.TotalPages(51))
}
