package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginate(t *testing.T) {
	items := make([]int, 23)
	for i := range items {
		items[i] = i
	}

	t.Run("first page", func(t *testing.T) {
		p := Paginate(items, 1, 10)
		assert.Equal(t, 1, p.Page)
		assert.Equal(t, 3, p.TotalPages)
		assert.Equal(t, 23, p.TotalItems)
		assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, p.Items)
	})

	t.Run("last partial page", func(t *testing.T) {
		p := Paginate(items, 3, 10)
		assert.Equal(t, []int{20, 21, 22}, p.Items)
	})

	t.Run("out of range clamps", func(t *testing.T) {
		assert.Equal(t, 3, Paginate(items, 99, 10).Page)
		assert.Equal(t, 1, Paginate(items, -4, 10).Page)
	})

	t.Run("empty list has one empty page", func(t *testing.T) {
		p := Paginate([]int{}, 2, 10)
		assert.Equal(t, 1, p.Page)
		assert.Equal(t, 1, p.TotalPages)
		assert.Empty(t, p.Items)
	})
}
