package repository_test

import (
	"testing"

	"github.com/maxviazov/crudkit/repository"
	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   repository.PaginationOptions
		want repository.PaginationOptions
	}{
		{"zero value", repository.PaginationOptions{}, repository.PaginationOptions{PageNumber: 1}},
		{"negative page", repository.PaginationOptions{PageNumber: -3, PageSize: 10}, repository.PaginationOptions{PageNumber: 1, PageSize: 10}},
		{"negative size degrades to unset", repository.PaginationOptions{PageNumber: 2, PageSize: -1}, repository.PaginationOptions{PageNumber: 2}},
		{"already sane", repository.PaginationOptions{PageNumber: 4, PageSize: 25}, repository.PaginationOptions{PageNumber: 4, PageSize: 25}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.Normalize())
		})
	}
}

func TestOffset(t *testing.T) {
	assert.Equal(t, 0, repository.PaginationOptions{PageNumber: 1, PageSize: 20}.Offset())
	assert.Equal(t, 20, repository.PaginationOptions{PageNumber: 2, PageSize: 20}.Offset())
	assert.Equal(t, 0, repository.PaginationOptions{}.Offset())
	// page 2 of size 2 starts at index 2
	assert.Equal(t, 2, repository.PaginationOptions{PageNumber: 2, PageSize: 2}.Offset())
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 3, repository.TotalPages(5, 2))
	assert.Equal(t, 1, repository.TotalPages(5, 5))
	assert.Equal(t, 2, repository.TotalPages(6, 5))
	assert.Equal(t, 0, repository.TotalPages(0, 10))
	// unset size: everything fits one page
	assert.Equal(t, 1, repository.TotalPages(5, 0))
}

func TestNewPaginatedContent(t *testing.T) {
	t.Run("windowed page", func(t *testing.T) {
		opts := &repository.PaginationOptions{PageNumber: 2, PageSize: 2}
		got := repository.NewPaginatedContent([]string{"C", "D"}, 5, opts)
		assert.Equal(t, int64(5), got.TotalItems)
		assert.Equal(t, 3, got.TotalPages)
		assert.Equal(t, 2, got.CurrentPage)
		assert.Equal(t, []string{"C", "D"}, got.Content)
	})

	t.Run("nil options means single page", func(t *testing.T) {
		got := repository.NewPaginatedContent([]int{1, 2, 3}, 3, nil)
		assert.Equal(t, 1, got.TotalPages)
		assert.Equal(t, 1, got.CurrentPage)
		assert.Equal(t, int64(3), got.TotalItems)
	})

	t.Run("unset size clamps current page to the single page", func(t *testing.T) {
		opts := &repository.PaginationOptions{PageNumber: 3}
		got := repository.NewPaginatedContent([]int{1, 2, 3}, 3, opts)
		assert.Equal(t, 1, got.CurrentPage)
		assert.Equal(t, 1, got.TotalPages)
	})

	t.Run("denormalized options are clamped", func(t *testing.T) {
		opts := &repository.PaginationOptions{PageNumber: 0, PageSize: 4}
		got := repository.NewPaginatedContent([]int{1, 2, 3, 4}, 9, opts)
		assert.Equal(t, 1, got.CurrentPage)
		assert.Equal(t, 3, got.TotalPages)
	})
}
