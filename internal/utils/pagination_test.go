package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaginateMiddlePage(t *testing.T) {
	resp := Paginate([]string{"a", "b"}, 45, 2, 10)

	assert.Equal(t, 45, resp.Pagination.Total)
	assert.Equal(t, 2, resp.Pagination.Page)
	assert.Equal(t, 5, resp.Pagination.TotalPages)
	assert.True(t, resp.Pagination.HasNextPage)
	assert.True(t, resp.Pagination.HasPrevPage)
	require.NotNil(t, resp.Pagination.NextPage)
	assert.Equal(t, 3, *resp.Pagination.NextPage)
	require.NotNil(t, resp.Pagination.PrevPage)
	assert.Equal(t, 1, *resp.Pagination.PrevPage)
}

func TestPaginateBoundaries(t *testing.T) {
	first := Paginate(nil, 30, 1, 10)
	assert.False(t, first.Pagination.HasPrevPage)
	assert.Nil(t, first.Pagination.PrevPage)
	assert.True(t, first.Pagination.HasNextPage)

	last := Paginate(nil, 30, 3, 10)
	assert.False(t, last.Pagination.HasNextPage)
	assert.Nil(t, last.Pagination.NextPage)
	assert.True(t, last.Pagination.HasPrevPage)
}

func TestPaginateEmptyResult(t *testing.T) {
	resp := Paginate(nil, 0, 1, 10)

	assert.Equal(t, 0, resp.Pagination.Total)
	assert.Equal(t, 0, resp.Pagination.TotalPages)
	assert.False(t, resp.Pagination.HasNextPage)
	assert.False(t, resp.Pagination.HasPrevPage)
}
