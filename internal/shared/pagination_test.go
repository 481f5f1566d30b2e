package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPagination(t *testing.T) {
	p := NewPagination(2, 10, 35)
	assert.Equal(t, Pagination{Page: 2, PerPage: 10, Total: 35, TotalPages: 4}, p)
}

func TestNewPaginationDefaults(t *testing.T) {
	p := NewPagination(0, 0, 0)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, DefaultPerPage, p.PerPage)
	assert.Equal(t, 0, p.TotalPages)
}

func TestNormalizePageCapsPerPage(t *testing.T) {
	page, perPage := NormalizePage(-3, 1000)
	assert.Equal(t, 1, page)
	assert.Equal(t, MaxPerPage, perPage)
	assert.Equal(t, 0, Offset(1, 10))
	assert.Equal(t, 40, Offset(3, 20))
}

func TestNormalizePageCapsHugePage(t *testing.T) {
	page, perPage := NormalizePage(100000000000000000, MaxPerPage)
	assert.Equal(t, MaxPage, page)
	assert.Positive(t, Offset(page, perPage))
	assert.Equal(t, (MaxPage-1)*MaxPerPage, Offset(100000000000000000, MaxPerPage))
}
