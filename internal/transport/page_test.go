package transport

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inscode/internal/model"
	"inscode/internal/repository"
)

func TestNewPage(t *testing.T) {
	res := &repository.PageResult[model.Tag]{
		Items:   []model.Tag{{ID: "t-1", Name: "backend"}, {ID: "t-2", Name: "infra"}},
		Total:   25,
		Page:    2,
		PerPage: 10,
	}

	page := NewPage(res, func(tag *model.Tag) any {
		return map[string]string{"id": tag.ID, "name": tag.Name}
	})

	assert.Equal(t, 2, page.Pagination.CurrentPage)
	assert.Equal(t, 25, page.Pagination.TotalItems)
	assert.True(t, page.Pagination.HasNext)
	assert.True(t, page.Pagination.HasPrevious)
	require.Len(t, page.Results, 2)
}

func TestNewPage_EmptyMarshalsAsArray(t *testing.T) {
	res := &repository.PageResult[model.Tag]{Items: nil, Total: 0, Page: 1, PerPage: 10}

	page := NewPage(res, func(tag *model.Tag) any { return tag })
	raw, err := json.Marshal(page)

	require.NoError(t, err)
	assert.JSONEq(t, `{
		"pagination": {"current_page": 1, "total_items": 0, "has_next": false, "has_previous": false},
		"results": []
	}`, string(raw))
}
