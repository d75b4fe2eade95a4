// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pagination_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/realty/pkg/pagination"
)

func TestFromRequest(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  pagination.Params
	}{
		{"defaults", "", pagination.Params{Page: 1, Limit: pagination.DefaultLimit}},
		{"explicit", "?page=3&limit=5", pagination.Params{Page: 3, Limit: 5}},
		{"negative page", "?page=-2", pagination.Params{Page: 1, Limit: pagination.DefaultLimit}},
		{"limit too large", "?limit=1000", pagination.Params{Page: 1, Limit: pagination.DefaultLimit}},
		{"garbage", "?page=abc&limit=x", pagination.Params{Page: 1, Limit: pagination.DefaultLimit}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest("GET", "/list"+tt.query, nil)
			assert.Equal(t, tt.want, pagination.FromRequest(request))
		})
	}
}

func TestNewMeta(t *testing.T) {
	assert.Equal(t, pagination.Meta{Page: 2, Limit: 10, Total: 25, TotalPages: 3}, pagination.NewMeta(2, 10, 25))
	assert.Equal(t, 0, pagination.NewMeta(1, 0, 25).TotalPages)
}

func TestSlice(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7}

	page, meta := pagination.Slice(items, pagination.Params{Page: 2, Limit: 3})
	assert.Equal(t, []int{4, 5, 6}, page)
	assert.Equal(t, 3, meta.TotalPages)

	page, meta = pagination.Slice(items, pagination.Params{Page: 3, Limit: 3})
	assert.Equal(t, []int{7}, page)
	assert.Equal(t, 3, meta.Page)

	page, meta = pagination.Slice(items, pagination.Params{Page: 9, Limit: 3})
	assert.Equal(t, []int{7}, page, "past the end clamps to the last page")
	assert.Equal(t, 3, meta.Page)

	page, meta = pagination.Slice([]int{}, pagination.Params{Page: 1, Limit: 3})
	assert.Empty(t, page)
	assert.Equal(t, 0, meta.TotalPages)
}
