// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package site

import (
	"net/http"
	"slices"

	"github.com/taibuivan/realty/internal/realty"
	"github.com/taibuivan/realty/internal/web/view"
	"github.com/taibuivan/realty/pkg/slice"
)

const (
	featuredCount = 6
	latestCount   = 8
)

type homeView struct {
	Featured []realty.Property
	Latest   []realty.Property
}

/*
GET /.

Description: Landing page with the featured listings and the most recent
ones.

Response:
  - 200: home page
  - 5xx: home page with an error banner
*/
func (handler *Handler) home(writer http.ResponseWriter, request *http.Request) {
	page := view.Page{Title: "Inicio"}

	properties, err := handler.catalog.Properties.List(request.Context())
	if err != nil {
		appErr := resolve(request, err)
		page.Error = appErr
		page.Data = homeView{}
		handler.renderer.Render(writer, request, appErr.HTTPStatus, view.PageHome, page)
		return
	}

	page.Data = buildHome(properties)
	handler.renderer.Render(writer, request, http.StatusOK, view.PageHome, page)
}

// buildHome picks the featured listings and the newest ones.
func buildHome(properties []realty.Property) homeView {
	featured := slice.Filter(properties, func(property realty.Property) bool { return property.Featured })

	latest := slices.Clone(properties)
	slices.SortStableFunc(latest, newestFirst)

	return homeView{
		Featured: featured[:min(len(featured), featuredCount)],
		Latest:   latest[:min(len(latest), latestCount)],
	}
}

// newestFirst orders by creation date, then by id, descending. Listings
// without a date go last.
func newestFirst(a, b realty.Property) int {
	switch {
	case a.CreatedAt != nil && b.CreatedAt != nil && !a.CreatedAt.Equal(*b.CreatedAt):
		return b.CreatedAt.Compare(*a.CreatedAt)
	case a.CreatedAt != nil && b.CreatedAt == nil:
		return -1
	case a.CreatedAt == nil && b.CreatedAt != nil:
		return 1
	default:
		return b.ID - a.ID
	}
}
