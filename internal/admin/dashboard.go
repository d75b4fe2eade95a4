// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package admin

import (
	"log/slog"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/taibuivan/realty/internal/access"
	"github.com/taibuivan/realty/internal/platform/constants"
	"github.com/taibuivan/realty/internal/platform/ctxutil"
	"github.com/taibuivan/realty/internal/web/view"
)

// dashboardConcurrency bounds the record counts fetched at once.
const dashboardConcurrency = 4

type tile struct {
	Module access.Module
	Count  int
	Known  bool
}

type dashboardView struct {
	Tiles []tile
}

/*
GET /admin.

Description: Greets the user and shows one tile per visible section with
its record count. A count that cannot be fetched is shown as unknown;
it never fails the page.
*/
func (handler *Handler) dashboard(writer http.ResponseWriter, request *http.Request) {
	ctx := request.Context()
	page := handler.pages.page(request, "Dashboard", constants.RouteAdminRoot)

	tiles := make([]tile, 0, len(page.Menu))
	for _, module := range page.Menu {
		if module.AlwaysVisible() {
			continue
		}
		tiles = append(tiles, tile{Module: module})
	}

	var group errgroup.Group
	group.SetLimit(dashboardConcurrency)

	for index := range tiles {
		current, found := handler.sectionAt(tiles[index].Module.To)
		if !found {
			continue
		}
		group.Go(func() error {
			count, err := current.count(ctx)
			if err != nil {
				ctxutil.GetLogger(ctx).WarnContext(ctx, "dashboard_count_failed",
					slog.String("module", tiles[index].Module.ModuleName),
					slog.String("error", err.Error()),
				)
				return nil
			}
			tiles[index].Count = count
			tiles[index].Known = true
			return nil
		})
	}
	_ = group.Wait()

	page.Data = dashboardView{Tiles: tiles}
	handler.pages.render(writer, request, http.StatusOK, view.PageDashboard, page)
}
