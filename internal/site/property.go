// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package site

import (
	"net/http"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/taibuivan/realty/internal/platform/apiclient"
	"github.com/taibuivan/realty/internal/platform/apperr"
	requestutil "github.com/taibuivan/realty/internal/platform/request"
	"github.com/taibuivan/realty/internal/realty"
	"github.com/taibuivan/realty/internal/web/view"
)

type propertyView struct {
	Property realty.Property
	Images   []realty.Image
}

// ParseRef extracts the id from a detail reference such as "12" or
// "12-casa-en-laureles".
func ParseRef(ref string) (int, bool) {
	head, _, _ := strings.Cut(ref, "-")
	id, err := strconv.Atoi(head)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

/*
GET /properties/{ref}.

Description: Property detail. The property and its image metadata are
fetched concurrently; when the metadata call fails the images embedded in
the property are shown.

Response:
  - 200: detail page
  - 301: to the canonical "/properties/{id}-{slug}" path
  - 404: unknown property
*/
func (handler *Handler) property(writer http.ResponseWriter, request *http.Request) {
	ctx := request.Context()

	id, ok := ParseRef(requestutil.ID(request, "ref"))
	if !ok {
		handler.notFoundProperty(writer, request)
		return
	}
	key := strconv.Itoa(id)

	var (
		property *realty.Property
		images   []realty.Image
		imageErr error
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		property, err = handler.catalog.Properties.Get(groupCtx, key)
		return err
	})
	group.Go(func() error {
		images, imageErr = handler.catalog.Properties.Images(groupCtx, key)
		return nil
	})

	if err := group.Wait(); err != nil {
		if apiclient.IsNotFound(err) {
			handler.notFoundProperty(writer, request)
			return
		}
		handler.renderer.RenderError(writer, request, view.Page{}, resolve(request, err))
		return
	}

	if canonical := view.PropertyURL(*property); request.URL.Path != canonical {
		http.Redirect(writer, request, canonical, http.StatusMovedPermanently)
		return
	}

	if imageErr != nil || len(images) == 0 {
		images = property.Images
	}

	handler.renderer.Render(writer, request, http.StatusOK, view.PageProperty, view.Page{
		Title: property.Title,
		Data:  propertyView{Property: *property, Images: images},
	})
}

func (handler *Handler) notFoundProperty(writer http.ResponseWriter, request *http.Request) {
	handler.renderer.RenderError(writer, request, view.Page{Title: "No encontrado"}, apperr.NotFound("Propiedad"))
}
