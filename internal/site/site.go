// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package site serves the public pages: the landing page, the property
search and the property detail.

The backend returns whole collections, so search filters and paging are
applied here, in memory. Lookup lists (types, countries...) that fail to
load leave their filter empty instead of failing the page.
*/
package site

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/realty/internal/platform/apiclient"
	"github.com/taibuivan/realty/internal/platform/apperr"
	"github.com/taibuivan/realty/internal/platform/respond"
	"github.com/taibuivan/realty/internal/realty"
	"github.com/taibuivan/realty/internal/web/view"
)

// # Handler Implementation

// Handler implements the public pages.
type Handler struct {
	catalog  *realty.Catalog
	renderer *view.Renderer
}

// NewHandler constructs the public site [Handler].
func NewHandler(catalog *realty.Catalog, renderer *view.Renderer) *Handler {
	return &Handler{catalog: catalog, renderer: renderer}
}

// Routes returns the public router, mounted at the site root.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.home)
	router.Get("/search", handler.search)
	router.Get("/properties/{ref}", handler.property)

	router.NotFound(handler.notFound)
	return router
}

func (handler *Handler) notFound(writer http.ResponseWriter, request *http.Request) {
	handler.renderer.RenderError(writer, request, view.Page{Title: "No encontrado"}, apperr.NotFound("Página"))
}

// resolve converts a backend failure into the error shown on the page.
func resolve(request *http.Request, err error) *apperr.AppError {
	return respond.Resolve(request, apiclient.ToAppError(err))
}
