// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package view renders the HTML pages of the public site and the admin panel.

Templates are embedded in the binary and parsed once at startup. Every page
is rendered into a buffer first so a template error never leaves a half
written response.
*/
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
	"strings"

	"github.com/taibuivan/realty/internal/access"
	"github.com/taibuivan/realty/internal/platform/apperr"
	"github.com/taibuivan/realty/internal/platform/ctxutil"
	requestutil "github.com/taibuivan/realty/internal/platform/request"
	"github.com/taibuivan/realty/internal/session"
)

//go:embed templates
var templateFiles embed.FS

const layoutFile = "templates/layout.html"

// Page names.
const (
	PageLoading = "loading"
	PageError   = "error"

	PageHome     = "site/home"
	PageSearch   = "site/search"
	PageProperty = "site/property"

	PageLogin     = "admin/login"
	PageDashboard = "admin/dashboard"
	PageList      = "admin/list"
	PageForm      = "admin/form"
	PageDelete    = "admin/delete"
	PageImages    = "admin/images"
)

// Page is the data every template receives.
type Page struct {
	Title   string
	Session session.Snapshot

	// Menu is the admin sidebar, already filtered for the user. Nil on
	// public pages.
	Menu   []access.Module
	Active string

	Flash string
	Error *apperr.AppError

	// FieldErrors maps form field names to their validation message.
	FieldErrors map[string]string

	RequestID string
	Data      any
}

// Admin reports whether the page is rendered inside the admin layout.
func (page Page) Admin() bool { return page.Menu != nil }

// Renderer renders the embedded templates.
type Renderer struct {
	pages  map[string]*template.Template
	logger *slog.Logger
}

// New parses every page together with the layout.
func New(logger *slog.Logger) (*Renderer, error) {
	renderer := &Renderer{pages: make(map[string]*template.Template), logger: logger}

	err := fs.WalkDir(templateFiles, "templates", func(file string, entry fs.DirEntry, err error) error {
		if err != nil || entry.IsDir() || file == layoutFile || path.Ext(file) != ".html" {
			return err
		}

		name := strings.TrimSuffix(strings.TrimPrefix(file, "templates/"), ".html")
		page, parseErr := template.New(path.Base(layoutFile)).Funcs(funcs).ParseFS(templateFiles, layoutFile, file)
		if parseErr != nil {
			return fmt.Errorf("view: failed to parse %s: %w", name, parseErr)
		}
		renderer.pages[name] = page
		return nil
	})
	if err != nil {
		return nil, err
	}
	return renderer, nil
}

// Has reports whether a page exists.
func (renderer *Renderer) Has(name string) bool {
	_, found := renderer.pages[name]
	return found
}

// Render writes page name with status.
func (renderer *Renderer) Render(writer http.ResponseWriter, request *http.Request, status int, name string, page Page) {
	ctx := request.Context()

	tmpl, found := renderer.pages[name]
	if !found {
		renderer.fail(writer, request, fmt.Errorf("view: unknown page %q", name))
		return
	}

	if page.Session.State == session.StateAnonymous && page.Session.User == nil {
		page.Session = requestutil.Snapshot(request)
	}
	page.RequestID = ctxutil.GetRequestID(ctx)

	var buffer bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buffer, "layout", page); err != nil {
		renderer.fail(writer, request, err)
		return
	}

	writer.Header().Set("Content-Type", "text/html; charset=utf-8")
	writer.WriteHeader(status)
	_, _ = buffer.WriteTo(writer)
}

// RenderError renders the error page for err with its status.
func (renderer *Renderer) RenderError(writer http.ResponseWriter, request *http.Request, page Page, err *apperr.AppError) {
	page.Error = err
	if page.Title == "" {
		page.Title = "Error"
	}
	renderer.Render(writer, request, err.HTTPStatus, PageError, page)
}

// Loading returns the handler serving the neutral page shown while a
// session is still loading.
func (renderer *Renderer) Loading() http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		renderer.Render(writer, request, http.StatusOK, PageLoading, Page{Title: "Cargando"})
	})
}

// Crash returns the handler serving the generic 500 page after a panic.
func (renderer *Renderer) Crash() http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		renderer.RenderError(writer, request, Page{}, apperr.Internal(nil))
	})
}

func (renderer *Renderer) fail(writer http.ResponseWriter, request *http.Request, err error) {
	ctxutil.GetLogger(request.Context()).ErrorContext(request.Context(), "template_render_failed",
		slog.String("error", err.Error()),
	)
	http.Error(writer, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
