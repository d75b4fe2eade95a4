// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package admin serves the administration panel.

Every section (properties, owners, locations, users, roles...) is the same
CRUD module driven by a [Resource] description; only the properties section
adds an image gallery. Access is decided by the route guard before any
handler here runs.

# Routing Strategy

  - Public: the login page and the session state endpoint.
  - Admin: the dashboard, reachable by any administrator.
  - Module: each section, reachable when the session holds its module.
*/
package admin

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/realty/internal/access"
	"github.com/taibuivan/realty/internal/platform/apiclient"
	"github.com/taibuivan/realty/internal/platform/apperr"
	"github.com/taibuivan/realty/internal/platform/constants"
	"github.com/taibuivan/realty/internal/platform/middleware"
	requestutil "github.com/taibuivan/realty/internal/platform/request"
	"github.com/taibuivan/realty/internal/platform/respond"
	"github.com/taibuivan/realty/internal/realty"
	"github.com/taibuivan/realty/internal/web/view"
)

// LoginRecorder counts login outcomes.
type LoginRecorder interface {
	ObserveLogin(succeeded bool)
}

type noopLoginRecorder struct{}

func (noopLoginRecorder) ObserveLogin(bool) {}

// Options wires the admin panel.
type Options struct {
	Catalog  *realty.Catalog
	Renderer *view.Renderer

	// Guard configures the route guard of every protected route.
	Guard middleware.GuardOptions

	// Limiter throttles login attempts per client IP. Nil disables it.
	Limiter *middleware.RateLimiter
	Metrics LoginRecorder
}

// # Handler Implementation

// Handler implements the admin panel pages.
type Handler struct {
	catalog *realty.Catalog
	pages   *pages
	guard   middleware.GuardOptions
	limiter *middleware.RateLimiter
	metrics LoginRecorder

	sections []section
}

// NewHandler builds the panel with every section registered.
func NewHandler(opts Options) *Handler {
	if opts.Metrics == nil {
		opts.Metrics = noopLoginRecorder{}
	}

	handler := &Handler{
		catalog: opts.Catalog,
		pages:   &pages{renderer: opts.Renderer},
		guard:   opts.Guard,
		limiter: opts.Limiter,
		metrics: opts.Metrics,
	}
	handler.registerSections()
	return handler
}

// Routes returns the router to mount at [constants.RouteAdminRoot].
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// ## Public
	router.Get("/login", handler.loginPage)
	router.Post("/login", handler.login)
	router.Post("/logout", handler.logout)
	router.Get("/session", handler.sessionState)

	// ## Administrators
	adminOnly := access.Requirement{RequireAdmin: true}
	router.With(middleware.Guard(adminOnly, handler.guard)).Get("/", handler.dashboard)

	// ## Sections
	for _, current := range handler.sections {
		requirement := access.Requirement{RequireAdmin: true, RequiredModule: current.moduleName()}
		mount := strings.TrimPrefix(current.header().Path, constants.RouteAdminRoot)
		router.With(middleware.Guard(requirement, handler.guard)).Mount(mount, current.routes())
	}

	return router
}

// # Sections

// section is a mounted [Module] with its record type erased.
type section interface {
	header() resourceHeader
	moduleName() string
	routes() chi.Router
	count(ctx context.Context) (int, error)
}

// register adds a section built from res.
func register[T any](handler *Handler, res Resource[T]) {
	handler.sections = append(handler.sections, newModule(res, handler.pages))
}

// sectionAt returns the section mounted at path, if any.
func (handler *Handler) sectionAt(path string) (section, bool) {
	for _, current := range handler.sections {
		if current.header().Path == path {
			return current, true
		}
	}
	return nil, false
}

// # Page Shell

// pages renders admin pages inside the panel layout.
type pages struct {
	renderer *view.Renderer
}

// page returns the panel frame for request: session, filtered menu and
// the highlighted entry.
func (shell *pages) page(request *http.Request, title, active string) view.Page {
	snapshot := requestutil.Snapshot(request)
	return view.Page{
		Title:   title,
		Session: snapshot,
		Menu:    access.VisibleModules(access.AdminMenu, snapshot.Modules),
		Active:  active,
	}
}

func (shell *pages) render(writer http.ResponseWriter, request *http.Request, status int, name string, page view.Page) {
	shell.renderer.Render(writer, request, status, name, page)
}

// fail renders the error page for a failed backend call. A 401 means
// the backend no longer accepts the token: the session is closed and the
// browser sent back to the login page.
func (shell *pages) fail(writer http.ResponseWriter, request *http.Request, page view.Page, err error) {
	if shell.expired(writer, request, err) {
		return
	}
	shell.renderer.RenderError(writer, request, page, resolve(request, err))
}

// expired handles a backend 401 and reports whether it did.
func (shell *pages) expired(writer http.ResponseWriter, request *http.Request, err error) bool {
	if !apiclient.IsUnauthorized(err) {
		return false
	}

	if sess := requestutil.Session(request); sess != nil {
		_ = sess.Logout(request.Context())
	}
	next := url.Values{"next": {request.URL.RequestURI()}}
	respond.Redirect(writer, request, constants.RouteLogin+"?"+next.Encode())
	return true
}

// resolve converts any failure into the error shown to the user.
func resolve(request *http.Request, err error) *apperr.AppError {
	return respond.Resolve(request, apiclient.ToAppError(err))
}

// # Flash Messages

const (
	flashCreated  = "created"
	flashUpdated  = "updated"
	flashDeleted  = "deleted"
	flashUploaded = "uploaded"
)

var flashMessages = map[string]string{
	flashCreated:  "Registro creado correctamente.",
	flashUpdated:  "Cambios guardados.",
	flashDeleted:  "Registro eliminado.",
	flashUploaded: "Imágenes subidas.",
}

// flash returns the message for the ?ok= marker of a redirect.
func flash(request *http.Request) string {
	return flashMessages[request.URL.Query().Get("ok")]
}

func withFlash(path, marker string) string {
	return path + "?ok=" + marker
}
