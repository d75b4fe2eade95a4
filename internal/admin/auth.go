// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package admin

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/mssola/useragent"

	"github.com/taibuivan/realty/internal/access"
	"github.com/taibuivan/realty/internal/platform/apiclient"
	"github.com/taibuivan/realty/internal/platform/apperr"
	"github.com/taibuivan/realty/internal/platform/constants"
	"github.com/taibuivan/realty/internal/platform/ctxutil"
	"github.com/taibuivan/realty/internal/platform/middleware"
	requestutil "github.com/taibuivan/realty/internal/platform/request"
	"github.com/taibuivan/realty/internal/platform/respond"
	"github.com/taibuivan/realty/internal/platform/validate"
	"github.com/taibuivan/realty/internal/realty"
	"github.com/taibuivan/realty/internal/session"
	"github.com/taibuivan/realty/internal/web/view"
)

// loginRetryAfter is the wait suggested to a throttled client, in seconds.
const loginRetryAfter = 60

type loginView struct {
	Email string
	Next  string
}

// # Login

/*
GET /admin/login.

Description: Renders the login form. An administrator who is already
signed in goes straight to the panel.

Request:
  - next: string (local path to return to after login)
*/
func (handler *Handler) loginPage(writer http.ResponseWriter, request *http.Request) {
	next := requestutil.LocalPath(request.URL.Query().Get("next"), constants.RouteAdminRoot)

	snapshot := requestutil.Snapshot(request)
	if snapshot.Authenticated() && access.IsAdminRole(snapshot.User.RoleName()) {
		respond.Redirect(writer, request, next)
		return
	}

	handler.renderLogin(writer, request, http.StatusOK, loginView{Next: next}, nil, nil)
}

/*
POST /admin/login.

Description: Exchanges the credentials for a backend token and stores it
in the browser session.

Request:
  - email, password: string
  - next: string

Response:
  - 303: to next (the route guard then checks role and modules)
  - 401: wrong credentials
  - 422: missing or malformed fields
  - 429: too many attempts from this client
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	ctx := request.Context()
	logger := ctxutil.GetLogger(ctx)

	if err := requestutil.ParseForm(request); err != nil {
		handler.renderLogin(writer, request, http.StatusBadRequest, loginView{}, apperr.As(err), nil)
		return
	}

	form := loginView{
		Email: strings.TrimSpace(request.PostFormValue("email")),
		Next:  requestutil.LocalPath(request.PostFormValue("next"), constants.RouteAdminRoot),
	}
	password := request.PostFormValue("password")

	if handler.limiter != nil && !handler.limiter.Allow(middleware.RealIP(request)) {
		appErr := apperr.RateLimited(loginRetryAfter)
		handler.renderLogin(writer, request, appErr.HTTPStatus, form, appErr, nil)
		return
	}

	validator := &validate.Validator{}
	validator.Required("email", form.Email).Email("email", form.Email)
	validator.Required("password", password)
	if validator.HasErrors() {
		handler.renderLogin(writer, request, http.StatusUnprocessableEntity, form, apperr.As(validator.Err()), validator.Fields())
		return
	}

	token, err := handler.catalog.Auth.Login(ctx, realty.Credentials{Email: form.Email, Password: password})
	if err != nil {
		handler.metrics.ObserveLogin(false)
		handler.audit(request, "admin_login_failed", form.Email, slog.Int("status", apiclient.StatusOf(err)))

		appErr := resolve(request, err)
		if apiclient.IsUnauthorized(err) {
			appErr = apperr.Unauthorized("Correo o contraseña incorrectos")
		}
		handler.renderLogin(writer, request, appErr.HTTPStatus, form, appErr, nil)
		return
	}

	sess := requestutil.RotateSession(request)
	if sess == nil {
		handler.renderLogin(writer, request, http.StatusInternalServerError, form, apperr.Internal(nil), nil)
		return
	}

	if err := sess.Login(ctx, token); err != nil {
		logger.ErrorContext(ctx, "session_login_failed", slog.String("error", err.Error()))
		appErr := apperr.ServiceUnavailable("No se pudo iniciar la sesión. Intenta de nuevo.")
		handler.renderLogin(writer, request, appErr.HTTPStatus, form, appErr, nil)
		return
	}

	handler.metrics.ObserveLogin(true)
	handler.audit(request, "admin_login", form.Email)
	respond.Redirect(writer, request, form.Next)
}

// # Logout

/*
POST /admin/logout.

Description: Clears the session and its stored token.
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	ctx := request.Context()

	if sess := requestutil.Session(request); sess != nil {
		if err := sess.Logout(ctx); err != nil {
			ctxutil.GetLogger(ctx).WarnContext(ctx, "session_logout_failed", slog.String("error", err.Error()))
		}
	}
	respond.Redirect(writer, request, constants.RouteLogin)
}

// # Session State

type sessionUser struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
}

type menuEntry struct {
	To    string `json:"to"`
	Label string `json:"label"`
}

type sessionResponse struct {
	State       string               `json:"state"`
	User        *sessionUser         `json:"user,omitempty"`
	Modules     []string             `json:"modules"`
	Permissions []session.Permission `json:"permissions"`
	Menu        []menuEntry          `json:"menu"`
}

/*
GET /admin/session.

Description: Reports the session state as JSON without waiting for a
pending profile fetch. The loading page polls it.

Response:
  - 200: sessionResponse
*/
func (handler *Handler) sessionState(writer http.ResponseWriter, request *http.Request) {
	snapshot := requestutil.Snapshot(request)

	response := sessionResponse{
		State:       snapshot.State.String(),
		Modules:     nonNil(snapshot.Modules),
		Permissions: nonNil(snapshot.Permissions),
		Menu:        []menuEntry{},
	}

	if snapshot.Authenticated() {
		user := snapshot.User
		response.User = &sessionUser{
			ID:    string(user.UserID),
			Name:  user.DisplayName(),
			Email: user.Email,
			Role:  user.RoleName(),
		}
		for _, module := range access.VisibleModules(access.AdminMenu, snapshot.Modules) {
			response.Menu = append(response.Menu, menuEntry{To: module.To, Label: module.Label})
		}
	}

	respond.OK(writer, response)
}

// # Helpers

func (handler *Handler) renderLogin(writer http.ResponseWriter, request *http.Request, status int, form loginView, appErr *apperr.AppError, fieldErrors map[string]string) {
	handler.pages.render(writer, request, status, view.PageLogin, view.Page{
		Title:       "Ingresar",
		Error:       appErr,
		FieldErrors: fieldErrors,
		Data:        form,
	})
}

// audit logs a login event with the client device.
func (handler *Handler) audit(request *http.Request, event, email string, extra ...any) {
	ctx := request.Context()

	attrs := []any{
		slog.String("email", email),
		slog.String("ip", middleware.RealIP(request)),
		slog.String("device", describeDevice(request.UserAgent())),
	}
	ctxutil.GetLogger(ctx).InfoContext(ctx, event, append(attrs, extra...)...)
}

// describeDevice reduces a User-Agent to "Browser on OS".
func describeDevice(userAgent string) string {
	if userAgent == "" {
		return "unknown"
	}

	agent := useragent.New(userAgent)
	if agent.Bot() {
		name, _ := agent.Browser()
		return "bot " + name
	}

	browser, _ := agent.Browser()
	system := agent.OS()
	if agent.Mobile() && agent.Platform() != "" {
		system = agent.Platform()
	}
	if browser == "" {
		browser = "unknown browser"
	}
	if system == "" {
		system = "unknown OS"
	}
	return strings.TrimSpace(browser + " on " + system)
}

func nonNil[T any](values []T) []T {
	if values == nil {
		return []T{}
	}
	return values
}
