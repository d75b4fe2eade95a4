// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package requestutil provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction, form parsing
and session lookup, ensuring consistent error handling in page handlers.
*/
package requestutil

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/realty/internal/platform/ctxutil"
	"github.com/taibuivan/realty/internal/platform/validate"
	"github.com/taibuivan/realty/internal/session"
)

// MaxUploadBytes bounds multipart bodies (property images).
const MaxUploadBytes = 32 << 20

/*
ID retrieves a named URL parameter from the request.
*/
func ID(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
ParseForm parses a urlencoded or multipart body.

Returns:
  - error: validate.ErrInvalidForm if the body cannot be parsed
*/
func ParseForm(request *http.Request) error {
	if strings.HasPrefix(request.Header.Get("Content-Type"), "multipart/form-data") {
		if err := request.ParseMultipartForm(MaxUploadBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			return validate.ErrInvalidForm
		}
		return nil
	}

	if err := request.ParseForm(); err != nil {
		return validate.ErrInvalidForm
	}
	return nil
}

/*
Session returns the browser session attached by the session middleware, or nil.
*/
func Session(request *http.Request) *session.Session {
	return ctxutil.GetSession(request.Context())
}

/*
RotateSession moves the browser onto a new session id and returns the new
session, or nil without session middleware. Call it before a login so an id
issued to an anonymous visitor never becomes authenticated.
*/
func RotateSession(request *http.Request) *session.Session {
	return ctxutil.RotateSession(request.Context())
}

/*
Snapshot returns the current session state. Requests without a session
are anonymous.
*/
func Snapshot(request *http.Request) session.Snapshot {
	if sess := Session(request); sess != nil {
		return sess.Snapshot()
	}
	return session.Snapshot{State: session.StateAnonymous}
}

/*
LocalPath returns target if it is a same-site absolute path, else fallback.
It keeps redirect parameters from pointing at other hosts.
*/
func LocalPath(target, fallback string) string {
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return fallback
	}
	return target
}
