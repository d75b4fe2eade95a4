// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ctxkey defines typed context keys used by middleware and handlers.
//
// # Safety
//
// It is used to store and retrieve per-request values (session, bearer token,
// request ID, logger). Using a private, unexported type for keys prevents
// collisions with third-party packages that might also use context for storage.
package ctxkey

// key is an unexported type used for context keys to ensure type safety.
type key string

const (
	// KeyRequestID is the context key for the X-Request-ID correlation value.
	KeyRequestID key = "request_id"

	// KeySession is the context key for the browser's [*session.Session].
	KeySession key = "session"

	// KeySessionRotator is the context key for the function that replaces
	// the browser session under a new id.
	KeySessionRotator key = "session_rotator"

	// KeyToken is the context key for the bearer token forwarded to the backend API.
	KeyToken key = "token"

	// KeyLogger is the context key for the per-request [*log/slog.Logger].
	KeyLogger key = "logger"

	// KeyAccessLog is the context key for fields added to the access log
	// by inner middleware.
	KeyAccessLog key = "access_log"
)
