// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ctxutil provides helpers for interacting with values stored in [context.Context].
package ctxutil

import (
	"context"
	"log/slog"

	"github.com/taibuivan/realty/internal/platform/ctxkey"
	"github.com/taibuivan/realty/internal/session"
)

// # Request Tracing

// WithRequestID returns a new context with the provided request ID attached.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxkey.KeyRequestID, id)
}

// GetRequestID retrieves the request ID from the context.
// Returns an empty string if not found.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxkey.KeyRequestID).(string)
	return id
}

// # Structured Logging

// WithLogger returns a new context with the provided logger attached.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxkey.KeyLogger, logger)
}

// GetLogger retrieves the logger from the context.
// If no logger is found, it returns the global default logger.
func GetLogger(ctx context.Context) *slog.Logger {
	logger, ok := ctx.Value(ctxkey.KeyLogger).(*slog.Logger)
	if !ok {
		return slog.Default()
	}
	return logger
}

// # Identity & Access

// WithSession returns a new context carrying the browser session.
func WithSession(ctx context.Context, sess *session.Session) context.Context {
	return context.WithValue(ctx, ctxkey.KeySession, sess)
}

// GetSession retrieves the browser [*session.Session] from the context.
func GetSession(ctx context.Context) *session.Session {
	sess, ok := ctx.Value(ctxkey.KeySession).(*session.Session)
	if !ok {
		return nil
	}
	return sess
}

// WithSessionRotator returns a new context carrying the function that
// replaces the browser session under a fresh id.
func WithSessionRotator(ctx context.Context, rotate func(context.Context) *session.Session) context.Context {
	return context.WithValue(ctx, ctxkey.KeySessionRotator, rotate)
}

// RotateSession replaces the browser session and returns the new one, or nil
// when no session middleware is installed.
func RotateSession(ctx context.Context) *session.Session {
	rotate, ok := ctx.Value(ctxkey.KeySessionRotator).(func(context.Context) *session.Session)
	if !ok {
		return nil
	}
	return rotate(ctx)
}

// WithToken returns a new context carrying the bearer token for outbound API calls.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, ctxkey.KeyToken, token)
}

// GetToken retrieves the bearer token. Empty means an anonymous call.
func GetToken(ctx context.Context) string {
	token, _ := ctx.Value(ctxkey.KeyToken).(string)
	return token
}
