// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ctxutil_test

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/realty/internal/platform/ctxutil"
	"github.com/taibuivan/realty/internal/session"
)

/*
TestContext_RequestID verifies that Request IDs can be injected and retrieved.
*/
func TestContext_RequestID(t *testing.T) {
	ctx := context.Background()
	requestID := "test-request-id"

	// 1. Initially should be empty
	assert.Empty(t, ctxutil.GetRequestID(ctx))

	// 2. Inject and retrieve
	ctx = ctxutil.WithRequestID(ctx, requestID)
	assert.Equal(t, requestID, ctxutil.GetRequestID(ctx))
}

/*
TestContext_Logger verifies that a custom logger can be stored in context.
*/
func TestContext_Logger(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// 1. Initially should return the default logger
	assert.Equal(t, slog.Default(), ctxutil.GetLogger(ctx))

	// 2. Inject and retrieve
	ctx = ctxutil.WithLogger(ctx, logger)
	assert.Equal(t, logger, ctxutil.GetLogger(ctx))
}

/*
TestContext_Session verifies that the browser session can be stored in context.
*/
func TestContext_Session(t *testing.T) {
	ctx := context.Background()
	sess := session.New("sid-1", session.Options{Store: session.NewMemoryStore()})
	t.Cleanup(sess.Teardown)

	// 1. Initially should be nil
	assert.Nil(t, ctxutil.GetSession(ctx))

	// 2. Inject and retrieve
	ctx = ctxutil.WithSession(ctx, sess)
	assert.Same(t, sess, ctxutil.GetSession(ctx))
}

/*
TestContext_SessionRotator runs the rotator installed by the session middleware.
*/
func TestContext_SessionRotator(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, ctxutil.RotateSession(ctx))

	next := session.New("sid-2", session.Options{Store: session.NewMemoryStore()})
	t.Cleanup(next.Teardown)

	ctx = ctxutil.WithSessionRotator(ctx, func(context.Context) *session.Session { return next })
	assert.Same(t, next, ctxutil.RotateSession(ctx))
}

/*
TestContext_Token verifies the bearer token forwarded to the backend.
*/
func TestContext_Token(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, ctxutil.GetToken(ctx))

	ctx = ctxutil.WithToken(ctx, "tok")
	assert.Equal(t, "tok", ctxutil.GetToken(ctx))
}
