// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/taibuivan/realty/internal/access"
	"github.com/taibuivan/realty/internal/platform/constants"
	"github.com/taibuivan/realty/internal/platform/ctxutil"
	"github.com/taibuivan/realty/internal/session"
	"github.com/taibuivan/realty/pkg/uuid"
)

// # Session Attachment

// SessionOptions configures [Sessions].
type SessionOptions struct {
	Manager    *session.Manager
	CookieName string
	Secure     bool
	TTL        time.Duration

	// Optional skips session creation for browsers without a valid cookie.
	// Such requests carry no session and evaluate as anonymous.
	Optional bool
}

// Sessions binds every request to the browser's [*session.Session].
//
// # Flow
//  1. Read the session cookie; mint a new UUIDv7 id when absent or malformed
//     (or pass the request through untouched when opts.Optional is set).
//  2. Fetch (or create and rehydrate) the session from the [session.Manager].
//  3. Inject the session, its bearer token and a rotator into the request context.
//  4. After the handler, report the identity to the access log.
func Sessions(opts SessionOptions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			id := ""
			if cookie, err := request.Cookie(opts.CookieName); err == nil {
				if uuid.Valid(cookie.Value) {
					id = cookie.Value
				}
			}

			// ── 1. New Browser ───────────────────────────────────────────────
			if id == "" {
				if opts.Optional {
					next.ServeHTTP(writer, request)
					return
				}
				id = opts.Manager.NewID()
			}

			// Refresh the cookie on every request so it slides with the token TTL.
			setSessionCookie(writer, opts, id)

			// ── 2. Context Injection ─────────────────────────────────────────
			current := opts.Manager.Get(request.Context(), id)
			ctx := ctxutil.WithSession(request.Context(), current)
			ctx = ctxutil.WithToken(ctx, current.Token())
			ctx = ctxutil.WithSessionRotator(ctx, func(ctx context.Context) *session.Session {
				current = opts.Manager.Rotate(ctx, current.ID())
				setSessionCookie(writer, opts, current.ID())
				return current
			})

			next.ServeHTTP(writer, request.WithContext(ctx))

			// ── 3. Access Log ────────────────────────────────────────────────
			snapshot := current.Snapshot()
			userID := ""
			if snapshot.User != nil {
				userID = string(snapshot.User.UserID)
				if userID == "" {
					userID = snapshot.User.Email
				}
			}
			recordAccess(ctx, userID, snapshot.State.String())
		})
	}
}

// setSessionCookie writes the session cookie, replacing any value already
// queued on this response.
func setSessionCookie(writer http.ResponseWriter, opts SessionOptions, id string) {
	header := writer.Header()
	prefix := opts.CookieName + "="
	var kept []string
	for _, value := range header.Values("Set-Cookie") {
		if !strings.HasPrefix(value, prefix) {
			kept = append(kept, value)
		}
	}
	header.Del("Set-Cookie")
	for _, value := range kept {
		header.Add("Set-Cookie", value)
	}

	http.SetCookie(writer, &http.Cookie{
		Name:     opts.CookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(opts.TTL.Seconds()),
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// # Route Guard

// GuardRecorder counts guard decisions by reason.
type GuardRecorder interface {
	ObserveGuardDecision(reason string)
}

// GuardOptions configures [Guard].
type GuardOptions struct {
	// Wait bounds how long a request waits for a loading session to settle.
	Wait time.Duration

	// Recorder receives one observation per decision. Optional.
	Recorder GuardRecorder

	// Loading renders the neutral page shown while the session is still
	// loading after Wait. Optional.
	Loading http.Handler
}

// Guard protects a route subtree with [access.Evaluate].
//
// # Flow
//  1. Take a snapshot of the request's session (anonymous if none).
//  2. While the session is loading, wait up to opts.Wait for it to settle.
//  3. Still loading: serve the loading page with a Refresh header.
//  4. Redirect: 303 to the decision target.
//  5. Render: run the protected handler.
//
// Must be registered AFTER [Sessions].
func Guard(requirement access.Requirement, opts GuardOptions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			ctx := request.Context()
			sess := ctxutil.GetSession(ctx)
			snapshot := settle(ctx, sess, opts.Wait)

			decision := access.Evaluate(snapshot, requirement)
			if opts.Recorder != nil {
				opts.Recorder.ObserveGuardDecision(decision.Reason)
			}

			switch decision.Outcome {
			case access.OutcomeLoading:
				writer.Header().Set(constants.HeaderRefresh, constants.LoadingRefreshSeconds)
				if opts.Loading != nil {
					opts.Loading.ServeHTTP(writer, request)
					return
				}
				writer.WriteHeader(http.StatusOK)

			case access.OutcomeRedirect:
				ctxutil.GetLogger(ctx).DebugContext(ctx, "guard_redirect",
					slog.String("reason", decision.Reason),
					slog.String("target", decision.Target),
				)
				http.Redirect(writer, request, decision.Target, http.StatusSeeOther)

			default:
				next.ServeHTTP(writer, request)
			}
		})
	}
}

// settle returns the session snapshot, waiting up to wait for loading to end.
func settle(ctx context.Context, sess *session.Session, wait time.Duration) session.Snapshot {
	if sess == nil {
		return session.Snapshot{State: session.StateAnonymous}
	}

	snapshot := sess.Snapshot()
	if !snapshot.Loading() || wait <= 0 {
		return snapshot
	}

	waitCtx, cancel := context.WithTimeout(ctx, wait)
	defer cancel()

	// A timeout leaves the session loading; the caller renders the loading page.
	_ = sess.Wait(waitCtx)
	return sess.Snapshot()
}
