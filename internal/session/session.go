// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package session holds the identity of one browser: its bearer token, the
decoded claims and the modules and permissions granted to the user.

# State Machine

A [Session] moves between four states:

	anonymous ──login──▶ loading ──claims/profile──▶ authenticated
	    ▲                   │
	    └──────logout───────┴──exp in the past──▶ expired

Every token change starts a new generation. Work started for an older
generation (a slow profile fetch, typically) is discarded when it completes.

# Lifecycle

Sessions are created by the [Manager], rehydrated with [Session.Init] from
the persisted token, observed with [Session.Subscribe] and released with
[Session.Teardown].
*/
package session

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"
)

// # States

// State is the coarse lifecycle position of a [Session].
type State int

const (
	StateAnonymous State = iota
	StateLoading
	StateAuthenticated
	StateExpired
)

// String returns the lowercase state name used in logs.
func (state State) String() string {
	switch state {
	case StateAnonymous:
		return "anonymous"
	case StateLoading:
		return "loading"
	case StateAuthenticated:
		return "authenticated"
	case StateExpired:
		return "expired"
	default:
		return "unknown"
	}
}

// # Observability

// Metrics receives session lifecycle events. A nil Metrics is allowed.
type Metrics interface {
	ObserveProfileFetch(outcome string)
	SetActiveSessions(count int)
}

type noopMetrics struct{}

func (noopMetrics) ObserveProfileFetch(string) {}
func (noopMetrics) SetActiveSessions(int)      {}

// Profile fetch outcomes reported to [Metrics].
const (
	ProfileOutcomeOK        = "ok"
	ProfileOutcomeFailed    = "failed"
	ProfileOutcomeDiscarded = "discarded"
)

// ErrNoProfileSource is reported when grants are missing from the token and
// no [ProfileFetcher] was configured.
var ErrNoProfileSource = errors.New("session: no profile source configured")

// # Session

// Options configures a [Session].
type Options struct {
	Store    TokenStore
	Profiles ProfileFetcher
	Logger   *slog.Logger
	Metrics  Metrics

	// LogoutOnProfileFailure ends the session when the profile fetch fails.
	// When false the user stays authenticated with no grants.
	LogoutOnProfileFailure bool

	// ProfileTimeout bounds a single profile fetch. Zero means no bound.
	ProfileTimeout time.Duration

	// Now is the clock used for the expiry check.
	Now func() time.Time
}

// Session is the identity of a single browser.
//
// # Concurrency
//
// All methods are safe for concurrent use. State is mutated only through
// [Session.Login], [Session.Logout] and the rehydration it triggers.
type Session struct {
	id   string
	opts Options

	mu          sync.RWMutex
	generation  uint64
	state       State
	token       string
	user        *Claims
	modules     []string
	permissions []Permission

	done       chan struct{}
	doneClosed bool
	cancel     context.CancelFunc

	subscribers map[int]func(Snapshot)
	nextSubID   int
	tornDown    bool
}

// New creates a session in the loading state. Call [Session.Init] to
// rehydrate it from the store.
func New(id string, opts Options) *Session {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Metrics == nil {
		opts.Metrics = noopMetrics{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Store == nil {
		opts.Store = NewMemoryStore()
	}

	return &Session{
		id:          id,
		opts:        opts,
		state:       StateLoading,
		done:        make(chan struct{}),
		subscribers: make(map[int]func(Snapshot)),
	}
}

// ID returns the browser session identifier.
func (sess *Session) ID() string {
	return sess.id
}

// # Lifecycle

// Init reads the persisted token and rehydrates from it.
//
// A store failure is logged and treated as a missing token.
func (sess *Session) Init(ctx context.Context) {
	token, err := sess.opts.Store.Load(ctx, sess.id)
	if err != nil {
		sess.opts.Logger.ErrorContext(ctx, "session_token_load_failed",
			slog.String("session_id", sess.id),
			slog.Any("error", err),
		)
		token = ""
	}
	sess.apply(ctx, token)
}

// Subscribe registers fn to be called with a fresh [Snapshot] after every
// state change. The returned function removes the subscription.
func (sess *Session) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	id := sess.nextSubID
	sess.nextSubID++
	sess.subscribers[id] = fn

	return func() {
		sess.mu.Lock()
		defer sess.mu.Unlock()
		delete(sess.subscribers, id)
	}
}

// Teardown cancels in-flight rehydration, clears the in-memory state and
// drops subscribers. The persisted token is kept so the browser can be
// rehydrated later by a new [Session].
func (sess *Session) Teardown() {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	sess.tornDown = true
	sess.generation++
	if sess.cancel != nil {
		sess.cancel()
		sess.cancel = nil
	}
	sess.resetLocked(StateAnonymous)
	sess.closeDoneLocked()
	clear(sess.subscribers)
}

// # Commands

// Login persists token and derives the session from it.
func (sess *Session) Login(ctx context.Context, token string) error {
	if err := sess.opts.Store.Save(ctx, sess.id, token); err != nil {
		return err
	}
	sess.apply(ctx, token)
	return nil
}

// Logout clears the persisted token and every in-memory field.
//
// The in-memory state is cleared even when the store delete fails.
func (sess *Session) Logout(ctx context.Context) error {
	sess.mu.Lock()
	sess.beginGenerationLocked()
	sess.resetLocked(StateAnonymous)
	sess.closeDoneLocked()
	sess.mu.Unlock()

	sess.notify()
	return sess.opts.Store.Delete(ctx, sess.id)
}

// # Queries

// Snapshot returns an immutable copy of the current state.
func (sess *Session) Snapshot() Snapshot {
	sess.mu.RLock()
	defer sess.mu.RUnlock()
	return sess.snapshotLocked()
}

// State returns the current lifecycle state.
func (sess *Session) State() State {
	sess.mu.RLock()
	defer sess.mu.RUnlock()
	return sess.state
}

// Loading reports whether rehydration has not settled yet.
func (sess *Session) Loading() bool {
	return sess.State() == StateLoading
}

// Token returns the current bearer token, or "" when logged out.
func (sess *Session) Token() string {
	sess.mu.RLock()
	defer sess.mu.RUnlock()
	return sess.token
}

// HasModule reports whether name is one of the granted modules (exact match).
func (sess *Session) HasModule(name string) bool {
	return sess.Snapshot().HasModule(name)
}

// HasPermission reports whether the permission named module grants action
// (both exact match).
func (sess *Session) HasPermission(module, action string) bool {
	return sess.Snapshot().HasPermission(module, action)
}

// Done returns a channel closed when the current generation settles or is
// superseded. Callers should re-check [Session.Loading] after it fires.
func (sess *Session) Done() <-chan struct{} {
	sess.mu.RLock()
	defer sess.mu.RUnlock()
	return sess.done
}

// Wait blocks until the session leaves the loading state or ctx ends.
func (sess *Session) Wait(ctx context.Context) error {
	for {
		done := sess.Done()
		if !sess.Loading() {
			return nil
		}

		select {
		case <-done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// # Derivation

// apply starts a new generation for token and runs the derivation steps.
// Only the profile fetch runs asynchronously.
func (sess *Session) apply(ctx context.Context, token string) {
	sess.mu.Lock()
	if sess.tornDown {
		sess.mu.Unlock()
		return
	}
	generation := sess.beginGenerationLocked()
	sess.resetLocked(StateLoading)
	sess.token = token

	// 1. No token: logged out.
	if token == "" {
		sess.state = StateAnonymous
		sess.closeDoneLocked()
		sess.mu.Unlock()
		sess.notify()
		return
	}

	// 2. Corrupted token.
	claims, err := Decode(token)
	if err != nil {
		sess.mu.Unlock()
		sess.opts.Logger.WarnContext(ctx, "session_token_corrupted",
			slog.String("session_id", sess.id),
			slog.Any("error", err),
		)
		sess.discard(ctx, generation, StateAnonymous)
		return
	}

	// 3. Expired token.
	if claims.Expired(sess.opts.Now()) {
		sess.mu.Unlock()
		sess.opts.Logger.InfoContext(ctx, "session_token_expired", slog.String("session_id", sess.id))
		sess.discard(ctx, generation, StateExpired)
		return
	}

	// 4. Identity.
	sess.user = claims

	// 5. Grants embedded in the token.
	if claims.hasGrants() {
		sess.modules = slices.Clone(claims.Modules)
		sess.permissions = slices.Clone(claims.Permissions)
		sess.state = StateAuthenticated
		sess.closeDoneLocked()
		sess.mu.Unlock()
		sess.notify()
		return
	}

	// 6. Grants from the profile endpoint.
	fetchCtx, cancel := sess.profileContext(ctx)
	sess.cancel = cancel
	sess.mu.Unlock()
	sess.notify()

	go sess.rehydrate(fetchCtx, cancel, generation, token)
}

// profileContext detaches the fetch from the triggering request, which
// usually ends before the profile arrives.
func (sess *Session) profileContext(ctx context.Context) (context.Context, context.CancelFunc) {
	base := context.WithoutCancel(ctx)
	if sess.opts.ProfileTimeout > 0 {
		return context.WithTimeout(base, sess.opts.ProfileTimeout)
	}
	return context.WithCancel(base)
}

// rehydrate fetches the profile and adopts it if generation is still current.
func (sess *Session) rehydrate(ctx context.Context, cancel context.CancelFunc, generation uint64, token string) {
	defer cancel()

	var (
		profile *Profile
		err     error
	)
	if sess.opts.Profiles == nil {
		err = ErrNoProfileSource
	} else {
		profile, err = sess.opts.Profiles.FetchProfile(ctx, token)
	}
	if err == nil && profile == nil {
		profile = &Profile{}
	}

	sess.mu.Lock()
	if sess.generation != generation {
		sess.mu.Unlock()
		sess.opts.Metrics.ObserveProfileFetch(ProfileOutcomeDiscarded)
		sess.opts.Logger.DebugContext(ctx, "session_profile_discarded",
			slog.String("session_id", sess.id),
			slog.Uint64("generation", generation),
		)
		return
	}
	sess.cancel = nil

	if err != nil {
		sess.opts.Metrics.ObserveProfileFetch(ProfileOutcomeFailed)
		sess.opts.Logger.ErrorContext(ctx, "session_profile_fetch_failed",
			slog.String("session_id", sess.id),
			slog.Bool("logout", sess.opts.LogoutOnProfileFailure),
			slog.Any("error", err),
		)

		if sess.opts.LogoutOnProfileFailure {
			sess.mu.Unlock()
			sess.discard(ctx, generation, StateAnonymous)
			return
		}

		// 7. Authenticated without grants: authorization fails closed.
		sess.modules = []string{}
		sess.permissions = []Permission{}
	} else {
		sess.opts.Metrics.ObserveProfileFetch(ProfileOutcomeOK)
		sess.modules = nonNil(slices.Clone(profile.Modules))
		sess.permissions = nonNil(slices.Clone(profile.Permissions))
	}

	sess.state = StateAuthenticated
	sess.closeDoneLocked()
	sess.mu.Unlock()
	sess.notify()
}

// discard clears generation's state and the persisted token. It is a no-op
// if a newer generation has started in the meantime.
func (sess *Session) discard(ctx context.Context, generation uint64, final State) {
	sess.mu.Lock()
	if sess.generation != generation {
		sess.mu.Unlock()
		return
	}
	sess.resetLocked(final)
	sess.closeDoneLocked()
	sess.mu.Unlock()

	sess.notify()

	if err := sess.opts.Store.Delete(ctx, sess.id); err != nil {
		sess.opts.Logger.ErrorContext(ctx, "session_token_delete_failed",
			slog.String("session_id", sess.id),
			slog.Any("error", err),
		)
	}
}

// # Locked Helpers

// beginGenerationLocked supersedes any in-flight work and opens a new
// done channel.
func (sess *Session) beginGenerationLocked() uint64 {
	sess.generation++
	if sess.cancel != nil {
		sess.cancel()
		sess.cancel = nil
	}

	// Wake waiters of the old generation so they re-check.
	sess.closeDoneLocked()
	sess.done = make(chan struct{})
	sess.doneClosed = false

	return sess.generation
}

func (sess *Session) resetLocked(state State) {
	sess.state = state
	sess.token = ""
	sess.user = nil
	sess.modules = []string{}
	sess.permissions = []Permission{}
}

func (sess *Session) closeDoneLocked() {
	if !sess.doneClosed {
		close(sess.done)
		sess.doneClosed = true
	}
}

func (sess *Session) snapshotLocked() Snapshot {
	return Snapshot{
		State:       sess.state,
		User:        sess.user,
		Modules:     slices.Clone(sess.modules),
		Permissions: slices.Clone(sess.permissions),
	}
}

// notify calls subscribers outside the lock.
func (sess *Session) notify() {
	sess.mu.RLock()
	snapshot := sess.snapshotLocked()
	subscribers := make([]func(Snapshot), 0, len(sess.subscribers))
	for _, fn := range sess.subscribers {
		subscribers = append(subscribers, fn)
	}
	sess.mu.RUnlock()

	for _, fn := range subscribers {
		fn(snapshot)
	}
}

func nonNil[T any](values []T) []T {
	if values == nil {
		return []T{}
	}
	return values
}
