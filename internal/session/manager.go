// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/taibuivan/realty/internal/platform/constants"
	"github.com/taibuivan/realty/pkg/uuid"
)

// Manager owns the live [Session] of every browser seen by this process.
//
// Sessions are created lazily and rehydrated from the [TokenStore] on first
// use. Idle sessions are torn down by [Manager.Run]; their tokens stay in the
// store so the next request rehydrates them again.
type Manager struct {
	opts    Options
	idleTTL time.Duration

	mu       sync.Mutex
	sessions map[string]*managedSession
}

type managedSession struct {
	session  *Session
	lastSeen time.Time
}

// NewManager creates a [Manager] whose sessions share opts.
func NewManager(opts Options) *Manager {
	if opts.Metrics == nil {
		opts.Metrics = noopMetrics{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Store == nil {
		opts.Store = NewMemoryStore()
	}

	return &Manager{
		opts:     opts,
		idleTTL:  constants.SessionIdleTTL,
		sessions: make(map[string]*managedSession),
	}
}

// NewID generates a browser session identifier (UUIDv7).
func (manager *Manager) NewID() string {
	return uuid.New()
}

// Get returns the session for id, creating and rehydrating it if needed.
func (manager *Manager) Get(ctx context.Context, id string) *Session {
	manager.mu.Lock()
	entry, found := manager.sessions[id]
	if found {
		entry.lastSeen = manager.opts.Now()
		manager.mu.Unlock()
		return entry.session
	}

	sess := New(id, manager.opts)
	manager.sessions[id] = &managedSession{session: sess, lastSeen: manager.opts.Now()}
	count := len(manager.sessions)
	manager.mu.Unlock()

	manager.opts.Metrics.SetActiveSessions(count)

	// Concurrent requests for the same id see the loading state until this returns.
	sess.Init(ctx)
	return sess
}

// Rotate replaces the session oldID with a fresh anonymous one under a new
// id. The old session is torn down and its stored token deleted, so a
// cookie value known before a login never carries the new identity.
func (manager *Manager) Rotate(ctx context.Context, oldID string) *Session {
	sess := New(manager.NewID(), manager.opts)

	manager.mu.Lock()
	old, found := manager.sessions[oldID]
	delete(manager.sessions, oldID)
	manager.sessions[sess.ID()] = &managedSession{session: sess, lastSeen: manager.opts.Now()}
	count := len(manager.sessions)
	manager.mu.Unlock()

	manager.opts.Metrics.SetActiveSessions(count)

	if found {
		old.session.Teardown()
	}
	if err := manager.opts.Store.Delete(ctx, oldID); err != nil {
		manager.opts.Logger.WarnContext(ctx, "session_rotate_delete_failed",
			slog.String("session_id", oldID),
			slog.Any("error", err),
		)
	}

	// A new id has nothing stored; skip the store read.
	sess.apply(ctx, "")
	return sess
}

// Len returns the number of live sessions.
func (manager *Manager) Len() int {
	manager.mu.Lock()
	defer manager.mu.Unlock()
	return len(manager.sessions)
}

// Run evicts idle sessions until ctx is cancelled.
func (manager *Manager) Run(ctx context.Context) {
	ticker := time.NewTicker(constants.SessionSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			manager.Sweep()
		case <-ctx.Done():
			manager.Close()
			return
		}
	}
}

// Sweep tears down sessions unused for longer than the idle TTL.
func (manager *Manager) Sweep() {
	cutoff := manager.opts.Now().Add(-manager.idleTTL)

	manager.mu.Lock()
	var evicted []*Session
	for id, entry := range manager.sessions {
		if entry.lastSeen.Before(cutoff) {
			evicted = append(evicted, entry.session)
			delete(manager.sessions, id)
		}
	}
	count := len(manager.sessions)
	manager.mu.Unlock()

	for _, sess := range evicted {
		sess.Teardown()
	}

	if len(evicted) > 0 {
		manager.opts.Logger.Debug("session_sweep", slog.Int("evicted", len(evicted)), slog.Int("remaining", count))
	}
	manager.opts.Metrics.SetActiveSessions(count)
}

// Close tears down every live session.
func (manager *Manager) Close() {
	manager.mu.Lock()
	sessions := manager.sessions
	manager.sessions = make(map[string]*managedSession)
	manager.mu.Unlock()

	for _, entry := range sessions {
		entry.session.Teardown()
	}
	manager.opts.Metrics.SetActiveSessions(0)
}
