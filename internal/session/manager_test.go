// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/realty/internal/session"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (clock *fakeClock) Now() time.Time {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	return clock.now
}

func (clock *fakeClock) Advance(d time.Duration) {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	clock.now = clock.now.Add(d)
}

/*
TestManager_GetReusesSession verifies that one browser id maps to one live session.
*/
func TestManager_GetReusesSession(t *testing.T) {
	manager := session.NewManager(session.Options{})
	ctx := context.Background()

	first := manager.Get(ctx, "sid-1")
	second := manager.Get(ctx, "sid-1")
	other := manager.Get(ctx, "sid-2")

	assert.Same(t, first, second)
	assert.NotSame(t, first, other)
	assert.Equal(t, 2, manager.Len())
}

/*
TestManager_RehydratesFromStore restores a persisted token into a fresh session.
*/
func TestManager_RehydratesFromStore(t *testing.T) {
	ctx := context.Background()
	store := session.NewMemoryStore()
	token := mintToken(t, futureClaims([]string{"city"}, propertyPermissions))
	require.NoError(t, store.Save(ctx, "sid-1", token))

	manager := session.NewManager(session.Options{Store: store})
	sess := manager.Get(ctx, "sid-1")

	assert.Equal(t, session.StateAuthenticated, sess.State())
	assert.True(t, sess.HasModule("city"))
}

/*
TestManager_SweepEvictsIdleSessions keeps the persisted token of evicted sessions.
*/
func TestManager_SweepEvictsIdleSessions(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Now()}
	store := session.NewMemoryStore()
	manager := session.NewManager(session.Options{Store: store, Now: clock.Now})

	idle := manager.Get(ctx, "sid-idle")
	require.NoError(t, idle.Login(ctx, mintToken(t, futureClaims([]string{"city"}, propertyPermissions))))

	clock.Advance(time.Hour)
	manager.Get(ctx, "sid-active")
	manager.Sweep()

	assert.Equal(t, 1, manager.Len())
	assert.Equal(t, session.StateAnonymous, idle.State())

	persisted, _ := store.Load(ctx, "sid-idle")
	assert.NotEmpty(t, persisted)

	// The next request rehydrates a new session from the store.
	revived := manager.Get(ctx, "sid-idle")
	assert.NotSame(t, idle, revived)
	assert.True(t, revived.HasModule("city"))
}

/*
TestManager_NewID produces distinct identifiers.
*/
func TestManager_NewID(t *testing.T) {
	manager := session.NewManager(session.Options{})
	assert.NotEqual(t, manager.NewID(), manager.NewID())
}

/*
TestManager_RotateDropsOldIdentity leaves nothing reachable under the replaced id.
*/
func TestManager_RotateDropsOldIdentity(t *testing.T) {
	ctx := context.Background()
	store := session.NewMemoryStore()
	manager := session.NewManager(session.Options{Store: store})

	old := manager.Get(ctx, "sid-planted")
	require.NoError(t, old.Login(ctx, mintToken(t, futureClaims([]string{"city"}, propertyPermissions))))

	rotated := manager.Rotate(ctx, "sid-planted")

	assert.NotEqual(t, "sid-planted", rotated.ID())
	assert.Equal(t, session.StateAnonymous, rotated.State())
	assert.Equal(t, session.StateAnonymous, old.State())
	assert.Equal(t, 1, manager.Len())

	persisted, _ := store.Load(ctx, "sid-planted")
	assert.Empty(t, persisted)

	// The planted id now resolves to a fresh anonymous session.
	again := manager.Get(ctx, "sid-planted")
	assert.NotSame(t, old, again)
	assert.Equal(t, session.StateAnonymous, again.State())
	assert.Same(t, rotated, manager.Get(ctx, rotated.ID()))
}
