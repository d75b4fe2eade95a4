// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/realty/internal/session"
)

// # Test Doubles

type fakeProfiles struct {
	mu      sync.Mutex
	calls   int
	profile *session.Profile
	err     error
	gate    chan struct{}
}

func (fake *fakeProfiles) FetchProfile(ctx context.Context, _ string) (*session.Profile, error) {
	fake.mu.Lock()
	fake.calls++
	gate := fake.gate
	fake.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return fake.profile, fake.err
}

func (fake *fakeProfiles) Calls() int {
	fake.mu.Lock()
	defer fake.mu.Unlock()
	return fake.calls
}

type fakeMetrics struct {
	mu       sync.Mutex
	outcomes map[string]int
}

func (fake *fakeMetrics) ObserveProfileFetch(outcome string) {
	fake.mu.Lock()
	defer fake.mu.Unlock()
	if fake.outcomes == nil {
		fake.outcomes = make(map[string]int)
	}
	fake.outcomes[outcome]++
}

func (fake *fakeMetrics) SetActiveSessions(int) {}

func (fake *fakeMetrics) Count(outcome string) int {
	fake.mu.Lock()
	defer fake.mu.Unlock()
	return fake.outcomes[outcome]
}

// # Helpers

func mintToken(t *testing.T, claims session.Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func futureClaims(modules []string, permissions []session.Permission) session.Claims {
	return session.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Name:        "Laura",
		Email:       "laura@realty.test",
		Role:        "Admin",
		Modules:     modules,
		Permissions: permissions,
	}
}

var propertyPermissions = []session.Permission{
	{Name: "property", Privileges: []session.Privilege{{Action: "READ"}, {Action: "CREATE"}}},
}

func waitSettled(t *testing.T, sess *session.Session) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, sess.Wait(ctx))
}

// # Rehydration

/*
TestSession_NoToken verifies that a browser without a persisted token is anonymous.
*/
func TestSession_NoToken(t *testing.T) {
	sess := session.New("sid-1", session.Options{})
	assert.True(t, sess.Loading())

	sess.Init(context.Background())

	snapshot := sess.Snapshot()
	assert.Equal(t, session.StateAnonymous, snapshot.State)
	assert.False(t, snapshot.Loading())
	assert.Nil(t, snapshot.User)
	assert.Empty(t, snapshot.Modules)
}

/*
TestSession_ExpiredToken ensures an expired token is discarded from memory and from the store.
*/
func TestSession_ExpiredToken(t *testing.T) {
	ctx := context.Background()
	store := session.NewMemoryStore()
	profiles := &fakeProfiles{}

	claims := futureClaims([]string{"property"}, propertyPermissions)
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	require.NoError(t, store.Save(ctx, "sid-1", mintToken(t, claims)))

	sess := session.New("sid-1", session.Options{Store: store, Profiles: profiles})
	sess.Init(ctx)

	snapshot := sess.Snapshot()
	assert.Equal(t, session.StateExpired, snapshot.State)
	assert.Empty(t, sess.Token())
	assert.Nil(t, snapshot.User)
	assert.Empty(t, snapshot.Modules)
	assert.Empty(t, snapshot.Permissions)
	assert.Zero(t, profiles.Calls())

	persisted, err := store.Load(ctx, "sid-1")
	require.NoError(t, err)
	assert.Empty(t, persisted)
}

/*
TestSession_CorruptedToken resolves an undecodable token to a clean logged-out state.
*/
func TestSession_CorruptedToken(t *testing.T) {
	ctx := context.Background()
	store := session.NewMemoryStore()
	require.NoError(t, store.Save(ctx, "sid-1", "not-a-jwt"))

	sess := session.New("sid-1", session.Options{Store: store})
	sess.Init(ctx)

	assert.Equal(t, session.StateAnonymous, sess.State())
	assert.Empty(t, sess.Token())

	persisted, _ := store.Load(ctx, "sid-1")
	assert.Empty(t, persisted)
}

/*
TestSession_TokenWithGrants adopts the embedded grants without any network call.
*/
func TestSession_TokenWithGrants(t *testing.T) {
	profiles := &fakeProfiles{}
	sess := session.New("sid-1", session.Options{Profiles: profiles})

	token := mintToken(t, futureClaims([]string{"property", "owner"}, propertyPermissions))
	require.NoError(t, sess.Login(context.Background(), token))

	snapshot := sess.Snapshot()
	assert.Equal(t, session.StateAuthenticated, snapshot.State)
	assert.Equal(t, []string{"property", "owner"}, snapshot.Modules)
	assert.Equal(t, propertyPermissions, snapshot.Permissions)
	assert.Equal(t, "Laura", snapshot.User.Name)
	assert.Zero(t, profiles.Calls())
}

/*
TestSession_TokenWithoutGrants issues exactly one profile request and adopts its result.
*/
func TestSession_TokenWithoutGrants(t *testing.T) {
	profiles := &fakeProfiles{
		profile: &session.Profile{Modules: []string{"user"}, Permissions: []session.Permission{
			{Name: "user", Privileges: []session.Privilege{{Action: "READ"}}},
		}},
	}
	sess := session.New("sid-1", session.Options{Profiles: profiles})

	require.NoError(t, sess.Login(context.Background(), mintToken(t, futureClaims(nil, nil))))
	waitSettled(t, sess)

	assert.Equal(t, 1, profiles.Calls())
	assert.Equal(t, session.StateAuthenticated, sess.State())
	assert.True(t, sess.HasModule("user"))
	assert.True(t, sess.HasPermission("user", "READ"))
}

/*
TestSession_PartialGrants treats a token with modules but no permissions as grant-less.
*/
func TestSession_PartialGrants(t *testing.T) {
	profiles := &fakeProfiles{profile: &session.Profile{Modules: []string{"city"}}}
	sess := session.New("sid-1", session.Options{Profiles: profiles})

	require.NoError(t, sess.Login(context.Background(), mintToken(t, futureClaims([]string{"property"}, nil))))
	waitSettled(t, sess)

	assert.Equal(t, 1, profiles.Calls())
	assert.Equal(t, []string{"city"}, sess.Snapshot().Modules)
	assert.False(t, sess.HasModule("property"))
}

/*
TestSession_ProfileFailure covers both failure policies.
*/
func TestSession_ProfileFailure(t *testing.T) {
	failing := func() *fakeProfiles { return &fakeProfiles{err: errors.New("backend down")} }

	t.Run("keep_identity", func(t *testing.T) {
		store := session.NewMemoryStore()
		sess := session.New("sid-1", session.Options{Store: store, Profiles: failing()})

		require.NoError(t, sess.Login(context.Background(), mintToken(t, futureClaims(nil, nil))))
		waitSettled(t, sess)

		snapshot := sess.Snapshot()
		assert.Equal(t, session.StateAuthenticated, snapshot.State)
		assert.NotNil(t, snapshot.User)
		assert.Empty(t, snapshot.Modules)
		assert.Empty(t, snapshot.Permissions)

		persisted, _ := store.Load(context.Background(), "sid-1")
		assert.NotEmpty(t, persisted)
	})

	t.Run("logout", func(t *testing.T) {
		store := session.NewMemoryStore()
		sess := session.New("sid-1", session.Options{
			Store:                  store,
			Profiles:               failing(),
			LogoutOnProfileFailure: true,
		})

		require.NoError(t, sess.Login(context.Background(), mintToken(t, futureClaims(nil, nil))))
		waitSettled(t, sess)

		assert.Equal(t, session.StateAnonymous, sess.State())
		assert.Nil(t, sess.Snapshot().User)

		persisted, _ := store.Load(context.Background(), "sid-1")
		assert.Empty(t, persisted)
	})
}

/*
TestSession_StaleProfileDiscarded makes sure a slow profile for an old token
cannot overwrite the state derived from a newer token.
*/
func TestSession_StaleProfileDiscarded(t *testing.T) {
	metrics := &fakeMetrics{}
	profiles := &fakeProfiles{
		profile: &session.Profile{Modules: []string{"stale"}},
		gate:    make(chan struct{}),
	}
	sess := session.New("sid-1", session.Options{Profiles: profiles, Metrics: metrics})
	ctx := context.Background()

	// 1. First token needs the profile and blocks on the gate.
	require.NoError(t, sess.Login(ctx, mintToken(t, futureClaims(nil, nil))))
	require.Eventually(t, func() bool { return profiles.Calls() == 1 }, time.Second, 5*time.Millisecond)
	assert.True(t, sess.Loading())

	// 2. Second token carries its grants and settles immediately.
	require.NoError(t, sess.Login(ctx, mintToken(t, futureClaims([]string{"property"}, propertyPermissions))))
	assert.Equal(t, session.StateAuthenticated, sess.State())

	// 3. Releasing the first fetch must not change anything.
	close(profiles.gate)
	require.Eventually(t, func() bool {
		return metrics.Count(session.ProfileOutcomeDiscarded) == 1
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, []string{"property"}, sess.Snapshot().Modules)
	assert.Zero(t, metrics.Count(session.ProfileOutcomeOK))
}

// # Login & Logout

/*
TestSession_LoginLogout verifies logout clears the store and every in-memory field.
*/
func TestSession_LoginLogout(t *testing.T) {
	ctx := context.Background()
	store := session.NewMemoryStore()
	sess := session.New("sid-1", session.Options{Store: store})

	token := mintToken(t, futureClaims([]string{"property"}, propertyPermissions))
	require.NoError(t, sess.Login(ctx, token))

	persisted, _ := store.Load(ctx, "sid-1")
	assert.Equal(t, token, persisted)

	require.NoError(t, sess.Logout(ctx))

	snapshot := sess.Snapshot()
	assert.Equal(t, session.StateAnonymous, snapshot.State)
	assert.Empty(t, sess.Token())
	assert.Nil(t, snapshot.User)
	assert.Empty(t, snapshot.Modules)
	assert.Empty(t, snapshot.Permissions)

	persisted, _ = store.Load(ctx, "sid-1")
	assert.Empty(t, persisted)
}

/*
TestSession_Subscribe checks that subscribers observe transitions until they unsubscribe.
*/
func TestSession_Subscribe(t *testing.T) {
	ctx := context.Background()
	sess := session.New("sid-1", session.Options{})

	var states []session.State
	unsubscribe := sess.Subscribe(func(snapshot session.Snapshot) {
		states = append(states, snapshot.State)
	})

	require.NoError(t, sess.Login(ctx, mintToken(t, futureClaims([]string{"owner"}, propertyPermissions))))
	require.NoError(t, sess.Logout(ctx))
	unsubscribe()
	require.NoError(t, sess.Login(ctx, mintToken(t, futureClaims([]string{"owner"}, propertyPermissions))))

	assert.Equal(t, []session.State{session.StateAuthenticated, session.StateAnonymous}, states)
}

/*
TestSession_Teardown stops a pending rehydration and releases waiters.
*/
func TestSession_Teardown(t *testing.T) {
	profiles := &fakeProfiles{gate: make(chan struct{})}
	sess := session.New("sid-1", session.Options{Profiles: profiles})

	require.NoError(t, sess.Login(context.Background(), mintToken(t, futureClaims(nil, nil))))
	sess.Teardown()

	waitSettled(t, sess)
	assert.Equal(t, session.StateAnonymous, sess.State())
}

// # Grant Lookups

/*
TestSnapshot_HasModule tests exact-case membership.
*/
func TestSnapshot_HasModule(t *testing.T) {
	tests := []struct {
		name    string
		modules []string
		lookup  string
		want    bool
	}{
		{"present", []string{"property", "role"}, "role", true},
		{"case_differs", []string{"property"}, "Property", false},
		{"absent", []string{"property"}, "owner", false},
		{"empty", []string{}, "property", false},
		{"nil", nil, "property", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snapshot := session.Snapshot{Modules: tt.modules}
			assert.Equal(t, tt.want, snapshot.HasModule(tt.lookup))
		})
	}
}

/*
TestSnapshot_HasPermission tests the module + action lookup.
*/
func TestSnapshot_HasPermission(t *testing.T) {
	snapshot := session.Snapshot{Permissions: []session.Permission{
		{Name: "property", Privileges: []session.Privilege{{Action: "READ"}, {Action: "UPDATE"}}},
		{Name: "owner", Privileges: nil},
	}}

	tests := []struct {
		name   string
		module string
		action string
		want   bool
	}{
		{"granted", "property", "UPDATE", true},
		{"missing_action", "property", "DELETE", false},
		{"module_without_privileges", "owner", "READ", false},
		{"unknown_module", "city", "READ", false},
		{"module_case_differs", "Property", "READ", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, snapshot.HasPermission(tt.module, tt.action))
		})
	}
}

// # Claims

/*
TestClaims_RoleName reads the role from any of the supported claim keys.
*/
func TestClaims_RoleName(t *testing.T) {
	tests := []struct {
		name   string
		claims session.Claims
		want   string
	}{
		{"role", session.Claims{Role: "Admin"}, "Admin"},
		{"tipo_usuario", session.Claims{TipoUsuario: " Administrador "}, "Administrador"},
		{"tipo", session.Claims{Tipo: "Asesor"}, "Asesor"},
		{"none", session.Claims{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.claims.RoleName())
		})
	}
}

/*
TestDecode_RoleObject accepts a role encoded as an object.
*/
func TestDecode_RoleObject(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"name": "Ana",
		"role": map[string]any{"nombre": "Administrador"},
	})
	raw, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	claims, err := session.Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, "Administrador", claims.RoleName())
	assert.False(t, claims.Expired(time.Now()))
}
