// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sessiontest provides helpers for tests that need a logged-in browser.
package sessiontest

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/realty/internal/session"
)

// CookieName is the session cookie used by [Browser].
const CookieName = "realty_sid"

// MintToken signs claims with a throwaway key. The web tier never verifies
// the signature, so any key works.
func MintToken(t testing.TB, claims session.Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

// Claims returns claims for a user with role, valid for one hour, carrying
// modules and READ/CREATE/UPDATE/DELETE on each of them.
func Claims(role string, modules ...string) session.Claims {
	permissions := make([]session.Permission, 0, len(modules))
	for _, module := range modules {
		permissions = append(permissions, session.Permission{
			Name: module,
			Privileges: []session.Privilege{
				{Action: "READ"}, {Action: "CREATE"}, {Action: "UPDATE"}, {Action: "DELETE"},
			},
		})
	}

	return session.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		UserID:      "42",
		Name:        "Ana Gómez",
		Email:       "ana@example.com",
		Role:        session.RoleLabel(role),
		Modules:     modules,
		Permissions: permissions,
	}
}

// Browser is a session id with a persisted token.
type Browser struct {
	ID string
}

// Login persists token for a new browser id in store.
func Login(t testing.TB, manager *session.Manager, store session.TokenStore, token string) Browser {
	t.Helper()
	id := manager.NewID()
	require.NoError(t, store.Save(context.Background(), id, token))
	return Browser{ID: id}
}

// Attach adds the browser's session cookie to request.
func (browser Browser) Attach(request *http.Request) *http.Request {
	request.AddCookie(&http.Cookie{Name: CookieName, Value: browser.ID})
	return request
}
