// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"sync"
)

// # Persistence Contracts

// TokenStore persists the raw bearer token of a browser session.
//
// A missing entry means the browser is logged out. Load returns an empty
// string and a nil error in that case.
type TokenStore interface {
	Load(ctx context.Context, sessionID string) (string, error)
	Save(ctx context.Context, sessionID, token string) error
	Delete(ctx context.Context, sessionID string) error
}

// ProfileFetcher loads the grant set of the token's owner from the backend.
type ProfileFetcher interface {
	FetchProfile(ctx context.Context, token string) (*Profile, error)
}

// # In-Memory Store

// MemoryStore keeps tokens in process memory. Used when no Redis is
// configured and in tests.
type MemoryStore struct {
	mu     sync.RWMutex
	tokens map[string]string
}

// NewMemoryStore creates an empty [MemoryStore].
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tokens: make(map[string]string)}
}

// Load returns the stored token or "" when absent.
func (store *MemoryStore) Load(_ context.Context, sessionID string) (string, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return store.tokens[sessionID], nil
}

// Save stores the token for the session.
func (store *MemoryStore) Save(_ context.Context, sessionID, token string) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.tokens[sessionID] = token
	return nil
}

// Delete removes the token for the session.
func (store *MemoryStore) Delete(_ context.Context, sessionID string) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	delete(store.tokens, sessionID)
	return nil
}
