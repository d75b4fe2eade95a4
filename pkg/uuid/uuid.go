// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package uuid provides time-ordered unique identifiers for the web tier.

It wraps the standard UUID library to specifically generate Version 7 values.
They identify browser sessions (the session cookie and the Redis key suffix)
and requests (X-Request-ID).

Advantages:

  - Sortable: Naturally ordered by creation time (millisecond precision), so
    log lines and Redis keys group chronologically.
  - Opaque: 74 random bits per millisecond make session ids unguessable.
*/
package uuid

import "github.com/google/uuid"

// # Generators

// New generates a new UUIDv7 string.
func New() string {

	// Create a new version 7 UUID (time-sortable)
	id, err := uuid.NewV7()

	// entropy failure is an unrecoverable system-level error
	if err != nil {
		panic("uuid: failed to generate UUIDv7: " + err.Error())
	}

	return id.String()
}

// Valid reports whether s is a canonical UUID string.
func Valid(s string) bool {
	return uuid.Validate(s) == nil
}
