// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants provides centralized, immutable values for the entire platform.

It defines default timeouts, rate limits, route targets and cross-cutting keys
that are shared between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Burst capacities and IP tracking TTLs.
  - Navigation: Redirect targets used by the authorization guard.
  - Backend: REST paths of the external API.

Using this package ensures Magic Strings and Magic Numbers are eliminated
from the business logic.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "realty-web"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	// Image uploads go through this server, so it is more generous than a JSON API.
	DefaultReadTimeout = 30 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 30 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	DefaultRateLimitRPS = 50.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 100

	// LoginRateLimitPerMinute bounds login form submissions per IP.
	LoginRateLimitPerMinute = 10

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Sessions

const (
	// SessionSweepInterval is how often idle in-memory sessions are evicted.
	SessionSweepInterval = 5 * time.Minute

	// SessionIdleTTL is how long an in-memory session may stay unused.
	// The persisted token outlives it and is rehydrated on the next request.
	SessionIdleTTL = 30 * time.Minute

	// LoadingRefreshSeconds is the Refresh header value on the loading page.
	LoadingRefreshSeconds = "1"
)

// # Navigation

const (
	RoutePublicRoot = "/"
	RouteLogin      = "/admin/login"
	RouteAdminRoot  = "/admin"
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderAuthorization = "Authorization"
	HeaderRefresh       = "Refresh"
)

// # JSON Field Identifiers

const (
	FieldData    = "data"
	FieldError   = "error"
	FieldCode    = "code"
	FieldMessage = "message"
	FieldStatus  = "status"
)

// # Redis Prefixes (Cache Taxonomy)

const (
	RedisPrefixSession = "auth:session:"
)

// # Backend Paths

const (
	APIAuthLogin     = "/api/auth/login"
	APIAuthProfile   = "/api/auth/profile"
	APICities        = "/api/cities"
	APICountries     = "/api/countries"
	APIDepartaments  = "/api/departaments"
	APIDepartments   = "/api/departments"
	APINeighborhoods = "/api/neighborhoods"
	APIOwners        = "/api/owners"
	APIPermissions   = "/api/permissions"
	APIPrivileges    = "/api/privileges"
	APIRoles         = "/api/roles"
	APITypes         = "/api/types"
	APIUsers         = "/api/users"
	APIProperties    = "/api/properties"
	APICommonAreas   = "/api/common-areas"
	APINearbyPlaces  = "/api/nearby-places"

	APILocationCountries   = "/api/locations/countries"
	APILocationDepartments = "/api/locations/departments"
)
