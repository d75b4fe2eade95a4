// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package access

import (
	"strings"

	"github.com/taibuivan/realty/internal/platform/constants"
	"github.com/taibuivan/realty/internal/session"
)

// # Route Requirements

// Requirement is what a protected route asks of the session.
type Requirement struct {
	RequireAdmin   bool
	RequiredModule string
}

// adminRoles are the role labels accepted as administrators (lowercase).
var adminRoles = []string{"administrador", "admin"}

// IsAdminRole reports whether label names an administrator role, ignoring case.
func IsAdminRole(label string) bool {
	label = strings.TrimSpace(label)
	for _, role := range adminRoles {
		if strings.EqualFold(label, role) {
			return true
		}
	}
	return false
}

// # Decisions

// Outcome is the kind of [Decision].
type Outcome int

const (
	// OutcomeLoading means no decision can be made yet.
	OutcomeLoading Outcome = iota
	// OutcomeRender lets the protected handler run.
	OutcomeRender
	// OutcomeRedirect sends the browser to Decision.Target.
	OutcomeRedirect
)

// Decision is the result of [Evaluate].
type Decision struct {
	Outcome Outcome
	Target  string
	Reason  string
}

// Decision reasons, used as metric labels.
const (
	ReasonLoading       = "loading"
	ReasonAllowed       = "allowed"
	ReasonAnonymous     = "anonymous"
	ReasonNotAdmin      = "not_admin"
	ReasonMissingModule = "missing_module"
)

// Evaluate decides whether snapshot may reach a route with requirement.
//
// # Order
//  1. Loading: no decision.
//  2. No identity: redirect to the login page.
//  3. Admin required but role is not admin: redirect to the public root.
//  4. Module required but not held: redirect to the admin root.
//  5. Otherwise render.
func Evaluate(snapshot session.Snapshot, requirement Requirement) Decision {
	if snapshot.Loading() {
		return Decision{Outcome: OutcomeLoading, Reason: ReasonLoading}
	}

	if !snapshot.Authenticated() {
		return redirect(constants.RouteLogin, ReasonAnonymous)
	}

	if requirement.RequireAdmin && !IsAdminRole(snapshot.User.RoleName()) {
		return redirect(constants.RoutePublicRoot, ReasonNotAdmin)
	}

	if requirement.RequiredModule != "" && !HoldsModule(snapshot.Modules, requirement.RequiredModule) {
		return redirect(constants.RouteAdminRoot, ReasonMissingModule)
	}

	return Decision{Outcome: OutcomeRender, Reason: ReasonAllowed}
}

func redirect(target, reason string) Decision {
	return Decision{Outcome: OutcomeRedirect, Target: target, Reason: reason}
}
