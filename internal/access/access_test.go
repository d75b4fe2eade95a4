// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package access_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/realty/internal/access"
	"github.com/taibuivan/realty/internal/session"
)

// # Module Names

/*
TestCanonicalModuleName covers case, whitespace and the trailing "s".
*/
func TestCanonicalModuleName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"role", "role"},
		{"Roles", "role"},
		{"  PROPERTY ", "property"},
		{"typeproperty", "typeproperty"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, access.CanonicalModuleName(tt.input))
		})
	}
}

// # Visibility Filter

func labels(modules []access.Module) []string {
	out := make([]string, 0, len(modules))
	for _, module := range modules {
		out = append(out, module.To)
	}
	return out
}

/*
TestVisibleModules_AlwaysVisible keeps entries without a module name for any user.
*/
func TestVisibleModules_AlwaysVisible(t *testing.T) {
	menu := []access.Module{
		{To: "/admin", Label: "Dashboard"},
		{To: "/admin/cities", ModuleName: "city"},
	}

	for _, userModules := range [][]string{nil, {}, {"owner"}} {
		visible := access.VisibleModules(menu, userModules)
		assert.Equal(t, []string{"/admin"}, labels(visible))
	}
}

/*
TestVisibleModules_Membership keeps an entry iff the user holds its module, preserving order.
*/
func TestVisibleModules_Membership(t *testing.T) {
	visible := access.VisibleModules(access.AdminMenu, []string{"USER", "Property", "city"})

	assert.Equal(t, []string{"/admin", "/admin/properties", "/admin/cities", "/admin/users"}, labels(visible))
}

/*
TestVisibleModules_PluralGrant matches a plural grant against a singular entry.
*/
func TestVisibleModules_PluralGrant(t *testing.T) {
	visible := access.VisibleModules(access.AdminMenu, []string{"roles"})
	assert.Equal(t, []string{"/admin", "/admin/roles"}, labels(visible))
}

/*
TestVisibleModules_DoesNotMutate leaves the static menu untouched.
*/
func TestVisibleModules_DoesNotMutate(t *testing.T) {
	before := len(access.AdminMenu)
	_ = access.VisibleModules(access.AdminMenu, nil)
	assert.Len(t, access.AdminMenu, before)
}

// # Guard

func adminSnapshot(role string, modules ...string) session.Snapshot {
	return session.Snapshot{
		State:   session.StateAuthenticated,
		User:    &session.Claims{Name: "Laura", Role: session.RoleLabel(role)},
		Modules: modules,
	}
}

/*
TestEvaluate covers the redirect matrix of the route guard.
*/
func TestEvaluate(t *testing.T) {
	tests := []struct {
		name        string
		snapshot    session.Snapshot
		requirement access.Requirement
		outcome     access.Outcome
		target      string
	}{
		{
			name:     "loading_makes_no_decision",
			snapshot: session.Snapshot{State: session.StateLoading},
			outcome:  access.OutcomeLoading,
		},
		{
			name:        "anonymous_goes_to_login",
			snapshot:    session.Snapshot{State: session.StateAnonymous},
			requirement: access.Requirement{RequireAdmin: true, RequiredModule: "property"},
			outcome:     access.OutcomeRedirect,
			target:      "/admin/login",
		},
		{
			name:     "expired_goes_to_login",
			snapshot: session.Snapshot{State: session.StateExpired},
			outcome:  access.OutcomeRedirect,
			target:   "/admin/login",
		},
		{
			name:        "admin_role_case_insensitive",
			snapshot:    adminSnapshot("Admin"),
			requirement: access.Requirement{RequireAdmin: true},
			outcome:     access.OutcomeRender,
		},
		{
			name:        "administrador_role",
			snapshot:    adminSnapshot("ADMINISTRADOR"),
			requirement: access.Requirement{RequireAdmin: true},
			outcome:     access.OutcomeRender,
		},
		{
			name:        "non_admin_goes_home",
			snapshot:    adminSnapshot("Asesor"),
			requirement: access.Requirement{RequireAdmin: true},
			outcome:     access.OutcomeRedirect,
			target:      "/",
		},
		{
			name:        "plural_requirement_matches_singular_grant",
			snapshot:    adminSnapshot("Admin", "role"),
			requirement: access.Requirement{RequireAdmin: true, RequiredModule: "roles"},
			outcome:     access.OutcomeRender,
		},
		{
			name:        "missing_module_goes_to_admin_root",
			snapshot:    adminSnapshot("Admin", "owner"),
			requirement: access.Requirement{RequireAdmin: true, RequiredModule: "property"},
			outcome:     access.OutcomeRedirect,
			target:      "/admin",
		},
		{
			name:        "no_requirements_renders",
			snapshot:    adminSnapshot("Asesor"),
			requirement: access.Requirement{},
			outcome:     access.OutcomeRender,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := access.Evaluate(tt.snapshot, tt.requirement)
			assert.Equal(t, tt.outcome, decision.Outcome)
			assert.Equal(t, tt.target, decision.Target)
		})
	}
}
