// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

// Snapshot is an immutable view of a [Session] at one point in time.
//
// Guards, menus and templates consume snapshots so that a single request
// sees one consistent state even if rehydration completes mid-request.
type Snapshot struct {
	State       State
	User        *Claims
	Modules     []string
	Permissions []Permission
}

// Loading reports whether the initial rehydration is still running.
func (snapshot Snapshot) Loading() bool {
	return snapshot.State == StateLoading
}

// Authenticated reports whether an identity is present.
func (snapshot Snapshot) Authenticated() bool {
	return snapshot.User != nil && snapshot.State == StateAuthenticated
}

// HasModule reports whether name is an element of Modules (exact case).
func (snapshot Snapshot) HasModule(name string) bool {
	for _, module := range snapshot.Modules {
		if module == name {
			return true
		}
	}
	return false
}

// HasPermission finds the permission named module (exact case) and reports
// whether one of its privileges has exactly action.
func (snapshot Snapshot) HasPermission(module, action string) bool {
	for _, permission := range snapshot.Permissions {
		if permission.Name != module {
			continue
		}
		for _, privilege := range permission.Privileges {
			if privilege.Action == action {
				return true
			}
		}
		return false
	}
	return false
}
