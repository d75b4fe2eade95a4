// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package access decides what a session may see and reach.

It is pure: no I/O, no logging, no HTTP. The sidebar menu, the route guard
and the templates all compare module names through [CanonicalModuleName] so
the three can never drift apart.
*/
package access

import "strings"

// # Module Names

// CanonicalModuleName trims, lowercases and drops one trailing "s", so
// "Roles", "role" and " ROLE " compare equal.
func CanonicalModuleName(name string) string {
	canonical := strings.ToLower(strings.TrimSpace(name))
	return strings.TrimSuffix(canonical, "s")
}

// Module names as issued by the backend.
const (
	ModuleProperty     = "property"
	ModuleRole         = "role"
	ModuleOwner        = "owner"
	ModuleCountry      = "country"
	ModuleDepartment   = "department"
	ModuleCity         = "city"
	ModuleNeighborhood = "neighborhood"
	ModuleUser         = "user"
	ModuleTypeProperty = "typeproperty"
	ModulePermission   = "permission"
	ModulePrivilege    = "privilege"
	ModuleCommonArea   = "commonarea"
	ModuleNearbyPlace  = "nearbyplace"
)

// # Menu Descriptors

// Module describes one entry of the admin navigation.
//
// An empty ModuleName marks an entry visible to every admin user.
type Module struct {
	To         string
	Label      string
	Icon       string
	Exact      bool
	ModuleName string
}

// AlwaysVisible reports whether the entry needs no module grant.
func (module Module) AlwaysVisible() bool {
	return module.ModuleName == ""
}

// AdminMenu is the ordered admin navigation. Its order is the menu order.
var AdminMenu = []Module{
	{To: "/admin", Label: "Dashboard", Icon: "dashboard", Exact: true},
	{To: "/admin/properties", Label: "Propiedades", Icon: "home", ModuleName: ModuleProperty},
	{To: "/admin/owners", Label: "Propietarios", Icon: "person", ModuleName: ModuleOwner},
	{To: "/admin/types", Label: "Tipos de propiedad", Icon: "category", ModuleName: ModuleTypeProperty},
	{To: "/admin/common-areas", Label: "Zonas comunes", Icon: "pool", ModuleName: ModuleCommonArea},
	{To: "/admin/nearby-places", Label: "Sitios cercanos", Icon: "place", ModuleName: ModuleNearbyPlace},
	{To: "/admin/countries", Label: "Países", Icon: "public", ModuleName: ModuleCountry},
	{To: "/admin/departments", Label: "Departamentos", Icon: "map", ModuleName: ModuleDepartment},
	{To: "/admin/cities", Label: "Ciudades", Icon: "location_city", ModuleName: ModuleCity},
	{To: "/admin/neighborhoods", Label: "Barrios", Icon: "holiday_village", ModuleName: ModuleNeighborhood},
	{To: "/admin/users", Label: "Usuarios", Icon: "group", ModuleName: ModuleUser},
	{To: "/admin/roles", Label: "Roles", Icon: "badge", ModuleName: ModuleRole},
	{To: "/admin/permissions", Label: "Permisos", Icon: "key", ModuleName: ModulePermission},
	{To: "/admin/privileges", Label: "Privilegios", Icon: "lock", ModuleName: ModulePrivilege},
}

// VisibleModules returns the entries of menu the user may see, in menu order.
//
// Always-visible entries are kept; the others are kept when their canonical
// name is among the canonical user modules. It never fails: an empty
// userModules yields only the always-visible entries.
func VisibleModules(menu []Module, userModules []string) []Module {
	granted := canonicalSet(userModules)

	visible := make([]Module, 0, len(menu))
	for _, module := range menu {
		if module.AlwaysVisible() {
			visible = append(visible, module)
			continue
		}
		if _, ok := granted[CanonicalModuleName(module.ModuleName)]; ok {
			visible = append(visible, module)
		}
	}
	return visible
}

// HoldsModule reports whether required is among userModules under
// canonical comparison.
func HoldsModule(userModules []string, required string) bool {
	want := CanonicalModuleName(required)
	for _, module := range userModules {
		if CanonicalModuleName(module) == want {
			return true
		}
	}
	return false
}

func canonicalSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		set[CanonicalModuleName(name)] = struct{}{}
	}
	return set
}
