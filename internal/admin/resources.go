// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package admin

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/taibuivan/realty/internal/access"
	"github.com/taibuivan/realty/internal/platform/validate"
	"github.com/taibuivan/realty/internal/realty"
	"github.com/taibuivan/realty/internal/web/view"
	"github.com/taibuivan/realty/pkg/pointer"
	"github.com/taibuivan/realty/pkg/slice"
)

// registerSections declares every admin section. Paths match [access.AdminMenu].
func (handler *Handler) registerSections() {
	catalog := handler.catalog

	// ## Options
	countries := OptionsOf(catalog.Countries.List, func(c realty.Country) Option { return idOption(c.ID, c.Name) })
	departments := OptionsOf(catalog.Departments.List, func(d realty.Department) Option { return idOption(d.ID, d.Name) })
	cities := OptionsOf(catalog.Cities.List, func(c realty.City) Option { return idOption(c.ID, c.Name) })
	neighborhoods := OptionsOf(catalog.Neighborhoods.List, func(n realty.Neighborhood) Option {
		label := n.Name
		if n.City != nil {
			label += " (" + n.City.Name + ")"
		}
		return idOption(n.ID, label)
	})
	owners := OptionsOf(catalog.Owners.List, func(o realty.Owner) Option { return idOption(o.ID, o.FullName()) })
	types := OptionsOf(catalog.Types.List, func(t realty.PropertyType) Option { return idOption(t.ID, t.Name) })
	commonAreas := OptionsOf(catalog.CommonAreas.List, func(c realty.CommonArea) Option { return idOption(c.ID, c.Name) })
	nearbyPlaces := OptionsOf(catalog.NearbyPlaces.List, func(n realty.NearbyPlace) Option { return idOption(n.ID, n.Name) })
	roles := OptionsOf(catalog.Roles.List, func(r realty.Role) Option { return idOption(r.ID, r.Name) })
	permissions := OptionsOf(catalog.Permissions.List, func(p realty.Permission) Option { return idOption(p.ID, p.Name) })
	privileges := OptionsOf(catalog.Privileges.List, func(p realty.Privilege) Option { return idOption(p.ID, p.Action) })

	// ## Listings
	register(handler, Resource[realty.Property]{
		Path: "/admin/properties", Title: "Propiedades", Singular: "propiedad", ModuleName: access.ModuleProperty,
		Store: catalog.Properties,
		Columns: []Column[realty.Property]{
			{"ID", func(p realty.Property) string { return itoa(p.ID) }},
			{"Título", func(p realty.Property) string { return p.Title }},
			{"Tipo", func(p realty.Property) string { return pointer.Val(p.Type).Name }},
			{"Operación", func(p realty.Property) string { return string(p.Operation) }},
			{"Precio", func(p realty.Property) string { return view.Money(p.Price) }},
			{"Ubicación", func(p realty.Property) string { return p.Location() }},
		},
		Fields: []Field{
			{Name: "title", Label: "Título", Kind: KindText, Required: true, MaxLen: 150},
			{Name: "description", Label: "Descripción", Kind: KindTextarea, MaxLen: 2000},
			{Name: "operation", Label: "Operación", Kind: KindSelect, Required: true,
				Options: StaticOptions(string(realty.OperationSale), string(realty.OperationRent))},
			{Name: "price", Label: "Precio", Kind: KindNumber, Required: true},
			{Name: "area", Label: "Área (m²)", Kind: KindNumber},
			{Name: "bedrooms", Label: "Habitaciones", Kind: KindNumber, Integer: true},
			{Name: "bathrooms", Label: "Baños", Kind: KindNumber, Integer: true},
			{Name: "parking", Label: "Parqueaderos", Kind: KindNumber, Integer: true},
			{Name: "address", Label: "Dirección", Kind: KindText, MaxLen: 200},
			{Name: "featured", Label: "Destacada", Kind: KindCheckbox, Help: "Aparece en la portada del sitio"},
			{Name: "typeId", Label: "Tipo", Kind: KindSelect, Required: true, Options: types, Source: "type.id"},
			{Name: "ownerId", Label: "Propietario", Kind: KindSelect, Required: true, Options: owners, Source: "owner.id"},
			{Name: "neighborhoodId", Label: "Barrio", Kind: KindSelect, Required: true, Options: neighborhoods, Source: "neighborhood.id"},
			{Name: "commonAreaIds", Label: "Zonas comunes", Kind: KindMultiSelect, Options: commonAreas, Source: "commonAreas.id"},
			{Name: "nearbyPlaceIds", Label: "Sitios cercanos", Kind: KindMultiSelect, Options: nearbyPlaces, Source: "nearbyPlaces.id"},
		},
		ID:       func(p realty.Property) string { return itoa(p.ID) },
		Label:    func(p realty.Property) string { return p.Title },
		RowLinks: []RowLink{{Label: "Imágenes", Suffix: "/images"}},
		Extend:   handler.propertyImageRoutes,
	})

	register(handler, Resource[realty.Owner]{
		Path: "/admin/owners", Title: "Propietarios", Singular: "propietario", ModuleName: access.ModuleOwner,
		Store: catalog.Owners,
		Columns: []Column[realty.Owner]{
			{"ID", func(o realty.Owner) string { return itoa(o.ID) }},
			{"Nombre", func(o realty.Owner) string { return o.FullName() }},
			{"Documento", func(o realty.Owner) string { return o.Document }},
			{"Correo", func(o realty.Owner) string { return o.Email }},
			{"Teléfono", func(o realty.Owner) string { return o.Phone }},
		},
		Fields: []Field{
			{Name: "name", Label: "Nombres", Kind: KindText, Required: true, MaxLen: 100},
			{Name: "lastName", Label: "Apellidos", Kind: KindText, MaxLen: 100},
			{Name: "document", Label: "Documento", Kind: KindText, MaxLen: 30},
			{Name: "email", Label: "Correo", Kind: KindEmail},
			{Name: "phone", Label: "Teléfono", Kind: KindText, MaxLen: 30},
		},
		ID:    func(o realty.Owner) string { return itoa(o.ID) },
		Label: func(o realty.Owner) string { return o.FullName() },
	})

	register(handler, Resource[realty.PropertyType]{
		Path: "/admin/types", Title: "Tipos de propiedad", Singular: "tipo", ModuleName: access.ModuleTypeProperty,
		Store:   catalog.Types,
		Columns: describedColumns(func(t realty.PropertyType) (int, string, string) { return t.ID, t.Name, t.Description }),
		Fields:  describedFields(),
		ID:      func(t realty.PropertyType) string { return itoa(t.ID) },
		Label:   func(t realty.PropertyType) string { return t.Name },
	})

	register(handler, Resource[realty.CommonArea]{
		Path: "/admin/common-areas", Title: "Zonas comunes", Singular: "zona común", ModuleName: access.ModuleCommonArea,
		Store:   catalog.CommonAreas,
		Columns: describedColumns(func(c realty.CommonArea) (int, string, string) { return c.ID, c.Name, c.Description }),
		Fields:  describedFields(),
		ID:      func(c realty.CommonArea) string { return itoa(c.ID) },
		Label:   func(c realty.CommonArea) string { return c.Name },
	})

	register(handler, Resource[realty.NearbyPlace]{
		Path: "/admin/nearby-places", Title: "Sitios cercanos", Singular: "sitio cercano", ModuleName: access.ModuleNearbyPlace,
		Store:   catalog.NearbyPlaces,
		Columns: describedColumns(func(n realty.NearbyPlace) (int, string, string) { return n.ID, n.Name, n.Description }),
		Fields:  describedFields(),
		ID:      func(n realty.NearbyPlace) string { return itoa(n.ID) },
		Label:   func(n realty.NearbyPlace) string { return n.Name },
	})

	// ## Locations
	register(handler, Resource[realty.Country]{
		Path: "/admin/countries", Title: "Países", Singular: "país", ModuleName: access.ModuleCountry,
		Store: catalog.Countries,
		Columns: []Column[realty.Country]{
			{"ID", func(c realty.Country) string { return itoa(c.ID) }},
			{"Nombre", func(c realty.Country) string { return c.Name }},
			{"Código", func(c realty.Country) string { return c.Code }},
		},
		Fields: []Field{
			{Name: "name", Label: "Nombre", Kind: KindText, Required: true, MaxLen: 100},
			{Name: "code", Label: "Código", Kind: KindText, MaxLen: 3, Help: "ISO 3166, p. ej. CO"},
		},
		ID:    func(c realty.Country) string { return itoa(c.ID) },
		Label: func(c realty.Country) string { return c.Name },
	})

	register(handler, Resource[realty.Department]{
		Path: "/admin/departments", Title: "Departamentos", Singular: "departamento", ModuleName: access.ModuleDepartment,
		Store: catalog.Departments,
		Columns: []Column[realty.Department]{
			{"ID", func(d realty.Department) string { return itoa(d.ID) }},
			{"Nombre", func(d realty.Department) string { return d.Name }},
			{"País", func(d realty.Department) string { return pointer.Val(d.Country).Name }},
		},
		Fields: []Field{
			{Name: "name", Label: "Nombre", Kind: KindText, Required: true, MaxLen: 100},
			{Name: "countryId", Label: "País", Kind: KindSelect, Required: true, Options: countries, Source: "country.id"},
		},
		ID:    func(d realty.Department) string { return itoa(d.ID) },
		Label: func(d realty.Department) string { return d.Name },
	})

	register(handler, Resource[realty.City]{
		Path: "/admin/cities", Title: "Ciudades", Singular: "ciudad", ModuleName: access.ModuleCity,
		Store: catalog.Cities,
		Columns: []Column[realty.City]{
			{"ID", func(c realty.City) string { return itoa(c.ID) }},
			{"Nombre", func(c realty.City) string { return c.Name }},
			{"Departamento", func(c realty.City) string { return pointer.Val(c.Department).Name }},
		},
		Fields: []Field{
			{Name: "name", Label: "Nombre", Kind: KindText, Required: true, MaxLen: 100},
			{Name: "departmentId", Label: "Departamento", Kind: KindSelect, Required: true, Options: departments, Source: "department.id"},
		},
		ID:    func(c realty.City) string { return itoa(c.ID) },
		Label: func(c realty.City) string { return c.Name },
	})

	register(handler, Resource[realty.Neighborhood]{
		Path: "/admin/neighborhoods", Title: "Barrios", Singular: "barrio", ModuleName: access.ModuleNeighborhood,
		Store: catalog.Neighborhoods,
		Columns: []Column[realty.Neighborhood]{
			{"ID", func(n realty.Neighborhood) string { return itoa(n.ID) }},
			{"Nombre", func(n realty.Neighborhood) string { return n.Name }},
			{"Ciudad", func(n realty.Neighborhood) string { return pointer.Val(n.City).Name }},
		},
		Fields: []Field{
			{Name: "name", Label: "Nombre", Kind: KindText, Required: true, MaxLen: 100},
			{Name: "cityId", Label: "Ciudad", Kind: KindSelect, Required: true, Options: cities, Source: "city.id"},
		},
		ID:    func(n realty.Neighborhood) string { return itoa(n.ID) },
		Label: func(n realty.Neighborhood) string { return n.Name },
	})

	// ## Access Control
	register(handler, Resource[realty.User]{
		Path: "/admin/users", Title: "Usuarios", Singular: "usuario", ModuleName: access.ModuleUser,
		Store: catalog.Users,
		Columns: []Column[realty.User]{
			{"ID", func(u realty.User) string { return itoa(u.ID) }},
			{"Nombre", func(u realty.User) string { return u.Name }},
			{"Correo", func(u realty.User) string { return u.Email }},
			{"Rol", func(u realty.User) string { return pointer.Val(u.Role).Name }},
		},
		Fields: []Field{
			{Name: "name", Label: "Nombre", Kind: KindText, Required: true, MaxLen: 100},
			{Name: "email", Label: "Correo", Kind: KindEmail, Required: true},
			{Name: "phone", Label: "Teléfono", Kind: KindText, MaxLen: 30},
			{Name: "roleId", Label: "Rol", Kind: KindSelect, Required: true, Options: roles, Source: "role.id"},
			{Name: "password", Label: "Contraseña", Kind: KindPassword, RequiredOnCreate: true,
				Help: "Déjala vacía para conservar la actual"},
		},
		Check: checkPassword,
		ID:    func(u realty.User) string { return itoa(u.ID) },
		Label: func(u realty.User) string { return u.Email },
	})

	register(handler, Resource[realty.Role]{
		Path: "/admin/roles", Title: "Roles", Singular: "rol", ModuleName: access.ModuleRole,
		Store: catalog.Roles,
		Columns: []Column[realty.Role]{
			{"ID", func(r realty.Role) string { return itoa(r.ID) }},
			{"Nombre", func(r realty.Role) string { return r.Name }},
			{"Descripción", func(r realty.Role) string { return r.Description }},
			{"Permisos", func(r realty.Role) string {
				return strings.Join(slice.Map(r.Permissions, func(p realty.Permission) string { return p.Name }), ", ")
			}},
		},
		Fields: []Field{
			{Name: "name", Label: "Nombre", Kind: KindText, Required: true, MaxLen: 50},
			{Name: "description", Label: "Descripción", Kind: KindTextarea, MaxLen: 255},
			{Name: "permissionIds", Label: "Permisos", Kind: KindMultiSelect, Options: permissions, Source: "permissions.id"},
		},
		ID:    func(r realty.Role) string { return itoa(r.ID) },
		Label: func(r realty.Role) string { return r.Name },
	})

	register(handler, Resource[realty.Permission]{
		Path: "/admin/permissions", Title: "Permisos", Singular: "permiso", ModuleName: access.ModulePermission,
		Store: catalog.Permissions,
		Columns: []Column[realty.Permission]{
			{"ID", func(p realty.Permission) string { return itoa(p.ID) }},
			{"Módulo", func(p realty.Permission) string { return p.Name }},
			{"Privilegios", func(p realty.Permission) string {
				return strings.Join(slice.Map(p.Privileges, func(v realty.Privilege) string { return v.Action }), ", ")
			}},
		},
		Fields: []Field{
			{Name: "name", Label: "Módulo", Kind: KindText, Required: true, MaxLen: 50, Help: "Nombre del módulo, p. ej. property"},
			{Name: "description", Label: "Descripción", Kind: KindTextarea, MaxLen: 255},
			{Name: "privilegeIds", Label: "Privilegios", Kind: KindMultiSelect, Options: privileges, Source: "privileges.id"},
		},
		ID:    func(p realty.Permission) string { return itoa(p.ID) },
		Label: func(p realty.Permission) string { return p.Name },
	})

	register(handler, Resource[realty.Privilege]{
		Path: "/admin/privileges", Title: "Privilegios", Singular: "privilegio", ModuleName: access.ModulePrivilege,
		Store: catalog.Privileges,
		Columns: []Column[realty.Privilege]{
			{"ID", func(p realty.Privilege) string { return itoa(p.ID) }},
			{"Acción", func(p realty.Privilege) string { return p.Action }},
			{"Descripción", func(p realty.Privilege) string { return p.Description }},
		},
		Fields: []Field{
			{Name: "action", Label: "Acción", Kind: KindSelect, Required: true,
				Options: StaticOptions(ActionCreate, ActionRead, ActionUpdate, ActionDelete)},
			{Name: "description", Label: "Descripción", Kind: KindTextarea, MaxLen: 255},
		},
		ID:    func(p realty.Privilege) string { return itoa(p.ID) },
		Label: func(p realty.Privilege) string { return p.Action },
	})
}

// # Helpers

func itoa(id int) string { return strconv.Itoa(id) }

func idOption(id int, label string) Option {
	return Option{Value: itoa(id), Label: label}
}

// describedColumns serves the name/description catalogues.
func describedColumns[T any](fields func(T) (int, string, string)) []Column[T] {
	return []Column[T]{
		{"ID", func(item T) string { id, _, _ := fields(item); return itoa(id) }},
		{"Nombre", func(item T) string { _, name, _ := fields(item); return name }},
		{"Descripción", func(item T) string { _, _, description := fields(item); return description }},
	}
}

func describedFields() []Field {
	return []Field{
		{Name: "name", Label: "Nombre", Kind: KindText, Required: true, MaxLen: 100},
		{Name: "description", Label: "Descripción", Kind: KindTextarea, MaxLen: 255},
	}
}

const minPasswordLength = 8

// checkPassword enforces the length of a new password. Empty is allowed
// on edit and keeps the current one.
func checkPassword(validator *validate.Validator, values url.Values, _ bool) {
	if password := values.Get("password"); password != "" {
		validator.MinLen("password", password, minPasswordLength)
	}
}
