// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package realty

import (
	"github.com/taibuivan/realty/internal/platform/apiclient"
	"github.com/taibuivan/realty/internal/platform/constants"
	"github.com/taibuivan/realty/internal/resource"
)

// Catalog groups the services of every backend collection.
type Catalog struct {
	Countries     *resource.Service[Country]
	Departments   *resource.Service[Department]
	Cities        *resource.Service[City]
	Neighborhoods *resource.Service[Neighborhood]
	Owners        *resource.Service[Owner]
	Types         *resource.Service[PropertyType]
	CommonAreas   *resource.Service[CommonArea]
	NearbyPlaces  *resource.Service[NearbyPlace]
	Permissions   *resource.Service[Permission]
	Privileges    *resource.Service[Privilege]
	Roles         *resource.Service[Role]
	Users         *resource.Service[User]
	Properties    *PropertyService
	Locations     *LocationService
	Auth          *AuthService
}

// NewCatalog wires every service to client.
//
// The backend exposes departments under two spellings; departmentsPath picks
// one and defaults to [constants.APIDepartaments].
func NewCatalog(client *apiclient.Client, departmentsPath string) *Catalog {
	if departmentsPath == "" {
		departmentsPath = constants.APIDepartaments
	}

	return &Catalog{
		Countries:     resource.New[Country](client, constants.APICountries),
		Departments:   resource.New[Department](client, departmentsPath),
		Cities:        resource.New[City](client, constants.APICities),
		Neighborhoods: resource.New[Neighborhood](client, constants.APINeighborhoods),
		Owners:        resource.New[Owner](client, constants.APIOwners),
		Types:         resource.New[PropertyType](client, constants.APITypes),
		CommonAreas:   resource.New[CommonArea](client, constants.APICommonAreas),
		NearbyPlaces:  resource.New[NearbyPlace](client, constants.APINearbyPlaces),
		Permissions:   resource.New[Permission](client, constants.APIPermissions),
		Privileges:    resource.New[Privilege](client, constants.APIPrivileges),
		Roles:         resource.New[Role](client, constants.APIRoles),
		Users:         resource.New[User](client, constants.APIUsers),
		Properties:    NewPropertyService(client),
		Locations:     NewLocationService(client),
		Auth:          NewAuthService(client),
	}
}
