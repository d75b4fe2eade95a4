// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package realty holds the backend entities shown by the site and managed
// by the admin panel, and the typed services that reach them.
package realty

import (
	"strings"
	"time"
)

// # Locations

// Country is the top of the location hierarchy.
type Country struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Code string `json:"code,omitempty"`
}

// Department belongs to a [Country].
type Department struct {
	ID        int      `json:"id"`
	Name      string   `json:"name"`
	CountryID int      `json:"countryId,omitempty"`
	Country   *Country `json:"country,omitempty"`
}

// City belongs to a [Department].
type City struct {
	ID           int         `json:"id"`
	Name         string      `json:"name"`
	DepartmentID int         `json:"departmentId,omitempty"`
	Department   *Department `json:"department,omitempty"`
}

// Neighborhood belongs to a [City].
type Neighborhood struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	CityID int    `json:"cityId,omitempty"`
	City   *City  `json:"city,omitempty"`
}

// # Catalogue

// PropertyType classifies a listing (house, apartment, lot).
type PropertyType struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// CommonArea is a shared amenity (pool, gym) a property may offer.
type CommonArea struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// NearbyPlace is a point of interest (school, park) close to a property.
type NearbyPlace struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Owner is the person or company listing a property.
type Owner struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	LastName string `json:"lastName,omitempty"`
	Document string `json:"document,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

// FullName joins first and last name.
func (owner Owner) FullName() string {
	if owner.LastName == "" {
		return owner.Name
	}
	return owner.Name + " " + owner.LastName
}

// # Listings

// Operation is what the owner offers.
type Operation string

const (
	OperationSale Operation = "venta"
	OperationRent Operation = "arriendo"
)

// Property is a listing.
type Property struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Operation   Operation `json:"operation,omitempty"`
	Price       float64   `json:"price"`
	Area        float64   `json:"area,omitempty"`
	Bedrooms    int       `json:"bedrooms,omitempty"`
	Bathrooms   int       `json:"bathrooms,omitempty"`
	Parking     int       `json:"parking,omitempty"`
	Address     string    `json:"address,omitempty"`
	Featured    bool      `json:"featured,omitempty"`

	TypeID         int           `json:"typeId,omitempty"`
	Type           *PropertyType `json:"type,omitempty"`
	OwnerID        int           `json:"ownerId,omitempty"`
	Owner          *Owner        `json:"owner,omitempty"`
	NeighborhoodID int           `json:"neighborhoodId,omitempty"`
	Neighborhood   *Neighborhood `json:"neighborhood,omitempty"`

	CommonAreaIDs  []int         `json:"commonAreaIds,omitempty"`
	CommonAreas    []CommonArea  `json:"commonAreas,omitempty"`
	NearbyPlaceIDs []int         `json:"nearbyPlaceIds,omitempty"`
	NearbyPlaces   []NearbyPlace `json:"nearbyPlaces,omitempty"`
	Images         []Image       `json:"images,omitempty"`

	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

// Image is one uploaded picture of a property.
type Image struct {
	ID       int    `json:"id"`
	URL      string `json:"url"`
	IsCover  bool   `json:"isCover,omitempty"`
	Position int    `json:"position,omitempty"`
}

// Cover returns the cover image, or the first one, or nil.
func (property Property) Cover() *Image {
	for index := range property.Images {
		if property.Images[index].IsCover {
			return &property.Images[index]
		}
	}
	if len(property.Images) > 0 {
		return &property.Images[0]
	}
	return nil
}

// Location renders "Neighborhood, City, Department" with the parts known.
func (property Property) Location() string {
	var parts []string
	if neighborhood := property.Neighborhood; neighborhood != nil {
		parts = append(parts, neighborhood.Name)
		if city := neighborhood.City; city != nil {
			parts = append(parts, city.Name)
			if department := city.Department; department != nil {
				parts = append(parts, department.Name)
			}
		}
	}
	return strings.Join(parts, ", ")
}

// # Relations
//
// The backend may send a relation as an id, as a nested object, or both.
// These accessors read whichever is present.

// PropertyTypeID returns the id of the property type.
func (property Property) PropertyTypeID() int {
	if property.TypeID != 0 || property.Type == nil {
		return property.TypeID
	}
	return property.Type.ID
}

// CityID returns the id of the city the property lies in, or 0.
func (property Property) CityID() int {
	neighborhood := property.Neighborhood
	if neighborhood == nil {
		return 0
	}
	if neighborhood.CityID != 0 || neighborhood.City == nil {
		return neighborhood.CityID
	}
	return neighborhood.City.ID
}

// DepartmentID returns the id of the department, or 0.
func (property Property) DepartmentID() int {
	city := property.city()
	if city == nil {
		return 0
	}
	if city.DepartmentID != 0 || city.Department == nil {
		return city.DepartmentID
	}
	return city.Department.ID
}

// CountryID returns the id of the country, or 0.
func (property Property) CountryID() int {
	city := property.city()
	if city == nil || city.Department == nil {
		return 0
	}
	department := city.Department
	if department.CountryID != 0 || department.Country == nil {
		return department.CountryID
	}
	return department.Country.ID
}

func (property Property) city() *City {
	if property.Neighborhood == nil {
		return nil
	}
	return property.Neighborhood.City
}

// # Access Control

// Privilege is one action (CREATE, READ, UPDATE, DELETE).
type Privilege struct {
	ID          int    `json:"id"`
	Action      string `json:"action"`
	Description string `json:"description,omitempty"`
}

// Permission grants privileges on a module.
type Permission struct {
	ID          int         `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Privileges  []Privilege `json:"privileges,omitempty"`
}

// Role bundles permissions.
type Role struct {
	ID          int          `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Permissions []Permission `json:"permissions,omitempty"`
}

// User is a back-office account.
type User struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Phone  string `json:"phone,omitempty"`
	RoleID int    `json:"roleId,omitempty"`
	Role   *Role  `json:"role,omitempty"`
}
