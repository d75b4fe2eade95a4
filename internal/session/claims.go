// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// # Token Payload

// Claims is the decoded payload of the bearer token issued by the backend.
//
// # Trust
//
// The signature is NOT verified here. The backend verifies every call made
// with the token, so the web tier only reads the payload to decide what to
// render and where to redirect.
type Claims struct {
	jwt.RegisteredClaims

	UserID Identifier `json:"id,omitempty"`
	Name   string     `json:"name,omitempty"`
	Email  string     `json:"email,omitempty"`

	// Older tokens carry the role label under different keys.
	Role        RoleLabel `json:"role,omitempty"`
	TipoUsuario RoleLabel `json:"tipo_usuario,omitempty"`
	Tipo        RoleLabel `json:"tipo,omitempty"`

	Modules     []string     `json:"modules,omitempty"`
	Permissions []Permission `json:"permissions,omitempty"`
}

// Permission pairs a module name with the actions allowed on it.
type Permission struct {
	Name       string      `json:"name"`
	Privileges []Privilege `json:"privileges"`
}

// Privilege is a single allowed action (CREATE, READ, UPDATE, DELETE).
type Privilege struct {
	Action string `json:"action"`
}

// Profile is the grant set returned by the profile endpoint when the token
// does not carry one.
type Profile struct {
	Modules     []string     `json:"modules"`
	Permissions []Permission `json:"permissions"`
}

// RoleLabel is a role claim that may arrive as a plain string or as an
// object such as {"name": "Admin"} or {"nombre": "Administrador"}.
type RoleLabel string

// UnmarshalJSON accepts both encodings.
func (label *RoleLabel) UnmarshalJSON(data []byte) error {
	var plain string
	if err := json.Unmarshal(data, &plain); err == nil {
		*label = RoleLabel(plain)
		return nil
	}

	var object struct {
		Name   string `json:"name"`
		Nombre string `json:"nombre"`
	}
	if err := json.Unmarshal(data, &object); err != nil {
		// Unknown shapes are ignored rather than failing the whole token.
		*label = ""
		return nil
	}

	if object.Name != "" {
		*label = RoleLabel(object.Name)
	} else {
		*label = RoleLabel(object.Nombre)
	}
	return nil
}

// Identifier is a user id that may be encoded as a JSON number or string.
type Identifier string

// UnmarshalJSON accepts both encodings.
func (id *Identifier) UnmarshalJSON(data []byte) error {
	var number json.Number
	if err := json.Unmarshal(data, &number); err == nil {
		*id = Identifier(number.String())
		return nil
	}

	var plain string
	if err := json.Unmarshal(data, &plain); err != nil {
		*id = ""
		return nil
	}
	*id = Identifier(plain)
	return nil
}

// RoleName returns the first non-empty role label, trimmed.
func (claims *Claims) RoleName() string {
	for _, candidate := range []RoleLabel{claims.Role, claims.TipoUsuario, claims.Tipo} {
		if value := strings.TrimSpace(string(candidate)); value != "" {
			return value
		}
	}
	return ""
}

// DisplayName is what the admin header shows for the current user.
func (claims *Claims) DisplayName() string {
	if claims.Name != "" {
		return claims.Name
	}
	return claims.Email
}

// Expired reports whether the exp claim lies before now.
// A token without exp never expires on the client side.
func (claims *Claims) Expired(now time.Time) bool {
	if claims.ExpiresAt == nil {
		return false
	}
	return claims.ExpiresAt.Time.Before(now)
}

// hasGrants reports whether the token carries both grant lists.
func (claims *Claims) hasGrants() bool {
	return len(claims.Modules) > 0 && len(claims.Permissions) > 0
}

// # Decoding

var parser = jwt.NewParser()

// Decode reads the token payload without verifying its signature.
func Decode(token string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("session: failed to decode token: %w", err)
	}
	return claims, nil
}
