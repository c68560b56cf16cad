package identity

import (
	"fmt"
	"slices"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the access token claims the storefront reads. Signatures are
// not verified here; the remote services do that on every call.
type Claims struct {
	PreferredUsername string      `json:"preferred_username"`
	Email             string      `json:"email,omitempty"`
	Name              string      `json:"name,omitempty"`
	RealmAccess       RealmAccess `json:"realm_access"`
	jwt.RegisteredClaims
}

type RealmAccess struct {
	Roles []string `json:"roles"`
}

func (c *Claims) HasRole(role string) bool {
	return slices.Contains(c.RealmAccess.Roles, role)
}

func ParseClaims(raw string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return nil, fmt.Errorf("parse access token: %w", err)
	}
	return claims, nil
}
