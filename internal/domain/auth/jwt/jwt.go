package jwt

import (
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the fixed claim record carried by an access token. Stamp is the
// user's security stamp at issuance; revocation rotates it.
type Claims struct {
	Subject   string
	Email     string
	ID        string
	Roles     []string
	Stamp     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

func (c Claims) HasRole(role string) bool {
	return slices.Contains(c.Roles, role)
}

type AccessClaims struct {
	jwt.RegisteredClaims
	Email string   `json:"email,omitempty"`
	Roles []string `json:"roles,omitempty"`
	Stamp string   `json:"stamp,omitempty"`
}

func (a AccessClaims) Claims() Claims {
	c := Claims{
		Subject: a.Subject,
		Email:   a.Email,
		ID:      a.ID,
		Roles:   a.Roles,
		Stamp:   a.Stamp,
	}
	if a.IssuedAt != nil {
		c.IssuedAt = a.IssuedAt.Time
	}
	if a.ExpiresAt != nil {
		c.ExpiresAt = a.ExpiresAt.Time
	}
	return c
}

type JWTUtil interface {
	GenerateAccessToken(claims Claims) (token string, exp time.Time, err error)
	GenerateRefreshToken() (string, error)
	GetPrincipalFromExpiredToken(token string) (Claims, error)
	ValidateAccessToken(token string) (Claims, error)
}
