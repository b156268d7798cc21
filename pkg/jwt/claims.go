package jwt

import "github.com/golang-jwt/jwt/v5"

// Claims identifies the user behind an API request. Subject carries the user id.
type Claims struct {
	jwt.RegisteredClaims
	Name string `json:"name,omitempty"`
}
