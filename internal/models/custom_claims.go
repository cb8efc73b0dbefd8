package models

import "github.com/golang-jwt/jwt/v5"

// CustomClaims represents the claims the bank backend puts in its tokens
type CustomClaims struct {
	jwt.RegisteredClaims
	Roles []string `json:"roles,omitempty"`
}
