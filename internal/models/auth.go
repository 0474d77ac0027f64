package models

import "github.com/golang-jwt/jwt/v5"

// JWTClaims is the decoded payload of an access token. The email claim is
// the caller's identity; roles are looked up in storage per request, never
// embedded in the token.
type JWTClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// TokenRequest asks for an access token for the given email.
type TokenRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// TokenResponse carries the issued access token.
type TokenResponse struct {
	Token string `json:"token"`
}
