// Package auth verifies identity tokens and manages extension API keys.
//
// Kitaplık does not mint user tokens itself: sign-in is delegated to the
// identity service, which issues PASETO v4.local tokens over a symmetric key
// shared with this server. This package only verifies.
package auth

import "time"

// Claims are the verified contents of an identity token.
type Claims struct {
	UserID      string    `json:"user_id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	Subject     string    `json:"sub"`
	Issuer      string    `json:"iss"`
	Audience    string    `json:"aud"`
	ExpiresAt   time.Time `json:"exp"`
	IssuedAt    time.Time `json:"iat"`
	TokenID     string    `json:"jti"`
}
