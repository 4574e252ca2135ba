package types

import (
	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims are carried by the session cookie. The registered ID claim
// (jti) names the server-side session.
type SessionClaims struct {
	jwt.RegisteredClaims
	Version int `json:"v"`
}

// SessionID returns the session the token refers to
func (c *SessionClaims) SessionID() string {
	return c.RegisteredClaims.ID
}
