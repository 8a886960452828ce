package dto

import "github.com/golang-jwt/jwt/v5"

// SessionClaims are the JWT claims of a session token. Subject carries the session id.
type SessionClaims struct {
	SessionID string `json:"session_id"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}
