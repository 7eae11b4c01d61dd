package model

import "github.com/google/uuid"

// TokenClaims is the identity extracted from a validated access token.
type TokenClaims struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
	Role   UserRole  `json:"role"`
}
