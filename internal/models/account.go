package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Account is an identity in the platform's account service. Students and
// admins both authenticate against it; admin privilege is a separate
// membership record (see Admin).
type Account struct {
	ID           string    `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Name         string    `db:"name" json:"name"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

// SessionClaims are the claims carried by a signed session token.
type SessionClaims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

// AuthContext is the result of a successful authorization check.
type AuthContext struct {
	Account Account `json:"account"`
	IsAdmin bool    `json:"isAdmin"`
}
