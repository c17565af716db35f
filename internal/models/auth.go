package models

import "github.com/golang-jwt/jwt/v5"

// SignupRequest creates a new account.
type SignupRequest struct {
	Name     string   `json:"name" validate:"required,min=2"`
	Email    string   `json:"email" validate:"required,email"`
	Password string   `json:"password" validate:"required,min=6"`
	Role     UserRole `json:"role" validate:"required,oneof=admin teacher student"`
}

// LoginRequest holds credentials for authenticating a user.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshTokenRequest exchanges a refresh token for a new token pair.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// TokenPair bundles the two tokens minted for a session. The refresh token
// is a signed JWT as well, keyed by its own secret; it is not persisted and
// not invalidated when a new pair is minted (see DESIGN.md).
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// AuthResponse returns the account and its token pair after signup/login.
type AuthResponse struct {
	User UserInfo `json:"user"`
	TokenPair
}

// JWTClaims is the signed payload shared by access and refresh tokens.
type JWTClaims struct {
	UserID int64    `json:"id"`
	Email  string   `json:"email"`
	Role   UserRole `json:"role"`
	jwt.RegisteredClaims
}
