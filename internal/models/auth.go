package models

import "github.com/golang-jwt/jwt/v5"

// SignupRequest creates an account. Non-admin signups are stored inactive
// and must be approved before the issued token is usable.
type SignupRequest struct {
	FirstName  string `json:"firstName" validate:"required,min=2"`
	LastName   string `json:"lastName" validate:"required,min=2"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=8"`
	Role       Role   `json:"role" validate:"required,oneof=admin lecturer hod"`
	Department string `json:"department" validate:"omitempty,oneof=it accountancy english visiting"`
}

// SigninRequest authenticates by email and password.
type SigninRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// ChangePasswordRequest updates the caller's password after verifying the
// current one.
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=8"`
}

// Claims is the JWT payload. It is a snapshot of the user's identity and
// activation state taken when the token is signed; the auth gate checks
// IsActive from these claims rather than re-reading the database.
type Claims struct {
	UserID     string      `json:"user_id"`
	Email      string      `json:"email"`
	FirstName  string      `json:"first_name"`
	LastName   string      `json:"last_name"`
	Role       Role        `json:"role"`
	Department *Department `json:"department"`
	IsActive   bool        `json:"is_active"`
	jwt.RegisteredClaims
}
