// Package auth handles account creation, login, and cookie-based session
// validation. Sessions are stateless HS256 JWTs carried in the "token"
// cookie; nothing about a session is stored server-side.
//
// This is a CORE plugin -- other plugins protect their routes with
// RequireAuth and read the caller with GetUserID.
package auth

import (
	"strings"
	"time"
)

// User represents a registered user. This is the domain model used by the
// repository and service layers. It must never be serialized directly --
// handlers convert it to PublicUser first.
type User struct {
	ID           int64
	Email        string
	Name         string
	Avatar       *string
	PasswordHash string `json:"-"` // Never expose in JSON responses.
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PublicUser is the client-facing view of a User. It has no password field
// at all, so a hash can never leak through a response.
type PublicUser struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Avatar    *string   `json:"avatar"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ToPublic converts the user to its client-facing view.
func (u *User) ToPublic() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Avatar:    u.Avatar,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// --- Request DTOs (bound from HTTP requests) ---

// SignupRequest is the body of POST /api/auth/signup. Password length is
// capped at 72 bytes because bcrypt ignores anything past that.
type SignupRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Name     string `json:"name" validate:"required,min=1,max=100"`
	Password string `json:"password" validate:"required,min=8,max=100,maxbytes=72"`
}

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// --- Service Input DTOs (passed from handler to service) ---

// SignupInput is the validated input for creating a new account.
type SignupInput struct {
	Email    string
	Name     string
	Password string
}

// LoginInput is the validated input for authenticating a user.
type LoginInput struct {
	Email    string
	Password string
}

// authPayload wraps a user for signup and login responses.
type authPayload struct {
	User PublicUser `json:"user"`
}

// normalizeEmail trims and lower-cases an address so lookups and the
// unique index agree.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
