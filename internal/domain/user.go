package domain

import (
	"time"

	"github.com/google/uuid"
)

// DefaultDepartment is assigned when a user has none on record.
const DefaultDepartment = "General"

// User represents an authenticated dashboard user.
type User struct {
	ID         uuid.UUID
	Email      string
	Name       string
	Role       Role
	Department string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// IsAdmin reports whether the user sees every record.
func (u User) IsAdmin() bool { return u.Role == RoleAdmin }

// RefreshToken represents a hashed refresh token stored in the database.
type RefreshToken struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
	RevokedAt *time.Time
}

// IsRevoked returns true if the token has been revoked.
func (t *RefreshToken) IsRevoked() bool {
	return t.RevokedAt != nil
}

// IsExpired returns true if the token has expired relative to now.
func (t *RefreshToken) IsExpired(now time.Time) bool {
	return t.ExpiresAt.Before(now)
}

// Session is a signed-in identity as seen by long-lived components.
// Metadata carries the profile attributes ("name", "role", "department").
type Session struct {
	UserID      uuid.UUID
	Email       string
	AccessToken string
	Metadata    map[string]any
	IssuedAt    time.Time
}

// User derives the dashboard user from the session. Missing metadata falls back
// to staff role, the default department and the email as name.
func (s *Session) User() User {
	u := User{
		ID:         s.UserID,
		Email:      s.Email,
		Name:       s.Email,
		Role:       RoleStaff,
		Department: DefaultDepartment,
	}
	if v, ok := s.Metadata["name"].(string); ok && v != "" {
		u.Name = v
	}
	if v, ok := s.Metadata["role"].(string); ok {
		u.Role = ParseRole(v)
	}
	if v, ok := s.Metadata["department"].(string); ok && v != "" {
		u.Department = v
	}
	return u
}

// SessionMetadata builds session metadata from a user profile.
func SessionMetadata(u User) map[string]any {
	return map[string]any{
		"name":       u.Name,
		"role":       string(u.Role),
		"department": u.Department,
	}
}
