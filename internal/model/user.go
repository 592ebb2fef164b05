package model

import "time"

// User mirrors the `users` table.  The reservation engine itself only
// consumes the ID; name and email are exposed through the booking
// listing as the requester's display identity.
type User struct {
	ID           uint64    // users.id
	Name         string    // users.name
	Email        string    // users.email
	PasswordHash string    // users.password_hash (bcrypt)
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}

// UserInfo is the public display record of a user.
type UserInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// RefreshToken models a row of the `refresh_tokens` table.  Only the
// SHA-256 hash of the raw token is persisted.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
