package auth

import "time"

// User is an account that can own galaxies. Accounts are created on
// first OAuth login and keyed by the provider's stable subject ID.
type User struct {
	ID          int       `json:"id"`
	Subject     string    `json:"-"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	Role        string    `json:"role"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// UserInfo is the identity document returned by the OAuth provider's
// userinfo endpoint.
type UserInfo struct {
	Subject           string `json:"sub"`
	Name              string `json:"name"`
	PreferredUsername string `json:"preferred_username"`
	Email             string `json:"email"`
	EmailVerified     bool   `json:"email_verified"`
}
