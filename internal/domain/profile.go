package domain

import "time"

// Profile shares its id with the auth identity. It is created lazily on first
// profile read and patched best-effort from checkout data.
type Profile struct {
	ID        string    `json:"id"`
	FullName  string    `json:"fullName,omitempty"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	IsAdmin   bool      `json:"isAdmin"`
	CreatedAt time.Time `json:"createdAt"`
}
