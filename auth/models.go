package auth

import "time"

type Role string

const (
	RoleUser      Role = "user"
	RoleAuthority Role = "authority"
	RoleAdmin     Role = "admin"
)

// IsAuthority reports whether the role speaks with official authority
// (used to flag authority-issued broadcasts).
func (r Role) IsAuthority() bool {
	return r == RoleAdmin || r == RoleAuthority
}

// Account is the domain representation of a registered identity.
// It mirrors the accounts table and should not include JSON annotations so it
// can be reused by different presentation layers.
type Account struct {
	ID           string
	Name         string
	Email        string
	PhoneNumber  string
	Location     *string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// RegisterRequest contains account registration data supplied by callers.
type RegisterRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	PhoneNumber string `json:"phoneNumber"`
}

// LoginRequest contains login credentials.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ProfileUpdate carries the optional profile fields; nil means leave unchanged.
// Password is carried only so the service can reject attempts to change it
// through the profile path.
type ProfileUpdate struct {
	Name        *string `json:"name"`
	Email       *string `json:"email"`
	PhoneNumber *string `json:"phoneNumber"`
	Location    *string `json:"location"`
	Password    *string `json:"password"`
}
