package model

import "time"

// Role is the access level stored on a user.  Only the two values below
// are valid; the directory rejects anything else.
type Role string

const (
	RoleUser  Role = "user"  // default role assigned at registration
	RoleAdmin Role = "admin" // elevated role, assigned out of band
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// RoleSet is the set of roles allowed through a RestrictTo gate.
type RoleSet map[Role]struct{}

// Roles builds a RoleSet from the given roles.
func Roles(roles ...Role) RoleSet {
	s := make(RoleSet, len(roles))
	for _, r := range roles {
		s[r] = struct{}{}
	}
	return s
}

// Has reports whether r is a member of the set.
func (s RoleSet) Has(r Role) bool {
	_, ok := s[r]
	return ok
}

// User represents an account as stored in the user directory.  The json
// tags describe the externally visible shape: PasswordHash is never
// serialized.
//
// Fields:
//  ID           – opaque identifier assigned by the store on insert.
//  Username     – unique, trimmed, 3 to 30 characters.
//  Email        – unique, trimmed and lower-cased.
//  PasswordHash – bcrypt hash of the password.
//  Role         – user or admin.
//  IsActive     – stored, currently not enforced by any flow.
//  LastLogin    – stored, currently not written by any flow.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           string     `json:"id"`
	Username     string     `json:"username" validate:"required,min=3,max=30"`
	Email        string     `json:"email" validate:"required,basicemail"`
	PasswordHash string     `json:"-" validate:"required"`
	Role         Role       `json:"role" validate:"required,oneof=user admin"`
	IsActive     bool       `json:"isActive"`
	LastLogin    *time.Time `json:"lastLogin"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// UserSummary is the short user view returned by register and login.
type UserSummary struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Summary returns the short view of u.
func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Username: u.Username, Email: u.Email}
}
