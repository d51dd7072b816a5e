package models

import (
	"strings"
	"time"
)

// Role is the single role switch consulted by the authorization predicate.
type Role string

const (
	RoleParent   Role = "parent"
	RoleProvider Role = "provider"
)

// ParseRole maps a session role name onto a Role.
func ParseRole(name string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(name))) {
	case RoleParent:
		return RoleParent, true
	case RoleProvider:
		return RoleProvider, true
	}
	return "", false
}

// IsProvider reports whether the role is a healthcare provider.
func (r Role) IsProvider() bool {
	return r == RoleProvider
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleParent || r == RoleProvider
}

// Actor is the resolved identity performing a request.
type Actor struct {
	ID   string `json:"id"`
	Role Role   `json:"role"`
	Name string `json:"name,omitempty"`
}

// IsProvider reports whether the actor is a healthcare provider.
func (a Actor) IsProvider() bool {
	return a.Role.IsProvider()
}

// SubjectID is the child subject owned by a parent actor; providers own none.
func (a Actor) SubjectID() string {
	if a.IsProvider() {
		return ""
	}
	return a.ID
}

// User is the registry of known identities. A parent's id is also its child's subject id.
type User struct {
	UserID    string `gorm:"primaryKey;size:64"`
	Name      string `gorm:"size:255"`
	Role      Role   `gorm:"size:16;not null;index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName overrides the table name for User
func (User) TableName() string {
	return "users"
}

// DisplayName returns the name, falling back to the id.
func (u User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.UserID
}

// Actor converts the registry row into an Actor.
func (u User) Actor() Actor {
	return Actor{ID: u.UserID, Role: u.Role, Name: u.Name}
}
