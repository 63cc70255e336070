package models

import (
	"net/mail"
	"strings"
	"time"
)

// Staff roles
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleCashier = "cashier"
)

// User represents a staff member who can sign in
type User struct {
	ID        string    `bson:"_id,omitempty" json:"id,omitempty"`
	Name      string    `bson:"name" json:"name"`
	Email     string    `bson:"email" json:"email"`
	Password  string    `bson:"password,omitempty" json:"-"`
	Role      string    `bson:"role" json:"role"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}

// ValidRole reports whether role is a known staff role
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleManager || role == RoleCashier
}

// Validate checks the user contract
func (u User) Validate() error {
	if strings.TrimSpace(u.Name) == "" {
		return invalid("name", "required")
	}
	if _, err := mail.ParseAddress(u.Email); err != nil {
		return invalid("email", "malformed address")
	}
	if !ValidRole(u.Role) {
		return invalid("role", "must be admin, manager or cashier")
	}
	return nil
}
