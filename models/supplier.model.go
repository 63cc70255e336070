package models

import (
	"net/mail"
	"strings"
	"time"
)

// Supplier represents a vendor in the supplier directory
type Supplier struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	Name      string    `bson:"name" json:"name"`
	Contact   string    `bson:"contact" json:"contact"`
	Email     string    `bson:"email,omitempty" json:"email,omitempty"`
	Phone     string    `bson:"phone,omitempty" json:"phone,omitempty"`
	Address   string    `bson:"address,omitempty" json:"address,omitempty"`
	Category  string    `bson:"category,omitempty" json:"category,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}

// Validate checks the supplier contract
func (s Supplier) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return invalid("name", "required")
	}
	if strings.TrimSpace(s.Contact) == "" {
		return invalid("contact", "required")
	}
	if s.Email != "" {
		if _, err := mail.ParseAddress(s.Email); err != nil {
			return invalid("email", "malformed address")
		}
	}
	return nil
}

// MatchesSearch is a case-insensitive match on name, contact and category
func (s Supplier) MatchesSearch(q string) bool {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(s.Name), q) ||
		strings.Contains(strings.ToLower(s.Contact), q) ||
		strings.Contains(strings.ToLower(s.Category), q)
}
