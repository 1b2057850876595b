package models

import "time"

// Person is a member of the duty rotation roster.
type Person struct {
	ID         string    `db:"id" json:"id"`
	Name       string    `db:"name" json:"name"`
	OrderIndex int       `db:"order_index" json:"order_index"`
	IsActive   bool      `db:"is_active" json:"is_active"`
	Email      *string   `db:"email" json:"email,omitempty"`
	Phone      *string   `db:"phone" json:"phone,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// PersonFilter narrows down roster listings.
type PersonFilter struct {
	ActiveOnly bool
	Search     string
	Page       int
	PageSize   int
}
