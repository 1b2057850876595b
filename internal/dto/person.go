package dto

// CreatePersonRequest adds a member to the rotation roster.
type CreatePersonRequest struct {
	Name  string  `json:"name" validate:"required,min=1,max=100"`
	Email *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone *string `json:"phone,omitempty" validate:"omitempty,max=32"`
}

// UpdatePersonRequest edits a roster member. Nil fields are left unchanged.
type UpdatePersonRequest struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,max=32"`
	IsActive *bool   `json:"is_active,omitempty"`
}

// MovePersonRequest shifts a member one slot in rotation order.
type MovePersonRequest struct {
	Direction string `json:"direction" validate:"required,oneof=up down"`
}

// DeletePersonResponse reports the cascade result.
type DeletePersonResponse struct {
	PersonID       string `json:"person_id"`
	RecordsRemoved int64  `json:"records_removed"`
}
