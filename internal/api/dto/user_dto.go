package dto

import "github.com/spec-kit/helpdesk/internal/domain"

// UpdateUserRequest carries admin edits; nil fields stay unchanged.
type UpdateUserRequest struct {
	Name      *string      `json:"name"`
	Email     *string      `json:"email"`
	Role      *domain.Role `json:"role"`
	CompanyID *string      `json:"company_id"`
	Phone     *string      `json:"phone"`
	Active    *bool        `json:"is_active"`
}

// UpdateProfileRequest carries the self-service profile fields.
type UpdateProfileRequest struct {
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
}
