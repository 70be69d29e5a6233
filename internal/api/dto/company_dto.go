package dto

import (
	"time"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// CompanyRequest payload for create/update.
type CompanyRequest struct {
	Name     string             `json:"name"`
	Email    string             `json:"email"`
	Phone    string             `json:"phone"`
	Address  string             `json:"address"`
	Website  string             `json:"website"`
	Industry string             `json:"industry"`
	Size     domain.CompanySize `json:"size"`
	Active   *bool              `json:"is_active"`
}

// CompanyResponse is the API projection of a company.
type CompanyResponse struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Email     string             `json:"email"`
	Phone     string             `json:"phone,omitempty"`
	Address   string             `json:"address,omitempty"`
	Website   string             `json:"website,omitempty"`
	Industry  string             `json:"industry,omitempty"`
	Size      domain.CompanySize `json:"size,omitempty"`
	Active    bool               `json:"is_active"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// NewCompanyResponse projects a domain company.
func NewCompanyResponse(company *domain.Company) CompanyResponse {
	return CompanyResponse{
		ID:        company.ID,
		Name:      company.Name,
		Email:     company.Email,
		Phone:     company.Phone,
		Address:   company.Address,
		Website:   company.Website,
		Industry:  company.Industry,
		Size:      company.Size,
		Active:    company.Active,
		CreatedAt: company.CreatedAt,
		UpdatedAt: company.UpdatedAt,
	}
}
