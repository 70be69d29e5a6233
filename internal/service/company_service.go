package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/repository"
	apperrors "github.com/spec-kit/helpdesk/pkg/util/errorutil"
)

// CompanyService manages company records. Mutation is admin-gated at the
// router; the service validates fields.
type CompanyService struct {
	companies repository.CompanyRepository
}

// CompanyInput describes create/update payloads.
type CompanyInput struct {
	Name     string
	Email    string
	Phone    string
	Address  string
	Website  string
	Industry string
	Size     domain.CompanySize
	Active   *bool
}

// NewCompanyService constructs the service.
func NewCompanyService(companies repository.CompanyRepository) *CompanyService {
	return &CompanyService{companies: companies}
}

// Create adds a company.
func (s *CompanyService) Create(ctx context.Context, input CompanyInput) (*domain.Company, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if name == "" || email == "" {
		return nil, apperrors.NewValidationError("name and email required", nil)
	}

	company := &domain.Company{
		Name:     name,
		Email:    email,
		Phone:    input.Phone,
		Address:  input.Address,
		Website:  input.Website,
		Industry: input.Industry,
		Size:     input.Size,
		Active:   true,
	}
	if err := s.companies.Create(ctx, company); err != nil {
		return nil, err
	}
	return company, nil
}

// Get fetches a company by id.
func (s *CompanyService) Get(ctx context.Context, id string) (*domain.Company, error) {
	company, err := s.companies.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("company")
		}
		return nil, err
	}
	return company, nil
}

// List returns companies, paginated.
func (s *CompanyService) List(ctx context.Context, limit, offset int) ([]domain.Company, error) {
	companies, err := s.companies.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	if companies == nil {
		companies = []domain.Company{}
	}
	return companies, nil
}

// Update applies non-empty field changes.
func (s *CompanyService) Update(ctx context.Context, id string, input CompanyInput) (*domain.Company, error) {
	company, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if name := strings.TrimSpace(input.Name); name != "" {
		company.Name = name
	}
	if email := strings.ToLower(strings.TrimSpace(input.Email)); email != "" {
		company.Email = email
	}
	if input.Phone != "" {
		company.Phone = input.Phone
	}
	if input.Address != "" {
		company.Address = input.Address
	}
	if input.Website != "" {
		company.Website = input.Website
	}
	if input.Industry != "" {
		company.Industry = input.Industry
	}
	if input.Size != "" {
		company.Size = input.Size
	}
	if input.Active != nil {
		company.Active = *input.Active
	}
	if err := s.companies.Update(ctx, company); err != nil {
		return nil, err
	}
	return company, nil
}

// Delete removes a company.
func (s *CompanyService) Delete(ctx context.Context, id string) error {
	if err := s.companies.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("company")
		}
		return err
	}
	return nil
}
