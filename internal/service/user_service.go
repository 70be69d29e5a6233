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

// userTicketsLimit caps the per-user ticket listing, matching the admin view
// it feeds.
const userTicketsLimit = 50

// UserService manages user accounts beyond self-registration: the staff
// directory, admin edits, and profile updates by the user themselves.
type UserService struct {
	users   repository.UserRepository
	tickets repository.TicketRepository
}

// UserDependencies bundles repositories for the user service.
type UserDependencies struct {
	UserRepo   repository.UserRepository
	TicketRepo repository.TicketRepository
}

// UserListInput describes directory listing filters.
type UserListInput struct {
	Role       *domain.Role
	CompanyID  *string
	SearchTerm *string
	Limit      int
	Offset     int
}

// UserUpdateInput carries admin-editable fields; nil means unchanged.
type UserUpdateInput struct {
	Name      *string
	Email     *string
	Role      *domain.Role
	CompanyID *string
	Phone     *string
	Active    *bool
}

// ProfileInput carries the fields a user may change on their own account.
type ProfileInput struct {
	Name  *string
	Phone *string
}

// NewUserService constructs the service.
func NewUserService(deps UserDependencies) *UserService {
	return &UserService{
		users:   deps.UserRepo,
		tickets: deps.TicketRepo,
	}
}

// List returns users matching the filter, newest first.
func (s *UserService) List(ctx context.Context, input UserListInput) ([]domain.User, error) {
	if input.Role != nil && !input.Role.Valid() {
		return nil, apperrors.NewValidationError("unknown role", map[string]any{"role": *input.Role})
	}
	users, err := s.users.List(ctx, repository.UserFilter{
		Role:       input.Role,
		CompanyID:  input.CompanyID,
		SearchTerm: input.SearchTerm,
		Limit:      input.Limit,
		Offset:     input.Offset,
	})
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []domain.User{}
	}
	return users, nil
}

// Get fetches a single user.
func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user")
		}
		return nil, err
	}
	return user, nil
}

// Tickets returns the tickets the user opened, newest first.
func (s *UserService) Tickets(ctx context.Context, userID string) ([]domain.Ticket, error) {
	if _, err := s.Get(ctx, userID); err != nil {
		return nil, err
	}
	tickets, err := s.tickets.ListWithFilter(ctx, repository.TicketFilter{
		CustomerID: &userID,
		Limit:      userTicketsLimit,
	})
	if err != nil {
		return nil, err
	}
	if tickets == nil {
		tickets = []domain.Ticket{}
	}
	return tickets, nil
}

// Update applies admin edits to a user record. The admin gate is at the
// router; the service validates field values.
func (s *UserService) Update(ctx context.Context, id string, input UserUpdateInput) (*domain.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperrors.NewValidationError("name cannot be empty", nil)
		}
		user.Name = name
	}
	if input.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*input.Email))
		if email == "" {
			return nil, apperrors.NewValidationError("email cannot be empty", nil)
		}
		if existing, err := s.users.GetByEmail(ctx, email); err == nil && existing.ID != user.ID {
			return nil, apperrors.NewConflict("email already registered", nil)
		} else if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		user.Email = email
	}
	if input.Role != nil {
		if !input.Role.Valid() {
			return nil, apperrors.NewValidationError("unknown role", map[string]any{"role": *input.Role})
		}
		user.Role = *input.Role
	}
	if input.CompanyID != nil {
		if *input.CompanyID == "" {
			user.CompanyID = nil
		} else {
			user.CompanyID = input.CompanyID
		}
	}
	if input.Phone != nil {
		user.Phone = *input.Phone
	}
	if input.Active != nil {
		user.Active = *input.Active
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateProfile lets the authenticated user change their own display fields.
// Role, email and active flag stay admin-only.
func (s *UserService) UpdateProfile(ctx context.Context, actor *domain.User, input ProfileInput) (*domain.User, error) {
	user, err := s.Get(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperrors.NewValidationError("name cannot be empty", nil)
		}
		user.Name = name
	}
	if input.Phone != nil {
		user.Phone = *input.Phone
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Delete removes a user. Self-deletion is rejected.
func (s *UserService) Delete(ctx context.Context, actor *domain.User, id string) error {
	if actor != nil && actor.ID == id {
		return apperrors.NewValidationError("cannot delete your own account", nil)
	}
	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("user")
		}
		return err
	}
	return nil
}
