package http

import (
	"context"
	"encoding/json"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/config"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/observability"
	"github.com/spec-kit/helpdesk/internal/repository"
	"github.com/spec-kit/helpdesk/internal/service"
	"go.uber.org/zap"
)

type memUserRepo struct {
	users map[string]*domain.User
}

func (r *memUserRepo) Create(_ context.Context, user *domain.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *memUserRepo) Update(_ context.Context, user *domain.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *user
	return &copied, nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memUserRepo) List(_ context.Context, filter repository.UserFilter) ([]domain.User, error) {
	out := []domain.User{}
	for _, user := range r.users {
		if filter.Role != nil && user.Role != *filter.Role {
			continue
		}
		out = append(out, *user)
	}
	return out, nil
}

func (r *memUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.users, id)
	return nil
}

type memTicketRepo struct {
	tickets map[string]*domain.Ticket
}

func (r *memTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	r.tickets[ticket.ID] = ticket
	return nil
}

func (r *memTicketRepo) Update(_ context.Context, ticket *domain.Ticket) error {
	if _, ok := r.tickets[ticket.ID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *ticket
	r.tickets[ticket.ID] = &copied
	return nil
}

func (r *memTicketRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	ticket, ok := r.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *ticket
	return &copied, nil
}

func (r *memTicketRepo) ListWithFilter(_ context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	out := []domain.Ticket{}
	for _, ticket := range r.tickets {
		if filter.CustomerID != nil && ticket.CustomerID != *filter.CustomerID {
			continue
		}
		out = append(out, *ticket)
	}
	return out, nil
}

func (r *memTicketRepo) Delete(_ context.Context, id string) error {
	delete(r.tickets, id)
	return nil
}

func (r *memTicketRepo) CountByStatus(_ context.Context, _ repository.TicketFilter) ([]repository.StatusCount, error) {
	return nil, nil
}

func (r *memTicketRepo) CountByPriority(_ context.Context, _ repository.TicketFilter) ([]repository.PriorityCount, error) {
	return nil, nil
}

type memMessageRepo struct {
	messages []*domain.ChatMessage
	nextID   int
}

func (r *memMessageRepo) Create(_ context.Context, msg *domain.ChatMessage) error {
	r.nextID++
	msg.ID = "msg-" + string(rune('a'+r.nextID))
	copied := *msg
	r.messages = append(r.messages, &copied)
	return nil
}

func (r *memMessageRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.ChatMessage, error) {
	out := []domain.ChatMessage{}
	for _, msg := range r.messages {
		if msg.TicketID == ticketID {
			out = append(out, *msg)
		}
	}
	return out, nil
}

func (r *memMessageRepo) GetByID(_ context.Context, id string) (*domain.ChatMessage, error) {
	for _, msg := range r.messages {
		if msg.ID == id {
			copied := *msg
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memMessageRepo) Delete(_ context.Context, id string) error {
	for i, msg := range r.messages {
		if msg.ID == id {
			r.messages = append(r.messages[:i], r.messages[i+1:]...)
			return nil
		}
	}
	return pgx.ErrNoRows
}

type apiFixture struct {
	app     *fiber.App
	tokens  *auth.TokenManager
	tickets *memTicketRepo
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()

	users := &memUserRepo{users: map[string]*domain.User{
		"cust-1":  {ID: "cust-1", Name: "Cara", Email: "cara@example.com", Role: domain.RoleCustomer, Active: true},
		"cust-2":  {ID: "cust-2", Name: "Dana", Email: "dana@example.com", Role: domain.RoleCustomer, Active: true},
		"agent-1": {ID: "agent-1", Name: "Abe", Email: "abe@example.com", Role: domain.RoleAgent, Active: true},
		"admin-1": {ID: "admin-1", Name: "Ada", Email: "ada@example.com", Role: domain.RoleAdmin, Active: true},
	}}
	tickets := &memTicketRepo{tickets: map[string]*domain.Ticket{
		"t1": {ID: "t1", Title: "login broken", CustomerID: "cust-1", Status: domain.TicketStatusPending},
	}}
	messages := &memMessageRepo{}

	cfg := config.Config{
		Auth: config.AuthConfig{JWTSecret: "test-secret", AccessTokenTTLMinutes: 30, BcryptCost: 4},
	}
	dispatcher := events.NewInMemoryDispatcher()

	authService := service.NewAuthService(cfg, service.AuthDependencies{UserRepo: users})
	ticketService := service.NewTicketService(service.TicketDependencies{TicketRepo: tickets, Dispatcher: dispatcher})
	messageService := service.NewMessageService(service.MessageDependencies{
		TicketRepo:  tickets,
		MessageRepo: messages,
		Dispatcher:  dispatcher,
	})
	uploadService, err := service.NewUploadService(config.UploadConfig{Dir: t.TempDir(), MaxSizeBytes: 1 << 20}, nil)
	if err != nil {
		t.Fatalf("upload service: %v", err)
	}
	companyService := service.NewCompanyService(nil)
	userService := service.NewUserService(service.UserDependencies{
		UserRepo:   users,
		TicketRepo: tickets,
	})

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), users)
	logger := zap.NewNop()

	app := fiber.New()
	RegisterMiddlewares(app, logger, observability.NewMetrics(), "*", 0)
	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler(nil, nil),
		Auth:           handlers.NewAuthHandler(authService),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		Messages:       handlers.NewMessagesHandler(messageService, uploadService),
		Companies:      handlers.NewCompaniesHandler(companyService),
		Users:          handlers.NewUsersHandler(userService),
		AuthMiddleware: authMiddleware,
		UploadsDir:     uploadService.Dir(),
	})

	return &apiFixture{app: app, tokens: authService.TokenManager(), tickets: tickets}
}

func (f *apiFixture) tokenFor(t *testing.T, userID string, role domain.Role) string {
	t.Helper()
	token, _, err := f.tokens.GenerateToken(&domain.User{ID: userID, Role: role})
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return token
}

func (f *apiFixture) request(t *testing.T, method, path, token, body string) (*nethttp.Response, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := f.app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	var decoded map[string]interface{}
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &decoded)
	}
	return resp, decoded
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	f := newAPIFixture(t)

	resp, body := f.request(t, "GET", "/api/tickets/t1/messages", "", "")
	if resp.StatusCode != nethttp.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
	errObj, _ := body["error"].(map[string]interface{})
	if errObj["code"] != "UNAUTHORIZED" {
		t.Fatalf("error body = %v", body)
	}
}

func TestOwnerReplyReopensTicketOverHTTP(t *testing.T) {
	f := newAPIFixture(t)
	token := f.tokenFor(t, "cust-1", domain.RoleCustomer)

	resp, body := f.request(t, "POST", "/api/tickets/t1/messages", token, `{"message":"still broken"}`)
	if resp.StatusCode != nethttp.StatusCreated {
		t.Fatalf("status = %d, want 201 (body %v)", resp.StatusCode, body)
	}
	data := body["data"].(map[string]interface{})
	if data["message"] != "still broken" {
		t.Fatalf("message body = %v", data["message"])
	}
	sender, _ := data["sender"].(map[string]interface{})
	if sender["id"] != "cust-1" {
		t.Fatalf("sender = %v", sender)
	}

	stored := f.tickets.tickets["t1"]
	if stored.Status != domain.TicketStatusOpen {
		t.Fatalf("ticket status = %s, want open after owner reply", stored.Status)
	}
}

func TestForeignCustomerGetsForbidden(t *testing.T) {
	f := newAPIFixture(t)
	token := f.tokenFor(t, "cust-2", domain.RoleCustomer)

	resp, body := f.request(t, "GET", "/api/tickets/t1/messages", token, "")
	if resp.StatusCode != nethttp.StatusForbidden {
		t.Fatalf("status = %d, want 403", resp.StatusCode)
	}
	errObj := body["error"].(map[string]interface{})
	if errObj["code"] != "FORBIDDEN" {
		t.Fatalf("error body = %v", body)
	}
}

func TestAgentReadsAnyThread(t *testing.T) {
	f := newAPIFixture(t)
	custToken := f.tokenFor(t, "cust-1", domain.RoleCustomer)
	agentToken := f.tokenFor(t, "agent-1", domain.RoleAgent)

	f.request(t, "POST", "/api/tickets/t1/messages", custToken, `{"message":"hello"}`)

	resp, body := f.request(t, "GET", "/api/tickets/t1/messages", agentToken, "")
	if resp.StatusCode != nethttp.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	items := body["data"].([]interface{})
	if len(items) != 1 {
		t.Fatalf("thread has %d messages, want 1", len(items))
	}
}

func TestMessageDeleteIsRoleGated(t *testing.T) {
	f := newAPIFixture(t)
	custToken := f.tokenFor(t, "cust-1", domain.RoleCustomer)
	agentToken := f.tokenFor(t, "agent-1", domain.RoleAgent)

	_, created := f.request(t, "POST", "/api/tickets/t1/messages", custToken, `{"message":"remove me"}`)
	msgID := created["data"].(map[string]interface{})["id"].(string)

	resp, _ := f.request(t, "DELETE", "/api/messages/"+msgID, custToken, "")
	if resp.StatusCode != nethttp.StatusForbidden {
		t.Fatalf("customer delete status = %d, want 403", resp.StatusCode)
	}

	resp, _ = f.request(t, "DELETE", "/api/messages/"+msgID, agentToken, "")
	if resp.StatusCode != nethttp.StatusOK {
		t.Fatalf("agent delete status = %d, want 200", resp.StatusCode)
	}
}

func TestTicketDeleteIsAdminOnly(t *testing.T) {
	f := newAPIFixture(t)
	agentToken := f.tokenFor(t, "agent-1", domain.RoleAgent)

	resp, _ := f.request(t, "DELETE", "/api/tickets/t1", agentToken, "")
	if resp.StatusCode != nethttp.StatusForbidden {
		t.Fatalf("agent ticket delete status = %d, want 403", resp.StatusCode)
	}
}

func TestUserDirectoryIsStaffOnly(t *testing.T) {
	f := newAPIFixture(t)
	custToken := f.tokenFor(t, "cust-1", domain.RoleCustomer)
	agentToken := f.tokenFor(t, "agent-1", domain.RoleAgent)

	resp, _ := f.request(t, "GET", "/api/users", custToken, "")
	if resp.StatusCode != nethttp.StatusForbidden {
		t.Fatalf("customer list status = %d, want 403", resp.StatusCode)
	}

	resp, body := f.request(t, "GET", "/api/users?role=customer", agentToken, "")
	if resp.StatusCode != nethttp.StatusOK {
		t.Fatalf("agent list status = %d, want 200", resp.StatusCode)
	}
	items := body["data"].([]interface{})
	if len(items) != 2 {
		t.Fatalf("customer listing has %d entries, want 2", len(items))
	}
	for _, item := range items {
		if item.(map[string]interface{})["role"] != "customer" {
			t.Fatalf("non-customer in filtered listing: %v", item)
		}
	}
}

func TestUserAdminEditIsAdminOnly(t *testing.T) {
	f := newAPIFixture(t)
	agentToken := f.tokenFor(t, "agent-1", domain.RoleAgent)
	adminToken := f.tokenFor(t, "admin-1", domain.RoleAdmin)

	resp, _ := f.request(t, "PUT", "/api/users/cust-1", agentToken, `{"role":"agent"}`)
	if resp.StatusCode != nethttp.StatusForbidden {
		t.Fatalf("agent edit status = %d, want 403", resp.StatusCode)
	}

	resp, body := f.request(t, "PUT", "/api/users/cust-1", adminToken, `{"role":"agent","is_active":false}`)
	if resp.StatusCode != nethttp.StatusOK {
		t.Fatalf("admin edit status = %d, want 200 (body %v)", resp.StatusCode, body)
	}
	data := body["data"].(map[string]interface{})
	if data["role"] != "agent" {
		t.Fatalf("role after edit = %v", data["role"])
	}
}

func TestUserProfileUpdateOverHTTP(t *testing.T) {
	f := newAPIFixture(t)
	custToken := f.tokenFor(t, "cust-1", domain.RoleCustomer)

	resp, body := f.request(t, "PUT", "/api/users/profile", custToken, `{"name":"Cara Updated"}`)
	if resp.StatusCode != nethttp.StatusOK {
		t.Fatalf("profile update status = %d, want 200 (body %v)", resp.StatusCode, body)
	}
	data := body["data"].(map[string]interface{})
	if data["name"] != "Cara Updated" {
		t.Fatalf("name after update = %v", data["name"])
	}
	// Self-service must not escalate role.
	if data["role"] != "customer" {
		t.Fatalf("role after profile update = %v", data["role"])
	}
}

func TestUserTicketsListing(t *testing.T) {
	f := newAPIFixture(t)
	agentToken := f.tokenFor(t, "agent-1", domain.RoleAgent)

	resp, body := f.request(t, "GET", "/api/users/cust-1/tickets", agentToken, "")
	if resp.StatusCode != nethttp.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	items := body["data"].([]interface{})
	if len(items) != 1 {
		t.Fatalf("cust-1 has %d tickets in listing, want 1", len(items))
	}

	resp, _ = f.request(t, "GET", "/api/users/nobody/tickets", agentToken, "")
	if resp.StatusCode != nethttp.StatusNotFound {
		t.Fatalf("unknown user status = %d, want 404", resp.StatusCode)
	}
}

func TestHealthLive(t *testing.T) {
	f := newAPIFixture(t)
	resp, body := f.request(t, "GET", "/health/live", "", "")
	if resp.StatusCode != nethttp.StatusOK || body["status"] != "ok" {
		t.Fatalf("live = %d %v", resp.StatusCode, body)
	}
}
