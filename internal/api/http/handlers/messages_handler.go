package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/api/dto"
	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/service"
	apperrors "github.com/spec-kit/helpdesk/pkg/util/errorutil"
)

// MessagesHandler exposes the ticket conversation endpoints.
type MessagesHandler struct {
	messages *service.MessageService
	uploads  *service.UploadService
}

// NewMessagesHandler constructs handler.
func NewMessagesHandler(messages *service.MessageService, uploads *service.UploadService) *MessagesHandler {
	return &MessagesHandler{messages: messages, uploads: uploads}
}

// List GET /api/tickets/:ticketId/messages.
func (h *MessagesHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	msgs, err := h.messages.List(c.Context(), principal, c.Params("ticketId"))
	if err != nil {
		return err
	}
	items := make([]dto.MessageResponse, 0, len(msgs))
	for i := range msgs {
		items = append(items, dto.NewMessageResponse(&msgs[i]))
	}
	return c.JSON(fiber.Map{"count": len(items), "data": items})
}

// Send POST /api/tickets/:ticketId/messages.
func (h *MessagesHandler) Send(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.SendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	msg, err := h.messages.Send(c.Context(), principal, c.Params("ticketId"), req.Message, req.Attachments)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewMessageResponse(msg)})
}

// Upload POST /api/tickets/:ticketId/messages/upload.
func (h *MessagesHandler) Upload(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	// Same room access rule as posting a message.
	if err := h.messages.Authorize(c.Context(), principal, c.Params("ticketId")); err != nil {
		return err
	}
	file, err := c.FormFile("file")
	if err != nil {
		return apperrors.NewValidationError("no file uploaded", nil)
	}
	fileURL, err := h.uploads.Store(file)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.UploadResponse{FileURL: fileURL}})
}

// Delete DELETE /api/messages/:id.
func (h *MessagesHandler) Delete(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.messages.Delete(c.Context(), principal, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{}})
}
