package http

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/realtime"
	apperrors "github.com/spec-kit/helpdesk/pkg/util/errorutil"
)

const wsPrincipalKey = "ws_principal"

// WSHandler upgrades authenticated connections into realtime sessions.
type WSHandler struct {
	authMiddleware *auth.AuthMiddleware
	hub            *realtime.Hub
	gateway        realtime.Gateway
	logger         *zap.Logger
}

// NewWSHandler constructs the websocket handler.
func NewWSHandler(authMiddleware *auth.AuthMiddleware, hub *realtime.Hub, gateway realtime.Gateway, logger *zap.Logger) *WSHandler {
	return &WSHandler{
		authMiddleware: authMiddleware,
		hub:            hub,
		gateway:        gateway,
		logger:         logger,
	}
}

// Register mounts the /ws endpoint. Browsers cannot set headers on websocket
// handshakes, so the token rides in a query parameter and is verified before
// the upgrade.
func (h *WSHandler) Register(app *fiber.App) {
	app.Use("/ws", func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		token := c.Query("token")
		if token == "" {
			return apperrors.NewUnauthorized("missing token")
		}
		user, err := h.authMiddleware.Authenticate(c, token)
		if err != nil {
			return err
		}
		c.Locals(wsPrincipalKey, user)
		return c.Next()
	})

	app.Get("/ws", websocket.New(func(conn *websocket.Conn) {
		user, ok := conn.Locals(wsPrincipalKey).(*domain.User)
		if !ok {
			_ = conn.Close()
			return
		}
		h.logger.Info("socket connected", zap.String("user_id", user.ID))
		session := realtime.NewSession(user, conn, h.hub, h.gateway, h.logger)
		session.Run()
		h.logger.Info("socket disconnected", zap.String("user_id", user.ID))
	}))
}
