package handlers

import (
	"net/http"
	"time"

	"github.com/anonto42/eventpulse/backend/internal/apperr"
	"github.com/anonto42/eventpulse/backend/internal/auth"
	"github.com/anonto42/eventpulse/backend/internal/chat"
	"github.com/anonto42/eventpulse/backend/internal/logging"
	"github.com/anonto42/eventpulse/backend/internal/repositories"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

// ChatHandler serves event chat history and the realtime socket
type ChatHandler struct {
	hub            *chat.Hub
	messages       repositories.MessageRepository
	tokens         *auth.TokenIssuer
	allowedOrigins []string
}

// NewChatHandler creates a new ChatHandler
func NewChatHandler(hub *chat.Hub, messages repositories.MessageRepository, tokens *auth.TokenIssuer, allowedOrigins []string) *ChatHandler {
	return &ChatHandler{hub: hub, messages: messages, tokens: tokens, allowedOrigins: allowedOrigins}
}

// RegisterChatRoutes registers the history route on the protected group
func (h *ChatHandler) RegisterChatRoutes(g *echo.Group) {
	g.GET("/messages/:eventId", h.GetMessages)
}

// GetMessages returns the chat history of an event, oldest first
func (h *ChatHandler) GetMessages(c echo.Context) error {
	messages, err := h.messages.ListByEvent(c.Request().Context(), c.Param("eventId"))
	if err != nil {
		return apperr.HTTP(apperr.Internal(err))
	}
	return c.JSON(http.StatusOK, messages)
}

// ServeWS upgrades to a websocket and hands the connection to the hub. An
// optional ?token= identifies the sender.
func (h *ChatHandler) ServeWS(c echo.Context) error {
	var userID string
	if token := c.QueryParam("token"); token != "" {
		claims, err := h.tokens.Parse(token)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
		}
		userID = claims.UserID
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		CheckOrigin:      h.checkOrigin,
		HandshakeTimeout: 10 * time.Second,
	}
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		logging.Warn().Err(err).Msg("websocket upgrade failed")
		return nil
	}
	h.hub.Serve(conn, userID)
	return nil
}

func (h *ChatHandler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range h.allowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	logging.Warn().Str("origin", origin).Msg("websocket connection rejected from unauthorized origin")
	return false
}
