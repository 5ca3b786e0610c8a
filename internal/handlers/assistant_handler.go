package handlers

import (
	"net/http"

	"github.com/anonto42/eventpulse/backend/internal/assistant"
	"github.com/anonto42/eventpulse/backend/internal/middleware"
	"github.com/anonto42/eventpulse/backend/internal/models"
	"github.com/anonto42/eventpulse/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// AssistantHandler answers help-desk chat messages
type AssistantHandler struct {
	users  *services.UserService
	events *services.EventService
}

// NewAssistantHandler creates a new AssistantHandler
func NewAssistantHandler(users *services.UserService, events *services.EventService) *AssistantHandler {
	return &AssistantHandler{users: users, events: events}
}

func (h *AssistantHandler) RegisterAssistantRoutes(g *echo.Group) {
	g.POST("/ai/chat", h.Chat)
}

// Chat replies using the caller's profile when it can be loaded
func (h *AssistantHandler) Chat(c echo.Context) error {
	var req models.ChatRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	var ac assistant.Context
	if user, err := h.users.Get(ctx, middleware.CurrentUserID(c)); err == nil {
		ac.FirstName = user.FirstName
		ac.Location = user.Location
		if hosted, err := h.events.ListByCreator(ctx, user.ID.Hex()); err == nil {
			ac.HostedEvents = int64(len(hosted))
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"reply": assistant.Reply(req.Message, ac)})
}
