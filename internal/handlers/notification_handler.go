package handlers

import (
	"net/http"

	"github.com/anonto42/eventpulse/backend/internal/apperr"
	"github.com/anonto42/eventpulse/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// NotificationHandler handles notification-related HTTP requests
type NotificationHandler struct {
	users *services.UserService
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(users *services.UserService) *NotificationHandler {
	return &NotificationHandler{users: users}
}

// RegisterNotificationRoutes registers notification routes
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group) {
	g.GET("/notifications/:userId", h.GetNotifications)
	g.PATCH("/notifications/:userId/read", h.MarkAllAsRead)
}

// GetNotifications lists a user's notifications, newest first
func (h *NotificationHandler) GetNotifications(c echo.Context) error {
	notifications, err := h.users.Notifications(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, notifications)
}

func (h *NotificationHandler) MarkAllAsRead(c echo.Context) error {
	if err := h.users.MarkNotificationsRead(c.Request().Context(), c.Param("userId")); err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "All marked as read"})
}
