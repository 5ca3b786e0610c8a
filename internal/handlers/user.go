package handlers

import (
	"net/http"

	"github.com/anonto42/eventpulse/backend/internal/apperr"
	"github.com/anonto42/eventpulse/backend/internal/middleware"
	"github.com/anonto42/eventpulse/backend/internal/models"
	"github.com/anonto42/eventpulse/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// UserHandler handles profile, follow graph and bookmark requests
type UserHandler struct {
	users           *services.UserService
	recommendations *services.RecommendationService
	uploader        PictureUploader
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(users *services.UserService, recommendations *services.RecommendationService, uploader PictureUploader) *UserHandler {
	return &UserHandler{users: users, recommendations: recommendations, uploader: uploader}
}

// RegisterUserRoutes registers user routes. adminOnly guards account deletion.
func (h *UserHandler) RegisterUserRoutes(g *echo.Group, adminOnly echo.MiddlewareFunc) {
	g.GET("/users", h.GetUsers)
	g.GET("/users/:id", h.GetUser)
	g.PATCH("/users/:id", h.UpdateUser)
	g.DELETE("/users/:id", h.DeleteUser, adminOnly)
	g.PATCH("/users/:id/follow/:targetId", h.ToggleFollow)
	g.GET("/users/:id/recommendations", h.GetRecommendations)
	g.GET("/users/:id/bookmarks", h.GetBookmarks)
	g.PATCH("/users/:id/bookmark/:eventId", h.ToggleBookmark)
}

func (h *UserHandler) GetUser(c echo.Context) error {
	user, err := h.users.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *UserHandler) GetUsers(c echo.Context) error {
	users, err := h.users.List(c.Request().Context())
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, users)
}

// UpdateUser edits the caller's own profile
func (h *UserHandler) UpdateUser(c echo.Context) error {
	id := c.Param("id")
	if id != middleware.CurrentUserID(c) {
		return echo.NewHTTPError(http.StatusForbidden, "You can only edit your own profile")
	}

	var req models.UpdateUserRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	picture, err := savePicture(c, h.uploader, "profiles")
	if err != nil {
		return err
	}

	user, err := h.users.Update(c.Request().Context(), id, req, picture)
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *UserHandler) DeleteUser(c echo.Context) error {
	if err := h.users.Delete(c.Request().Context(), c.Param("id"), middleware.CurrentUserID(c)); err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "User and their events deleted."})
}

// ToggleFollow returns the caller's following list after the toggle
func (h *UserHandler) ToggleFollow(c echo.Context) error {
	following, err := h.users.ToggleFollow(c.Request().Context(), c.Param("id"), c.Param("targetId"))
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, following)
}

func (h *UserHandler) GetRecommendations(c echo.Context) error {
	rec, err := h.recommendations.Recommend(c.Request().Context(), c.Param("id"))
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, rec)
}

func (h *UserHandler) GetBookmarks(c echo.Context) error {
	events, err := h.users.Bookmarks(c.Request().Context(), c.Param("id"))
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, events)
}

func (h *UserHandler) ToggleBookmark(c echo.Context) error {
	bookmarks, err := h.users.ToggleBookmark(c.Request().Context(), c.Param("id"), c.Param("eventId"))
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, bookmarks)
}
