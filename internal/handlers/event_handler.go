package handlers

import (
	"net/http"
	"strconv"

	"github.com/anonto42/eventpulse/backend/internal/apperr"
	"github.com/anonto42/eventpulse/backend/internal/middleware"
	"github.com/anonto42/eventpulse/backend/internal/models"
	"github.com/anonto42/eventpulse/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// EventHandler handles HTTP requests related to events
type EventHandler struct {
	events   *services.EventService
	uploader PictureUploader
}

// NewEventHandler creates a new EventHandler
func NewEventHandler(events *services.EventService, uploader PictureUploader) *EventHandler {
	return &EventHandler{events: events, uploader: uploader}
}

// RegisterEventRoutes registers event routes. Static paths come before
// "/events/:id" so they are not captured as ids.
func (h *EventHandler) RegisterEventRoutes(g *echo.Group) {
	g.GET("/events", h.GetFeed)
	g.POST("/events", h.CreateEvent)
	g.POST("/events/verify", h.VerifyTicket)
	g.GET("/events/user/:userId", h.GetUserEvents)
	g.GET("/events/attending/:userId", h.GetAttending)
	g.GET("/events/following/:userId", h.GetFollowingFeed)
	g.GET("/events/:id", h.GetEvent)
	g.GET("/events/:id/guests", h.GetGuests)
	g.PATCH("/events/:id/join", h.ToggleJoin)
	g.PATCH("/events/:id/like", h.ToggleLike)
	g.POST("/events/:id/comments", h.AddComment)
	g.POST("/events/:id/reviews", h.AddReview)
	g.DELETE("/events/:id", h.DeleteEvent)
}

// GetFeed lists events page by page with optional search and category
func (h *EventHandler) GetFeed(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	result, err := h.events.Feed(c.Request().Context(), page, limit,
		c.QueryParam("search"), c.QueryParam("category"), c.QueryParam("sort"))
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, result)
}

// CreateEvent creates an event from a multipart form and returns every event
func (h *EventHandler) CreateEvent(c echo.Context) error {
	var req models.CreateEventRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	req.UserID = actingUser(c, req.UserID)

	picture, err := savePicture(c, h.uploader, "events")
	if err != nil {
		return err
	}

	events, err := h.events.Create(c.Request().Context(), req, picture)
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusCreated, events)
}

func (h *EventHandler) GetEvent(c echo.Context) error {
	event, err := h.events.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, event)
}

func (h *EventHandler) GetUserEvents(c echo.Context) error {
	events, err := h.events.ListByCreator(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, events)
}

func (h *EventHandler) GetAttending(c echo.Context) error {
	events, err := h.events.Attending(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, events)
}

func (h *EventHandler) GetFollowingFeed(c echo.Context) error {
	events, err := h.events.FollowingFeed(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, events)
}

func (h *EventHandler) GetGuests(c echo.Context) error {
	guests, err := h.events.Guests(c.Request().Context(), c.Param("id"))
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, guests)
}

// VerifyTicket answers with the verification body even when access is denied
func (h *EventHandler) VerifyTicket(c echo.Context) error {
	var req models.VerifyTicketRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	result, err := h.events.VerifyTicket(c.Request().Context(), req.EventID, req.UserID)
	if err != nil {
		return c.JSON(apperr.Status(err), result)
	}
	return c.JSON(http.StatusOK, result)
}

func (h *EventHandler) ToggleJoin(c echo.Context) error {
	var req models.JoinEventRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	event, err := h.events.ToggleJoin(c.Request().Context(), c.Param("id"), actingUser(c, req.UserID))
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, event)
}

func (h *EventHandler) ToggleLike(c echo.Context) error {
	var req models.LikeEventRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	event, err := h.events.ToggleLike(c.Request().Context(), c.Param("id"), actingUser(c, req.UserID))
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, event)
}

func (h *EventHandler) AddComment(c echo.Context) error {
	var req models.CommentRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	event, err := h.events.Comment(c.Request().Context(), c.Param("id"), actingUser(c, req.UserID), req.Text)
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, event)
}

func (h *EventHandler) AddReview(c echo.Context) error {
	var req models.ReviewRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	event, err := h.events.AddReview(c.Request().Context(), c.Param("id"), actingUser(c, req.UserID), req.Rating, req.Text)
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusCreated, event)
}

func (h *EventHandler) DeleteEvent(c echo.Context) error {
	if err := h.events.Delete(c.Request().Context(), c.Param("id"), middleware.CurrentUserID(c)); err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Event deleted successfully"})
}
