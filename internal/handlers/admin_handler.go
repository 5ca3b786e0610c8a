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

// AdminHandler serves the moderation dashboard
type AdminHandler struct {
	admin *services.AdminService
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(admin *services.AdminService) *AdminHandler {
	return &AdminHandler{admin: admin}
}

// RegisterAdminRoutes registers admin routes. Filing a report is open to
// any authenticated user; everything else passes through adminOnly.
func (h *AdminHandler) RegisterAdminRoutes(g *echo.Group, adminOnly echo.MiddlewareFunc) {
	g.POST("/admin/report", h.CreateReport)

	a := g.Group("/admin", adminOnly)
	a.GET("/stats", h.GetStats)
	a.GET("/events", h.GetEvents)
	a.POST("/broadcast", h.Broadcast)
	a.GET("/reports", h.GetReports)
	a.PATCH("/reports/:id", h.ResolveReport)
	a.GET("/logs", h.GetLogs)
	a.GET("/transactions", h.GetTransactions)
}

func (h *AdminHandler) GetStats(c echo.Context) error {
	stats, err := h.admin.Stats(c.Request().Context())
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, stats)
}

func (h *AdminHandler) GetEvents(c echo.Context) error {
	events, err := h.admin.Events(c.Request().Context())
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, events)
}

func (h *AdminHandler) Broadcast(c echo.Context) error {
	var req models.BroadcastRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.admin.Broadcast(c.Request().Context(), middleware.CurrentUserID(c), req.Title, req.Message); err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Broadcast sent successfully"})
}

func (h *AdminHandler) CreateReport(c echo.Context) error {
	var req models.CreateReportRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.admin.Report(c.Request().Context(), req); err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "Report submitted"})
}

func (h *AdminHandler) GetReports(c echo.Context) error {
	reports, err := h.admin.PendingReports(c.Request().Context())
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, reports)
}

func (h *AdminHandler) ResolveReport(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid report ID")
	}
	if err := h.admin.ResolveReport(c.Request().Context(), middleware.CurrentUserID(c), uint(id)); err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Report resolved"})
}

func (h *AdminHandler) GetLogs(c echo.Context) error {
	logs, err := h.admin.Logs(c.Request().Context())
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, logs)
}

func (h *AdminHandler) GetTransactions(c echo.Context) error {
	txs, err := h.admin.Transactions(c.Request().Context())
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, txs)
}
