package handlers

import (
	"net/http"

	"github.com/anonto42/eventpulse/backend/internal/models"
	"github.com/anonto42/eventpulse/backend/pkg/payment"
	"github.com/labstack/echo/v4"
)

// CheckoutCreator opens hosted payment sessions
type CheckoutCreator interface {
	CreateSession(req payment.CheckoutRequest) (*payment.Session, error)
}

// PaymentHandler handles ticket checkout requests
type PaymentHandler struct {
	checkout CheckoutCreator
}

// NewPaymentHandler creates a new PaymentHandler. A nil checkout answers 503.
func NewPaymentHandler(checkout CheckoutCreator) *PaymentHandler {
	return &PaymentHandler{checkout: checkout}
}

func (h *PaymentHandler) RegisterPaymentRoutes(g *echo.Group) {
	g.POST("/payment/create-checkout-session", h.CreateCheckoutSession)
}

func (h *PaymentHandler) CreateCheckoutSession(c echo.Context) error {
	if h.checkout == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Payments are not configured")
	}

	var req models.CheckoutRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	session, err := h.checkout.CreateSession(payment.CheckoutRequest{
		EventID:    req.EventID,
		EventTitle: req.EventTitle,
		Price:      req.Price,
		UserID:     actingUser(c, req.UserID),
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, session)
}
