// Package payment creates hosted checkout sessions for paid events.
package payment

import (
	"fmt"
	"math"
	"net/url"
	"strings"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// CheckoutRequest describes the ticket being bought
type CheckoutRequest struct {
	EventID    string
	EventTitle string
	Price      float64
	UserID     string
}

// Session is the part of a checkout session the frontend needs
type Session struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Checkout talks to Stripe Checkout
type Checkout struct {
	api       *client.API
	clientURL string
}

// NewCheckout creates a new Checkout. clientURL is where Stripe sends the
// buyer back.
func NewCheckout(secretKey, clientURL string) *Checkout {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &Checkout{api: api, clientURL: strings.TrimRight(clientURL, "/")}
}

// CreateSession opens a one-ticket checkout session
func (c *Checkout) CreateSession(req CheckoutRequest) (*Session, error) {
	s, err := c.api.CheckoutSessions.New(buildSessionParams(req, c.clientURL))
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}
	return &Session{ID: s.ID, URL: s.URL}, nil
}

// Cents converts a price in dollars to the smallest currency unit
func Cents(price float64) int64 {
	return int64(math.Round(price * 100))
}

func buildSessionParams(req CheckoutRequest, clientURL string) *stripe.CheckoutSessionParams {
	q := url.Values{}
	q.Set("eventId", req.EventID)
	q.Set("userId", req.UserID)

	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Locale:             stripe.String("en"),
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		ClientReferenceID:  stripe.String(req.UserID),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(string(stripe.CurrencyUSD)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String("Ticket: " + req.EventTitle),
					},
					UnitAmount: stripe.Int64(Cents(req.Price)),
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(clientURL + "/payment/success?" + q.Encode()),
		CancelURL:  stripe.String(clientURL + "/dashboard"),
	}
	params.AddMetadata("eventId", req.EventID)
	params.AddMetadata("userId", req.UserID)
	return params
}
