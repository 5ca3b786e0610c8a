// Package mailer renders and sends the transactional emails of the API.
package mailer

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"
)

// Config holds SMTP settings. An empty Host selects the logging sender.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Ticket is the content of a ticket confirmation email
type Ticket struct {
	FirstName  string
	EventTitle string
	Location   string
	Date       time.Time
	TicketID   string
	Price      float64
}

// SMTPMailer delivers email through an SMTP relay with gomail
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
	logger zerolog.Logger
}

// NewSMTPMailer creates a new SMTPMailer
func NewSMTPMailer(cfg Config, logger zerolog.Logger) *SMTPMailer {
	from := cfg.From
	if from == "" {
		from = cfg.Username
	}
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   from,
		logger: logger,
	}
}

func (m *SMTPMailer) SendWelcome(ctx context.Context, to, firstName string) error {
	body, err := render(welcomeTmpl, map[string]string{"FirstName": firstName})
	if err != nil {
		return err
	}
	return m.send(ctx, to, "Welcome to EventPulse!", body)
}

func (m *SMTPMailer) SendTicket(ctx context.Context, to string, t Ticket) error {
	body, err := render(ticketTmpl, ticketView(t))
	if err != nil {
		return err
	}
	return m.send(ctx, to, "Your ticket for "+t.EventTitle, body)
}

func (m *SMTPMailer) SendPasswordReset(ctx context.Context, to, resetURL string) error {
	body, err := render(resetTmpl, map[string]string{"URL": resetURL})
	if err != nil {
		return err
	}
	return m.send(ctx, to, "Password Reset Request", body)
}

func (m *SMTPMailer) send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send %q to %s: %w", subject, to, err)
	}
	m.logger.Debug().Str("to", to).Str("subject", subject).Msg("email sent")
	return nil
}

// LogMailer writes emails to the log instead of sending them
type LogMailer struct {
	logger zerolog.Logger
}

func NewLogMailer(logger zerolog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) SendWelcome(_ context.Context, to, firstName string) error {
	m.logger.Info().Str("to", to).Str("firstName", firstName).Msg("welcome email (smtp disabled)")
	return nil
}

func (m *LogMailer) SendTicket(_ context.Context, to string, t Ticket) error {
	m.logger.Info().Str("to", to).Str("ticketId", t.TicketID).Str("event", t.EventTitle).Msg("ticket email (smtp disabled)")
	return nil
}

func (m *LogMailer) SendPasswordReset(_ context.Context, to, resetURL string) error {
	m.logger.Info().Str("to", to).Str("url", resetURL).Msg("password reset email (smtp disabled)")
	return nil
}

func ticketView(t Ticket) map[string]string {
	price := "Free"
	if t.Price > 0 {
		price = fmt.Sprintf("$%.2f", t.Price)
	}
	return map[string]string{
		"FirstName":  t.FirstName,
		"EventTitle": t.EventTitle,
		"Location":   t.Location,
		"Date":       t.Date.Format("Mon, Jan 2 2006 15:04"),
		"TicketID":   t.TicketID,
		"Price":      price,
	}
}

func render(tmpl *template.Template, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

var (
	welcomeTmpl = template.Must(template.New("welcome").Parse(`
<div style="font-family: Arial, sans-serif; padding: 20px;">
  <h1 style="color: #00D5FA;">Welcome, {{.FirstName}}!</h1>
  <p>Thanks for joining EventPulse. Discover events near you, meet new people and host your own.</p>
</div>`))

	ticketTmpl = template.Must(template.New("ticket").Parse(`
<div style="font-family: Arial, sans-serif; padding: 20px; border: 1px solid #ddd; border-radius: 10px;">
  <h2>You're going to {{.EventTitle}}!</h2>
  <p>Hi {{.FirstName}}, your spot is confirmed.</p>
  <p><strong>Date:</strong> {{.Date}}</p>
  <p><strong>Location:</strong> {{.Location}}</p>
  <p><strong>Price:</strong> {{.Price}}</p>
  <p><strong>Ticket ID:</strong> #{{.TicketID}}</p>
</div>`))

	resetTmpl = template.Must(template.New("reset").Parse(`
<div style="font-family: Arial, sans-serif; padding: 20px;">
  <h2>Reset your password</h2>
  <p>Click the link below to choose a new password. The link expires in one hour.</p>
  <a href="{{.URL}}">{{.URL}}</a>
</div>`))
)
