// Package email sends the club's transactional mail (dues reminders,
// payment confirmations, monthly reports) and records every attempt in
// the notification log.
package email

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/mail"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Message is one outbound email.
type Message struct {
	To      mail.Address
	Subject string
	Body    string
}

// Mailer delivers messages. Implementations must be safe for concurrent
// use.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

const (
	sendgridHost     = "https://api.sendgrid.com"
	sendgridEndpoint = "/v3/mail/send"
)

// SendgridMailer delivers through the SendGrid v3 API.
type SendgridMailer struct {
	key  string
	from *sgmail.Email
}

var _ Mailer = (*SendgridMailer)(nil)

func NewSendgridMailer(apiKey, fromName, fromAddress string) *SendgridMailer {
	return &SendgridMailer{
		key:  apiKey,
		from: sgmail.NewEmail(fromName, fromAddress),
	}
}

func (m *SendgridMailer) Send(ctx context.Context, msg Message) error {
	p := sgmail.NewPersonalization()
	p.Subject = msg.Subject
	p.AddTos(sgmail.NewEmail(msg.To.Name, msg.To.Address))

	sg := sgmail.NewV3Mail()
	sg.SetFrom(m.from)
	sg.AddPersonalizations(p)
	sg.AddContent(sgmail.NewContent("text/plain", msg.Body))

	req := sendgrid.GetRequest(m.key, sendgridEndpoint, sendgridHost)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(sg)

	res, err := sendgrid.MakeRequestWithContext(ctx, req)
	if err != nil {
		return fmt.Errorf("sending email: %w", err)
	}

	if res.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("sending email: status %d: %s", res.StatusCode, res.Body)
	}

	return nil
}

// ConsoleMailer logs messages instead of delivering them. Used when no
// SendGrid key is configured.
type ConsoleMailer struct{}

var _ Mailer = ConsoleMailer{}

func (ConsoleMailer) Send(_ context.Context, msg Message) error {
	slog.Info("email (console)",
		"to", msg.To.Address,
		"subject", msg.Subject,
		"body", msg.Body,
	)

	return nil
}
