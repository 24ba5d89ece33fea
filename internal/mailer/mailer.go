package mailer

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Message is a plain-text notification email.
type Message struct {
	ToName  string
	ToEmail string
	Subject string
	Body    string
}

// Mailer sends notification emails.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

type sendGridMailer struct {
	client *sendgrid.Client
	from   *sgmail.Email
	logger zerolog.Logger
}

// NewSendGridMailer returns a Mailer backed by the SendGrid v3 mail API.
func NewSendGridMailer(apiKey, fromName, fromEmail string, logger zerolog.Logger) Mailer {
	return &sendGridMailer{
		client: sendgrid.NewSendClient(apiKey),
		from:   sgmail.NewEmail(fromName, fromEmail),
		logger: logger.With().Str("component", "SendGridMailer").Logger(),
	}
}

func (m *sendGridMailer) Send(ctx context.Context, msg Message) error {
	to := sgmail.NewEmail(msg.ToName, msg.ToEmail)
	email := sgmail.NewSingleEmail(m.from, msg.Subject, to, msg.Body, "")

	res, err := m.client.SendWithContext(ctx, email)
	if err != nil {
		return fmt.Errorf("send email via sendgrid: %w", err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("sendgrid returned status %d: %s", res.StatusCode, res.Body)
	}
	m.logger.Debug().Str("to", msg.ToEmail).Int("status", res.StatusCode).Msg("Email sent")
	return nil
}

type logMailer struct {
	logger zerolog.Logger
}

// NewLogMailer returns a Mailer that only logs messages. It is used when no
// SendGrid key is configured.
func NewLogMailer(logger zerolog.Logger) Mailer {
	return &logMailer{logger: logger.With().Str("component", "LogMailer").Logger()}
}

func (m *logMailer) Send(ctx context.Context, msg Message) error {
	m.logger.Info().Str("to", msg.ToEmail).Str("subject", msg.Subject).Msg("Email not sent, no provider configured")
	return nil
}
