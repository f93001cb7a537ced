package services

import (
	"context"
	"fmt"
	"html"

	"github.com/rs/zerolog"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/adanyl0v/taskboard/internal/models"
)

const (
	sendGridHost     = "https://api.sendgrid.com"
	sendGridEndpoint = "/v3/mail/send"
)

type Mailer interface {
	SendVerificationEmail(ctx context.Context, user *models.User, link string) error
}

type sendGridMailer struct {
	logger    zerolog.Logger
	apiKey    string
	host      string
	fromName  string
	fromEmail string
}

func NewSendGridMailer(logger zerolog.Logger, apiKey, fromName, fromEmail string) Mailer {
	return &sendGridMailer{
		logger:    logger,
		apiKey:    apiKey,
		host:      sendGridHost,
		fromName:  fromName,
		fromEmail: fromEmail,
	}
}

func (m *sendGridMailer) SendVerificationEmail(ctx context.Context, user *models.User, link string) error {
	from := mail.NewEmail(m.fromName, m.fromEmail)
	to := mail.NewEmail(user.Username, user.Email)
	const subject = "Verify your email"
	plainTextContent := fmt.Sprintf("Hi %s, confirm your email address by opening %s", user.Username, link)
	htmlContent := fmt.Sprintf(`<p>Hi %s,</p><p><a href="%s">Confirm your email address</a></p>`,
		html.EscapeString(user.Username), html.EscapeString(link))
	message := mail.NewSingleEmail(from, subject, to, plainTextContent, htmlContent)

	request := sendgrid.GetRequest(m.apiKey, sendGridEndpoint, m.host)
	request.Method = "POST"
	request.Body = mail.GetRequestBody(message)

	response, err := sendgrid.MakeRequestWithContext(ctx, request)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 300 {
		return fmt.Errorf("failed to send email: sendgrid responded with %d: %s",
			response.StatusCode, response.Body)
	}

	m.logger.Debug().
		Str("user_id", user.ID).
		Int("status", response.StatusCode).
		Msg("sent verification email")
	return nil
}

type logMailer struct {
	logger zerolog.Logger
}

// NewLogMailer returns a Mailer that only logs outgoing messages. It is
// used when no SendGrid API key is configured.
func NewLogMailer(logger zerolog.Logger) Mailer {
	return &logMailer{logger: logger}
}

func (m *logMailer) SendVerificationEmail(_ context.Context, user *models.User, link string) error {
	m.logger.Info().
		Str("user_id", user.ID).
		Str("email", user.Email).
		Str("link", link).
		Msg("verification email")
	return nil
}
