package mailer

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"

	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/config"
)

// SendGridMailer sends through the SendGrid v3 API.
type SendGridMailer struct {
	client    *sendgrid.Client
	from      *sgmail.Email
	portalURL string
	logger    *zap.Logger
}

// NewSendGridMailer creates a SendGridMailer.
func NewSendGridMailer(cfg *config.MailConfig, logger *zap.Logger) *SendGridMailer {
	return &SendGridMailer{
		client:    sendgrid.NewSendClient(cfg.APIKey),
		from:      sgmail.NewEmail(cfg.FromName, cfg.FromEmail),
		portalURL: cfg.PortalURL,
		logger:    logger,
	}
}

// Send renders msg and posts it.
func (m *SendGridMailer) Send(ctx context.Context, msg Message) error {
	if msg.To == "" {
		return ErrNoRecipient
	}
	if msg.Data.PortalURL == "" {
		msg.Data.PortalURL = m.portalURL
	}
	subj, html, err := Render(msg)
	if err != nil {
		return err
	}

	p := sgmail.NewPersonalization()
	p.Subject = subj
	p.AddTos(sgmail.NewEmail("", msg.To))

	v3 := sgmail.NewV3Mail()
	v3.SetFrom(m.from)
	v3.AddPersonalizations(p)
	v3.AddContent(sgmail.NewContent("text/html", html))

	res, err := m.client.SendWithContext(ctx, v3)
	if err != nil {
		return fmt.Errorf("sendgrid: %w", err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("sendgrid: status %d: %s", res.StatusCode, res.Body)
	}
	m.logger.Debug("mail sent", zap.String("to", msg.To), zap.String("kind", string(msg.Kind)))
	return nil
}
