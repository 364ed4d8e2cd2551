// Package sendgrid implements the mail delivery channel on top of the
// SendGrid API.
package sendgrid

import (
	"context"
	"fmt"
	"strings"

	"github.com/sendgrid/rest"
	sg "github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/pagerline/incident-backend/db"
	"github.com/pagerline/incident-backend/internal"
	"github.com/pagerline/incident-backend/notifications"
)

type config struct {
	APIKey string
	From   string
	To     string
}

// Email is the mail channel. By default it only wants events escalated to
// the recipient personally; anything broader must be requested through the
// settings' events filter.
type Email struct {
	// newClient builds the API client per delivery, since the API key lives
	// in the merged settings. Tests replace it.
	newClient func(apiKey string) sender
}

type sender interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

// New creates the mail channel.
func New() *Email {
	return &Email{
		newClient: func(apiKey string) sender {
			return sg.NewSendClient(apiKey)
		},
	}
}

func (*Email) DefaultTargetEvents() []db.EventKind {
	return []db.EventKind{db.EventKindEscalatedToMe}
}

// parseConfig validates the required settings up front, converting missing
// keys into a single ConfigError before any network call.
func parseConfig(settings db.Settings) (*config, error) {
	apiKey, err := notifications.RequiredSetting(settings, "api_key")
	if err != nil {
		return nil, err
	}
	from, err := notifications.RequiredSetting(settings, "from")
	if err != nil {
		return nil, err
	}
	if !internal.ValidEmail(from) {
		return nil, &notifications.ConfigError{Key: "from", Reason: "not a valid email address"}
	}
	to, err := notifications.RequiredSetting(settings, "to")
	if err != nil {
		return nil, err
	}
	return &config{APIKey: apiKey, From: from, To: to}, nil
}

// recipientAddress completes a bare local part with the domain of the from
// address, so a recipient setting of just "alice" delivers inside the
// sender's domain.
func recipientAddress(to, from string) string {
	if strings.Contains(to, "@") {
		return to
	}
	domain := from[strings.LastIndex(from, "@")+1:]
	return fmt.Sprintf("%s@%s", to, domain)
}

func (e *Email) Deliver(ctx context.Context, n *notifications.Notification) error {
	cfg, err := parseConfig(n.Settings)
	if err != nil {
		return err
	}
	from := mail.NewEmail("", cfg.From)
	to := mail.NewEmail("", recipientAddress(cfg.To, cfg.From))
	subject := fmt.Sprintf("[incident] %s (%s)", n.Subject, n.Kind)
	message := mail.NewSingleEmail(from, subject, to, n.Body, n.Body)
	resp, err := e.newClient(cfg.APIKey).SendWithContext(ctx, message)
	if err != nil {
		return &notifications.DeliveryError{Channel: "mail", Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &notifications.DeliveryError{
			Channel: "mail",
			Err:     fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, resp.Body),
		}
	}
	return nil
}
