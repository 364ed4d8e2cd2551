package sendgrid

import (
	"context"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/pagerline/incident-backend/db"
	"github.com/pagerline/incident-backend/notifications"
)

type stubSender struct {
	sent   []*mail.SGMailV3
	status int
	err    error
}

func (s *stubSender) SendWithContext(_ context.Context, email *mail.SGMailV3) (*rest.Response, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.sent = append(s.sent, email)
	status := s.status
	if status == 0 {
		status = 202
	}
	return &rest.Response{StatusCode: status}, nil
}

func newTestEmail(stub *stubSender) *Email {
	email := New()
	email.newClient = func(string) sender { return stub }
	return email
}

func TestDeliver(t *testing.T) {
	c := qt.New(t)
	stub := &stubSender{}
	email := newTestEmail(stub)
	err := email.Deliver(context.Background(), &notifications.Notification{
		Settings: db.Settings{"api_key": "k", "from": "pager@example.com", "to": "alice@example.org"},
		Kind:     db.EventKindEscalatedToMe,
		Subject:  "db on fire",
		Body:     "the incident has been escalated to you",
	})
	c.Assert(err, qt.IsNil)
	c.Assert(stub.sent, qt.HasLen, 1)
	message := stub.sent[0]
	c.Assert(message.Subject, qt.Equals, "[incident] db on fire (escalated_to_me)")
	c.Assert(message.From.Address, qt.Equals, "pager@example.com")
	c.Assert(message.Personalizations[0].To[0].Address, qt.Equals, "alice@example.org")
}

func TestRecipientAddress(t *testing.T) {
	c := qt.New(t)
	// a bare local part inherits the sender's domain
	c.Assert(recipientAddress("alice", "pager@example.com"), qt.Equals, "alice@example.com")
	// full addresses pass through
	c.Assert(recipientAddress("alice@example.org", "pager@example.com"), qt.Equals, "alice@example.org")
}

func TestDeliverMissingSettings(t *testing.T) {
	c := qt.New(t)
	email := newTestEmail(&stubSender{})
	for _, settings := range []db.Settings{
		{},
		{"api_key": "k", "from": "pager@example.com"},
		{"api_key": "k", "to": "alice"},
		{"api_key": "k", "from": "not-an-address", "to": "alice"},
	} {
		err := email.Deliver(context.Background(), &notifications.Notification{Settings: settings})
		var confErr *notifications.ConfigError
		c.Assert(err, qt.ErrorAs, &confErr, qt.Commentf("settings %v", settings))
	}
}

func TestDeliverBadStatus(t *testing.T) {
	c := qt.New(t)
	email := newTestEmail(&stubSender{status: 401})
	err := email.Deliver(context.Background(), &notifications.Notification{
		Settings: db.Settings{"api_key": "k", "from": "pager@example.com", "to": "alice"},
	})
	var deliveryErr *notifications.DeliveryError
	c.Assert(err, qt.ErrorAs, &deliveryErr)
	c.Assert(deliveryErr.Channel, qt.Equals, "mail")
}

func TestDefaultTargetEvents(t *testing.T) {
	c := qt.New(t)
	c.Assert(New().DefaultTargetEvents(), qt.DeepEquals, []db.EventKind{db.EventKindEscalatedToMe})
}
