// Package twilio implements the voice-call delivery channel: it places an
// outbound call through the Twilio API whose TwiML callback URL references
// the event being notified about.
package twilio

import (
	"context"
	"fmt"
	"net/url"
	"os"

	t "github.com/twilio/twilio-go"
	api "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/pagerline/incident-backend/db"
	"github.com/pagerline/incident-backend/notifications"
)

const (
	// CallbackUserEnv and CallbackPasswordEnv hold the optional basic-auth
	// credentials embedded in the callback URL, sourced from the process
	// environment so they never live in provider settings.
	CallbackUserEnv     = "TWILIO_CALLBACK_USER"
	CallbackPasswordEnv = "TWILIO_CALLBACK_PASSWORD"
)

type config struct {
	AccountSid string
	AuthToken  string
	From       string
	To         string
}

type caller interface {
	CreateCall(params *api.CreateCallParams) (*api.ApiV2010Call, error)
}

// VoiceCall is the voice-call channel. CallbackBase is the public base URL
// of this service; the TwiML endpoint for a delivery is derived from it and
// the event reference.
type VoiceCall struct {
	callbackBase string
	// newClient builds the REST client per delivery, since the account
	// credentials live in the merged settings. Tests replace it.
	newClient func(accountSid, authToken string) caller
}

// New creates the voice-call channel with the given public callback base
// URL.
func New(callbackBase string) *VoiceCall {
	return &VoiceCall{
		callbackBase: callbackBase,
		newClient: func(accountSid, authToken string) caller {
			client := t.NewRestClientWithParams(t.ClientParams{
				Username: accountSid,
				Password: authToken,
			})
			return client.Api
		},
	}
}

func (*VoiceCall) DefaultTargetEvents() []db.EventKind {
	return []db.EventKind{db.EventKindEscalatedToMe}
}

func parseConfig(settings db.Settings) (*config, error) {
	accountSid, err := notifications.RequiredSetting(settings, "account_sid")
	if err != nil {
		return nil, err
	}
	authToken, err := notifications.RequiredSetting(settings, "auth_token")
	if err != nil {
		return nil, err
	}
	from, err := notifications.RequiredSetting(settings, "from")
	if err != nil {
		return nil, err
	}
	to, err := notifications.RequiredSetting(settings, "to")
	if err != nil {
		return nil, err
	}
	return &config{AccountSid: accountSid, AuthToken: authToken, From: from, To: to}, nil
}

// callbackURL builds the TwiML URL for the event, embedding the basic-auth
// credentials from the environment when both are set.
func (vc *VoiceCall) callbackURL(eventID string) (string, error) {
	parsed, err := url.Parse(vc.callbackBase)
	if err != nil {
		return "", fmt.Errorf("invalid callback base URL: %w", err)
	}
	if user, password := os.Getenv(CallbackUserEnv), os.Getenv(CallbackPasswordEnv); user != "" && password != "" {
		parsed.User = url.UserPassword(user, password)
	}
	return parsed.JoinPath("twiml", "events", eventID).String(), nil
}

func (vc *VoiceCall) Deliver(_ context.Context, n *notifications.Notification) error {
	cfg, err := parseConfig(n.Settings)
	if err != nil {
		return err
	}
	callback, err := vc.callbackURL(n.EventID)
	if err != nil {
		return &notifications.DeliveryError{Channel: "voice_call", Err: err}
	}
	params := &api.CreateCallParams{}
	params.SetTo(cfg.To)
	params.SetFrom(cfg.From)
	params.SetUrl(callback)
	if _, err := vc.newClient(cfg.AccountSid, cfg.AuthToken).CreateCall(params); err != nil {
		return &notifications.DeliveryError{Channel: "voice_call", Err: err}
	}
	return nil
}
