// Package chat implements the chat delivery channel: it posts a colored
// message to a room over the room-message HTTP API (v1 or v2).
package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.vocdoni.io/dvote/log"

	"github.com/pagerline/incident-backend/db"
	"github.com/pagerline/incident-backend/notifications"
)

const (
	apiV1 = "v1"
	apiV2 = "v2"

	defaultEndpoint = "https://api.hipchat.com"
)

// messageColors maps contextual event kinds to the message color posted to
// the room. Kinds without a color are silently skipped: the channel accepts
// the event but sends nothing.
var messageColors = map[db.EventKind]string{
	db.EventKindOpened:       "red",
	db.EventKindAcknowledged: "yellow",
	db.EventKindEscalated:    "yellow",
	db.EventKindResolved:     "green",
}

type config struct {
	Token      string
	Room       string
	APIVersion string
	Notify     bool
}

// Chat is the chat channel. The endpoint is fixed at construction; tests
// point it at a local server.
type Chat struct {
	endpoint string
	client   *http.Client
}

// New creates the chat channel against the public API endpoint.
func New() *Chat {
	return NewWithEndpoint(defaultEndpoint)
}

// NewWithEndpoint creates the chat channel against a custom API endpoint.
func NewWithEndpoint(endpoint string) *Chat {
	return &Chat{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

func (*Chat) DefaultTargetEvents() []db.EventKind {
	return []db.EventKind{
		db.EventKindEscalated,
		db.EventKindOpened,
		db.EventKindAcknowledged,
		db.EventKindResolved,
	}
}

func parseConfig(settings db.Settings) (*config, error) {
	token, err := notifications.RequiredSetting(settings, "api_token")
	if err != nil {
		return nil, err
	}
	room, err := notifications.RequiredSetting(settings, "room")
	if err != nil {
		return nil, err
	}
	// "1" and "v1" select the legacy API, anything else gets v2
	version := apiV2
	switch notifications.OptionalSetting(settings, "api_version", apiV2) {
	case "1", apiV1:
		version = apiV1
	}
	return &config{
		Token:      token,
		Room:       room,
		APIVersion: version,
		Notify:     notifications.BoolSetting(settings, "notify"),
	}, nil
}

func (c *Chat) Deliver(ctx context.Context, n *notifications.Notification) error {
	cfg, err := parseConfig(n.Settings)
	if err != nil {
		return err
	}
	color, ok := messageColors[n.Kind]
	if !ok {
		// no color mapping means no message for this kind
		log.Debugw("no chat color for event kind, skipping message", "kind", n.Kind)
		return nil
	}
	var req *http.Request
	switch cfg.APIVersion {
	case apiV1:
		req, err = c.v1Request(ctx, cfg, color, n.Body)
	default:
		req, err = c.v2Request(ctx, cfg, color, n.Body)
	}
	if err != nil {
		return &notifications.DeliveryError{Channel: "chat", Err: err}
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return &notifications.DeliveryError{Channel: "chat", Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &notifications.DeliveryError{
			Channel: "chat",
			Err:     fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, body),
		}
	}
	return nil
}

// v1Request posts a form-encoded message to the legacy rooms/message API.
func (c *Chat) v1Request(ctx context.Context, cfg *config, color, body string) (*http.Request, error) {
	form := url.Values{}
	form.Set("room_id", cfg.Room)
	form.Set("from", "incident")
	form.Set("message", body)
	form.Set("message_format", "text")
	form.Set("color", color)
	if cfg.Notify {
		form.Set("notify", "1")
	}
	endpoint := fmt.Sprintf("%s/v1/rooms/message?auth_token=%s", c.endpoint, url.QueryEscape(cfg.Token))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBufferString(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req, nil
}

// v2Request posts a JSON notification to the v2 room notification API.
func (c *Chat) v2Request(ctx context.Context, cfg *config, color, body string) (*http.Request, error) {
	payload, err := json.Marshal(map[string]any{
		"message":        body,
		"message_format": "text",
		"color":          color,
		"notify":         cfg.Notify,
	})
	if err != nil {
		return nil, err
	}
	endpoint := fmt.Sprintf("%s/v2/room/%s/notification", c.endpoint, url.PathEscape(cfg.Room))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+cfg.Token)
	return req, nil
}
