package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/pagerline/incident-backend/db"
	"github.com/pagerline/incident-backend/notifications"
)

type recordedRequest struct {
	method  string
	path    string
	auth    string
	payload map[string]any
	form    map[string]string
}

func newTestServer(status int) (*httptest.Server, *[]recordedRequest) {
	var requests []recordedRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recordedRequest{
			method: r.Method,
			path:   r.URL.Path,
			auth:   r.Header.Get("Authorization"),
		}
		switch r.Header.Get("Content-Type") {
		case "application/json":
			_ = json.NewDecoder(r.Body).Decode(&rec.payload)
		default:
			_ = r.ParseForm()
			rec.form = map[string]string{}
			for key := range r.PostForm {
				rec.form[key] = r.PostForm.Get(key)
			}
		}
		requests = append(requests, rec)
		w.WriteHeader(status)
	}))
	return server, &requests
}

func TestDeliverV2(t *testing.T) {
	c := qt.New(t)
	server, requests := newTestServer(http.StatusNoContent)
	defer server.Close()
	chat := NewWithEndpoint(server.URL)
	err := chat.Deliver(context.Background(), &notifications.Notification{
		Settings: db.Settings{"api_token": "tok", "room": "ops", "notify": true},
		Kind:     db.EventKindOpened,
		Body:     "incident opened",
	})
	c.Assert(err, qt.IsNil)
	c.Assert(*requests, qt.HasLen, 1)
	req := (*requests)[0]
	c.Assert(req.path, qt.Equals, "/v2/room/ops/notification")
	c.Assert(req.auth, qt.Equals, "Bearer tok")
	c.Assert(req.payload["message"], qt.Equals, "incident opened")
	c.Assert(req.payload["color"], qt.Equals, "red")
	c.Assert(req.payload["notify"], qt.Equals, true)
}

func TestDeliverV1(t *testing.T) {
	c := qt.New(t)
	server, requests := newTestServer(http.StatusOK)
	defer server.Close()
	chat := NewWithEndpoint(server.URL)
	// both "1" and "v1" select the legacy API
	for _, version := range []string{"1", "v1"} {
		err := chat.Deliver(context.Background(), &notifications.Notification{
			Settings: db.Settings{"api_token": "tok", "room": "ops", "api_version": version},
			Kind:     db.EventKindResolved,
			Body:     "all clear",
		})
		c.Assert(err, qt.IsNil)
	}
	c.Assert(*requests, qt.HasLen, 2)
	req := (*requests)[0]
	c.Assert(req.path, qt.Equals, "/v1/rooms/message")
	c.Assert(req.form["room_id"], qt.Equals, "ops")
	c.Assert(req.form["color"], qt.Equals, "green")
	c.Assert(req.form["message"], qt.Equals, "all clear")
}

func TestDeliverColorlessKindSkips(t *testing.T) {
	c := qt.New(t)
	server, requests := newTestServer(http.StatusOK)
	defer server.Close()
	chat := NewWithEndpoint(server.URL)
	// commented has no color mapping: no network call, no error
	err := chat.Deliver(context.Background(), &notifications.Notification{
		Settings: db.Settings{"api_token": "tok", "room": "ops"},
		Kind:     db.EventKindCommented,
		Body:     "a comment",
	})
	c.Assert(err, qt.IsNil)
	c.Assert(*requests, qt.HasLen, 0)
}

func TestDeliverMissingSettings(t *testing.T) {
	c := qt.New(t)
	chat := New()
	for _, settings := range []db.Settings{
		{},
		{"api_token": "tok"},
		{"room": "ops"},
	} {
		err := chat.Deliver(context.Background(), &notifications.Notification{
			Settings: settings,
			Kind:     db.EventKindOpened,
		})
		var confErr *notifications.ConfigError
		c.Assert(err, qt.ErrorAs, &confErr)
	}
}

func TestDeliverTransportFailure(t *testing.T) {
	c := qt.New(t)
	server, _ := newTestServer(http.StatusForbidden)
	defer server.Close()
	chat := NewWithEndpoint(server.URL)
	err := chat.Deliver(context.Background(), &notifications.Notification{
		Settings: db.Settings{"api_token": "tok", "room": "ops"},
		Kind:     db.EventKindOpened,
		Body:     "incident opened",
	})
	var deliveryErr *notifications.DeliveryError
	c.Assert(err, qt.ErrorAs, &deliveryErr)
	c.Assert(deliveryErr.Channel, qt.Equals, "chat")
}

func TestDefaultTargetEvents(t *testing.T) {
	c := qt.New(t)
	targets := New().DefaultTargetEvents()
	c.Assert(targets, qt.DeepEquals, []db.EventKind{
		db.EventKindEscalated,
		db.EventKindOpened,
		db.EventKindAcknowledged,
		db.EventKindResolved,
	})
}
