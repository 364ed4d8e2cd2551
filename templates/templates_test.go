package templates

import (
	"errors"
	"testing"
	"testing/fstest"

	qt "github.com/frankban/quicktest"
	"github.com/pagerline/incident-backend/db"
)

func TestLoadDefault(t *testing.T) {
	c := qt.New(t)
	store, err := LoadDefault()
	c.Assert(err, qt.IsNil)
	data := map[string]any{
		"Incident": &db.Incident{ID: "i1", Subject: "db on fire", Status: db.IncidentStatusOpen},
		"Event":    &db.Event{Kind: db.EventKindOpened},
		"Kind":     db.EventKindOpened,
	}
	body, err := store.Render(db.ProviderKindChat, "opened", data)
	c.Assert(err, qt.IsNil)
	c.Assert(body, qt.Equals, "Incident opened: db on fire")
	// every channel ships a default template except the no-op file channel
	for _, kind := range []db.ProviderKind{
		db.ProviderKindChat, db.ProviderKindMail,
		db.ProviderKindInternalLog, db.ProviderKindVoiceCall,
	} {
		_, err := store.Render(kind, DefaultKind, data)
		c.Assert(err, qt.IsNil, qt.Commentf("channel %s", kind))
	}
}

func TestRenderNotFound(t *testing.T) {
	c := qt.New(t)
	store, err := Load(fstest.MapFS{
		"chat_default.tmpl": {Data: []byte("{{.Kind}}")},
	})
	c.Assert(err, qt.IsNil)
	_, err = store.Render(db.ProviderKindChat, "commented", nil)
	c.Assert(errors.Is(err, ErrNotFound), qt.IsTrue)
	_, err = store.Render(db.ProviderKindMail, DefaultKind, nil)
	c.Assert(errors.Is(err, ErrNotFound), qt.IsTrue)
	// a loaded template renders
	body, err := store.Render(db.ProviderKindChat, DefaultKind, map[string]any{"Kind": "opened"})
	c.Assert(err, qt.IsNil)
	c.Assert(body, qt.Equals, "opened")
}

func TestRenderError(t *testing.T) {
	c := qt.New(t)
	store, err := Load(fstest.MapFS{
		"chat_default.tmpl": {Data: []byte(`{{call .Boom}}`)},
	})
	c.Assert(err, qt.IsNil)
	// an execution failure is not a not-found signal
	_, err = store.Render(db.ProviderKindChat, DefaultKind, map[string]any{})
	c.Assert(err, qt.Not(qt.IsNil))
	c.Assert(errors.Is(err, ErrNotFound), qt.IsFalse)
}
