package dispatch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.vocdoni.io/dvote/log"

	"github.com/pagerline/incident-backend/calendar"
	"github.com/pagerline/incident-backend/db"
	"github.com/pagerline/incident-backend/notifications"
	"github.com/pagerline/incident-backend/templates"
)

// ErrAuditFailed wraps an audit-append failure that happened after a
// successful delivery. It is only returned when StrictAudit is enabled;
// the delivery itself is never rolled back.
var ErrAuditFailed = errors.New("could not append audit record")

// Store is the slice of the database the engine needs: read the incident a
// dispatched event belongs to, and append the audit record.
type Store interface {
	Incident(id string) (*db.Incident, error)
	AddEvent(*db.Event) (string, error)
}

type Config struct {
	Store     Store
	Registry  *notifications.Registry
	Templates templates.Renderer
	Calendar  calendar.Calendar
	// StrictAudit makes a failed audit append surface to the caller instead
	// of being logged and swallowed. Delivery and audit are still not
	// transactional: with StrictAudit the caller at least learns about the
	// gap.
	StrictAudit bool
	// Now overrides the clock used by the suppression rules. Leave nil for
	// wall-clock time.
	Now func() time.Time
}

// Engine orchestrates a single dispatch per (provider, recipient, event)
// triple. It holds no mutable state between calls; concurrent Notify calls
// are safe and any parallelism belongs to the caller.
type Engine struct {
	store       Store
	registry    *notifications.Registry
	templates   templates.Renderer
	evaluator   *Evaluator
	strictAudit bool
}

func New(conf *Config) (*Engine, error) {
	if conf == nil {
		return nil, fmt.Errorf("dispatch config is required")
	}
	if conf.Store == nil {
		return nil, fmt.Errorf("dispatch store is required")
	}
	if conf.Registry == nil {
		return nil, fmt.Errorf("dispatch registry is required")
	}
	if conf.Templates == nil {
		return nil, fmt.Errorf("dispatch template renderer is required")
	}
	if conf.Calendar == nil {
		return nil, fmt.Errorf("dispatch calendar is required")
	}
	return &Engine{
		store:       conf.Store,
		registry:    conf.Registry,
		templates:   conf.Templates,
		evaluator:   &Evaluator{Calendar: conf.Calendar, Now: conf.Now},
		strictAudit: conf.StrictAudit,
	}, nil
}

// Notify dispatches one event to one recipient of one provider. Suppression
// and target-event filtering are normal outcomes and return nil; channel
// and template failures surface as errors without an audit record.
func (e *Engine) Notify(ctx context.Context, provider *db.Provider, recipient *db.Recipient, event *db.Event) error {
	merged := db.MergeSettings(provider.Settings, recipient.Settings)
	kind := Classify(event, recipient)
	incident, err := e.store.Incident(event.IncidentID)
	if err != nil {
		return fmt.Errorf("cannot load incident %s: %w", event.IncidentID, err)
	}
	if e.evaluator.ShouldSkip(merged, incident, kind) {
		log.Debugw("notification suppressed",
			"provider", provider.ID, "recipient", recipient.ID, "kind", kind)
		return nil
	}
	channel, err := e.registry.Channel(provider.Kind)
	if err != nil {
		return err
	}
	if !targetsKind(notifications.TargetEvents(merged, channel), kind) {
		log.Debugw("event kind outside target filter",
			"provider", provider.ID, "recipient", recipient.ID, "kind", kind)
		return nil
	}
	body, err := ResolveBody(e.templates, provider.Kind, kind, renderContext{
		Incident: incident,
		Event:    event,
		Kind:     kind,
	})
	if err != nil {
		return err
	}
	if err := channel.Deliver(ctx, &notifications.Notification{
		Settings: merged,
		Kind:     kind,
		Subject:  incident.Subject,
		Body:     body,
		EventID:  event.ID,
	}); err != nil {
		return err
	}
	// The audit record is a plain append to the incident history; it never
	// re-enters dispatch.
	if _, err := e.store.AddEvent(&db.Event{
		IncidentID: incident.ID,
		Kind:       db.EventKindNotified,
		Info: map[string]any{
			"provider":  provider.ID,
			"recipient": recipient.ID,
			"event":     event.ID,
		},
	}); err != nil {
		if e.strictAudit {
			return fmt.Errorf("%w: %v", ErrAuditFailed, err)
		}
		log.Warnw("delivery succeeded but audit record failed",
			"incident", incident.ID, "provider", provider.ID,
			"recipient", recipient.ID, "error", err)
	}
	return nil
}

func targetsKind(targets []db.EventKind, kind db.EventKind) bool {
	for _, target := range targets {
		if target == kind {
			return true
		}
	}
	return false
}
