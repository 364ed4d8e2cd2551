package api

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"go.vocdoni.io/dvote/log"

	"github.com/pagerline/incident-backend/db"
	"github.com/pagerline/incident-backend/errors"
)

// createIncidentHandler opens a new incident.
func (a *API) createIncidentHandler(w http.ResponseWriter, r *http.Request) {
	info := &IncidentInfo{}
	if err := json.NewDecoder(r.Body).Decode(info); err != nil {
		errors.ErrMalformedBody.Write(w)
		return
	}
	if info.Subject == "" {
		errors.ErrInvalidIncident.With("subject is required").Write(w)
		return
	}
	now := time.Now()
	id, err := a.db.SetIncident(&db.Incident{
		Subject:   info.Subject,
		Status:    db.IncidentStatusOpen,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		errors.ErrStorageFailure.WithErr(err).Write(w)
		return
	}
	httpWriteJSON(w, &CreatedResponse{ID: id})
}

// incidentHandler returns the incident with the given ID.
func (a *API) incidentHandler(w http.ResponseWriter, r *http.Request) {
	incident, ok := a.incidentFromRequest(w, r)
	if !ok {
		return
	}
	httpWriteJSON(w, incident)
}

// eventsHandler returns the full event history of an incident, audit
// records included.
func (a *API) eventsHandler(w http.ResponseWriter, r *http.Request) {
	incident, ok := a.incidentFromRequest(w, r)
	if !ok {
		return
	}
	events, err := a.db.EventsByIncident(incident.ID)
	if err != nil {
		errors.ErrStorageFailure.WithErr(err).Write(w)
		return
	}
	httpWriteJSON(w, &EventsResponse{Events: events})
}

// createEventHandler appends a lifecycle event to an incident, applies the
// status transition the event kind implies and fans the event out to every
// subscribed recipient. Dispatch outcomes never fail the request: a
// suppressed or failed delivery is the engine's business, the event itself
// is already part of the history.
func (a *API) createEventHandler(w http.ResponseWriter, r *http.Request) {
	incident, ok := a.incidentFromRequest(w, r)
	if !ok {
		return
	}
	info := &EventInfo{}
	if err := json.NewDecoder(r.Body).Decode(info); err != nil {
		errors.ErrMalformedBody.Write(w)
		return
	}
	if !db.IsEventKindValid(string(info.Kind)) {
		errors.ErrInvalidEventKind.Withf("%q", info.Kind).Write(w)
		return
	}
	event := &db.Event{
		IncidentID:  incident.ID,
		Kind:        info.Kind,
		Description: info.Description,
		EscalatedTo: info.EscalatedTo,
		CreatedAt:   time.Now(),
	}
	id, err := a.db.AddEvent(event)
	if err != nil {
		if stderrors.Is(err, db.ErrInvalidData) {
			errors.ErrInvalidEventKind.WithErr(err).Write(w)
			return
		}
		errors.ErrStorageFailure.WithErr(err).Write(w)
		return
	}
	event.ID = id
	// apply the status transition before dispatch so the suppression rules
	// see the status the event implies
	if status, ok := db.StatusForEventKind(event.Kind); ok && status != incident.Status {
		if err := a.db.SetIncidentStatus(incident.ID, status); err != nil {
			errors.ErrStorageFailure.WithErr(err).Write(w)
			return
		}
	}
	a.dispatchEvent(r, event)
	httpWriteJSON(w, &CreatedResponse{ID: id})
}

// dispatchEvent fans the event out to every recipient of every provider,
// one dispatch per (provider, recipient) pair, in parallel. Failures are
// logged and do not affect the other pairs.
func (a *API) dispatchEvent(r *http.Request, event *db.Event) {
	providers, err := a.db.Providers()
	if err != nil {
		log.Errorw(err, "cannot list providers for dispatch")
		return
	}
	var wg sync.WaitGroup
	for _, provider := range providers {
		recipients, err := a.db.RecipientsByProvider(provider.ID)
		if err != nil {
			log.Errorw(err, "cannot list recipients for dispatch")
			continue
		}
		for _, recipient := range recipients {
			wg.Add(1)
			go func(provider *db.Provider, recipient *db.Recipient) {
				defer wg.Done()
				if err := a.engine.Notify(r.Context(), provider, recipient, event); err != nil {
					log.Warnw("notification dispatch failed",
						"provider", provider.ID, "recipient", recipient.ID,
						"event", event.ID, "error", err)
				}
			}(provider, recipient)
		}
	}
	wg.Wait()
}

func (a *API) incidentFromRequest(w http.ResponseWriter, r *http.Request) (*db.Incident, bool) {
	incidentID := chi.URLParam(r, "incidentID")
	if incidentID == "" {
		errors.ErrMalformedURLParam.Write(w)
		return nil, false
	}
	incident, err := a.db.Incident(incidentID)
	if err != nil {
		if stderrors.Is(err, db.ErrNotFound) {
			errors.ErrIncidentNotFound.Write(w)
			return nil, false
		}
		errors.ErrStorageFailure.WithErr(err).Write(w)
		return nil, false
	}
	return incident, true
}
