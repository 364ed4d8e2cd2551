package api

import (
	"github.com/pagerline/incident-backend/db"
)

// ProviderInfo is the request body for creating or updating a provider.
type ProviderInfo struct {
	Kind     db.ProviderKind `json:"kind"`
	Name     string          `json:"name"`
	Settings db.Settings     `json:"settings"`
}

// RecipientInfo is the request body for subscribing or updating a recipient.
type RecipientInfo struct {
	User     string      `json:"user"`
	Settings db.Settings `json:"settings"`
}

// IncidentInfo is the request body for creating an incident.
type IncidentInfo struct {
	Subject string `json:"subject"`
}

// EventInfo is the request body for appending an event to an incident.
type EventInfo struct {
	Kind        db.EventKind `json:"kind"`
	Description string       `json:"description,omitempty"`
	EscalatedTo string       `json:"escalatedTo,omitempty"`
}

// CreatedResponse carries the identifier of a newly created document.
type CreatedResponse struct {
	ID string `json:"id"`
}

// ProvidersResponse is the response body for the provider list.
type ProvidersResponse struct {
	Providers []*db.Provider `json:"providers"`
}

// RecipientsResponse is the response body for a provider's recipient list.
type RecipientsResponse struct {
	Recipients []*db.Recipient `json:"recipients"`
}

// EventsResponse is the response body for an incident's event history.
type EventsResponse struct {
	Events []*db.Event `json:"events"`
}
