package db

import (
	"time"
)

type ProviderKind string

type IncidentStatus string

type EventKind string

// Settings is the opaque key-value configuration blob carried by providers
// and recipients. Its semantics are provider-specific; the dispatch engine
// only reads a couple of well-known keys from it.
type Settings map[string]any

// Provider represents one configured channel instance. Its kind is validated
// at creation time and immutable afterwards.
type Provider struct {
	ID        string       `json:"id" bson:"_id,omitempty"`
	Kind      ProviderKind `json:"kind" bson:"kind"`
	Name      string       `json:"name" bson:"name"`
	Settings  Settings     `json:"settings" bson:"settings"`
	CreatedAt time.Time    `json:"createdAt" bson:"createdAt"`
}

// Recipient is a person's subscription to a provider. Its settings overlay
// the provider settings at dispatch time (recipient keys win).
type Recipient struct {
	ID         string    `json:"id" bson:"_id,omitempty"`
	ProviderID string    `json:"providerId" bson:"providerId"`
	User       string    `json:"user" bson:"user"`
	Settings   Settings  `json:"settings" bson:"settings"`
	CreatedAt  time.Time `json:"createdAt" bson:"createdAt"`
}

type Incident struct {
	ID        string         `json:"id" bson:"_id,omitempty"`
	Subject   string         `json:"subject" bson:"subject"`
	Status    IncidentStatus `json:"status" bson:"status"`
	CreatedAt time.Time      `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt" bson:"updatedAt"`
}

// IsOpen reports whether the incident is still open. Acknowledged and
// resolved incidents count as not open for suppression purposes.
func (i *Incident) IsOpen() bool {
	return i.Status == IncidentStatusOpen
}

// Event is an immutable entry in an incident's append-only history. Info is
// only populated on "notified" audit events and carries the provider,
// recipient and event references of the delivery being audited.
type Event struct {
	ID          string    `json:"id" bson:"_id,omitempty"`
	IncidentID  string    `json:"incidentId" bson:"incidentId"`
	Kind        EventKind `json:"kind" bson:"kind"`
	Description string    `json:"description" bson:"description,omitempty"`
	// EscalatedTo is the user reference the incident was escalated to.
	// Present only on escalated events.
	EscalatedTo string         `json:"escalatedTo,omitempty" bson:"escalatedTo,omitempty"`
	Info        map[string]any `json:"info,omitempty" bson:"info,omitempty"`
	CreatedAt   time.Time      `json:"createdAt" bson:"createdAt"`
}

// MergeSettings overlays the recipient settings on top of the provider
// settings and returns the result as a fresh map. Recipient keys win on
// conflict. The inputs are never mutated.
func MergeSettings(provider, recipient Settings) Settings {
	merged := make(Settings, len(provider)+len(recipient))
	for k, v := range provider {
		merged[k] = v
	}
	for k, v := range recipient {
		merged[k] = v
	}
	return merged
}
