package db

const (
	// provider kinds
	ProviderKindMail        ProviderKind = "mail"
	ProviderKindFile        ProviderKind = "file"
	ProviderKindInternalLog ProviderKind = "internal_log"
	ProviderKindChat        ProviderKind = "chat"
	ProviderKindVoiceCall   ProviderKind = "voice_call"
	// incident statuses
	IncidentStatusOpen         IncidentStatus = "open"
	IncidentStatusAcknowledged IncidentStatus = "acknowledged"
	IncidentStatusResolved     IncidentStatus = "resolved"
	// event kinds
	EventKindEscalated    EventKind = "escalated"
	EventKindOpened       EventKind = "opened"
	EventKindAcknowledged EventKind = "acknowledged"
	EventKindResolved     EventKind = "resolved"
	EventKindCommented    EventKind = "commented"
	// EventKindEscalatedToMe is a contextual kind produced by the dispatch
	// classifier. It is never stored on an event.
	EventKindEscalatedToMe EventKind = "escalated_to_me"
	// EventKindNotified is the audit record appended after a successful
	// delivery. It is never dispatched itself.
	EventKindNotified EventKind = "notified"
)

// validProviderKinds is a map that contains the valid provider kinds
var validProviderKinds = map[ProviderKind]bool{
	ProviderKindMail:        true,
	ProviderKindFile:        true,
	ProviderKindInternalLog: true,
	ProviderKindChat:        true,
	ProviderKindVoiceCall:   true,
}

// IsProviderKindValid function checks if the provider kind is valid
func IsProviderKindValid(pk string) bool {
	_, valid := validProviderKinds[ProviderKind(pk)]
	return valid
}

// ProviderKinds returns the set of known provider kinds.
func ProviderKinds() []ProviderKind {
	kinds := make([]ProviderKind, 0, len(validProviderKinds))
	for k := range validProviderKinds {
		kinds = append(kinds, k)
	}
	return kinds
}

// validEventKinds is a map that contains the event kinds accepted from the
// outside (the contextual and audit kinds are derived internally).
var validEventKinds = map[EventKind]bool{
	EventKindEscalated:    true,
	EventKindOpened:       true,
	EventKindAcknowledged: true,
	EventKindResolved:     true,
	EventKindCommented:    true,
}

// IsEventKindValid function checks if the event kind is a storable kind.
func IsEventKindValid(ek string) bool {
	_, valid := validEventKinds[EventKind(ek)]
	return valid
}

// validIncidentStatuses is a map that contains the valid incident statuses
var validIncidentStatuses = map[IncidentStatus]bool{
	IncidentStatusOpen:         true,
	IncidentStatusAcknowledged: true,
	IncidentStatusResolved:     true,
}

// IsIncidentStatusValid function checks if the incident status is valid
func IsIncidentStatusValid(is string) bool {
	_, valid := validIncidentStatuses[IncidentStatus(is)]
	return valid
}

// statusForEventKind maps lifecycle event kinds to the incident status they
// imply. Kinds without an entry leave the status untouched.
var statusForEventKind = map[EventKind]IncidentStatus{
	EventKindOpened:       IncidentStatusOpen,
	EventKindEscalated:    IncidentStatusOpen,
	EventKindAcknowledged: IncidentStatusAcknowledged,
	EventKindResolved:     IncidentStatusResolved,
}

// StatusForEventKind returns the incident status implied by the event kind
// and whether the kind implies one at all.
func StatusForEventKind(ek EventKind) (IncidentStatus, bool) {
	status, ok := statusForEventKind[ek]
	return status, ok
}
