// Package dispatch decides whether a notification should be sent for an
// incident lifecycle event, to which recipient and channel, with what
// rendered body, and records that it happened.
package dispatch

import "github.com/pagerline/incident-backend/db"

// Classify maps a stored event to the contextual kind a specific recipient
// sees: an escalation aimed at the recipient personally becomes
// escalated_to_me, everything else passes through unchanged.
func Classify(event *db.Event, recipient *db.Recipient) db.EventKind {
	if event.Kind == db.EventKindEscalated && event.EscalatedTo != "" && event.EscalatedTo == recipient.User {
		return db.EventKindEscalatedToMe
	}
	return event.Kind
}
