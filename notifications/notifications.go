// Package notifications defines the delivery-channel contract of the
// dispatch engine and the registry that maps provider kinds to channel
// implementations. The concrete channels live in the subpackages.
package notifications

import (
	"context"

	"github.com/pagerline/incident-backend/db"
)

// Notification is the payload a channel delivers: the merged settings of
// the dispatch, the contextual event kind as seen by the recipient, and the
// rendered body. Subject and EventID reference the incident being notified
// about; channels that build subjects or callback URLs use them.
type Notification struct {
	Settings db.Settings
	Kind     db.EventKind
	Subject  string
	Body     string
	EventID  string
}

// Channel is the capability set every delivery channel implements. New
// channels are added by implementing this pair and registering the
// implementation; the dispatch engine never changes.
type Channel interface {
	// Deliver sends the notification through the channel. Channel-specific
	// filtering inside Deliver (e.g. kinds without a message color) is a
	// silent no-op, not an error. A missing required setting surfaces as a
	// ConfigError before any I/O happens; transport failures surface as a
	// DeliveryError.
	Deliver(ctx context.Context, n *Notification) error
	// DefaultTargetEvents returns the contextual event kinds the channel
	// wants to receive when the merged settings carry no explicit "events"
	// filter.
	DefaultTargetEvents() []db.EventKind
}
