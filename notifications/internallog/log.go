// Package internallog implements the internal-log delivery channel: it
// writes the rendered body to the operational log. It is mostly useful for
// auditing and for local development.
package internallog

import (
	"context"

	"go.vocdoni.io/dvote/log"

	"github.com/pagerline/incident-backend/db"
	"github.com/pagerline/incident-backend/notifications"
)

type Log struct{}

func New() *Log {
	return &Log{}
}

// DefaultTargetEvents returns every contextual kind: the log channel wants
// everything.
func (*Log) DefaultTargetEvents() []db.EventKind {
	return []db.EventKind{
		db.EventKindEscalated,
		db.EventKindEscalatedToMe,
		db.EventKindOpened,
		db.EventKindAcknowledged,
		db.EventKindResolved,
		db.EventKindCommented,
	}
}

func (*Log) Deliver(_ context.Context, n *notifications.Notification) error {
	log.Infow("incident notification", "kind", n.Kind, "subject", n.Subject, "body", n.Body)
	return nil
}
