// Package testchannel provides a recording Channel implementation for
// tests: it stores every delivered notification in memory and can be told
// to fail.
package testchannel

import (
	"context"
	"sync"

	"github.com/pagerline/incident-backend/db"
	"github.com/pagerline/incident-backend/notifications"
)

type Channel struct {
	mu        sync.Mutex
	delivered []*notifications.Notification

	// Targets is returned by DefaultTargetEvents.
	Targets []db.EventKind
	// Err, when set, is returned by every Deliver call.
	Err error
}

func New(targets ...db.EventKind) *Channel {
	return &Channel{Targets: targets}
}

func (c *Channel) DefaultTargetEvents() []db.EventKind {
	return c.Targets
}

func (c *Channel) Deliver(_ context.Context, n *notifications.Notification) error {
	if c.Err != nil {
		return c.Err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.delivered = append(c.delivered, n)
	return nil
}

// Delivered returns a copy of the notifications delivered so far.
func (c *Channel) Delivered() []*notifications.Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*notifications.Notification, len(c.delivered))
	copy(out, c.delivered)
	return out
}
