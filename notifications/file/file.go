// Package file implements the file delivery channel. It intentionally does
// nothing and targets no events: it reserves the provider kind for a future
// disk-archival channel without changing the dispatch engine.
package file

import (
	"context"

	"github.com/pagerline/incident-backend/db"
	"github.com/pagerline/incident-backend/notifications"
)

type File struct{}

func New() *File {
	return &File{}
}

func (*File) DefaultTargetEvents() []db.EventKind {
	return nil
}

func (*File) Deliver(context.Context, *notifications.Notification) error {
	return nil
}
