package notifications

import (
	"fmt"

	"github.com/pagerline/incident-backend/db"
)

// Registry maps provider kinds to channel implementations. It is validated
// exhaustively at construction so a kind mismatch fails at startup rather
// than at first dispatch.
type Registry struct {
	channels map[db.ProviderKind]Channel
}

// NewRegistry builds a registry from the given channel set. Every known
// provider kind must be covered and no channel may be registered under an
// unknown kind.
func NewRegistry(channels map[db.ProviderKind]Channel) (*Registry, error) {
	for kind := range channels {
		if !db.IsProviderKindValid(string(kind)) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownProviderKind, kind)
		}
	}
	for _, kind := range db.ProviderKinds() {
		if channels[kind] == nil {
			return nil, fmt.Errorf("no channel registered for provider kind %q", kind)
		}
	}
	reg := &Registry{channels: make(map[db.ProviderKind]Channel, len(channels))}
	for kind, channel := range channels {
		reg.channels[kind] = channel
	}
	return reg, nil
}

// Channel returns the channel implementation for the provider kind.
func (r *Registry) Channel(kind db.ProviderKind) (Channel, error) {
	channel, ok := r.channels[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProviderKind, kind)
	}
	return channel, nil
}

// TargetEvents returns the contextual event kinds the provider/recipient
// combination wants to receive: the merged settings' "events" list when
// present, otherwise the channel's default set.
func TargetEvents(settings db.Settings, channel Channel) []db.EventKind {
	raw, ok := settings["events"]
	if !ok {
		return channel.DefaultTargetEvents()
	}
	var kinds []db.EventKind
	switch list := raw.(type) {
	case []db.EventKind:
		kinds = list
	case []string:
		for _, item := range list {
			kinds = append(kinds, db.EventKind(item))
		}
	case []any:
		for _, item := range list {
			if s, ok := item.(string); ok {
				kinds = append(kinds, db.EventKind(s))
			}
		}
	default:
		return channel.DefaultTargetEvents()
	}
	return kinds
}
