package dispatch

import (
	"errors"
	"fmt"

	"github.com/pagerline/incident-backend/db"
	"github.com/pagerline/incident-backend/templates"
)

// ErrNoTemplate is returned when neither the kind-specific template nor the
// default template exists for a channel. It is fatal for the dispatch.
var ErrNoTemplate = errors.New("no notification template matched")

// renderContext is the data every notification template is executed with.
type renderContext struct {
	Incident *db.Incident
	Event    *db.Event
	Kind     db.EventKind
}

// ResolveBody renders the notification body for the channel and contextual
// kind, walking the fallback chain: the kind-specific template first, then
// the channel default. A not-found signal on a non-terminal candidate moves
// to the next one; any other renderer failure propagates immediately.
func ResolveBody(renderer templates.Renderer, channel db.ProviderKind, kind db.EventKind, data renderContext) (string, error) {
	candidates := []string{string(kind), templates.DefaultKind}
	for _, candidate := range candidates {
		body, err := renderer.Render(channel, candidate, data)
		if err == nil {
			return body, nil
		}
		if !errors.Is(err, templates.ErrNotFound) {
			return "", err
		}
	}
	return "", fmt.Errorf("%w: channel %s, kind %s", ErrNoTemplate, channel, kind)
}
