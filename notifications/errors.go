package notifications

import (
	"errors"
	"fmt"
)

// ErrUnknownProviderKind is returned by NewRegistry when a channel is
// registered (or missing) for a kind outside the known variant set. It is a
// construction-time error; dispatch never sees an unknown kind.
var ErrUnknownProviderKind = errors.New("unknown provider kind")

// ConfigError reports a required channel setting that is absent or
// malformed in the merged settings. It is fatal for the dispatch it occurs
// in and is never retried.
type ConfigError struct {
	Key    string
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid setting %q: %s", e.Key, e.Reason)
	}
	return fmt.Sprintf("missing required setting %q", e.Key)
}

// DeliveryError reports a transport-level failure from a channel. The core
// surfaces it without retrying; retry policy belongs to the caller.
type DeliveryError struct {
	Channel string
	Err     error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("%s delivery failed: %v", e.Channel, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}
