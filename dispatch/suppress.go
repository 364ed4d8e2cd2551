package dispatch

import (
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.vocdoni.io/dvote/log"

	"github.com/pagerline/incident-backend/calendar"
	"github.com/pagerline/incident-backend/db"
)

// orConditionsKey is the merged-settings key holding the ordered list of
// suppression conditions. The gate is an OR of ANDs: delivery is allowed
// when at least one condition has none of its sub-checks vetoed.
const orConditionsKey = "or_conditions"

// Evaluator decides whether a dispatch must be suppressed. The calendar and
// the clock are injected so the rules are deterministic under test.
type Evaluator struct {
	Calendar calendar.Calendar
	Now      func() time.Time
}

func (e *Evaluator) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

// ShouldSkip evaluates the two suppression gates and returns true when
// either one vetoes the delivery. Both gates are pure; the short circuit is
// only an efficiency.
func (e *Evaluator) ShouldSkip(settings db.Settings, incident *db.Incident, kind db.EventKind) bool {
	return e.statusGateSkips(incident, kind) || e.conditionGateSkips(settings)
}

// statusGateSkips suppresses everything on a non-open incident except its
// closing-adjacent kinds: a late "opened" notification must not re-fire
// after resolution, while "acknowledged" and "resolved" still do.
func (*Evaluator) statusGateSkips(incident *db.Incident, kind db.EventKind) bool {
	if incident.IsOpen() {
		return false
	}
	return kind != db.EventKindAcknowledged && kind != db.EventKindResolved
}

// conditionGateSkips suppresses the delivery when the settings carry a
// non-empty condition list and no condition matches.
func (e *Evaluator) conditionGateSkips(settings db.Settings) bool {
	conditions := orConditions(settings)
	if len(conditions) == 0 {
		return false
	}
	for _, condition := range conditions {
		if e.conditionMatches(condition) {
			return false
		}
	}
	return true
}

// conditionMatches returns true when none of the condition's sub-checks
// vetoes it. A condition without any known key always matches.
func (e *Evaluator) conditionMatches(condition map[string]any) bool {
	now := e.now()
	if _, ok := condition["japanese_weekday"]; ok {
		if e.Calendar.IsNonBusinessDay(now) {
			return false
		}
	}
	if _, ok := condition["not_japanese_weekday"]; ok {
		if !e.Calendar.IsNonBusinessDay(now) {
			return false
		}
	}
	if raw, ok := condition["between"]; ok {
		inside, err := inTimeRange(raw, now)
		if err != nil {
			log.Warnw("malformed between condition", "value", raw, "error", err)
			return false
		}
		if !inside {
			return false
		}
	}
	if raw, ok := condition["not_between"]; ok {
		inside, err := inTimeRange(raw, now)
		if err != nil {
			log.Warnw("malformed not_between condition", "value", raw, "error", err)
			return false
		}
		if inside {
			return false
		}
	}
	return true
}

// inTimeRange reports whether the wall-clock time of now falls inside the
// "HH:MM-HH:MM" range. Ranges do not wrap past midnight: a range whose end
// precedes its start never contains anything. That limitation is inherited
// deliberately; see DESIGN.md.
func inTimeRange(raw any, now time.Time) (bool, error) {
	spec, ok := raw.(string)
	if !ok {
		return false, fmt.Errorf("expected string, got %T", raw)
	}
	bounds := strings.SplitN(spec, "-", 2)
	if len(bounds) != 2 {
		return false, fmt.Errorf("expected HH:MM-HH:MM, got %q", spec)
	}
	start, err := minutesOfDay(bounds[0])
	if err != nil {
		return false, err
	}
	end, err := minutesOfDay(bounds[1])
	if err != nil {
		return false, err
	}
	current := now.Hour()*60 + now.Minute()
	return start <= current && current <= end, nil
}

func minutesOfDay(s string) (int, error) {
	parsed, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", s, err)
	}
	return parsed.Hour()*60 + parsed.Minute(), nil
}

// orConditions extracts the condition list from the settings. Settings
// decoded from BSON arrive as primitive.A/primitive.M, settings built in
// Go as []any or typed slices; all shapes are accepted.
func orConditions(settings db.Settings) []map[string]any {
	raw, ok := settings[orConditionsKey]
	if !ok {
		return nil
	}
	var items []any
	switch list := raw.(type) {
	case []map[string]any:
		conditions := make([]map[string]any, len(list))
		copy(conditions, list)
		return conditions
	case []any:
		items = list
	case primitive.A:
		items = list
	default:
		log.Warnw("malformed or_conditions setting, ignoring", "type", fmt.Sprintf("%T", raw))
		return nil
	}
	var conditions []map[string]any
	for _, item := range items {
		switch condition := item.(type) {
		case map[string]any:
			conditions = append(conditions, condition)
		case primitive.M:
			conditions = append(conditions, condition)
		default:
			log.Warnw("malformed or_conditions entry, ignoring", "type", fmt.Sprintf("%T", item))
		}
	}
	return conditions
}
