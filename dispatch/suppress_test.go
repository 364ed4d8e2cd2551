package dispatch

import (
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"github.com/pagerline/incident-backend/calendar"
	"github.com/pagerline/incident-backend/db"
)

// fixedEvaluator returns an evaluator pinned to the given wall-clock time,
// with the calendar answering nonBusiness for every date.
func fixedEvaluator(hour, minute int, nonBusiness bool) *Evaluator {
	return &Evaluator{
		Calendar: calendar.Fixed(nonBusiness),
		Now: func() time.Time {
			return time.Date(2024, 6, 5, hour, minute, 0, 0, time.Local)
		},
	}
}

func TestStatusGate(t *testing.T) {
	c := qt.New(t)
	eval := fixedEvaluator(10, 0, false)
	open := &db.Incident{Status: db.IncidentStatusOpen}
	resolved := &db.Incident{Status: db.IncidentStatusResolved}
	// nothing is suppressed on an open incident
	for _, kind := range []db.EventKind{
		db.EventKindOpened, db.EventKindEscalated, db.EventKindEscalatedToMe,
		db.EventKindAcknowledged, db.EventKindResolved, db.EventKindCommented,
	} {
		c.Assert(eval.ShouldSkip(db.Settings{}, open, kind), qt.IsFalse, qt.Commentf("kind %s", kind))
	}
	// on a closed incident only the closing-adjacent kinds survive
	for kind, skipped := range map[db.EventKind]bool{
		db.EventKindOpened:       true,
		db.EventKindEscalated:    true,
		db.EventKindCommented:    true,
		db.EventKindAcknowledged: false,
		db.EventKindResolved:     false,
	} {
		c.Assert(eval.ShouldSkip(db.Settings{}, resolved, kind), qt.Equals, skipped, qt.Commentf("kind %s", kind))
	}
	// the status gate wins regardless of condition settings
	settings := db.Settings{"or_conditions": []any{map[string]any{}}}
	c.Assert(eval.ShouldSkip(settings, resolved, db.EventKindOpened), qt.IsTrue)
}

func TestConditionGateEmpty(t *testing.T) {
	c := qt.New(t)
	eval := fixedEvaluator(10, 0, true)
	open := &db.Incident{Status: db.IncidentStatusOpen}
	// absent or empty condition lists never cause a skip
	c.Assert(eval.ShouldSkip(db.Settings{}, open, db.EventKindOpened), qt.IsFalse)
	c.Assert(eval.ShouldSkip(db.Settings{"or_conditions": []any{}}, open, db.EventKindOpened), qt.IsFalse)
}

func TestConditionGateTimeRange(t *testing.T) {
	c := qt.New(t)
	open := &db.Incident{Status: db.IncidentStatusOpen}
	settings := db.Settings{"or_conditions": []any{
		map[string]any{"not_between": "09:30-18:30"},
	}}
	// inside the range the single condition is vetoed, none match, skip
	c.Assert(fixedEvaluator(10, 0, false).ShouldSkip(settings, open, db.EventKindOpened), qt.IsTrue)
	// outside the range the condition matches, no skip
	c.Assert(fixedEvaluator(20, 0, false).ShouldSkip(settings, open, db.EventKindOpened), qt.IsFalse)

	inverted := db.Settings{"or_conditions": []any{
		map[string]any{"between": "09:30-18:30"},
	}}
	c.Assert(fixedEvaluator(10, 0, false).ShouldSkip(inverted, open, db.EventKindOpened), qt.IsFalse)
	c.Assert(fixedEvaluator(20, 0, false).ShouldSkip(inverted, open, db.EventKindOpened), qt.IsTrue)
	// range bounds are inclusive
	c.Assert(fixedEvaluator(9, 30, false).ShouldSkip(inverted, open, db.EventKindOpened), qt.IsFalse)
	c.Assert(fixedEvaluator(18, 30, false).ShouldSkip(inverted, open, db.EventKindOpened), qt.IsFalse)
}

func TestConditionGateCalendar(t *testing.T) {
	c := qt.New(t)
	open := &db.Incident{Status: db.IncidentStatusOpen}
	weekdayOnly := db.Settings{"or_conditions": []any{
		map[string]any{"japanese_weekday": true},
	}}
	holidayOnly := db.Settings{"or_conditions": []any{
		map[string]any{"not_japanese_weekday": true},
	}}
	// on a business day only the weekday condition matches
	c.Assert(fixedEvaluator(10, 0, false).ShouldSkip(weekdayOnly, open, db.EventKindOpened), qt.IsFalse)
	c.Assert(fixedEvaluator(10, 0, false).ShouldSkip(holidayOnly, open, db.EventKindOpened), qt.IsTrue)
	// on a holiday it is the other way around
	c.Assert(fixedEvaluator(10, 0, true).ShouldSkip(weekdayOnly, open, db.EventKindOpened), qt.IsTrue)
	c.Assert(fixedEvaluator(10, 0, true).ShouldSkip(holidayOnly, open, db.EventKindOpened), qt.IsFalse)
}

func TestConditionGateOrOfAnds(t *testing.T) {
	c := qt.New(t)
	open := &db.Incident{Status: db.IncidentStatusOpen}
	// business day AND inside office hours, OR non-business day
	settings := db.Settings{"or_conditions": []any{
		map[string]any{"japanese_weekday": true, "between": "09:00-18:00"},
		map[string]any{"not_japanese_weekday": true},
	}}
	// weekday at 10:00: first condition matches
	c.Assert(fixedEvaluator(10, 0, false).ShouldSkip(settings, open, db.EventKindOpened), qt.IsFalse)
	// weekday at 20:00: first vetoed by the range, second by the calendar
	c.Assert(fixedEvaluator(20, 0, false).ShouldSkip(settings, open, db.EventKindOpened), qt.IsTrue)
	// holiday at 20:00: second condition matches
	c.Assert(fixedEvaluator(20, 0, true).ShouldSkip(settings, open, db.EventKindOpened), qt.IsFalse)
	// a condition without known keys always matches
	catchAll := db.Settings{"or_conditions": []any{
		map[string]any{"between": "09:00-10:00"},
		map[string]any{"comment": "always"},
	}}
	c.Assert(fixedEvaluator(20, 0, false).ShouldSkip(catchAll, open, db.EventKindOpened), qt.IsFalse)
}

func TestConditionGateNoMidnightWrap(t *testing.T) {
	c := qt.New(t)
	open := &db.Incident{Status: db.IncidentStatusOpen}
	// a wrapped range never contains anything, so the condition is always
	// vetoed and the gate always skips
	settings := db.Settings{"or_conditions": []any{
		map[string]any{"between": "22:00-02:00"},
	}}
	c.Assert(fixedEvaluator(23, 0, false).ShouldSkip(settings, open, db.EventKindOpened), qt.IsTrue)
	c.Assert(fixedEvaluator(1, 0, false).ShouldSkip(settings, open, db.EventKindOpened), qt.IsTrue)
	c.Assert(fixedEvaluator(12, 0, false).ShouldSkip(settings, open, db.EventKindOpened), qt.IsTrue)
}

func TestConditionGateMalformed(t *testing.T) {
	c := qt.New(t)
	open := &db.Incident{Status: db.IncidentStatusOpen}
	// a malformed range vetoes its condition
	broken := db.Settings{"or_conditions": []any{
		map[string]any{"between": "not-a-range"},
	}}
	c.Assert(fixedEvaluator(10, 0, false).ShouldSkip(broken, open, db.EventKindOpened), qt.IsTrue)
	// a malformed list is ignored entirely
	garbage := db.Settings{"or_conditions": "tomorrow"}
	c.Assert(fixedEvaluator(10, 0, false).ShouldSkip(garbage, open, db.EventKindOpened), qt.IsFalse)
}
