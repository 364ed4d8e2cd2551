package dispatch

import (
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/pagerline/incident-backend/db"
)

func TestClassify(t *testing.T) {
	c := qt.New(t)
	alice := &db.Recipient{ID: "r1", User: "alice"}
	bob := &db.Recipient{ID: "r2", User: "bob"}
	// an escalation to alice is escalated_to_me for alice only
	escalation := &db.Event{Kind: db.EventKindEscalated, EscalatedTo: "alice"}
	c.Assert(Classify(escalation, alice), qt.Equals, db.EventKindEscalatedToMe)
	c.Assert(Classify(escalation, bob), qt.Equals, db.EventKindEscalated)
	// every other kind passes through for everyone
	for _, kind := range []db.EventKind{
		db.EventKindOpened, db.EventKindAcknowledged,
		db.EventKindResolved, db.EventKindCommented,
	} {
		event := &db.Event{Kind: kind}
		c.Assert(Classify(event, alice), qt.Equals, kind)
		c.Assert(Classify(event, bob), qt.Equals, kind)
	}
	// an escalation without a target never specializes
	c.Assert(Classify(&db.Event{Kind: db.EventKindEscalated}, alice), qt.Equals, db.EventKindEscalated)
}
