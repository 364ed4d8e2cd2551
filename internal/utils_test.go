package internal

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestValidEmail(t *testing.T) {
	c := qt.New(t)
	c.Assert(ValidEmail("oncall@example.com"), qt.IsTrue)
	c.Assert(ValidEmail("on.call+pager@sub.example.co.jp"), qt.IsTrue)
	c.Assert(ValidEmail("oncall"), qt.IsFalse)
	c.Assert(ValidEmail("oncall@"), qt.IsFalse)
	c.Assert(ValidEmail("@example.com"), qt.IsFalse)
}
