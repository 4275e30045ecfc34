package jwt

import "time"

// SetClock overrides the clock used by Token.
func (c *Credentials) SetClock(now func() time.Time) { c.now = now }
