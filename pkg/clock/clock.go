package clock

import (
	"fmt"
	"time"
	_ "time/tzdata" // containers often ship without zoneinfo
)

// DateKeyLayout is the YYYY-MM-DD layout used for due-date comparisons.
const DateKeyLayout = "2006-01-02"

// Clock yields the current date in the gym's timezone.
type Clock struct {
	loc *time.Location
	now func() time.Time
}

// New returns a Clock for the named IANA timezone.
func New(timezone string) (*Clock, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %q: %w", timezone, err)
	}
	return &Clock{loc: loc, now: time.Now}, nil
}

// Fixed returns a Clock frozen at t, for tests and offline tooling.
func Fixed(t time.Time) *Clock {
	return &Clock{loc: t.Location(), now: func() time.Time { return t }}
}

// Now returns the current time in the gym timezone.
func (c *Clock) Now() time.Time {
	return c.now().In(c.loc)
}

// TodayKey returns today's gym-local date as YYYY-MM-DD.
func (c *Clock) TodayKey() string {
	return c.Now().Format(DateKeyLayout)
}
