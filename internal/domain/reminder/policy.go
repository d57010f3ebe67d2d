// Package reminder decides which reminder class applies to a deadline on a
// given day.
package reminder

import (
	"time"

	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/internal/domain/delivery"
)

// Class is the kind of reminder to send.
type Class string

const (
	None     Class = ""
	Upcoming Class = "proximo"
	Overdue  Class = "vencido"
)

// Policy holds the day offsets that trigger each class. A missed daily run
// skips that class for the period; there is no catch-up.
type Policy struct {
	UpcomingDays int
	OverdueDays  int
	Location     *time.Location
}

// Default is 3 days before the deadline and 1 day after it.
var Default = Policy{UpcomingDays: 3, OverdueDays: -1, Location: time.UTC}

// DaysUntil is deadline minus today counted in calendar dates of loc.
func DaysUntil(deadline, today time.Time, loc *time.Location) int {
	if loc == nil {
		loc = time.UTC
	}
	d := dateOf(deadline.In(loc))
	t := dateOf(today.In(loc))
	return int(d.Sub(t).Hours() / 24)
}

// Classify returns the reminder class for a deadline on today.
func (p Policy) Classify(deadline, today time.Time) Class {
	switch DaysUntil(deadline, today, p.Location) {
	case p.UpcomingDays:
		return Upcoming
	case p.OverdueDays:
		return Overdue
	}
	return None
}

// Eligible reports whether a delivery in status s may receive reminders.
func Eligible(s delivery.Status) bool {
	return s.Remindable()
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
