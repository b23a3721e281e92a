package openinghours

import (
	"time"

	"github.com/teambition/rrule-go"
)

// This file adapts zcalendar's weekdayComponent (a from/to weekday range
// tested by brute-force enumeration, 1..7 Monday..Sunday, wrap rejected) to
// this grammar's 0..6 Monday..Sunday convention, wrap-through-Sunday ranges
// (Fr-Mo), and the nth-occurrence-in-month mask zcalendar never needed.

// rruleWeekdays maps this grammar's 0..6 Monday..Sunday to rrule-go's
// weekday constants, used by containsNth below.
var rruleWeekdays = [7]rrule.Weekday{
	rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA, rrule.SU,
}

// contains reports whether day (0..6, Monday..Sunday) falls in the range,
// honoring a wrap through Sunday when EndDay < BeginDay (Fr-Mo).
func (wr WeekdayRange) contains(day int) bool {
	if !wr.HasEnd {
		return day == wr.BeginDay
	}
	if wr.EndDay >= wr.BeginDay {
		return day >= wr.BeginDay && day <= wr.EndDay
	}
	return day >= wr.BeginDay || day <= wr.EndDay
}

// containsNth reports whether date falls on one of the weekday(s) of this
// range AND on one of the nth-occurrence-in-month positions recorded in
// wr.Nth (an empty Nth matches every occurrence). The nth-occurrence test
// is delegated to github.com/teambition/rrule-go, building a
// FREQ=MONTHLY;BYDAY=<n><day> rule for the date's weekday per requested
// position and checking membership with Between — the same recurrence engine
// the pack already trusts for on-call rotation scheduling, rather than
// hand-rolled "count occurrences since day 1" arithmetic.
func (wr WeekdayRange) containsNth(date time.Time) (bool, error) {
	if !wr.contains(dayIndex(date)) {
		return false, nil
	}
	if len(wr.Nth) == 0 {
		return true, nil
	}

	monthStart := time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, date.Location())
	monthEnd := monthStart.AddDate(0, 1, 0)

	for _, n := range wr.Nth {
		rule, err := rrule.NewRRule(rrule.ROption{
			Freq:      rrule.MONTHLY,
			Byweekday: []rrule.Weekday{weekdayForIndex(dayIndex(date)).Nth(n)},
			Dtstart:   monthStart,
			Count:     1,
		})
		if err != nil {
			return false, err
		}
		for _, occ := range rule.Between(monthStart, monthEnd, true) {
			if sameDate(occ, date) {
				return true, nil
			}
		}
	}
	return false, nil
}

// weekdayForIndex returns the rrule.Weekday for a 0..6 Monday..Sunday index.
func weekdayForIndex(day int) rrule.Weekday { return rruleWeekdays[day] }

// dayIndex converts a time.Time's Go weekday (Sunday=0) to this grammar's
// 0..6 Monday..Sunday convention.
func dayIndex(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 6
	}
	return wd - 1
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
