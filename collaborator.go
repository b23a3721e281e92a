package openinghours

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// This file is C8: the collaborator interfaces the evaluator queries, plus
// the small per-call day cache mentioned in §5 and §4.6 ("a simple
// optimization caches the last computed day"). The cache is backed by
// github.com/hashicorp/golang-lru/v2 rather than a single hand-rolled "last
// day" slot, so a NextInterval walk that oscillates around a boundary still
// gets cache hits.

// Holiday is a single named public or school holiday date.
type Holiday struct {
	Date time.Time
	Name string
}

// SchoolHolidayRange is a contiguous school-holiday period.
type SchoolHolidayRange struct {
	Begin, End time.Time
}

// HolidayProvider resolves public holidays for a region and year. Its
// absence at validation time yields MissingRegion for any expression that
// references PH.
type HolidayProvider interface {
	PublicHolidays(region string, year int) ([]Holiday, error)
}

// SchoolHolidayProvider resolves school holidays for a region and year.
// The engine never calls it: any expression that references SH surfaces
// UnsupportedFeature regardless of whether a provider is configured (§4.7).
type SchoolHolidayProvider interface {
	SchoolHolidays(region string, year int) ([]SchoolHolidayRange, error)
}

// SunEventProvider resolves the wall-clock time of a sun/twilight event for
// a date and location. Its absence at validation time yields
// MissingLocation for any expression that references a variable time.
type SunEventProvider interface {
	SunEvent(kind EventKind, date time.Time, lat, lon float64) (time.Time, error)
}

// Collaborators bundles the external capability providers of §4.7 plus the
// location an expression should be evaluated against. The zero value has no
// providers configured, which is a legitimate (if unevaluable-for-some-
// expressions) value — see Expression.Validate.
type Collaborators struct {
	Holidays       HolidayProvider
	SchoolHolidays SchoolHolidayProvider
	SunEvents      SunEventProvider

	Region              string
	Latitude, Longitude float64

	dayCache *lru.Cache[civilDate, dayPlan]
}

// defaultDayCacheSize bounds the evaluator's per-day memoization. A
// NextInterval walk rarely needs to remember more than a handful of
// adjacent days at once.
const defaultDayCacheSize = 64

// NewCollaborators builds a Collaborators value with its day cache
// initialized. Using the zero value directly is fine too: cache() lazily
// allocates the cache on first use. IntervalAt and NextInterval start every
// call with a fresh cache.
func NewCollaborators(holidays HolidayProvider, schoolHolidays SchoolHolidayProvider, sunEvents SunEventProvider, region string, lat, lon float64) Collaborators {
	cache, _ := lru.New[civilDate, dayPlan](defaultDayCacheSize)
	return Collaborators{
		Holidays:       holidays,
		SchoolHolidays: schoolHolidays,
		SunEvents:      sunEvents,
		Region:         region,
		Latitude:       lat,
		Longitude:      lon,
		dayCache:       cache,
	}
}

func (c *Collaborators) cache() *lru.Cache[civilDate, dayPlan] {
	if c.dayCache == nil {
		c.dayCache, _ = lru.New[civilDate, dayPlan](defaultDayCacheSize)
	}
	return c.dayCache
}

// civilDate is a timezone-free calendar day, used as the day-cache key.
type civilDate struct {
	Year, Month, Day int
}

func civilDateOf(t time.Time) civilDate {
	y, m, d := t.Date()
	return civilDate{Year: y, Month: int(m), Day: d}
}

func (d civilDate) time(loc *time.Location) time.Time {
	return time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, loc)
}

func (d civilDate) addDays(n int) civilDate {
	t := d.time(time.UTC).AddDate(0, 0, n)
	return civilDateOf(t)
}
