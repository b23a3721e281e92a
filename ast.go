package openinghours

// This file is the AST (C4): the immutable-after-build tree produced by the
// parser and consumed read-only by the normalizer, the capability checker and
// the evaluator. Selector chains are flat ordered slices, not linked nodes —
// see DESIGN.md ("cyclic-looking selector trees").

// State is the open/closed/unknown tri-state a Rule resolves to.
type State int

const (
	// StateOpen is the default state of a Rule with a selector but no
	// explicit state token.
	StateOpen State = iota
	StateClosed
	StateUnknown
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateUnknown:
		return "unknown"
	default:
		return "open"
	}
}

// RuleKind distinguishes the three separators a Ruleset can chain rules with.
type RuleKind int

const (
	RuleNormal RuleKind = iota
	RuleAdditional
	RuleFallback
)

// EventKind names a sun/twilight variable time.
type EventKind int

const (
	eventNone EventKind = iota
	EventSunrise
	EventSunset
	EventDawn
	EventDusk
)

func (k EventKind) String() string {
	switch k {
	case EventSunrise:
		return "sunrise"
	case EventSunset:
		return "sunset"
	case EventDawn:
		return "dawn"
	case EventDusk:
		return "dusk"
	default:
		return ""
	}
}

// Time is either a wall-clock hour/minute (hour may run 0..48 to express
// wrapping past midnight) or a variable sun event with a signed offset in
// minutes.
type Time struct {
	Hour, Minute int
	Event        EventKind
	Offset       int
}

func wallTime(hour, minute int) Time { return Time{Hour: hour, Minute: minute} }

func (t Time) isEvent() bool { return t.Event != eventNone }

// minutesOfDay returns the time expressed in minutes after local midnight.
// For a wall-clock time this is simply Hour*60+Minute, left unreduced so
// callers can tell a next-day wrap (Hour >= 24) from a same-day time.
func (t Time) minutesOfDay() int { return t.Hour*60 + t.Minute }

// Timespan is a single range inside a TimeSelector.
type Timespan struct {
	Begin Time
	// End is the zero Time with HasEnd false for a bare point in time
	// (valid only under IncompatibleMode, see the validator).
	End       Time
	HasEnd    bool
	OpenEnd   bool
	PeriodMin int
	// PeriodClockForm marks a period written as "HH:MM" instead of plain
	// minutes (e.g. "10:00-16:00/1:30") — valid only in the non-implemented
	// points-in-time mode; the validator turns this into IncompatibleMode.
	PeriodClockForm bool
}

// TimeSelector is the head of an ordered list of Timespans; an instant
// matches the selector iff it falls in any of them.
type TimeSelector struct {
	Spans []Timespan
}

// WeekdayRange is one `WD[-WD][nth][offset]` clause.
type WeekdayRange struct {
	// BeginDay/EndDay are 0..6, Monday..Sunday. EndDay < BeginDay denotes
	// a wrap through Sunday (Fr-Mo).
	BeginDay, EndDay int
	HasEnd           bool
	// Nth is a set of signed month-occurrence positions, e.g. [1,-1] for
	// "first and last". Empty means every occurrence.
	Nth []int
	// DayOffset shifts the matched day by this many calendar days.
	DayOffset int
}

// HolidayKind distinguishes the two holiday tags of the grammar.
type HolidayKind int

const (
	PublicHoliday HolidayKind = iota
	SchoolHoliday
)

// HolidayRef is a `PH`/`SH` clause with its optional day offset.
type HolidayRef struct {
	Kind      HolidayKind
	DayOffset int
}

// WeekdaySelector holds the two parallel sub-sequences described in §3:
// ordinary weekday ranges and holiday tags.
type WeekdaySelector struct {
	Ranges   []WeekdayRange
	Holidays []HolidayRef
}

// WeekRange is a `[begin-end[/interval]]` ISO week clause.
type WeekRange struct {
	Begin, End int
	Interval   int
}

// WeekSelector is the `week ...` clause.
type WeekSelector struct {
	Ranges []WeekRange
}

// YearRange is a single year, a closed range, an open-ended range, or a
// stepped range, per §3.
type YearRange struct {
	Begin    int
	End      int
	HasEnd   bool
	Open     bool
	Interval int
}

// MonthdayRange is one clause of a MonthdaySelector: a whole month, a single
// date, a date range, or a variable (Easter-relative) date, each optionally
// year-qualified.
type MonthdayRange struct {
	Year *YearRange

	// Month is 1..12, or 0 if this clause is anchored on a Variable
	// instead (Easter).
	Month    int
	Day      int // 0 means "whole month"
	Variable string

	DateOffset int // signed day offset applied after resolving the date

	// To* describe the end of a range; HasTo false means this is a
	// single date/month, not a range.
	HasTo      bool
	ToMonth    int
	ToDay      int
	ToVariable string
	ToOffset   int
}

// MonthdaySelector is the month/day clause of a SelectorSeq.
type MonthdaySelector struct {
	Ranges []MonthdayRange
}

// Rule is a single clause of a Ruleset: `[selectors] [state] [comment]`.
type Rule struct {
	Comment    string
	HasComment bool

	State        State
	ExplicitState bool

	Kind RuleKind

	Year     *YearRange
	Monthday *MonthdaySelector
	Week     *WeekSelector
	Weekday  *WeekdaySelector
	Time     *TimeSelector
}

// is247 reports whether the rule carries no selector at all, i.e. `24/7`.
func (r Rule) is247() bool {
	return r.Year == nil && r.Monthday == nil && r.Week == nil && r.Weekday == nil && r.Time == nil
}
