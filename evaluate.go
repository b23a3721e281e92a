package openinghours

import "time"

// This file is the evaluator (C7): per-day materialization of rule effects
// into a tiled minute-resolution plan, per DESIGN.md ("evaluator as
// per-day materialization" — the day is the natural unit because every
// selector has a periodic day-level decomposition; no closed-form interval
// algebra over the whole ruleset is attempted).

// Interval is a half-open [Begin, End) span of constant state, as returned
// by IntervalAt/NextInterval.
type Interval struct {
	State      State
	Begin, End time.Time
	Comment    string
	HasComment bool
}

// Contains reports whether t falls in [Begin, End).
func (iv Interval) Contains(t time.Time) bool {
	return !t.Before(iv.Begin) && t.Before(iv.End)
}

// Intersects reports whether iv and other overlap.
func (iv Interval) Intersects(other Interval) bool {
	return iv.Begin.Before(other.End) && other.Begin.Before(iv.End)
}

// Less orders intervals strictly by Begin.
func (iv Interval) Less(other Interval) bool { return iv.Begin.Before(other.Begin) }

// IntervalAt returns the Interval covering instant. It validates the
// expression against collab first, so a missing collaborator surfaces as
// an ErrorCode rather than a confusing zero-value Interval.
func (e Expression) IntervalAt(instant time.Time, collab Collaborators) (Interval, error) {
	if code := validate(e.rules, collab); code != NoError {
		return Interval{}, code
	}
	// The day cache is keyed by date only, so every call starts a fresh one.
	collab.dayCache = nil
	return e.intervalAt(instant, collab)
}

func (e Expression) intervalAt(instant time.Time, collab Collaborators) (Interval, error) {
	day := civilDateOf(instant)
	segs, err := combinedSegments(day, e.rules, &collab)
	if err != nil {
		return Interval{}, err
	}

	minute := instant.Hour()*60 + instant.Minute()
	base := day.time(instant.Location())

	for _, s := range segs {
		if minute >= s.startMin && minute < s.endMin {
			return Interval{
				State:      s.state,
				Begin:      base.Add(time.Duration(s.startMin) * time.Minute),
				End:        base.Add(time.Duration(s.endMin) * time.Minute),
				Comment:    s.comment,
				HasComment: s.hasComment,
			}, nil
		}
	}

	// Should not happen: segments tile [0,1440) completely.
	return Interval{State: StateClosed, Begin: base, End: base.AddDate(0, 0, 1)}, nil
}

// maxWalkDays bounds NextInterval's forward walk so a
// non-terminating open-ended year range (2020+, §4.6) can't loop forever
// when a caller forgets to bound their own query, per §5 ("callers bound
// next_interval walks by passing a horizon") — ~10 years is a generous
// fallback, not a substitute for a caller-supplied horizon.
const maxWalkDays = 3660

// NextInterval returns the earliest Interval strictly after instant whose
// state or comment differs from the Interval covering instant.
func (e Expression) NextInterval(instant time.Time, collab Collaborators) (*Interval, error) {
	if code := validate(e.rules, collab); code != NoError {
		return nil, code
	}
	// The day cache is keyed by date only, so every call starts a fresh one,
	// shared by the current-interval lookup and the walk below.
	collab.dayCache = nil
	collab.cache()

	cur, err := e.intervalAt(instant, collab)
	if err != nil {
		return nil, err
	}

	day := civilDateOf(instant)
	for i := 0; i < maxWalkDays; i++ {
		segs, err := combinedSegments(day, e.rules, &collab)
		if err != nil {
			return nil, err
		}
		base := day.time(instant.Location())

		for _, s := range segs {
			begin := base.Add(time.Duration(s.startMin) * time.Minute)
			end := base.Add(time.Duration(s.endMin) * time.Minute)
			if begin.Before(cur.End) {
				continue
			}
			if s.state == cur.State && s.comment == cur.Comment && s.hasComment == cur.HasComment {
				continue
			}
			return &Interval{
				State:      s.state,
				Begin:      begin,
				End:        end,
				Comment:    s.comment,
				HasComment: s.hasComment,
			}, nil
		}

		day = day.addDays(1)
	}

	return nil, nil
}

// segment is one coalesced, constant-state slice of a calendar day, in
// minutes from local midnight (0..1440).
type segment struct {
	startMin, endMin int
	state            State
	comment          string
	hasComment       bool
}

// minuteState is one minute-resolution cell of a local (single source day)
// materialization. seed marks a minute no matching rule has touched yet.
// additional marks a minute last painted by an Additional rule, so a later
// overlapping Additional rule can still win over it (§4.6's documented
// edge case) even though an Additional rule must never overwrite a minute a
// Normal rule already made non-Closed.
type minuteState struct {
	state      State
	comment    string
	hasComment bool
	seed       bool
	additional bool
}

// localWidth is 48h of minutes, wide enough for the Hour 0..48 wall-clock
// range of §3 ("hours may exceed 24 to express wrapping into the next
// day").
const localWidth = 48 * 60

// dayPlan is the cached local materialization for a single source day,
// keyed in Collaborators' LRU day cache.
type dayPlan = []minuteState

// combinedSegments produces the final, tiled [0,1440) segment list for day,
// folding in the portion of the previous day's rules that wraps past
// midnight (§4.6 "Times with hour >= 24 become wall-clock of the next day;
// the interval spans two calendar days"). The carried-over wrap only fills
// minutes day's own rules left untouched (seed); a rule of day's own that
// claims the same minute always wins.
func combinedSegments(day civilDate, rules []Rule, collab *Collaborators) ([]segment, error) {
	local, err := getLocalPlan(day, rules, collab)
	if err != nil {
		return nil, err
	}
	prev, err := getLocalPlan(day.addDays(-1), rules, collab)
	if err != nil {
		return nil, err
	}

	cells := make([]minuteState, 1440)
	for m := 0; m < 1440; m++ {
		cell := local[m]
		carry := prev[1440+m]
		if cell.seed && !carry.seed {
			cells[m] = carry
		} else {
			cells[m] = cell
		}
	}

	return coalesce(cells), nil
}

func coalesce(cells []minuteState) []segment {
	var segs []segment
	start := 0
	for m := 1; m <= len(cells); m++ {
		if m < len(cells) && sameCell(cells[m], cells[start]) {
			continue
		}
		segs = append(segs, segment{
			startMin:   start,
			endMin:     m,
			state:      cells[start].state,
			comment:    cells[start].comment,
			hasComment: cells[start].hasComment,
		})
		start = m
	}
	return segs
}

func sameCell(a, b minuteState) bool {
	return a.state == b.state && a.comment == b.comment && a.hasComment == b.hasComment
}

func getLocalPlan(day civilDate, rules []Rule, collab *Collaborators) (dayPlan, error) {
	cache := collab.cache()
	if plan, ok := cache.Get(day); ok {
		return plan, nil
	}

	plan, err := computeLocalPlan(day, rules, *collab)
	if err != nil {
		return nil, err
	}
	cache.Add(day, plan)
	return plan, nil
}

// computeLocalPlan runs the per-day algorithm of §4.6 steps 1-3 for a
// single source day, producing a localWidth-wide (48h) minute array so a
// rule that wraps past midnight is captured within one materialization.
func computeLocalPlan(day civilDate, rules []Rule, collab Collaborators) (dayPlan, error) {
	cells := make([]minuteState, localWidth)
	for i := range cells {
		cells[i] = minuteState{state: StateClosed, seed: true}
	}

	for _, r := range rules {
		matched, err := matchesDay(r, day, collab)
		if err != nil {
			return nil, err
		}
		if !matched && r.Kind != RuleFallback {
			continue
		}

		spans, err := timeCandidates(r, day, collab)
		if err != nil {
			return nil, err
		}

		for _, sp := range spans {
			s, e := sp.start, sp.end
			if s < 0 {
				s = 0
			}
			if e > localWidth {
				e = localWidth
			}
			for m := s; m < e; m++ {
				applyCell(&cells[m], r)
			}
		}
	}

	return cells, nil
}

func applyCell(cell *minuteState, r Rule) {
	switch r.Kind {
	case RuleNormal:
		cell.state = r.State
		cell.comment, cell.hasComment = r.Comment, r.HasComment
		cell.seed = false
		cell.additional = false

	case RuleAdditional:
		if cell.seed {
			cell.state = r.State
			cell.comment, cell.hasComment = r.Comment, r.HasComment
			cell.seed = false
			cell.additional = true
			return
		}
		// An Additional rule unions in where the cell would otherwise be
		// Closed (§4.6); it never overwrites a cell a Normal rule already
		// made non-Closed. A cell last painted by an earlier Additional
		// rule is still fair game, even if that rule left it non-Closed,
		// so a later overlapping Additional rule's state wins (§4.6's
		// documented edge case).
		if cell.state != StateClosed && !cell.additional {
			return
		}
		cell.state = r.State
		switch {
		case cell.hasComment && r.HasComment && cell.comment != r.Comment:
			cell.comment = cell.comment + " / " + r.Comment
		case r.HasComment:
			cell.comment, cell.hasComment = r.Comment, true
		}
		cell.additional = true

	case RuleFallback:
		if cell.seed {
			cell.state = r.State
			cell.comment, cell.hasComment = r.Comment, r.HasComment
			cell.seed = false
			cell.additional = false
		}
	}
}

type minuteRange struct{ start, end int }

// timeCandidates resolves a rule's TimeSelector into minute ranges over the
// local 48h window, defaulting to the whole day when no TimeSelector is
// present (§4.6 step 2).
func timeCandidates(r Rule, day civilDate, collab Collaborators) ([]minuteRange, error) {
	if r.Time == nil {
		return []minuteRange{{0, 1440}}, nil
	}

	var out []minuteRange
	for _, sp := range r.Time.Spans {
		begin, err := resolveTime(sp.Begin, day, collab)
		if err != nil {
			return nil, err
		}

		switch {
		case sp.OpenEnd:
			out = append(out, minuteRange{begin, 1440})

		case !sp.HasEnd:
			// Bare timepoint: only reachable when validation was
			// bypassed (IncompatibleMode). Treated as a one-minute
			// marker so evaluation still terminates sensibly.
			out = append(out, minuteRange{begin, begin + 1})

		default:
			end, err := resolveTime(sp.End, day, collab)
			if err != nil {
				return nil, err
			}
			if end <= begin {
				end += 1440
			}
			out = append(out, minuteRange{begin, end})
		}
	}
	return out, nil
}

func resolveTime(t Time, day civilDate, collab Collaborators) (int, error) {
	if !t.isEvent() {
		return t.minutesOfDay(), nil
	}
	if collab.SunEvents == nil {
		return 0, MissingLocation
	}
	when, err := collab.SunEvents.SunEvent(t.Event, day.time(time.UTC), collab.Latitude, collab.Longitude)
	if err != nil {
		return 0, err
	}
	return when.Hour()*60 + when.Minute() + t.Offset, nil
}

// matchesDay is the conjunction of every non-time selector present on r,
// per §3 ("An instant matches a rule iff it matches every present
// selector").
func matchesDay(r Rule, day civilDate, collab Collaborators) (bool, error) {
	if r.Year != nil && !r.Year.contains(day.Year) {
		return false, nil
	}

	if r.Monthday != nil {
		ok, err := matchesMonthday(r.Monthday, day)
		if err != nil || !ok {
			return false, err
		}
	}

	if r.Week != nil && !matchesWeek(r.Week, day) {
		return false, nil
	}

	if r.Weekday != nil {
		ok, err := matchesWeekday(r.Weekday, day, collab)
		if err != nil || !ok {
			return false, err
		}
	}

	return true, nil
}

func matchesWeek(ws *WeekSelector, day civilDate) bool {
	_, week := day.time(time.UTC).ISOWeek()
	for _, wr := range ws.Ranges {
		if wr.contains(week) {
			return true
		}
	}
	return false
}

func matchesMonthday(ms *MonthdaySelector, day civilDate) (bool, error) {
	for _, mr := range ms.Ranges {
		ok, err := matchesMonthdayRange(mr, day)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

func matchesMonthdayRange(mr MonthdayRange, day civilDate) (bool, error) {
	if mr.Variable == "easter" {
		e := easter(day.Year)
		target := civilDateOf(e.AddDate(0, 0, mr.DateOffset))
		return target == day, nil
	}

	if !mr.HasTo {
		if mr.Day == 0 {
			return day.Month == mr.Month, nil
		}
		return day.Month == mr.Month && day.Day == mr.Day, nil
	}

	begin := mr.Month*100 + mr.Day
	end := mr.ToMonth*100 + mr.ToDay
	cur := day.Month*100 + day.Day

	if begin <= end {
		return cur >= begin && cur <= end, nil
	}
	// Wraps across the new year, e.g. Dec 24-Jan 3.
	return cur >= begin || cur <= end, nil
}

func matchesWeekday(ws *WeekdaySelector, day civilDate, collab Collaborators) (bool, error) {
	for _, wr := range ws.Ranges {
		ok, err := matchesWeekdayRange(wr, day)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	for _, h := range ws.Holidays {
		ok, err := matchesHoliday(h, day, collab)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

func matchesWeekdayRange(wr WeekdayRange, day civilDate) (bool, error) {
	shifted := day.addDays(-wr.DayOffset)
	if len(wr.Nth) == 0 {
		return wr.contains(dayIndex(shifted.time(time.UTC))), nil
	}
	return wr.containsNth(shifted.time(time.UTC))
}

func matchesHoliday(h HolidayRef, day civilDate, collab Collaborators) (bool, error) {
	shifted := day.addDays(-h.DayOffset)

	switch h.Kind {
	case SchoolHoliday:
		return false, UnsupportedFeature

	default: // PublicHoliday
		if collab.Holidays == nil {
			return false, MissingRegion
		}
		holidays, err := collab.Holidays.PublicHolidays(collab.Region, shifted.Year)
		if err != nil {
			return false, err
		}
		for _, h := range holidays {
			if civilDateOf(h.Date) == shifted {
				return true, nil
			}
		}
		return false, nil
	}
}

// easter returns the date of Gregorian Easter Sunday for year, via the
// Anonymous (Meeus/Jones/Butcher) algorithm referenced in §4.6.
func easter(year int) time.Time {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := (h+l-7*m+114)%31 + 1
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}
