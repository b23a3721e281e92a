package openinghours

import "strings"

// normalize serializes a rule slice back to canonical textual form (C5).
// Idempotence (normalize(normalize(s)) == normalize(s)) follows from every
// Rule field being serialized the same way regardless of how it was parsed
// — e.g. "9h00" and "09:00" both become the same Time value during parsing,
// so both normalize identically.
func normalize(rules []Rule) string {
	parts := make([]string, 0, len(rules))
	for _, r := range rules {
		parts = append(parts, normalizeRule(r))
	}

	var b strings.Builder
	for i, p := range parts {
		if i > 0 {
			b.WriteString(ruleSeparator(rules[i].Kind))
		}
		b.WriteString(p)
	}
	return b.String()
}

func ruleSeparator(kind RuleKind) string {
	switch kind {
	case RuleAdditional:
		return ", "
	case RuleFallback:
		return "|| "
	default:
		return "; "
	}
}

func normalizeRule(r Rule) string {
	if r.is247() && !r.HasComment && !r.ExplicitState {
		return "24/7"
	}
	if r.is247() && r.HasComment && !r.ExplicitState && len(r.Comment) > 0 && soleComment(r) {
		return quoteComment(r.Comment)
	}

	var b strings.Builder
	if r.is247() {
		b.WriteString("24/7")
	} else {
		wrote := false
		if r.Year != nil {
			b.WriteString(normalizeYearRange(*r.Year))
			wrote = true
		}
		if r.Monthday != nil {
			if wrote {
				b.WriteString(" ")
			}
			b.WriteString(normalizeMonthdaySelector(*r.Monthday))
			wrote = true
		}
		if r.Week != nil {
			if wrote {
				b.WriteString(" ")
			}
			b.WriteString(normalizeWeekSelector(*r.Week))
			wrote = true
		}
		if r.Weekday != nil {
			if wrote {
				b.WriteString(" ")
			}
			b.WriteString(normalizeWeekdaySelector(*r.Weekday))
			wrote = true
		}
		if r.Time != nil {
			if wrote {
				b.WriteString(" ")
			}
			b.WriteString(normalizeTimeSelector(*r.Time))
			wrote = true
		}
	}

	if r.ExplicitState {
		if b.Len() > 0 {
			b.WriteString(" ")
		}
		b.WriteString(stateText(r.State))
	}
	if r.HasComment {
		if b.Len() > 0 {
			b.WriteString(" ")
		}
		b.WriteString(quoteComment(r.Comment))
	}

	return b.String()
}

func soleComment(r Rule) bool {
	return r.is247() && !r.ExplicitState
}

func stateText(s State) string {
	switch s {
	case StateClosed:
		return "off"
	case StateUnknown:
		return "unknown"
	default:
		return "open"
	}
}

func quoteComment(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}

func normalizeYearRange(yr YearRange) string {
	switch {
	case yr.Open:
		return itoa(yr.Begin) + "+"
	case yr.HasEnd && yr.Interval > 0:
		return itoa(yr.Begin) + "-" + itoa(yr.End) + "/" + itoa(yr.Interval)
	case yr.HasEnd:
		return itoa(yr.Begin) + "-" + itoa(yr.End)
	default:
		return itoa(yr.Begin)
	}
}

func normalizeWeekSelector(ws WeekSelector) string {
	parts := make([]string, 0, len(ws.Ranges))
	for _, wr := range ws.Ranges {
		parts = append(parts, normalizeWeekRange(wr))
	}
	return "week " + strings.Join(parts, ",")
}

func normalizeWeekRange(wr WeekRange) string {
	if wr.Begin == wr.End {
		return pad2i(wr.Begin)
	}
	s := pad2i(wr.Begin) + "-" + pad2i(wr.End)
	if wr.Interval > 0 {
		s += "/" + itoa(wr.Interval)
	}
	return s
}

var monthNames = [13]string{
	"", "Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

func normalizeMonthdaySelector(ms MonthdaySelector) string {
	parts := make([]string, 0, len(ms.Ranges))
	for _, mr := range ms.Ranges {
		parts = append(parts, normalizeMonthdayRange(mr))
	}
	return strings.Join(parts, ",")
}

func normalizeMonthdayRange(mr MonthdayRange) string {
	if mr.Variable == "easter" {
		s := "easter"
		if mr.DateOffset != 0 {
			s += signedOffset(mr.DateOffset) + " day"
			if mr.DateOffset > 1 || mr.DateOffset < -1 {
				s += "s"
			}
		}
		return s
	}

	if !mr.HasTo {
		if mr.Day == 0 {
			return monthNames[mr.Month]
		}
		return monthNames[mr.Month] + " " + pad2i(mr.Day)
	}

	// Date range: split into "Mon dd-Mon dd" when months differ, or
	// "Mon dd-dd" when they're the same, per §4.4.
	if mr.Month == mr.ToMonth {
		return monthNames[mr.Month] + " " + pad2i(mr.Day) + "-" + pad2i(mr.ToDay)
	}
	return monthNames[mr.Month] + " " + pad2i(mr.Day) + "-" + monthNames[mr.ToMonth] + " " + pad2i(mr.ToDay)
}

func signedOffset(n int) string {
	if n >= 0 {
		return " +" + itoa(n)
	}
	return " " + itoa(n)
}

func normalizeWeekdaySelector(ws WeekdaySelector) string {
	parts := make([]string, 0, len(ws.Ranges)+len(ws.Holidays))
	for _, wr := range ws.Ranges {
		parts = append(parts, normalizeWeekdayRange(wr))
	}
	for _, h := range ws.Holidays {
		parts = append(parts, normalizeHolidayRef(h))
	}
	return strings.Join(parts, ",")
}

var weekdayNames = [7]string{"Mo", "Tu", "We", "Th", "Fr", "Sa", "Su"}

func normalizeWeekdayRange(wr WeekdayRange) string {
	s := weekdayNames[wr.BeginDay]
	if wr.HasEnd {
		s += "-" + weekdayNames[wr.EndDay]
	}
	if len(wr.Nth) > 0 {
		nths := make([]string, 0, len(wr.Nth))
		for _, n := range wr.Nth {
			nths = append(nths, itoa(n))
		}
		s += "[" + strings.Join(nths, ",") + "]"
	}
	if wr.DayOffset != 0 {
		s += signedOffset(wr.DayOffset) + " day"
	}
	return s
}

func normalizeHolidayRef(h HolidayRef) string {
	s := "PH"
	if h.Kind == SchoolHoliday {
		s = "SH"
	}
	if h.DayOffset != 0 {
		s += signedOffset(h.DayOffset) + " day"
	}
	return s
}

func normalizeTimeSelector(ts TimeSelector) string {
	parts := make([]string, 0, len(ts.Spans))
	for _, sp := range ts.Spans {
		parts = append(parts, normalizeTimespan(sp))
	}
	return strings.Join(parts, ",")
}

func normalizeTimespan(sp Timespan) string {
	s := normalizeTime(sp.Begin)
	if sp.OpenEnd {
		return s + "+"
	}
	if !sp.HasEnd {
		return s
	}
	s += "-" + normalizeTime(sp.End)
	if sp.PeriodMin > 0 {
		s += "/" + normalizePeriod(sp.PeriodMin)
	}
	return s
}

// normalizePeriod renders minutes as "HH" when the remainder is zero, else
// "HH:MM" — per §4.4 ("Periods as HH:MM when minutes > 0, else HH").
func normalizePeriod(minutes int) string {
	h := minutes / 60
	m := minutes % 60
	if m == 0 {
		return pad2i(h)
	}
	return pad2i(h) + ":" + pad2i(m)
}

func normalizeTime(t Time) string {
	if t.isEvent() {
		s := t.Event.String()
		if t.Offset != 0 {
			return "(" + s + signedOffset(t.Offset) + ")"
		}
		return s
	}
	return pad2i(t.Hour) + ":" + pad2i(t.Minute)
}
