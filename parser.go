package openinghours

import "fmt"

// parseRuleset is the entry point of C3. It repeatedly parses one Rule at a
// time; each selector-level parser greedily consumes its own comma-separated
// items, so by the time control returns here a leftover ',' unambiguously
// means "additional rule" and ';'/'||' are always rule separators — this is
// what keeps a single grammar (no ad-hoc backtracking) recoverable, per
// §4.3.
func parseRuleset(toks []token) ([]Rule, error) {
	var rules []Rule
	pos := 0
	kind := RuleNormal

	for {
		if pos >= len(toks) || toks[pos].kind == tokEOF {
			break
		}

		rule, next, err := parseRule(toks, pos)
		if err != nil {
			return rules, err
		}
		rule.Kind = kind
		rules = append(rules, rule)
		pos = next

		if pos >= len(toks) || toks[pos].kind == tokEOF {
			break
		}

		switch toks[pos].text {
		case ";":
			kind = RuleNormal
			pos++
		case ",":
			kind = RuleAdditional
			pos++
		case "||":
			kind = RuleFallback
			pos++
		default:
			return rules, fmt.Errorf("parse: unexpected token %q at %d", toks[pos].text, toks[pos].pos)
		}
	}

	if len(rules) == 0 {
		return rules, fmt.Errorf("parse: empty ruleset")
	}

	return rules, nil
}

// parseRule parses exactly one Rule starting at pos.
func parseRule(toks []token, pos int) (Rule, int, error) {
	var rule Rule

	if pos < len(toks) && toks[pos].kind == tokComment && peekIsSeparatorOrEnd(toks, pos+1) {
		// A stand-alone comment is a rule with no selectors, Open state.
		rule.Comment = toks[pos].text
		rule.HasComment = true
		return rule, pos + 1, nil
	}

	if pos < len(toks) && toks[pos].kind == tok247 {
		pos++
		return finishRule(rule, toks, pos)
	}

	var err error
	pos, err = parseYearSel(&rule, toks, pos)
	if err != nil {
		return rule, pos, err
	}

	pos, err = parseMonthdaySel(&rule, toks, pos)
	if err != nil {
		return rule, pos, err
	}

	pos, err = parseWeekSel(&rule, toks, pos)
	if err != nil {
		return rule, pos, err
	}

	pos, err = parseWeekdaySel(&rule, toks, pos)
	if err != nil {
		return rule, pos, err
	}

	pos, err = parseTimeSel(&rule, toks, pos)
	if err != nil {
		return rule, pos, err
	}

	return finishRule(rule, toks, pos)
}

func peekIsSeparatorOrEnd(toks []token, pos int) bool {
	if pos >= len(toks) || toks[pos].kind == tokEOF {
		return true
	}
	switch toks[pos].text {
	case ";", ",", "||":
		return true
	}
	return false
}

// finishRule consumes the trailing [State] [Comment] (or [Comment] [State])
// of a Rule.
func finishRule(rule Rule, toks []token, pos int) (Rule, int, error) {
	if pos < len(toks) && toks[pos].kind == tokComment {
		rule.Comment = toks[pos].text
		rule.HasComment = true
		pos++
	}

	if pos < len(toks) && toks[pos].kind == tokState {
		rule.State = stateFromToken(toks[pos].text)
		rule.ExplicitState = true
		pos++
	}

	if !rule.HasComment && pos < len(toks) && toks[pos].kind == tokComment {
		rule.Comment = toks[pos].text
		rule.HasComment = true
		pos++
	}

	return rule, pos, nil
}

func stateFromToken(s string) State {
	switch s {
	case "closed", "off":
		return StateClosed
	case "unknown":
		return StateUnknown
	default:
		return StateOpen
	}
}

// parseYearSel consumes a leading "YYYY", "YYYY-YYYY", "YYYY-YYYY/n" or
// "YYYY+" token sequence that governs the whole rule, per §3's freestanding
// YearRange. Only engaged when the value looks like a calendar year (>=
// 1000) so small integers are left for MonthDaySel/WeekSel.
func parseYearSel(rule *Rule, toks []token, pos int) (int, error) {
	if pos >= len(toks) || toks[pos].kind != tokInt || toks[pos].intVal < 1000 {
		return pos, nil
	}

	yr := &YearRange{Begin: toks[pos].intVal}
	pos++

	if pos < len(toks) && toks[pos].text == "+" {
		yr.Open = true
		pos++
		rule.Year = yr
		return pos, nil
	}

	if pos < len(toks) && toks[pos].text == "-" && pos+1 < len(toks) && toks[pos+1].kind == tokInt {
		pos++
		yr.End = toks[pos].intVal
		yr.HasEnd = true
		pos++
		if yr.End < yr.Begin {
			return pos, fmt.Errorf("parse: invalid year range %d-%d", yr.Begin, yr.End)
		}

		if pos < len(toks) && toks[pos].text == "/" && pos+1 < len(toks) && toks[pos+1].kind == tokInt {
			pos++
			yr.Interval = toks[pos].intVal
			pos++
		}
	}

	rule.Year = yr
	return pos, nil
}

// parseMonthdaySel consumes the MDRange (',' MDRange)* clause.
func parseMonthdaySel(rule *Rule, toks []token, pos int) (int, error) {
	var sel MonthdaySelector

	for {
		if pos >= len(toks) || (toks[pos].kind != tokMonth && toks[pos].kind != tokEaster) {
			break
		}

		var mr MonthdayRange

		if toks[pos].kind == tokEaster {
			mr.Variable = "easter"
			pos++
			if pos < len(toks) && (toks[pos].text == "+" || toks[pos].text == "-") {
				sign := 1
				if toks[pos].text == "-" {
					sign = -1
				}
				pos++
				if pos >= len(toks) || toks[pos].kind != tokInt {
					return pos, fmt.Errorf("parse: expected offset after easter sign")
				}
				mr.DateOffset = sign * toks[pos].intVal
				pos++
				// The normalizer writes the offset as "+1 day" / "-2 days".
				if pos < len(toks) && (toks[pos].kind == tokDay || toks[pos].text == "days") {
					pos++
				}
			}
		} else {
			mr.Month = toks[pos].month
			pos++
			if pos < len(toks) && toks[pos].kind == tokInt {
				mr.Day = toks[pos].intVal
				pos++
			}

			if pos < len(toks) && toks[pos].text == "-" {
				pos++
				mr.HasTo = true
				if pos < len(toks) && toks[pos].kind == tokMonth {
					mr.ToMonth = toks[pos].month
					pos++
					if pos < len(toks) && toks[pos].kind == tokInt {
						mr.ToDay = toks[pos].intVal
						pos++
					}
				} else if pos < len(toks) && toks[pos].kind == tokInt {
					mr.ToMonth = mr.Month
					mr.ToDay = toks[pos].intVal
					pos++
				} else {
					return pos, fmt.Errorf("parse: expected date after '-' in monthday range")
				}
			}
		}

		sel.Ranges = append(sel.Ranges, mr)

		if pos < len(toks) && toks[pos].text == "," && pos+1 < len(toks) &&
			(toks[pos+1].kind == tokMonth || toks[pos+1].kind == tokEaster) {
			pos++
			continue
		}
		break
	}

	if len(sel.Ranges) > 0 {
		rule.Monthday = &sel
	}
	return pos, nil
}

// parseWeekSel consumes the `week N[-M[/I]](,...)*` clause.
func parseWeekSel(rule *Rule, toks []token, pos int) (int, error) {
	if pos >= len(toks) || toks[pos].kind != tokWeek {
		return pos, nil
	}
	pos++

	var sel WeekSelector
	for {
		if pos >= len(toks) || toks[pos].kind != tokInt {
			return pos, fmt.Errorf("parse: expected week number")
		}
		wr := WeekRange{Begin: toks[pos].intVal, End: toks[pos].intVal}
		pos++

		if pos < len(toks) && toks[pos].text == "-" {
			pos++
			if pos >= len(toks) || toks[pos].kind != tokInt {
				return pos, fmt.Errorf("parse: expected week range end")
			}
			wr.End = toks[pos].intVal
			pos++
			if wr.End < wr.Begin {
				return pos, fmt.Errorf("parse: wrapping week range %d-%d rejected", wr.Begin, wr.End)
			}

			if pos < len(toks) && toks[pos].text == "/" {
				pos++
				if pos >= len(toks) || toks[pos].kind != tokInt {
					return pos, fmt.Errorf("parse: expected week interval")
				}
				wr.Interval = toks[pos].intVal
				pos++
			}
		}

		sel.Ranges = append(sel.Ranges, wr)

		if pos < len(toks) && toks[pos].text == "," {
			pos++
			continue
		}
		break
	}

	rule.Week = &sel
	return pos, nil
}

// parseWeekdaySel consumes the WDRange/Holiday comma-list.
func parseWeekdaySel(rule *Rule, toks []token, pos int) (int, error) {
	var sel WeekdaySelector

	for {
		if pos >= len(toks) {
			break
		}

		switch toks[pos].kind {
		case tokPH, tokSH:
			kind := PublicHoliday
			if toks[pos].kind == tokSH {
				kind = SchoolHoliday
			}
			pos++
			hr := HolidayRef{Kind: kind}
			var err error
			pos, hr.DayOffset, err = parseOptionalDayOffset(toks, pos)
			if err != nil {
				return pos, err
			}
			sel.Holidays = append(sel.Holidays, hr)

		case tokWeekday:
			wr := WeekdayRange{BeginDay: toks[pos].weekday, EndDay: toks[pos].weekday}
			pos++

			if pos < len(toks) && toks[pos].text == "-" && pos+1 < len(toks) && toks[pos+1].kind == tokWeekday {
				pos++
				wr.EndDay = toks[pos].weekday
				wr.HasEnd = true
				pos++
			}

			if pos < len(toks) && toks[pos].text == "[" {
				pos++
				for {
					sign := 1
					if pos < len(toks) && toks[pos].text == "-" {
						sign = -1
						pos++
					}
					if pos >= len(toks) || toks[pos].kind != tokInt {
						return pos, fmt.Errorf("parse: expected nth position")
					}
					n := toks[pos].intVal
					if n < 1 || n > 5 {
						return pos, fmt.Errorf("parse: invalid nth weekday position %d", sign*n)
					}
					wr.Nth = append(wr.Nth, sign*n)
					pos++
					if pos < len(toks) && toks[pos].text == "," {
						pos++
						continue
					}
					break
				}
				if pos >= len(toks) || toks[pos].text != "]" {
					return pos, fmt.Errorf("parse: expected closing ']'")
				}
				pos++
			}

			var err error
			pos, wr.DayOffset, err = parseOptionalDayOffset(toks, pos)
			if err != nil {
				return pos, err
			}

			sel.Ranges = append(sel.Ranges, wr)

		default:
			goto done
		}

		if pos < len(toks) && toks[pos].text == "," &&
			pos+1 < len(toks) && (toks[pos+1].kind == tokWeekday || toks[pos+1].kind == tokPH || toks[pos+1].kind == tokSH) {
			pos++
			continue
		}
		break
	}
done:

	if len(sel.Ranges) > 0 || len(sel.Holidays) > 0 {
		rule.Weekday = &sel
	}
	return pos, nil
}

// parseOptionalDayOffset consumes a trailing signed-day offset such as
// "PH +1 day" (uses the tokDay marker word to disambiguate from a following
// time token).
func parseOptionalDayOffset(toks []token, pos int) (int, int, error) {
	if pos >= len(toks) || (toks[pos].text != "+" && toks[pos].text != "-") {
		return pos, 0, nil
	}
	// Only consume as an offset if followed by an integer and the "day"
	// keyword; otherwise this '+'/'-' belongs to a different production
	// (e.g. a following timespan).
	if pos+2 >= len(toks) || toks[pos+1].kind != tokInt || toks[pos+2].kind != tokDay {
		return pos, 0, nil
	}
	sign := 1
	if toks[pos].text == "-" {
		sign = -1
	}
	return pos + 3, sign * toks[pos+1].intVal, nil
}

// parseTimeSel consumes the Timespan (',' Timespan)* clause.
func parseTimeSel(rule *Rule, toks []token, pos int) (int, error) {
	var sel TimeSelector

	for {
		if pos >= len(toks) {
			break
		}
		tm, ok := tryParseTime(toks, pos)
		if !ok {
			break
		}

		span := Timespan{Begin: tm.val}
		pos = tm.next

		switch {
		case pos < len(toks) && toks[pos].text == "+":
			span.OpenEnd = true
			pos++

		case pos < len(toks) && toks[pos].text == "-":
			pos++
			endTm, ok := tryParseTime(toks, pos)
			if !ok {
				return pos, fmt.Errorf("parse: expected end time after '-'")
			}
			span.End = endTm.val
			span.HasEnd = true
			pos = endTm.next

			if pos < len(toks) && toks[pos].text == "/" {
				pos++
				if pos < len(toks) && toks[pos].kind == tokTime {
					// HH:MM-form period: valid syntax, flagged
					// IncompatibleMode by the validator (§4.5).
					span.PeriodMin = toks[pos].hour*60 + toks[pos].minute
					span.PeriodClockForm = true
					pos++
				} else if pos < len(toks) && toks[pos].kind == tokInt {
					span.PeriodMin = toks[pos].intVal
					pos++
				} else {
					return pos, fmt.Errorf("parse: expected period value")
				}
			}
		}

		sel.Spans = append(sel.Spans, span)

		if pos < len(toks) && toks[pos].text == "," {
			if next, ok := tryParseTime(toks, pos+1); ok {
				_ = next
				pos++
				continue
			}
		}
		break
	}

	if len(sel.Spans) > 0 {
		rule.Time = &sel
	}
	return pos, nil
}

type timeResult struct {
	val  Time
	next int
}

// tryParseTime attempts to parse a single Time (wall-clock or event) at pos.
func tryParseTime(toks []token, pos int) (timeResult, bool) {
	if pos >= len(toks) {
		return timeResult{}, false
	}

	if toks[pos].kind == tokTime {
		if toks[pos].hour > 48 || toks[pos].minute > 59 {
			return timeResult{}, false
		}
		return timeResult{val: wallTime(toks[pos].hour, toks[pos].minute), next: pos + 1}, true
	}

	if toks[pos].kind == tokEvent {
		ev := eventFromToken(toks[pos].text)
		return timeResult{val: Time{Event: ev}, next: pos + 1}, true
	}

	if toks[pos].text == "(" && pos+1 < len(toks) && toks[pos+1].kind == tokEvent {
		ev := eventFromToken(toks[pos+1].text)
		p := pos + 2
		offset := 0
		if p < len(toks) && (toks[p].text == "+" || toks[p].text == "-") {
			sign := 1
			if toks[p].text == "-" {
				sign = -1
			}
			p++
			if p < len(toks) && toks[p].kind == tokInt {
				offset = sign * toks[p].intVal
				p++
			}
		}
		if p < len(toks) && toks[p].text == ")" {
			p++
			return timeResult{val: Time{Event: ev, Offset: offset}, next: p}, true
		}
	}

	return timeResult{}, false
}

func eventFromToken(s string) EventKind {
	switch s {
	case "sunrise":
		return EventSunrise
	case "sunset":
		return EventSunset
	case "dawn":
		return EventDawn
	case "dusk":
		return EventDusk
	default:
		return eventNone
	}
}
