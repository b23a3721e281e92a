package openinghours

import (
	"regexp"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/width"
)

// caseFolder performs caseless comparison for the lexer's state/event
// keyword lookup (classifyWord, in lexer.go). The lexer only hands it words
// made of ASCII letters, digits and '_'. Not used for byte-indexed
// rewrites — see replaceWordsCaseInsensitive below.
var caseFolder = cases.Fold()

// logger is the package-level diagnostic sink (§7: "Diagnostics are logged
// but not surfaced beyond the error code"). Overridable so a host
// application can route it into its own zap pipeline; defaults to a no-op
// logger so the package stays silent without one.
var logger = zap.NewNop()

// SetLogger installs the *zap.Logger used for preconditioner diagnostics;
// the parser does not log.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger = l
}

var asciiPunctuation = strings.NewReplacer(
	"–", "-", "—", "-", "−", "-", "ー", "-", "〜", "-", "～", "-", "－", "-",
	"：", ":",
	"，", ",", "、", ",",
	"；", ";",
	"\u00a0", " ",
)

var whitespaceRun = regexp.MustCompile(`[ \t]+`)

// hourMarker matches "9h", "9h00", "14h30".
var hourMarker = regexp.MustCompile(`\b([0-2]?[0-9])h([0-5][0-9])?\b`)

// ampmColon matches "10:00am", "10.00 pm"; ampmBare matches "9am", "12 p.m.".
var ampmColon = regexp.MustCompile(`(?i)\b([01]?[0-9])[.:]([0-5][0-9])\s*([ap])\.?m(?:\.|\b)`)
var ampmBare = regexp.MustCompile(`(?i)\b([01]?[0-9])\s*([ap])\.?m(?:\.|\b)`)

// ampmRangeEnd12 matches "12am"/"12:00am"/"12.00 a.m." used as the END of a
// time range (immediately preceded by '-'), recognized as the 24:00
// end-of-day boundary rather than folded through the general "12am -> 00:00"
// midnight convention (§4.1 rewrite 2, "'12 am' as an end-of-day boundary is
// recognized as 24:00"). Must run before ampmColon/ampmBare, which would
// otherwise consume the "am" marker first and leave nothing to match here.
var ampmRangeEnd12 = regexp.MustCompile(`(?i)-\s*12\s*(?:[.:]00)?\s*a\.?m(?:\.|\b)`)

var rangeWord = regexp.MustCompile(`(?i)\s+(to|à|et|and)\s+`)

// rangeWordAfterTimespan matches a range word immediately following a
// complete "HH:MM-HH:MM" timespan — signalling a second timespan on the
// same rule ("9:00-12:00 and 14:00-18:00"), not the two boundaries of a
// single time range, per §4.1 rewrite 4 ("between two timespans on the
// same rule: ','").
var rangeWordAfterTimespan = regexp.MustCompile(`(?i)(\d{1,2}:\d{2}-\d{1,2}:\d{2})\s+(?:to|à|et|and)\s+`)

var trailingSeparator = regexp.MustCompile(`[;,\n]\s*$`)

var weekdayTranslation = map[string]string{
	// French
	"lundi": "Mo", "mardi": "Tu", "mercredi": "We", "jeudi": "Th",
	"vendredi": "Fr", "samedi": "Sa", "dimanche": "Su",
	// Spanish/Portuguese
	"lunes": "Mo", "martes": "Tu", "miércoles": "We", "miercoles": "We",
	"jueves": "Th", "viernes": "Fr", "sábado": "Sa", "sabado": "Sa", "domingo": "Su",
	// English long forms
	"monday": "Mo", "tuesday": "Tu", "wednesday": "We", "thursday": "Th",
	"friday": "Fr", "saturday": "Sa", "sunday": "Su",
	// Japanese kanji
	"月曜日": "Mo", "火曜日": "Tu", "水曜日": "We", "木曜日": "Th",
	"金曜日": "Fr", "土曜日": "Sa", "日曜日": "Su",
}

var monthTranslation = map[string]string{
	"janvier": "Jan", "février": "Feb", "fevrier": "Feb", "mars": "Mar", "avril": "Apr",
	"mai": "May", "juin": "Jun", "juillet": "Jul", "août": "Aug", "aout": "Aug",
	"septembre": "Sep", "octobre": "Oct", "novembre": "Nov", "décembre": "Dec", "decembre": "Dec",
	"enero": "Jan", "febrero": "Feb", "marzo": "Mar", "abril": "Apr", "mayo": "May",
	"junio": "Jun", "julio": "Jul", "agosto": "Aug", "septiembre": "Sep",
	"octubre": "Oct", "noviembre": "Nov", "diciembre": "Dec",
	"january": "Jan", "february": "Feb", "march": "Mar", "april": "Apr",
	"june": "Jun", "july": "Jul", "august": "Aug", "september": "Sep",
	"october": "Oct", "november": "Nov", "december": "Dec",
	"一月": "Jan", "二月": "Feb", "三月": "Mar", "四月": "Apr", "五月": "May", "六月": "Jun",
	"七月": "Jul", "八月": "Aug", "九月": "Sep", "十月": "Oct", "十一月": "Nov", "十二月": "Dec",
}

// precondition applies the deterministic rewrite pipeline of §4.1 and
// reports whether any rewrite actually changed the text — the "corrections
// applied" flag. Parse stores the flag on the Expression; no later stage
// reads it, so it changes neither which inputs are accepted nor which error
// code is reported.
func precondition(raw string) (out string, corrected bool) {
	out = raw

	out = foldUnicode(out)
	out = foldHourMarkers(out)
	out = foldLocale(out)
	out = foldRangeWords(out)
	out = recoverSeparators(out)
	out = trimStragglers(out)

	corrected = out != raw
	if corrected {
		logger.Debug("openinghours: preconditioner applied corrections",
			zap.String("input", raw), zap.String("output", out))
	}
	return out, corrected
}

// foldUnicode normalizes fullwidth/ideographic punctuation and collapses
// whitespace. Fullwidth-to-ASCII folding itself is delegated to
// golang.org/x/text/width so CJK-keyboard-authored strings ("９：００") are
// handled the same way any other Unicode-aware text pipeline in the pack
// handles them, rather than by a hand-rolled rune table.
func foldUnicode(s string) string {
	s = width.Fold.String(s)
	s = asciiPunctuation.Replace(s)
	s = whitespaceRun.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// foldHourMarkers rewrites "9h", "9h30", "10am", "2:30pm" style markers into
// 24-hour HH:MM.
func foldHourMarkers(s string) string {
	s = hourMarker.ReplaceAllStringFunc(s, func(m string) string {
		sub := hourMarker.FindStringSubmatch(m)
		hour, minute := sub[1], sub[2]
		if minute == "" {
			minute = "00"
		}
		return pad2(hour) + ":" + minute
	})

	s = ampmRangeEnd12.ReplaceAllString(s, "-24:00")

	s = ampmColon.ReplaceAllStringFunc(s, func(m string) string {
		sub := ampmColon.FindStringSubmatch(m)
		return ampmTo24(sub[1], sub[2], sub[3])
	})

	s = ampmBare.ReplaceAllStringFunc(s, func(m string) string {
		sub := ampmBare.FindStringSubmatch(m)
		return ampmTo24(sub[1], "00", sub[2])
	})

	return s
}

func ampmTo24(hourStr, minute, meridiem string) string {
	hour := atoiSafe(hourStr)
	switch strings.ToLower(meridiem) {
	case "a":
		if hour == 12 {
			hour = 0
		}
	case "p":
		if hour == 12 {
			// noon stays 12:00.
		} else {
			hour += 12
		}
	}
	return pad2i(hour) + ":" + minute
}

func atoiSafe(s string) int {
	n := 0
	for _, r := range s {
		n = n*10 + int(r-'0')
	}
	return n
}

func pad2(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}

func pad2i(n int) string {
	if n < 10 {
		return "0" + string(rune('0'+n))
	}
	return itoa(n)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [8]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// foldLocale replaces French/Spanish/Portuguese/Japanese weekday and month
// names with their canonical English tokens. Longest match first so e.g.
// "décembre" isn't cut short by a shorter unrelated entry.
func foldLocale(s string) string {
	s = replaceWordsCaseInsensitive(s, weekdayTranslation)
	s = replaceWordsCaseInsensitive(s, monthTranslation)
	return s
}

func replaceWordsCaseInsensitive(s string, table map[string]string) string {
	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	// longest-match first
	for i := 0; i < len(keys); i++ {
		for j := i + 1; j < len(keys); j++ {
			if len(keys[j]) > len(keys[i]) {
				keys[i], keys[j] = keys[j], keys[i]
			}
		}
	}

	// Plain strings.ToLower, not caseFolder: the loop below indexes into s
	// byte-for-byte against lower, which requires a length- and alignment-
	// preserving fold. caseFolder is reserved for the pure lookup contexts
	// in classifyWord, where no such alignment constraint applies.
	lower := strings.ToLower(s)
	var b strings.Builder
	i := 0
	for i < len(s) {
		matched := false
		for _, k := range keys {
			if strings.HasPrefix(lower[i:], k) && isWordBoundary(lower, i, i+len(k)) {
				b.WriteString(table[k])
				i += len(k)
				matched = true
				break
			}
		}
		if !matched {
			b.WriteByte(s[i])
			i++
		}
	}
	return b.String()
}

func isWordBoundary(s string, start, end int) bool {
	if start > 0 {
		c := s[start-1]
		if isWordByte(c) {
			return false
		}
	}
	if end < len(s) {
		c := s[end]
		if isWordByte(c) {
			return false
		}
	}
	return true
}

func isWordByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

// foldRangeWords turns "9:00 to 12:00" / "9:00 et 12:00" into "9:00-12:00",
// and "9:00-12:00 and 14:00-18:00" into "9:00-12:00,14:00-18:00" when the
// range word follows an already-complete timespan (§4.1 rewrite 4).
func foldRangeWords(s string) string {
	s = rangeWordAfterTimespan.ReplaceAllString(s, "$1,")
	return rangeWord.ReplaceAllString(s, "-")
}

// recoverSeparators inserts an inferred ';' between adjacent complete rules
// separated only by runs of spaces, per §4.1 rewrite 5. This is a
// conservative heuristic: it only fires between a time-range token and a
// following weekday token.
var impliedRuleBoundary = regexp.MustCompile(`(\d:\d{2})\s+(Mo|Tu|We|Th|Fr|Sa|Su|PH|SH)\b`)

func recoverSeparators(s string) string {
	return impliedRuleBoundary.ReplaceAllString(s, "$1; $2")
}

// trimStragglers strips a stray trailing ';', ',' or newline.
func trimStragglers(s string) string {
	return trailingSeparator.ReplaceAllString(s, "")
}
