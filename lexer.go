package openinghours

import (
	"fmt"
	"strings"
)

// tokenKind enumerates the token classes of §4.2.
type tokenKind int

const (
	tokEOF tokenKind = iota
	tok247
	tokState
	tokTime
	tokInt
	tokWeekday
	tokMonth
	tokWeek
	tokDay
	tokEaster
	tokEvent
	tokPH
	tokSH
	tokComment
	tokPunct
	tokInvalid
)

// token is one lexical unit with its source position, used for diagnostics.
type token struct {
	kind tokenKind
	text string
	pos  int

	// decoded payloads, populated depending on kind
	intVal          int
	hour, minute    int
	weekday         int // 0..6 Monday..Sunday
	month           int // 1..12
}

var weekdayTokens = map[string]int{
	"Mo": 0, "Tu": 1, "We": 2, "Th": 3, "Fr": 4, "Sa": 5, "Su": 6,
}

var monthTokens = map[string]int{
	"Jan": 1, "Feb": 2, "Mar": 3, "Apr": 4, "May": 5, "Jun": 6,
	"Jul": 7, "Aug": 8, "Sep": 9, "Oct": 10, "Nov": 11, "Dec": 12,
}

var stateTokens = map[string]bool{
	"open": true, "closed": true, "off": true, "unknown": true,
}

var eventTokens = map[string]bool{
	"sunrise": true, "sunset": true, "dawn": true, "dusk": true,
}

const multiCharPunct = "||"
const singleCharPunct = "+-/:,;[]()"

// lex turns the preconditioned text into a token stream. An invalid byte
// stops lexing with a non-nil error, which forces a SyntaxError on the
// caller per §4.2. An unrecognized word becomes a tokInvalid token, which
// the parser then rejects.
func lex(s string) ([]token, error) {
	var toks []token
	i := 0
	n := len(s)

	for i < n {
		c := s[i]

		switch {
		case c == ' ' || c == '\t':
			i++
			continue

		case c == '"':
			start := i
			i++
			var b strings.Builder
			closed := false
			for i < n {
				if s[i] == '\\' && i+1 < n {
					b.WriteByte(s[i+1])
					i += 2
					continue
				}
				if s[i] == '"' {
					closed = true
					i++
					break
				}
				b.WriteByte(s[i])
				i++
			}
			if !closed {
				return toks, fmt.Errorf("lex: unterminated comment at %d", start)
			}
			toks = append(toks, token{kind: tokComment, text: b.String(), pos: start})
			continue

		case strings.HasPrefix(s[i:], "24/7"):
			toks = append(toks, token{kind: tok247, text: "24/7", pos: i})
			i += 4
			continue

		case strings.HasPrefix(s[i:], multiCharPunct):
			toks = append(toks, token{kind: tokPunct, text: multiCharPunct, pos: i})
			i += len(multiCharPunct)
			continue

		case c >= '0' && c <= '9':
			start := i
			for i < n && s[i] >= '0' && s[i] <= '9' {
				i++
			}
			if i < n && s[i] == ':' {
				hourStr := s[start:i]
				i++
				mstart := i
				for i < n && s[i] >= '0' && s[i] <= '9' {
					i++
				}
				minStr := s[mstart:i]
				tok := token{kind: tokTime, text: s[start:i], pos: start}
				tok.hour = atoiSafe(hourStr)
				tok.minute = atoiSafe(minStr)
				toks = append(toks, tok)
				continue
			}
			intStr := s[start:i]
			toks = append(toks, token{kind: tokInt, text: intStr, pos: start, intVal: atoiSafe(intStr)})
			continue

		case isWordByte(c):
			start := i
			for i < n && (isWordByte(s[i]) || s[i] == '_') {
				i++
			}
			word := s[start:i]
			toks = append(toks, classifyWord(word, start))
			continue

		case strings.ContainsRune(singleCharPunct, rune(c)):
			toks = append(toks, token{kind: tokPunct, text: string(c), pos: i})
			i++
			continue

		default:
			return toks, fmt.Errorf("lex: invalid byte %q at %d", c, i)
		}
	}

	toks = append(toks, token{kind: tokEOF, pos: i})
	return toks, nil
}

// titleCase3 upper-cases the first byte and lower-cases the rest, used to
// match a 3-byte prefix against the canonical month table regardless of
// source casing.
func titleCase3(s string) string {
	if s == "" {
		return s
	}
	b := []byte(strings.ToLower(s))
	if b[0] >= 'a' && b[0] <= 'z' {
		b[0] -= 'a' - 'A'
	}
	return string(b)
}

func classifyWord(word string, pos int) token {
	if wd, ok := weekdayTokens[word]; ok {
		return token{kind: tokWeekday, text: word, pos: pos, weekday: wd}
	}
	if m, ok := monthTokens[word]; ok {
		return token{kind: tokMonth, text: word, pos: pos, month: m}
	}
	lower := caseFolder.String(word)
	if stateTokens[lower] {
		return token{kind: tokState, text: lower, pos: pos}
	}
	if eventTokens[lower] {
		return token{kind: tokEvent, text: lower, pos: pos}
	}
	switch word {
	case "week":
		return token{kind: tokWeek, text: word, pos: pos}
	case "day":
		return token{kind: tokDay, text: word, pos: pos}
	case "easter":
		return token{kind: tokEaster, text: word, pos: pos}
	case "PH":
		return token{kind: tokPH, text: word, pos: pos}
	case "SH":
		return token{kind: tokSH, text: word, pos: pos}
	}
	// Unrecognized bareword: tolerated as a partial weekday/month token
	// (§4.2 "tolerates partial tokens") by matching the two/three-letter
	// prefix against the canonical tables.
	if len(word) >= 2 {
		if wd, ok := weekdayTokens[word[:2]]; ok {
			return token{kind: tokWeekday, text: word[:2], pos: pos, weekday: wd}
		}
	}
	if len(word) >= 3 {
		if m, ok := monthTokens[titleCase3(word[:3])]; ok {
			return token{kind: tokMonth, text: word[:3], pos: pos, month: m}
		}
	}
	return token{kind: tokInvalid, text: word, pos: pos}
}
