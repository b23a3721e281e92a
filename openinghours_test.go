package openinghours

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeHolidays is a minimal HolidayProvider for tests, grounded on the same
// region/year -> []Holiday shape calendarprovider.YAMLHolidayProvider
// implements against production fixtures.
type fakeHolidays struct {
	byYear map[int][]Holiday
}

func (f fakeHolidays) PublicHolidays(region string, year int) ([]Holiday, error) {
	return f.byYear[year], nil
}

// fakeSunEvents returns a fixed wall-clock time regardless of date/location,
// enough to exercise the evaluator's event-time resolution path.
type fakeSunEvents struct {
	at map[EventKind]time.Time
}

func (f fakeSunEvents) SunEvent(kind EventKind, date time.Time, lat, lon float64) (time.Time, error) {
	t, ok := f.at[kind]
	if !ok {
		return time.Time{}, nil
	}
	return t, nil
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	require.NoError(t, err)
	return d
}

func TestParseNormalizeRoundTrip(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Mo-Fr 08:00-12:00,13:00-17:30", "Mo-Fr 08:00-12:00,13:00-17:30"},
		{"Sa 08:00-12:00", "Sa 08:00-12:00"},
		{"24/7", "24/7"},
		{"PH off", "PH off"},
		{"Mo,We,Fr 10:00-14:00", "Mo,We,Fr 10:00-14:00"},
		{"Jan 01-05 off", "Jan 01-05 off"},
		{"week 1-10/2 Mo 09:00-12:00", "week 01-10/2 Mo 09:00-12:00"},
	}

	for _, c := range cases {
		c := c
		t.Run(c.in, func(t *testing.T) {
			exp, err := Parse(c.in)
			require.NoError(t, err)
			require.Equal(t, NoError, exp.Error(), "expected clean parse of %q", c.in)
			assert.Equal(t, c.want, exp.Normalized())
		})
	}
}

func TestParseSyntaxErrors(t *testing.T) {
	cases := []string{
		"23/7",
		"2020-2000 Mo 09:00-12:00",
		"Su[0] 09:00-12:00",
		"Mo[6] 09:00-12:00",
		"Mo 49:00-10:00",
		"week 10-5 Mo 09:00-12:00",
	}

	for _, in := range cases {
		in := in
		t.Run(in, func(t *testing.T) {
			exp, err := Parse(in)
			require.NoError(t, err)
			assert.Equal(t, SyntaxError, exp.Error(), "expected %q to be rejected", in)
			assert.False(t, exp.Evaluable())
		})
	}
}

func TestValidateMissingRegion(t *testing.T) {
	exp, err := Parse("PH off")
	require.NoError(t, err)
	require.Equal(t, NoError, exp.Error())

	code := exp.Validate(Collaborators{})
	assert.Equal(t, MissingRegion, code)
	assert.Equal(t, MissingRegion, exp.Error())
}

func TestValidateSchoolHolidayUnsupported(t *testing.T) {
	exp, err := Parse("SH off")
	require.NoError(t, err)

	code := exp.Validate(Collaborators{})
	assert.Equal(t, UnsupportedFeature, code)
}

func TestValidateMissingLocation(t *testing.T) {
	exp, err := Parse("sunrise-sunset off")
	require.NoError(t, err)

	code := exp.Validate(Collaborators{})
	assert.Equal(t, MissingLocation, code)
}

func TestValidateIncompatibleModeBareTimepoint(t *testing.T) {
	exp, err := Parse("Mo 09:00 off")
	require.NoError(t, err)

	code := exp.Validate(Collaborators{})
	assert.Equal(t, IncompatibleMode, code)
}

func TestIntervalAtSimpleWeek(t *testing.T) {
	exp, err := Parse("Mo-Fr 08:00-12:00,13:00-17:30; Sa 08:00-12:00")
	require.NoError(t, err)

	collab := NewCollaborators(nil, nil, nil, "", 0, 0)

	// Monday 2024-01-01, 09:00 -> open
	mon := mustDate(t, "2024-01-01")
	instant := mon.Add(9 * time.Hour)
	iv, err := exp.IntervalAt(instant, collab)
	require.NoError(t, err)
	assert.Equal(t, StateOpen, iv.State)

	// Same day, 12:30 -> closed (lunch gap)
	instant = mon.Add(12*time.Hour + 30*time.Minute)
	iv, err = exp.IntervalAt(instant, collab)
	require.NoError(t, err)
	assert.Equal(t, StateClosed, iv.State)

	// Sunday -> closed all day
	sun := mustDate(t, "2024-01-07")
	iv, err = exp.IntervalAt(sun.Add(10*time.Hour), collab)
	require.NoError(t, err)
	assert.Equal(t, StateClosed, iv.State)
}

func TestIntervalAtAdditionalRuleDoesNotCloseOpenHours(t *testing.T) {
	// An Additional rule only fills gaps that would otherwise be Closed; it
	// must not make an already-Open hour Unknown (§4.6).
	exp, err := Parse(`Mo 08:00-20:00 open, 12:00-14:00 unknown`)
	require.NoError(t, err)
	require.Equal(t, NoError, exp.Error())

	collab := NewCollaborators(nil, nil, nil, "", 0, 0)

	mon := mustDate(t, "2024-01-01")
	iv, err := exp.IntervalAt(mon.Add(13*time.Hour), collab)
	require.NoError(t, err)
	assert.Equal(t, StateOpen, iv.State)
}

func TestIntervalAtPublicHoliday(t *testing.T) {
	exp, err := Parse("Mo-Fr 08:00-18:00; PH off")
	require.NoError(t, err)

	newYear := mustDate(t, "2024-01-01") // a Monday
	holidays := fakeHolidays{byYear: map[int][]Holiday{
		2024: {{Date: newYear, Name: "New Year"}},
	}}
	collab := NewCollaborators(holidays, nil, nil, "AT", 0, 0)

	iv, err := exp.IntervalAt(newYear.Add(10*time.Hour), collab)
	require.NoError(t, err)
	assert.Equal(t, StateClosed, iv.State)

	tue := mustDate(t, "2024-01-02")
	iv, err = exp.IntervalAt(tue.Add(10*time.Hour), collab)
	require.NoError(t, err)
	assert.Equal(t, StateOpen, iv.State)
}

func TestIntervalAtOvernightWrap(t *testing.T) {
	exp, err := Parse("Fr 22:00-02:00")
	require.NoError(t, err)
	require.Equal(t, NoError, exp.Error())

	collab := NewCollaborators(nil, nil, nil, "", 0, 0)

	// Saturday 01:00 should still be open, carried over from Friday night.
	sat := mustDate(t, "2024-01-06") // Saturday
	iv, err := exp.IntervalAt(sat.Add(1*time.Hour), collab)
	require.NoError(t, err)
	assert.Equal(t, StateOpen, iv.State)

	// Saturday 03:00 should be closed again.
	iv, err = exp.IntervalAt(sat.Add(3*time.Hour), collab)
	require.NoError(t, err)
	assert.Equal(t, StateClosed, iv.State)
}

func TestIntervalAtSunEvent(t *testing.T) {
	exp, err := Parse("sunrise-sunset open")
	require.NoError(t, err)

	sun := fakeSunEvents{at: map[EventKind]time.Time{
		EventSunrise: time.Date(2024, 6, 1, 5, 30, 0, 0, time.UTC),
		EventSunset:  time.Date(2024, 6, 1, 21, 0, 0, 0, time.UTC),
	}}
	collab := NewCollaborators(nil, nil, sun, "", 52.5, 13.4)

	day := mustDate(t, "2024-06-01")
	iv, err := exp.IntervalAt(day.Add(10*time.Hour), collab)
	require.NoError(t, err)
	assert.Equal(t, StateOpen, iv.State)

	iv, err = exp.IntervalAt(day.Add(22*time.Hour), collab)
	require.NoError(t, err)
	assert.Equal(t, StateClosed, iv.State)
}

func TestNextIntervalWalksForward(t *testing.T) {
	exp, err := Parse("Mo-Fr 08:00-12:00")
	require.NoError(t, err)

	collab := NewCollaborators(nil, nil, nil, "", 0, 0)

	mon := mustDate(t, "2024-01-01")
	next, err := exp.NextInterval(mon.Add(9*time.Hour), collab)
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, StateClosed, next.State)
	assert.Equal(t, mon.Add(12*time.Hour), next.Begin)
}

func TestRequiredCapabilities(t *testing.T) {
	exp, err := Parse("PH off")
	require.NoError(t, err)
	caps := exp.RequiredCapabilities()
	assert.NotZero(t, caps&CapPublicHoliday)

	exp2, err := Parse("sunrise-sunset open")
	require.NoError(t, err)
	caps2 := exp2.RequiredCapabilities()
	assert.NotZero(t, caps2&CapLocation)
}

func TestMustParsePanicsOnSyntaxError(t *testing.T) {
	assert.Panics(t, func() {
		MustParse("23/7")
	})
}
