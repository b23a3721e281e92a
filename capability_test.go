package openinghours

import "testing"

func TestRuleCapabilitiesOpenEndedSteppedYear(t *testing.T) {
	r := Rule{Year: &YearRange{Begin: 2020, Open: true, Interval: 2}}
	caps := ruleCapabilities(r)
	if caps&CapNotImplemented == 0 {
		t.Error("expected CapNotImplemented for open-ended stepped year range")
	}
}

func TestRuleCapabilitiesSchoolHoliday(t *testing.T) {
	r := Rule{Weekday: &WeekdaySelector{Holidays: []HolidayRef{{Kind: SchoolHoliday}}}}
	caps := ruleCapabilities(r)
	if caps&CapSchoolHoliday == 0 || caps&CapNotImplemented == 0 {
		t.Errorf("expected CapSchoolHoliday|CapNotImplemented, got %v", caps)
	}
}

func TestRuleCapabilitiesPublicHoliday(t *testing.T) {
	r := Rule{Weekday: &WeekdaySelector{Holidays: []HolidayRef{{Kind: PublicHoliday}}}}
	caps := ruleCapabilities(r)
	if caps&CapPublicHoliday == 0 {
		t.Error("expected CapPublicHoliday")
	}
	if caps&CapNotImplemented != 0 {
		t.Error("public holiday alone should not require CapNotImplemented")
	}
}

func TestRuleCapabilitiesSunEvent(t *testing.T) {
	r := Rule{Time: &TimeSelector{Spans: []Timespan{{Begin: Time{Event: EventSunrise}, End: Time{Event: EventSunset}, HasEnd: true}}}}
	caps := ruleCapabilities(r)
	if caps&CapLocation == 0 {
		t.Error("expected CapLocation for sun-event timespan")
	}
}

func TestValidateNoErrorOnPlainRule(t *testing.T) {
	rules := []Rule{{Weekday: &WeekdaySelector{Ranges: []WeekdayRange{{BeginDay: 0}}},
		Time: &TimeSelector{Spans: []Timespan{{Begin: wallTime(8, 0), End: wallTime(12, 0), HasEnd: true}}}}}
	if code := validate(rules, Collaborators{}); code != NoError {
		t.Errorf("validate() = %v, want NoError", code)
	}
}

func TestValidateOpenEndedSteppedYearRejected(t *testing.T) {
	rules := []Rule{{Year: &YearRange{Begin: 2020, Open: true, Interval: 2}}}
	if code := validate(rules, Collaborators{}); code != UnsupportedFeature {
		t.Errorf("validate() = %v, want UnsupportedFeature", code)
	}
}
