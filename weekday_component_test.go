package openinghours

import (
	"testing"
	"time"
)

func TestDayIndex(t *testing.T) {
	cases := []struct {
		date string
		want int
	}{
		{"2024-01-01", 0}, // Monday
		{"2024-01-02", 1},
		{"2024-01-06", 5}, // Saturday
		{"2024-01-07", 6}, // Sunday
	}
	for _, c := range cases {
		tm, err := time.Parse("2006-01-02", c.date)
		if err != nil {
			t.Fatalf("parsing %s: %v", c.date, err)
		}
		if got := dayIndex(tm); got != c.want {
			t.Errorf("dayIndex(%s) = %d, want %d", c.date, got, c.want)
		}
	}
}

func TestWeekdayRangeContains(t *testing.T) {
	fm := WeekdayRange{BeginDay: 0, EndDay: 4, HasEnd: true} // Mo-Fr
	if !fm.contains(2) {
		t.Error("Wednesday should be in Mo-Fr")
	}
	if fm.contains(5) {
		t.Error("Saturday should not be in Mo-Fr")
	}

	wrap := WeekdayRange{BeginDay: 4, EndDay: 0, HasEnd: true} // Fr-Mo
	if !wrap.contains(5) || !wrap.contains(6) || !wrap.contains(0) {
		t.Error("Fr-Mo should contain Sa, Su, Mo")
	}
	if wrap.contains(2) {
		t.Error("Fr-Mo should not contain Wednesday")
	}

	single := WeekdayRange{BeginDay: 2}
	if !single.contains(2) || single.contains(3) {
		t.Error("single-day range should only match its own day")
	}
}

func TestWeekdayRangeContainsNth(t *testing.T) {
	// First Wednesday of January 2024 is Jan 3.
	wr := WeekdayRange{BeginDay: 2, Nth: []int{1}}

	firstWed, _ := time.Parse("2006-01-02", "2024-01-03")
	ok, err := wr.containsNth(firstWed)
	if err != nil {
		t.Fatalf("containsNth: %v", err)
	}
	if !ok {
		t.Error("expected first Wednesday of January to match We[1]")
	}

	secondWed, _ := time.Parse("2006-01-02", "2024-01-10")
	ok, err = wr.containsNth(secondWed)
	if err != nil {
		t.Fatalf("containsNth: %v", err)
	}
	if ok {
		t.Error("second Wednesday should not match We[1]")
	}

	lastWr := WeekdayRange{BeginDay: 2, Nth: []int{-1}}
	lastWed, _ := time.Parse("2006-01-02", "2024-01-31")
	ok, err = lastWr.containsNth(lastWed)
	if err != nil {
		t.Fatalf("containsNth: %v", err)
	}
	if !ok {
		t.Error("expected last Wednesday of January to match We[-1]")
	}
}
