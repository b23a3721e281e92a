package openinghours

import "testing"

func TestComponentContains(t *testing.T) {
	cases := []struct {
		name string
		c    component
		v    int
		want bool
	}{
		{"single value match", component{From: 5}, 5, true},
		{"single value miss", component{From: 5}, 6, false},
		{"range inside", component{From: 1, To: 10}, 5, true},
		{"range boundary", component{From: 1, To: 10}, 10, true},
		{"range outside", component{From: 1, To: 10}, 11, false},
		{"stepped single below from", component{From: 10, Repeat: 5}, 9, false},
		{"stepped single on step", component{From: 10, Repeat: 5}, 20, true},
		{"stepped single off step", component{From: 10, Repeat: 5}, 21, false},
		{"stepped range off step", component{From: 1, To: 3, Repeat: 10}, 2, false},
		{"stepped range past end", component{From: 1, To: 3, Repeat: 10}, 12, false},
		{"stepped range gap", component{From: 1, To: 3, Repeat: 10}, 7, false},
	}

	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			if got := c.c.contains(c.v); got != c.want {
				t.Errorf("contains(%d) = %v, want %v", c.v, got, c.want)
			}
		})
	}
}

func TestYearRangeContains(t *testing.T) {
	cases := []struct {
		name string
		yr   YearRange
		year int
		want bool
	}{
		{"single year match", YearRange{Begin: 2020}, 2020, true},
		{"single year miss", YearRange{Begin: 2020}, 2021, false},
		{"closed range", YearRange{Begin: 2020, End: 2022, HasEnd: true}, 2021, true},
		{"open ended", YearRange{Begin: 2020, Open: true}, 2099, true},
		{"open ended before", YearRange{Begin: 2020, Open: true}, 2019, false},
		{"stepped range", YearRange{Begin: 2020, End: 2030, HasEnd: true, Interval: 2}, 2024, true},
		{"stepped range off step", YearRange{Begin: 2020, End: 2030, HasEnd: true, Interval: 2}, 2025, false},
	}

	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			if got := c.yr.contains(c.year); got != c.want {
				t.Errorf("contains(%d) = %v, want %v", c.year, got, c.want)
			}
		})
	}
}

func TestWeekRangeContains(t *testing.T) {
	wr := WeekRange{Begin: 10, End: 20}
	if !wr.contains(15) {
		t.Error("expected week 15 to be contained in 10-20")
	}
	if wr.contains(21) {
		t.Error("expected week 21 to be excluded from 10-20")
	}

	stepped := WeekRange{Begin: 1, End: 53, Interval: 2}
	if !stepped.contains(1) || stepped.contains(2) {
		t.Error("stepped week range should only match odd weeks in 1-53/2")
	}
}
