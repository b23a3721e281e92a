package openinghours

import "testing"

func TestPreconditionHourMarkers(t *testing.T) {
	cases := map[string]string{
		"Mo 9h-18h":     "Mo 09:00-18:00",
		"Mo 9h30-18h00": "Mo 09:30-18:00",
	}
	for in, want := range cases {
		out, corrected := precondition(in)
		if out != want {
			t.Errorf("precondition(%q) = %q, want %q", in, out, want)
		}
		if !corrected {
			t.Errorf("precondition(%q) should report corrected=true", in)
		}
	}
}

func TestPreconditionAMPM(t *testing.T) {
	out, _ := precondition("Mo 9am-5pm")
	want := "Mo 09:00-17:00"
	if out != want {
		t.Errorf("precondition(ampm) = %q, want %q", out, want)
	}
}

func TestPreconditionLocaleWeekday(t *testing.T) {
	out, corrected := precondition("lundi 09:00-12:00")
	if out != "Mo 09:00-12:00" {
		t.Errorf("precondition(locale) = %q, want %q", out, "Mo 09:00-12:00")
	}
	if !corrected {
		t.Error("expected corrected=true for locale translation")
	}
}

func TestPreconditionLocaleMonth(t *testing.T) {
	out, _ := precondition("décembre 24 off")
	if out != "Dec 24 off" {
		t.Errorf("precondition(month) = %q, want %q", out, "Dec 24 off")
	}
}

func TestPreconditionRangeWords(t *testing.T) {
	out, _ := precondition("Mo 09:00 to 12:00")
	if out != "Mo 09:00-12:00" {
		t.Errorf("precondition(range word) = %q, want %q", out, "Mo 09:00-12:00")
	}
}

func TestPreconditionRangeWordBetweenTimespans(t *testing.T) {
	out, _ := precondition("Mo 09:00-12:00 and 14:00-18:00")
	want := "Mo 09:00-12:00,14:00-18:00"
	if out != want {
		t.Errorf("precondition(range word between timespans) = %q, want %q", out, want)
	}
}

func TestPreconditionAMPMRangeEndTwelveIsEndOfDay(t *testing.T) {
	out, _ := precondition("Mo 9am-12am")
	want := "Mo 09:00-24:00"
	if out != want {
		t.Errorf("precondition(12am range end) = %q, want %q", out, want)
	}
}

func TestPreconditionAMPMBareTwelveStillMidnight(t *testing.T) {
	out, _ := precondition("Mo 12am-17:00")
	want := "Mo 00:00-17:00"
	if out != want {
		t.Errorf("precondition(12am range start) = %q, want %q", out, want)
	}
}

func TestPreconditionLocaleWeekdayJapanese(t *testing.T) {
	out, corrected := precondition("月曜日 09:00-12:00")
	want := "Mo 09:00-12:00"
	if out != want {
		t.Errorf("precondition(japanese weekday) = %q, want %q", out, want)
	}
	if !corrected {
		t.Error("expected corrected=true for Japanese weekday translation")
	}
}

func TestPreconditionTrimsTrailingSeparator(t *testing.T) {
	out, _ := precondition("Mo 09:00-12:00;")
	if out != "Mo 09:00-12:00" {
		t.Errorf("precondition(trailing) = %q, want %q", out, "Mo 09:00-12:00")
	}
}

func TestPreconditionIdempotentOnCleanInput(t *testing.T) {
	in := "Mo-Fr 08:00-12:00"
	out, corrected := precondition(in)
	if out != in {
		t.Errorf("precondition(clean) = %q, want unchanged %q", out, in)
	}
	if corrected {
		t.Error("expected corrected=false for already-canonical input")
	}
}

func TestPreconditionFullwidthDigits(t *testing.T) {
	out, corrected := precondition("０９：００－１２：００")
	if out != "09:00-12:00" {
		t.Errorf("precondition(fullwidth) = %q, want %q", out, "09:00-12:00")
	}
	if !corrected {
		t.Error("expected corrected=true for fullwidth input")
	}
}
