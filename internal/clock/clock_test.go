package clock

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		input string
		want  TimeOfDay
		ok    bool
	}{
		{"4:00 PM", 16 * 3600, true},
		{"4:00PM", 16 * 3600, true},
		{"4 PM", 16 * 3600, true},
		{"4:30 pm", 16*3600 + 30*60, true},
		{"12:00 AM", 0, true},
		{"12:00 PM", 12 * 3600, true},
		{"12:15 am", 15 * 60, true},
		{"16:00", 16 * 3600, true},
		{"0:05", 5 * 60, true},
		{"23:59", 23*3600 + 59*60, true},
		{"16", 0, false},
		{"25:00", 0, false},
		{"13:00 PM", 0, false},
		{"4:61 PM", 0, false},
		{"noon", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := Parse(tt.input)
			if ok != tt.ok {
				t.Fatalf("Parse(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Errorf("Parse(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestDelta_MidnightWraparound(t *testing.T) {
	start, _ := Parse("11:00 PM")
	end, _ := Parse("1:00 AM")

	got := Delta(start, end)
	if got != 2*3600 {
		t.Errorf("Delta(11 PM, 1 AM) = %d, want %d", got, 2*3600)
	}
	if got < 0 {
		t.Error("midnight-crossing delta must never be negative")
	}
}

func TestDelta_SameDay(t *testing.T) {
	start, _ := Parse("4:00 PM")
	end, _ := Parse("6:00 PM")
	if got := Delta(start, end); got != 2*3600 {
		t.Errorf("Delta = %d, want %d", got, 2*3600)
	}
}

func TestFormatConventions(t *testing.T) {
	// The two output conventions differ only in hour padding.
	tests := []struct {
		seconds      int
		wantChapter  string
		wantDuration string
	}{
		{0, "0:00:00", "00:00:00"},
		{5 * 60, "0:05:00", "00:05:00"},
		{2 * 3600, "2:00:00", "02:00:00"},
		{3*3600 + 7*60 + 9, "3:07:09", "03:07:09"},
	}

	for _, tt := range tests {
		if got := FormatChapter(tt.seconds); got != tt.wantChapter {
			t.Errorf("FormatChapter(%d) = %q, want %q", tt.seconds, got, tt.wantChapter)
		}
		if got := FormatDuration(tt.seconds); got != tt.wantDuration {
			t.Errorf("FormatDuration(%d) = %q, want %q", tt.seconds, got, tt.wantDuration)
		}
	}
}

func TestParseDuration(t *testing.T) {
	got, err := ParseDuration("02:00:00")
	if err != nil || got != 2*3600 {
		t.Errorf("ParseDuration = %d, %v", got, err)
	}
	if _, err := ParseDuration("2:00"); err == nil {
		t.Error("expected error for malformed duration")
	}
	if _, err := ParseDuration("aa:bb:cc"); err == nil {
		t.Error("expected error for non-numeric duration")
	}
}

func TestParseRoundTripsThroughDelta(t *testing.T) {
	// Any pair of valid clock strings must produce a formattable delta.
	inputs := []string{"12:00 AM", "4 AM", "11:59 AM", "12:00 PM", "4:00PM", "16:00", "23:59"}
	for _, a := range inputs {
		for _, b := range inputs {
			ta, ok := Parse(a)
			if !ok {
				t.Fatalf("Parse(%q) failed", a)
			}
			tb, ok := Parse(b)
			if !ok {
				t.Fatalf("Parse(%q) failed", b)
			}
			d := Delta(ta, tb)
			if d < 0 || d >= 24*3600 {
				t.Errorf("Delta(%q, %q) = %d out of range", a, b, d)
			}
			_ = FormatChapter(d)
			_ = FormatDuration(d)
		}
	}
}
