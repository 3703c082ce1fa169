package storage

import (
	"testing"
	"time"
)

func TestTimestampsSortLexically(t *testing.T) {
	a := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	b := a.Add(500 * time.Millisecond)
	c := a.Add(time.Second)
	fa, fb, fc := FormatTimestamp(a), FormatTimestamp(b), FormatTimestamp(c)
	if !(fa < fb && fb < fc) {
		t.Errorf("timestamps do not sort: %s %s %s", fa, fb, fc)
	}
	if len(fa) != len(fb) {
		t.Errorf("timestamps are not fixed width: %q %q", fa, fb)
	}

	back, err := ParseTimestamp(fb)
	if err != nil {
		t.Fatalf("ParseTimestamp: %v", err)
	}
	if !back.Equal(b) {
		t.Errorf("ParseTimestamp(%q) = %v, want %v", fb, back, b)
	}

	local := time.Date(2024, 3, 1, 10, 0, 0, 0, time.FixedZone("CET", 3600))
	if FormatTimestamp(local) != fa {
		t.Errorf("FormatTimestamp should normalise to UTC, got %s", FormatTimestamp(local))
	}
}

func TestWeekdays(t *testing.T) {
	days, err := DecodeWeekdays(EncodeWeekdays([]int{2, 4, 6}))
	if err != nil {
		t.Fatalf("DecodeWeekdays: %v", err)
	}
	if len(days) != 3 || days[0] != 2 || days[2] != 6 {
		t.Errorf("DecodeWeekdays() = %v", days)
	}
	if days, err := DecodeWeekdays(""); err != nil || days != nil {
		t.Errorf("DecodeWeekdays(\"\") = %v, %v", days, err)
	}
	for _, bad := range []string{"0", "8", "mon"} {
		if _, err := DecodeWeekdays(bad); err == nil {
			t.Errorf("DecodeWeekdays(%q) expected error", bad)
		}
	}
}

func TestStringLists(t *testing.T) {
	encoded, err := EncodeStrings(nil)
	if err != nil || encoded != "[]" {
		t.Errorf("EncodeStrings(nil) = %q, %v", encoded, err)
	}
	encoded, _ = EncodeStrings([]string{"2024-01-01", "2024-01-02"})
	values, err := DecodeStrings(encoded)
	if err != nil || len(values) != 2 || values[1] != "2024-01-02" {
		t.Errorf("DecodeStrings() = %v, %v", values, err)
	}
	if _, err := DecodeStrings("{"); err == nil {
		t.Error("DecodeStrings should reject invalid JSON")
	}

	if got := DecodeBadges(EncodeBadges([]string{"A", "B"})); len(got) != 2 || got[1] != "B" {
		t.Errorf("badges round trip = %v", got)
	}
	if DecodeBadges("") != nil {
		t.Error("DecodeBadges(\"\") should be nil")
	}
	if MillisToDuration(DurationToMillis(90*time.Minute)) != 90*time.Minute {
		t.Error("reminder time round trip failed")
	}
}
