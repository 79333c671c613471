package clock

import (
	"testing"
	"time"
)

func TestRTCTimeRoundTrip(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	in := time.Date(2026, 2, 28, 23, 30, 15, 0, loc) // 22:30:15 UTC

	rt := toRTCTime(in)
	if rt.Year != 126 || rt.Mon != 1 || rt.Mday != 28 || rt.Hour != 22 || rt.Min != 30 || rt.Sec != 15 {
		t.Errorf("unexpected rtc fields %+v", rt)
	}
	if rt.Wday != int32(time.Saturday) {
		t.Errorf("expected Saturday, got %d", rt.Wday)
	}

	out := fromRTCTime(&rt)
	if !out.Equal(in) {
		t.Errorf("expected %v, got %v", in, out)
	}
}
