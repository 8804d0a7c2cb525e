package loyalty

import (
	"testing"
	"time"
)

func TestRemaining(t *testing.T) {
	base := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		expiry time.Time
		want   Countdown
	}{
		{"ten days out", base.Add(10 * 24 * time.Hour), Countdown{Days: 10}},
		{"mixed fields", base.Add(2*24*time.Hour + 3*time.Hour + 4*time.Minute + 5*time.Second), Countdown{Days: 2, Hours: 3, Minutes: 4, Seconds: 5}},
		{"under a minute", base.Add(59 * time.Second), Countdown{Seconds: 59}},
		{"exactly expired", base, Countdown{}},
		{"already expired", base.Add(-time.Hour), Countdown{}},
		{"sub-second truncates to zero", base.Add(500 * time.Millisecond), Countdown{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Remaining(tt.expiry, base); got != tt.want {
				t.Errorf("Remaining() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRemainingAllZeroOnceExpired(t *testing.T) {
	expiry := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

	for _, offset := range []time.Duration{0, time.Second, time.Hour, 365 * 24 * time.Hour} {
		got := Remaining(expiry, expiry.Add(offset))
		if !got.Expired() {
			t.Errorf("now = expiry+%v: got %+v, want all-zero", offset, got)
		}
	}

	// At least a full minute out, every display path has something to show.
	got := Remaining(expiry, expiry.Add(-time.Minute))
	if got.Expired() {
		t.Errorf("one minute before expiry must not read as expired, got %+v", got)
	}
}

func TestRemainingBackwardNow(t *testing.T) {
	expiry := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

	// A now far before expiry (clock moved backward) just yields a large
	// countdown, never a panic or negative field.
	got := Remaining(expiry, expiry.Add(-1000*24*time.Hour))
	if got.Days != 1000 || got.Hours < 0 || got.Minutes < 0 || got.Seconds < 0 {
		t.Errorf("backward now: got %+v", got)
	}
}

func TestExpiringSoon(t *testing.T) {
	base := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		expiry time.Time
		want   bool
	}{
		{"expired", base.Add(-time.Hour), false},
		{"exactly now", base, false},
		{"one hour left ceils to one day", base.Add(time.Hour), true},
		{"seven days left", base.Add(7 * 24 * time.Hour), true},
		{"just over seven days ceils to eight", base.Add(7*24*time.Hour + time.Minute), false},
		{"thirty days left", base.Add(30 * 24 * time.Hour), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExpiringSoon(tt.expiry, base); got != tt.want {
				t.Errorf("ExpiringSoon() = %v, want %v", got, tt.want)
			}
		})
	}
}
