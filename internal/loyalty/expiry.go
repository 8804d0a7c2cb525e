package loyalty

import (
	"math"
	"time"
)

// ExpiringSoonDays is the window for the "expiring soon" badge.
const ExpiringSoonDays = 7

// Countdown is the remaining time until an expiry, broken into display
// fields. All fields are zero once the expiry has passed.
type Countdown struct {
	Days    int `json:"days"`
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
	Seconds int `json:"seconds"`
}

// Expired reports whether the countdown has run out.
func (c Countdown) Expired() bool {
	return c.Days == 0 && c.Hours == 0 && c.Minutes == 0 && c.Seconds == 0
}

// Remaining computes the time left until expiry using truncating
// division. Safe to call at any rate and with a now past or after
// expiry; callers treat the all-zero result as expired.
func Remaining(expiry, now time.Time) Countdown {
	diff := expiry.Sub(now)
	if diff <= 0 {
		return Countdown{}
	}

	secs := int(diff / time.Second)
	return Countdown{
		Days:    secs / 86400,
		Hours:   secs / 3600 % 24,
		Minutes: secs / 60 % 60,
		Seconds: secs % 60,
	}
}

// ExpiringSoon reports whether the expiry falls within the badge
// window. The day count here is a ceiling while Remaining floors;
// the asymmetry is inherited behavior and kept on purpose.
func ExpiringSoon(expiry, now time.Time) bool {
	diff := expiry.Sub(now)
	if diff <= 0 {
		return false
	}

	days := int(math.Ceil(diff.Hours() / 24))
	return days <= ExpiringSoonDays
}
