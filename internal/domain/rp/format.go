package rp

import (
	"fmt"
	"time"
)

// FormatRemaining renders a wait duration the way the bot surfaces it to
// users, e.g. "5 min 12 sec".
func FormatRemaining(d time.Duration) string {
	if d <= 0 {
		return "ready"
	}
	total := int((d + time.Second - 1) / time.Second)
	minutes := total / 60
	seconds := total % 60
	if minutes > 0 {
		return fmt.Sprintf("%d min %d sec", minutes, seconds)
	}
	return fmt.Sprintf("%d sec", seconds)
}

// RemainingSeconds is the ceiling of the wait until a stored expiry,
// floored at zero. Always computed from now, never cached.
func RemainingSeconds(until time.Time, now time.Time) int {
	remaining := until.Sub(now)
	if remaining <= 0 {
		return 0
	}
	secs := int((remaining + time.Second - 1) / time.Second)
	if secs < 1 {
		secs = 1
	}
	return secs
}
