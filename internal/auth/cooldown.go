package auth

import "time"

// Cooldown gates resending a code for a fixed duration after it was sent.
type Cooldown struct {
	StartedAt time.Time
	Duration  time.Duration
}

func (c Cooldown) Remaining(now time.Time) int {
	if c.StartedAt.IsZero() {
		return 0
	}
	left := c.StartedAt.Add(c.Duration).Sub(now)
	if left <= 0 {
		return 0
	}
	return int((left + time.Second - 1) / time.Second)
}

func (c Cooldown) Active(now time.Time) bool {
	return c.Remaining(now) > 0
}
