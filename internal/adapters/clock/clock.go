package clock

import "time"

// Clock reports wall time, or a fixed time when Now is set.
type Clock struct {
	Now func() time.Time
}

// Fixed returns a clock stuck at t.
func Fixed(t time.Time) Clock {
	return Clock{Now: func() time.Time { return t }}
}

// NowUnix returns current unix seconds.
func (c Clock) NowUnix() int64 {
	if c.Now != nil {
		return c.Now().Unix()
	}
	return time.Now().Unix()
}
