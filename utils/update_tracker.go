package utils

import (
	"time"

	m "pfeifer.dev/roadlimit/math"
)

// UpdateTracker keeps a moving average of the time between updates.
type UpdateTracker struct {
	LastTime time.Time
	Time     time.Time
	DiffMA   m.MovingAverage
}

func (u *UpdateTracker) Init(maLength int) {
	u.LastTime = time.Now()
	u.Time = time.Now()
	u.DiffMA.Init(maLength)
}

func (u *UpdateTracker) Update(now time.Time) float64 {
	u.LastTime = u.Time
	u.Time = now
	return u.DiffMA.Update(u.Time.Sub(u.LastTime).Seconds())
}
