package utils

import (
	"time"
)

// Tracked holds a value together with the time it was last refreshed.
type Tracked[T any] struct {
	Value       T
	Valid       bool
	UpdatedTime time.Time
}

func (t *Tracked[T]) Update(val T, now time.Time) {
	t.Value = val
	t.Valid = true
	t.UpdatedTime = now
}

func (t *Tracked[T]) Clear() {
	var zero T
	t.Value = zero
	t.Valid = false
}

func (t *Tracked[T]) Age(now time.Time) time.Duration {
	return now.Sub(t.UpdatedTime)
}

// Stale reports whether the value has not been refreshed within maxAge.
// A value that was never updated is always stale.
func (t *Tracked[T]) Stale(now time.Time, maxAge time.Duration) bool {
	if t.UpdatedTime.IsZero() {
		return true
	}
	return t.Age(now) > maxAge
}
