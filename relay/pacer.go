package relay

import (
	"time"

	m "pfeifer.dev/roadlimit/math"
)

const (
	PACER_KP       = 0.5
	PACER_KI       = 0.1
	PACER_MIN_WAIT = 0.8
	PACER_MAX_WAIT = 1.0
)

// pacer picks the wait before the next relay tick so the tick count tracks
// wall time. Waits stay within [0.8, 1.0] periods.
//
// Not safe for concurrent use.
type pacer struct {
	period   float64
	start    time.Time
	frame    int
	integral float64
}

func newPacer(period time.Duration, start time.Time) *pacer {
	return &pacer{period: period.Seconds(), start: start, frame: 1}
}

func (p *pacer) Next(now time.Time) time.Duration {
	err := float64(p.frame)*p.period - now.Sub(p.start).Seconds()
	p.integral += err * PACER_KI
	p.frame++

	wait := p.period + err*PACER_KP + p.integral
	wait = m.Clamp(wait, PACER_MIN_WAIT*p.period, PACER_MAX_WAIT*p.period)
	return time.Duration(wait * float64(time.Second))
}
