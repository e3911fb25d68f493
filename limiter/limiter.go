package limiter

import (
	"log/slog"

	"pfeifer.dev/roadlimit/navi"
)

// Reader returns the most recent published advisory. ok is false until one
// has been received.
type Reader interface {
	Read() (adv navi.Published, ok bool)
}

// Limiter is the consumer side used by the speed controller. It is not safe
// for concurrent use.
type Limiter struct {
	reader  Reader
	profile Profile
}

func New(reader Reader) *Limiter {
	return &Limiter{reader: reader}
}

// GetActive returns the active flag reported by the companion device, with
// the validity band stripped. 0 when nothing has been received.
func (l *Limiter) GetActive() int {
	adv, ok := l.reader.Read()
	if !ok {
		return 0
	}
	return adv.Active % 100
}

// GetMaxSpeed returns the target speed for the latest advisory. Errors are
// reported through Result.Log and yield a zero result.
func (l *Limiter) GetMaxSpeed(clusterSpeed float64, isMetric bool, start, end, bump float64) Result {
	th := DefaultThresholds()
	th.StartFactor = start
	th.EndFactor = end
	th.BumpDist = bump
	return l.GetMaxSpeedWith(clusterSpeed, isMetric, th)
}

// GetMaxSpeedWith is GetMaxSpeed with a full set of thresholds.
func (l *Limiter) GetMaxSpeedWith(clusterSpeed float64, isMetric bool, th Thresholds) Result {
	adv, ok := l.reader.Read()
	if !ok {
		return Result{}
	}
	res, err := l.profile.Calculate(adv, clusterSpeed, isMetric, th)
	if err != nil {
		slog.Debug("could not calculate max speed", "error", err)
		return Result{Log: "Ex: " + err.Error()}
	}
	return res
}
