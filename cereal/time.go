package cereal

import (
	"golang.org/x/sys/unix"
)

// GetTime is the monotonic clock in nanoseconds, the timebase of logMonoTime.
func GetTime() uint64 {
	ts := unix.Timespec{}
	if err := unix.ClockGettime(unix.CLOCK_MONOTONIC, &ts); err != nil {
		return 0
	}
	return uint64(ts.Nano())
}
