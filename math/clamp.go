package math

func Clamp[T ~float32 | ~float64 | ~int](val, lo, hi T) T {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}
