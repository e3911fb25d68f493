package fusion

import "math"

// Odometer turns the vehicle's total travelled distance into a per-tick
// delta. The first sample and any backwards step yield 0.
type Odometer struct {
	total float64
	valid bool
}

func (o *Odometer) Delta(total float64) float64 {
	if math.IsNaN(total) || math.IsInf(total, 0) {
		return 0
	}
	if !o.valid {
		o.total = total
		o.valid = true
		return 0
	}
	delta := total - o.total
	o.total = total
	if delta < 0 {
		return 0
	}
	return delta
}

func (o *Odometer) Reset() {
	o.total = 0
	o.valid = false
}
