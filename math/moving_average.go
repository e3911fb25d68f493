package math

// MovingAverage is a fixed window average. The first sample fills the whole
// window so the estimate starts at the first value instead of ramping from 0.
type MovingAverage struct {
	values      []float64
	index       int
	total       float64
	initialized bool
	Estimate    float64
}

func (a *MovingAverage) Init(size int) {
	if size < 1 {
		size = 1
	}
	a.values = make([]float64, size)
	a.index = 0
	a.total = 0
	a.initialized = false
	a.Estimate = 0
}

func (a *MovingAverage) Reset() {
	a.initialized = false
}

func (a *MovingAverage) Update(val float64) float64 {
	if len(a.values) == 0 {
		a.Init(1)
	}
	if !a.initialized {
		for i := range a.values {
			a.values[i] = val
		}
		a.total = val * float64(len(a.values))
		a.initialized = true
		a.Estimate = val
		return val
	}
	a.index = (a.index + 1) % len(a.values)
	a.total += val - a.values[a.index]
	a.values[a.index] = val
	a.Estimate = a.total / float64(len(a.values))
	return a.Estimate
}

func (a *MovingAverage) Raw() float64 {
	if len(a.values) == 0 {
		return 0
	}
	return a.values[a.index]
}
