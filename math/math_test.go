package math

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMovingAverageSeedsWindow(t *testing.T) {
	ma := MovingAverage{}
	ma.Init(4)

	assert.Equal(t, 2.0, ma.Update(2))
	assert.Equal(t, 2.5, ma.Update(4))
	assert.Equal(t, 3.0, ma.Update(4))
	assert.Equal(t, 4.0, ma.Raw())
}

func TestMovingAverageReset(t *testing.T) {
	ma := MovingAverage{}
	ma.Init(3)
	ma.Update(9)
	ma.Update(9)
	ma.Reset()

	assert.Equal(t, 1.0, ma.Update(1))
	assert.Equal(t, 1.0, ma.Estimate)
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.8, Clamp(0.5, 0.8, 1.0))
	assert.Equal(t, 1.0, Clamp(1.7, 0.8, 1.0))
	assert.Equal(t, 0.9, Clamp(0.9, 0.8, 1.0))
	assert.Equal(t, 3, Clamp(5, 0, 3))
}
