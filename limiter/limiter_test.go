package limiter

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"pfeifer.dev/roadlimit/navi"
)

type fakeReader struct {
	adv navi.Published
	ok  bool
}

func (f *fakeReader) Read() (navi.Published, bool) {
	return f.adv, f.ok
}

func TestGetActive(t *testing.T) {
	r := &fakeReader{}
	l := New(r)
	assert.Equal(t, 0, l.GetActive())

	r.ok = true
	for _, c := range []struct{ active, want int }{{0, 0}, {1, 1}, {101, 1}, {205, 5}, {100, 0}} {
		r.adv.Active = c.active
		assert.Equal(t, c.want, l.GetActive(), "active %d", c.active)
	}
}

func TestGetMaxSpeed(t *testing.T) {
	r := &fakeReader{}
	l := New(r)
	assert.Equal(t, Result{}, l.GetMaxSpeed(100, true, 22, 6, 10))

	r.ok = true
	r.adv = camera(60, 600)
	res := l.GetMaxSpeed(100, true, 22, 6, 10)
	assert.True(t, res.JustStarted)
	assert.Equal(t, 100.0, res.Speed)
	assert.True(t, strings.HasPrefix(res.Log, "SPDCTRL("))

	res = l.GetMaxSpeed(100, true, 22, 6, 10)
	assert.False(t, res.JustStarted)
}

func TestGetMaxSpeedShorterStart(t *testing.T) {
	r := &fakeReader{ok: true, adv: camera(60, 600)}
	l := New(r)
	res := l.GetMaxSpeed(100, true, 10, 6, 10)
	assert.Equal(t, 0.0, res.Speed)
	assert.Equal(t, 60.0, res.Limit)
}

func TestGetMaxSpeedInvalid(t *testing.T) {
	r := &fakeReader{ok: true, adv: camera(60, 600)}
	l := New(r)
	res := l.GetMaxSpeed(math.NaN(), true, 22, 6, 10)
	assert.Equal(t, 0.0, res.Speed)
	assert.Equal(t, 0.0, res.Limit)
	assert.Equal(t, 0.0, res.Distance)
	assert.False(t, res.JustStarted)
	assert.True(t, strings.HasPrefix(res.Log, "Ex: "))
}
