package store

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pfeifer.dev/roadlimit/navi"
)

var t0 = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func TestApplyRawAndSnapshot(t *testing.T) {
	s := New(6 * time.Second)

	_, err := s.ApplyRaw(t0, []byte(`{"active":1,"road_limit":{"cam_limit_speed":60},"apilot":{"type":"opkrspdlimit","value":"60"}}`))
	require.NoError(t, err)

	r := s.Snapshot()
	require.NotNil(t, r.RoadLimit)
	require.NotNil(t, r.Apilot)
	assert.Equal(t, 60.0, r.RoadLimit.CamLimitSpeed)
	assert.Equal(t, "opkrspdlimit", r.Apilot.Type)
	assert.Equal(t, 1, r.Active)
	assert.Equal(t, Fresh, r.RoadLimitState)
	assert.Equal(t, Fresh, r.ApilotState)
}

func TestSnapshotIsACopy(t *testing.T) {
	s := New(0)
	_, err := s.ApplyRaw(t0, []byte(`{"road_limit":{"cam_limit_speed":60}}`))
	require.NoError(t, err)

	r := s.Snapshot()
	r.RoadLimit.CamLimitSpeed = 10

	assert.Equal(t, 60.0, s.Snapshot().RoadLimit.CamLimitSpeed)
}

func TestApplyRawDecodeFailureClearsRoadLimit(t *testing.T) {
	s := New(6 * time.Second)
	_, err := s.ApplyRaw(t0, []byte(`{"road_limit":{"cam_limit_speed":60},"apilot":{"type":"opkrspdlimit"}}`))
	require.NoError(t, err)

	_, err = s.ApplyRaw(t0.Add(time.Second), []byte(`{not json`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDecode))
	assert.True(t, errors.Is(err, navi.ErrMalformed))
	assert.Contains(t, err.Error(), "could not decode datagram: ")

	r := s.Snapshot()
	assert.Nil(t, r.RoadLimit)
	assert.Equal(t, Invalid, r.RoadLimitState)
	assert.NotNil(t, r.Apilot, "apilot group is untouched by a decode failure")
}

func TestCheckExpiryPerGroup(t *testing.T) {
	s := New(6 * time.Second)
	_, err := s.ApplyRaw(t0, []byte(`{"road_limit":{"cam_limit_speed":60}}`))
	require.NoError(t, err)
	_, err = s.ApplyRaw(t0.Add(4*time.Second), []byte(`{"apilot":{"type":"opkrspdlimit","value":"30"},"active":2}`))
	require.NoError(t, err)

	e := s.CheckExpiry(t0.Add(6 * time.Second))
	assert.False(t, e.Any(), "exactly at the threshold nothing expires")

	e = s.CheckExpiry(t0.Add(6*time.Second + time.Millisecond))
	assert.True(t, e.RoadLimit)
	assert.False(t, e.Apilot)
	assert.False(t, e.Active)

	r := s.Snapshot()
	assert.Nil(t, r.RoadLimit)
	assert.Equal(t, Expired, r.RoadLimitState)
	assert.NotNil(t, r.Apilot)
	assert.Equal(t, 2, r.Active)

	e = s.CheckExpiry(t0.Add(10*time.Second + time.Millisecond))
	assert.True(t, e.Apilot)
	assert.True(t, e.Active)

	r = s.Snapshot()
	assert.Nil(t, r.Apilot)
	assert.Equal(t, Expired, r.ApilotState)
	assert.Equal(t, 0, r.Active)
}

func TestActiveExpiresIndependently(t *testing.T) {
	s := New(6 * time.Second)
	_, err := s.ApplyRaw(t0, []byte(`{"active":1}`))
	require.NoError(t, err)
	_, err = s.ApplyRaw(t0.Add(5*time.Second), []byte(`{"road_limit":{"road_limit_speed":50}}`))
	require.NoError(t, err)

	e := s.CheckExpiry(t0.Add(7 * time.Second))
	assert.True(t, e.Active)
	assert.False(t, e.RoadLimit)
	assert.Equal(t, 0, s.Snapshot().Active)
	assert.NotNil(t, s.Snapshot().RoadLimit)
}

func TestApilotActiveFollowsApilotGroup(t *testing.T) {
	s := New(6 * time.Second)

	s.MarkApilotActive()
	assert.Equal(t, 0, s.Snapshot().ApilotActive, "no apilot group, nothing to latch")

	_, err := s.ApplyRaw(t0, []byte(`{"apilot":{"type":"apilotman"}}`))
	require.NoError(t, err)
	s.MarkApilotActive()
	assert.Equal(t, 1, s.Snapshot().ApilotActive)

	e := s.CheckExpiry(t0.Add(7 * time.Second))
	assert.True(t, e.ApilotActive)
	assert.Equal(t, 0, s.Snapshot().ApilotActive)
}

func TestNeverUpdatedIsAbsent(t *testing.T) {
	s := New(6 * time.Second)
	e := s.CheckExpiry(t0)
	assert.False(t, e.Any())

	r := s.Snapshot()
	assert.Equal(t, Absent, r.RoadLimitState)
	assert.Equal(t, Absent, r.ApilotState)
}
