package cereal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pfeifer.dev/roadlimit/navi"
)

func TestRoadLimitSpeedEncoding(t *testing.T) {
	p := navi.Published{
		Active:                201,
		RoadLimitSpeed:        80,
		IsHighway:             true,
		CamType:               22,
		CamLimitSpeedLeftDist: 350,
		CamLimitSpeed:         60,
		SectionLimitSpeed:     100,
		SectionLeftDist:       1200,
		SectionAvgSpeed:       95.5,
		SectionLeftTime:       40,
		SectionAdjustSpeed:    true,
		CamSpeedFactor:        0.99,
		XTurnInfo:             2,
		XDistToTurn:           150,
		XSpdDist:              110,
		XSpdLimit:             10,
		XSignType:             22,
		XRoadSignType:         -1,
		XRoadLimitSpeed:       50,
		XRoadName:             "Main St(1/350/60 -1/-1/-1)",
	}

	msg, err := EncodeRoadLimitSpeed(p, 12345)
	require.NoError(t, err)
	b, err := msg.Marshal()
	require.NoError(t, err)

	got, err := DecodeRoadLimitSpeed(b)
	require.NoError(t, err)
	assert.InDelta(t, p.CamSpeedFactor, got.CamSpeedFactor, 1e-6)
	got.CamSpeedFactor = p.CamSpeedFactor
	assert.Equal(t, p, got)

	root, err := ReadRootRoadLimitSpeed(msg)
	require.NoError(t, err)
	assert.Equal(t, uint64(12345), root.LogMonoTime())
}

func TestRoadLimitSpeedNegativeInts(t *testing.T) {
	msg, err := EncodeRoadLimitSpeed(navi.Published{XSpdLimit: -1, XSpdDist: -1, CamType: -1}, 0)
	require.NoError(t, err)
	b, err := msg.Marshal()
	require.NoError(t, err)

	got, err := DecodeRoadLimitSpeed(b)
	require.NoError(t, err)
	assert.Equal(t, -1, got.XSpdLimit)
	assert.Equal(t, -1, got.XSpdDist)
	assert.Equal(t, -1, got.CamType)
	assert.Equal(t, "", got.XRoadName)
}

func TestDecodeGarbage(t *testing.T) {
	_, err := DecodeRoadLimitSpeed([]byte{1, 2, 3})
	assert.Error(t, err)
}

func TestVehicleState(t *testing.T) {
	msg, err := NewVehicleState(Vehicle{TotalDistance: 12345.5, VEgo: 20, GasPressed: true})
	require.NoError(t, err)
	b, err := msg.Marshal()
	require.NoError(t, err)

	v, err := ReadVehicleState(b)
	require.NoError(t, err)
	assert.Equal(t, Vehicle{TotalDistance: 12345.5, VEgo: 20, GasPressed: true}, v)
}

func TestGpsLocation(t *testing.T) {
	l := navi.Location{
		Latitude:           37.5665,
		Longitude:          126.978,
		Altitude:           38,
		Speed:              13.5,
		BearingDeg:         90,
		Accuracy:           4,
		TimestampMs:        1760000000000,
		VerticalAccuracy:   3,
		BearingAccuracyDeg: 1.5,
		SpeedAccuracy:      0.5,
	}
	msg, err := NewGpsLocation(l)
	require.NoError(t, err)
	b, err := msg.Marshal()
	require.NoError(t, err)

	got, err := ReadGpsLocation(b)
	require.NoError(t, err)
	assert.Equal(t, l, got)
}
