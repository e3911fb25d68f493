package cereal

import (
	"math"

	"capnproto.org/go/capnp/v3"
	"github.com/pkg/errors"

	"pfeifer.dev/roadlimit/navi"
)

var gpsLocationSize = capnp.ObjectSize{DataSize: 56, PointerCount: 0}

type GpsLocation capnp.Struct

func NewRootGpsLocation(s *capnp.Segment) (GpsLocation, error) {
	st, err := capnp.NewRootStruct(s, gpsLocationSize)
	return GpsLocation(st), err
}

func ReadRootGpsLocation(msg *capnp.Message) (GpsLocation, error) {
	root, err := msg.Root()
	return GpsLocation(root.Struct()), err
}

func (s GpsLocation) float64At(off capnp.DataOffset) float64 {
	return math.Float64frombits(capnp.Struct(s).Uint64(off))
}

func (s GpsLocation) setFloat64At(off capnp.DataOffset, v float64) {
	capnp.Struct(s).SetUint64(off, math.Float64bits(v))
}

func (s GpsLocation) float32At(off capnp.DataOffset) float32 {
	return math.Float32frombits(capnp.Struct(s).Uint32(off))
}

func (s GpsLocation) setFloat32At(off capnp.DataOffset, v float32) {
	capnp.Struct(s).SetUint32(off, math.Float32bits(v))
}

func (s GpsLocation) Latitude() float64 {
	return s.float64At(0)
}

func (s GpsLocation) SetLatitude(v float64) {
	s.setFloat64At(0, v)
}

func (s GpsLocation) Longitude() float64 {
	return s.float64At(8)
}

func (s GpsLocation) SetLongitude(v float64) {
	s.setFloat64At(8, v)
}

func (s GpsLocation) Altitude() float64 {
	return s.float64At(16)
}

func (s GpsLocation) SetAltitude(v float64) {
	s.setFloat64At(16, v)
}

func (s GpsLocation) Speed() float32 {
	return s.float32At(24)
}

func (s GpsLocation) SetSpeed(v float32) {
	s.setFloat32At(24, v)
}

func (s GpsLocation) BearingDeg() float32 {
	return s.float32At(28)
}

func (s GpsLocation) SetBearingDeg(v float32) {
	s.setFloat32At(28, v)
}

func (s GpsLocation) Accuracy() float32 {
	return s.float32At(32)
}

func (s GpsLocation) SetAccuracy(v float32) {
	s.setFloat32At(32, v)
}

func (s GpsLocation) VerticalAccuracy() float32 {
	return s.float32At(36)
}

func (s GpsLocation) SetVerticalAccuracy(v float32) {
	s.setFloat32At(36, v)
}

func (s GpsLocation) BearingAccuracyDeg() float32 {
	return s.float32At(40)
}

func (s GpsLocation) SetBearingAccuracyDeg(v float32) {
	s.setFloat32At(40, v)
}

func (s GpsLocation) SpeedAccuracy() float32 {
	return s.float32At(44)
}

func (s GpsLocation) SetSpeedAccuracy(v float32) {
	s.setFloat32At(44, v)
}

func (s GpsLocation) UnixTimestampMillis() int64 {
	return int64(capnp.Struct(s).Uint64(48))
}

func (s GpsLocation) SetUnixTimestampMillis(v int64) {
	capnp.Struct(s).SetUint64(48, uint64(v))
}

func (s GpsLocation) Location() navi.Location {
	return navi.Location{
		Latitude:           s.Latitude(),
		Longitude:          s.Longitude(),
		Altitude:           s.Altitude(),
		Speed:              float64(s.Speed()),
		BearingDeg:         float64(s.BearingDeg()),
		Accuracy:           float64(s.Accuracy()),
		TimestampMs:        s.UnixTimestampMillis(),
		VerticalAccuracy:   float64(s.VerticalAccuracy()),
		BearingAccuracyDeg: float64(s.BearingAccuracyDeg()),
		SpeedAccuracy:      float64(s.SpeedAccuracy()),
	}
}

func NewGpsLocation(l navi.Location) (*capnp.Message, error) {
	msg, seg, err := capnp.NewMessage(capnp.SingleSegment(nil))
	if err != nil {
		return nil, errors.Wrap(err, "could not create message")
	}
	gps, err := NewRootGpsLocation(seg)
	if err != nil {
		return nil, errors.Wrap(err, "could not create gps location")
	}
	gps.SetLatitude(l.Latitude)
	gps.SetLongitude(l.Longitude)
	gps.SetAltitude(l.Altitude)
	gps.SetSpeed(float32(l.Speed))
	gps.SetBearingDeg(float32(l.BearingDeg))
	gps.SetAccuracy(float32(l.Accuracy))
	gps.SetVerticalAccuracy(float32(l.VerticalAccuracy))
	gps.SetBearingAccuracyDeg(float32(l.BearingAccuracyDeg))
	gps.SetSpeedAccuracy(float32(l.SpeedAccuracy))
	gps.SetUnixTimestampMillis(l.TimestampMs)
	return msg, nil
}

func ReadGpsLocation(data []byte) (navi.Location, error) {
	msg, err := capnp.Unmarshal(data)
	if err != nil {
		return navi.Location{}, errors.Wrap(err, "could not unmarshal gps location")
	}
	gps, err := ReadRootGpsLocation(msg)
	if err != nil {
		return navi.Location{}, errors.Wrap(err, "could not read gps location")
	}
	return gps.Location(), nil
}
