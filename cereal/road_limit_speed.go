package cereal

import (
	"math"

	"capnproto.org/go/capnp/v3"
	"github.com/pkg/errors"

	"pfeifer.dev/roadlimit/navi"
)

var roadLimitSpeedSize = capnp.ObjectSize{DataSize: 80, PointerCount: 1}

// RoadLimitSpeed is the published advisory message.
type RoadLimitSpeed capnp.Struct

func NewRootRoadLimitSpeed(s *capnp.Segment) (RoadLimitSpeed, error) {
	st, err := capnp.NewRootStruct(s, roadLimitSpeedSize)
	return RoadLimitSpeed(st), err
}

func ReadRootRoadLimitSpeed(msg *capnp.Message) (RoadLimitSpeed, error) {
	root, err := msg.Root()
	return RoadLimitSpeed(root.Struct()), err
}

func (s RoadLimitSpeed) Active() int32 {
	return int32(capnp.Struct(s).Uint32(0))
}

func (s RoadLimitSpeed) SetActive(v int32) {
	capnp.Struct(s).SetUint32(0, uint32(v))
}

func (s RoadLimitSpeed) RoadLimitSpeed() float32 {
	return math.Float32frombits(capnp.Struct(s).Uint32(4))
}

func (s RoadLimitSpeed) SetRoadLimitSpeed(v float32) {
	capnp.Struct(s).SetUint32(4, math.Float32bits(v))
}

func (s RoadLimitSpeed) IsHighway() bool {
	return capnp.Struct(s).Bit(64)
}

func (s RoadLimitSpeed) SetIsHighway(v bool) {
	capnp.Struct(s).SetBit(64, v)
}

func (s RoadLimitSpeed) SectionAdjustSpeed() bool {
	return capnp.Struct(s).Bit(65)
}

func (s RoadLimitSpeed) SetSectionAdjustSpeed(v bool) {
	capnp.Struct(s).SetBit(65, v)
}

func (s RoadLimitSpeed) CamType() int32 {
	return int32(capnp.Struct(s).Uint32(12))
}

func (s RoadLimitSpeed) SetCamType(v int32) {
	capnp.Struct(s).SetUint32(12, uint32(v))
}

func (s RoadLimitSpeed) CamLimitSpeedLeftDist() float32 {
	return math.Float32frombits(capnp.Struct(s).Uint32(16))
}

func (s RoadLimitSpeed) SetCamLimitSpeedLeftDist(v float32) {
	capnp.Struct(s).SetUint32(16, math.Float32bits(v))
}

func (s RoadLimitSpeed) CamLimitSpeed() float32 {
	return math.Float32frombits(capnp.Struct(s).Uint32(20))
}

func (s RoadLimitSpeed) SetCamLimitSpeed(v float32) {
	capnp.Struct(s).SetUint32(20, math.Float32bits(v))
}

func (s RoadLimitSpeed) SectionLimitSpeed() float32 {
	return math.Float32frombits(capnp.Struct(s).Uint32(24))
}

func (s RoadLimitSpeed) SetSectionLimitSpeed(v float32) {
	capnp.Struct(s).SetUint32(24, math.Float32bits(v))
}

func (s RoadLimitSpeed) SectionLeftDist() float32 {
	return math.Float32frombits(capnp.Struct(s).Uint32(28))
}

func (s RoadLimitSpeed) SetSectionLeftDist(v float32) {
	capnp.Struct(s).SetUint32(28, math.Float32bits(v))
}

func (s RoadLimitSpeed) SectionAvgSpeed() float32 {
	return math.Float32frombits(capnp.Struct(s).Uint32(32))
}

func (s RoadLimitSpeed) SetSectionAvgSpeed(v float32) {
	capnp.Struct(s).SetUint32(32, math.Float32bits(v))
}

func (s RoadLimitSpeed) SectionLeftTime() float32 {
	return math.Float32frombits(capnp.Struct(s).Uint32(36))
}

func (s RoadLimitSpeed) SetSectionLeftTime(v float32) {
	capnp.Struct(s).SetUint32(36, math.Float32bits(v))
}

func (s RoadLimitSpeed) CamSpeedFactor() float32 {
	return math.Float32frombits(capnp.Struct(s).Uint32(40))
}

func (s RoadLimitSpeed) SetCamSpeedFactor(v float32) {
	capnp.Struct(s).SetUint32(40, math.Float32bits(v))
}

func (s RoadLimitSpeed) XTurnInfo() int32 {
	return int32(capnp.Struct(s).Uint32(44))
}

func (s RoadLimitSpeed) SetXTurnInfo(v int32) {
	capnp.Struct(s).SetUint32(44, uint32(v))
}

func (s RoadLimitSpeed) XDistToTurn() int32 {
	return int32(capnp.Struct(s).Uint32(48))
}

func (s RoadLimitSpeed) SetXDistToTurn(v int32) {
	capnp.Struct(s).SetUint32(48, uint32(v))
}

func (s RoadLimitSpeed) XSpdDist() int32 {
	return int32(capnp.Struct(s).Uint32(52))
}

func (s RoadLimitSpeed) SetXSpdDist(v int32) {
	capnp.Struct(s).SetUint32(52, uint32(v))
}

func (s RoadLimitSpeed) XSpdLimit() int32 {
	return int32(capnp.Struct(s).Uint32(56))
}

func (s RoadLimitSpeed) SetXSpdLimit(v int32) {
	capnp.Struct(s).SetUint32(56, uint32(v))
}

func (s RoadLimitSpeed) XSignType() int32 {
	return int32(capnp.Struct(s).Uint32(60))
}

func (s RoadLimitSpeed) SetXSignType(v int32) {
	capnp.Struct(s).SetUint32(60, uint32(v))
}

func (s RoadLimitSpeed) XRoadSignType() int32 {
	return int32(capnp.Struct(s).Uint32(64))
}

func (s RoadLimitSpeed) SetXRoadSignType(v int32) {
	capnp.Struct(s).SetUint32(64, uint32(v))
}

func (s RoadLimitSpeed) XRoadLimitSpeed() int32 {
	return int32(capnp.Struct(s).Uint32(68))
}

func (s RoadLimitSpeed) SetXRoadLimitSpeed(v int32) {
	capnp.Struct(s).SetUint32(68, uint32(v))
}

func (s RoadLimitSpeed) LogMonoTime() uint64 {
	return capnp.Struct(s).Uint64(72)
}

func (s RoadLimitSpeed) SetLogMonoTime(v uint64) {
	capnp.Struct(s).SetUint64(72, v)
}

func (s RoadLimitSpeed) XRoadName() (string, error) {
	p, err := capnp.Struct(s).Ptr(0)
	return p.Text(), err
}

func (s RoadLimitSpeed) SetXRoadName(v string) error {
	return capnp.Struct(s).SetText(0, v)
}

// SetPublished copies every advisory field into the message.
func (s RoadLimitSpeed) SetPublished(p navi.Published) error {
	s.SetActive(int32(p.Active))
	s.SetRoadLimitSpeed(float32(p.RoadLimitSpeed))
	s.SetIsHighway(p.IsHighway)
	s.SetCamType(int32(p.CamType))
	s.SetCamLimitSpeedLeftDist(float32(p.CamLimitSpeedLeftDist))
	s.SetCamLimitSpeed(float32(p.CamLimitSpeed))
	s.SetSectionLimitSpeed(float32(p.SectionLimitSpeed))
	s.SetSectionLeftDist(float32(p.SectionLeftDist))
	s.SetSectionAvgSpeed(float32(p.SectionAvgSpeed))
	s.SetSectionLeftTime(float32(p.SectionLeftTime))
	s.SetSectionAdjustSpeed(p.SectionAdjustSpeed)
	s.SetCamSpeedFactor(float32(p.CamSpeedFactor))
	s.SetXTurnInfo(int32(p.XTurnInfo))
	s.SetXDistToTurn(int32(p.XDistToTurn))
	s.SetXSpdDist(int32(p.XSpdDist))
	s.SetXSpdLimit(int32(p.XSpdLimit))
	s.SetXSignType(int32(p.XSignType))
	s.SetXRoadSignType(int32(p.XRoadSignType))
	s.SetXRoadLimitSpeed(int32(p.XRoadLimitSpeed))
	return errors.Wrap(s.SetXRoadName(p.XRoadName), "could not set road name")
}

func (s RoadLimitSpeed) Published() (navi.Published, error) {
	name, err := s.XRoadName()
	if err != nil {
		return navi.Published{}, errors.Wrap(err, "could not read road name")
	}
	return navi.Published{
		Active:                int(s.Active()),
		RoadLimitSpeed:        float64(s.RoadLimitSpeed()),
		IsHighway:             s.IsHighway(),
		CamType:               int(s.CamType()),
		CamLimitSpeedLeftDist: float64(s.CamLimitSpeedLeftDist()),
		CamLimitSpeed:         float64(s.CamLimitSpeed()),
		SectionLimitSpeed:     float64(s.SectionLimitSpeed()),
		SectionLeftDist:       float64(s.SectionLeftDist()),
		SectionAvgSpeed:       float64(s.SectionAvgSpeed()),
		SectionLeftTime:       float64(s.SectionLeftTime()),
		SectionAdjustSpeed:    s.SectionAdjustSpeed(),
		CamSpeedFactor:        float64(s.CamSpeedFactor()),
		XTurnInfo:             int(s.XTurnInfo()),
		XDistToTurn:           int(s.XDistToTurn()),
		XSpdDist:              int(s.XSpdDist()),
		XSpdLimit:             int(s.XSpdLimit()),
		XSignType:             int(s.XSignType()),
		XRoadSignType:         int(s.XRoadSignType()),
		XRoadLimitSpeed:       int(s.XRoadLimitSpeed()),
		XRoadName:             name,
	}, nil
}

// EncodeRoadLimitSpeed builds a standalone message for the advisory.
func EncodeRoadLimitSpeed(p navi.Published, monoTime uint64) (*capnp.Message, error) {
	msg, seg, err := capnp.NewMessage(capnp.SingleSegment(nil))
	if err != nil {
		return nil, errors.Wrap(err, "could not create message")
	}
	rls, err := NewRootRoadLimitSpeed(seg)
	if err != nil {
		return nil, errors.Wrap(err, "could not create road limit speed")
	}
	rls.SetLogMonoTime(monoTime)
	if err := rls.SetPublished(p); err != nil {
		return nil, err
	}
	return msg, nil
}

func DecodeRoadLimitSpeed(data []byte) (navi.Published, error) {
	msg, err := capnp.Unmarshal(data)
	if err != nil {
		return navi.Published{}, errors.Wrap(err, "could not unmarshal road limit speed")
	}
	msg.ResetReadLimit(math.MaxUint64)
	rls, err := ReadRootRoadLimitSpeed(msg)
	if err != nil {
		return navi.Published{}, errors.Wrap(err, "could not read road limit speed")
	}
	return rls.Published()
}
