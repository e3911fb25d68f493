package cereal

import (
	"math"

	"capnproto.org/go/capnp/v3"
	"github.com/pkg/errors"
)

var vehicleStateSize = capnp.ObjectSize{DataSize: 16, PointerCount: 0}

// VehicleState carries the odometry the fusion engine counts distances down
// with.
type VehicleState capnp.Struct

func NewRootVehicleState(s *capnp.Segment) (VehicleState, error) {
	st, err := capnp.NewRootStruct(s, vehicleStateSize)
	return VehicleState(st), err
}

func ReadRootVehicleState(msg *capnp.Message) (VehicleState, error) {
	root, err := msg.Root()
	return VehicleState(root.Struct()), err
}

func (s VehicleState) TotalDistance() float64 {
	return math.Float64frombits(capnp.Struct(s).Uint64(0))
}

func (s VehicleState) SetTotalDistance(v float64) {
	capnp.Struct(s).SetUint64(0, math.Float64bits(v))
}

func (s VehicleState) VEgo() float32 {
	return math.Float32frombits(capnp.Struct(s).Uint32(8))
}

func (s VehicleState) SetVEgo(v float32) {
	capnp.Struct(s).SetUint32(8, math.Float32bits(v))
}

func (s VehicleState) GasPressed() bool {
	return capnp.Struct(s).Bit(96)
}

func (s VehicleState) SetGasPressed(v bool) {
	capnp.Struct(s).SetBit(96, v)
}

// Vehicle is a decoded VehicleState.
type Vehicle struct {
	TotalDistance float64
	VEgo          float64
	GasPressed    bool
}

func (s VehicleState) Vehicle() Vehicle {
	return Vehicle{
		TotalDistance: s.TotalDistance(),
		VEgo:          float64(s.VEgo()),
		GasPressed:    s.GasPressed(),
	}
}

func NewVehicleState(v Vehicle) (*capnp.Message, error) {
	msg, seg, err := capnp.NewMessage(capnp.SingleSegment(nil))
	if err != nil {
		return nil, errors.Wrap(err, "could not create message")
	}
	vs, err := NewRootVehicleState(seg)
	if err != nil {
		return nil, errors.Wrap(err, "could not create vehicle state")
	}
	vs.SetTotalDistance(v.TotalDistance)
	vs.SetVEgo(float32(v.VEgo))
	vs.SetGasPressed(v.GasPressed)
	return msg, nil
}

func ReadVehicleState(data []byte) (Vehicle, error) {
	msg, err := capnp.Unmarshal(data)
	if err != nil {
		return Vehicle{}, errors.Wrap(err, "could not unmarshal vehicle state")
	}
	vs, err := ReadRootVehicleState(msg)
	if err != nil {
		return Vehicle{}, errors.Wrap(err, "could not read vehicle state")
	}
	return vs.Vehicle(), nil
}
