package cereal

import (
	"capnproto.org/go/capnp/v3"
	"github.com/pfeiferj/gomsgq"
	"github.com/pkg/errors"

	"pfeifer.dev/roadlimit/navi"
	"pfeifer.dev/roadlimit/settings"
)

type MessageCreator[T any] func(*capnp.Segment) (T, error)

type Publisher[T any] struct {
	Pub     gomsgq.MsgqPublisher
	creator MessageCreator[T]
}

func (p *Publisher[T]) Send(msg *capnp.Message) error {
	b, err := msg.Marshal()
	if err != nil {
		return errors.Wrap(err, "could not marshal message")
	}
	p.Pub.Send(b)
	return nil
}

func (p *Publisher[T]) NewMessage() (msg *capnp.Message, obj T, err error) {
	arena := capnp.SingleSegment(nil)

	msg, seg, err := capnp.NewMessage(arena)
	if err != nil {
		return msg, obj, errors.Wrap(err, "could not create message")
	}

	obj, err = p.creator(seg)
	if err != nil {
		return msg, obj, errors.Wrap(err, "could not create root struct")
	}
	return msg, obj, nil
}

func NewPublisher[T any](name string, creator MessageCreator[T]) (publisher Publisher[T], err error) {
	msgq := gomsgq.Msgq{}
	err = msgq.Init(name, settings.DEFAULT_SEGMENT_SIZE)
	if err != nil {
		return publisher, errors.Wrapf(err, "could not open msgq %s", name)
	}
	pub := gomsgq.MsgqPublisher{}
	pub.Init(msgq)

	publisher.Pub = pub
	publisher.creator = creator
	return publisher, nil
}

// AdvisoryPublisher publishes fused advisories on the advisory topic.
type AdvisoryPublisher struct {
	pub Publisher[RoadLimitSpeed]
}

func NewAdvisoryPublisher(topic string) (*AdvisoryPublisher, error) {
	pub, err := NewPublisher(topic, NewRootRoadLimitSpeed)
	if err != nil {
		return nil, err
	}
	return &AdvisoryPublisher{pub: pub}, nil
}

func (a *AdvisoryPublisher) Publish(p navi.Published) error {
	msg, rls, err := a.pub.NewMessage()
	if err != nil {
		return err
	}
	rls.SetLogMonoTime(GetTime())
	if err := rls.SetPublished(p); err != nil {
		return err
	}
	return a.pub.Send(msg)
}

// VehiclePublisher feeds vehicle state onto the bus. Used by the cli to
// drive the daemon without a car.
type VehiclePublisher struct {
	pub Publisher[VehicleState]
}

func NewVehiclePublisher(topic string) (*VehiclePublisher, error) {
	pub, err := NewPublisher(topic, NewRootVehicleState)
	if err != nil {
		return nil, err
	}
	return &VehiclePublisher{pub: pub}, nil
}

func (v *VehiclePublisher) Publish(vehicle Vehicle) error {
	msg, vs, err := v.pub.NewMessage()
	if err != nil {
		return err
	}
	vs.SetTotalDistance(vehicle.TotalDistance)
	vs.SetVEgo(float32(vehicle.VEgo))
	vs.SetGasPressed(vehicle.GasPressed)
	return v.pub.Send(msg)
}
