package cereal

import (
	"log/slog"
	"math"
	"time"

	"capnproto.org/go/capnp/v3"
	"github.com/pfeiferj/gomsgq"
	"github.com/pkg/errors"

	"pfeifer.dev/roadlimit/navi"
	"pfeifer.dev/roadlimit/settings"
)

type Reader[T any] func(*capnp.Message) (T, error)

type Subscriber[T any] struct {
	Sub    gomsgq.MsgqSubscriber
	reader Reader[T]
}

func (s *Subscriber[T]) Read() (obj T, success bool) {
	data := s.Sub.Read()
	if len(data) == 0 {
		return obj, false
	}
	msg, err := capnp.Unmarshal(data)
	if err != nil {
		slog.Debug("could not unmarshal message", "error", err)
		return obj, false
	}

	// allow us to read as much as we want
	msg.ResetReadLimit(math.MaxUint64)

	obj, err = s.reader(msg)
	if err != nil {
		slog.Debug("could not read message", "error", err)
		return obj, false
	}
	return obj, true
}

// WaitReady polls until the publisher side has produced a message or the
// attempts run out.
func (s *Subscriber[T]) WaitReady(attempts int) bool {
	for range attempts {
		if s.Sub.Ready() {
			return true
		}
		time.Sleep(settings.LOOP_DELAY)
	}
	return false
}

func (s *Subscriber[T]) Close() error {
	err, err2 := s.Sub.Msgq.Close()
	if err != nil {
		return err
	}
	return err2
}

func NewSubscriber[T any](name string, reader Reader[T], conflate bool) (subscriber Subscriber[T], err error) {
	msgq := gomsgq.Msgq{}
	err = msgq.Init(name, settings.DEFAULT_SEGMENT_SIZE)
	if err != nil {
		return subscriber, errors.Wrapf(err, "could not open msgq %s", name)
	}
	sub := gomsgq.MsgqSubscriber{}
	sub.Conflate = conflate
	sub.Init(msgq)

	subscriber.Sub = sub
	subscriber.reader = reader
	return subscriber, nil
}

func readAdvisory(msg *capnp.Message) (navi.Published, error) {
	rls, err := ReadRootRoadLimitSpeed(msg)
	if err != nil {
		return navi.Published{}, err
	}
	return rls.Published()
}

func readVehicle(msg *capnp.Message) (Vehicle, error) {
	vs, err := ReadRootVehicleState(msg)
	if err != nil {
		return Vehicle{}, err
	}
	return vs.Vehicle(), nil
}

func readLocation(msg *capnp.Message) (navi.Location, error) {
	gps, err := ReadRootGpsLocation(msg)
	if err != nil {
		return navi.Location{}, err
	}
	return gps.Location(), nil
}

// AdvisorySubscriber keeps the last advisory received so a reader always
// sees the most recent one, even on loop iterations where nothing arrived.
type AdvisorySubscriber struct {
	sub  Subscriber[navi.Published]
	last navi.Published
	ok   bool
}

func NewAdvisorySubscriber(topic string) (*AdvisorySubscriber, error) {
	sub, err := NewSubscriber(topic, readAdvisory, true)
	if err != nil {
		return nil, err
	}
	return &AdvisorySubscriber{sub: sub}, nil
}

func (a *AdvisorySubscriber) Read() (navi.Published, bool) {
	if adv, ok := a.sub.Read(); ok {
		a.last = adv
		a.ok = true
	}
	return a.last, a.ok
}

func (a *AdvisorySubscriber) Close() error {
	return a.sub.Close()
}

func NewVehicleSubscriber(topic string) (Subscriber[Vehicle], error) {
	return NewSubscriber(topic, readVehicle, true)
}

func NewLocationSubscriber(topic string) (Subscriber[navi.Location], error) {
	return NewSubscriber(topic, readLocation, true)
}
