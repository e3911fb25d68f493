package store

import (
	"sync"
	"time"

	"github.com/pkg/errors"
	"pfeifer.dev/roadlimit/navi"
	"pfeifer.dev/roadlimit/settings"
	"pfeifer.dev/roadlimit/utils"
)

var ErrDecode = errors.New("could not decode datagram")

// decodeError matches ErrDecode and unwraps to the codec error.
type decodeError struct {
	cause error
}

func (e decodeError) Error() string {
	return ErrDecode.Error() + ": " + e.cause.Error()
}

func (e decodeError) Unwrap() error {
	return e.cause
}

func (e decodeError) Is(target error) bool {
	return target == ErrDecode
}

type GroupState int

const (
	Absent GroupState = iota
	Fresh
	Expired
	Invalid
)

func (g GroupState) String() string {
	switch g {
	case Fresh:
		return "fresh"
	case Expired:
		return "expired"
	case Invalid:
		return "invalid"
	}
	return "absent"
}

// Record is a copy of the store contents. Nil groups are absent; the state
// says why.
type Record struct {
	RoadLimit        *navi.RoadLimit
	RoadLimitState   GroupState
	RoadLimitUpdated time.Time
	Apilot           *navi.Apilot
	ApilotState      GroupState
	ApilotUpdated    time.Time
	Active           int
	ApilotActive     int
}

// Expiry reports which parts of the store were cleared by CheckExpiry.
type Expiry struct {
	RoadLimit    bool
	Apilot       bool
	Active       bool
	ApilotActive bool
}

func (e Expiry) Any() bool {
	return e.RoadLimit || e.Apilot || e.Active || e.ApilotActive
}

// Store holds the latest advisory groups received from the companion device.
// Every method is safe for concurrent use; the lock only covers field copies.
type Store struct {
	mu         sync.Mutex
	staleAfter time.Duration

	roadLimit      utils.Tracked[navi.RoadLimit]
	roadLimitState GroupState
	apilot         utils.Tracked[navi.Apilot]
	apilotState    GroupState
	active         utils.Tracked[int]
	apilotActive   utils.Tracked[int]
}

func New(staleAfter time.Duration) *Store {
	if staleAfter <= 0 {
		staleAfter = settings.STALE_AFTER
	}
	return &Store{staleAfter: staleAfter}
}

// ApplyRaw decodes a datagram and applies it. When decoding fails the
// road_limit group is cleared, since the source is no longer sending usable
// data, and the error wraps ErrDecode.
func (s *Store) ApplyRaw(now time.Time, b []byte) (navi.Datagram, error) {
	d, err := navi.Decode(b)
	if err != nil {
		s.mu.Lock()
		s.roadLimit.Clear()
		s.roadLimitState = Invalid
		s.mu.Unlock()
		return d, errors.WithStack(decodeError{cause: err})
	}
	s.Apply(now, d)
	return d, nil
}

func (s *Store) Apply(now time.Time, d navi.Datagram) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if d.Active != nil {
		s.active.Update(*d.Active, now)
	}
	if d.RoadLimit != nil {
		s.roadLimit.Update(*d.RoadLimit, now)
		s.roadLimitState = Fresh
	}
	if d.Apilot != nil {
		s.apilot.Update(*d.Apilot, now)
		s.apilotState = Fresh
	}
}

// MarkApilotActive latches the manual apilot flag. It ages with the apilot
// group that set it.
func (s *Store) MarkApilotActive() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.apilot.Valid {
		return
	}
	s.apilotActive.Update(1, s.apilot.UpdatedTime)
}

func (s *Store) Snapshot() Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := Record{
		RoadLimitState:   s.roadLimitState,
		RoadLimitUpdated: s.roadLimit.UpdatedTime,
		ApilotState:      s.apilotState,
		ApilotUpdated:    s.apilot.UpdatedTime,
		Active:           s.active.Value,
		ApilotActive:     s.apilotActive.Value,
	}
	if s.roadLimit.Valid {
		rl := s.roadLimit.Value
		r.RoadLimit = &rl
	}
	if s.apilot.Valid {
		a := s.apilot.Value
		r.Apilot = &a
	}
	return r
}

// CheckExpiry clears every group and flag that has not been refreshed within
// the staleness window. Each is judged on its own timestamp.
func (s *Store) CheckExpiry(now time.Time) Expiry {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := Expiry{}
	if s.roadLimit.Valid && s.roadLimit.Stale(now, s.staleAfter) {
		s.roadLimit.Clear()
		s.roadLimitState = Expired
		e.RoadLimit = true
	}
	if s.apilot.Valid && s.apilot.Stale(now, s.staleAfter) {
		s.apilot.Clear()
		s.apilotState = Expired
		e.Apilot = true
	}
	if s.active.Valid && s.active.Stale(now, s.staleAfter) {
		e.Active = s.active.Value != 0
		s.active.Clear()
	}
	if s.apilotActive.Valid && s.apilotActive.Stale(now, s.staleAfter) {
		e.ApilotActive = s.apilotActive.Value != 0
		s.apilotActive.Clear()
	}
	return e
}
