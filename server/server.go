package server

import (
	"context"
	"log/slog"
	"net"
	"time"

	"github.com/pkg/errors"

	"pfeifer.dev/roadlimit/cereal"
	"pfeifer.dev/roadlimit/fusion"
	"pfeifer.dev/roadlimit/navi"
	"pfeifer.dev/roadlimit/relay"
	"pfeifer.dev/roadlimit/settings"
	"pfeifer.dev/roadlimit/store"
	"pfeifer.dev/roadlimit/utils"
)

var ErrBind = errors.New("could not bind receive port")

type AdvisoryPublisher interface {
	Publish(navi.Published) error
}

// VehicleSource returns a vehicle sample when a new one has arrived.
type VehicleSource interface {
	Read() (cereal.Vehicle, bool)
}

// Deps are the bus endpoints the daemon talks to. Any of them may be nil.
type Deps struct {
	Publisher AdvisoryPublisher
	Vehicle   VehicleSource
	Location  relay.LocationSource
}

type noLocation struct{}

func (noLocation) Read() (navi.Location, bool) { return navi.Location{}, false }

// Server receives navigation datagrams, fuses them with vehicle state and
// publishes one advisory per loop iteration.
type Server struct {
	cfg  settings.Config
	deps Deps

	store    *store.Store
	engine   *fusion.Engine
	odometer fusion.Odometer
	vehicle  cereal.Vehicle

	conn      *net.UDPConn
	out       relay.PacketConn
	announcer *relay.Announcer
	gps       *relay.GpsRelay
	tracker   utils.UpdateTracker
}

func New(cfg settings.Config, deps Deps) *Server {
	if deps.Location == nil {
		deps.Location = noLocation{}
	}
	s := &Server{
		cfg:    cfg,
		deps:   deps,
		store:  store.New(cfg.Timing.StaleAfter),
		engine: fusion.NewEngine(),
	}
	s.tracker.Init(100)
	return s
}

func (s *Server) attach(out relay.PacketConn) {
	s.out = out
	s.announcer = relay.NewAnnouncer(out, s.cfg.Network.Interface, s.cfg.Network.BroadcastPort, s.cfg.Timing.AnnouncePeriod)
	s.gps = relay.NewGpsRelay(out, s.deps.Location, s.cfg.Network.LocationPort, s.cfg.Timing.GpsPeriod)
}

// Bind opens the receive socket on the receive port, or the fallback port
// when that fails.
func (s *Server) Bind() error {
	var errs []error
	for _, port := range []int{s.cfg.Network.ReceivePort, s.cfg.Network.FallbackPort} {
		conn, err := net.ListenUDP("udp4", &net.UDPAddr{Port: port})
		if err != nil {
			slog.Warn("could not bind", "port", port, "error", err)
			errs = append(errs, err)
			continue
		}
		slog.Info("listening", "port", port)
		s.conn = conn
		s.attach(conn)
		return nil
	}
	return errors.Wrapf(ErrBind, "ports %d and %d: %v", s.cfg.Network.ReceivePort, s.cfg.Network.FallbackPort, errs)
}

func (s *Server) Addr() net.Addr {
	if s.conn == nil {
		return nil
	}
	return s.conn.LocalAddr()
}

func (s *Server) Store() *store.Store {
	return s.store
}

// HandleDatagram applies one received datagram and answers the sender.
func (s *Server) HandleDatagram(now time.Time, addr *net.UDPAddr, payload []byte) {
	d, err := s.store.ApplyRaw(now, payload)
	if err != nil {
		slog.Debug("dropping datagram", "from", addr, "error", err)
		return
	}

	if d.CommandRejected {
		slog.Warn("ignoring remote command", "from", addr)
	}

	if d.RequestGps != nil {
		if *d.RequestGps {
			s.gps.Subscribe(addr.IP)
		} else {
			s.gps.Unsubscribe()
		}
	}

	if d.Echo != nil {
		b, err := navi.EncodeEcho(d.Echo)
		if err == nil {
			_, err = s.out.WriteToUDP(b, &net.UDPAddr{IP: addr.IP, Port: s.cfg.Network.BroadcastPort})
		}
		if err != nil {
			slog.Debug("could not echo", "to", addr, "error", err)
		}
	}

	if err := relay.Reply(s.out, addr.IP, s.cfg.Network.BroadcastPort, s.cfg.Network.ReplyPort); err != nil {
		slog.Debug("could not reply", "error", err)
	}
}

func logOutput(p navi.Published) {
	slog.Debug("advisory",
		"active", p.Active,
		"roadLimitSpeed", p.RoadLimitSpeed,
		"camType", p.CamType,
		"camLimitSpeed", p.CamLimitSpeed,
		"camLimitSpeedLeftDist", p.CamLimitSpeedLeftDist,
		"xSpdLimit", p.XSpdLimit,
		"xSpdDist", p.XSpdDist,
		"xTurnInfo", p.XTurnInfo,
		"xDistToTurn", p.XDistToTurn,
		"xRoadName", p.XRoadName,
	)
}

// Step runs one fusion tick, publishes the result and expires stale groups.
func (s *Server) Step(now time.Time) navi.Published {
	in := fusion.Input{}
	if s.deps.Vehicle != nil {
		if v, ok := s.deps.Vehicle.Read(); ok {
			s.vehicle = v
			in.DistanceDelta = s.odometer.Delta(v.TotalDistance)
		}
	}
	in.GasPressed = s.vehicle.GasPressed

	out := s.engine.Tick(s.store.Snapshot(), in)
	if out.ManualActive {
		s.store.MarkApilotActive()
	}

	logOutput(out.Published)
	if s.deps.Publisher != nil {
		utils.Logwe(errors.Wrap(s.deps.Publisher.Publish(out.Published), "could not publish advisory"))
	}

	if exp := s.store.CheckExpiry(now); exp.Any() {
		slog.Debug("expired",
			"roadLimit", exp.RoadLimit,
			"apilot", exp.Apilot,
			"active", exp.Active,
			"apilotActive", exp.ApilotActive,
		)
	}
	return out.Published
}

func (s *Server) receive(buf []byte) {
	if err := s.conn.SetReadDeadline(time.Now().Add(s.cfg.Timing.ReceiveTimeout)); err != nil {
		utils.Logwe(errors.Wrap(err, "could not set read deadline"))
	}
	n, addr, err := s.conn.ReadFromUDP(buf)
	if err != nil {
		var nerr net.Error
		if !errors.As(err, &nerr) || !nerr.Timeout() {
			slog.Debug("receive failed", "error", err)
		}
		return
	}
	s.HandleDatagram(time.Now(), addr, buf[:n])
}

// Run drives the daemon until ctx is done. Bind must have succeeded.
func (s *Server) Run(ctx context.Context) error {
	if s.conn == nil {
		return errors.New("server is not bound")
	}
	defer s.conn.Close()

	go s.announcer.Run(ctx)
	go s.gps.Run(ctx)

	buf := make([]byte, settings.MAX_DATAGRAM)
	for {
		if ctx.Err() != nil {
			return nil
		}
		s.receive(buf)

		now := time.Now()
		pub := s.Step(now)
		period := s.tracker.Update(now)
		slog.Debug("tick", "period", period, "active", pub.Active)

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(s.cfg.Timing.PublishPeriod):
		}
	}
}
