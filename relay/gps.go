package relay

import (
	"context"
	"log/slog"
	"net"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"

	"pfeifer.dev/roadlimit/navi"
	"pfeifer.dev/roadlimit/settings"
)

// LocationSource returns a location sample when a new one has arrived.
type LocationSource interface {
	Read() (navi.Location, bool)
}

// GpsRelay forwards the vehicle's location to the single peer that asked for
// it. Subscribe and Unsubscribe may be called from any goroutine.
type GpsRelay struct {
	conn        PacketConn
	source      LocationSource
	port        int
	period      time.Duration
	maxAccuracy float64

	peer atomic.Pointer[net.UDPAddr]
}

func NewGpsRelay(conn PacketConn, source LocationSource, port int, period time.Duration) *GpsRelay {
	if period <= 0 {
		period = settings.GPS_PERIOD
	}
	return &GpsRelay{
		conn:        conn,
		source:      source,
		port:        port,
		period:      period,
		maxAccuracy: settings.GPS_MAX_ACCURACY,
	}
}

func (g *GpsRelay) Subscribe(ip net.IP) {
	g.peer.Store(&net.UDPAddr{IP: ip, Port: g.port})
}

func (g *GpsRelay) Unsubscribe() {
	g.peer.Store(nil)
}

func (g *GpsRelay) Peer() *net.UDPAddr {
	return g.peer.Load()
}

// Tick forwards one fresh, accurate sample to the peer. A failed send drops
// the peer; it has to ask again.
func (g *GpsRelay) Tick() error {
	peer := g.peer.Load()
	if peer == nil {
		return nil
	}
	loc, ok := g.source.Read()
	if !ok || loc.Accuracy >= g.maxAccuracy {
		return nil
	}

	b, err := navi.EncodeLocation(loc)
	if err == nil {
		_, err = g.conn.WriteToUDP(b, peer)
	}
	if err != nil {
		g.peer.CompareAndSwap(peer, nil)
		return errors.Wrapf(err, "could not relay location to %s", peer)
	}
	return nil
}

func (g *GpsRelay) Run(ctx context.Context) {
	p := newPacer(g.period, time.Now())
	wait := g.period
	for {
		select {
		case <-ctx.Done():
			return
		case <-time.After(wait):
		}
		if err := g.Tick(); err != nil {
			slog.Warn("gps peer dropped", "error", err)
		}
		wait = p.Next(time.Now())
	}
}
