package relay

import (
	"context"
	"log/slog"
	"net"
	"time"

	"github.com/pkg/errors"

	"pfeifer.dev/roadlimit/navi"
	"pfeifer.dev/roadlimit/settings"
)

// PacketConn is the part of *net.UDPConn the relay sends through.
type PacketConn interface {
	WriteToUDP(b []byte, addr *net.UDPAddr) (int, error)
}

// Announcer broadcasts the service token so clients on the local network can
// find the daemon.
type Announcer struct {
	conn    PacketConn
	port    int
	period  time.Duration
	resolve func() (net.IP, error)

	broadcast net.IP
}

func NewAnnouncer(conn PacketConn, iface string, port int, period time.Duration) *Announcer {
	return newAnnouncer(conn, port, period, func() (net.IP, error) {
		return BroadcastAddress(iface)
	})
}

func newAnnouncer(conn PacketConn, port int, period time.Duration, resolve func() (net.IP, error)) *Announcer {
	if period <= 0 {
		period = settings.ANNOUNCE_PERIOD
	}
	return &Announcer{conn: conn, port: port, period: period, resolve: resolve}
}

// Announce sends one announcement. The broadcast address is looked up again
// every ANNOUNCE_RESOLVE_CYCLES frames and whenever the last lookup failed.
func (a *Announcer) Announce(frame int) error {
	if a.broadcast == nil || frame%settings.ANNOUNCE_RESOLVE_CYCLES == 0 {
		ip, err := a.resolve()
		if err != nil {
			a.broadcast = nil
			return errors.Wrap(err, "could not resolve broadcast address")
		}
		a.broadcast = ip
	}

	_, err := a.conn.WriteToUDP(navi.AnnounceToken, &net.UDPAddr{IP: a.broadcast, Port: a.port})
	return errors.Wrap(err, "could not send announcement")
}

func (a *Announcer) Run(ctx context.Context) {
	ticker := time.NewTicker(a.period)
	defer ticker.Stop()

	for frame := 0; ; frame++ {
		if err := a.Announce(frame); err != nil {
			slog.Debug("announce skipped", "error", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Reply sends the service token straight back to a sender on each port, for
// clients that cannot see the broadcast.
func Reply(conn PacketConn, sender net.IP, ports ...int) error {
	var firstErr error
	for _, port := range ports {
		_, err := conn.WriteToUDP(navi.AnnounceToken, &net.UDPAddr{IP: sender, Port: port})
		if err != nil && firstErr == nil {
			firstErr = errors.Wrapf(err, "could not reply to %s:%d", sender, port)
		}
	}
	return firstErr
}
