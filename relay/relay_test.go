package relay

import (
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pfeifer.dev/roadlimit/navi"
)

type write struct {
	payload []byte
	addr    *net.UDPAddr
}

type fakeConn struct {
	writes   []write
	writeErr error
}

func (c *fakeConn) WriteToUDP(p []byte, addr *net.UDPAddr) (int, error) {
	if c.writeErr != nil {
		return 0, c.writeErr
	}
	c.writes = append(c.writes, write{payload: append([]byte(nil), p...), addr: addr})
	return len(p), nil
}

type fakeSource struct {
	loc navi.Location
	ok  bool
}

func (s *fakeSource) Read() (navi.Location, bool) {
	return s.loc, s.ok
}

func TestAnnounceResolvesEveryTenFrames(t *testing.T) {
	fc := &fakeConn{}
	resolves := 0
	a := newAnnouncer(fc, 2899, time.Second, func() (net.IP, error) {
		resolves++
		return net.IPv4(192, 168, 1, 255), nil
	})

	for frame := 0; frame < 21; frame++ {
		require.NoError(t, a.Announce(frame))
	}
	assert.Equal(t, 3, resolves)
	require.Len(t, fc.writes, 21)
	assert.Equal(t, navi.AnnounceToken, fc.writes[0].payload)
	assert.True(t, fc.writes[0].addr.IP.Equal(net.IPv4(192, 168, 1, 255)))
	assert.Equal(t, 2899, fc.writes[0].addr.Port)
}

func TestAnnounceSkipsWhenInterfaceMissing(t *testing.T) {
	fc := &fakeConn{}
	fail := true
	resolves := 0
	a := newAnnouncer(fc, 2899, time.Second, func() (net.IP, error) {
		resolves++
		if fail {
			return nil, errors.New("no such interface")
		}
		return net.IPv4(10, 0, 0, 255), nil
	})

	assert.Error(t, a.Announce(0))
	assert.Error(t, a.Announce(1))
	assert.Empty(t, fc.writes)

	fail = false
	assert.NoError(t, a.Announce(2))
	assert.Len(t, fc.writes, 1)
	assert.Equal(t, 3, resolves)
}

func TestReplyToBothPorts(t *testing.T) {
	fc := &fakeConn{}
	require.NoError(t, Reply(fc, net.IPv4(192, 168, 0, 7), 2899, 2898))
	require.Len(t, fc.writes, 2)
	assert.Equal(t, 2899, fc.writes[0].addr.Port)
	assert.Equal(t, 2898, fc.writes[1].addr.Port)
	assert.Equal(t, "EON:ROAD_LIMIT_SERVICE:v1", string(fc.writes[1].payload))

	fc.writeErr = errors.New("unreachable")
	assert.Error(t, Reply(fc, net.IPv4(192, 168, 0, 7), 2899, 2898))
}

func TestBroadcastFor(t *testing.T) {
	_, ipnet, err := net.ParseCIDR("192.168.43.17/24")
	require.NoError(t, err)
	ipnet.IP = net.ParseIP("192.168.43.17")
	assert.Equal(t, "192.168.43.255", broadcastFor(ipnet).String())

	_, ipnet, err = net.ParseCIDR("10.1.2.3/8")
	require.NoError(t, err)
	assert.Equal(t, "10.255.255.255", broadcastFor(ipnet).String())

	_, ipnet, err = net.ParseCIDR("fe80::1/64")
	require.NoError(t, err)
	assert.Nil(t, broadcastFor(ipnet))
}

func TestBroadcastAddressUnknownInterface(t *testing.T) {
	_, err := BroadcastAddress("does-not-exist0")
	assert.Error(t, err)
}

func TestGpsRelayNoPeer(t *testing.T) {
	fc := &fakeConn{}
	g := NewGpsRelay(fc, &fakeSource{ok: true, loc: navi.Location{Accuracy: 3}}, 2899, time.Second)
	assert.NoError(t, g.Tick())
	assert.Empty(t, fc.writes)
}

func TestGpsRelaySendsAccurateSamples(t *testing.T) {
	fc := &fakeConn{}
	src := &fakeSource{ok: true, loc: navi.Location{Latitude: 37.5, Longitude: 127.0, Accuracy: 3}}
	g := NewGpsRelay(fc, src, 2899, time.Second)
	g.Subscribe(net.IPv4(192, 168, 0, 7))

	require.NoError(t, g.Tick())
	require.Len(t, fc.writes, 1)
	assert.Equal(t, 2899, fc.writes[0].addr.Port)
	assert.Contains(t, string(fc.writes[0].payload), `"location":[37.5,127`)

	src.loc.Accuracy = 10
	require.NoError(t, g.Tick())
	assert.Len(t, fc.writes, 1)

	src.ok = false
	require.NoError(t, g.Tick())
	assert.Len(t, fc.writes, 1)
	assert.NotNil(t, g.Peer())
}

func TestGpsRelayDropsPeerOnSendError(t *testing.T) {
	fc := &fakeConn{writeErr: errors.New("unreachable")}
	g := NewGpsRelay(fc, &fakeSource{ok: true, loc: navi.Location{Accuracy: 3}}, 2899, time.Second)
	g.Subscribe(net.IPv4(192, 168, 0, 7))

	assert.Error(t, g.Tick())
	assert.Nil(t, g.Peer())
}

func TestGpsRelayUnsubscribe(t *testing.T) {
	g := NewGpsRelay(&fakeConn{}, &fakeSource{}, 2899, time.Second)
	g.Subscribe(net.IPv4(192, 168, 0, 7))
	g.Unsubscribe()
	assert.Nil(t, g.Peer())
}

func TestPacerOnSchedule(t *testing.T) {
	start := time.Unix(1000, 0)
	p := newPacer(time.Second, start)
	for i := 1; i <= 5; i++ {
		wait := p.Next(start.Add(time.Duration(i) * time.Second))
		assert.InDelta(t, 1.0, wait.Seconds(), 1e-6)
	}
}

func TestPacerCatchesUp(t *testing.T) {
	start := time.Unix(1000, 0)
	p := newPacer(time.Second, start)

	wait := p.Next(start.Add(1300 * time.Millisecond))
	assert.InDelta(t, 0.82, wait.Seconds(), 1e-6)

	wait = p.Next(start.Add(5 * time.Second))
	assert.InDelta(t, 0.8, wait.Seconds(), 1e-6)
}

func TestPacerNeverWaitsLongerThanPeriod(t *testing.T) {
	start := time.Unix(1000, 0)
	p := newPacer(time.Second, start)
	wait := p.Next(start.Add(200 * time.Millisecond))
	assert.InDelta(t, 1.0, wait.Seconds(), 1e-6)
}
