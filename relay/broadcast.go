package relay

import (
	"net"

	"github.com/pkg/errors"
)

// BroadcastAddress is the IPv4 broadcast address of the named interface.
func BroadcastAddress(iface string) (net.IP, error) {
	ifi, err := net.InterfaceByName(iface)
	if err != nil {
		return nil, errors.Wrapf(err, "could not find interface %s", iface)
	}
	addrs, err := ifi.Addrs()
	if err != nil {
		return nil, errors.Wrapf(err, "could not list addresses of %s", iface)
	}
	for _, addr := range addrs {
		ipnet, ok := addr.(*net.IPNet)
		if !ok {
			continue
		}
		if ip := broadcastFor(ipnet); ip != nil {
			return ip, nil
		}
	}
	return nil, errors.Errorf("interface %s has no ipv4 address", iface)
}

func broadcastFor(ipnet *net.IPNet) net.IP {
	ip := ipnet.IP.To4()
	if ip == nil {
		return nil
	}
	mask := ipnet.Mask
	if len(mask) == net.IPv6len {
		mask = mask[12:]
	}
	if len(mask) != net.IPv4len {
		return nil
	}
	out := make(net.IP, net.IPv4len)
	for i := range ip {
		out[i] = ip[i] | ^mask[i]
	}
	return out
}
