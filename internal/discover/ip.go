package discover

import (
	"context"
	"fmt"
	"net"
)

// defaultProbeAddr is only used for route selection; no packets are sent
// over the UDP "connection".
const defaultProbeAddr = "8.8.8.8:80"

// OutgoingIP finds the address other machines on the LAN can reach this
// host at, by asking the OS which interface routes outward.
func OutgoingIP(ctx context.Context) (string, error) {
	return outgoingIP(ctx, defaultProbeAddr)
}

func outgoingIP(ctx context.Context, probeAddr string) (string, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "udp", probeAddr)
	if err != nil {
		// No route out; fall back to scanning local interfaces.
		return interfaceIP()
	}
	defer conn.Close()

	addr, ok := conn.LocalAddr().(*net.UDPAddr)
	if !ok {
		return interfaceIP()
	}
	return addr.IP.String(), nil
}

// interfaceIP picks the first non-loopback IPv4 interface address, for
// networks without internet access.
func interfaceIP() (string, error) {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return "", fmt.Errorf("list interface addresses: %w", err)
	}
	for _, a := range addrs {
		ipnet, ok := a.(*net.IPNet)
		if !ok || ipnet.IP.IsLoopback() || ipnet.IP.To4() == nil {
			continue
		}
		return ipnet.IP.String(), nil
	}
	return "127.0.0.1", nil
}
