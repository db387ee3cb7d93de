// Package discover advertises a running relay on the local network and
// lets clients find one without typing an address.
package discover

import (
	"fmt"
	"os"

	"github.com/hashicorp/mdns"
)

const serviceType = "_opensketch._tcp"

// Advertise announces a relay listening on port via mDNS. The returned
// server must be shut down when the relay exits.
func Advertise(port int) (*mdns.Server, error) {
	host, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("could not get hostname: %w", err)
	}

	service, err := mdns.NewMDNSService(
		host,
		serviceType,
		"", // default ".local" domain
		"", // OS hostname
		port,
		nil, // auto-detect IPs
		[]string{"OpenSketch relay"},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS service: %w", err)
	}

	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return nil, fmt.Errorf("failed to start mDNS server: %w", err)
	}

	return server, nil
}

// Browse looks the relay service up on the LAN, calling found with each
// "host:port" discovered.
func Browse(found func(addr string)) error {
	entries := make(chan *mdns.ServiceEntry, 8)
	go func() {
		for e := range entries {
			if e.AddrV4 == nil || e.Port == 0 {
				continue
			}
			found(fmt.Sprintf("%s:%d", e.AddrV4.String(), e.Port))
		}
	}()
	return mdns.Lookup(serviceType, entries)
}
