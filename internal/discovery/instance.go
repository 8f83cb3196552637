package discovery

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// Instance is a neckscan server found on the local network
type Instance struct {
	// Name is the mDNS instance name (e.g., "neckscan-studio")
	Name string

	// Hostname is the mDNS hostname (e.g., "studio.local.")
	Hostname string

	// IP is the first advertised address, IPv4 preferred
	IP string

	// Port is the HTTP port
	Port int

	// Version is the server build version from the TXT record
	Version string

	// Model is the Gemini model the server analyzes with
	Model string

	// Metadata holds every TXT record key
	Metadata map[string]string

	// DiscoveredAt is when the instance answered
	DiscoveredAt time.Time
}

// String returns a human-readable string representation of the instance
func (i *Instance) String() string {
	return fmt.Sprintf("%s (%s) at %s", i.Name, i.Version, i.BaseURL())
}

// BaseURL returns the HTTP base URL
func (i *Instance) BaseURL() string {
	return "http://" + net.JoinHostPort(i.IP, strconv.Itoa(i.Port))
}

// WebSocketURL returns the URL of the session websocket
func (i *Instance) WebSocketURL() string {
	return "ws://" + net.JoinHostPort(i.IP, strconv.Itoa(i.Port)) + WebSocketPath
}
