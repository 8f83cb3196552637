// Package discovery finds neckscan servers on the local network over mDNS.
//
// `neckscan serve --advertise` registers the server as a "_neckscan._tcp"
// service with TXT records for the build version, the Gemini model and the
// websocket path. `neckscan discover` browses for that service type and
// lists what answers before the timeout.
//
// # Usage Example
//
//	adv, err := discovery.Advertise(discovery.AdvertiseConfig{
//	    Name: "neckscan-studio", Port: 8080, Version: version.Version,
//	})
//	if err != nil {
//	    return err
//	}
//	defer adv.Shutdown()
//
//	instances, err := discovery.NewScanner().Scan(ctx)
//
// # Network Requirements
//
// - Requires multicast support on the network interface
// - Servers must be on the same local network segment
// - Firewall must allow mDNS (UDP port 5353)
package discovery
