package discovery

import (
	"fmt"

	"github.com/grandcat/zeroconf"

	"github.com/neckcare/neckscan/internal/logging"
)

// Advertiser keeps a neckscan server registered via mDNS until Shutdown
type Advertiser struct {
	server *zeroconf.Server
	name   string
}

// AdvertiseConfig describes the server being registered
type AdvertiseConfig struct {
	Name    string // mDNS instance name
	Port    int
	Version string
	Model   string
}

// Advertise registers the server under ServiceType on all interfaces
func Advertise(cfg AdvertiseConfig) (*Advertiser, error) {
	if cfg.Name == "" {
		return nil, fmt.Errorf("instance name is required")
	}
	if cfg.Port <= 0 {
		return nil, fmt.Errorf("invalid port %d", cfg.Port)
	}

	txt := buildTXT(map[string]string{
		txtVersion: cfg.Version,
		txtModel:   cfg.Model,
		txtPath:    WebSocketPath,
	})

	server, err := zeroconf.Register(cfg.Name, ServiceType, ServiceDomain, cfg.Port, txt, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to register mDNS service: %w", err)
	}

	logging.Info(fmt.Sprintf("Advertising %s on port %d via mDNS", cfg.Name, cfg.Port))
	return &Advertiser{server: server, name: cfg.Name}, nil
}

// Shutdown withdraws the registration
func (a *Advertiser) Shutdown() {
	if a == nil || a.server == nil {
		return
	}
	a.server.Shutdown()
	logging.Info(fmt.Sprintf("Stopped advertising %s", a.name))
}
