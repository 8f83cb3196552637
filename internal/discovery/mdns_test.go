package discovery

import (
	"net"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/grandcat/zeroconf"
)

func TestParseServiceEntry(t *testing.T) {
	tests := []struct {
		name        string
		entry       *zeroconf.ServiceEntry
		wantNil     bool
		wantName    string
		wantIP      string
		wantPort    int
		wantVersion string
		wantModel   string
	}{
		{
			name: "IPv4 instance with TXT records",
			entry: &zeroconf.ServiceEntry{
				ServiceRecord: zeroconf.ServiceRecord{Instance: "neckscan-studio"},
				HostName:      "studio.local.",
				Port:          8080,
				AddrIPv4:      []net.IP{net.ParseIP("192.168.4.16")},
				Text:          []string{"version=1.2.0", "model=gemini-test", "path=/ws"},
			},
			wantName:    "neckscan-studio",
			wantIP:      "192.168.4.16",
			wantPort:    8080,
			wantVersion: "1.2.0",
			wantModel:   "gemini-test",
		},
		{
			name: "IPv6 only",
			entry: &zeroconf.ServiceEntry{
				ServiceRecord: zeroconf.ServiceRecord{Instance: "v6"},
				HostName:      "v6.local.",
				Port:          9000,
				AddrIPv6:      []net.IP{net.ParseIP("fe80::1")},
			},
			wantName: "v6",
			wantIP:   "fe80::1",
			wantPort: 9000,
		},
		{
			name: "prefers IPv4",
			entry: &zeroconf.ServiceEntry{
				ServiceRecord: zeroconf.ServiceRecord{Instance: "dual"},
				Port:          8080,
				AddrIPv4:      []net.IP{net.ParseIP("10.0.0.5")},
				AddrIPv6:      []net.IP{net.ParseIP("fe80::1")},
			},
			wantName: "dual",
			wantIP:   "10.0.0.5",
			wantPort: 8080,
		},
		{
			name: "hostname used when instance is empty",
			entry: &zeroconf.ServiceEntry{
				HostName: "kiosk.local.",
				Port:     8080,
				AddrIPv4: []net.IP{net.ParseIP("10.0.0.9")},
			},
			wantName: "kiosk.local",
			wantIP:   "10.0.0.9",
			wantPort: 8080,
		},
		{
			name: "no address",
			entry: &zeroconf.ServiceEntry{
				ServiceRecord: zeroconf.ServiceRecord{Instance: "ghost"},
				Port:          8080,
			},
			wantNil: true,
		},
		{
			name: "no port",
			entry: &zeroconf.ServiceEntry{
				ServiceRecord: zeroconf.ServiceRecord{Instance: "ghost"},
				AddrIPv4:      []net.IP{net.ParseIP("10.0.0.9")},
			},
			wantNil: true,
		},
		{
			name:    "nil entry",
			entry:   nil,
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inst := parseServiceEntry(tt.entry)

			if tt.wantNil {
				if inst != nil {
					t.Errorf("parseServiceEntry() = %v, want nil", inst)
				}
				return
			}
			if inst == nil {
				t.Fatal("parseServiceEntry() = nil, want instance")
			}

			if inst.Name != tt.wantName {
				t.Errorf("Name = %v, want %v", inst.Name, tt.wantName)
			}
			if inst.IP != tt.wantIP {
				t.Errorf("IP = %v, want %v", inst.IP, tt.wantIP)
			}
			if inst.Port != tt.wantPort {
				t.Errorf("Port = %v, want %v", inst.Port, tt.wantPort)
			}
			if inst.Version != tt.wantVersion {
				t.Errorf("Version = %v, want %v", inst.Version, tt.wantVersion)
			}
			if inst.Model != tt.wantModel {
				t.Errorf("Model = %v, want %v", inst.Model, tt.wantModel)
			}
			if inst.DiscoveredAt.IsZero() {
				t.Error("DiscoveredAt should be set")
			}
		})
	}
}

func TestTXTRoundTrip(t *testing.T) {
	meta := map[string]string{"version": "1.0.0", "model": "m", "path": "/ws"}

	records := buildTXT(meta)
	want := []string{"model=m", "path=/ws", "version=1.0.0"}
	if diff := cmp.Diff(want, records); diff != "" {
		t.Errorf("buildTXT() mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff(meta, parseTXT(records)); diff != "" {
		t.Errorf("parseTXT() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseTXT_EdgeCases(t *testing.T) {
	got := parseTXT([]string{"flag", "k=v=w", "=orphan", ""})
	want := map[string]string{"flag": "", "k": "v=w"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("parseTXT() mismatch (-want +got):\n%s", diff)
	}
}

func TestInstanceURLs(t *testing.T) {
	inst := &Instance{Name: "a", IP: "192.168.1.2", Port: 8080, Version: "dev"}
	if got := inst.BaseURL(); got != "http://192.168.1.2:8080" {
		t.Errorf("BaseURL() = %v", got)
	}
	if got := inst.WebSocketURL(); got != "ws://192.168.1.2:8080/ws" {
		t.Errorf("WebSocketURL() = %v", got)
	}

	v6 := &Instance{IP: "fe80::1", Port: 80}
	if got := v6.BaseURL(); got != "http://[fe80::1]:80" {
		t.Errorf("BaseURL() for IPv6 = %v", got)
	}
}

func TestAdvertise_Validation(t *testing.T) {
	if _, err := Advertise(AdvertiseConfig{Port: 8080}); err == nil {
		t.Error("Advertise() should require a name")
	}
	if _, err := Advertise(AdvertiseConfig{Name: "x"}); err == nil {
		t.Error("Advertise() should require a port")
	}

	var nilAdv *Advertiser
	nilAdv.Shutdown()
}
