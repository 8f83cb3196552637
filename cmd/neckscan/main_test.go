package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	"github.com/neckcare/neckscan/internal/config"
)

func TestRootCommand_RunsSetup(t *testing.T) {
	if rootCmd.PersistentPreRunE == nil {
		t.Fatal("root command has no PersistentPreRunE")
	}
}

func TestSetup_LoadsConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := config.NewConfig()
	cfg.Server.Port = 9123
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo() error = %v", err)
	}

	configPath = path
	t.Cleanup(func() {
		configPath = ""
		appConfig = nil
	})

	for _, cmd := range []*cobra.Command{rootCmd, versionCmd, serveCmd} {
		appConfig = nil
		if err := setup(cmd, nil); err != nil {
			t.Fatalf("setup(%s) error = %v", cmd.Name(), err)
		}
		if appConfig == nil || appConfig.Server.Port != 9123 {
			t.Errorf("setup(%s) loaded %+v, want port 9123", cmd.Name(), appConfig)
		}
	}
}

func TestSetup_InvalidConfig(t *testing.T) {
	configPath = filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("version: [1"), 0600); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { configPath = "" })

	if err := setup(rootCmd, nil); err == nil {
		t.Error("setup() with a non-YAML config should fail")
	}
}

func TestBoundPort(t *testing.T) {
	tests := []struct {
		addr    string
		want    int
		wantErr bool
	}{
		{addr: "127.0.0.1:8080", want: 8080},
		{addr: "[::]:43211", want: 43211},
		{addr: "0.0.0.0:0", wantErr: true},
		{addr: "", wantErr: true},
		{addr: "localhost", wantErr: true},
	}

	for _, tt := range tests {
		got, err := boundPort(tt.addr)
		if (err != nil) != tt.wantErr {
			t.Errorf("boundPort(%q) error = %v, wantErr %v", tt.addr, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("boundPort(%q) = %d, want %d", tt.addr, got, tt.want)
		}
	}
}
