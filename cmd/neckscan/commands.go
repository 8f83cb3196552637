package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/neckcare/neckscan/internal/analysis"
	"github.com/neckcare/neckscan/internal/config"
	"github.com/neckcare/neckscan/internal/discovery"
	"github.com/neckcare/neckscan/internal/logging"
	"github.com/neckcare/neckscan/internal/remote"
	"github.com/neckcare/neckscan/internal/report"
	"github.com/neckcare/neckscan/internal/server"
	"github.com/neckcare/neckscan/internal/session"
	"github.com/neckcare/neckscan/internal/tui"
	"github.com/neckcare/neckscan/internal/ui"
	"github.com/neckcare/neckscan/internal/version"
)

// errAnalysisFailed marks an analysis that ended in the error state
var errAnalysisFailed = errors.New("analysis failed")

// Command flags
var (
	startImage   string
	remoteURL    string
	outputFormat string
	copyShare    bool

	serveHost      string
	servePort      int
	serveAdvertise bool
	serveName      string
	certPath       string
	keyPath        string

	scanTimeout time.Duration
)

func init() {
	rootCmd.PersistentFlags().StringVar(&remoteURL, "server", "", "Analyze on a neckscan server (see 'neckscan discover') instead of calling Gemini")
	rootCmd.Flags().StringVar(&startImage, "image", "", "Analyze this photo immediately instead of opening the file picker")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(discoverCmd)
	rootCmd.AddCommand(configCmd)
}

// newAnalyzer builds the Gemini client from config and the environment, or
// a remote client when --server is set. The label names the model or server.
func newAnalyzer(ctx context.Context) (analysis.Analyzer, string, error) {
	if remoteURL != "" {
		client := remote.NewClient(remoteURL)
		health, err := client.Health(ctx)
		if err != nil {
			return nil, "", fmt.Errorf("server %s is not reachable: %w", remoteURL, err)
		}
		logging.Info("Using remote server", zap.String("server", remoteURL), zap.String("version", health.Version))
		return client, client.BaseURL, nil
	}

	if err := config.LoadEnv(envFile); err != nil {
		return nil, "", err
	}
	apiKey, err := appConfig.Gemini.APIKey()
	if err != nil {
		return nil, "", err
	}
	client, err := analysis.NewGeminiClient(ctx, analysis.GeminiConfig{
		APIKey:  apiKey,
		Model:   appConfig.Gemini.Model,
		BaseURL: appConfig.Gemini.BaseURL,
	})
	if err != nil {
		return nil, "", err
	}
	return client, client.Model(), nil
}

func sessionOptions() []session.Option {
	return []session.Option{
		session.WithLoadingInterval(appConfig.Loading.Interval),
		session.WithLoadingMessages(appConfig.Loading.Messages),
		session.WithTimeout(appConfig.Gemini.RequestTimeout),
	}
}

func reportLinks() report.Links {
	return report.Links{
		ProductURL: appConfig.Links.ProductURL,
		ShareURL:   appConfig.Links.ShareURL,
	}
}

func runTUI(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	analyzer, _, err := newAnalyzer(ctx)
	if err != nil {
		return err
	}

	machine := session.New(analyzer, sessionOptions()...)
	defer machine.Close()

	return tui.Run(ctx, machine, tui.Config{
		Links:      reportLinks(),
		StartImage: startImage,
	})
}

// analyzeCmd runs a single analysis and prints the report
var analyzeCmd = &cobra.Command{
	Use:   "analyze <image>",
	Short: "Analyze a photo and print the report",
	Long: `Analyze one photo and print the report card.

The loading messages are printed while Gemini works. On failure the same
message the TUI would show is printed and the command exits with status 1.`,
	Example: `  # Print the report card
  neckscan analyze neck.jpg

  # JSON for scripting
  neckscan analyze neck.jpg --format json

  # Copy the share text to the clipboard as well
  neckscan analyze neck.jpg --copy`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&outputFormat, "format", "detailed", "Output format (detailed, json)")
	analyzeCmd.Flags().BoolVar(&copyShare, "copy", false, "Copy the share text to the clipboard")
}

// analyzeOutput is the --format json document
type analyzeOutput struct {
	Snapshot session.Snapshot `json:"snapshot"`
	View     *report.View     `json:"view,omitempty"`
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if outputFormat != "detailed" && outputFormat != "json" {
		return fmt.Errorf("unknown format %q (use detailed or json)", outputFormat)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	img, err := analysis.LoadImage(args[0])
	if err != nil {
		return err
	}

	analyzer, label, err := newAnalyzer(ctx)
	if err != nil {
		return err
	}

	machine := session.New(analyzer, sessionOptions()...)
	defer machine.Close()

	printer := ui.NewPrinter(os.Stdout)
	runner := ui.NewRunner(ui.RunnerConfig{
		Title:   "Neck Scan",
		Command: "neckscan analyze",
		Params: []ui.Param{
			{Key: "image", Value: img.Name},
			{Key: "model", Value: label},
		},
		Links: reportLinks(),
		Hints: []string{ui.RetryHint, "목 전체가 밝게 나온 사진을 사용해 주세요"},
		Quiet: outputFormat == "json",
	}, printer)

	snap, err := runner.Run(ctx, machine, img)
	if err != nil {
		return err
	}

	var view *report.View
	if snap.State == session.StateResult {
		v, err := report.BuildView(snap.Result, reportLinks())
		if err != nil {
			return err
		}
		view = &v
	}

	if outputFormat == "json" {
		if err := printer.PrintJSON(analyzeOutput{Snapshot: snap, View: view}); err != nil {
			return err
		}
	}

	if view == nil {
		return errAnalysisFailed
	}

	if copyShare {
		if err := clipboard.WriteAll(view.ShareText); err != nil {
			return fmt.Errorf("failed to copy share text: %w", err)
		}
		if outputFormat != "json" {
			printer.PrintNote("공유 문구를 클립보드에 복사했어요")
		}
	}
	return nil
}

// serveCmd runs the HTTP/WebSocket server
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve analyses over HTTP and WebSocket",
	Long: `Start the neckscan server.

Browsers connect to /ws and drive their own session: submit a photo, watch
the loading messages rotate and receive the report. POST /api/analyze runs
a single analysis for scripts.

With --advertise the server registers itself via mDNS so 'neckscan discover'
can find it on the local network.`,
	Example: `  # Listen on the configured address (default 0.0.0.0:8080)
  neckscan serve

  # Custom port, advertised on the LAN
  neckscan serve --port 9000 --advertise

  # Serve HTTPS/WSS
  neckscan serve --cert fullchain.pem --key privkey.pem`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Listen host (overrides config)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Listen port (overrides config)")
	serveCmd.Flags().BoolVar(&serveAdvertise, "advertise", false, "Advertise the server via mDNS")
	serveCmd.Flags().StringVar(&serveName, "name", "", "mDNS instance name (default: neckscan-<hostname>)")
	serveCmd.Flags().StringVar(&certPath, "cert", "", "TLS certificate file")
	serveCmd.Flags().StringVar(&keyPath, "key", "", "TLS private key file")
}

func runServe(cmd *cobra.Command, args []string) error {
	if (certPath == "") != (keyPath == "") {
		return fmt.Errorf("both --cert and --key must be provided together")
	}

	cfg := appConfig.Server
	if cmd.Flags().Changed("host") {
		cfg.Host = serveHost
	}
	if cmd.Flags().Changed("port") {
		cfg.Port = servePort
	}
	if cmd.Flags().Changed("advertise") {
		cfg.Advertise = serveAdvertise
	}

	ctx := cmd.Context()
	analyzer, label, err := newAnalyzer(ctx)
	if err != nil {
		return err
	}

	srv, err := server.New(&server.Config{
		Host:           cfg.Host,
		Port:           cfg.Port,
		CertPath:       certPath,
		KeyPath:        keyPath,
		Analyzer:       analyzer,
		Links:          reportLinks(),
		SessionOptions: sessionOptions(),
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}
	if err := srv.Listen(); err != nil {
		return err
	}

	printer := ui.NewPrinter(os.Stdout)
	printer.PrintHeader(ui.NewHeader("Neck Scan Server", "neckscan serve",
		ui.Param{Key: "addr", Value: srv.Addr()},
		ui.Param{Key: "model", Value: label},
	))

	// Port 0 binds a free port; advertise the one actually in use
	if port, err := boundPort(srv.Addr()); err == nil {
		cfg.Port = port
	}

	if cfg.Advertise {
		name := serveName
		if name == "" {
			host, _ := os.Hostname()
			name = "neckscan-" + host
		}
		adv, err := discovery.Advertise(discovery.AdvertiseConfig{
			Name:    name,
			Port:    cfg.Port,
			Version: version.Version,
			Model:   label,
		})
		if err != nil {
			// Serving still works without mDNS
			logging.Warn("mDNS advertisement failed", zap.Error(err))
			printer.PrintNote(fmt.Sprintf("mDNS advertisement failed: %v", err))
		} else {
			defer adv.Shutdown()
			printer.PrintNote(fmt.Sprintf("Advertising as %s (%s)", name, discovery.ServiceType))
		}
	}

	printer.PrintStep("Listening; press Ctrl+C to stop", false)
	if err := srv.Run(ctx); err != nil {
		return err
	}
	printer.PrintStep("Server stopped", true)
	return nil
}

// boundPort extracts the port from a listener address
func boundPort(addr string) (int, error) {
	_, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return 0, fmt.Errorf("invalid listen address %q: %w", addr, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port <= 0 {
		return 0, fmt.Errorf("invalid port in listen address %q", addr)
	}
	return port, nil
}

// discoverCmd browses for servers on the LAN
var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Find neckscan servers on the local network",
	Long: `Browse for neckscan servers advertised with 'neckscan serve --advertise'.

Requires multicast (mDNS, UDP 5353) on the local network.`,
	Example: `  # Browse for 5 seconds (default)
  neckscan discover

  # Longer scan
  neckscan discover --timeout 15s`,
	RunE: runDiscover,
}

func init() {
	discoverCmd.Flags().DurationVar(&scanTimeout, "timeout", discovery.DefaultScanTimeout, "How long to wait for answers")
}

func runDiscover(cmd *cobra.Command, args []string) error {
	fmt.Printf("Scanning for neckscan servers (timeout: %s)...\n\n", scanTimeout)

	scanner := &discovery.Scanner{Timeout: scanTimeout}
	instances, err := scanner.Scan(cmd.Context())
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if len(instances) == 0 {
		fmt.Println("No servers found.")
		fmt.Println("\nTroubleshooting:")
		fmt.Println("  - Start a server with 'neckscan serve --advertise'")
		fmt.Println("  - Make sure both machines are on the same network segment")
		fmt.Println("  - Check that the firewall allows mDNS (UDP 5353)")
		fmt.Println("  - Try increasing --timeout")
		return nil
	}

	fmt.Printf("Found %d server(s):\n\n", len(instances))
	for i, inst := range instances {
		fmt.Printf("%d. %s\n", i+1, inst.Name)
		fmt.Printf("   URL:       %s\n", inst.BaseURL())
		fmt.Printf("   WebSocket: %s\n", inst.WebSocketURL())
		fmt.Printf("   Use:       neckscan --server %s\n", inst.BaseURL())
		if inst.Version != "" {
			fmt.Printf("   Version:   %s\n", inst.Version)
		}
		if inst.Model != "" {
			fmt.Printf("   Model:     %s\n", inst.Model)
		}
		fmt.Println()
	}
	return nil
}

// configCmd manages the config file
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if configPath != "" {
			if _, err := os.Stat(configPath); err == nil {
				fmt.Printf("Config already exists: %s\n", configPath)
				return nil
			}
			if err := config.NewConfig().SaveTo(configPath); err != nil {
				return err
			}
			fmt.Printf("Created %s\n", configPath)
			return nil
		}

		path, created, err := config.CreateDefaultConfig()
		if err != nil {
			return err
		}
		if !created {
			fmt.Printf("Config already exists: %s\n", path)
			return nil
		}
		fmt.Printf("Created %s\n", path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configPath
		if path == "" {
			p, err := config.GetConfigPath()
			if err != nil {
				return err
			}
			path = p
		}

		data, err := yaml.Marshal(appConfig)
		if err != nil {
			return fmt.Errorf("failed to encode config: %w", err)
		}
		fmt.Printf("# %s\n%s", path, data)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}
