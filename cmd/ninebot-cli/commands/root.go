// Package commands implements the ninebot-cli command tree.
package commands

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/fhunleth/ninebot-ble/internal/ble"
	blecrypto "github.com/fhunleth/ninebot-ble/internal/ble/crypto"
	"github.com/fhunleth/ninebot-ble/internal/config"
	"github.com/fhunleth/ninebot-ble/internal/metrics"
)

var (
	// cfgPath, deviceMAC and logLevel are persistent flags; deviceMAC
	// overrides whatever device.mac a loaded config file names.
	cfgPath     string
	deviceMAC   string
	logLevel    string
	metricsAddr string

	cfg *config.Config
	rec *metrics.Recorder
)

// rootCmd is the top-level cobra command for ninebot-cli.
var rootCmd = &cobra.Command{
	Use:   "ninebot-cli",
	Short: "Command-line client for the Ninebot/Segway scooter BLE protocol",
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		loaded, err := loadConfig(cfgPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if deviceMAC != "" {
			loaded.Device.MAC = deviceMAC
		}
		if logLevel != "" {
			loaded.LogLevel = logLevel
		}
		if metricsAddr != "" {
			loaded.Metrics.Enabled = true
			loaded.Metrics.Addr = metricsAddr
		}
		cfg = loaded

		handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: config.ParseLogLevel(cfg.LogLevel)})
		slog.SetDefault(slog.New(handler))

		if cfg.Metrics.Enabled {
			rec = metrics.NewRecorder(prometheus.DefaultRegisterer)
			go serveMetrics(cfg.Metrics.Addr)
		}

		return nil
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to config file (default: ~/.config/ninebot-ble/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&deviceMAC, "device", "", "scooter MAC address or platform device identifier (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")
	rootCmd.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9090 (overrides config)")

	rootCmd.AddCommand(scanCmd())
	rootCmd.AddCommand(readCmd())
	rootCmd.AddCommand(dumpCmd())
}

// Execute runs the root command and exits with code 1 on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// loadConfig loads the config from path, or the default config path, or
// built-in defaults, writing a default config file on first run.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}

	defaultPath := config.DefaultConfigPath()
	if _, err := os.Stat(defaultPath); err == nil {
		c, err := config.Load(defaultPath)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", defaultPath, err)
		}
		return c, nil
	}

	if created, err := config.WriteDefault(); err != nil {
		slog.Warn("could not write default config", "error", err)
	} else if created != "" {
		slog.Info("created default config", "path", created)
	}

	return config.Default(), nil
}

func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	slog.Info("serving metrics", "addr", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		slog.Error("metrics server stopped", "error", err)
	}
}

// connectAndPair dials the configured device, runs Connect then
// Handshake, and returns a ready-to-read Client.
func connectAndPair(ctx context.Context) (*ble.Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	adapter := ble.NewTinygoAdapter()
	cipher := blecrypto.NewStreamCipher()
	opts := ble.ClientOptions{
		RequestTimeout: time.Duration(cfg.Request.RequestTimeout),
		ReceiveTimeout: time.Duration(cfg.Request.ReceiveTimeout),
		QueueSize:      cfg.Request.QueueSize,
		Recorder:       rec,
	}
	client := ble.NewClient(adapter, cipher, opts)

	if err := client.Connect(ctx, cfg.Device.MAC, cfg.Device.Name); err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	pairTimeout := time.Duration(cfg.Request.PairTimeout)
	if err := client.Handshake(pairTimeout); err != nil {
		_ = client.Disconnect()
		return nil, fmt.Errorf("handshake: %w", err)
	}

	return client, nil
}
