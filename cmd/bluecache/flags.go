package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/bluecache/bluecache-go/cmd/bluecache/commands"
	"github.com/bluecache/bluecache-go/pkg/bus"
	"github.com/bluecache/bluecache-go/pkg/config"
	"github.com/bluecache/bluecache-go/pkg/log"
)

// globalFlags are shared by every command that talks to the bus.
type globalFlags struct {
	configFile  string
	busType     string
	address     string
	service     string
	manager     string
	timeout     time.Duration
	logLevel    string
	logFormat   string
	protocolLog string

	set map[string]bool
}

func newFlagSet(name, argsUsage, summary string) (*flag.FlagSet, *globalFlags) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `bluecache %s - %s

Usage:
  bluecache %s %s

Flags:
`, name, summary, name, argsUsage)
		fs.PrintDefaults()
	}

	g := &globalFlags{}
	fs.StringVar(&g.configFile, "config", "", "Configuration file path")
	fs.StringVar(&g.busType, "bus", "", "Bus: system, session, address")
	fs.StringVar(&g.address, "address", "", "Bus address (implies -bus address)")
	fs.StringVar(&g.service, "service", "", "Bus name of the mirrored service")
	fs.StringVar(&g.manager, "manager", "", "Object path of the ObjectManager")
	fs.DurationVar(&g.timeout, "timeout", 0, "Wait timeout for searches")
	fs.StringVar(&g.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	fs.StringVar(&g.logFormat, "log-format", "", "Log format: text, json")
	fs.StringVar(&g.protocolLog, "protocol-log", "", "Write a CBOR protocol log to this file")
	return fs, g
}

func parse(fs *flag.FlagSet, args []string, minArgs int) {
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() < minArgs {
		fmt.Fprintln(os.Stderr, "Error: missing arguments")
		fs.Usage()
		os.Exit(1)
	}
}

// config loads the configuration file, if any, and applies the flags on
// top of it.
func (g *globalFlags) config() (config.Config, error) {
	cfg := config.Default()
	if g.configFile != "" {
		var err error
		if cfg, err = config.Load(g.configFile); err != nil {
			return config.Config{}, err
		}
	}
	if g.busType != "" {
		cfg.Bus.Type = g.busType
	}
	if g.address != "" {
		cfg.Bus.Type = config.BusAddress
		cfg.Bus.Address = g.address
	}
	if g.service != "" {
		cfg.Service = g.service
	}
	if g.manager != "" {
		cfg.Manager = g.manager
	}
	if g.timeout > 0 {
		cfg.Timeouts.Find = g.timeout
	}
	if g.logLevel != "" {
		cfg.Log.Level = g.logLevel
	}
	if g.logFormat != "" {
		cfg.Log.Format = g.logFormat
	}
	if g.protocolLog != "" {
		cfg.Log.ProtocolLog = g.protocolLog
	}
	return cfg, cfg.Validate()
}

// open connects to the configured bus. The returned function closes the
// connection and the protocol log.
func (g *globalFlags) open() (*commands.Env, func(), error) {
	cfg, err := g.config()
	if err != nil {
		return nil, nil, err
	}
	logger, err := cfg.Log.NewLogger(os.Stderr)
	if err != nil {
		return nil, nil, err
	}
	slog.SetDefault(logger)

	opts := []bus.Option{
		bus.WithLogger(logger),
		bus.WithCallTimeout(cfg.Timeouts.Call),
		bus.WithSignalBuffer(cfg.Bus.SignalBuffer),
	}

	var closers []io.Closer
	loggers := []log.Logger{log.NewSlogAdapter(logger)}
	if cfg.Log.ProtocolLog != "" {
		fl, err := log.NewFileLogger(cfg.Log.ProtocolLog)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create protocol log: %w", err)
		}
		closers = append(closers, fl)
		loggers = append(loggers, fl)
	}
	opts = append(opts, bus.WithProtocolLogger(log.NewMultiLogger(loggers...)))

	var conn *bus.DBusConn
	switch cfg.Bus.Type {
	case config.BusSession:
		conn, err = bus.ConnectSessionBus(opts...)
	case config.BusAddress:
		conn, err = bus.Connect(cfg.Bus.Address, opts...)
	default:
		conn, err = bus.ConnectSystemBus(opts...)
	}
	if err != nil {
		for _, c := range closers {
			c.Close()
		}
		return nil, nil, fmt.Errorf("connect to %s bus: %w", cfg.Bus.Type, err)
	}
	logger.Debug("connected", "bus", cfg.Bus.Type, "unique_name", conn.UniqueName(), "conn_id", conn.ID())

	closeEnv := func() {
		if err := conn.Close(); err != nil {
			logger.Warn("close connection", "error", err)
		}
		for _, c := range closers {
			if err := c.Close(); err != nil {
				logger.Warn("close protocol log", "error", err)
			}
		}
	}
	return &commands.Env{Conn: conn, Config: cfg, Out: os.Stdout, Logger: logger}, closeEnv, nil
}
