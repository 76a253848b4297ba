// Package config loads bluecache configuration files.
//
// A file only needs the keys it changes; everything else keeps the value
// from Default:
//
//	bus:
//	  type: session
//	timeouts:
//	  find: 30s
//	log:
//	  level: debug
//	  protocol_log: /tmp/bluecache.blog
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Bus types.
const (
	BusSystem  = "system"
	BusSession = "session"
	BusAddress = "address"
)

// Dump formats.
const (
	FormatCBOR = "cbor"
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// Configuration errors.
var (
	ErrInvalidBus     = errors.New("invalid bus type")
	ErrMissingAddress = errors.New("bus address required")
	ErrInvalidTimeout = errors.New("invalid timeout")
	ErrInvalidLevel   = errors.New("invalid log level")
	ErrInvalidFormat  = errors.New("invalid format")
)

// Config is the complete bluecache configuration.
type Config struct {
	Bus      BusConfig  `yaml:"bus"`
	Service  string     `yaml:"service"`
	Manager  string     `yaml:"manager"`
	Timeouts Timeouts   `yaml:"timeouts"`
	Log      LogConfig  `yaml:"log"`
	Dump     DumpConfig `yaml:"dump"`
}

// BusConfig selects the message bus.
type BusConfig struct {
	// Type is system, session or address.
	Type string `yaml:"type"`

	// Address is the bus address when Type is address.
	Address string `yaml:"address,omitempty"`

	// SignalBuffer is the number of signals buffered between reads.
	SignalBuffer int `yaml:"signal_buffer"`
}

// Timeouts bounds the blocking operations.
type Timeouts struct {
	// Call bounds each method call.
	Call time.Duration `yaml:"call"`

	// Find bounds object searches.
	Find time.Duration `yaml:"find"`

	// Wait bounds property change waits in watch mode.
	Wait time.Duration `yaml:"wait"`
}

// LogConfig configures operational and protocol logging.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`

	// ProtocolLog is the CBOR protocol log file. Empty disables it.
	ProtocolLog string `yaml:"protocol_log,omitempty"`
}

// DumpConfig configures the dump command.
type DumpConfig struct {
	Format string `yaml:"format"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Bus: BusConfig{
			Type:         BusSystem,
			SignalBuffer: 256,
		},
		Service: "org.bluez",
		Manager: "/",
		Timeouts: Timeouts{
			Call: 25 * time.Second,
			Find: 10 * time.Second,
			Wait: 5 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Dump: DumpConfig{
			Format: FormatYAML,
		},
	}
}

// Load reads path on top of Default and validates the result.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML on top of Default and validates the result. Unknown
// keys are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("YAML parse error: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for consistency.
func (c Config) Validate() error {
	switch c.Bus.Type {
	case BusSystem, BusSession:
	case BusAddress:
		if c.Bus.Address == "" {
			return ErrMissingAddress
		}
	default:
		return fmt.Errorf("%w: %q (must be system, session, or address)", ErrInvalidBus, c.Bus.Type)
	}
	if c.Bus.SignalBuffer < 0 {
		return fmt.Errorf("signal_buffer must not be negative: %d", c.Bus.SignalBuffer)
	}
	if c.Service == "" {
		return errors.New("service required")
	}
	if !strings.HasPrefix(c.Manager, "/") {
		return fmt.Errorf("manager must be an object path: %q", c.Manager)
	}

	for name, d := range map[string]time.Duration{
		"call": c.Timeouts.Call,
		"find": c.Timeouts.Find,
		"wait": c.Timeouts.Wait,
	} {
		if d < 0 {
			return fmt.Errorf("%w: %s = %s", ErrInvalidTimeout, name, d)
		}
	}

	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log format %q (must be text or json)", ErrInvalidFormat, c.Log.Format)
	}

	switch c.Dump.Format {
	case FormatCBOR, FormatYAML, FormatJSON:
	default:
		return fmt.Errorf("%w: dump format %q (must be cbor, yaml, or json)", ErrInvalidFormat, c.Dump.Format)
	}
	return nil
}

// SlogLevel returns the slog level named by Level.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("%w: %q (must be debug, info, warn, or error)", ErrInvalidLevel, l.Level)
}

// NewLogger builds the operational logger described by l, writing to w.
func (l LogConfig) NewLogger(w io.Writer) (*slog.Logger, error) {
	level, err := l.SlogLevel()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if l.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

// Marshal encodes c as YAML.
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
