// Package log provides structured protocol logging for bus connections.
//
// This package defines the Logger interface and Event types for capturing
// every method call, reply, signal and error that crosses a connection.
// It is separate from operational logging (slog) - protocol capture provides
// a complete machine-readable event trace for debugging and analysis.
//
// # Basic Usage
//
// Applications configure logging by providing a Logger implementation:
//
//	// For development: log to console via slog
//	conn, _ := bus.ConnectSystemBus(bus.WithProtocolLogger(log.NewSlogAdapter(slog.Default())))
//
//	// For production: write to binary file
//	fileLogger, _ := log.NewFileLogger("/var/log/bluecache/system.blog")
//
//	// Both: use MultiLogger
//	logger := log.NewMultiLogger(log.NewSlogAdapter(slog.Default()), fileLogger)
//
// # Event Types
//
//   - Call: an outgoing method call (CallEvent)
//   - Reply: the reply to a method call (CallEvent with a duration)
//   - Signal: an incoming signal (SignalEvent)
//   - State: connection and cache lifecycle (StateChangeEvent)
//   - Error: failed calls and undecodable messages (ErrorEventData)
//
// # File Format
//
// Log files are a stream of CBOR-encoded events. Message bodies are stored
// in the kind-preserving encoding of package wire.
package log
