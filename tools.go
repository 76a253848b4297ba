//go:build tools

package tools

// mockery is used as an installed binary, so no import is needed.
// Run: mockery (from the repository root) to regenerate pkg/bus/mocks.
