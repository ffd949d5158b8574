package ai

import "sync/atomic"

// debugLoggingEnabled guards slog.Debug calls in controller hot paths so
// the per-tick cost stays flat when debug logging is off.
var debugLoggingEnabled atomic.Bool

// EnableDebugLogging turns AI debug logging on or off.
// Call once at startup, after the log level is known.
func EnableDebugLogging(enabled bool) {
	debugLoggingEnabled.Store(enabled)
}

// IsDebugEnabled returns true if debug logging is enabled.
//
//	if ai.IsDebugEnabled() {
//	    slog.Debug("ability cast", "abilityID", id)
//	}
func IsDebugEnabled() bool {
	return debugLoggingEnabled.Load()
}
