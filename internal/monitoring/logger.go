// Package monitoring carries the diagnostic logging surface shared by the
// library packages, so batch runs log through one swappable function.
package monitoring

import "log"

// Logf is the package-level diagnostic logger, defaulting to log.Printf.
// Library code logs through it so tests and embedders can redirect or mute
// output with SetLogger.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. Passing nil installs a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}
