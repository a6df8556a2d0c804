// Package logger builds the application's zap loggers.
//
// The SDK itself logs through whatever *zap.Logger the caller injects (a
// no-op logger by default); this package constructs configured development
// or production loggers for the bridge binary.
package logger
