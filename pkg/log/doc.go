// Package log is a thin wrapper around the standard library logger that adds
// named per-service loggers and debug gating.
//
// Each subsystem of the application (web, api, storage, preview, importer)
// obtains its own logger via ForService and every emitted line carries the
// service name, so a single log stream stays greppable:
//
//	l := log.ForService("web")
//	l.Infof("listening on %s", addr)
//	l.Debugf("raw query: %s", q) // only with debug enabled
//
// Debug output can be switched on globally (SetGlobalDebug) or for a single
// service (EnableDebugFor). Tests redirect all output with SetOutput and a
// bytes.Buffer.
//
// The package name intentionally collides with the stdlib "log"; alias one
// of the two when both are imported.
package log
