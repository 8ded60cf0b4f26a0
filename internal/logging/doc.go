// Package logging provides structured logging for wolctl.
//
// It wraps a global zap logger with package-level helpers so any package can
// log without threading a logger through constructors.
//
// # Silent By Default
//
// wolctl is an interactive terminal program. Unless a level is requested via
// --log-level or WOLCTL_LOG_LEVEL, the logger is a nop and nothing is
// written. When the full-screen UI runs, output is directed to a file so log
// lines never tear the rendered screen.
//
//	if err := logging.Initialize("debug", "/tmp/wolctl.log"); err != nil {
//	    return err
//	}
//	defer logging.Sync()
//
// # Specialized Logging
//
//	logging.LogRequest(id, "GET", "/api/machines", 200, elapsed, nil)
//	logging.LogAction("wake", "nas", "open->pending")
//
// # Thread Safety
//
// Logging functions are safe for concurrent use. Initialize and SetLogger are
// meant to be called once at startup (or in tests) before other goroutines log.
package logging
