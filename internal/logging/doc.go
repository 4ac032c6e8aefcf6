// Package logging provides structured logging for screen-pilot.
//
// It wraps log/slog. Every record can carry live desktop context (the focused
// window title and the display rotation) supplied by a ContextProvider that is
// queried per record, so a post-hoc reader can tell what the screen looked
// like when each poll, action or escalation happened.
//
// # Usage
//
//	logger := logging.New(cfg.Logging, version.Version)
//	logger = logger.WithContextProvider(logging.DesktopContext(windows, display))
//	logger.Info("found marker", "marker", "rotate.png", "attempt", 2)
package logging
