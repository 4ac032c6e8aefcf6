// Package darwin provides macOS platform support: CoreGraphics input events,
// Accessibility queries for the focused window, display rotation, and screen
// capture through screencapture(1). Most of it requires CGo; without CGo only
// the launcher compiles and no provider is registered.
package darwin
