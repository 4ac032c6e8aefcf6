package logging

import (
	"context"
	"log/slog"

	"github.com/mj1618/screen-pilot/internal/engine"
)

// ContextProvider supplies attributes describing the live environment.
// It is called once per emitted record and must not log through the same
// logger.
type ContextProvider interface {
	Attrs(ctx context.Context) []slog.Attr
}

// ContextProviderFunc adapts a function to ContextProvider.
type ContextProviderFunc func(ctx context.Context) []slog.Attr

func (f ContextProviderFunc) Attrs(ctx context.Context) []slog.Attr { return f(ctx) }

// contextHandler adds provider attributes to every record it handles.
type contextHandler struct {
	inner    slog.Handler
	provider ContextProvider
}

func (h *contextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *contextHandler) Handle(ctx context.Context, r slog.Record) error {
	r = r.Clone()
	r.AddAttrs(h.provider.Attrs(ctx)...)
	return h.inner.Handle(ctx, r)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &contextHandler{inner: h.inner.WithAttrs(attrs), provider: h.provider}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	return &contextHandler{inner: h.inner.WithGroup(name), provider: h.provider}
}

// DesktopContext reports the focused window title as "active_window" and the display
// rotation as "rotation". Absent windows render as "None"; failed queries
// render as "WinErr" and "Unk".
func DesktopContext(windows engine.WindowOracle, display engine.OrientationOracle) ContextProvider {
	return ContextProviderFunc(func(ctx context.Context) []slog.Attr {
		attrs := make([]slog.Attr, 0, 2)
		if display != nil {
			q := display.Orientation(ctx)
			if q.Ok() {
				attrs = append(attrs, slog.Int("rotation", q.Value))
			} else {
				attrs = append(attrs, slog.String("rotation", "Unk"))
			}
		}
		if windows != nil {
			q := windows.ActiveWindowTitle(ctx)
			switch q.Status {
			case engine.QueryValue:
				attrs = append(attrs, slog.String("active_window", q.Value))
			case engine.QueryAbsent:
				attrs = append(attrs, slog.String("active_window", "None"))
			default:
				attrs = append(attrs, slog.String("active_window", "WinErr"))
			}
		}
		return attrs
	})
}
