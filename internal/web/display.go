package web

import (
	"sync/atomic"

	"github.com/Gaurav-Gosain/winshell/internal/config"
	"github.com/Gaurav-Gosain/winshell/internal/wm"
)

// Display is the virtual surface of the headless host. Clients read the
// geometry through the API and draw it themselves.
type Display struct {
	width, height  int
	insetW, insetH int
	hasMaximized   atomic.Bool
	// limits is only touched on the manager goroutine.
	limits map[string]config.WindowLimits
}

// NewDisplay returns a width x height display whose window chrome takes
// insetW columns and insetH rows.
func NewDisplay(width, height, insetW, insetH int) *Display {
	return &Display{width: width, height: height, insetW: insetW, insetH: insetH}
}

func (d *Display) Size() (int, int)    { return d.width, d.height }
func (d *Display) Insets() (int, int)  { return d.insetW, d.insetH }
func (d *Display) Detach(w *wm.Window) { logger.Debug("detach", "window", w) }
func (d *Display) Update(*wm.Window)   {}

func (d *Display) SetHasMaximized(on bool) { d.hasMaximized.Store(on) }

// Attach hands out the size limits configured for the window's URL.
func (d *Display) Attach(w *wm.Window) wm.Limits {
	return wm.URLLimits(d.limits, w.URL)
}

// SetWindowLimits replaces the per-URL limits used for windows attached
// from now on. Call it on the manager goroutine.
func (d *Display) SetWindowLimits(limits map[string]config.WindowLimits) {
	d.limits = limits
}

// HasMaximized reports the display-wide maximized marker.
func (d *Display) HasMaximized() bool { return d.hasMaximized.Load() }
