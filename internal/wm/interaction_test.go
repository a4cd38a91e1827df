package wm

import (
	"testing"

	"github.com/Gaurav-Gosain/winshell/internal/config"
	"github.com/Gaurav-Gosain/winshell/internal/protocol"
)

func noSnap(c *config.Config) { c.Behavior.Snapping = false }

// =============================================================================
// Drag Tests
// =============================================================================

func TestDragMovesByDelta(t *testing.T) {
	f := newFixture(t)
	a := f.m.AddWindow("a", nil)
	w := f.m.AddWindow("b", nil)
	start := w.Rect

	f.m.PointerDown(w, HandleDrag, Point{10, start.Top})
	if k, target := f.m.Interaction(); k != Dragging || target != w {
		t.Fatalf("interaction = %v on %v, want dragging", k, target)
	}
	if a.PointerRouted() || w.PointerRouted() {
		t.Error("content must not receive pointer input while dragging")
	}

	f.m.PointerMove(Point{15, start.Top + 4})
	f.m.PointerMove(Point{17, start.Top + 5})
	if w.Rect.Left != start.Left+7 || w.Rect.Top != start.Top+5 {
		t.Errorf("position = (%d,%d), want (%d,%d)", w.Rect.Left, w.Rect.Top, start.Left+7, start.Top+5)
	}
	if w.Rect.Width != start.Width || w.Rect.Height != start.Height {
		t.Error("dragging must not resize")
	}
	if got := f.count(KindWindowMoved); got != 2 {
		t.Errorf("move events = %d, want 2", got)
	}

	f.m.PointerUp()
	if k, _ := f.m.Interaction(); k != Idle {
		t.Errorf("interaction after release = %v, want idle", k)
	}
	if !w.PointerRouted() || a.PointerRouted() {
		t.Error("pointer input should return to the focused window only")
	}
}

func TestDragKeepsWindowVisible(t *testing.T) {
	tests := []struct {
		name         string
		to           Point
		wantX, wantY int
		unclamped    bool
	}{
		{name: "far right and down", to: Point{200, 100}, wantX: 112, wantY: 39},
		{name: "far left and up", to: Point{-100, -50}, wantX: -32, wantY: 0},
		{name: "unclamped when disabled", to: Point{200, 100}, wantX: 192, wantY: 100, unclamped: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, noSnap, func(c *config.Config) {
				c.Behavior.KeepVisible = !tt.unclamped
			})
			w := f.m.AddWindow("a", nil) // at (2,1), 40 wide

			f.m.PointerDown(w, HandleDrag, Point{10, 1})
			f.m.PointerMove(tt.to)
			if w.Rect.Left != tt.wantX || w.Rect.Top != tt.wantY {
				t.Errorf("position = (%d,%d), want (%d,%d)", w.Rect.Left, w.Rect.Top, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestDragSnaps(t *testing.T) {
	tests := []struct {
		name        string
		to          Point
		wantMode    Mode
		wantRect    Rect
		wantRestore int
		wantHasMax  bool
	}{
		{
			name:        "left edge",
			to:          Point{0, 10},
			wantMode:    ModeSnappedLeft,
			wantRect:    Rect{0, 0, 60, 40},
			wantRestore: 0,
		},
		{
			name:        "right edge",
			to:          Point{119, 10},
			wantMode:    ModeSnappedRight,
			wantRect:    Rect{60, 0, 60, 40},
			wantRestore: 80,
		},
		{
			name:        "top edge",
			to:          Point{50, 0},
			wantMode:    ModeMaximized,
			wantRect:    Rect{0, 0, 120, 40},
			wantRestore: 4,
			wantHasMax:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			w := f.m.AddWindow("a", nil)

			f.m.PointerDown(w, HandleDrag, Point{10, 1})
			f.m.PointerMove(Point{12, 5})
			f.m.PointerMove(tt.to)

			if w.Mode() != tt.wantMode {
				t.Fatalf("mode = %v, want %v", w.Mode(), tt.wantMode)
			}
			if w.Rect != tt.wantRect {
				t.Errorf("rect = %+v, want %+v", w.Rect, tt.wantRect)
			}
			r, ok := w.RestoreRect()
			if !ok || r.Left != tt.wantRestore {
				t.Errorf("restore left = %d (%v), want %d", r.Left, ok, tt.wantRestore)
			}
			if f.m.HasMaximized() != tt.wantHasMax {
				t.Errorf("has-maximized = %v, want %v", f.m.HasMaximized(), tt.wantHasMax)
			}
			if k, _ := f.m.Interaction(); k != Idle {
				t.Errorf("a snap ends the drag, got %v", k)
			}
			if !w.PointerRouted() {
				t.Error("a snap restores pointer routing")
			}

			f.m.RestoreWindow(w)
			if w.Rect.Width != 40 || w.Rect.Left != tt.wantRestore {
				t.Errorf("restored rect = %+v", w.Rect)
			}
		})
	}
}

func TestDragDoesNotSnapFixedSizeWindow(t *testing.T) {
	f := newFixture(t)
	w := f.m.AddWindow("a", nil)
	w.FixedSize = true

	f.m.PointerDown(w, HandleDrag, Point{10, 1})
	f.m.PointerMove(Point{0, 10})
	if w.Maximized() {
		t.Error("a window that cannot maximize must not snap")
	}
	if k, _ := f.m.Interaction(); k != Dragging {
		t.Errorf("interaction = %v, want dragging", k)
	}
}

func TestDragBlockedByFixedPosition(t *testing.T) {
	f := newFixture(t)
	w := f.m.AddWindow("a", nil)
	w.FixedPosition = true

	f.m.PointerDown(w, HandleDrag, Point{10, 1})
	if k, _ := f.m.Interaction(); k != Idle {
		t.Errorf("interaction = %v, want idle", k)
	}
	if !f.m.Focused().Focused() || f.m.Focused() != w {
		t.Error("the press should still focus the window")
	}
}

// =============================================================================
// Resize Tests
// =============================================================================

func TestResize(t *testing.T) {
	tests := []struct {
		name         string
		url          string
		limits       Limits
		to           Point
		wantW, wantH int
	}{
		{name: "grow", url: "a", to: Point{51, 17}, wantW: 50, wantH: 17},
		{name: "clamped to global minimum", url: "a", to: Point{0, 0}, wantW: 20, wantH: 6},
		{name: "per-window maximum", url: "lim", limits: Limits{MinW: 30, MaxW: 45}, to: Point{100, 30}, wantW: 45, wantH: 30},
		{name: "per-window minimum", url: "lim", limits: Limits{MinW: 30, MaxW: 45}, to: Point{0, 0}, wantW: 30, wantH: 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.display.limits[tt.url] = tt.limits
			w := f.m.AddWindow(tt.url, nil) // 40x12 at (2,1)

			f.m.PointerDown(w, HandleResize, Point{41, 12})
			if k, _ := f.m.Interaction(); k != Resizing {
				t.Fatalf("interaction = %v, want resizing", k)
			}
			f.m.PointerMove(tt.to)
			if w.Rect.Width != tt.wantW || w.Rect.Height != tt.wantH {
				t.Errorf("size = %dx%d, want %dx%d", w.Rect.Width, w.Rect.Height, tt.wantW, tt.wantH)
			}
			if w.Rect.Left != 2 || w.Rect.Top != 1 {
				t.Error("resizing must not move the window")
			}
		})
	}
}

func TestResizeAccumulatesFromClampedSize(t *testing.T) {
	f := newFixture(t)
	w := f.m.AddWindow("a", nil)

	f.m.PointerDown(w, HandleResize, Point{41, 12})
	f.m.PointerMove(Point{0, 12}) // width clamps to 20
	f.m.PointerMove(Point{5, 12}) // +5 from the clamped size
	if w.Rect.Width != 25 {
		t.Errorf("width = %d, want 25", w.Rect.Width)
	}
}

func TestResizeBlockedByFixedSize(t *testing.T) {
	f := newFixture(t)
	w := f.m.AddWindow("a", nil)
	w.FixedSize = true

	f.m.PointerDown(w, HandleResize, Point{41, 12})
	f.m.PointerMove(Point{60, 20})
	if w.Rect.Width != 40 || w.Rect.Height != 12 {
		t.Error("fixed-size window must not resize")
	}
}

// =============================================================================
// Unmaximize Tests
// =============================================================================

func TestTearOffMaximizedWindow(t *testing.T) {
	f := newFixture(t)
	w := f.m.AddWindow("a", nil)
	f.m.MaximizeWindow(w)

	f.m.PointerDown(w, HandleDrag, Point{50, 0})
	if k, _ := f.m.Interaction(); k != UnmaximizePending {
		t.Fatalf("interaction = %v, want unmaximize-pending", k)
	}

	f.m.PointerMove(Point{51, 1})
	if !w.Maximized() {
		t.Fatal("small moves must not restore")
	}

	f.m.PointerMove(Point{55, 4})
	if w.Maximized() {
		t.Fatal("window should be restored past the threshold")
	}
	if w.Rect.Left != 55 || w.Rect.Top != 4 || w.Rect.Width != 40 {
		t.Errorf("torn-off rect = %+v, want at (55,4) with restored width", w.Rect)
	}
	if k, _ := f.m.Interaction(); k != Dragging {
		t.Fatalf("interaction = %v, want dragging", k)
	}

	f.m.PointerMove(Point{57, 5})
	if w.Rect.Left != 57 || w.Rect.Top != 5 {
		t.Errorf("drag after tear-off = (%d,%d), want (57,5)", w.Rect.Left, w.Rect.Top)
	}
	f.m.PointerUp()
	if k, _ := f.m.Interaction(); k != Idle {
		t.Errorf("interaction = %v, want idle", k)
	}
}

func TestUnmaximizePendingRelease(t *testing.T) {
	f := newFixture(t)
	w := f.m.AddWindow("a", nil)
	f.m.MaximizeWindow(w)

	f.m.PointerDown(w, HandleFrame, Point{0, 20})
	f.m.PointerUp()
	if k, _ := f.m.Interaction(); k != Idle {
		t.Errorf("interaction = %v, want idle", k)
	}
	if !w.Maximized() {
		t.Error("a release without movement keeps the window maximized")
	}
	if !w.PointerRouted() {
		t.Error("release should restore pointer routing")
	}
}

func TestContentPressOnMaximizedWindow(t *testing.T) {
	f := newFixture(t)
	w := f.m.AddWindow("a", nil)
	f.m.MaximizeWindow(w)

	f.m.PointerDown(w, HandleContent, Point{30, 20})
	if k, _ := f.m.Interaction(); k != Idle {
		t.Errorf("interaction = %v, want idle", k)
	}
}

func TestModeChangeEndsInteraction(t *testing.T) {
	tests := []struct {
		name   string
		handle Handle
		msg    protocol.Message
		setup  func(*Manager, *Window)
		want   Rect
	}{
		{name: "maximize mid drag", handle: HandleDrag, msg: protocol.Maximize(), want: Rect{0, 0, 120, 40}},
		{name: "maximize mid resize", handle: HandleResize, msg: protocol.Maximize(), want: Rect{0, 0, 120, 40}},
		{
			name:   "restore while unmaximize pending",
			handle: HandleDrag,
			msg:    protocol.Restore(),
			setup:  func(m *Manager, w *Window) { m.MaximizeWindow(w) },
			want:   Rect{2, 1, 40, 12},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, noSnap)
			w := f.m.AddWindow("a", nil) // 40x12 at (2,1)
			if tt.setup != nil {
				tt.setup(f.m, w)
			}

			f.m.PointerDown(w, tt.handle, Point{10, 1})
			if k, _ := f.m.Interaction(); k == Idle {
				t.Fatal("press should start an interaction")
			}
			f.from(w, tt.msg)
			if k, _ := f.m.Interaction(); k != Idle {
				t.Errorf("interaction = %v after mode change, want idle", k)
			}
			if !w.PointerRouted() {
				t.Error("mode change should restore pointer routing")
			}

			f.m.PointerMove(Point{17, 5})
			f.m.PointerMove(Point{40, 20})
			if w.Rect != tt.want {
				t.Errorf("rect after move = %+v, want %+v", w.Rect, tt.want)
			}
		})
	}
}

// =============================================================================
// Button Tests
// =============================================================================

func TestTitlebarButtons(t *testing.T) {
	f := newFixture(t)
	w := f.m.AddWindow("a", nil)

	f.m.PointerDown(w, HandleMaximize, Point{})
	if w.Mode() != ModeMaximized {
		t.Error("maximize button should maximize")
	}
	f.m.PointerDown(w, HandleMaximize, Point{})
	if w.Mode() != ModeNormal {
		t.Error("maximize button should toggle back")
	}

	f.m.PointerDown(w, HandleMinimize, Point{})
	if !w.Minimized() {
		t.Error("minimize button should minimize")
	}
	f.m.UnminimizeWindow(w)

	f.m.PointerDown(w, HandleClose, Point{})
	if f.m.Managed(w) {
		t.Error("close button should remove the window")
	}
	if k, _ := f.m.Interaction(); k != Idle {
		t.Errorf("buttons never start an interaction, got %v", k)
	}
}

func TestPointerIgnoresUnmanagedWindows(t *testing.T) {
	f := newFixture(t)
	w := f.m.AddWindow("a", nil)
	f.m.RemoveWindow(w, true)

	f.m.PointerDown(w, HandleDrag, Point{10, 1})
	f.m.PointerMove(Point{20, 10})
	f.m.PointerUp()
	if k, _ := f.m.Interaction(); k != Idle {
		t.Errorf("interaction = %v, want idle", k)
	}
}

// =============================================================================
// Hit Testing Tests
// =============================================================================

func TestHitTest(t *testing.T) {
	f := newFixture(t)
	a := f.m.AddWindow("a", nil) // (2,1) 40x12

	tests := []struct {
		name string
		p    Point
		want Handle
	}{
		{"close button", Point{38, 1}, HandleClose},
		{"maximize button", Point{35, 1}, HandleMaximize},
		{"minimize button", Point{32, 1}, HandleMinimize},
		{"titlebar", Point{10, 1}, HandleDrag},
		{"resize corner", Point{41, 12}, HandleResize},
		{"content", Point{10, 5}, HandleContent},
		{"left border", Point{2, 5}, HandleFrame},
		{"bottom border", Point{10, 12}, HandleFrame},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := f.m.HitTest(tt.p)
			if w != a || h != tt.want {
				t.Errorf("HitTest(%v) = %v/%v, want a/%v", tt.p, w, h, tt.want)
			}
		})
	}

	if w, h := f.m.HitTest(Point{100, 30}); w != nil || h != HandleNone {
		t.Errorf("HitTest outside = %v/%v", w, h)
	}
}

func TestHitTestTopmostVisible(t *testing.T) {
	f := newFixture(t)
	a := f.m.AddWindow("a", nil) // (2,1)
	b := f.m.AddWindow("b", nil) // (6,3)

	if got := f.m.WindowAt(Point{10, 5}); got != b {
		t.Errorf("WindowAt = %v, want b", got)
	}
	f.m.MinimizeWindow(b)
	if got := f.m.WindowAt(Point{10, 5}); got != a {
		t.Errorf("WindowAt = %v, want a once b is minimized", got)
	}
}

func TestButtonSpan(t *testing.T) {
	r := Rect{Left: 0, Top: 0, Width: 30, Height: 10}
	from, to, ok := ButtonSpan(r, HandleClose)
	if !ok || from != 25 || to != 27 {
		t.Errorf("close span = %d..%d (%v), want 25..27", from, to, ok)
	}
	if _, _, ok := ButtonSpan(r, HandleDrag); ok {
		t.Error("drag is not a button")
	}
}
