package wm

// titlebarButtons lists the titlebar controls from right to left.
var titlebarButtons = [...]Handle{HandleClose, HandleMaximize, HandleMinimize}

const (
	buttonWidth  = 3
	buttonMargin = 2
)

// ButtonSpan returns the first and last column of a titlebar button of a
// window with frame r. ok is false for handles that are not buttons.
func ButtonSpan(r Rect, h Handle) (from, to int, ok bool) {
	for i, b := range titlebarButtons {
		if b == h {
			to = r.Right() - 1 - buttonMargin - i*buttonWidth
			return to - buttonWidth + 1, to, true
		}
	}
	return 0, 0, false
}

// WindowAt returns the topmost visible window containing p.
func (m *Manager) WindowAt(p Point) *Window {
	for i := len(m.windows) - 1; i >= 0; i-- {
		w := m.windows[i]
		if !w.minimized && w.Rect.Contains(p) {
			return w
		}
	}
	return nil
}

// HitTest returns the topmost visible window under p and the part of it that
// was hit.
func (m *Manager) HitTest(p Point) (*Window, Handle) {
	w := m.WindowAt(p)
	if w == nil {
		return nil, HandleNone
	}
	return w, m.handleAt(w, p)
}

func (m *Manager) handleAt(w *Window, p Point) Handle {
	r := w.Rect
	b := m.cfg.Behavior

	if p.Y < r.Top+b.TitlebarHeight {
		for _, h := range titlebarButtons {
			if from, to, _ := ButtonSpan(r, h); p.X >= from && p.X <= to {
				return h
			}
		}
		return HandleDrag
	}

	if g := b.ResizeHandleSize; g > 0 && p.X >= r.Right()-g && p.Y >= r.Bottom()-g {
		return HandleResize
	}

	bw, bh := m.display.Insets()
	side := bw / 2
	bottom := bh - b.TitlebarHeight
	if p.X < r.Left+side || p.X >= r.Right()-side || p.Y >= r.Bottom()-bottom {
		return HandleFrame
	}
	return HandleContent
}
