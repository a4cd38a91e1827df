package wm

// Handle names the part of a window a pointer press landed on.
type Handle int

const (
	// HandleNone is a press outside every window.
	HandleNone Handle = iota
	// HandleContent is the area owned by the child surface.
	HandleContent
	// HandleFrame is chrome that is not a specific control.
	HandleFrame
	HandleDrag
	HandleResize
	HandleClose
	HandleMaximize
	HandleMinimize
)

func (h Handle) String() string {
	switch h {
	case HandleContent:
		return "content"
	case HandleFrame:
		return "frame"
	case HandleDrag:
		return "drag"
	case HandleResize:
		return "resize"
	case HandleClose:
		return "close"
	case HandleMaximize:
		return "maximize"
	case HandleMinimize:
		return "minimize"
	default:
		return "none"
	}
}

// InteractionKind is the state of the pointer state machine.
type InteractionKind int

const (
	Idle InteractionKind = iota
	Dragging
	Resizing
	UnmaximizePending
)

func (k InteractionKind) String() string {
	switch k {
	case Dragging:
		return "dragging"
	case Resizing:
		return "resizing"
	case UnmaximizePending:
		return "unmaximize-pending"
	default:
		return "idle"
	}
}

// interaction is the active pointer state. A nil interaction is idle.
type interaction interface {
	kind() InteractionKind
	window() *Window
}

type dragging struct {
	win  *Window
	last Point
}

type resizing struct {
	win  *Window
	last Point
	w, h int
}

type unmaximizePending struct {
	win    *Window
	origin Point
}

func (*dragging) kind() InteractionKind          { return Dragging }
func (*resizing) kind() InteractionKind          { return Resizing }
func (*unmaximizePending) kind() InteractionKind { return UnmaximizePending }

func (s *dragging) window() *Window          { return s.win }
func (s *resizing) window() *Window          { return s.win }
func (s *unmaximizePending) window() *Window { return s.win }

// Interaction returns the current pointer state and the window it targets.
func (m *Manager) Interaction() (InteractionKind, *Window) {
	if m.state == nil {
		return Idle, nil
	}
	return m.state.kind(), m.state.window()
}

// PointerDown handles a primary button press on handle h of w at p.
func (m *Manager) PointerDown(w *Window, h Handle, p Point) {
	if !m.Managed(w) || w.minimized {
		return
	}
	if m.state != nil {
		m.endInteraction()
	}
	m.FocusWindow(w)

	switch h {
	case HandleClose:
		m.RemoveWindow(w, false)
		return
	case HandleMaximize:
		m.ToggleMaximize(w)
		return
	case HandleMinimize:
		m.MinimizeWindow(w)
		return
	}

	if w.mode.Maximized() {
		// The content keeps presses on its own surface.
		if h == HandleContent || h == HandleNone {
			return
		}
		m.log.Debug("unmaximize pending", "window", w, "at", p)
		m.begin(&unmaximizePending{win: w, origin: p})
		return
	}

	switch h {
	case HandleDrag:
		if w.FixedPosition {
			return
		}
		m.log.Debug("drag start", "window", w, "at", p)
		m.begin(&dragging{win: w, last: p})
	case HandleResize:
		if w.FixedSize {
			return
		}
		m.log.Debug("resize start", "window", w, "at", p)
		m.begin(&resizing{win: w, last: p, w: w.Rect.Width, h: w.Rect.Height})
	}
}

// PointerMove advances the active interaction.
func (m *Manager) PointerMove(p Point) {
	switch s := m.state.(type) {
	case *unmaximizePending:
		m.tearOff(s, p)
	case *dragging:
		m.drag(s, p)
	case *resizing:
		m.resize(s, p)
	}
}

// PointerUp ends the active interaction.
func (m *Manager) PointerUp() {
	if m.state == nil {
		return
	}
	m.log.Debug("interaction end", "state", m.state.kind(), "window", m.state.window())
	m.endInteraction()
}

func (m *Manager) begin(s interaction) {
	m.state = s
	for _, w := range m.windows {
		if w.pointerRouted {
			w.pointerRouted = false
			m.display.Update(w)
		}
	}
}

func (m *Manager) endInteraction() {
	m.state = nil
	m.restorePointerRouting()
}

// cancelInteraction ends the interaction if it targets w.
func (m *Manager) cancelInteraction(w *Window) {
	if m.state != nil && m.state.window() == w {
		m.endInteraction()
	}
}

// restorePointerRouting gives pointer input back to the focused window only.
func (m *Manager) restorePointerRouting() {
	for _, w := range m.windows {
		routed := w.focused
		if w.pointerRouted != routed {
			w.pointerRouted = routed
			m.display.Update(w)
		}
	}
}

// tearOff restores a maximized window once the pointer moved far enough and
// continues as a drag from the pointer position.
func (m *Manager) tearOff(s *unmaximizePending, p Point) {
	if p.Sub(s.origin).Dist() <= float64(m.cfg.Behavior.UnmaximizeThreshold) {
		return
	}
	w := s.win
	m.log.Debug("unmaximize by drag", "window", w)
	m.RestoreWindow(w)
	w.Rect.Left, w.Rect.Top = p.X, p.Y
	m.display.Update(w)
	m.begin(&dragging{win: w, last: p})
}

func (m *Manager) drag(s *dragging, p Point) {
	w := s.win
	b := m.cfg.Behavior
	dw, dh := m.display.Size()

	if b.Snapping && w.canMaximize() {
		mode := ModeNormal
		switch {
		case p.X < b.SnapRange:
			mode = ModeSnappedLeft
		case p.X >= dw-b.SnapRange:
			mode = ModeSnappedRight
		case p.Y < b.SnapRange:
			mode = ModeMaximized
		}
		if mode != ModeNormal {
			m.log.Debug("snap", "window", w, "mode", mode)
			m.maximize(w, mode)
			m.endInteraction()
			return
		}
	}

	delta := p.Sub(s.last)
	x := w.Rect.Left + delta.X
	y := w.Rect.Top + delta.Y
	if b.KeepVisible {
		f := b.VisibleFraction
		width := float64(w.Rect.Width)
		x = clamp(x, -int((1-f)*width), dw-int(f*width))
		y = clamp(y, 0, dh-b.TitlebarHeight)
	}
	w.Rect.Left, w.Rect.Top = x, y
	s.last = p

	m.display.Update(w)
	m.events.Emit(WindowMoved{Window: w, Delta: delta})
}

func (m *Manager) resize(s *resizing, p Point) {
	w := s.win
	delta := p.Sub(s.last)
	lim := w.Limits.resolve(m.defaultLimits())
	s.w, s.h = lim.clampSize(s.w+delta.X, s.h+delta.Y)
	s.last = p
	w.Rect.Width, w.Rect.Height = s.w, s.h

	m.display.Update(w)
	m.events.Emit(WindowResized{Window: w, Delta: delta})
}

func (m *Manager) defaultLimits() Limits {
	l := m.cfg.Limits
	return Limits{MinW: l.ResizeMinW, MinH: l.ResizeMinH, MaxW: l.ResizeMaxW, MaxH: l.ResizeMaxH}
}
