package wm

import (
	"math"

	"github.com/Gaurav-Gosain/winshell/internal/config"
)

// Point is a position on the display.
type Point struct {
	X, Y int
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Dist returns the euclidean distance from the origin.
func (p Point) Dist() float64 { return math.Hypot(float64(p.X), float64(p.Y)) }

// Rect is a window frame in display coordinates.
type Rect struct {
	Left, Top     int
	Width, Height int
}

// Right returns the first column past the rect.
func (r Rect) Right() int { return r.Left + r.Width }

// Bottom returns the first row past the rect.
func (r Rect) Bottom() int { return r.Top + r.Height }

// Contains reports whether p lies inside r.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Left && p.X < r.Right() && p.Y >= r.Top && p.Y < r.Bottom()
}

// Limits are per-window size bounds. Zero fields fall back to the global
// defaults; a zero maximum means unbounded.
type Limits struct {
	MinW, MinH int
	MaxW, MaxH int
}

// URLLimits returns the limits configured for windows opened on url.
func URLLimits(windows map[string]config.WindowLimits, url string) Limits {
	l, ok := windows[url]
	if !ok {
		return Limits{}
	}
	return Limits{MinW: l.MinW, MinH: l.MinH, MaxW: l.MaxW, MaxH: l.MaxH}
}

// resolve layers l over the defaults.
func (l Limits) resolve(def Limits) Limits {
	out := def
	if l.MinW > 0 {
		out.MinW = l.MinW
	}
	if l.MinH > 0 {
		out.MinH = l.MinH
	}
	if l.MaxW > 0 {
		out.MaxW = l.MaxW
	}
	if l.MaxH > 0 {
		out.MaxH = l.MaxH
	}
	return out
}

// clampSize bounds w and h by l. The minimum wins over a smaller maximum.
func (l Limits) clampSize(w, h int) (int, int) {
	if l.MaxW > 0 {
		w = min(w, l.MaxW)
	}
	if l.MaxH > 0 {
		h = min(h, l.MaxH)
	}
	return max(w, l.MinW), max(h, l.MinH)
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	return min(max(v, lo), hi)
}
