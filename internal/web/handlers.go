package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Gaurav-Gosain/winshell/internal/input"
	"github.com/Gaurav-Gosain/winshell/internal/wm"
	"github.com/go-chi/chi/v5"
)

// RectView is a window frame on the wire.
type RectView struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// WindowView is the JSON shape of a window.
type WindowView struct {
	ID            string    `json:"id"`
	URL           string    `json:"url"`
	Title         string    `json:"title"`
	Icon          string    `json:"icon,omitempty"`
	Rect          RectView  `json:"rect"`
	Restore       *RectView `json:"restore,omitempty"`
	Z             int       `json:"z"`
	Mode          string    `json:"mode"`
	Minimized     bool      `json:"minimized"`
	Focused       bool      `json:"focused"`
	Disabled      bool      `json:"disabled"`
	Loaded        bool      `json:"loaded"`
	FixedPosition bool      `json:"fixed_position"`
	FixedSize     bool      `json:"fixed_size"`
	CloseConfirm  bool      `json:"close_confirm"`
	Parent        string    `json:"parent,omitempty"`
}

func rectView(r wm.Rect) RectView {
	return RectView{X: r.Left, Y: r.Top, W: r.Width, H: r.Height}
}

// viewOf snapshots w. It must run on the manager loop.
func viewOf(w *wm.Window) WindowView {
	v := WindowView{
		ID:            w.ID,
		URL:           w.URL,
		Title:         w.Title,
		Icon:          w.Icon,
		Rect:          rectView(w.Rect),
		Z:             w.Z,
		Mode:          w.Mode().String(),
		Minimized:     w.Minimized(),
		Focused:       w.Focused(),
		Disabled:      w.Disabled,
		Loaded:        w.Loaded(),
		FixedPosition: w.FixedPosition,
		FixedSize:     w.FixedSize,
		CloseConfirm:  w.CloseConfirm,
	}
	if r, ok := w.RestoreRect(); ok {
		rv := rectView(r)
		v.Restore = &rv
	}
	if p := w.Parent(); p != nil {
		v.Parent = p.ID
	}
	return v
}

// AddWindowRequest opens a window.
type AddWindowRequest struct {
	URL string          `json:"url"`
	Arg json.RawMessage `json:"arg,omitempty"`
}

// InputResponse reports whether the window manager consumed a pointer event.
type InputResponse struct {
	Consumed bool `json:"consumed"`
}

var errNotFound = errors.New("window not found")

func (s *Server) handleListWindows(w http.ResponseWriter, r *http.Request) {
	var views []WindowView
	err := s.do(r, func() {
		for _, win := range s.m.Windows() {
			views = append(views, viewOf(win))
		}
	})
	if err != nil {
		respondError(w, http.StatusServiceUnavailable, err)
		return
	}
	if views == nil {
		views = []WindowView{}
	}
	respondJSON(w, http.StatusOK, views)
}

func (s *Server) handleAddWindow(w http.ResponseWriter, r *http.Request) {
	var req AddWindowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	if req.URL == "" {
		respondError(w, http.StatusBadRequest, errors.New("url is required"))
		return
	}

	var view WindowView
	if err := s.do(r, func() { view = viewOf(s.m.AddWindow(req.URL, req.Arg)) }); err != nil {
		respondError(w, http.StatusServiceUnavailable, err)
		return
	}
	logger.Info("window added", "id", view.ID, "url", req.URL, "remote", r.RemoteAddr)
	respondJSON(w, http.StatusCreated, view)
}

func (s *Server) handleGetWindow(w http.ResponseWriter, r *http.Request) {
	s.withWindow(w, r, func(win *wm.Window) (int, any) {
		return http.StatusOK, viewOf(win)
	})
}

func (s *Server) handleRemoveWindow(w http.ResponseWriter, r *http.Request) {
	force := r.URL.Query().Get("force") == "true"
	s.withWindow(w, r, func(win *wm.Window) (int, any) {
		s.m.RemoveWindow(win, force)
		if s.m.Managed(win) {
			// The child was asked to confirm.
			return http.StatusAccepted, viewOf(win)
		}
		return http.StatusNoContent, nil
	})
}

// windowActions are the operations POST /windows/{id}/{action} accepts.
var windowActions = map[string]func(*wm.Manager, *wm.Window){
	"focus":      (*wm.Manager).FocusWindow,
	"minimize":   (*wm.Manager).MinimizeWindow,
	"unminimize": (*wm.Manager).UnminimizeWindow,
	"maximize":   (*wm.Manager).MaximizeWindow,
	"restore":    (*wm.Manager).RestoreWindow,
	"toggle":     (*wm.Manager).ToggleMaximize,
	"snap-left":  func(m *wm.Manager, w *wm.Window) { m.SnapWindow(w, wm.SideLeft) },
	"snap-right": func(m *wm.Manager, w *wm.Window) { m.SnapWindow(w, wm.SideRight) },
}

func (s *Server) handleWindowAction(w http.ResponseWriter, r *http.Request) {
	action := chi.URLParam(r, "action")
	op, ok := windowActions[action]
	if !ok {
		respondError(w, http.StatusNotFound, errors.New("unknown action "+action))
		return
	}
	s.withWindow(w, r, func(win *wm.Window) (int, any) {
		op(s.m, win)
		return http.StatusOK, viewOf(win)
	})
}

// withWindow resolves {id} and runs fn on the manager loop.
func (s *Server) withWindow(w http.ResponseWriter, r *http.Request, fn func(*wm.Window) (int, any)) {
	id := chi.URLParam(r, "id")
	status, payload := http.StatusNotFound, any(nil)
	err := s.do(r, func() {
		if win := s.m.Window(id); win != nil {
			status, payload = fn(win)
		}
	})
	switch {
	case err != nil:
		respondError(w, http.StatusServiceUnavailable, err)
	case status == http.StatusNotFound:
		respondError(w, status, errNotFound)
	case payload == nil:
		w.WriteHeader(status)
	default:
		respondJSON(w, status, payload)
	}
}

func (s *Server) handleInput(w http.ResponseWriter, r *http.Request) {
	var ev input.TouchEvent
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	if err := ev.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	pe, ok := input.FromTouch(ev)
	if !ok {
		respondJSON(w, http.StatusOK, InputResponse{})
		return
	}

	var consumed bool
	if err := s.do(r, func() { consumed = s.adapter.Handle(pe) }); err != nil {
		respondError(w, http.StatusServiceUnavailable, err)
		return
	}
	respondJSON(w, http.StatusOK, InputResponse{Consumed: consumed})
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, err error) {
	respondJSON(w, status, struct {
		Error  string `json:"error"`
		Status int    `json:"status"`
	}{Error: err.Error(), Status: status})
}
