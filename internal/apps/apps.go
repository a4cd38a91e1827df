// Package apps holds the in-process child applications and the launcher that
// runs them behind "app:" URLs. An app only ever talks to the host through
// its client.Client.
package apps

import (
	"errors"
	"slices"
	"strings"
	"sync"

	"github.com/Gaurav-Gosain/winshell/internal/client"
)

// ErrUnknownApp is returned when a URL names no registered app.
var ErrUnknownApp = errors.New("apps: unknown app")

// Scheme prefixes the URL of an in-process app.
const Scheme = "app:"

// App is an in-process child. Start runs once, before the client listens.
// Key and View are called from the display goroutine while client callbacks
// arrive on the channel goroutine, so implementations guard their state.
type App interface {
	Start(c *client.Client)
	// Key handles a key typed into the window. key is the key name
	// ("enter", "ctrl+s", "a"); text is the printable text, if any.
	Key(key, text string)
	// View renders the content in a width x height area.
	View(width, height int) string
	// Info describes the content once it has loaded.
	Info() Info
}

// Info is what an app reports about its content.
type Info struct {
	Title string
	Icon  string
	// Width and Height are the natural content size.
	Width, Height int
	// PreferredWidth and PreferredHeight, when set, replace the size the
	// host would compute.
	PreferredWidth, PreferredHeight int
}

// Factory creates a fresh app instance.
type Factory func() App

// Entry describes a registered app.
type Entry struct {
	Name        string
	Description string
	// Hidden apps are only opened by other apps, usually as dialogs.
	Hidden  bool
	Factory Factory
}

// Registry maps app names to factories.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]Entry)}
}

// Register adds or replaces an app.
func (r *Registry) Register(e Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[e.Name] = e
}

// Lookup returns the entry called name.
func (r *Registry) Lookup(name string) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[name]
	return e, ok
}

// Entries returns every app in name order.
func (r *Registry) Entries() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Entry, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e)
	}
	slices.SortFunc(out, func(a, b Entry) int { return strings.Compare(a.Name, b.Name) })
	return out
}

// Default returns a registry with the built-in apps.
func Default() *Registry {
	r := NewRegistry()
	r.Register(Entry{Name: "about", Description: "About winshell", Factory: func() App { return newAbout() }})
	r.Register(Entry{Name: "launcher", Description: "Open other apps", Factory: func() App { return newMenu(r) }})
	r.Register(Entry{Name: "notes", Description: "Scratch pad that asks before discarding", Factory: func() App { return newNotes() }})
	r.Register(Entry{Name: "chat", Description: "Talk to every other chat window", Factory: func() App { return newChat() }})
	r.Register(Entry{Name: "prompt", Description: "Ask for a line of text", Hidden: true, Factory: func() App { return newPrompt() }})
	r.Register(Entry{Name: "confirm", Description: "Ask a yes or no question", Hidden: true, Factory: func() App { return newConfirm() }})
	return r
}

// URL returns the URL that opens the app called name.
func URL(name string) string { return Scheme + name }

// ParseURL returns the app name of an "app:" URL.
func ParseURL(url string) (string, bool) {
	name, ok := strings.CutPrefix(url, Scheme)
	if !ok || name == "" {
		return "", false
	}
	return name, true
}
