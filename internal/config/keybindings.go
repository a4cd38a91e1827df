package config

import (
	"slices"
	"sort"
	"strings"
)

// ActionDescriptions lists every bindable action.
var ActionDescriptions = map[string]string{
	"new_window":      "Open launcher window",
	"close_window":    "Close focused window",
	"force_close":     "Force close focused window",
	"next_window":     "Focus next window",
	"prev_window":     "Focus previous window",
	"minimize_window": "Minimize focused window",
	"restore_all":     "Unminimize all windows",
	"toggle_maximize": "Maximize or restore focused window",
	"snap_left":       "Snap focused window left",
	"snap_right":      "Snap focused window right",
	"toggle_help":     "Toggle help",
	"toggle_log":      "Toggle log viewer",
	"quit":            "Quit",
}

// DefaultKeybindings returns the built-in bindings. Window actions use alt
// so that plain keys reach the focused window.
func DefaultKeybindings() map[string][]string {
	return map[string][]string{
		"new_window":      {"alt+n"},
		"close_window":    {"alt+w"},
		"force_close":     {"alt+x"},
		"next_window":     {"alt+j", "alt+tab"},
		"prev_window":     {"alt+k"},
		"minimize_window": {"alt+m"},
		"restore_all":     {"alt+u"},
		"toggle_maximize": {"alt+f"},
		"snap_left":       {"alt+h", "alt+left"},
		"snap_right":      {"alt+l", "alt+right"},
		"toggle_help":     {"alt+?"},
		"toggle_log":      {"alt+g"},
		"quit":            {"ctrl+q", "ctrl+c"},
	}
}

// Keybinding represents a single keybinding entry
type Keybinding struct {
	Key         string
	Description string
}

// KeybindingSection represents a section of related keybindings
type KeybindingSection struct {
	Title    string
	Bindings []Keybinding
}

// KeybindRegistry resolves keys to actions and back.
type KeybindRegistry struct {
	keys    map[string][]string
	actions map[string]string
}

// NewKeybindRegistry builds a registry from cfg.
func NewKeybindRegistry(cfg *Config) *KeybindRegistry {
	r := &KeybindRegistry{
		keys:    make(map[string][]string),
		actions: make(map[string]string),
	}
	for action, keys := range cfg.Keybindings {
		r.keys[action] = slices.Clone(keys)
		for _, k := range keys {
			r.actions[k] = action
		}
	}
	return r
}

// GetKeys returns the keys bound to action.
func (r *KeybindRegistry) GetKeys(action string) []string {
	return r.keys[action]
}

// GetAction returns the action bound to key, or "".
func (r *KeybindRegistry) GetAction(key string) string {
	return r.actions[key]
}

// GetKeysForDisplay joins the keys of action for help output.
func (r *KeybindRegistry) GetKeysForDisplay(action string) string {
	return strings.Join(r.keys[action], ", ")
}

// GetKeybindings returns the help sections
func GetKeybindings(registry *KeybindRegistry) []KeybindingSection {
	windows := KeybindingSection{Title: "WINDOWS"}
	for _, action := range []string{
		"new_window", "close_window", "force_close", "next_window",
		"prev_window", "minimize_window", "restore_all",
	} {
		addBinding(&windows, registry, action)
	}

	layout := KeybindingSection{Title: "LAYOUT"}
	for _, action := range []string{"toggle_maximize", "snap_left", "snap_right"} {
		addBinding(&layout, registry, action)
	}

	general := KeybindingSection{Title: "GENERAL"}
	for _, action := range []string{"toggle_help", "toggle_log", "quit"} {
		addBinding(&general, registry, action)
	}

	mouse := KeybindingSection{
		Title: "MOUSE",
		Bindings: []Keybinding{
			{"Drag titlebar", "Move window (drag to an edge to snap)"},
			{"Drag corner", "Resize window"},
			{"Double click titlebar", "Maximize or restore"},
			{"[_] [□] [x]", "Minimize, maximize, close"},
		},
	}

	var sections []KeybindingSection
	for _, s := range []KeybindingSection{windows, layout, general} {
		if len(s.Bindings) > 0 {
			sections = append(sections, s)
		}
	}
	return append(sections, mouse)
}

// SortedActions returns every known action in name order.
func SortedActions() []string {
	actions := make([]string, 0, len(ActionDescriptions))
	for a := range ActionDescriptions {
		actions = append(actions, a)
	}
	sort.Strings(actions)
	return actions
}

// addBinding adds a keybinding to a section if the action has keys configured
func addBinding(section *KeybindingSection, registry *KeybindRegistry, action string) {
	keys := registry.GetKeysForDisplay(action)
	if keys != "" {
		section.Bindings = append(section.Bindings, Keybinding{
			Key:         keys,
			Description: ActionDescriptions[action],
		})
	}
}
