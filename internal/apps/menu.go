package apps

import (
	"fmt"
	"sync"

	"github.com/Gaurav-Gosain/winshell/internal/client"
)

// menu lists the registered apps and opens the selected one.
type menu struct {
	reg *Registry
	c   *client.Client

	mu  sync.Mutex
	sel int
	err error
}

func newMenu(reg *Registry) *menu { return &menu{reg: reg} }

func (m *menu) Start(c *client.Client) { m.c = c }

func (m *menu) entries() []Entry {
	var out []Entry
	for _, e := range m.reg.Entries() {
		if !e.Hidden {
			out = append(out, e)
		}
	}
	return out
}

func (m *menu) Key(key, _ string) {
	entries := m.entries()
	m.mu.Lock()
	defer m.mu.Unlock()
	switch key {
	case "up", "k":
		m.sel = max(m.sel-1, 0)
	case "down", "j":
		m.sel = min(m.sel+1, len(entries)-1)
	case "enter":
		if m.sel < len(entries) {
			m.err = m.c.AddWindow(URL(entries[m.sel].Name), nil)
		}
	case "esc", "q":
		m.err = m.c.Close(false)
	}
}

func (m *menu) lines() []string {
	entries := m.entries()
	m.mu.Lock()
	defer m.mu.Unlock()
	lines := make([]string, 0, len(entries)+2)
	for i, e := range entries {
		line := fmt.Sprintf(" %-9s %s ", e.Name, dimStyle.Render(e.Description))
		if i == m.sel {
			line = selStyle.Render(fmt.Sprintf(" %-9s %s ", e.Name, e.Description))
		}
		lines = append(lines, line)
	}
	if m.err != nil {
		lines = append(lines, "", "error: "+m.err.Error())
	}
	return lines
}

func (m *menu) View(width, height int) string { return fit(m.lines(), width, height) }

func (m *menu) Info() Info {
	w, h := size(m.lines())
	return Info{Title: "Launcher", Icon: "▤", Width: w, Height: h}
}
