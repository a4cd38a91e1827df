package apps

import (
	"encoding/json"
	"sync"

	"github.com/Gaurav-Gosain/winshell/internal/client"
	"github.com/Gaurav-Gosain/winshell/internal/protocol"
)

// about shows a static page and the argument it was opened with.
type about struct {
	mu  sync.Mutex
	arg string
}

func newAbout() *about { return &about{} }

var aboutText = []string{
	"winshell",
	"",
	"Windows are moved by their titlebar and",
	"resized from the bottom right corner.",
	"Drag to the left or right edge to snap,",
	"to the top edge to maximize.",
	"",
	"alt+n opens the launcher, alt+? the help.",
}

func (a *about) Start(c *client.Client) {
	c.OnWindowArg(func(arg json.RawMessage) {
		a.mu.Lock()
		defer a.mu.Unlock()
		if !protocol.IsNull(arg) {
			a.arg = string(arg)
		}
	})
}

func (a *about) Key(string, string) {}

func (a *about) lines() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	lines := append([]string{accentStyle.Render(aboutText[0])}, aboutText[1:]...)
	if a.arg != "" {
		lines = append(lines, "", dimStyle.Render("arg: "+a.arg))
	}
	return lines
}

func (a *about) View(width, height int) string { return fit(a.lines(), width, height) }

func (a *about) Info() Info {
	w, h := size(a.lines())
	return Info{Title: "About", Icon: "ℹ", Width: w, Height: h}
}
