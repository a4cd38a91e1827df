package apps

import (
	"encoding/json"
	"strings"
	"sync"

	"github.com/Gaurav-Gosain/winshell/internal/client"
)

// notes is a small scratch pad. Once edited it asks for confirmation before
// it may close, using a confirm dialog.
type notes struct {
	c *client.Client

	mu    sync.Mutex
	lines []string
	input lineInput
	dirty bool
}

func newNotes() *notes { return &notes{} }

func (n *notes) Start(c *client.Client) {
	n.c = c
	c.OnWindowArg(func(raw json.RawMessage) {
		var text string
		if json.Unmarshal(raw, &text) != nil || text == "" {
			return
		}
		n.mu.Lock()
		n.lines = strings.Split(text, "\n")
		n.mu.Unlock()
	})
	c.OnCloseConfirm(func() bool {
		arg, _ := json.Marshal(DialogArg{Question: "Discard notes?"})
		c.AddDialog(URL("confirm"), arg, func(raw json.RawMessage) {
			var discard bool
			if json.Unmarshal(raw, &discard) == nil && discard {
				c.Close(true)
			}
		})
		return true
	})
}

func (n *notes) Key(key, text string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	switch key {
	case "ctrl+t":
		arg, _ := json.Marshal(DialogArg{Question: "Title"})
		n.c.AddDialog(URL("prompt"), arg, func(raw json.RawMessage) {
			var title string
			if json.Unmarshal(raw, &title) == nil && title != "" {
				n.c.SetTitle(title)
			}
		})
		return
	case "enter":
		n.lines = append(n.lines, n.input.String())
		n.input.reset()
	default:
		if !n.input.key(key, text) {
			return
		}
	}
	if !n.dirty {
		n.dirty = true
		n.c.SetConfirm(true)
	}
}

func (n *notes) View(width, height int) string {
	n.mu.Lock()
	defer n.mu.Unlock()
	lines := append(append([]string(nil), n.lines...), n.input.view(width))
	return fit(lines, width, height)
}

func (n *notes) Info() Info {
	return Info{Title: "Notes", Icon: "✎", PreferredWidth: 48, PreferredHeight: 14}
}
