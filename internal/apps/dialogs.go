package apps

import (
	"encoding/json"
	"sync"

	"github.com/Gaurav-Gosain/winshell/internal/client"
)

// DialogArg is the window argument of the prompt and confirm dialogs.
type DialogArg struct {
	Question string `json:"question"`
	Value    string `json:"value,omitempty"`
}

// prompt asks for one line of text and returns it as a JSON string, or null
// when cancelled.
type prompt struct {
	c *client.Client

	mu       sync.Mutex
	question string
	input    lineInput
	done     bool
}

func newPrompt() *prompt { return &prompt{question: "?"} }

func (p *prompt) Start(c *client.Client) {
	p.c = c
	c.OnWindowArg(func(raw json.RawMessage) {
		var arg DialogArg
		if err := json.Unmarshal(raw, &arg); err != nil {
			return
		}
		p.mu.Lock()
		defer p.mu.Unlock()
		if arg.Question != "" {
			p.question = arg.Question
		}
		p.input.value = []rune(arg.Value)
	})
	c.SetFixedSize(true)
	// Closing the prompt from its chrome cancels it.
	c.SetConfirm(true)
	c.OnCloseConfirm(func() bool {
		p.mu.Lock()
		defer p.mu.Unlock()
		if !p.done {
			p.finish(nil)
		}
		return true
	})
}

func (p *prompt) Key(key, text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.done {
		return
	}
	switch key {
	case "enter":
		v, _ := json.Marshal(p.input.String())
		p.finish(v)
	case "esc":
		p.finish(nil)
	default:
		p.input.key(key, text)
	}
}

// finish returns v to the opener and closes the dialog.
func (p *prompt) finish(v json.RawMessage) {
	p.done = true
	p.c.ReturnDialog(v)
	p.c.Close(true)
}

func (p *prompt) lines(width int) []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return []string{
		accentStyle.Render(p.question),
		"> " + p.input.view(width-2),
		dimStyle.Render("enter to accept, esc to cancel"),
	}
}

func (p *prompt) View(width, height int) string { return fit(p.lines(width), width, height) }

func (p *prompt) Info() Info {
	w, h := size(p.lines(0))
	return Info{Title: "Input", Icon: "?", PreferredWidth: max(w, 30) + 2, PreferredHeight: h + 2}
}

// confirm asks a yes or no question and returns a JSON bool.
type confirm struct {
	c *client.Client

	mu       sync.Mutex
	question string
	done     bool
}

func newConfirm() *confirm { return &confirm{question: "Are you sure?"} }

func (d *confirm) Start(c *client.Client) {
	d.c = c
	c.OnWindowArg(func(raw json.RawMessage) {
		var arg DialogArg
		if err := json.Unmarshal(raw, &arg); err != nil || arg.Question == "" {
			return
		}
		d.mu.Lock()
		d.question = arg.Question
		d.mu.Unlock()
	})
	c.SetFixedSize(true)
	// Closing the dialog from its chrome answers no.
	c.SetConfirm(true)
	c.OnCloseConfirm(func() bool {
		d.answer(false)
		return true
	})
}

func (d *confirm) Key(key, _ string) {
	switch key {
	case "y", "enter":
		d.answer(true)
	case "n", "esc":
		d.answer(false)
	}
}

func (d *confirm) answer(yes bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.done {
		return
	}
	d.done = true
	v, _ := json.Marshal(yes)
	d.c.ReturnDialog(v)
	d.c.Close(true)
}

func (d *confirm) lines() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return []string{accentStyle.Render(d.question), "", dimStyle.Render("[y]es / [n]o")}
}

func (d *confirm) View(width, height int) string { return fit(d.lines(), width, height) }

func (d *confirm) Info() Info {
	w, h := size(d.lines())
	return Info{Title: "Confirm", Icon: "!", PreferredWidth: max(w, 24) + 2, PreferredHeight: h + 2}
}
